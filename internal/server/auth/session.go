package auth

import (
	"context"
	"time"

	"github.com/dmitrijs2005/rewear/internal/server/models"
)

// Session is the authenticated caller as seen by the services. It is
// produced by UserService.Authenticate and passed explicitly.
type Session struct {
	UserID    string
	Role      models.Role
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by WithSession, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
