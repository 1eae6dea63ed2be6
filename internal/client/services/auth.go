// Package services contains the CLI-side application services. AuthService
// owns the signed-in session and persists it in the local database so the
// next run can resume without a password.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/rewear/internal/api"
	"github.com/dmitrijs2005/rewear/internal/client/client"
	"github.com/dmitrijs2005/rewear/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/logging"
	"google.golang.org/grpc"
)

var ErrNoSession = errors.New("no saved session")

// Session is the signed-in member as the CLI knows it.
type Session struct {
	UserID string
	Email  string
	Role   string
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}

// AuthClient is the part of client.GRPCClient the service needs.
type AuthClient interface {
	Register(ctx context.Context, in *api.RegisterRequest, opts ...grpc.CallOption) (*api.RegisterResponse, error)
	Login(ctx context.Context, email, password string) (*api.TokenResponse, error)
	Resume(ctx context.Context, refreshToken string) (*api.TokenResponse, error)
	Logout(ctx context.Context) error
	OnTokens(fn func(*api.TokenResponse))
	Ping(ctx context.Context, opts ...grpc.CallOption) (*api.PingResponse, error)
}

type AuthService interface {
	Register(ctx context.Context, email string, password []byte, name string) (string, error)
	Login(ctx context.Context, email string, password []byte) (*Session, error)
	Resume(ctx context.Context) (*Session, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	client AuthClient
	meta   metadata.Repository
	log    logging.Logger

	// serializes token persistence
	mu sync.Mutex
}

func NewAuthService(c AuthClient, meta metadata.Repository, log logging.Logger) AuthService {
	s := &authService{client: c, meta: meta, log: log.With("module", "auth")}
	c.OnTokens(s.persist)
	return s
}

// persist stores every new token pair; refresh tokens are single use, so a
// stale one on disk would make the next Resume fail.
func (s *authService) persist(resp *api.TokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.meta.SetAll(context.Background(), map[metadata.Key]string{
		metadata.KeyUserID:       resp.UserID,
		metadata.KeyRole:         resp.Role,
		metadata.KeyRefreshToken: resp.RefreshToken,
	})
	if err != nil {
		s.log.Warn(context.Background(), "could not save session", "error", err)
	}
}

func (s *authService) Register(ctx context.Context, email string, password []byte, name string) (string, error) {
	resp, err := s.client.Register(ctx, &api.RegisterRequest{Email: email, Password: string(password), Name: name})
	if err != nil {
		return "", err
	}
	return resp.UserID, nil
}

func (s *authService) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	resp, err := s.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}

	if err := s.meta.SetAll(ctx, map[metadata.Key]string{metadata.KeyEmail: email}); err != nil {
		s.log.Warn(ctx, "could not save email", "error", err)
	}

	return &Session{UserID: resp.UserID, Email: email, Role: resp.Role}, nil
}

// Resume signs in with the refresh token saved by an earlier run. A token
// the server no longer accepts is wiped.
func (s *authService) Resume(ctx context.Context) (*Session, error) {
	refresh, err := s.meta.Get(ctx, metadata.KeyRefreshToken)
	if err != nil {
		return nil, err
	}
	if refresh == "" {
		return nil, ErrNoSession
	}

	resp, err := s.client.Resume(ctx, refresh)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) ||
			errors.Is(err, common.ErrRefreshTokenExpired) ||
			errors.Is(err, common.ErrNotAuthenticated) {
			if cerr := s.meta.Clear(ctx); cerr != nil {
				s.log.Warn(ctx, "could not clear session", "error", cerr)
			}
		}
		return nil, err
	}

	email, err := s.meta.Get(ctx, metadata.KeyEmail)
	if err != nil {
		return nil, err
	}

	return &Session{UserID: resp.UserID, Email: email, Role: resp.Role}, nil
}

func (s *authService) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	if cerr := s.meta.Clear(ctx); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

func (s *authService) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx)
	if err != nil {
		return err
	}
	if resp.Status != "OK" {
		return fmt.Errorf("%w: status %q", client.ErrUnavailable, resp.Status)
	}
	return nil
}
