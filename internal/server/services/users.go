package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/dbx"
	"github.com/dmitrijs2005/rewear/internal/logging"
	"github.com/dmitrijs2005/rewear/internal/server/auth"
	"github.com/dmitrijs2005/rewear/internal/server/config"
	"github.com/dmitrijs2005/rewear/internal/server/models"
)

// TokenPair is what a successful sign-in or refresh hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Session      *auth.Session
}

type UserService struct {
	store                        Store
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	initialPoints                int64
	adminEmails                  map[string]struct{}
}

func NewUserService(store Store, cfg *config.Config, log logging.Logger) *UserService {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &UserService{
		store:                        store,
		log:                          log.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		initialPoints:                cfg.InitialPoints,
		adminEmails:                  admins,
	}
}

// Register creates an account holding the signup grant.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, validation("invalid email %q", email)
	}
	if len(password) < auth.MinPasswordLength {
		return nil, validation("password must be at least %d characters", auth.MinPasswordLength)
	}
	if len(password) > auth.MaxPasswordLength {
		return nil, validation("password must be at most %d bytes", auth.MaxPasswordLength)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	role := models.RoleUser
	if _, ok := s.adminEmails[email]; ok {
		role = models.RoleAdmin
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Points:       s.initialPoints,
	}

	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.store.Repos.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		user = created
		if user.Points == 0 {
			return nil
		}
		_, err = s.store.Repos.PointTransactions(tx).Append(ctx, &models.PointTransaction{
			UserID:       user.ID,
			Amount:       user.Points,
			BalanceAfter: user.Points,
			Kind:         models.PointSignupGrant,
		})
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// SignIn checks the credentials and opens a session.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.store.Repos.Users(s.store.DB).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, classify(err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil || !ok {
		return nil, common.ErrorUnauthorized
	}
	if user.Role == models.RoleBanned {
		return nil, common.ErrorUnauthorized
	}

	var pair *TokenPair
	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		pair, err = s.generateTokenPair(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return pair, nil
}

// Authenticate resolves an access token to the caller's current session.
// Tokens issued before the last sign-out or ban are refused.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*auth.Session, error) {
	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Repos.Users(s.store.DB).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotAuthenticated
		}
		return nil, classify(err)
	}
	if user.SessionEpoch != claims.Epoch || user.Role == models.RoleBanned {
		return nil, common.ErrNotAuthenticated
	}

	sess := &auth.Session{UserID: user.ID, Role: user.Role}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// Refresh exchanges a refresh token for a new pair. The old token is
// consumed in the same transaction that stores its successor.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var (
		pair    *TokenPair
		expired bool
	)
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		token, err := s.store.Repos.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}
		// commit so the expired row stays deleted
		if token.Expires.Before(time.Now()) {
			expired = true
			return nil
		}

		user, err := s.store.Repos.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNotAuthenticated
			}
			return err
		}
		if user.Role == models.RoleBanned {
			return common.ErrNotAuthenticated
		}

		pair, err = s.generateTokenPair(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	if expired {
		return nil, common.ErrRefreshTokenExpired
	}
	return pair, nil
}

// SignOut revokes every refresh token of the caller and invalidates the
// access tokens issued so far.
func (s *UserService) SignOut(ctx context.Context, sess *auth.Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}

	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Repos.RefreshTokens(tx).DeleteByUser(ctx, sess.UserID); err != nil {
			return err
		}
		_, err := s.store.Repos.Users(tx).BumpSessionEpoch(ctx, sess.UserID)
		return err
	})
	if err != nil {
		return classify(err)
	}

	s.log.Info(ctx, "user signed out", "user_id", sess.UserID)
	return nil
}

// Profile returns the caller's account, balance included.
func (s *UserService) Profile(ctx context.Context, sess *auth.Session) (*models.User, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	user, err := s.store.Repos.Users(s.store.DB).GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, classify(err)
	}
	return user, nil
}

func (s *UserService) generateTokenPair(ctx context.Context, tx dbx.DBTX, user *models.User) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(user, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.store.Repos.RefreshTokens(tx).Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Session: &auth.Session{
			UserID:    user.ID,
			Role:      user.Role,
			ExpiresAt: time.Now().Add(s.accessTokenValidityDuration),
		},
	}, nil
}
