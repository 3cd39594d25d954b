package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/auth/store"
	platformerrors "github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
)

const bcryptCost = 10

// Service is the session gate: it registers accounts, exchanges credentials
// for signed tokens and validates those tokens on every mutation entry
// point, including the push channel handshake.
type Service struct {
	db       *gorm.DB
	tokens   *TokenManager
	sessions store.Store
	logger   *logging.Logger
}

func NewService(db *gorm.DB, tokens *TokenManager, sessions store.Store, logger *logging.Logger) *Service {
	return &Service{
		db:       db,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates an account and immediately issues a credential for it.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, Identity, error) {
	if name == "" || email == "" || password == "" {
		return "", Identity{}, platformerrors.New(platformerrors.KindValidation, "register",
			"name, email and password are required")
	}

	existing, err := getUserByEmail(s.db.WithContext(ctx), email)
	if err != nil {
		return "", Identity{}, platformerrors.Wrap(platformerrors.KindStorage, "register", "lookup user", err)
	}
	if existing != nil {
		return "", Identity{}, platformerrors.New(platformerrors.KindValidation, "register", "email already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", Identity{}, platformerrors.Wrap(platformerrors.KindUnknown, "register", "hash password", err)
	}

	user := &User{Name: name, Email: email, Password: string(hash)}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return "", Identity{}, platformerrors.Wrap(platformerrors.KindStorage, "register", "create user", err)
	}

	s.logger.InfoTag("Auth", "registered user %d (%s)", user.ID, user.Email)
	return s.issueCredential(ctx, user.Identity())
}

// Login verifies the secret and issues a fresh credential.
func (s *Service) Login(ctx context.Context, email, password string) (string, Identity, error) {
	if email == "" || password == "" {
		return "", Identity{}, platformerrors.New(platformerrors.KindValidation, "login",
			"email and password are required")
	}

	user, err := getUserByEmail(s.db.WithContext(ctx), email)
	if err != nil {
		return "", Identity{}, platformerrors.Wrap(platformerrors.KindStorage, "login", "lookup user", err)
	}
	if user == nil {
		return "", Identity{}, platformerrors.New(platformerrors.KindAuth, "login", "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", Identity{}, platformerrors.New(platformerrors.KindAuth, "login", "invalid email or password")
	}

	s.logger.InfoTag("Auth", "user %d logged in", user.ID)
	return s.issueCredential(ctx, user.Identity())
}

// Validate checks the bearer token on every guarded request. A revoked or
// expired session fails even when the signature is still valid.
func (s *Service) Validate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, platformerrors.New(platformerrors.KindAuth, "validate", "missing credential")
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindAuth, "validate", "invalid credential", err)
	}

	_, alive, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "validate", "session lookup", err)
	}
	if !alive {
		return nil, platformerrors.New(platformerrors.KindAuth, "validate", "session revoked or expired")
	}
	return claims, nil
}

// Logout revokes the session behind the token. An already invalid token is
// treated as logged out.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Remove(ctx, claims.ID); err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "logout", "remove session", err)
	}
	s.logger.InfoTag("Auth", "user %d logged out", claims.UserID)
	return nil
}

func (s *Service) issueCredential(ctx context.Context, identity Identity) (string, Identity, error) {
	token, claims, err := s.tokens.Issue(identity)
	if err != nil {
		return "", Identity{}, platformerrors.Wrap(platformerrors.KindUnknown, "issue", "sign credential", err)
	}

	expires := claims.ExpiresAt.Time
	session := store.Session{
		SID:       claims.ID,
		UserID:    identity.ID,
		Name:      identity.Name,
		Email:     identity.Email,
		CreatedAt: time.Now(),
		ExpiresAt: &expires,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", Identity{}, platformerrors.Wrap(platformerrors.KindStorage, "issue", "save session", err)
	}
	return token, identity, nil
}
