package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
)

// Session is the result of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService handles accounts and bearer tokens.
type AuthService struct {
	users    UserStore
	tokens   *auth.TokenIssuer
	denylist TokenDenylist
	metrics  metrics.Recorder
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService. denylist may be nil, in which
// case tokens cannot be revoked and Logout reports ErrLogoutUnavailable.
func NewAuthService(users UserStore, tokens *auth.TokenIssuer, denylist TokenDenylist, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		metrics:  recorder,
		logger:   logger.With("component", "auth"),
	}
}

// ErrLogoutUnavailable is returned by Logout when no denylist is configured.
var ErrLogoutUnavailable = errors.New("token revocation is not configured")

// Register creates a user and issues a token for it. Uniqueness of username
// and email is left to the store's constraints.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	switch {
	case username == "":
		return nil, required("username")
	case email == "":
		return nil, required("email")
	case input.Password == "":
		return nil, required("password")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           model.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()
	return s.issue(user)
}

// Login verifies credentials and issues a token. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return nil, required("username")
	case password == "":
		return nil, required("password")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Spend the same hashing time as a real mismatch.
			_, _ = auth.VerifyPassword(password, s.dummy())
			s.metrics.IncLogin("failed")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password for user %s: %w", user.ID, err)
	}
	if !ok {
		s.metrics.IncLogin("failed")
		return nil, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, user.ID, password)
	}

	s.metrics.IncLogin("success")
	return s.issue(user)
}

// upgradeHash stores a fresh hash of a password that just verified against
// a legacy or weaker hash. Failure leaves the old hash in place.
func (s *AuthService) upgradeHash(ctx context.Context, userID, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		s.logger.Warn("password_rehash_failed", "user_id", userID, "error", err)
		return
	}
	s.logger.Info("password_rehashed", "user_id", userID)
}

// Authenticate verifies a raw bearer token and returns the caller.
// A denylist lookup failure rejects the token.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*model.AuthContext, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		s.metrics.IncAuthRejected()
		return nil, err
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			s.logger.Error("denylist_lookup_failed", "error", err)
			s.metrics.IncAuthRejected()
			return nil, auth.ErrInvalidToken
		}
		if revoked {
			s.metrics.IncAuthRejected()
			return nil, auth.ErrInvalidToken
		}
	}

	return &model.AuthContext{
		UserID:    claims.UserID,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// RevocationEnabled reports whether Logout can revoke tokens.
func (s *AuthService) RevocationEnabled() bool {
	return s.denylist != nil
}

// Logout revokes the caller's token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, caller *model.AuthContext) error {
	if s.denylist == nil {
		return ErrLogoutUnavailable
	}
	if err := s.denylist.Revoke(ctx, caller.TokenID, caller.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*Session, error) {
	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: tok.Value, ExpiresAt: tok.ExpiresAt, User: user}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := auth.HashPassword("spendwise-timing-equalizer")
		if err != nil {
			s.logger.Error("dummy_hash_failed", "error", err)
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
