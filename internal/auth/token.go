package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = time.Hour

// minSecretLen is the minimum HMAC key length accepted.
const minSecretLen = 32

var (
	// ErrInvalidToken covers every reason a token is rejected.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrWeakSecret indicates the signing secret is too short.
	ErrWeakSecret = errors.New("token secret must be at least 32 bytes")
)

// Token is a freshly issued bearer token.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// Claims are the verified contents of a token.
type Claims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 bearer tokens.
// Tokens are stateless: nothing is stored server side when one is issued.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. A non-positive ttl means DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) < minSecretLen {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for the given user.
func (i *TokenIssuer) Issue(userID string) (*Token, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	id := ulid.Make().String()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		Value:     signed,
		ID:        id,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
// All failures collapse into ErrInvalidToken.
func (i *TokenIssuer) Verify(raw string) (*Claims, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:    claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
