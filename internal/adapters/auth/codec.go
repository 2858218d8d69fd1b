package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vidstream/accounts/internal/core/domain"
)

// JWTCodec signs and verifies HS256 tokens. Access and refresh tokens use
// separate secrets and lifetimes; both are fixed at construction.
type JWTCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewJWTCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTCodec {
	return &JWTCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

func (c *JWTCodec) Issue(kind domain.TokenKind, claims domain.TokenClaims) (string, error) {
	secret, ttl, err := c.kindParams(kind)
	if err != nil {
		return "", err
	}

	now := c.now()
	payload := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps back-to-back issuances distinct even within
			// the one-second resolution of iat/exp.
			ID:        uuid.NewString(),
			Subject:   claims.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if kind == domain.TokenKindAccess {
		payload.Username = claims.Username
		payload.Email = claims.Email
		payload.FullName = claims.FullName
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (c *JWTCodec) Verify(kind domain.TokenKind, token string) (*domain.TokenClaims, error) {
	secret, _, err := c.kindParams(kind)
	if err != nil {
		return nil, err
	}

	var parsed tokenClaims
	_, err = jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}

	userID, err := uuid.Parse(parsed.Subject)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	claims := &domain.TokenClaims{
		UserID:   userID,
		Username: parsed.Username,
		Email:    parsed.Email,
		FullName: parsed.FullName,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time
	}
	return claims, nil
}

func (c *JWTCodec) kindParams(kind domain.TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case domain.TokenKindAccess:
		return c.accessSecret, c.accessTTL, nil
	case domain.TokenKindRefresh:
		return c.refreshSecret, c.refreshTTL, nil
	default:
		return nil, 0, fmt.Errorf("unknown token kind %q", kind)
	}
}

// mapJWTError folds library errors into the domain taxonomy. Expiry stays
// distinguishable from tampering; everything else collapses to invalid.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return domain.ErrTokenExpired
	}
	return domain.ErrTokenInvalid
}
