package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind selects the signing secret and lifetime for a token.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the claim set carried by a signed token. Refresh tokens
// carry only the subject; the identity fields are populated for access
// tokens so the guard can resolve a principal without a second lookup.
type TokenClaims struct {
	UserID    uuid.UUID
	Username  string
	Email     string
	FullName  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
