package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidstream/accounts/internal/core/domain"
)

// PasswordHasher turns a plaintext password into a storable secret and
// checks a candidate against one. Verify never errors on mismatch.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenCodec signs and verifies self-contained tokens. Access and refresh
// tokens use distinct secrets so one cannot forge the other. Verify returns
// domain.ErrTokenExpired or domain.ErrTokenInvalid; it never consults storage.
type TokenCodec interface {
	Issue(kind domain.TokenKind, claims domain.TokenClaims) (string, error)
	Verify(kind domain.TokenKind, token string) (*domain.TokenClaims, error)
}

type RegisterInput struct {
	FullName      string
	Email         string
	Username      string
	Password      string
	AvatarURL     string
	CoverImageURL string
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult bundles the sanitized record with the freshly issued pair.
type LoginResult struct {
	User   *domain.User
	Tokens domain.TokenPair
}

// SessionService is the only component allowed to mutate the stored refresh
// token.
type SessionService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}
