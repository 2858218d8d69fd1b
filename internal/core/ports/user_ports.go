package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidstream/accounts/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)

	// SetRefreshToken overwrites the stored refresh token unconditionally.
	// Passing nil clears it. Login, logout and password change use this.
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error

	// RotateRefreshToken swaps the stored refresh token for next only if the
	// stored value still equals presented. It reports whether the swap
	// happened; a false result means another rotation won the race or the
	// presented token was already superseded.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, presented, next string) (bool, error)

	UpdatePassword(ctx context.Context, id uuid.UUID, newHash string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, fields domain.ProfileUpdate) (*domain.User, error)
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fields domain.ProfileUpdate) (*domain.User, error)
}
