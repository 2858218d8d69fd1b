package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vidstream/accounts/internal/core/domain"
	"github.com/vidstream/accounts/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) ports.UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, fields domain.ProfileUpdate) (*domain.User, error) {
	if fields.Empty() {
		return nil, domain.ErrValidation
	}
	if fields.FullName != nil {
		trimmed := strings.TrimSpace(*fields.FullName)
		if trimmed == "" {
			return nil, domain.ErrValidation
		}
		fields.FullName = &trimmed
	}
	if fields.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*fields.Email))
		if normalized == "" {
			return nil, domain.ErrValidation
		}
		fields.Email = &normalized
	}
	if fields.AvatarURL != nil && strings.TrimSpace(*fields.AvatarURL) == "" {
		// Avatar is required; it can be replaced but never unset.
		return nil, domain.ErrValidation
	}

	user, err := s.repo.UpdateProfile(ctx, id, fields)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateCredential) {
			return nil, domain.ErrDuplicateCredential
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
