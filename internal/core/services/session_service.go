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

// SessionService orchestrates login, refresh, logout and password change.
// It is the only writer of the stored refresh token.
type SessionService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	codec  ports.TokenCodec
}

func NewSessionService(users ports.UserRepository, hasher ports.PasswordHasher, codec ports.TokenCodec) *SessionService {
	return &SessionService{
		users:  users,
		hasher: hasher,
		codec:  codec,
	}
}

func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))
	avatarURL := strings.TrimSpace(in.AvatarURL)

	// The password is validated trimmed but hashed raw: surrounding
	// whitespace is not a password, yet interior whitespace is.
	for _, field := range []string{fullName, email, username, strings.TrimSpace(in.Password), avatarURL} {
		if field == "" {
			return nil, domain.ErrValidation
		}
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCredential
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		AvatarURL:     avatarURL,
		CoverImageURL: strings.TrimSpace(in.CoverImageURL),
		PasswordHash:  hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check above races with concurrent registrations; the
		// unique constraint is the authority.
		if errors.Is(err, domain.ErrDuplicateCredential) {
			return nil, domain.ErrDuplicateCredential
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *SessionService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" && email == "" {
		return nil, domain.ErrValidation
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredential
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredential
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	// Overwriting unconditionally invalidates any refresh token issued by a
	// previous login: one active session per user.
	if err := s.users.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &ports.LoginResult{User: user, Tokens: *pair}, nil
}

func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := s.codec.Verify(domain.TokenKindRefresh, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	// A token that verified but no longer matches the stored value has been
	// rotated away or cleared: reject it as a replay.
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, domain.ErrUnauthorized
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	swapped, err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !swapped {
		// Lost a concurrent rotation race; the presented token is dead.
		return nil, domain.ErrUnauthorized
	}

	return pair, nil
}

func (s *SessionService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *SessionService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || strings.TrimSpace(newPassword) == "" {
		return domain.ErrValidation
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return domain.ErrInvalidCredential
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// A stolen refresh token must not outlive the password it was obtained
	// under, so the current session is revoked as well.
	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *SessionService) issueTokenPair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.codec.Issue(domain.TokenKindAccess, domain.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.codec.Issue(domain.TokenKindRefresh, domain.TokenClaims{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
