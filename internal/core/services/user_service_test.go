package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidstream/accounts/internal/core/domain"
	"github.com/vidstream/accounts/internal/core/ports"
)

func strptr(s string) *string { return &s }

func TestUserService_GetByID(t *testing.T) {
	repo := newMemoryUserRepo()
	sessions := newTestSessionService(repo)
	user := registerAlice(t, sessions)
	svc := NewUserService(repo)

	found, err := svc.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.Username)

	missing, err := svc.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newMemoryUserRepo()
	sessions := newTestSessionService(repo)
	user := registerAlice(t, sessions)
	svc := NewUserService(repo)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdate{
		FullName: strptr("  Alice Q. Example "),
		Email:    strptr(" ALICE+new@X.com "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Q. Example", updated.FullName)
	assert.Equal(t, "alice+new@x.com", updated.Email)
	// Untouched fields stay put.
	assert.Equal(t, "alice", updated.Username)
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	repo := newMemoryUserRepo()
	sessions := newTestSessionService(repo)
	user := registerAlice(t, sessions)
	svc := NewUserService(repo)

	_, err := svc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdate{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdate{FullName: strptr("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdate{AvatarURL: strptr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_UpdateProfile_DuplicateEmail(t *testing.T) {
	repo := newMemoryUserRepo()
	sessions := newTestSessionService(repo)
	user := registerAlice(t, sessions)

	_, err := sessions.Register(context.Background(), ports.RegisterInput{
		FullName:  "Bob Example",
		Email:     "bob@x.com",
		Username:  "bob",
		Password:  "secret123",
		AvatarURL: "https://cdn.example.com/bob.png",
	})
	require.NoError(t, err)

	svc := NewUserService(repo)
	_, err = svc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdate{Email: strptr("bob@x.com")})
	assert.ErrorIs(t, err, domain.ErrDuplicateCredential)
}

func TestUserService_UpdateProfile_UnknownUser(t *testing.T) {
	svc := NewUserService(newMemoryUserRepo())

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), domain.ProfileUpdate{FullName: strptr("X")})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
