package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential record. PasswordHash and RefreshToken never leave
// the server: both are excluded from JSON and only the session service may
// read them.
type User struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatarUrl"`
	CoverImageURL string    `json:"coverImageUrl"`
	PasswordHash  string    `json:"-"`
	RefreshToken  *string   `json:"-"` // at most one live refresh token per user
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the mutable profile fields. Nil means "leave as is".
// Image URLs are resolved by the upload pipeline before they reach this core.
type ProfileUpdate struct {
	FullName      *string
	Email         *string
	AvatarURL     *string
	CoverImageURL *string
}

func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.Email == nil && p.AvatarURL == nil && p.CoverImageURL == nil
}
