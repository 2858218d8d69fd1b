package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/vidstream/accounts/internal/core/domain"
)

// BcryptHasher hashes passwords with bcrypt. Each call salts independently,
// so hashing the same plaintext twice yields different outputs, and
// comparison runs in constant time over the digest.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	// bcrypt only digests the first 72 bytes; beyond that GenerateFromPassword
	// errors, which is a caller input problem, not a server fault.
	if len(plaintext) > 72 {
		return "", domain.ErrValidation
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
