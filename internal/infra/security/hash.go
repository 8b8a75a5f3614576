package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/arklim/social-platform-accounts/internal/core/port"
)

var errInvalidBcryptCost = errors.New("bcrypt: cost out of range")

// bcrypt reads at most 72 bytes of input; longer passwords are truncated
// before hashing so Hash never fails on content.
const bcryptMaxPasswordBytes = 72

// BcryptHasher hashes passwords with a configurable cost factor.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher constructs a hasher with the supplied cost. A zero cost
// selects the library default.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", errInvalidBcryptCost, cost)
	}

	return &BcryptHasher{cost: cost}, nil
}

// Cost returns the configured cost factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash produces a salted bcrypt digest of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	plain := []byte(password)
	if len(plain) > bcryptMaxPasswordBytes {
		plain = plain[:bcryptMaxPasswordBytes]
	}

	sum, err := bcrypt.GenerateFromPassword(plain, h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: hash password: %w", err)
	}

	return string(sum), nil
}

// Verify reports whether password matches the stored digest. Malformed
// digests and algorithm mismatches read as a non-match, so callers cannot
// tell a verification fault apart from a wrong password.
func (h *BcryptHasher) Verify(password, encoded string) bool {
	if password == "" || encoded == "" {
		return false
	}

	plain := []byte(password)
	if len(plain) > bcryptMaxPasswordBytes {
		plain = plain[:bcryptMaxPasswordBytes]
	}

	return bcrypt.CompareHashAndPassword([]byte(encoded), plain) == nil
}

var _ port.PasswordHasher = (*BcryptHasher)(nil)
