package security

import (
	"fmt"

	zxcvbn "github.com/nbutton23/zxcvbn-go"

	"github.com/arklim/social-platform-accounts/internal/core/port"
)

// PasswordValidationError represents a single password policy violation.
type PasswordValidationError struct {
	Code    string
	Message string
}

// Error implements error for PasswordValidationError.
func (e *PasswordValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// PasswordValidator scores passwords with zxcvbn on top of a minimum
// length requirement.
type PasswordValidator struct {
	minLength int
	minScore  int
}

// NewPasswordValidator constructs a validator. minScore follows the zxcvbn
// 0..4 scale.
func NewPasswordValidator(minLength, minScore int) *PasswordValidator {
	if minLength <= 0 {
		minLength = 6
	}
	if minScore < 0 {
		minScore = 0
	}
	if minScore > 4 {
		minScore = 4
	}

	return &PasswordValidator{minLength: minLength, minScore: minScore}
}

// DefaultPasswordValidator matches the service defaults: six characters
// minimum and a zxcvbn score of at least 2.
func DefaultPasswordValidator() *PasswordValidator {
	return NewPasswordValidator(6, 2)
}

// Validate returns the first policy violation, or nil when the password is
// acceptable. userInputs lowers the score of passwords derived from the
// caller's own username or email.
func (v *PasswordValidator) Validate(password string, userInputs ...string) error {
	if len([]rune(password)) < v.minLength {
		return &PasswordValidationError{
			Code:    "min_length",
			Message: fmt.Sprintf("password must be at least %d characters long", v.minLength),
		}
	}

	if v.minScore > 0 {
		result := zxcvbn.PasswordStrength(password, userInputs)
		if result.Score < v.minScore {
			return &PasswordValidationError{
				Code:    "weak_password",
				Message: "password is too easy to guess",
			}
		}
	}

	return nil
}

var _ port.PasswordPolicyValidator = (*PasswordValidator)(nil)
