package security

import (
	"errors"
	"testing"
)

func TestPasswordValidatorRejectsShortPassword(t *testing.T) {
	v := DefaultPasswordValidator()

	err := v.Validate("abc")
	if err == nil {
		t.Fatal("expected error for short password")
	}

	var violation *PasswordValidationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected PasswordValidationError, got %T", err)
	}
	if violation.Code != "min_length" {
		t.Fatalf("expected min_length violation, got %s", violation.Code)
	}
}

func TestPasswordValidatorRejectsGuessablePassword(t *testing.T) {
	v := DefaultPasswordValidator()

	err := v.Validate("password")
	if err == nil {
		t.Fatal("expected error for guessable password")
	}

	var violation *PasswordValidationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected PasswordValidationError, got %T", err)
	}
	if violation.Code != "weak_password" {
		t.Fatalf("expected weak_password violation, got %s", violation.Code)
	}
}

func TestPasswordValidatorPenalizesUserInputs(t *testing.T) {
	v := NewPasswordValidator(6, 3)

	if err := v.Validate("alice@example.com1", "alice", "alice@example.com"); err == nil {
		t.Fatal("expected error for password derived from user inputs")
	}
}

func TestPasswordValidatorAcceptsStrongPassword(t *testing.T) {
	v := DefaultPasswordValidator()

	if err := v.Validate("mellow-cactus-41-harbor"); err != nil {
		t.Fatalf("Validate returned error for strong password: %v", err)
	}
}

func TestPasswordValidatorScoreZeroSkipsStrengthCheck(t *testing.T) {
	v := NewPasswordValidator(6, 0)

	if err := v.Validate("secret1"); err != nil {
		t.Fatalf("Validate returned error with strength check disabled: %v", err)
	}
}
