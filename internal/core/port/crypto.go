package port

// PasswordHasher hashes and verifies secrets using the configured algorithm.
type PasswordHasher interface {
	// Hash produces a salted, one-way digest. It fails only on internal
	// faults (entropy, misconfiguration), never on password content.
	Hash(password string) (string, error)
	// Verify reports whether password matches the stored digest. Malformed
	// digests and algorithm mismatches read as a plain non-match so callers
	// cannot distinguish verification faults from wrong passwords.
	Verify(password, encoded string) bool
}

// PasswordPolicyValidator enforces password strength requirements.
// userInputs carries context strings (username, email) the password must not
// be derived from.
type PasswordPolicyValidator interface {
	Validate(password string, userInputs ...string) error
}
