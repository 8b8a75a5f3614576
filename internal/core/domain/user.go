package domain

import "time"

// User mirrors the persisted representation in the users table.
type User struct {
	ID           int64
	Username     string
	Email        string
	FullName     *string
	Avatar       *string
	Bio          *string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// Sanitized returns a copy of the user with the password hash stripped.
// Handlers and services must never hand the hash past the core.
func (u User) Sanitized() User {
	clean := u
	clean.PasswordHash = ""
	return clean
}

// NewUser carries the fields required to insert a user row. The password
// hash must already be produced by the credential hasher.
type NewUser struct {
	Username     string
	Email        string
	FullName     *string
	Avatar       *string
	Bio          *string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
}

// UserUpdate captures a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Username     *string
	Email        *string
	FullName     *string
	Avatar       *string
	Bio          *string
	PasswordHash *string
	IsActive     *bool
}

// IsEmpty reports whether the update carries no changes.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.FullName == nil &&
		u.Avatar == nil && u.Bio == nil && u.PasswordHash == nil && u.IsActive == nil
}
