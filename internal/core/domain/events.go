package domain

import "time"

// UserRegisteredEvent represents the payload for accounts.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       int64
	Username     string
	Email        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// UserLoggedInEvent represents the payload for accounts.user.logged_in messages.
type UserLoggedInEvent struct {
	EventID    string
	UserID     int64
	Username   string
	LoggedInAt time.Time
	Metadata   map[string]any
}

// UserDeletedEvent represents the payload for accounts.user.deleted messages.
type UserDeletedEvent struct {
	EventID   string
	UserID    int64
	Username  string
	DeletedAt time.Time
	DeletedBy string
	Metadata  map[string]any
}
