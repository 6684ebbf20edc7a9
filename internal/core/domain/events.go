package domain

import "time"

// UserRegisteredEvent represents the payload for shop.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Name         string
	Email        string
	RegisteredAt time.Time
}

// PasswordOTPRequestedEvent represents the payload for shop.user.password.otp_requested messages.
type PasswordOTPRequestedEvent struct {
	EventID           string
	UserID            string
	RequestedAt       time.Time
	ExpiresAt         time.Time
	MaskedDestination string
}

// PasswordChangedEvent represents the payload for shop.user.password.changed messages.
type PasswordChangedEvent struct {
	EventID   string
	UserID    string
	ChangedAt time.Time
}
