package domain

import "time"

// OTPMaxAttempts bounds wrong verification codes before recovery state is wiped.
const OTPMaxAttempts = 5

// Recovery credential lifetimes and the re-issue gate for verification codes.
const (
	OTPTTL          = 5 * time.Minute
	OTPResendWindow = 10 * time.Minute
	ResetTokenTTL   = 10 * time.Minute
)

// User mirrors the persisted representation in the users table. Recovery
// fields are nullable and only populated while a password reset is in flight.
type User struct {
	ID                  string
	Name                string
	Email               string
	PasswordHash        string
	OTP                 *string
	OTPExpiresAt        *time.Time
	OTPRequestedAt      *time.Time
	OTPAttempts         int
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ClearOTP wipes in-flight verification code state.
func (u *User) ClearOTP() {
	u.OTP = nil
	u.OTPExpiresAt = nil
	u.OTPAttempts = 0
}

// ClearResetToken wipes in-flight reset token state.
func (u *User) ClearResetToken() {
	u.ResetToken = nil
	u.ResetTokenExpiresAt = nil
}
