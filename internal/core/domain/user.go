package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account of the bridge service itself.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegistrationStatus tracks a user's progress through the wallet login funnel.
type RegistrationStatus string

const (
	RegistrationOTPRequested RegistrationStatus = "OTP_REQUESTED"
	RegistrationOTPConfirmed RegistrationStatus = "OTP_CONFIRMED"
	RegistrationLoggedIn     RegistrationStatus = "LOGGED_IN"
)

// CanTransition reports whether the funnel may move from s to next.
// A new OTP may be requested from any state; logging in again is allowed
// once the OTP has been confirmed.
func (s RegistrationStatus) CanTransition(next RegistrationStatus) bool {
	switch next {
	case RegistrationOTPRequested:
		return true
	case RegistrationOTPConfirmed:
		return s == RegistrationOTPRequested
	case RegistrationLoggedIn:
		return s == RegistrationOTPConfirmed || s == RegistrationLoggedIn
	default:
		return false
	}
}

// WalletRegistration binds a bridge user to a wallet phone and device.
// Secret fields are sealed with the service AES key before storage.
type WalletRegistration struct {
	ID             uuid.UUID          `json:"id"`
	UserID         uuid.UUID          `json:"user_id"`
	Phone          string             `json:"phone"`
	IMEI           string             `json:"imei"`
	PushID         string             `json:"push_id"`
	RKeySealed     string             `json:"-"`
	OHashSealed    *string            `json:"-"`
	SetupKeySealed *string            `json:"-"`
	Status         RegistrationStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
