package dto

import "time"

// RegisterRequest is the request body for bridge account registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for bridge account login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// OTPRequest starts wallet registration for a phone number.
type OTPRequest struct {
	Phone string `json:"phone" binding:"required,vn_phone"`
}

// OTPConfirmRequest carries the code the wallet texted to the phone.
type OTPConfirmRequest struct {
	OTP string `json:"otp" binding:"required,numeric,min=4,max=8"`
}

// WalletLoginRequest carries the wallet PIN.
type WalletLoginRequest struct {
	Password string `json:"password" binding:"required,numeric,len=6"`
}

// RegistrationResponse is the public view of a wallet registration.
type RegistrationResponse struct {
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryRequest is the query string of a history lookup.
type HistoryRequest struct {
	StartDate string `form:"start_date" binding:"required,vn_date"`
	EndDate   string `form:"end_date" binding:"required,vn_date"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// DetailRequest is the query string of a transaction detail lookup.
type DetailRequest struct {
	ServiceID string `form:"service_id" binding:"omitempty,safe_id"`
}

// TransferRequest is the request body of a peer-to-peer transfer.
type TransferRequest struct {
	PartnerID   string `json:"partner_id" binding:"required,vn_phone"`
	PartnerName string `json:"partner_name" binding:"required,max=100"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Comment     string `json:"comment" binding:"max=200"`
	Password    string `json:"password" binding:"required,numeric,len=6"`
}
