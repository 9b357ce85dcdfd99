package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError by where it originated and how callers should react.
type Kind string

const (
	KindCrypto     Kind = "CRYPTO"     // malformed key or ciphertext, never retried
	KindTransport  Kind = "TRANSPORT"  // network/HTTP failure, caller may retry
	KindProtocol   Kind = "PROTOCOL"   // wallet server returned an explicit error
	KindValidation Kind = "VALIDATION" // caller input rejected before any call
	KindAuth       Kind = "AUTH"
	KindRateLimit  Kind = "RATE_LIMIT"
	KindSystem     Kind = "SYSTEM"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	Kind       Kind   `json:"-"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(kind Kind, code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Kind:       kind,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(kind Kind, code string, message string, httpStatus int, err error) *AppError {
	e := New(kind, code, message, httpStatus)
	e.Err = err
	return e
}

// IsKind reports whether any AppError in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// Retryable reports whether the failure happened before the wallet server
// produced an answer. Only transport failures qualify.
func Retryable(err error) bool {
	return IsKind(err, KindTransport)
}

// ---- Wallet protocol (CRY / NET / MOMO) ----

// ErrCrypto signals a key or ciphertext the primitives cannot process.
func ErrCrypto(message string, err error) *AppError {
	return Wrap(KindCrypto, "CRY_001", message, http.StatusInternalServerError, err)
}

// ErrTransport signals that the wallet server could not be reached or
// answered with a non-2xx status.
func ErrTransport(message string, err error) *AppError {
	return Wrap(KindTransport, "NET_001", message, http.StatusBadGateway, err)
}

// ErrProtocol carries the wallet server's own error description verbatim.
func ErrProtocol(message string) *AppError {
	return New(KindProtocol, "MOMO_001", message, http.StatusUnprocessableEntity)
}

// ErrMissingField is a protocol error for a structurally required response field.
func ErrMissingField(field string) *AppError {
	return New(KindProtocol, "MOMO_002", fmt.Sprintf("response is missing %s", field), http.StatusBadGateway)
}

// ---- Registration funnel (FUN) ----

func ErrWalletNotRegistered() *AppError {
	return New(KindValidation, "FUN_001", "No wallet registration for this account", http.StatusNotFound)
}

func ErrFunnelState(current, wanted string) *AppError {
	return New(KindValidation, "FUN_002",
		fmt.Sprintf("wallet registration is %s, expected %s", current, wanted), http.StatusConflict)
}

func ErrSessionExpired() *AppError {
	return New(KindAuth, "FUN_003", "Wallet session missing or expired, login again", http.StatusUnauthorized)
}

func ErrDuplicateTransfer() *AppError {
	return New(KindValidation, "FUN_004", "Transfer with this idempotency key is already in progress", http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New(KindAuth, "AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New(KindValidation, "AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New(KindAuth, "AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(KindRateLimit, "RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(KindSystem, "SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrSealFailure(err error) *AppError {
	return Wrap(KindSystem, "SYS_003", "Secret sealing failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(KindSystem, "SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a REQ_001 validation error.
func Validation(message string) *AppError {
	return New(KindValidation, "REQ_001", message, http.StatusBadRequest)
}
