package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"momo-bridge/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService seals secrets at rest with AES-256-GCM.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

// SessionStore caches the wallet session of each user between requests.
type SessionStore interface {
	// Get returns nil, nil when no session is cached.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Session, error)
	Set(ctx context.Context, userID uuid.UUID, session domain.Session, ttl time.Duration) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// IdempotencyCache is the Redis-layer replay cache for finished transfers.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// --- Service Ports (Business Logic) ---

// AuthService defines bridge account logic.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
}

// WalletService drives the wallet funnel and the calls that need a session.
type WalletService interface {
	RequestOTP(ctx context.Context, userID uuid.UUID, phone string) (*domain.WalletRegistration, error)
	ConfirmOTP(ctx context.Context, userID uuid.UUID, otp string) (*domain.WalletRegistration, error)
	Login(ctx context.Context, userID uuid.UUID, password string) (*domain.WalletRegistration, error)
	History(ctx context.Context, userID uuid.UUID, q domain.HistoryQuery) (domain.HistoryPage, error)
	TransactionDetail(ctx context.Context, userID uuid.UUID, transID int64, serviceID string) (domain.TransactionDetail, error)
	FindReceiver(ctx context.Context, userID uuid.UUID, targetID string) (domain.ReceiverProfile, error)
}

// TransferService runs the init/confirm saga against the local ledger.
type TransferService interface {
	Send(ctx context.Context, req SendRequest) (*domain.TransferRecord, error)
	ListReserved(ctx context.Context, userID uuid.UUID) ([]domain.TransferRecord, error)
}

// SendRequest holds validated input for one transfer.
type SendRequest struct {
	UserID         uuid.UUID
	IdempotencyKey string
	Transfer       domain.TransferRequest
	Password       string
}
