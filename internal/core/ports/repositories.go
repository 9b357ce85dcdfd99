package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"

	"momo-bridge/internal/core/domain"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for bridge users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RegistrationRepository defines persistence for wallet registrations.
// A user owns at most one registration; Save replaces it.
type RegistrationRepository interface {
	Save(ctx context.Context, reg *domain.WalletRegistration) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.WalletRegistration, error)
	SaveGrant(ctx context.Context, id uuid.UUID, ohashSealed, setupKeySealed string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) error
}

// TransferRepository is the local ledger of init/confirm pairs.
type TransferRepository interface {
	// Create claims the idempotency key with an INITIATING row. It returns
	// ErrDuplicateTransfer when the user already used the key.
	Create(ctx context.Context, rec *domain.TransferRecord) error
	GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*domain.TransferRecord, error)
	// MarkReserved attaches the wallet reservation to an INITIATING row.
	MarkReserved(ctx context.Context, id uuid.UUID, pending domain.PendingTransfer) error
	// Release deletes an INITIATING row so its key can be used again.
	Release(ctx context.Context, id uuid.UUID) error
	MarkConfirmed(ctx context.Context, id uuid.UUID, balance int64) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	ListReserved(ctx context.Context, userID uuid.UUID) ([]domain.TransferRecord, error)
}
