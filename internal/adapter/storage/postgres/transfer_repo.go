package postgres

import (
	"context"
	"errors"
	"fmt"

	"momo-bridge/internal/core/domain"
	"momo-bridge/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransferRepo implements ports.TransferRepository.
type TransferRepo struct {
	pool Pool
}

// NewTransferRepo creates a new TransferRepo.
func NewTransferRepo(pool Pool) *TransferRepo {
	return &TransferRepo{pool: pool}
}

const transferColumns = `id, user_id, idempotency_key, transaction_id, partner_id, partner_name, amount, comment,
	status, balance, failure_reason, created_at, updated_at`

// Create inserts a transfer row, normally INITIATING.
func (r *TransferRepo) Create(ctx context.Context, t *domain.TransferRecord) error {
	query := `INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.UserID, t.IdempotencyKey, t.TransactionID, t.PartnerID, t.PartnerName,
		t.Amount, t.Comment, t.Status, t.Balance, t.FailureReason,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrDuplicateTransfer()
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByIdempotencyKey fetches the user's transfer for a key, or nil.
func (r *TransferRepo) GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*domain.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE user_id = $1 AND idempotency_key = $2`

	t, err := scanTransfer(r.pool.QueryRow(ctx, query, userID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer by idempotency key: %w", err)
	}
	return t, nil
}

// MarkReserved records the wallet reservation on an INITIATING transfer.
func (r *TransferRepo) MarkReserved(ctx context.Context, id uuid.UUID, p domain.PendingTransfer) error {
	query := `UPDATE transfers SET status = $1, transaction_id = $2, partner_id = $3, partner_name = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6`

	tag, err := r.pool.Exec(ctx, query, domain.TransferStatusReserved, p.TransactionID, p.PartnerID, p.PartnerName,
		id, domain.TransferStatusInitiating)
	if err != nil {
		return fmt.Errorf("mark transfer reserved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transfer %s is not initiating", id)
	}
	return nil
}

// Release removes an INITIATING transfer whose init never reserved anything.
func (r *TransferRepo) Release(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transfers WHERE id = $1 AND status = $2`

	if _, err := r.pool.Exec(ctx, query, id, domain.TransferStatusInitiating); err != nil {
		return fmt.Errorf("release transfer: %w", err)
	}
	return nil
}

// MarkConfirmed moves a reserved transfer to CONFIRMED.
func (r *TransferRepo) MarkConfirmed(ctx context.Context, id uuid.UUID, balance int64) error {
	query := `UPDATE transfers SET status = $1, balance = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`

	tag, err := r.pool.Exec(ctx, query, domain.TransferStatusConfirmed, balance, id, domain.TransferStatusReserved)
	if err != nil {
		return fmt.Errorf("mark transfer confirmed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transfer %s is not reserved", id)
	}
	return nil
}

// MarkFailed moves a reserved transfer to FAILED.
func (r *TransferRepo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	query := `UPDATE transfers SET status = $1, failure_reason = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`

	tag, err := r.pool.Exec(ctx, query, domain.TransferStatusFailed, reason, id, domain.TransferStatusReserved)
	if err != nil {
		return fmt.Errorf("mark transfer failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transfer %s is not reserved", id)
	}
	return nil
}

// ListReserved returns the user's transfers still awaiting an outcome,
// INITIATING or RESERVED, oldest first.
func (r *TransferRepo) ListReserved(ctx context.Context, userID uuid.UUID) ([]domain.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers
		WHERE user_id = $1 AND status IN ($2, $3) ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID, domain.TransferStatusInitiating, domain.TransferStatusReserved)
	if err != nil {
		return nil, fmt.Errorf("list reserved transfers: %w", err)
	}
	defer rows.Close()

	var out []domain.TransferRecord
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer row: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer rows: %w", err)
	}
	return out, nil
}

func scanTransfer(row pgx.Row) (*domain.TransferRecord, error) {
	t := &domain.TransferRecord{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.IdempotencyKey, &t.TransactionID, &t.PartnerID, &t.PartnerName,
		&t.Amount, &t.Comment, &t.Status, &t.Balance, &t.FailureReason,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
