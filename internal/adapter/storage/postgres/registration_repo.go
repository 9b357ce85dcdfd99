package postgres

import (
	"context"
	"errors"
	"fmt"

	"momo-bridge/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RegistrationRepo implements ports.RegistrationRepository.
type RegistrationRepo struct {
	pool Pool
}

// NewRegistrationRepo creates a new RegistrationRepo.
func NewRegistrationRepo(pool Pool) *RegistrationRepo {
	return &RegistrationRepo{pool: pool}
}

// Save inserts the registration or replaces the user's existing one.
func (r *RegistrationRepo) Save(ctx context.Context, reg *domain.WalletRegistration) error {
	query := `INSERT INTO wallet_registrations
		(id, user_id, phone, imei, push_id, rkey_sealed, ohash_sealed, setup_key_sealed, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			phone = EXCLUDED.phone,
			imei = EXCLUDED.imei,
			push_id = EXCLUDED.push_id,
			rkey_sealed = EXCLUDED.rkey_sealed,
			ohash_sealed = EXCLUDED.ohash_sealed,
			setup_key_sealed = EXCLUDED.setup_key_sealed,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		reg.ID, reg.UserID, reg.Phone, reg.IMEI, reg.PushID,
		reg.RKeySealed, reg.OHashSealed, reg.SetupKeySealed, reg.Status,
		reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save registration: %w", err)
	}
	return nil
}

// GetByUserID fetches the user's registration, or nil.
func (r *RegistrationRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.WalletRegistration, error) {
	query := `SELECT id, user_id, phone, imei, push_id, rkey_sealed, ohash_sealed, setup_key_sealed, status, created_at, updated_at
		FROM wallet_registrations WHERE user_id = $1`

	reg := &domain.WalletRegistration{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&reg.ID, &reg.UserID, &reg.Phone, &reg.IMEI, &reg.PushID,
		&reg.RKeySealed, &reg.OHashSealed, &reg.SetupKeySealed, &reg.Status,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registration by user: %w", err)
	}
	return reg, nil
}

// SaveGrant stores the sealed OTP grant and moves the registration to
// OTP_CONFIRMED.
func (r *RegistrationRepo) SaveGrant(ctx context.Context, id uuid.UUID, ohashSealed, setupKeySealed string) error {
	query := `UPDATE wallet_registrations
		SET ohash_sealed = $1, setup_key_sealed = $2, status = $3, updated_at = NOW()
		WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, ohashSealed, setupKeySealed, domain.RegistrationOTPConfirmed, id)
	if err != nil {
		return fmt.Errorf("save grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registration %s not found", id)
	}
	return nil
}

// UpdateStatus sets the funnel status.
func (r *RegistrationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) error {
	query := `UPDATE wallet_registrations SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registration %s not found", id)
	}
	return nil
}
