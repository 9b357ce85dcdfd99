package postgres

import (
	"context"
	"errors"
)

var errSchemaMissing = errors.New("transfers table missing, schema not applied")

// HealthCheck reports the database as up only when the transfer ledger
// exists, so a database that never ran EnsureSchema shows as DOWN.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	var ready bool
	if err := h.pool.QueryRow(ctx, "SELECT to_regclass('transfers') IS NOT NULL").Scan(&ready); err != nil {
		return err
	}
	if !ready {
		return errSchemaMissing
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
