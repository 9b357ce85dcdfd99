package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransfer(userID uuid.UUID) *domain.TransferRecord {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.TransferRecord{
		ID:             uuid.New(),
		UserID:         userID,
		IdempotencyKey: "key-1",
		TransactionID:  "81234567",
		PartnerID:      "0987654321",
		PartnerName:    "Tran Thi B",
		Amount:         100,
		Comment:        "tra tien com",
		Status:         domain.TransferStatusReserved,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func transferColumnNames() []string {
	return []string{"id", "user_id", "idempotency_key", "transaction_id", "partner_id", "partner_name",
		"amount", "comment", "status", "balance", "failure_reason", "created_at", "updated_at"}
}

func transferRow(rows *pgxmock.Rows, t *domain.TransferRecord) *pgxmock.Rows {
	return rows.AddRow(
		t.ID, t.UserID, t.IdempotencyKey, t.TransactionID, t.PartnerID, t.PartnerName,
		t.Amount, t.Comment, t.Status, t.Balance, t.FailureReason,
		t.CreatedAt, t.UpdatedAt,
	)
}

func TestTransferRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	rec := newTestTransfer(uuid.New())

	mock.ExpectExec("INSERT INTO transfers").
		WithArgs(rec.ID, rec.UserID, rec.IdempotencyKey, rec.TransactionID, rec.PartnerID, rec.PartnerName,
			rec.Amount, rec.Comment, rec.Status, rec.Balance, rec.FailureReason,
			rec.CreatedAt, rec.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepo_Create_DuplicateKey(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	rec := newTestTransfer(uuid.New())

	mock.ExpectExec("INSERT INTO transfers").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = repo.Create(context.Background(), rec)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "FUN_004", appErr.Code)
}

func TestTransferRepo_GetByIdempotencyKey(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	rec := newTestTransfer(uuid.New())
	balance := int64(49900)
	rec.Status = domain.TransferStatusConfirmed
	rec.Balance = &balance

	mock.ExpectQuery("SELECT .+ FROM transfers WHERE user_id = \\$1 AND idempotency_key = \\$2").
		WithArgs(rec.UserID, "key-1").
		WillReturnRows(transferRow(pgxmock.NewRows(transferColumnNames()), rec))

	got, err := repo.GetByIdempotencyKey(context.Background(), rec.UserID, "key-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestTransferRepo_GetByIdempotencyKey_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	userID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transfers").
		WithArgs(userID, "nope").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByIdempotencyKey(context.Background(), userID, "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTransferRepo_MarkReserved(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id := uuid.New()
	pending := domain.PendingTransfer{TransactionID: "81234567", Amount: 100, PartnerID: "0987654321", PartnerName: "Tran Thi B"}

	mock.ExpectExec("UPDATE transfers SET status = \\$1, transaction_id = \\$2").
		WithArgs(domain.TransferStatusReserved, "81234567", "0987654321", "Tran Thi B", id, domain.TransferStatusInitiating).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.MarkReserved(context.Background(), id, pending))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepo_MarkReserved_NotInitiating(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)

	mock.ExpectExec("UPDATE transfers SET status").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.MarkReserved(context.Background(), uuid.New(), domain.PendingTransfer{TransactionID: "1"})
	assert.ErrorContains(t, err, "is not initiating")
}

func TestTransferRepo_Release(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM transfers WHERE id = \\$1 AND status = \\$2").
		WithArgs(id, domain.TransferStatusInitiating).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Release(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepo_MarkConfirmed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE transfers SET status").
		WithArgs(domain.TransferStatusConfirmed, int64(49900), id, domain.TransferStatusReserved).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.MarkConfirmed(context.Background(), id, 49900))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepo_MarkFailed_NotReserved(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE transfers SET status").
		WithArgs(domain.TransferStatusFailed, "Số dư không đủ", id, domain.TransferStatusReserved).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.MarkFailed(context.Background(), id, "Số dư không đủ")
	assert.ErrorContains(t, err, "is not reserved")
}

func TestTransferRepo_ListReserved(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransferRepo(mock)
	userID := uuid.New()
	first, second := newTestTransfer(userID), newTestTransfer(userID)
	second.IdempotencyKey = "key-2"

	rows := pgxmock.NewRows(transferColumnNames())
	transferRow(rows, first)
	transferRow(rows, second)

	mock.ExpectQuery("SELECT .+ FROM transfers\\s+WHERE user_id = \\$1 AND status IN \\(\\$2, \\$3\\) ORDER BY created_at").
		WithArgs(userID, domain.TransferStatusInitiating, domain.TransferStatusReserved).
		WillReturnRows(rows)

	got, err := repo.ListReserved(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "key-1", got[0].IdempotencyKey)
	assert.Equal(t, "key-2", got[1].IdempotencyKey)
}
