package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/internal/core/ports"
	"momo-bridge/internal/core/ports/mocks"
	"momo-bridge/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type transferFixture struct {
	*walletDeps
	svc          *TransferServiceImpl
	transferRepo *mocks.MockTransferRepository
	idempCache   *mocks.MockIdempotencyCache
}

func setupTransferService(t *testing.T) *transferFixture {
	d := newWalletDeps(t)
	f := &transferFixture{
		walletDeps:   d,
		transferRepo: mocks.NewMockTransferRepository(d.ctrl),
		idempCache:   mocks.NewMockIdempotencyCache(d.ctrl),
	}
	f.svc = NewTransferService(d.gateway, d.resolver, f.transferRepo, f.idempCache, zerolog.Nop())
	f.svc.now = func() time.Time { return testNow }
	return f
}

var testTransfer = domain.TransferRequest{
	PartnerID:   "0987654321",
	PartnerName: "Tran Thi B",
	Amount:      100,
	Comment:     "tra tien com",
}

var testPending = domain.PendingTransfer{
	TransactionID: "81234567",
	Amount:        100,
	PartnerID:     "0987654321",
	PartnerName:   "Tran Thi B",
}

func (f *transferFixture) sendRequest() ports.SendRequest {
	return ports.SendRequest{
		UserID:         f.userID,
		IdempotencyKey: "key-1",
		Transfer:       testTransfer,
		Password:       "123456",
	}
}

// expectReserved primes the lookup, session, claim and init steps.
func (f *transferFixture) expectReserved(t *testing.T) {
	key := domain.BuildTransferIdempotencyKey(f.userID, "key-1")
	f.idempCache.EXPECT().Get(gomock.Any(), key).Return(nil, nil)
	f.transferRepo.EXPECT().GetByIdempotencyKey(gomock.Any(), f.userID, "key-1").Return(nil, nil)
	f.expectLoggedIn(t)

	var claimed uuid.UUID
	gomock.InOrder(
		f.transferRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec *domain.TransferRecord) error {
			assert.Equal(t, domain.TransferStatusInitiating, rec.Status)
			assert.Empty(t, rec.TransactionID)
			assert.Equal(t, int64(100), rec.Amount)
			assert.Equal(t, "key-1", rec.IdempotencyKey)
			assert.Equal(t, "tra tien com", rec.Comment)
			claimed = rec.ID
			return nil
		}),
		f.gateway.EXPECT().InitTransaction(gomock.Any(), testSessionContext, testTransfer).Return(testPending, nil),
		f.transferRepo.EXPECT().MarkReserved(gomock.Any(), gomock.Any(), testPending).
			DoAndReturn(func(_ context.Context, id uuid.UUID, _ domain.PendingTransfer) error {
				assert.Equal(t, claimed, id)
				return nil
			}),
	)
}

func TestTransferService_Send_Success(t *testing.T) {
	f := setupTransferService(t)
	f.expectReserved(t)

	f.gateway.EXPECT().ConfirmTransaction(gomock.Any(), testSessionContext, testPending, int64(100), "123456").
		Return(domain.TransferResult{Balance: 49900, Amount: 100}, nil)
	f.transferRepo.EXPECT().MarkConfirmed(gomock.Any(), gomock.Any(), int64(49900)).Return(nil)
	f.idempCache.EXPECT().Set(gomock.Any(), domain.BuildTransferIdempotencyKey(f.userID, "key-1"), gomock.Any(), idempotencyTTL).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ time.Duration) error {
			var cached domain.TransferRecord
			require.NoError(t, json.Unmarshal(data, &cached))
			assert.Equal(t, domain.TransferStatusConfirmed, cached.Status)
			return nil
		})

	rec, err := f.svc.Send(context.Background(), f.sendRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusConfirmed, rec.Status)
	require.NotNil(t, rec.Balance)
	assert.Equal(t, int64(49900), *rec.Balance)
	assert.NotEqual(t, uuid.Nil, rec.ID)
}

func TestTransferService_Send_ProtocolRejectionMarksFailed(t *testing.T) {
	f := setupTransferService(t)
	f.expectReserved(t)

	rejection := apperror.ErrProtocol("Số dư không đủ")
	f.gateway.EXPECT().ConfirmTransaction(gomock.Any(), gomock.Any(), testPending, int64(100), "123456").Return(domain.TransferResult{}, rejection)
	f.transferRepo.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), "Số dư không đủ").Return(nil)
	f.idempCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), idempotencyTTL).Return(nil)

	rec, err := f.svc.Send(context.Background(), f.sendRequest())
	require.ErrorIs(t, err, rejection)
	require.NotNil(t, rec)
	assert.Equal(t, domain.TransferStatusFailed, rec.Status)
	require.NotNil(t, rec.FailureReason)
	assert.Equal(t, "Số dư không đủ", *rec.FailureReason)
}

func TestTransferService_Send_TransportFailureStaysReserved(t *testing.T) {
	f := setupTransferService(t)
	f.expectReserved(t)

	f.gateway.EXPECT().ConfirmTransaction(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.TransferResult{}, apperror.ErrTransport("i/o timeout", errors.New("i/o timeout")))

	rec, err := f.svc.Send(context.Background(), f.sendRequest())
	require.Error(t, err)
	assert.True(t, apperror.Retryable(err))
	require.NotNil(t, rec)
	assert.Equal(t, domain.TransferStatusReserved, rec.Status)
}

func TestTransferService_Send_InitFailureReleasesClaim(t *testing.T) {
	f := setupTransferService(t)

	f.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.transferRepo.EXPECT().GetByIdempotencyKey(gomock.Any(), f.userID, "key-1").Return(nil, nil)
	f.expectLoggedIn(t)

	var claimed uuid.UUID
	f.transferRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec *domain.TransferRecord) error {
		claimed = rec.ID
		return nil
	})
	f.gateway.EXPECT().InitTransaction(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.PendingTransfer{}, apperror.ErrProtocol("Cannot init transaction"))
	f.transferRepo.EXPECT().Release(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, id uuid.UUID) error {
		assert.Equal(t, claimed, id)
		return nil
	})

	rec, err := f.svc.Send(context.Background(), f.sendRequest())
	assert.Nil(t, rec)
	assert.True(t, apperror.IsKind(err, apperror.KindProtocol))
}

func TestTransferService_Send_ClaimTakenSkipsWallet(t *testing.T) {
	f := setupTransferService(t)

	f.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.transferRepo.EXPECT().GetByIdempotencyKey(gomock.Any(), f.userID, "key-1").Return(nil, nil)
	f.expectLoggedIn(t)
	f.transferRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperror.ErrDuplicateTransfer())
	f.gateway.EXPECT().InitTransaction(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	rec, err := f.svc.Send(context.Background(), f.sendRequest())
	assert.Nil(t, rec)
	assertCode(t, err, "FUN_004")
}

func TestTransferService_Send_ReservationNotRecorded(t *testing.T) {
	f := setupTransferService(t)

	f.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.transferRepo.EXPECT().GetByIdempotencyKey(gomock.Any(), f.userID, "key-1").Return(nil, nil)
	f.expectLoggedIn(t)
	f.transferRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.gateway.EXPECT().InitTransaction(gomock.Any(), gomock.Any(), gomock.Any()).Return(testPending, nil)
	f.transferRepo.EXPECT().MarkReserved(gomock.Any(), gomock.Any(), testPending).Return(errors.New("pg down"))
	f.gateway.EXPECT().ConfirmTransaction(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	rec, err := f.svc.Send(context.Background(), f.sendRequest())
	assert.Nil(t, rec)
	assertCode(t, err, "SYS_001")
}

func TestTransferService_Send_PendingFilledFromRequest(t *testing.T) {
	f := setupTransferService(t)

	f.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.transferRepo.EXPECT().GetByIdempotencyKey(gomock.Any(), f.userID, "key-1").Return(nil, nil)
	f.expectLoggedIn(t)
	f.transferRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.gateway.EXPECT().InitTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.PendingTransfer{TransactionID: "81234567"}, nil)
	f.transferRepo.EXPECT().MarkReserved(gomock.Any(), gomock.Any(), testPending).Return(nil)
	f.gateway.EXPECT().ConfirmTransaction(gomock.Any(), gomock.Any(), testPending, int64(100), "123456").
		Return(domain.TransferResult{Balance: 900, Amount: 100}, nil)
	f.transferRepo.EXPECT().MarkConfirmed(gomock.Any(), gomock.Any(), int64(900)).Return(nil)
	f.idempCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), idempotencyTTL).Return(nil)

	rec, err := f.svc.Send(context.Background(), f.sendRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(100), rec.Amount)
	assert.Equal(t, "Tran Thi B", rec.PartnerName)
}

// memoryLedger is a TransferRepository that enforces the unique key like the
// database does. Lookups block until two callers have arrived so that both
// pass the ledger check before either claims the key.
type memoryLedger struct {
	mu      sync.Mutex
	rows    map[string]*domain.TransferRecord
	arrived sync.WaitGroup
}

func newMemoryLedger(lookups int) *memoryLedger {
	l := &memoryLedger{rows: map[string]*domain.TransferRecord{}}
	l.arrived.Add(lookups)
	return l
}

func (l *memoryLedger) Create(_ context.Context, rec *domain.TransferRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.rows[rec.IdempotencyKey]; ok {
		return apperror.ErrDuplicateTransfer()
	}
	row := *rec
	l.rows[rec.IdempotencyKey] = &row
	return nil
}

func (l *memoryLedger) GetByIdempotencyKey(_ context.Context, _ uuid.UUID, key string) (*domain.TransferRecord, error) {
	l.arrived.Done()
	l.arrived.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if row, ok := l.rows[key]; ok {
		out := *row
		return &out, nil
	}
	return nil, nil
}

func (l *memoryLedger) update(id uuid.UUID, from domain.TransferStatus, fn func(*domain.TransferRecord)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, row := range l.rows {
		if row.ID == id && row.Status == from {
			fn(row)
			return nil
		}
	}
	return fmt.Errorf("transfer %s is not %s", id, from)
}

func (l *memoryLedger) MarkReserved(_ context.Context, id uuid.UUID, p domain.PendingTransfer) error {
	return l.update(id, domain.TransferStatusInitiating, func(row *domain.TransferRecord) {
		row.Status = domain.TransferStatusReserved
		row.TransactionID = p.TransactionID
	})
}

func (l *memoryLedger) Release(_ context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, row := range l.rows {
		if row.ID == id && row.Status == domain.TransferStatusInitiating {
			delete(l.rows, key)
		}
	}
	return nil
}

func (l *memoryLedger) MarkConfirmed(_ context.Context, id uuid.UUID, balance int64) error {
	return l.update(id, domain.TransferStatusReserved, func(row *domain.TransferRecord) {
		row.Status = domain.TransferStatusConfirmed
		row.Balance = &balance
	})
}

func (l *memoryLedger) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	return l.update(id, domain.TransferStatusReserved, func(row *domain.TransferRecord) {
		row.Status = domain.TransferStatusFailed
		row.FailureReason = &reason
	})
}

func (l *memoryLedger) ListReserved(context.Context, uuid.UUID) ([]domain.TransferRecord, error) {
	return nil, nil
}

func TestTransferService_Send_ConcurrentSameKey(t *testing.T) {
	d := newWalletDeps(t)
	ledger := newMemoryLedger(2)
	cache := mocks.NewMockIdempotencyCache(d.ctrl)
	svc := NewTransferService(d.gateway, d.resolver, ledger, cache, zerolog.Nop())
	svc.now = func() time.Time { return testNow }

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), idempotencyTTL).Return(nil).AnyTimes()
	d.regRepo.EXPECT().GetByUserID(gomock.Any(), d.userID).Return(d.registration(t, domain.RegistrationLoggedIn), nil).Times(2)
	session := testSession
	d.sessions.EXPECT().Get(gomock.Any(), d.userID).Return(&session, nil).Times(2)

	d.gateway.EXPECT().InitTransaction(gomock.Any(), gomock.Any(), testTransfer).Return(testPending, nil).Times(1)
	d.gateway.EXPECT().ConfirmTransaction(gomock.Any(), gomock.Any(), testPending, int64(100), "123456").
		Return(domain.TransferResult{Balance: 49900, Amount: 100}, nil).Times(1)

	req := ports.SendRequest{UserID: d.userID, IdempotencyKey: "key-1", Transfer: testTransfer, Password: "123456"}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	recs := make([]*domain.TransferRecord, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs[i], errs[i] = svc.Send(context.Background(), req)
		}()
	}
	wg.Wait()

	var confirmed, busy int
	for i := range 2 {
		if errs[i] == nil {
			require.NotNil(t, recs[i])
			assert.Equal(t, domain.TransferStatusConfirmed, recs[i].Status)
			confirmed++
			continue
		}
		assertCode(t, errs[i], "FUN_004")
		busy++
	}
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 1, busy)

	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	require.Len(t, ledger.rows, 1)
	assert.Equal(t, "81234567", ledger.rows["key-1"].TransactionID)
	assert.Equal(t, domain.TransferStatusConfirmed, ledger.rows["key-1"].Status)
}

func TestTransferService_Send_ReplayFromCache(t *testing.T) {
	f := setupTransferService(t)

	balance := int64(49900)
	done := domain.TransferRecord{ID: uuid.New(), Status: domain.TransferStatusConfirmed, Balance: &balance, TransactionID: "81234567"}
	data, err := json.Marshal(done)
	require.NoError(t, err)

	f.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(data, nil)

	rec, err := f.svc.Send(context.Background(), f.sendRequest())
	require.NoError(t, err)
	assert.Equal(t, done.ID, rec.ID)
	assert.Equal(t, domain.TransferStatusConfirmed, rec.Status)
}

func TestTransferService_Send_ReplayFromLedger(t *testing.T) {
	f := setupTransferService(t)

	reason := "Số dư không đủ"
	failed := &domain.TransferRecord{ID: uuid.New(), Status: domain.TransferStatusFailed, FailureReason: &reason}

	f.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))
	f.transferRepo.EXPECT().GetByIdempotencyKey(gomock.Any(), f.userID, "key-1").Return(failed, nil)
	f.idempCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), idempotencyTTL).Return(nil)

	rec, err := f.svc.Send(context.Background(), f.sendRequest())
	require.NoError(t, err)
	assert.Equal(t, failed, rec)
}

func TestTransferService_Send_ReservedKeyIsBusy(t *testing.T) {
	f := setupTransferService(t)

	f.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.transferRepo.EXPECT().GetByIdempotencyKey(gomock.Any(), f.userID, "key-1").
		Return(&domain.TransferRecord{Status: domain.TransferStatusReserved}, nil)

	_, err := f.svc.Send(context.Background(), f.sendRequest())
	assertCode(t, err, "FUN_004")
}

func TestTransferService_Send_Validation(t *testing.T) {
	f := setupTransferService(t)

	req := f.sendRequest()
	req.IdempotencyKey = ""
	_, err := f.svc.Send(context.Background(), req)
	assertCode(t, err, "REQ_001")

	req = f.sendRequest()
	req.Transfer.Amount = -5
	_, err = f.svc.Send(context.Background(), req)
	assertCode(t, err, "REQ_001")
}

func TestTransferService_ListReserved(t *testing.T) {
	f := setupTransferService(t)

	rows := []domain.TransferRecord{{ID: uuid.New(), Status: domain.TransferStatusReserved}}
	f.transferRepo.EXPECT().ListReserved(gomock.Any(), f.userID).Return(rows, nil)

	got, err := f.svc.ListReserved(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	f.transferRepo.EXPECT().ListReserved(gomock.Any(), f.userID).Return(nil, errors.New("pg down"))
	_, err = f.svc.ListReserved(context.Background(), f.userID)
	assertCode(t, err, "SYS_001")
}
