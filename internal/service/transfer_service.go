package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/internal/core/ports"
	"momo-bridge/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const idempotencyTTL = 24 * time.Hour

// TransferServiceImpl implements ports.TransferService. Each transfer is a
// two-step saga: the wallet reserves it (init), the ledger records the
// reservation, then the wallet commits it (confirm).
type TransferServiceImpl struct {
	gateway      ports.WalletGateway
	resolver     *SessionResolver
	transferRepo ports.TransferRepository
	idempCache   ports.IdempotencyCache
	now          func() time.Time
	log          zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	gateway ports.WalletGateway,
	resolver *SessionResolver,
	transferRepo ports.TransferRepository,
	idempCache ports.IdempotencyCache,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		gateway:      gateway,
		resolver:     resolver,
		transferRepo: transferRepo,
		idempCache:   idempCache,
		now:          time.Now,
		log:          log,
	}
}

// Send runs init then confirm for one idempotency key.
//
// The key is claimed with an INITIATING ledger row before the wallet is
// called, so concurrent requests with one key reach the wallet at most once.
// A finished transfer (CONFIRMED or FAILED) is replayed for the same key. A
// key whose transfer is still open is rejected: the outcome is unknown and
// the row is listed by ListReserved for reconciliation.
//
// When confirm fails the returned record is non-nil alongside the error.
// A protocol rejection marks it FAILED; a transport failure leaves it
// RESERVED.
func (s *TransferServiceImpl) Send(ctx context.Context, req ports.SendRequest) (*domain.TransferRecord, error) {
	if req.IdempotencyKey == "" {
		return nil, apperror.Validation("Idempotency-Key header is required")
	}
	if req.Transfer.Amount <= 0 {
		return nil, apperror.Validation("amount must be positive")
	}

	idempKey := domain.BuildTransferIdempotencyKey(req.UserID, req.IdempotencyKey)

	// Layer 1: Redis replay cache
	cached, err := s.idempCache.Get(ctx, idempKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return unmarshalCachedTransfer(cached)
	}

	// Layer 2: ledger
	existing, err := s.transferRepo.GetByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("ledger idempotency check: %w", err))
	}
	if existing != nil {
		if !existing.IsTerminal() {
			return nil, apperror.ErrDuplicateTransfer()
		}
		s.cache(ctx, idempKey, existing)
		return existing, nil
	}

	sc, err := s.resolver.Resolve(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	rec, err := s.claim(ctx, req)
	if err != nil {
		return nil, err
	}

	pending, err := s.gateway.InitTransaction(ctx, sc, req.Transfer)
	if err != nil {
		// Nothing was confirmed, so the key may be used again.
		if relErr := s.transferRepo.Release(context.WithoutCancel(ctx), rec.ID); relErr != nil {
			s.log.Error().Err(relErr).Str("transfer_id", rec.ID.String()).Msg("failed to release transfer claim")
		}
		return nil, err
	}

	pending.Amount = rec.Amount
	if pending.PartnerID == "" {
		pending.PartnerID = rec.PartnerID
	}
	if pending.PartnerName == "" {
		pending.PartnerName = rec.PartnerName
	}

	if err := s.transferRepo.MarkReserved(ctx, rec.ID, pending); err != nil {
		// The row stays INITIATING and is listed for reconciliation.
		s.log.Error().Err(err).
			Str("transfer_id", rec.ID.String()).
			Str("transaction_id", pending.TransactionID).
			Msg("reserved transfer could not be recorded")
		return nil, apperror.ErrDatabaseError(fmt.Errorf("record reservation: %w", err))
	}
	rec.TransactionID = pending.TransactionID
	rec.PartnerID = pending.PartnerID
	rec.PartnerName = pending.PartnerName
	rec.Status = domain.TransferStatusReserved
	rec.UpdatedAt = s.now().UTC()

	result, err := s.gateway.ConfirmTransaction(ctx, sc, rec.Pending(), rec.Amount, req.Password)
	if err != nil {
		return s.confirmFailed(ctx, idempKey, rec, err)
	}

	if err := s.transferRepo.MarkConfirmed(ctx, rec.ID, result.Balance); err != nil {
		s.log.Error().Err(err).Str("transfer_id", rec.ID.String()).Msg("confirmed transfer could not be recorded")
		return nil, apperror.ErrDatabaseError(fmt.Errorf("mark confirmed: %w", err))
	}
	rec.Status = domain.TransferStatusConfirmed
	rec.Balance = &result.Balance
	rec.UpdatedAt = s.now().UTC()

	s.cache(ctx, idempKey, rec)

	s.log.Info().
		Str("transfer_id", rec.ID.String()).
		Str("transaction_id", rec.TransactionID).
		Int64("amount", rec.Amount).
		Msg("transfer confirmed")

	return rec, nil
}

// claim inserts the INITIATING row that owns the idempotency key.
func (s *TransferServiceImpl) claim(ctx context.Context, req ports.SendRequest) (*domain.TransferRecord, error) {
	now := s.now().UTC()
	rec := &domain.TransferRecord{
		ID:             uuid.New(),
		UserID:         req.UserID,
		IdempotencyKey: req.IdempotencyKey,
		PartnerID:      req.Transfer.PartnerID,
		PartnerName:    req.Transfer.PartnerName,
		Amount:         req.Transfer.Amount,
		Comment:        req.Transfer.Comment,
		Status:         domain.TransferStatusInitiating,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.transferRepo.Create(ctx, rec); err != nil {
		if apperror.IsKind(err, apperror.KindValidation) {
			return nil, err
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("claim idempotency key: %w", err))
	}
	return rec, nil
}

// confirmFailed records the outcome of a failed confirm.
func (s *TransferServiceImpl) confirmFailed(ctx context.Context, idempKey string, rec *domain.TransferRecord, cause error) (*domain.TransferRecord, error) {
	if !apperror.IsKind(cause, apperror.KindProtocol) && !apperror.IsKind(cause, apperror.KindValidation) {
		s.log.Warn().Err(cause).
			Str("transfer_id", rec.ID.String()).
			Str("transaction_id", rec.TransactionID).
			Msg("confirm outcome unknown, transfer left reserved")
		return rec, cause
	}

	reason := cause.Error()
	var appErr *apperror.AppError
	if errors.As(cause, &appErr) {
		reason = appErr.Message
	}

	if err := s.transferRepo.MarkFailed(ctx, rec.ID, reason); err != nil {
		s.log.Error().Err(err).Str("transfer_id", rec.ID.String()).Msg("failed transfer could not be recorded")
		return rec, cause
	}
	rec.Status = domain.TransferStatusFailed
	rec.FailureReason = &reason
	rec.UpdatedAt = s.now().UTC()

	s.cache(ctx, idempKey, rec)
	return rec, cause
}

// ListReserved returns transfers whose confirm outcome is unknown.
func (s *TransferServiceImpl) ListReserved(ctx context.Context, userID uuid.UUID) ([]domain.TransferRecord, error) {
	recs, err := s.transferRepo.ListReserved(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list reserved transfers: %w", err))
	}
	return recs, nil
}

// cache stores a terminal record for replay (best-effort).
func (s *TransferServiceImpl) cache(ctx context.Context, key string, rec *domain.TransferRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.idempCache.Set(ctx, key, data, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to cache idempotency in redis")
	}
}

func unmarshalCachedTransfer(data []byte) (*domain.TransferRecord, error) {
	var rec domain.TransferRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached transfer: %w", err))
	}
	return &rec, nil
}
