package handler

import (
	"momo-bridge/internal/adapter/http/dto"
	"momo-bridge/internal/adapter/http/middleware"
	"momo-bridge/internal/core/domain"
	"momo-bridge/internal/core/ports"
	"momo-bridge/pkg/apperror"
	"momo-bridge/pkg/response"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey names the client key that makes a transfer replayable.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 64

// TransferHandler handles peer-to-peer transfer endpoints.
type TransferHandler struct {
	transferSvc ports.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// Send handles POST /api/v1/wallet/transfers.
//
// A confirmed transfer answers 201, also when replayed. A transfer whose
// confirm never got an answer answers 202 with the RESERVED record, since it
// may still have gone through. A replayed failure answers 200 with the
// stored record.
func (h *TransferHandler) Send(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	key := c.GetHeader(HeaderIdempotencyKey)
	if key == "" || len(key) > maxIdempotencyKeyLen {
		response.Error(c, apperror.Validation("Idempotency-Key header is required (max 64 chars)"))
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	rec, err := h.transferSvc.Send(c.Request.Context(), ports.SendRequest{
		UserID:         userID,
		IdempotencyKey: key,
		Transfer: domain.TransferRequest{
			PartnerID:   req.PartnerID,
			PartnerName: req.PartnerName,
			Amount:      req.Amount,
			Comment:     req.Comment,
		},
		Password: req.Password,
	})
	if err != nil {
		if rec != nil && rec.Status == domain.TransferStatusReserved && apperror.Retryable(err) {
			response.Accepted(c, rec)
			return
		}
		response.Error(c, err)
		return
	}

	if rec.Status == domain.TransferStatusConfirmed {
		response.Created(c, rec)
		return
	}
	response.OK(c, rec)
}

// ListPending handles GET /api/v1/wallet/transfers/pending.
func (h *TransferHandler) ListPending(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	recs, err := h.transferSvc.ListReserved(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if recs == nil {
		recs = []domain.TransferRecord{}
	}
	response.OK(c, recs)
}
