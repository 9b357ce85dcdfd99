package handler

import (
	"strconv"

	"momo-bridge/internal/adapter/http/dto"
	"momo-bridge/internal/adapter/http/middleware"
	"momo-bridge/internal/adapter/momo"
	"momo-bridge/internal/core/domain"
	"momo-bridge/internal/core/ports"
	"momo-bridge/pkg/apperror"
	"momo-bridge/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles the wallet funnel and read endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// RequestOTP handles POST /api/v1/wallet/otp/request.
func (h *WalletHandler) RequestOTP(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	reg, err := h.walletSvc.RequestOTP(c.Request.Context(), userID, req.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toRegistrationResponse(reg))
}

// ConfirmOTP handles POST /api/v1/wallet/otp/confirm.
func (h *WalletHandler) ConfirmOTP(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.OTPConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	reg, err := h.walletSvc.ConfirmOTP(c.Request.Context(), userID, req.OTP)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toRegistrationResponse(reg))
}

// Login handles POST /api/v1/wallet/login.
func (h *WalletHandler) Login(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WalletLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	reg, err := h.walletSvc.Login(c.Request.Context(), userID, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toRegistrationResponse(reg))
}

// History handles GET /api/v1/wallet/history.
func (h *WalletHandler) History(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	start, err := momo.ParseDate(req.StartDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := momo.ParseDate(req.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.walletSvc.History(c.Request.Context(), userID, domain.HistoryQuery{
		Start: start,
		End:   end,
		Page:  req.Page,
		Limit: req.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// TransactionDetail handles GET /api/v1/wallet/transactions/:id.
func (h *WalletHandler) TransactionDetail(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	transID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || transID <= 0 {
		response.Error(c, apperror.Validation("transaction id must be a positive integer"))
		return
	}

	var req dto.DetailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	detail, err := h.walletSvc.TransactionDetail(c.Request.Context(), userID, transID, req.ServiceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// FindReceiver handles GET /api/v1/wallet/receivers/:target.
func (h *WalletHandler) FindReceiver(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	profile, err := h.walletSvc.FindReceiver(c.Request.Context(), userID, c.Param("target"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

func toRegistrationResponse(reg *domain.WalletRegistration) dto.RegistrationResponse {
	return dto.RegistrationResponse{
		Phone:     reg.Phone,
		Status:    string(reg.Status),
		UpdatedAt: reg.UpdatedAt,
	}
}
