package service

import (
	"context"
	"fmt"

	"momo-bridge/internal/core/domain"
	"momo-bridge/internal/core/ports"
	"momo-bridge/pkg/apperror"

	"github.com/google/uuid"
)

// SessionResolver rebuilds a user's device, grant and wallet session from
// the stored registration and the session cache.
type SessionResolver struct {
	regRepo  ports.RegistrationRepository
	sessions ports.SessionStore
	encSvc   ports.EncryptionService
}

// NewSessionResolver creates a new SessionResolver.
func NewSessionResolver(
	regRepo ports.RegistrationRepository,
	sessions ports.SessionStore,
	encSvc ports.EncryptionService,
) *SessionResolver {
	return &SessionResolver{
		regRepo:  regRepo,
		sessions: sessions,
		encSvc:   encSvc,
	}
}

// Resolve returns the SessionContext of a logged-in user.
func (r *SessionResolver) Resolve(ctx context.Context, userID uuid.UUID) (domain.SessionContext, error) {
	reg, err := r.registration(ctx, userID)
	if err != nil {
		return domain.SessionContext{}, err
	}
	if reg.Status != domain.RegistrationLoggedIn {
		return domain.SessionContext{}, apperror.ErrFunnelState(string(reg.Status), string(domain.RegistrationLoggedIn))
	}

	session, err := r.sessions.Get(ctx, userID)
	if err != nil {
		return domain.SessionContext{}, apperror.InternalError(fmt.Errorf("load session: %w", err))
	}
	if session == nil {
		return domain.SessionContext{}, apperror.ErrSessionExpired()
	}

	device, err := r.device(reg)
	if err != nil {
		return domain.SessionContext{}, err
	}
	grant, err := r.grant(reg)
	if err != nil {
		return domain.SessionContext{}, err
	}

	return domain.SessionContext{Device: device, Grant: grant, Session: *session}, nil
}

// registration loads the user's registration; a missing one is an error.
func (r *SessionResolver) registration(ctx context.Context, userID uuid.UUID) (*domain.WalletRegistration, error) {
	reg, err := r.regRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("load registration: %w", err))
	}
	if reg == nil {
		return nil, apperror.ErrWalletNotRegistered()
	}
	return reg, nil
}

func (r *SessionResolver) device(reg *domain.WalletRegistration) (domain.DeviceIdentity, error) {
	rkey, err := r.encSvc.Decrypt(reg.RKeySealed)
	if err != nil {
		return domain.DeviceIdentity{}, apperror.ErrSealFailure(fmt.Errorf("open rkey: %w", err))
	}
	return domain.DeviceIdentity{
		Phone:  reg.Phone,
		IMEI:   reg.IMEI,
		PushID: reg.PushID,
		RKey:   rkey,
	}, nil
}

func (r *SessionResolver) grant(reg *domain.WalletRegistration) (domain.OtpGrant, error) {
	if reg.OHashSealed == nil || reg.SetupKeySealed == nil {
		return domain.OtpGrant{}, apperror.ErrFunnelState(string(reg.Status), string(domain.RegistrationOTPConfirmed))
	}

	ohash, err := r.encSvc.Decrypt(*reg.OHashSealed)
	if err != nil {
		return domain.OtpGrant{}, apperror.ErrSealFailure(fmt.Errorf("open ohash: %w", err))
	}
	setupKey, err := r.encSvc.Decrypt(*reg.SetupKeySealed)
	if err != nil {
		return domain.OtpGrant{}, apperror.ErrSealFailure(fmt.Errorf("open setup key: %w", err))
	}
	return domain.OtpGrant{OHash: ohash, SetupKey: setupKey}, nil
}
