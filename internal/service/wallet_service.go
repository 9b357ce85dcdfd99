package service

import (
	"context"
	"fmt"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/internal/core/ports"
	"momo-bridge/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService: the registration funnel
// (OTP request, OTP confirm, login) and the read-only wallet calls.
type WalletServiceImpl struct {
	gateway    ports.WalletGateway
	resolver   *SessionResolver
	newDevice  ports.DeviceFactory
	sessionTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	gateway ports.WalletGateway,
	resolver *SessionResolver,
	newDevice ports.DeviceFactory,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		gateway:    gateway,
		resolver:   resolver,
		newDevice:  newDevice,
		sessionTTL: sessionTTL,
		now:        time.Now,
		log:        log,
	}
}

// RequestOTP binds a freshly generated device to phone and asks the wallet
// to send an OTP. Once the OTP is sent, any previous registration and
// session of the user are replaced.
func (s *WalletServiceImpl) RequestOTP(ctx context.Context, userID uuid.UUID, phone string) (*domain.WalletRegistration, error) {
	existing, err := s.resolver.regRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("load registration: %w", err))
	}

	now := s.now()
	device, err := s.newDevice(phone, now)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate device: %w", err))
	}

	rkeySealed, err := s.resolver.encSvc.Encrypt(device.RKey)
	if err != nil {
		return nil, apperror.ErrSealFailure(fmt.Errorf("seal rkey: %w", err))
	}

	reg := &domain.WalletRegistration{
		ID:         uuid.New(),
		UserID:     userID,
		Phone:      device.Phone,
		IMEI:       device.IMEI,
		PushID:     device.PushID,
		RKeySealed: rkeySealed,
		Status:     domain.RegistrationOTPRequested,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	if existing != nil {
		reg.ID = existing.ID
		reg.CreatedAt = existing.CreatedAt
	}

	// The stored registration is only replaced once the wallet has sent
	// an OTP for the new device.
	sent, err := s.gateway.RequestOTP(ctx, device)
	if err != nil {
		return nil, err
	}
	if !sent {
		return nil, apperror.ErrProtocol("wallet did not send the OTP")
	}

	if err := s.resolver.regRepo.Save(ctx, reg); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("save registration: %w", err))
	}
	if err := s.resolver.sessions.Delete(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to drop stale wallet session")
	}

	s.log.Info().Str("user_id", userID.String()).Str("registration_id", reg.ID.String()).Msg("otp requested")
	return reg, nil
}

// ConfirmOTP registers the device with the OTP and stores the sealed grant.
func (s *WalletServiceImpl) ConfirmOTP(ctx context.Context, userID uuid.UUID, otp string) (*domain.WalletRegistration, error) {
	reg, err := s.resolver.registration(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !reg.Status.CanTransition(domain.RegistrationOTPConfirmed) {
		return nil, apperror.ErrFunnelState(string(reg.Status), string(domain.RegistrationOTPRequested))
	}

	device, err := s.resolver.device(reg)
	if err != nil {
		return nil, err
	}

	grant, err := s.gateway.ConfirmOTP(ctx, device, otp)
	if err != nil {
		return nil, err
	}

	ohashSealed, err := s.resolver.encSvc.Encrypt(grant.OHash)
	if err != nil {
		return nil, apperror.ErrSealFailure(fmt.Errorf("seal ohash: %w", err))
	}
	setupKeySealed, err := s.resolver.encSvc.Encrypt(grant.SetupKey)
	if err != nil {
		return nil, apperror.ErrSealFailure(fmt.Errorf("seal setup key: %w", err))
	}

	if err := s.resolver.regRepo.SaveGrant(ctx, reg.ID, ohashSealed, setupKeySealed); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("save grant: %w", err))
	}

	reg.OHashSealed = &ohashSealed
	reg.SetupKeySealed = &setupKeySealed
	reg.Status = domain.RegistrationOTPConfirmed
	reg.UpdatedAt = s.now().UTC()

	s.log.Info().Str("user_id", userID.String()).Str("registration_id", reg.ID.String()).Msg("device registered")
	return reg, nil
}

// Login opens a wallet session and caches it for sessionTTL.
func (s *WalletServiceImpl) Login(ctx context.Context, userID uuid.UUID, password string) (*domain.WalletRegistration, error) {
	reg, err := s.resolver.registration(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !reg.Status.CanTransition(domain.RegistrationLoggedIn) {
		return nil, apperror.ErrFunnelState(string(reg.Status), string(domain.RegistrationOTPConfirmed))
	}

	device, err := s.resolver.device(reg)
	if err != nil {
		return nil, err
	}
	grant, err := s.resolver.grant(reg)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.Login(ctx, domain.Credentials{Device: device, Grant: grant, Password: password})
	if err != nil {
		return nil, err
	}

	if err := s.resolver.sessions.Set(ctx, userID, result.Session, s.sessionTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("cache session: %w", err))
	}
	if reg.Status != domain.RegistrationLoggedIn {
		if err := s.resolver.regRepo.UpdateStatus(ctx, reg.ID, domain.RegistrationLoggedIn); err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("update registration: %w", err))
		}
		reg.Status = domain.RegistrationLoggedIn
		reg.UpdatedAt = s.now().UTC()
	}

	s.log.Info().Str("user_id", userID.String()).Msg("wallet session opened")
	return reg, nil
}

// History lists one page of the wallet's transactions.
func (s *WalletServiceImpl) History(ctx context.Context, userID uuid.UUID, q domain.HistoryQuery) (domain.HistoryPage, error) {
	sc, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return domain.HistoryPage{}, err
	}
	return s.gateway.BrowseHistory(ctx, sc.Session, q)
}

// TransactionDetail fetches one transaction with its service data.
func (s *WalletServiceImpl) TransactionDetail(ctx context.Context, userID uuid.UUID, transID int64, serviceID string) (domain.TransactionDetail, error) {
	sc, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return domain.TransactionDetail{}, err
	}
	return s.gateway.TransactionDetail(ctx, sc.Session, transID, serviceID)
}

// FindReceiver looks up a transfer target by phone number.
func (s *WalletServiceImpl) FindReceiver(ctx context.Context, userID uuid.UUID, targetID string) (domain.ReceiverProfile, error) {
	sc, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return domain.ReceiverProfile{}, err
	}
	return s.gateway.FindReceiverProfile(ctx, sc, targetID)
}
