package ports

//go:generate mockgen -source=wallet.go -destination=mocks/mock_wallet.go -package=mocks

import (
	"context"
	"time"

	"momo-bridge/internal/core/domain"
)

// WalletGateway is the MoMo protocol client as seen by the bridge services.
// *momo.Client implements it.
type WalletGateway interface {
	RequestOTP(ctx context.Context, device domain.DeviceIdentity) (bool, error)
	ConfirmOTP(ctx context.Context, device domain.DeviceIdentity, otp string) (domain.OtpGrant, error)
	Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error)
	BrowseHistory(ctx context.Context, session domain.Session, q domain.HistoryQuery) (domain.HistoryPage, error)
	TransactionDetail(ctx context.Context, session domain.Session, transID int64, serviceID string) (domain.TransactionDetail, error)
	FindReceiverProfile(ctx context.Context, sc domain.SessionContext, targetID string) (domain.ReceiverProfile, error)
	InitTransaction(ctx context.Context, sc domain.SessionContext, req domain.TransferRequest) (domain.PendingTransfer, error)
	ConfirmTransaction(ctx context.Context, sc domain.SessionContext, pending domain.PendingTransfer, amount int64, password string) (domain.TransferResult, error)
}

// DeviceFactory generates the simulated handset for a new registration.
type DeviceFactory func(phone string, now time.Time) (domain.DeviceIdentity, error)
