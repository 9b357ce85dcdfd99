package service

import (
	"testing"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	testNow = time.Date(2022, 6, 23, 16, 0, 0, 0, time.UTC)

	testDevice = domain.DeviceIdentity{
		Phone:  "0912345678",
		IMEI:   "84671058-3e1c-e395-79f7-9f7b13c9ecc7",
		PushID: "fb007a24-eb4f-5c9f-3eb0-eb0bfc363dd9",
		RKey:   "abcdefghijklmnopqrst",
	}

	testGrant = domain.OtpGrant{OHash: "ohash-1", SetupKey: "setup-key-1"}

	testSession = domain.Session{
		Phone:             "0912345678",
		AuthToken:         "auth-token-1",
		RequestEncryptKey: "-----BEGIN PUBLIC KEY-----",
		RefreshToken:      "refresh-token-1",
	}
)

func fixedDevice(phone string, _ time.Time) (domain.DeviceIdentity, error) {
	d := testDevice
	d.Phone = phone
	return d, nil
}

// walletDeps are the collaborators shared by the wallet and transfer services.
type walletDeps struct {
	ctrl     *gomock.Controller
	gateway  *mocks.MockWalletGateway
	regRepo  *mocks.MockRegistrationRepository
	sessions *mocks.MockSessionStore
	enc      *AESEncryptionService
	resolver *SessionResolver
	userID   uuid.UUID
}

func newWalletDeps(t *testing.T) *walletDeps {
	ctrl := gomock.NewController(t)
	enc, err := NewAESEncryptionService(testAESKey)
	require.NoError(t, err)

	d := &walletDeps{
		ctrl:     ctrl,
		gateway:  mocks.NewMockWalletGateway(ctrl),
		regRepo:  mocks.NewMockRegistrationRepository(ctrl),
		sessions: mocks.NewMockSessionStore(ctrl),
		enc:      enc,
		userID:   uuid.New(),
	}
	d.resolver = NewSessionResolver(d.regRepo, d.sessions, enc)
	return d
}

func (d *walletDeps) seal(t *testing.T, s string) string {
	out, err := d.enc.Encrypt(s)
	require.NoError(t, err)
	return out
}

// registration builds a stored registration in the given state; the grant is
// present from OTP_CONFIRMED on.
func (d *walletDeps) registration(t *testing.T, status domain.RegistrationStatus) *domain.WalletRegistration {
	reg := &domain.WalletRegistration{
		ID:         uuid.New(),
		UserID:     d.userID,
		Phone:      testDevice.Phone,
		IMEI:       testDevice.IMEI,
		PushID:     testDevice.PushID,
		RKeySealed: d.seal(t, testDevice.RKey),
		Status:     status,
		CreatedAt:  testNow.Add(-time.Hour),
		UpdatedAt:  testNow.Add(-time.Hour),
	}
	if status != domain.RegistrationOTPRequested {
		ohash, setupKey := d.seal(t, testGrant.OHash), d.seal(t, testGrant.SetupKey)
		reg.OHashSealed = &ohash
		reg.SetupKeySealed = &setupKey
	}
	return reg
}

// expectLoggedIn primes the resolver for a user with a live session.
func (d *walletDeps) expectLoggedIn(t *testing.T) {
	d.regRepo.EXPECT().GetByUserID(gomock.Any(), d.userID).Return(d.registration(t, domain.RegistrationLoggedIn), nil)
	session := testSession
	d.sessions.EXPECT().Get(gomock.Any(), d.userID).Return(&session, nil)
}

var testSessionContext = domain.SessionContext{Device: testDevice, Grant: testGrant, Session: testSession}
