package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/internal/core/ports/mocks"
	"momo-bridge/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSealKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func testSession() domain.Session {
	return domain.Session{
		Phone:             "0912345678",
		AuthToken:         "eyJhbGciOiJSUzI1NiJ9.payload.sig",
		RequestEncryptKey: "-----BEGIN PUBLIC KEY-----\nMFww\n-----END PUBLIC KEY-----",
		RefreshToken:      "refresh-1",
	}
}

func TestSessionStore_SetGetDelete(t *testing.T) {
	s, client := newTestClient(t)
	enc, err := service.NewAESEncryptionService(testSealKey)
	require.NoError(t, err)
	store := NewSessionStore(client, enc)
	ctx := context.Background()
	userID := uuid.New()

	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Set(ctx, userID, testSession(), 12*time.Hour))

	raw, err := s.Get("session:" + userID.String())
	require.NoError(t, err)
	assert.NotContains(t, raw, "eyJhbGciOiJSUzI1NiJ9")
	assert.Equal(t, 12*time.Hour, s.TTL("session:"+userID.String()))

	got, err = store.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testSession(), *got)

	require.NoError(t, store.Delete(ctx, userID))
	got, err = store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.Delete(ctx, userID))
}

func TestSessionStore_Expires(t *testing.T) {
	s, client := newTestClient(t)
	enc, err := service.NewAESEncryptionService(testSealKey)
	require.NoError(t, err)
	store := NewSessionStore(client, enc)
	userID := uuid.New()

	require.NoError(t, store.Set(context.Background(), userID, testSession(), time.Minute))
	s.FastForward(2 * time.Minute)

	got, err := store.Get(context.Background(), userID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_TamperedValue(t *testing.T) {
	s, client := newTestClient(t)
	enc, err := service.NewAESEncryptionService(testSealKey)
	require.NoError(t, err)
	store := NewSessionStore(client, enc)
	userID := uuid.New()

	require.NoError(t, s.Set("session:"+userID.String(), "deadbeef"))

	_, err = store.Get(context.Background(), userID)
	assert.ErrorContains(t, err, "open session")
}

func TestSessionStore_SealFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, client := newTestClient(t)
	enc := mocks.NewMockEncryptionService(ctrl)
	store := NewSessionStore(client, enc)
	userID := uuid.New()

	enc.EXPECT().Encrypt(gomock.Any()).Return("", errors.New("cipher unavailable"))

	err := store.Set(context.Background(), userID, testSession(), time.Hour)
	assert.ErrorContains(t, err, "seal session")
	assert.False(t, s.Exists("session:"+userID.String()))
}
