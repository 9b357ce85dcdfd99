package momo

import (
	"context"
	"testing"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sendOTPPath   = "/backend/otp-app/public/SEND_OTP_MSG"
	regDevicePath = "/backend/otp-app/public/REG_DEVICE_MSG"
)

func TestNewDevice(t *testing.T) {
	at := time.UnixMilli(1656000000000)
	d, err := NewDevice(testPhone, at)
	require.NoError(t, err)

	assert.Equal(t, testPhone, d.Phone)
	assert.Equal(t, DeviceID(at), d.IMEI)
	assert.Equal(t, PushID(at), d.PushID)
	assert.Len(t, d.RKey, 20)
}

func TestRequestOTP(t *testing.T) {
	f := newFakeWallet(t)
	f.handle(sendOTPPath, func(call walletCall) walletReply {
		return walletReply{JSON: map[string]interface{}{"errorCode": 0, "resultType": "SUCCESS"}}
	})

	ok, err := f.client().RequestOTP(context.Background(), testDevice)
	require.NoError(t, err)
	assert.True(t, ok)

	calls := f.calls()
	require.Len(t, calls, 1)
	call := calls[0]

	assert.False(t, call.Encrypted)
	assert.Equal(t, MsgSendOTP, call.Header.Get("msgtype"))
	assert.Equal(t, "31171", call.Header.Get("app_version"))
	assert.Equal(t, "3.1.17", call.Header.Get("app_code"))
	assert.Equal(t, "IOS", call.Header.Get("device_os"))
	assert.Equal(t, "vi", call.Header.Get("lang"))

	assert.Equal(t, MsgSendOTP, call.Body["msgType"])
	assert.Equal(t, testPhone, call.Body["user"])
	assert.Equal(t, "vn.momo.platform", call.Body["appId"])
	assert.Equal(t, "true", formatValue(call.Body["result"]))

	msg := call.momoMsg()
	assert.Equal(t, "mservice.backend.entity.msg.RegDeviceMsg", msg["_class"])
	assert.Equal(t, testPhone, msg["number"])
	assert.Equal(t, testDevice.IMEI, msg["imei"])
	assert.Equal(t, "iPhone 13", msg["device"])
	assert.Equal(t, "452", msg["mcc"])

	extra := call.extra()
	assert.Equal(t, "SEND", extra["action"])
	assert.Equal(t, testDevice.RKey, extra["rkey"])
	assert.Equal(t, testDevice.PushID, extra["AAID"])
	assert.Equal(t, "false", extra["SIMULATOR"])
	assert.Equal(t, true, extra["isVoice"])
	assert.Equal(t, "", extra["checkSum"])
}

func TestRequestOTP_NotSuccess(t *testing.T) {
	f := newFakeWallet(t)
	f.handle(sendOTPPath, func(walletCall) walletReply {
		return walletReply{JSON: map[string]interface{}{"resultType": "PENDING"}}
	})

	ok, err := f.client().RequestOTP(context.Background(), testDevice)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequestOTP_ServerError(t *testing.T) {
	f := newFakeWallet(t)
	f.handle(sendOTPPath, func(walletCall) walletReply {
		return walletReply{JSON: map[string]interface{}{"errorCode": -19, "errorDesc": "Số điện thoại không hợp lệ"}}
	})

	_, err := f.client().RequestOTP(context.Background(), testDevice)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindProtocol))
	assert.Contains(t, err.Error(), "Số điện thoại không hợp lệ")
}

func TestRequestOTP_InvalidDevice(t *testing.T) {
	f := newFakeWallet(t)

	_, err := f.client().RequestOTP(context.Background(), domain.DeviceIdentity{IMEI: "x", RKey: "y"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Empty(t, f.calls())
}

func TestConfirmOTP(t *testing.T) {
	f := newFakeWallet(t)
	f.handle(regDevicePath, func(call walletCall) walletReply {
		return walletReply{JSON: map[string]interface{}{
			"errorCode": 0,
			"extra": map[string]interface{}{
				"ohash":    "server-ohash",
				"setupKey": "server-setup-key",
			},
		}}
	})

	grant, err := f.client().ConfirmOTP(context.Background(), testDevice, "123456")
	require.NoError(t, err)

	assert.Equal(t, "server-ohash", grant.OHash, "grant must be the server's echo")
	assert.Equal(t, "server-setup-key", grant.SetupKey)
	assert.True(t, grant.Valid())

	calls := f.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, MsgRegDevice, calls[0].Header.Get("msgtype"))
	assert.Equal(t, MsgRegDevice, calls[0].Body["msgType"])
	assert.Equal(t,
		"a98c67bd3cb58db873595c57aba677af3399ae36a76f99cadbc44a2201296a2e",
		calls[0].extra()["ohash"],
		"ohash is sha256(phone + rkey + otp)")
	assert.Equal(t, testDevice.PushID, calls[0].extra()["AAID"])
}

func TestConfirmOTP_MissingGrantFields(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]interface{}
		field string
	}{
		{"no extra", nil, "extra.ohash"},
		{"no setupKey", map[string]interface{}{"ohash": "h"}, "extra.setupKey"},
		{"empty ohash", map[string]interface{}{"ohash": "", "setupKey": "k"}, "extra.ohash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeWallet(t)
			f.handle(regDevicePath, func(walletCall) walletReply {
				return walletReply{JSON: map[string]interface{}{"errorCode": 0, "extra": tt.extra}}
			})

			_, err := f.client().ConfirmOTP(context.Background(), testDevice, "123456")
			require.Error(t, err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "MOMO_002", appErr.Code)
			assert.Contains(t, appErr.Message, tt.field)
		})
	}
}

func TestConfirmOTP_RequiresOTP(t *testing.T) {
	f := newFakeWallet(t)
	_, err := f.client().ConfirmOTP(context.Background(), testDevice, "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Empty(t, f.calls())
}
