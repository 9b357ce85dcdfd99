package momo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/pkg/apperror"
)

// NewDevice generates a fresh device identity for phone.
func NewDevice(phone string, now time.Time) (domain.DeviceIdentity, error) {
	rkey, err := RandomKey(rkeyLength)
	if err != nil {
		return domain.DeviceIdentity{}, err
	}
	return domain.DeviceIdentity{
		Phone:  phone,
		IMEI:   DeviceID(now),
		PushID: PushID(now),
		RKey:   rkey,
	}, nil
}

// RequestOTP asks the server to send a one-time password to the device's
// phone. It reports whether the server accepted the request.
func (c *Client) RequestOTP(ctx context.Context, device domain.DeviceIdentity) (bool, error) {
	if err := validateDevice(device); err != nil {
		return false, err
	}

	body := messageRequest{
		messageForm: newMessageForm(c.profile, device.Phone, MsgSendOTP, c.nowMillis()),
		MomoMsg:     c.regDeviceMsg(device),
		Extra: sendOTPExtra{
			Action:    "SEND",
			RKey:      device.RKey,
			AAID:      device.PushID,
			Simulator: "false",
			IsVoice:   true,
		},
	}

	raw, err := c.PostPlain(ctx, Request{URL: c.endpoints.SendOTP, MsgType: MsgSendOTP, Body: body})
	if err != nil {
		return false, err
	}

	var reply sendOTPReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return false, apperror.ErrProtocol("malformed SEND_OTP_MSG reply")
	}
	return reply.ResultType == "SUCCESS", nil
}

// ConfirmOTP registers the device with the OTP the user received and returns
// the grant exactly as the server echoed it.
func (c *Client) ConfirmOTP(ctx context.Context, device domain.DeviceIdentity, otp string) (domain.OtpGrant, error) {
	if err := validateDevice(device); err != nil {
		return domain.OtpGrant{}, err
	}
	if otp == "" {
		return domain.OtpGrant{}, apperror.Validation("otp is required")
	}

	body := messageRequest{
		messageForm: newMessageForm(c.profile, device.Phone, MsgRegDevice, c.nowMillis()),
		MomoMsg:     c.regDeviceMsg(device),
		Extra: regDeviceExtra{
			OHash:     HashSHA256(device.Phone + device.RKey + otp),
			AAID:      device.PushID,
			Simulator: "false",
		},
	}

	raw, err := c.PostPlain(ctx, Request{URL: c.endpoints.RegDevice, MsgType: MsgRegDevice, Body: body})
	if err != nil {
		return domain.OtpGrant{}, err
	}

	var reply regDeviceReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return domain.OtpGrant{}, apperror.ErrProtocol("malformed REG_DEVICE_MSG reply")
	}

	grant := domain.OtpGrant{
		OHash:    string(reply.Extra.OHash),
		SetupKey: string(reply.Extra.SetupKey),
	}
	switch {
	case grant.OHash == "":
		return domain.OtpGrant{}, apperror.ErrMissingField("extra.ohash")
	case grant.SetupKey == "":
		return domain.OtpGrant{}, apperror.ErrMissingField("extra.setupKey")
	}
	return grant, nil
}

func (c *Client) regDeviceMsg(device domain.DeviceIdentity) regDeviceMsg {
	h := c.profile.Handset
	return regDeviceMsg{
		Class:        classRegDevice,
		Number:       device.Phone,
		IMEI:         device.IMEI,
		CountryName:  h.CountryName,
		CountryCode:  h.CountryCode,
		Device:       h.Model,
		Firmware:     h.Firmware,
		Hardware:     h.Hardware,
		Manufacturer: h.Manufacturer,
		Carrier:      h.Carrier,
		ICC:          h.ICC,
		MCC:          h.MCC,
		DeviceOS:     h.DeviceOS,
	}
}

func validateDevice(device domain.DeviceIdentity) error {
	switch {
	case device.Phone == "":
		return apperror.Validation("phone is required")
	case device.IMEI == "":
		return apperror.Validation("device imei is required")
	case device.RKey == "":
		return apperror.Validation(fmt.Sprintf("device rkey is required for %s", device.Phone))
	}
	return nil
}
