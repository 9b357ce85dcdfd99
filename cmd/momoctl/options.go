package main

import (
	"fmt"
	"slices"
	"strings"

	"momo-bridge/internal/core/domain"
)

type deviceOptions struct {
	Phone     string `long:"phone" env:"PHONE" description:"Wallet phone number"`
	IMEI      string `long:"imei" env:"IMEI" description:"Device id from the device command"`
	OneSignal string `long:"one-signal" env:"ONE_SIGNAL" description:"Push id from the device command"`
	RKey      string `long:"rkey" env:"R_KEY" description:"Registration key from the device command"`
}

func (o deviceOptions) device() (domain.DeviceIdentity, error) {
	if err := requireAll(map[string]string{
		"--phone/PHONE":           o.Phone,
		"--imei/IMEI":             o.IMEI,
		"--one-signal/ONE_SIGNAL": o.OneSignal,
		"--rkey/R_KEY":            o.RKey,
	}); err != nil {
		return domain.DeviceIdentity{}, err
	}
	return domain.DeviceIdentity{
		Phone:  o.Phone,
		IMEI:   o.IMEI,
		PushID: o.OneSignal,
		RKey:   o.RKey,
	}, nil
}

type grantOptions struct {
	SetupKey string `long:"setup-key" env:"SETUP_KEY" description:"setupKey from otp-confirm"`
	OHash    string `long:"ohash" env:"OHASH" description:"ohash from otp-confirm"`
}

func (o grantOptions) grant() (domain.OtpGrant, error) {
	if err := requireAll(map[string]string{
		"--setup-key/SETUP_KEY": o.SetupKey,
		"--ohash/OHASH":         o.OHash,
	}); err != nil {
		return domain.OtpGrant{}, err
	}
	return domain.OtpGrant{OHash: o.OHash, SetupKey: o.SetupKey}, nil
}

type sessionOptions struct {
	AuthToken  string `long:"auth-token" env:"AUTH_TOKEN" description:"Session token from login"`
	EncryptKey string `long:"encrypt-key" env:"ENCRYPT_KEY" description:"RSA request key from login (PEM, \\n escapes allowed)"`
}

func (o sessionOptions) session(phone string) (domain.Session, error) {
	if err := requireAll(map[string]string{
		"--auth-token/AUTH_TOKEN":   o.AuthToken,
		"--encrypt-key/ENCRYPT_KEY": o.EncryptKey,
	}); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		Phone:             phone,
		AuthToken:         o.AuthToken,
		RequestEncryptKey: strings.ReplaceAll(o.EncryptKey, `\n`, "\n"),
	}, nil
}

// contextOptions gathers everything an authenticated call needs.
type contextOptions struct {
	deviceOptions
	grantOptions
	sessionOptions
}

func (o contextOptions) sessionContext() (domain.SessionContext, error) {
	device, err := o.device()
	if err != nil {
		return domain.SessionContext{}, err
	}
	grant, err := o.grant()
	if err != nil {
		return domain.SessionContext{}, err
	}
	session, err := o.session(device.Phone)
	if err != nil {
		return domain.SessionContext{}, err
	}
	return domain.SessionContext{Device: device, Grant: grant, Session: session}, nil
}

func requireAll(values map[string]string) error {
	var missing []string
	for name, v := range values {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("missing %s", strings.Join(missing, ", "))
}
