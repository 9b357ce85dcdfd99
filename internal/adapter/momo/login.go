package momo

import (
	"context"
	"encoding/json"

	"momo-bridge/internal/core/domain"
	"momo-bridge/pkg/apperror"
)

// Login authenticates a registered device and opens a session.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error) {
	if err := validateDevice(creds.Device); err != nil {
		return domain.LoginResult{}, err
	}
	if !creds.Grant.Valid() {
		return domain.LoginResult{}, apperror.Validation("ohash and setupKey are required")
	}
	if creds.Password == "" {
		return domain.LoginResult{}, apperror.Validation("password is required")
	}

	ts := c.nowMillis()
	pHash, err := PHash(creds.Grant, creds.Device.IMEI, creds.Password)
	if err != nil {
		return domain.LoginResult{}, err
	}
	checksum, err := Checksum(creds.Grant, creds.Device.Phone, ts, MsgUserLogin)
	if err != nil {
		return domain.LoginResult{}, err
	}

	form := newMessageForm(c.profile, creds.Device.Phone, MsgUserLogin, ts)
	form.Pass = creds.Password
	body := messageRequest{
		messageForm: form,
		MomoMsg:     loginMsg{Class: classLogin, IsSetup: true},
		Extra: loginExtra{
			PHash:     pHash,
			Checksum:  checksum,
			AAID:      creds.Device.PushID,
			Simulator: "false",
		},
	}

	raw, err := c.PostPlain(ctx, Request{URL: c.endpoints.Login, MsgType: MsgUserLogin, Body: body})
	if err != nil {
		return domain.LoginResult{}, err
	}

	var reply loginReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return domain.LoginResult{}, apperror.ErrProtocol("malformed USER_LOGIN_MSG reply")
	}
	switch {
	case reply.Extra.AuthToken == "":
		return domain.LoginResult{}, apperror.ErrMissingField("extra.AUTH_TOKEN")
	case reply.Extra.RequestEncryptKey == "":
		return domain.LoginResult{}, apperror.ErrMissingField("extra.REQUEST_ENCRYPT_KEY")
	}

	c.log.Info().Str("phone", creds.Device.Phone).Msg("wallet login succeeded")

	return domain.LoginResult{
		Session: domain.Session{
			Phone:             creds.Device.Phone,
			AuthToken:         string(reply.Extra.AuthToken),
			RequestEncryptKey: string(reply.Extra.RequestEncryptKey),
			RefreshToken:      string(reply.Extra.RefreshToken),
		},
		PHash:    pHash,
		Checksum: checksum,
	}, nil
}
