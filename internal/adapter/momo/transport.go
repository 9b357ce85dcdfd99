package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/pkg/apperror"
)

// maxResponseSize bounds how much of a reply is read.
const maxResponseSize = 4 << 20

// Request is one call to a wallet endpoint.
type Request struct {
	URL     string
	MsgType string            // optional; also sent as the msgtype header
	Header  map[string]string // extra headers, sent with their exact names
	Body    interface{}
}

// PostPlain sends an unauthenticated call as plain JSON and returns the
// reply once it has been checked for a server error.
func (c *Client) PostPlain(ctx context.Context, r Request) (json.RawMessage, error) {
	payload, err := json.Marshal(r.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", r.MsgType, err)
	}

	header := c.defaultHeader()
	if r.MsgType != "" {
		header["msgtype"] = r.MsgType
	}
	for k, v := range r.Header {
		header[k] = v
	}

	body, err := c.do(ctx, r, header, payload)
	if err != nil {
		return nil, err
	}
	if err := checkReply(body); err != nil {
		return nil, err
	}
	return body, nil
}

// SendEncrypted sends an authenticated call. The body is AES encrypted under
// a fresh key which travels RSA encrypted under the session's request key;
// the reply is decrypted with the same key.
func (c *Client) SendEncrypted(ctx context.Context, r Request, session domain.Session) (json.RawMessage, error) {
	aesKey, err := c.randomKey(ephemeralKeyLength)
	if err != nil {
		return nil, err
	}
	requestKey, err := EncryptRSA(aesKey, session.RequestEncryptKey)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(r.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", r.MsgType, err)
	}
	sealed, err := EncryptAES(string(payload), aesKey)
	if err != nil {
		return nil, err
	}

	header := map[string]string{
		"userid":        session.Phone,
		"user_phone":    session.Phone,
		"authorization": "Bearer " + session.AuthToken,
		"aes_key":       aesKey,
		"requestkey":    requestKey,
	}
	if r.MsgType != "" {
		header["msgtype"] = r.MsgType
	}
	for k, v := range r.Header {
		header[k] = v
	}

	body, err := c.do(ctx, r, header, []byte(sealed))
	if err != nil {
		return nil, err
	}

	ciphertext, err := encryptedPayload(body)
	if err != nil {
		return nil, err
	}
	plain, err := DecryptAES(ciphertext, aesKey)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(plain)) {
		return nil, apperror.ErrProtocol("decrypted response is not JSON")
	}
	if err := checkReply([]byte(plain)); err != nil {
		return nil, err
	}
	return json.RawMessage(plain), nil
}

// do performs the POST and returns the raw body of a 2xx reply.
func (c *Client) do(ctx context.Context, r Request, header map[string]string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", r.MsgType, err)
	}
	for k, v := range header {
		// Direct assignment keeps the header names exactly as the app sends them.
		req.Header[k] = []string{v}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("msg_type", r.MsgType).Str("endpoint", r.URL).Msg("wallet call failed")
		return nil, apperror.ErrTransport(err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, apperror.ErrTransport("reading response: "+err.Error(), err)
	}

	c.log.Debug().
		Str("msg_type", r.MsgType).
		Str("endpoint", r.URL).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("wallet call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.ErrTransport(statusDescription(resp.StatusCode, body), nil)
	}
	return body, nil
}

func (c *Client) defaultHeader() map[string]string {
	return map[string]string{
		"app_version":  strconv.Itoa(c.profile.AppVer),
		"app_code":     c.profile.AppCode,
		"device_os":    c.profile.DeviceOS,
		"lang":         c.profile.Lang,
		"Content-Type": "application/json",
		"Connection":   "Keep-Alive",
		"User-Agent":   c.profile.UserAgent,
	}
}

// statusDescription prefers the server's own description of a failed call.
func statusDescription(status int, body []byte) string {
	var reply struct {
		Description string `json:"description"`
	}
	if json.Unmarshal(body, &reply) == nil && reply.Description != "" {
		return reply.Description
	}
	return fmt.Sprintf("request failed with status code %d", status)
}

// checkReply turns a reply carrying a truthy errorCode into a protocol error.
func checkReply(body []byte) error {
	var reply errorReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return apperror.ErrProtocol("response is not a JSON object")
	}
	if !truthy(reply.ErrorCode) {
		return nil
	}
	if reply.ErrorDesc != "" {
		return apperror.ErrProtocol(string(reply.ErrorDesc))
	}
	return apperror.ErrProtocol("wallet error code " + string(bytes.TrimSpace(reply.ErrorCode)))
}

// encryptedPayload extracts the ciphertext of an encrypted reply. A JSON
// object instead of ciphertext is either a server error or an unexpected
// plain reply; a JSON string is unwrapped.
func encryptedPayload(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", apperror.ErrProtocol("empty response")
	}

	switch trimmed[0] {
	case '{':
		if err := checkReply(trimmed); err != nil {
			return "", err
		}
		return "", apperror.ErrProtocol("unencrypted response")
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", apperror.ErrProtocol("malformed response")
		}
		return s, nil
	default:
		return string(trimmed), nil
	}
}
