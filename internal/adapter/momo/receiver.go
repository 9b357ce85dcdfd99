package momo

import (
	"context"
	"encoding/json"

	"momo-bridge/internal/core/domain"
	"momo-bridge/pkg/apperror"
)

// FindReceiverProfile looks up the wallet profile behind a phone number.
func (c *Client) FindReceiverProfile(ctx context.Context, sc domain.SessionContext, targetID string) (domain.ReceiverProfile, error) {
	if targetID == "" {
		return domain.ReceiverProfile{}, apperror.Validation("target user id is required")
	}

	ts := c.nowMillis()
	checksum, err := Checksum(sc.Grant, sc.Session.Phone, ts, MsgFindReceiver)
	if err != nil {
		return domain.ReceiverProfile{}, err
	}

	body := messageRequest{
		messageForm: newMessageForm(c.profile, sc.Session.Phone, MsgFindReceiver, ts),
		MomoMsg: findReceiverMsg{
			CallerID:     callerP2P,
			TargetUserID: targetID,
			Class:        classForward,
		},
		Extra: checksumExtra{Checksum: checksum},
	}

	// The app sends its usual headers here, minus the content type.
	header := c.defaultHeader()
	delete(header, "Content-Type")

	raw, err := c.SendEncrypted(ctx, Request{
		URL:     c.endpoints.FindReceiver,
		MsgType: MsgFindReceiver,
		Header:  header,
		Body:    body,
	}, sc.Session)
	if err != nil {
		return domain.ReceiverProfile{}, err
	}

	var reply receiverReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return domain.ReceiverProfile{}, apperror.ErrProtocol("malformed FIND_RECEIVER_PROFILE reply")
	}
	p := reply.MomoMsg.ReceiverProfile
	if p == nil {
		return domain.ReceiverProfile{}, apperror.ErrMissingField("momoMsg.receiverProfile")
	}

	return domain.ReceiverProfile{
		UserID:             string(p.UserID),
		AgentID:            int64(p.AgentID),
		Name:               string(p.Name),
		MutualFriendsTotal: int(p.MutualFriendsTotal),
		AvatarURL:          string(p.AvatarURL),
	}, nil
}
