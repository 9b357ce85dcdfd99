package momo

import (
	"context"
	"encoding/json"
	"fmt"

	"momo-bridge/internal/core/domain"
	"momo-bridge/pkg/apperror"
)

// PendingTransferError is returned by SendMoney when the transfer was
// reserved but the confirmation failed. The reservation may still be live
// on the server.
type PendingTransferError struct {
	Pending domain.PendingTransfer
	Err     error
}

func (e *PendingTransferError) Error() string {
	return fmt.Sprintf("transfer %s reserved but not confirmed: %v", e.Pending.TransactionID, e.Err)
}

func (e *PendingTransferError) Unwrap() error {
	return e.Err
}

// InitTransaction reserves a peer-to-peer transfer.
func (c *Client) InitTransaction(ctx context.Context, sc domain.SessionContext, req domain.TransferRequest) (domain.PendingTransfer, error) {
	switch {
	case req.Amount <= 0:
		return domain.PendingTransfer{}, apperror.Validation("amount must be positive")
	case req.PartnerID == "":
		return domain.PendingTransfer{}, apperror.Validation("partner id is required")
	}

	ts := c.nowMillis()
	checksum, err := Checksum(sc.Grant, sc.Session.Phone, ts, MsgTransferInit)
	if err != nil {
		return domain.PendingTransfer{}, err
	}

	body := messageRequest{
		messageForm: newMessageForm(c.profile, sc.Session.Phone, MsgTransferInit, ts),
		MomoMsg: transferInitMsg{
			ClientTime:  ts,
			TranType:    tranTypeP2P,
			Comment:     req.Comment,
			Amount:      req.Amount,
			PartnerID:   req.PartnerID,
			PartnerName: req.PartnerName,
			Ref:         "",
			ServiceCode: serviceP2P,
			ServiceID:   serviceP2P,
			Class:       classTransferInit,
			TranList: []transferItem{{
				PartnerName:    req.PartnerName,
				PartnerID:      req.PartnerID,
				OriginalAmount: req.Amount,
				ServiceCode:    serviceP2P,
				ThemeURL:       transferThemeURL,
				ReceiverType:   receiverTypeUser,
				Class:          classTransferInit,
				TranType:       tranTypeP2P,
				Comment:        req.Comment,
				MoneySource:    moneySourceWallet,
				PartnerCode:    partnerCodeMomo,
				ServiceMode:    serviceP2P,
				ServiceID:      serviceP2P,
			}},
			MoneySource: moneySourceWallet,
			PartnerCode: partnerCodeMomo,
		},
		Extra: checksumExtra{Checksum: checksum},
	}

	raw, err := c.SendEncrypted(ctx, Request{
		URL:     c.endpoints.TransferInit,
		MsgType: MsgTransferInit,
		Header:  map[string]string{"accept": "application/json"},
		Body:    body,
	}, sc.Session)
	if err != nil {
		return domain.PendingTransfer{}, err
	}

	var reply transferInitReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return domain.PendingTransfer{}, apperror.ErrProtocol("malformed M2MU_INIT reply")
	}
	if len(reply.MomoMsg.ReplyMsgs) == 0 {
		return domain.PendingTransfer{}, apperror.ErrProtocol("Cannot init transaction")
	}

	first := reply.MomoMsg.ReplyMsgs[0]
	if first.ID == "" {
		return domain.PendingTransfer{}, apperror.ErrMissingField("momoMsg.replyMsgs[0].id")
	}

	// The requested amount is authoritative; the echo may be absent but
	// must never disagree.
	if echoed := int64(first.TranHisMsg.Amount); echoed != 0 && echoed != req.Amount {
		return domain.PendingTransfer{}, apperror.ErrProtocol(
			fmt.Sprintf("reserved amount %d does not match requested amount %d", echoed, req.Amount))
	}

	pending := domain.PendingTransfer{
		TransactionID: string(first.ID),
		Amount:        req.Amount,
		PartnerID:     string(first.TranHisMsg.PartnerID),
		PartnerName:   string(first.TranHisMsg.PartnerName),
	}
	if pending.PartnerID == "" {
		pending.PartnerID = req.PartnerID
	}
	if pending.PartnerName == "" {
		pending.PartnerName = req.PartnerName
	}
	c.log.Info().Str("transaction_id", pending.TransactionID).Int64("amount", pending.Amount).Msg("transfer reserved")
	return pending, nil
}

// ConfirmTransaction commits a reservation made by InitTransaction. amount
// must equal the reserved amount.
func (c *Client) ConfirmTransaction(ctx context.Context, sc domain.SessionContext, pending domain.PendingTransfer, amount int64, password string) (domain.TransferResult, error) {
	switch {
	case pending.TransactionID == "":
		return domain.TransferResult{}, apperror.Validation("pending transfer has no transaction id")
	case amount != pending.Amount:
		return domain.TransferResult{}, apperror.Validation(
			fmt.Sprintf("amount %d does not match reserved amount %d", amount, pending.Amount))
	case password == "":
		return domain.TransferResult{}, apperror.Validation("password is required")
	}

	ts := c.nowMillis()
	checksum, err := Checksum(sc.Grant, sc.Session.Phone, ts, MsgTransferConfirm)
	if err != nil {
		return domain.TransferResult{}, err
	}

	form := newMessageForm(c.profile, sc.Session.Phone, MsgTransferConfirm, ts)
	form.Pass = password
	body := messageRequest{
		messageForm: form,
		MomoMsg: transferConfirmMsg{
			Class:           classTransferConfirm,
			TranType:        tranTypeP2P,
			Quantity:        1,
			IDFirstReplyMsg: pending.TransactionID,
			MoneySource:     moneySourceWallet,
			CashbackAmount:  0,
			IDs:             []string{pending.TransactionID},
			Amount:          amount,
			OriginalAmount:  amount,
			CashInAmount:    amount,
			TranHisMsgs: []tranHisItem{{
				ID:             pending.TransactionID,
				User:           sc.Session.Phone,
				ServiceMode:    serviceP2P,
				OriginalAmount: amount,
				ServiceID:      serviceP2P,
				Quantity:       1,
				ReceiverType:   receiverTypeUser,
				SourceToken:    sourceTokenWallet,
				Class:          classTranHis,
			}},
		},
		Extra: checksumExtra{Checksum: checksum},
	}

	raw, err := c.SendEncrypted(ctx, Request{
		URL:     c.endpoints.TransferConfirm,
		MsgType: MsgTransferConfirm,
		Header:  map[string]string{"accept": "application/json"},
		Body:    body,
	}, sc.Session)
	if err != nil {
		return domain.TransferResult{}, err
	}

	var reply transferConfirmReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return domain.TransferResult{}, apperror.ErrProtocol("malformed M2MU_CONFIRM reply")
	}

	c.log.Info().Str("transaction_id", pending.TransactionID).Msg("transfer confirmed")

	return domain.TransferResult{
		Balance:     int64(reply.Extra.Balance),
		Amount:      amount,
		PartnerID:   pending.PartnerID,
		PartnerName: pending.PartnerName,
	}, nil
}

// SendMoney runs init then confirm. The pair is not atomic: if confirmation
// fails the error is a *PendingTransferError carrying the reservation.
func (c *Client) SendMoney(ctx context.Context, sc domain.SessionContext, req domain.TransferRequest, password string) (domain.TransferResult, error) {
	pending, err := c.InitTransaction(ctx, sc, req)
	if err != nil {
		return domain.TransferResult{}, err
	}

	result, err := c.ConfirmTransaction(ctx, sc, pending, req.Amount, password)
	if err != nil {
		c.log.Warn().Err(err).Str("transaction_id", pending.TransactionID).Msg("transfer left unconfirmed")
		return domain.TransferResult{}, &PendingTransferError{Pending: pending, Err: err}
	}
	return result, nil
}
