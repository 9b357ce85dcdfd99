package momo

import (
	"context"
	"encoding/json"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/pkg/apperror"
)

// DateLayout is the DD/MM/YYYY form history ranges travel in.
const DateLayout = "02/01/2006"

// walletZone is the zone calendar days are interpreted in.
var walletZone = loadWalletZone()

func loadWalletZone() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// ParseDate parses a DD/MM/YYYY day at local midnight in Vietnam.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, walletZone)
	if err != nil {
		return time.Time{}, apperror.Validation("date must be DD/MM/YYYY: " + s)
	}
	return t, nil
}

// FormatDate renders t as a DD/MM/YYYY day in Vietnam.
func FormatDate(t time.Time) string {
	return t.In(walletZone).Format(DateLayout)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.In(walletZone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, walletZone)
}

// BrowseHistory fetches one page of transactions between two days inclusive.
// A range whose end is before its start is rejected; a single day is fine.
func (c *Client) BrowseHistory(ctx context.Context, session domain.Session, q domain.HistoryQuery) (domain.HistoryPage, error) {
	q = q.Normalize()
	if q.Start.IsZero() || q.End.IsZero() {
		return domain.HistoryPage{}, apperror.Validation("start and end dates are required")
	}
	if dayOf(q.End).Before(dayOf(q.Start)) {
		return domain.HistoryPage{}, apperror.Validation("startDate must be before endDate")
	}

	body := browseRequest{
		RequestID: c.now().Unix(),
		StartDate: FormatDate(q.Start),
		EndDate:   FormatDate(q.End),
		Offset:    q.Offset(),
		Limit:     q.Limit,
		appInfo:   newHistoryAppInfo(c.profile),
	}

	raw, err := c.SendEncrypted(ctx, Request{
		URL:    c.endpoints.Browse,
		Header: map[string]string{"Content-Type": "application/json"},
		Body:   body,
	}, session)
	if err != nil {
		return domain.HistoryPage{}, err
	}

	var reply browseReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return domain.HistoryPage{}, apperror.ErrProtocol("malformed history reply")
	}

	txs := make([]domain.Transaction, 0, len(reply.MomoMsg))
	for _, r := range reply.MomoMsg {
		txs = append(txs, toTransaction(r))
	}

	return domain.HistoryPage{
		TotalItems:   int(reply.TotalItems),
		CurrentLimit: int(reply.CurrentLimit),
		ListOver:     reply.ListOver,
		Transactions: txs,
	}, nil
}

// TransactionDetail fetches one transaction with its service data. An empty
// serviceID lets the server pick; the result then reports transfer_p2p.
func (c *Client) TransactionDetail(ctx context.Context, session domain.Session, transID int64, serviceID string) (domain.TransactionDetail, error) {
	if transID <= 0 {
		return domain.TransactionDetail{}, apperror.Validation("transaction id must be positive")
	}

	body := detailRequest{
		RequestID: c.now().Unix(),
		TransID:   transID,
		ServiceID: serviceID,
		appInfo:   newHistoryAppInfo(c.profile),
	}

	raw, err := c.SendEncrypted(ctx, Request{URL: c.endpoints.Details, Body: body}, session)
	if err != nil {
		return domain.TransactionDetail{}, err
	}

	var reply detailReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return domain.TransactionDetail{}, apperror.ErrProtocol("malformed transaction detail reply")
	}
	if reply.MomoMsg == nil {
		return domain.TransactionDetail{}, apperror.ErrMissingField("momoMsg")
	}
	return toTransactionDetail(*reply.MomoMsg), nil
}
