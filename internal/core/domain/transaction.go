package domain

import "time"

// Direction tells whether money entered or left the wallet.
type Direction string

const (
	DirectionIn      Direction = "IN"
	DirectionOut     Direction = "OUT"
	DirectionUnknown Direction = "UNKNOWN"
)

// DirectionFromIO maps the signed io discriminator of a history record.
func DirectionFromIO(io int) Direction {
	switch io {
	case 1:
		return DirectionIn
	case -1:
		return DirectionOut
	default:
		return DirectionUnknown
	}
}

// DefaultServiceID is assumed when a record does not name its service.
const DefaultServiceID = "transfer_p2p"

// Party is one side of a wallet transaction.
type Party struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Transaction is one entry of the wallet's transaction history.
type Transaction struct {
	TransID      int64     `json:"trans_id"`
	ServiceID    string    `json:"service_id"`
	Source       Party     `json:"source"`
	Target       Party     `json:"target"`
	Direction    Direction `json:"direction"`
	CreatedAt    int64     `json:"created_at"`  // unix ms
	LastUpdate   int64     `json:"last_update"` // unix ms
	PostBalance  int64     `json:"post_balance"`
	TotalAmount  int64     `json:"total_amount"`
	TranshisData string    `json:"transhis_data,omitempty"`
}

// ServiceData holds the service-specific fields embedded in a detail record.
type ServiceData struct {
	Comment      string `json:"comment"`
	PartnerName  string `json:"partner_name,omitempty"`
	PartnerPhone string `json:"partner_phone,omitempty"`
	ThemeURL     string `json:"theme_url,omitempty"`
	StickerID    string `json:"sticker_id,omitempty"`
}

// TransactionDetail is a Transaction plus its parsed service data.
type TransactionDetail struct {
	Transaction
	ServiceData ServiceData `json:"service_data"`
}

// HistoryQuery selects a page of history between two calendar days inclusive.
type HistoryQuery struct {
	Start time.Time
	End   time.Time
	Page  int
	Limit int
}

const (
	DefaultHistoryPage  = 1
	DefaultHistoryLimit = 10
)

// Normalize fills in the default page and limit.
func (q HistoryQuery) Normalize() HistoryQuery {
	if q.Page < 1 {
		q.Page = DefaultHistoryPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultHistoryLimit
	}
	return q
}

// Offset is the zero-based index of the first record of the page.
func (q HistoryQuery) Offset() int {
	n := q.Normalize()
	return (n.Page - 1) * n.Limit
}

// HistoryPage is one page of browsed history.
type HistoryPage struct {
	TotalItems   int           `json:"total_items"`
	CurrentLimit int           `json:"current_limit"`
	ListOver     bool          `json:"list_over"`
	Transactions []Transaction `json:"transactions"`
}
