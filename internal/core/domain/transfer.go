package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferRequest describes a peer-to-peer transfer. Amount is in VND.
type TransferRequest struct {
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
	Amount      int64  `json:"amount"`
	Comment     string `json:"comment"`
}

// PendingTransfer is a transfer reserved by the server but not yet confirmed.
// It is single use and must be handed unchanged to the confirm step.
type PendingTransfer struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	PartnerID     string `json:"partner_id"`
	PartnerName   string `json:"partner_name"`
}

// TransferResult is the outcome of a confirmed transfer.
type TransferResult struct {
	Balance     int64  `json:"balance"`
	Amount      int64  `json:"amount"`
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
}

// ReceiverProfile is the public profile of a transfer target.
type ReceiverProfile struct {
	UserID             string `json:"user_id"`
	AgentID            int64  `json:"agent_id"`
	Name               string `json:"name"`
	MutualFriendsTotal int    `json:"mutual_friends_total"`
	AvatarURL          string `json:"avatar_url"`
}

// TransferStatus is the local ledger state of a transfer.
type TransferStatus string

const (
	TransferStatusInitiating TransferStatus = "INITIATING" // key claimed, init not yet answered
	TransferStatusReserved   TransferStatus = "RESERVED"
	TransferStatusConfirmed  TransferStatus = "CONFIRMED"
	TransferStatusFailed     TransferStatus = "FAILED"
)

// TransferRecord is the bridge's ledger row for one init/confirm pair.
// A record that stays RESERVED means the wallet may hold an unconfirmed
// transfer that needs reconciling.
type TransferRecord struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	IdempotencyKey string         `json:"idempotency_key"`
	TransactionID  string         `json:"transaction_id"`
	PartnerID      string         `json:"partner_id"`
	PartnerName    string         `json:"partner_name"`
	Amount         int64          `json:"amount"`
	Comment        string         `json:"comment,omitempty"`
	Status         TransferStatus `json:"status"`
	Balance        *int64         `json:"balance,omitempty"`
	FailureReason  *string        `json:"failure_reason,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IsTerminal returns true once the transfer can no longer change.
func (t *TransferRecord) IsTerminal() bool {
	return t.Status == TransferStatusConfirmed || t.Status == TransferStatusFailed
}

// Pending rebuilds the reservation this record was created from.
func (t *TransferRecord) Pending() PendingTransfer {
	return PendingTransfer{
		TransactionID: t.TransactionID,
		Amount:        t.Amount,
		PartnerID:     t.PartnerID,
		PartnerName:   t.PartnerName,
	}
}

// BuildTransferIdempotencyKey scopes a client key to its user.
func BuildTransferIdempotencyKey(userID uuid.UUID, key string) string {
	return userID.String() + ":transfer:" + key
}
