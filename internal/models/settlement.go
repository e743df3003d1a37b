package models

import "github.com/shopspring/decimal"

// Settlement represents an applied payment between group members to clear
// debts. Settlements are immutable records; the ledger folds them back in
// during replay.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"groupId"`

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string `json:"fromUserId"`

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string `json:"toUserId"`

	// Amount is the payment amount. Always positive.
	Amount decimal.Decimal `json:"amount"`

	// SettledAt is the Unix timestamp when the settlement was recorded.
	SettledAt int64 `json:"settledAt"`
}
