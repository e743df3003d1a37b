package models

import "github.com/shopspring/decimal"

// Balance is a stored, directed claim: FromUserID owes ToUserID Amount within
// a group. Amount is always positive while the record exists; a zero balance
// is expressed by the absence of a record. For any pair of users at most one
// direction exists at a time (the ledger nets opposing debts on every write).
type Balance struct {
	GroupID    string          `json:"groupId"`
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
}

// UserBalances aggregates a user's directed balances across all groups.
type UserBalances struct {
	UserID string `json:"userId"`

	// Owes lists balances where the user is the debtor.
	Owes []Balance `json:"owes"`

	// Owed lists balances where the user is the creditor.
	Owed []Balance `json:"owed"`

	// NetBalance is sum(Owed) - sum(Owes). Negative means a net debtor.
	NetBalance decimal.Decimal `json:"netBalance"`
}
