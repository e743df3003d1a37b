package models

import "github.com/shopspring/decimal"

// SplitType is the rule used to convert an expense total into per-participant
// shares.
type SplitType string

const (
	SplitTypeEqual      SplitType = "EQUAL"
	SplitTypeExact      SplitType = "EXACT"
	SplitTypePercentage SplitType = "PERCENTAGE"
)

// ExpenseShare is one participant's declared share of an expense.
// For EQUAL splits only UserID is meaningful; for EXACT splits Amount carries
// the declared (and stored) amount; for PERCENTAGE splits Percentage is the
// declared value and Amount the computed result.
type ExpenseShare struct {
	UserID     string          `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Expense represents one cost declaration split among group members.
// Expenses are immutable once created; deleting one removes it from the
// replay history and forces a group recalculation.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"groupId"`

	// Description is a human-readable label (e.g., "Dinner", "Rent").
	Description string `json:"description"`

	// TotalAmount is the full cost of the expense. Always positive.
	TotalAmount decimal.Decimal `json:"totalAmount"`

	// PaidBy is the user ID of the member who paid. Must be a group member.
	PaidBy string `json:"paidBy"`

	// SplitType selects how TotalAmount divides among the shares.
	SplitType SplitType `json:"splitType"`

	// Splits holds the per-participant shares with computed amounts.
	Splits []ExpenseShare `json:"splits"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	// Replay processes expenses in (CreatedAt, insertion) order.
	CreatedAt int64 `json:"createdAt"`
}
