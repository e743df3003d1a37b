// Package ledger is the balance ledger and debt-simplification engine.
//
// The engine maintains directed, netted pairwise balances per group, derives
// them from expense-split and settlement events, computes greedy payoff
// plans, and can rebuild a group's ledger deterministically from the event
// history. All monetary values are decimal.Decimal; comparisons use a single
// Tolerance constant.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/JeyadeepakUR/credresolve/internal/models"
)

var (
	// Tolerance is the fixed comparison threshold used by the split
	// calculator, the settlement validator, the simplifier and replay.
	Tolerance = decimal.New(1, -2) // 0.01

	hundred = decimal.NewFromInt(100)
)

// CalculateSplits turns one expense declaration into per-participant shares.
// It is a pure function: validation and arithmetic only, no side effects.
//
// EQUAL divides the total evenly, each share rounded to 2 decimals.
// EXACT takes the declared amounts; their sum must match the total within
// Tolerance. PERCENTAGE takes declared percentages summing to 100 within
// Tolerance; each share is percentage/100 x total, rounded to 2 decimals.
func CalculateSplits(totalAmount decimal.Decimal, splitType models.SplitType, shares []models.ExpenseShare) ([]models.ExpenseShare, error) {
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, validationf(CodeNegativeOrZeroAmount, "total amount must be positive")
	}
	if len(shares) == 0 {
		return nil, validationf(CodeEmptySplit, "at least one participant required")
	}

	for _, s := range shares {
		if splitType == models.SplitTypeExact && s.Amount.IsNegative() {
			return nil, validationf(CodeNegativeShare, "share amount for user %s cannot be negative", s.UserID)
		}
		if splitType == models.SplitTypePercentage && s.Percentage.IsNegative() {
			return nil, validationf(CodeNegativeShare, "share percentage for user %s cannot be negative", s.UserID)
		}
	}

	out := make([]models.ExpenseShare, 0, len(shares))

	switch splitType {
	case models.SplitTypeEqual:
		perPerson := totalAmount.Div(decimal.NewFromInt(int64(len(shares)))).Round(2)
		for _, s := range shares {
			out = append(out, models.ExpenseShare{UserID: s.UserID, Amount: perPerson})
		}

	case models.SplitTypeExact:
		sum := decimal.Zero
		for _, s := range shares {
			sum = sum.Add(s.Amount)
		}
		if sum.Sub(totalAmount).Abs().GreaterThan(Tolerance) {
			return nil, validationf(CodeSplitSumMismatch,
				"sum of exact amounts (%s) must equal total amount (%s)", sum, totalAmount)
		}
		for _, s := range shares {
			out = append(out, models.ExpenseShare{UserID: s.UserID, Amount: s.Amount})
		}

	case models.SplitTypePercentage:
		sum := decimal.Zero
		for _, s := range shares {
			sum = sum.Add(s.Percentage)
		}
		if sum.Sub(hundred).Abs().GreaterThan(Tolerance) {
			return nil, validationf(CodeSplitSumMismatch,
				"sum of percentages (%s) must equal 100", sum)
		}
		for _, s := range shares {
			amount := s.Percentage.Div(hundred).Mul(totalAmount).Round(2)
			out = append(out, models.ExpenseShare{UserID: s.UserID, Amount: amount, Percentage: s.Percentage})
		}

	default:
		return nil, validationf(CodeUnknownSplitType, "unknown split type: %s", splitType)
	}

	return out, nil
}
