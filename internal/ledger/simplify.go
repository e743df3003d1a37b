package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/JeyadeepakUR/credresolve/internal/models"
)

type netPosition struct {
	userID string
	amount decimal.Decimal // magnitude, always positive
}

// Simplify reduces a group's directed balances to a smaller set of payments
// with the same net effect on every user. It is a greedy two-pointer match of
// the largest remaining debtor against the largest remaining creditor, not a
// minimum-cardinality solution, and is deterministic: ties keep the order in
// which users first appear in the input.
func Simplify(groupID string, balances []models.Balance) []models.Balance {
	net := NetPositions(balances)

	// Preserve encounter order so the stable sort breaks ties predictably.
	var order []string
	seen := make(map[string]bool)
	for _, b := range balances {
		if !seen[b.FromUserID] {
			seen[b.FromUserID] = true
			order = append(order, b.FromUserID)
		}
		if !seen[b.ToUserID] {
			seen[b.ToUserID] = true
			order = append(order, b.ToUserID)
		}
	}

	var debtors, creditors []netPosition
	for _, userID := range order {
		n := net[userID]
		switch {
		case n.LessThan(Tolerance.Neg()):
			debtors = append(debtors, netPosition{userID: userID, amount: n.Neg()})
		case n.GreaterThan(Tolerance):
			creditors = append(creditors, netPosition{userID: userID, amount: n})
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].amount.GreaterThan(debtors[j].amount)
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].amount.GreaterThan(creditors[j].amount)
	})

	var simplified []models.Balance
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		simplified = append(simplified, models.Balance{
			GroupID:    groupID,
			FromUserID: debtors[i].userID,
			ToUserID:   creditors[j].userID,
			Amount:     amount.Round(2),
		})

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if debtors[i].amount.LessThan(Tolerance) {
			i++
		}
		if creditors[j].amount.LessThan(Tolerance) {
			j++
		}
	}

	return simplified
}

// NetPositions computes each user's net position over a set of directed
// balances: amounts owed to the user minus amounts the user owes. Negative
// means a net debtor.
func NetPositions(balances []models.Balance) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal)
	for _, b := range balances {
		net[b.FromUserID] = net[b.FromUserID].Sub(b.Amount)
		net[b.ToUserID] = net[b.ToUserID].Add(b.Amount)
	}
	return net
}
