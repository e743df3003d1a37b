package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JeyadeepakUR/credresolve/internal/models"
	"github.com/JeyadeepakUR/credresolve/internal/storage"
)

// Engine owns the directed balances of every group. All mutations funnel
// through applyTransfer so the single-direction invariant holds: for any user
// pair at most one of (A owes B) and (B owes A) is ever stored.
//
// Compound mutations (expense insert + balance updates, settlement insert +
// smart apply, recalculation) run under a per-group mutex; concurrent writers
// to the same group are serialized, different groups proceed in parallel.
type Engine struct {
	store storage.Store

	mu     sync.Mutex
	groups map[string]*sync.Mutex
}

// NewEngine creates a ledger engine over the given store.
func NewEngine(store storage.Store) *Engine {
	return &Engine{
		store:  store,
		groups: make(map[string]*sync.Mutex),
	}
}

func (e *Engine) groupLock(groupID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.groups[groupID]
	if !ok {
		l = &sync.Mutex{}
		e.groups[groupID] = l
	}
	return l
}

// ExpenseInput is one expense declaration to be split and applied.
type ExpenseInput struct {
	GroupID     string
	Description string
	TotalAmount decimal.Decimal
	PaidBy      string
	SplitType   models.SplitType
	Shares      []models.ExpenseShare
}

// ExpenseResult is the recorded expense plus the group's balances after the
// per-share transfers were applied.
type ExpenseResult struct {
	Expense  *models.Expense  `json:"expense"`
	Balances []models.Balance `json:"updatedBalances"`
}

// ApplyExpense validates the declaration, records the expense with its
// computed splits, and applies one netted transfer per non-payer participant.
//
// The expense and the balance updates are deliberately two-phase: the expense
// row commits first, then balances apply. A crash between the phases leaves
// the expense recorded without ledger effect; Recalculate repairs that.
func (e *Engine) ApplyExpense(ctx context.Context, in ExpenseInput) (*ExpenseResult, error) {
	group, err := e.store.GetGroup(ctx, in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if group == nil {
		return nil, notFoundf(CodeGroupNotFound, "group not found: %s", in.GroupID)
	}
	if !group.HasMember(in.PaidBy) {
		return nil, validationf(CodeNonMemberParticipant, "payer %s is not a group member", in.PaidBy)
	}
	for _, s := range in.Shares {
		if !group.HasMember(s.UserID) {
			return nil, validationf(CodeNonMemberParticipant, "user %s is not a group member", s.UserID)
		}
	}

	splits, err := CalculateSplits(in.TotalAmount, in.SplitType, in.Shares)
	if err != nil {
		return nil, err
	}

	lock := e.groupLock(in.GroupID)
	lock.Lock()
	defer lock.Unlock()

	expense := &models.Expense{
		GroupID:     in.GroupID,
		Description: in.Description,
		TotalAmount: in.TotalAmount,
		PaidBy:      in.PaidBy,
		SplitType:   in.SplitType,
		Splits:      splits,
	}
	if err := e.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	for _, s := range splits {
		if s.UserID == in.PaidBy {
			continue
		}
		if err := e.applyTransfer(ctx, in.GroupID, s.UserID, in.PaidBy, s.Amount); err != nil {
			return nil, err
		}
	}

	balances, err := e.store.ListGroupBalances(ctx, in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}

	return &ExpenseResult{Expense: expense, Balances: balances}, nil
}

// applyTransfer records that debtor owes creditor an additional delta, net of
// any existing debt in the opposite direction. This is the only balance
// mutation primitive; delta must be positive.
func (e *Engine) applyTransfer(ctx context.Context, groupID, debtor, creditor string, delta decimal.Decimal) error {
	reverse, err := e.store.GetBalance(ctx, groupID, creditor, debtor)
	if err != nil {
		return fmt.Errorf("get reverse balance: %w", err)
	}

	if reverse.IsPositive() {
		switch {
		case reverse.GreaterThan(delta):
			return e.setBalance(ctx, groupID, creditor, debtor, reverse.Sub(delta))
		case reverse.LessThan(delta):
			if err := e.setBalance(ctx, groupID, creditor, debtor, decimal.Zero); err != nil {
				return err
			}
			return e.setBalance(ctx, groupID, debtor, creditor, delta.Sub(reverse))
		default:
			return e.setBalance(ctx, groupID, creditor, debtor, decimal.Zero)
		}
	}

	current, err := e.store.GetBalance(ctx, groupID, debtor, creditor)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}
	return e.setBalance(ctx, groupID, debtor, creditor, current.Add(delta))
}

func (e *Engine) setBalance(ctx context.Context, groupID, fromUserID, toUserID string, amount decimal.Decimal) error {
	if err := e.store.SetBalance(ctx, groupID, fromUserID, toUserID, amount); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// SettlementInput is a proposed payment from a net debtor to a net creditor.
type SettlementInput struct {
	GroupID    string
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// SettlementResult is the recorded settlement plus the payer's recomputed net
// position.
type SettlementResult struct {
	Settlement       *models.Settlement `json:"settlement"`
	RemainingBalance decimal.Decimal    `json:"remainingBalance"`
}

// RecordSettlement validates a payment against the net positions of both
// parties, persists it, and applies it to the ledger.
//
// The apply step reduces the payer's outstanding debts in stored order until
// the amount is consumed, then independently does the same over the
// recipient's credits with a fresh copy of the amount. This first-fit
// sequential reduction of two independent sides is intentional and preserved
// as-is; it is not a proportional split.
func (e *Engine) RecordSettlement(ctx context.Context, in SettlementInput) (*SettlementResult, error) {
	group, err := e.store.GetGroup(ctx, in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if group == nil {
		return nil, notFoundf(CodeGroupNotFound, "group not found: %s", in.GroupID)
	}
	if !group.HasMember(in.FromUserID) || !group.HasMember(in.ToUserID) {
		return nil, validationf(CodeNonMemberParticipant, "both users must be group members")
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, validationf(CodeNegativeOrZeroAmount, "settlement amount must be positive")
	}

	lock := e.groupLock(in.GroupID)
	lock.Lock()
	defer lock.Unlock()

	balances, err := e.store.ListGroupBalances(ctx, in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}

	net := NetPositions(balances)
	fromNet, toNet := net[in.FromUserID], net[in.ToUserID]

	if fromNet.GreaterThanOrEqual(decimal.Zero) {
		return nil, validationf(CodePayerNotInDebt, "%s does not owe money in this group", in.FromUserID)
	}
	if toNet.LessThanOrEqual(decimal.Zero) {
		return nil, validationf(CodeRecipientNotOwed, "%s is not owed money in this group", in.ToUserID)
	}

	maxAllowed := decimal.Min(fromNet.Abs(), toNet.Abs())
	if in.Amount.GreaterThan(maxAllowed.Add(Tolerance)) {
		return nil, validationf(CodeSettlementExceedsBalance,
			"settlement amount (%s) exceeds maximum allowed (%s)", in.Amount, maxAllowed.Round(2))
	}

	settlement := &models.Settlement{
		GroupID:    in.GroupID,
		FromUserID: in.FromUserID,
		ToUserID:   in.ToUserID,
		Amount:     in.Amount,
	}
	if err := e.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("create settlement: %w", err)
	}

	if err := e.applySmartSettlement(ctx, in.GroupID, in.FromUserID, in.ToUserID, in.Amount, balances); err != nil {
		return nil, err
	}

	updated, err := e.store.ListGroupBalances(ctx, in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	remaining := NetPositions(updated)[in.FromUserID]

	return &SettlementResult{Settlement: settlement, RemainingBalance: remaining.Round(2)}, nil
}

func (e *Engine) applySmartSettlement(ctx context.Context, groupID, payerID, recipientID string, amount decimal.Decimal, balances []models.Balance) error {
	remaining := amount
	for _, b := range balances {
		if b.FromUserID != payerID {
			continue
		}
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		reduction := decimal.Min(b.Amount, remaining)
		if err := e.setBalance(ctx, groupID, b.FromUserID, b.ToUserID, b.Amount.Sub(reduction)); err != nil {
			return err
		}
		remaining = remaining.Sub(reduction)
	}

	// The recipient side consumes a fresh copy of the amount over the same
	// pre-settlement snapshot, independent of how much the payer side
	// absorbed. A balance in both lists (payer -> recipient) is therefore
	// written twice, second write wins.
	remaining = amount
	for _, b := range balances {
		if b.ToUserID != recipientID {
			continue
		}
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		reduction := decimal.Min(b.Amount, remaining)
		if err := e.setBalance(ctx, groupID, b.FromUserID, b.ToUserID, b.Amount.Sub(reduction)); err != nil {
			return err
		}
		remaining = remaining.Sub(reduction)
	}

	return nil
}

// SettleBetween reduces a single directed balance by amount without recording
// a settlement event. It fails when no balance exists in the from->to
// direction or when amount exceeds it beyond Tolerance.
func (e *Engine) SettleBetween(ctx context.Context, groupID, fromUserID, toUserID string, amount decimal.Decimal) error {
	lock := e.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	current, err := e.store.GetBalance(ctx, groupID, fromUserID, toUserID)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}
	if current.IsZero() {
		return validationf(CodeNoExistingBalance, "no balance exists between these users")
	}
	if amount.GreaterThan(current.Add(Tolerance)) {
		return validationf(CodeSettlementExceedsBalance,
			"settlement amount (%s) exceeds current balance (%s)", amount, current)
	}
	return e.setBalance(ctx, groupID, fromUserID, toUserID, current.Sub(amount))
}

// DeleteExpense removes an expense from the history and rebuilds the owning
// group's ledger by replay.
func (e *Engine) DeleteExpense(ctx context.Context, expenseID string) error {
	expense, err := e.store.GetExpense(ctx, expenseID)
	if err != nil {
		return fmt.Errorf("get expense: %w", err)
	}
	if expense == nil {
		return notFoundf(CodeExpenseNotFound, "expense not found: %s", expenseID)
	}

	lock := e.groupLock(expense.GroupID)
	lock.Lock()
	defer lock.Unlock()

	if err := e.store.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return e.recalculate(ctx, expense.GroupID)
}

// Recalculate clears a group's directed balances and rebuilds them from the
// surviving expense and settlement history. It is idempotent and is the
// recovery path for any drift, including an expense committed without its
// balance updates.
func (e *Engine) Recalculate(ctx context.Context, groupID string) error {
	exists, err := e.store.GroupExists(ctx, groupID)
	if err != nil {
		return fmt.Errorf("group exists: %w", err)
	}
	if !exists {
		return notFoundf(CodeGroupNotFound, "group not found: %s", groupID)
	}

	lock := e.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	return e.recalculate(ctx, groupID)
}

// recalculate must run with the group lock held.
//
// Settlements replay as reversals: min(amount, current balance) is subtracted
// from the from->to direction only. This ignores any netting the smart apply
// performed at original application time, so replayed state can diverge from
// pre-deletion state in adversarial multi-party histories; that behavior
// matches the recorded history semantics and is kept deliberately.
func (e *Engine) recalculate(ctx context.Context, groupID string) error {
	if err := e.store.ClearGroupBalances(ctx, groupID); err != nil {
		return fmt.Errorf("clear balances: %w", err)
	}

	expenses, err := e.store.ListGroupExpenses(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	for _, expense := range expenses {
		splits, err := CalculateSplits(expense.TotalAmount, expense.SplitType, expense.Splits)
		if err != nil {
			return fmt.Errorf("recalculate splits for expense %s: %w", expense.ID, err)
		}
		for _, s := range splits {
			if s.UserID == expense.PaidBy {
				continue
			}
			if err := e.applyTransfer(ctx, groupID, s.UserID, expense.PaidBy, s.Amount); err != nil {
				return err
			}
		}
	}

	settlements, err := e.store.ListGroupSettlements(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list settlements: %w", err)
	}
	for _, s := range settlements {
		current, err := e.store.GetBalance(ctx, groupID, s.FromUserID, s.ToUserID)
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}
		if current.IsPositive() {
			reduction := decimal.Min(s.Amount, current)
			if err := e.setBalance(ctx, groupID, s.FromUserID, s.ToUserID, current.Sub(reduction)); err != nil {
				return err
			}
		}
	}

	slog.Info("group balances recalculated",
		"group_id", groupID,
		"expenses", len(expenses),
		"settlements", len(settlements),
	)
	return nil
}

// GroupBalances returns the group's stored directed balances.
func (e *Engine) GroupBalances(ctx context.Context, groupID string) ([]models.Balance, error) {
	exists, err := e.store.GroupExists(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group exists: %w", err)
	}
	if !exists {
		return nil, notFoundf(CodeGroupNotFound, "group not found: %s", groupID)
	}
	balances, err := e.store.ListGroupBalances(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	return balances, nil
}

// SimplifiedBalances returns a reduced payment plan for the group with the
// same net effect as the stored balances.
func (e *Engine) SimplifiedBalances(ctx context.Context, groupID string) ([]models.Balance, error) {
	balances, err := e.GroupBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return Simplify(groupID, balances), nil
}

// UserBalances aggregates a user's balances across all groups.
func (e *Engine) UserBalances(ctx context.Context, userID string) (*models.UserBalances, error) {
	balances, err := e.store.ListUserBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user balances: %w", err)
	}

	result := &models.UserBalances{
		UserID: userID,
		Owes:   []models.Balance{},
		Owed:   []models.Balance{},
	}
	totalOwes, totalOwed := decimal.Zero, decimal.Zero
	for _, b := range balances {
		switch userID {
		case b.FromUserID:
			result.Owes = append(result.Owes, b)
			totalOwes = totalOwes.Add(b.Amount)
		case b.ToUserID:
			result.Owed = append(result.Owed, b)
			totalOwed = totalOwed.Add(b.Amount)
		}
	}
	result.NetBalance = totalOwed.Sub(totalOwes).Round(2)
	return result, nil
}
