package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JeyadeepakUR/credresolve/internal/models"
)

// CreateExpense persists an expense and its split rows in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, total_amount, paid_by, split_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.TotalAmount,
		expense.PaidBy, string(expense.SplitType), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, split := range expense.Splits {
		var percentage any
		if expense.SplitType == models.SplitTypePercentage {
			percentage = split.Percentage.String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, amount, percentage) VALUES (?, ?, ?, ?)",
			expense.ID, split.UserID, split.Amount, percentage,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its splits. Returns nil
// without error if no expense exists.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense := &models.Expense{}
	var splitType string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, description, total_amount, paid_by, split_type, created_at FROM expenses WHERE id = ?",
		id,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.TotalAmount,
		&expense.PaidBy, &splitType, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.SplitType = models.SplitType(splitType)

	expense.Splits, err = s.getExpenseSplits(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *SQLiteStore) getExpenseSplits(ctx context.Context, expenseID string) ([]models.ExpenseShare, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, amount, percentage FROM expense_splits WHERE expense_id = ? ORDER BY rowid",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	var splits []models.ExpenseShare
	for rows.Next() {
		var split models.ExpenseShare
		var percentage sql.NullString
		if err := rows.Scan(&split.UserID, &split.Amount, &percentage); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		if percentage.Valid {
			split.Percentage, err = decimal.NewFromString(percentage.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse split percentage: %w", err)
			}
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return splits, nil
}

// ListGroupExpenses returns all expenses for a group in creation order, with
// their splits. Creation order is what the ledger replays.
func (s *SQLiteStore) ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, total_amount, paid_by, split_type, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at ASC, rowid ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var splitType string
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.TotalAmount,
			&expense.PaidBy, &splitType, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.SplitType = models.SplitType(splitType)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		expense.Splits, err = s.getExpenseSplits(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// DeleteExpense removes an expense; its split rows cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}
