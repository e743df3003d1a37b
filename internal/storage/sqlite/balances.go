package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JeyadeepakUR/credresolve/internal/models"
)

// SetBalance upserts a directed balance. The existing record is deleted and a
// new one inserted only when amount is positive, so a zero balance is always
// expressed as an absent row.
func (s *SQLiteStore) SetBalance(ctx context.Context, groupID, fromUserID, toUserID string, amount decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM balances WHERE group_id = ? AND from_user_id = ? AND to_user_id = ?",
		groupID, fromUserID, toUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete balance: %w", err)
	}

	if amount.IsPositive() {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO balances (group_id, from_user_id, to_user_id, amount) VALUES (?, ?, ?, ?)",
			groupID, fromUserID, toUserID, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert balance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBalance returns the amount stored for a direction, zero if absent.
func (s *SQLiteStore) GetBalance(ctx context.Context, groupID, fromUserID, toUserID string) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := s.db.QueryRowContext(ctx,
		"SELECT amount FROM balances WHERE group_id = ? AND from_user_id = ? AND to_user_id = ?",
		groupID, fromUserID, toUserID,
	).Scan(&amount)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return amount, nil
}

// ListGroupBalances returns all directed balances in a group in stored order.
func (s *SQLiteStore) ListGroupBalances(ctx context.Context, groupID string) ([]models.Balance, error) {
	return s.listBalances(ctx,
		"SELECT group_id, from_user_id, to_user_id, amount FROM balances WHERE group_id = ? ORDER BY rowid",
		groupID,
	)
}

// ListUserBalances returns all directed balances involving a user across
// every group.
func (s *SQLiteStore) ListUserBalances(ctx context.Context, userID string) ([]models.Balance, error) {
	return s.listBalances(ctx,
		"SELECT group_id, from_user_id, to_user_id, amount FROM balances WHERE from_user_id = ? OR to_user_id = ? ORDER BY rowid",
		userID, userID,
	)
}

func (s *SQLiteStore) listBalances(ctx context.Context, query string, args ...any) ([]models.Balance, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	balances := []models.Balance{}
	for rows.Next() {
		var b models.Balance
		if err := rows.Scan(&b.GroupID, &b.FromUserID, &b.ToUserID, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}
	return balances, nil
}

// ClearGroupBalances deletes every directed balance for a group.
func (s *SQLiteStore) ClearGroupBalances(ctx context.Context, groupID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM balances WHERE group_id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to clear balances: %w", err)
	}
	return nil
}
