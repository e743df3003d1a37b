// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JeyadeepakUR/credresolve/internal/models"
)

// Store defines the durable storage operations the service depends on.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the engine or service layers.
//
// Expenses and settlements form an append-only history: list methods return
// them in creation order so the ledger engine can replay deterministically.
// Directed balances are owned exclusively by the ledger engine; no other
// component writes them.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are populated when
	// absent.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByID retrieves a user, or nil if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// GetUserByEmail retrieves a user by email, or nil if none exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserExists reports whether a user with the given ID exists.
	UserExists(ctx context.Context, id string) (bool, error)
	// ListUsers returns all users, newest first.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateGroup persists a new group and adds the creator as a member.
	CreateGroup(ctx context.Context, group *models.Group) error
	// GetGroup retrieves a group with its member list, or nil if missing.
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	// GroupExists reports whether a group with the given ID exists.
	GroupExists(ctx context.Context, id string) (bool, error)
	// AddGroupMember adds a user to a group. Returns false if the user is
	// already a member.
	AddGroupMember(ctx context.Context, groupID, userID string) (bool, error)
	// ListGroups returns all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// CreateExpense persists an expense and its split rows in one
	// transaction. ID and CreatedAt are populated when absent.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// GetExpense retrieves an expense with its splits, or nil if missing.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	// ListGroupExpenses returns a group's expenses in creation order.
	ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)
	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, id string) error

	// CreateSettlement persists a settlement. ID and SettledAt are
	// populated when absent.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	// GetSettlement retrieves a settlement, or nil if missing.
	GetSettlement(ctx context.Context, id string) (*models.Settlement, error)
	// ListGroupSettlements returns a group's settlements in creation order.
	ListGroupSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error)
	// ListUserSettlements returns all settlements involving a user.
	ListUserSettlements(ctx context.Context, userID string) ([]*models.Settlement, error)

	// SetBalance upserts a directed balance: the existing record is removed
	// and a new one inserted only when amount is positive.
	SetBalance(ctx context.Context, groupID, fromUserID, toUserID string, amount decimal.Decimal) error
	// GetBalance returns the stored amount for a direction, zero if absent.
	GetBalance(ctx context.Context, groupID, fromUserID, toUserID string) (decimal.Decimal, error)
	// ListGroupBalances returns all positive directed balances in a group,
	// in stored order.
	ListGroupBalances(ctx context.Context, groupID string) ([]models.Balance, error)
	// ListUserBalances returns all directed balances involving a user,
	// across every group.
	ListUserBalances(ctx context.Context, userID string) ([]models.Balance, error)
	// ClearGroupBalances deletes every directed balance in a group.
	ClearGroupBalances(ctx context.Context, groupID string) error

	// Close releases any resources held by the store.
	Close() error
}
