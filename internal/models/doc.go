// Package models defines the core domain records for CredResolve.
//
// # Models
//
//   - User: registered account, identified by UUID
//   - Group: a set of users sharing costs
//   - Expense: one cost declaration with its split shares
//   - Settlement: an applied payment between two group members
//   - Balance: a directed, netted claim that one user owes another
//
// # Design Principles
//
//  1. Expenses and settlements are append-only: they are the history the
//     ledger can always be rebuilt from.
//  2. Balances are derived and disposable; only the ledger engine writes them.
//  3. Money fields use decimal.Decimal, never float64, so repeated splits and
//     settlements cannot drift.
//  4. Relationships use ID strings instead of pointers to avoid circular
//     references.
package models
