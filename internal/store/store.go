// Package store persists users, month history, budgets, and leaderboard
// membership.
package store

import (
	"context"
	"errors"

	"github.com/money-gurus/guru-server/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence interface used by the HTTP handlers.
type Store interface {
	// Users
	UpsertUser(ctx context.Context, u model.User) error
	GetUser(ctx context.Context, uid string) (*model.User, error)

	// Month history. SaveMonth also merges the entry into the user's
	// latest portfolio snapshot.
	SaveMonth(ctx context.Context, entry model.MonthEntry) error
	History(ctx context.Context, uid string) ([]model.MonthEntry, error)
	DeleteMonth(ctx context.Context, uid, entryID string) error
	LatestPortfolio(ctx context.Context, uid string) (*model.Portfolio, error)

	// Budgets
	SaveBudgets(ctx context.Context, uid string, budgets []model.CategoryBudget) error
	GetBudgets(ctx context.Context, uid string) ([]model.CategoryBudget, error)
	SaveActuals(ctx context.Context, uid, month string, actuals []model.CategoryActual) error
	GetActuals(ctx context.Context, uid, month string) ([]model.CategoryActual, error)

	// Leaderboard
	UpsertMember(ctx context.Context, code string, m model.Member) error
	GroupMembers(ctx context.Context, code string) ([]model.Member, error)

	Migrate(ctx context.Context) error
	Close() error
}
