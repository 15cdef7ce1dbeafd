// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/expenseflow/expenseflow/internal/model"
)

// Storage defines the contract for the server-side persistence layer.
type Storage interface {
	ListExpenses(ctx context.Context) ([]model.Expense, error)
	GetExpense(ctx context.Context, id string) (*model.Expense, error)
	CreateExpense(ctx context.Context, record model.Expense) (*model.Expense, error)
	UpdateExpense(ctx context.Context, id string, patch model.Patch) (*model.Expense, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RemoteStore is the client-side view of the expense API. Every method
// returns an error when the remote is unreachable or responds with a
// non-success status; callers treat that as "remote unavailable", never as
// "remote empty".
type RemoteStore interface {
	FetchAll(ctx context.Context) ([]model.Expense, error)
	Create(ctx context.Context, record model.Expense) (*model.Expense, error)
	Update(ctx context.Context, id string, patch model.Patch) (*model.Expense, error)
}

// ProgressFunc is invoked after each item during a local-to-remote
// migration, successful or not, with done counting up to total.
type ProgressFunc func(done, total int, current model.Expense)

// MigrationResult summarizes a local-to-remote migration run.
type MigrationResult struct {
	Migrated int
	Total    int
}

// RetryOptions configures retry behavior for operations against the remote.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
