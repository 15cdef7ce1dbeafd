package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenseflow/expenseflow/internal/common"
	"github.com/expenseflow/expenseflow/internal/model"
)

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns defaults for a minimal record", func(t *testing.T) {
		store := newTestStorage(t)

		created, err := store.CreateExpense(ctx, model.Expense{Employee: "Jane Cooper", Amount: 42.5})
		require.NoError(t, err)

		assert.Regexp(t, `^EXP-\d{4}-\d+$`, created.ID)
		assert.Equal(t, "Jane Cooper", created.Employee)
		assert.Equal(t, model.Amount(42.5), created.Amount)
		assert.Equal(t, model.StatusPending, created.Status)
		assert.Equal(t, model.PriorityMedium, created.Priority)
		require.NotNil(t, created.Files)
		assert.Empty(t, created.Files)
	})

	t.Run("stores omitted descriptive fields as empty", func(t *testing.T) {
		store := newTestStorage(t)

		created, err := store.CreateExpense(ctx, model.Expense{Amount: 10})
		require.NoError(t, err)

		// only id, status, and priority are substituted server-side
		assert.Empty(t, created.Employee)
		assert.Empty(t, created.Date)
		assert.Empty(t, created.SubmittedAt)
		assert.Equal(t, model.StatusPending, created.Status)
		assert.Equal(t, model.PriorityMedium, created.Priority)
	})

	t.Run("preserves a client-supplied id", func(t *testing.T) {
		store := newTestStorage(t)

		created, err := store.CreateExpense(ctx, model.Expense{ID: "EXP-2025-42"})
		require.NoError(t, err)
		assert.Equal(t, "EXP-2025-42", created.ID)
	})

	t.Run("create with existing id replaces the row", func(t *testing.T) {
		store := newTestStorage(t)

		_, err := store.CreateExpense(ctx, model.Expense{ID: "EXP-2025-7", Employee: "First"})
		require.NoError(t, err)
		_, err = store.CreateExpense(ctx, model.Expense{ID: "EXP-2025-7", Employee: "Second"})
		require.NoError(t, err)

		all, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Second", all[0].Employee)
	})

	t.Run("round-trips attachments", func(t *testing.T) {
		store := newTestStorage(t)

		created, err := store.CreateExpense(ctx, model.Expense{
			Employee: "Jane Cooper",
			Files: []model.Attachment{
				{Name: "receipt.pdf", Type: "application/pdf", Size: 1024},
				{Name: "taxi.jpg", Type: "image/jpeg", Size: 2048},
			},
		})
		require.NoError(t, err)

		got, err := store.GetExpense(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, got.Files, 2)
		assert.Equal(t, "receipt.pdf", got.Files[0].Name)
		assert.Equal(t, int64(2048), got.Files[1].Size)
	})
}

func TestGetExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id reports not found", func(t *testing.T) {
		store := newTestStorage(t)

		_, err := store.GetExpense(ctx, "EXP-2025-404")
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("undecodable files column falls back to empty", func(t *testing.T) {
		store := newTestStorage(t)

		created, err := store.CreateExpense(ctx, model.Expense{Employee: "Jane Cooper"})
		require.NoError(t, err)

		_, err = store.db.ExecContext(ctx,
			`UPDATE expenses SET files = ? WHERE id = ?`, "{not json", created.ID)
		require.NoError(t, err)

		got, err := store.GetExpense(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Files)
		assert.Empty(t, got.Files)
	})
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("merges patch onto existing record", func(t *testing.T) {
		store := newTestStorage(t)

		created, err := store.CreateExpense(ctx, model.Expense{
			Employee: "Jane Cooper",
			Amount:   100,
		})
		require.NoError(t, err)

		status := model.StatusApproved
		updated, err := store.UpdateExpense(ctx, created.ID, model.Patch{Status: &status})
		require.NoError(t, err)

		assert.Equal(t, model.StatusApproved, updated.Status)
		assert.Equal(t, model.Amount(100), updated.Amount)
		assert.Equal(t, "Jane Cooper", updated.Employee)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		store := newTestStorage(t)

		status := model.StatusApproved
		_, err := store.UpdateExpense(ctx, "EXP-2025-404", model.Patch{Status: &status})
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("repeated updates keep a single row", func(t *testing.T) {
		store := newTestStorage(t)

		created, err := store.CreateExpense(ctx, model.Expense{Employee: "Jane Cooper"})
		require.NoError(t, err)

		for _, s := range []model.Status{model.StatusApproved, model.StatusEscalated, model.StatusReimbursed} {
			status := s
			_, err = store.UpdateExpense(ctx, created.ID, model.Patch{Status: &status})
			require.NoError(t, err)
		}

		all, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, model.StatusReimbursed, all[0].Status)
	})
}

func TestListExpenses(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by submittedAt descending", func(t *testing.T) {
		store := newTestStorage(t)

		older := model.Expense{ID: "EXP-2025-1", SubmittedAt: "2025-01-01T10:00:00Z"}
		newer := model.Expense{ID: "EXP-2025-2", SubmittedAt: "2025-02-01T10:00:00Z"}

		_, err := store.CreateExpense(ctx, older)
		require.NoError(t, err)
		_, err = store.CreateExpense(ctx, newer)
		require.NoError(t, err)

		all, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "EXP-2025-2", all[0].ID)
		assert.Equal(t, "EXP-2025-1", all[1].ID)
	})

	t.Run("empty store lists nothing", func(t *testing.T) {
		store := newTestStorage(t)

		all, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
