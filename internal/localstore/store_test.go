package localstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenseflow/expenseflow/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "expenses.json"), nil)
}

func TestGetAll_CorruptRecovery(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid json", content: `{not json at all`},
		{name: "non-sequence value", content: `{"id":"EXP-2025-1"}`},
		{name: "bare string", content: `"hello"`},
		{name: "null", content: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.WriteFile(store.path, []byte(tt.content), 0600))

			records := store.GetAll()
			require.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestGetAll_MissingFile(t *testing.T) {
	store := newTestStore(t)

	records := store.GetAll()
	require.NotNil(t, records)
	assert.Empty(t, records)
}

func TestAdd_Defaults(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time {
		return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	}

	added := store.Add(model.Expense{})

	assert.Regexp(t, `^EXP-\d{4}-\d+$`, added.ID)
	assert.Equal(t, "Unknown", added.Employee)
	assert.Equal(t, model.StatusPending, added.Status)
	assert.Equal(t, model.PriorityMedium, added.Priority)
	assert.Equal(t, "2025-06-01", added.Date)
	assert.Equal(t, "2025-06-01T09:30:00Z", added.SubmittedAt)
	require.NotNil(t, added.Files)
	assert.Empty(t, added.Files)

	persisted := store.GetAll()
	require.Len(t, persisted, 1)
	assert.Equal(t, added.ID, persisted[0].ID)
}

func TestAdd_MostRecentFirst(t *testing.T) {
	store := newTestStore(t)

	r1 := store.Add(model.Expense{Employee: "First"})
	r2 := store.Add(model.Expense{ID: "EXP-2025-2", Employee: "Second"})

	all := store.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, r2.ID, all[0].ID)
	assert.Equal(t, r1.ID, all[1].ID)
}

func TestAdd_ExistingIDOverwritesInPlace(t *testing.T) {
	store := newTestStore(t)

	store.Add(model.Expense{ID: "EXP-2025-1", Employee: "First"})
	store.Add(model.Expense{ID: "EXP-2025-2", Employee: "Second"})
	store.Add(model.Expense{ID: "EXP-2025-1", Employee: "Replaced"})

	all := store.GetAll()
	require.Len(t, all, 2)
	// position preserved, content replaced
	assert.Equal(t, "EXP-2025-2", all[0].ID)
	assert.Equal(t, "EXP-2025-1", all[1].ID)
	assert.Equal(t, "Replaced", all[1].Employee)
}

func TestAdd_StringAmountCoercion(t *testing.T) {
	store := newTestStore(t)

	store.Add(model.Expense{Employee: "Jane", Amount: model.ParseAmount("42.50")})

	all := store.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, model.Amount(42.5), all[0].Amount)
	assert.Equal(t, model.StatusPending, all[0].Status)
	assert.Regexp(t, `^EXP-\d{4}-`, all[0].ID)
}

func TestUpdate(t *testing.T) {
	t.Run("merges and preserves position", func(t *testing.T) {
		store := newTestStore(t)

		store.Add(model.Expense{ID: "EXP-2025-1", Amount: 100})
		store.Add(model.Expense{ID: "EXP-2025-2"})

		status := model.StatusApproved
		merged := store.Update("EXP-2025-1", model.Patch{Status: &status})
		require.NotNil(t, merged)
		assert.Equal(t, model.StatusApproved, merged.Status)
		assert.Equal(t, model.Amount(100), merged.Amount)

		all := store.GetAll()
		require.Len(t, all, 2)
		assert.Equal(t, "EXP-2025-1", all[1].ID)
		assert.Equal(t, model.StatusApproved, all[1].Status)
	})

	t.Run("unknown id returns nil", func(t *testing.T) {
		store := newTestStore(t)

		status := model.StatusApproved
		assert.Nil(t, store.Update("EXP-2025-404", model.Patch{Status: &status}))
	})
}

func TestUpsertUniqueness(t *testing.T) {
	store := newTestStore(t)

	store.Add(model.Expense{ID: "EXP-2025-1", Employee: "A"})
	status := model.StatusApproved
	store.Update("EXP-2025-1", model.Patch{Status: &status})
	store.Add(model.Expense{ID: "EXP-2025-1", Employee: "B"})

	all := store.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, "B", all[0].Employee)
}

func TestReconcile(t *testing.T) {
	t.Run("replaces under a server-normalized id", func(t *testing.T) {
		store := newTestStore(t)

		local := store.Add(model.Expense{Employee: "Jane"})
		remote := local
		remote.ID = "EXP-2025-999"
		remote.Status = model.StatusApproved

		store.Reconcile(local.ID, remote)

		all := store.GetAll()
		require.Len(t, all, 1)
		assert.Equal(t, "EXP-2025-999", all[0].ID)
		assert.Equal(t, model.StatusApproved, all[0].Status)
	})

	t.Run("prepends when the local copy vanished", func(t *testing.T) {
		store := newTestStore(t)

		store.Reconcile("EXP-2025-gone", model.Expense{ID: "EXP-2025-1", Employee: "Jane"})

		all := store.GetAll()
		require.Len(t, all, 1)
		assert.Equal(t, "EXP-2025-1", all[0].ID)
	})
}

func TestReplace(t *testing.T) {
	store := newTestStore(t)

	store.Add(model.Expense{ID: "EXP-2025-1"})
	store.Replace([]model.Expense{
		{ID: "EXP-2025-10"},
		{ID: "EXP-2025-11"},
	})

	all := store.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "EXP-2025-10", all[0].ID)
}

func TestClear(t *testing.T) {
	store := newTestStore(t)

	store.Add(model.Expense{Employee: "Jane"})
	require.NoError(t, store.Clear())

	assert.Empty(t, store.GetAll())

	// clearing an already-empty store is fine
	require.NoError(t, store.Clear())
}

func TestGetAll_FilesNeverNil(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.path,
		[]byte(`[{"id":"EXP-2025-1","files":null}]`), 0600))

	all := store.GetAll()
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Files)
	assert.Empty(t, all[0].Files)
}
