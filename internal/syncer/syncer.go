package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/expenseflow/expenseflow/internal/localstore"
	"github.com/expenseflow/expenseflow/internal/model"
	"github.com/expenseflow/expenseflow/internal/service"
)

// Syncer pairs the local record store with the remote API. Local writes
// always succeed immediately; remote propagation happens in the background
// and reconciles the local copy when it lands.
type Syncer struct {
	local  *localstore.Store
	remote service.RemoteStore
	logger *slog.Logger
}

// NewSyncer creates a syncer over the given local store and remote API.
func NewSyncer(local *localstore.Store, remote service.RemoteStore, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{local: local, remote: remote, logger: logger}
}

// Pending tracks a background remote write. Wait blocks until the remote
// call and local reconciliation are finished and reports the remote copy, or
// the error if the remote was unavailable.
type Pending struct {
	done   chan struct{}
	record *model.Expense
	err    error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Wait blocks until the background remote write completes.
func (p *Pending) Wait() (*model.Expense, error) {
	<-p.done
	return p.record, p.err
}

// Add writes the record to the local store synchronously and fires a remote
// create in the background. The returned record is the locally-constructed
// one; the Pending handle resolves once the remote copy has been reconciled
// back into the local store.
func (s *Syncer) Add(ctx context.Context, record model.Expense) (model.Expense, *Pending) {
	local := s.local.Add(record)

	p := newPending()
	// The background write must outlive the caller's request scope.
	bg := context.WithoutCancel(ctx)
	go func() {
		defer close(p.done)

		remote, err := s.remote.Create(bg, local)
		if err != nil {
			s.logger.Warn("Remote create failed, keeping local copy",
				"id", local.ID, "error", err)
			p.err = err
			return
		}

		s.local.Reconcile(local.ID, *remote)
		p.record = remote
	}()

	return local, p
}

// Update merge-patches the local record synchronously and fires a remote
// update in the background. Returns nil handles if the ID is not found
// locally; no remote call is made in that case.
func (s *Syncer) Update(ctx context.Context, id string, patch model.Patch) (*model.Expense, *Pending) {
	local := s.local.Update(id, patch)
	if local == nil {
		return nil, nil
	}

	p := newPending()
	bg := context.WithoutCancel(ctx)
	go func() {
		defer close(p.done)

		remote, err := s.remote.Update(bg, id, patch)
		if err != nil {
			s.logger.Warn("Remote update failed, keeping local copy",
				"id", id, "error", err)
			p.err = err
			return
		}

		s.local.Reconcile(id, *remote)
		p.record = remote
	}()

	return local, p
}

// SyncFromRemote fetches the full remote sequence and overwrites the local
// store with it. The local store is left untouched when the remote is
// unavailable.
func (s *Syncer) SyncFromRemote(ctx context.Context) ([]model.Expense, error) {
	records, err := s.remote.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote expenses: %w", err)
	}

	s.local.Replace(records)
	return records, nil
}

// MigrateLocalToRemote uploads every local record whose ID the remote does
// not already hold. A failed create is logged and skipped; the loop always
// continues, and onProgress fires after every item regardless of outcome.
// Afterwards the remote listing is re-fetched and, if available, overwrites
// the local store. The initial listing fetch failing aborts the whole run.
func (s *Syncer) MigrateLocalToRemote(ctx context.Context, onProgress service.ProgressFunc) (service.MigrationResult, error) {
	records := s.local.GetAll()
	result := service.MigrationResult{Total: len(records)}

	existing, err := s.remote.FetchAll(ctx)
	if err != nil {
		return service.MigrationResult{}, fmt.Errorf("failed to fetch remote listing: %w", err)
	}

	remoteIDs := make(map[string]bool, len(existing))
	for _, r := range existing {
		remoteIDs[r.ID] = true
	}

	for i, record := range records {
		if !remoteIDs[record.ID] {
			if _, createErr := s.remote.Create(ctx, record); createErr != nil {
				s.logger.Warn("Skipping record that failed to migrate",
					"id", record.ID, "error", createErr)
			} else {
				result.Migrated++
			}
		}

		if onProgress != nil {
			onProgress(i+1, result.Total, record)
		}
	}

	// Remote is authoritative after a migration; refresh the local cache
	// when it can be reached.
	refreshed, err := s.remote.FetchAll(ctx)
	if err != nil {
		s.logger.Warn("Migration finished but refresh fetch failed", "error", err)
		return result, nil
	}
	s.local.Replace(refreshed)

	return result, nil
}
