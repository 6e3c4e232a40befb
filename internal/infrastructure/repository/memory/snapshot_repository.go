package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
)

// SnapshotRepository is the in-memory snapshot store used in demo mode
// and tests. Like the database table it is insert-only.
type SnapshotRepository struct {
	mu   sync.RWMutex
	rows []snapshot.Snapshot
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Insert(_ context.Context, snap *snapshot.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.ID == "" {
		snap.ID = fmt.Sprintf("mem-snapshot-%d", len(r.rows)+1)
	}
	r.rows = append(r.rows, *snap)
	return nil
}

func (r *SnapshotRepository) LatestBySeason(_ context.Context, seasonID string) (*snapshot.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *snapshot.Snapshot
	for i := range r.rows {
		row := &r.rows[i]
		if row.SeasonID != seasonID {
			continue
		}
		if latest == nil || row.FetchedAt.After(latest.FetchedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}
