package snapshot

import "context"

// Repository stores immutable season snapshots. Insert never replaces
// earlier rows; LatestBySeason returns nil without error when the
// season has no snapshot yet.
type Repository interface {
	Insert(ctx context.Context, snap *Snapshot) error
	LatestBySeason(ctx context.Context, seasonID string) (*Snapshot, error)
}
