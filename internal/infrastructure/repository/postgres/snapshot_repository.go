package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
	"github.com/clubkit/league-sync/internal/platform/id"
	qb "github.com/clubkit/league-sync/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewSnapshotRepository(db *sqlx.DB, ids id.Generator) *SnapshotRepository {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	return &SnapshotRepository{db: db, ids: ids}
}

func (r *SnapshotRepository) Insert(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is required")
	}

	publicID := snap.ID
	if publicID == "" {
		generated, err := r.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate snapshot id: %w", err)
		}
		publicID = generated
	}

	payload, err := encodeSnapshotPayload(snap)
	if err != nil {
		return err
	}

	row := struct {
		PublicID      string    `db:"public_id"`
		SeasonID      string    `db:"season_public_id"`
		FetchedAt     time.Time `db:"fetched_at"`
		Source        string    `db:"source"`
		Payload       []byte    `db:"payload"`
		Status        string    `db:"status"`
		StatusMessage string    `db:"status_message"`
	}{
		PublicID:      publicID,
		SeasonID:      snap.SeasonID,
		FetchedAt:     snap.FetchedAt,
		Source:        snap.Source,
		Payload:       payload,
		Status:        snap.Status,
		StatusMessage: snap.StatusMessage,
	}

	query, args, err := qb.InsertModel("league_snapshots", row, "")
	if err != nil {
		return fmt.Errorf("build insert snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	snap.ID = publicID
	return nil
}

func (r *SnapshotRepository) LatestBySeason(ctx context.Context, seasonID string) (*snapshot.Snapshot, error) {
	query, args, err := qb.Select("*").From("league_snapshots").
		Where(qb.Eq("season_public_id", seasonID)).
		OrderBy("fetched_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select latest snapshot query: %w", err)
	}

	var row snapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.latestBySeasonLiteral(ctx, seasonID)
		}
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select latest snapshot: %w", err)
	}

	return mapSnapshotRow(row)
}

func (r *SnapshotRepository) latestBySeasonLiteral(ctx context.Context, seasonID string) (*snapshot.Snapshot, error) {
	query, args, err := qb.Select("*").From("league_snapshots").
		Where(qb.EqLiteral("season_public_id", seasonID)).
		OrderBy("fetched_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select latest snapshot literal fallback query: %w", err)
	}

	var row snapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select latest snapshot literal fallback: %w", err)
	}

	return mapSnapshotRow(row)
}
