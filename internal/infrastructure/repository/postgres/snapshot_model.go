package postgres

import (
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/clubkit/league-sync/internal/domain/snapshot"
)

type snapshotTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	SeasonID      string         `db:"season_public_id"`
	FetchedAt     time.Time      `db:"fetched_at"`
	Source        string         `db:"source"`
	Payload       []byte         `db:"payload"`
	Status        string         `db:"status"`
	StatusMessage sql.NullString `db:"status_message"`
}

// snapshotPayload is the jsonb shape: just the parsed records, the
// rest lives in real columns.
type snapshotPayload struct {
	Fixtures  []snapshot.Fixture  `json:"fixtures"`
	Standings []snapshot.Standing `json:"standings"`
}

func encodeSnapshotPayload(snap *snapshot.Snapshot) ([]byte, error) {
	payload := snapshotPayload{
		Fixtures:  snap.Fixtures,
		Standings: snap.Standings,
	}
	if payload.Fixtures == nil {
		payload.Fixtures = []snapshot.Fixture{}
	}
	if payload.Standings == nil {
		payload.Standings = []snapshot.Standing{}
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot payload: %w", err)
	}
	return raw, nil
}

func mapSnapshotRow(row snapshotTableModel) (*snapshot.Snapshot, error) {
	var payload snapshotPayload
	if len(row.Payload) > 0 {
		if err := sonic.Unmarshal(row.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode snapshot payload: %w", err)
		}
	}
	return &snapshot.Snapshot{
		ID:            row.PublicID,
		SeasonID:      row.SeasonID,
		FetchedAt:     row.FetchedAt,
		Source:        row.Source,
		Fixtures:      payload.Fixtures,
		Standings:     payload.Standings,
		Status:        row.Status,
		StatusMessage: row.StatusMessage.String,
	}, nil
}
