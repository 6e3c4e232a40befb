package postgres

import (
	"database/sql"
	"time"
)

type seasonTableModel struct {
	ID                 int64          `db:"id"`
	PublicID           string         `db:"public_id"`
	Slug               string         `db:"slug"`
	Name               string         `db:"name"`
	TeamName           sql.NullString `db:"team_name"`
	SourceURLFixtures  sql.NullString `db:"source_url_fixtures"`
	SourceURLResults   sql.NullString `db:"source_url_results"`
	SourceURLStandings sql.NullString `db:"source_url_standings"`
	IsActive           bool           `db:"is_active"`
	CreatedAt          time.Time      `db:"created_at"`
}
