package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clubkit/league-sync/internal/domain/season"
	qb "github.com/clubkit/league-sync/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	return r.list(ctx, nil)
}

func (r *SeasonRepository) ListActive(ctx context.Context) ([]season.Season, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("is_active", true)})
}

func (r *SeasonRepository) list(ctx context.Context, conditions []qb.Condition) ([]season.Season, error) {
	builder := qb.Select("*").From("seasons").OrderBy("is_active DESC", "created_at DESC", "id DESC")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapSeasonRow(row))
	}
	return out, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, id string) (*season.Season, error) {
	return r.getOne(ctx, "public_id", id)
}

func (r *SeasonRepository) GetBySlug(ctx context.Context, slug string) (*season.Season, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *SeasonRepository) getOne(ctx context.Context, column, value string) (*season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq(column, value)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.getOneLiteral(ctx, column, value)
		}
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select season: %w", err)
	}

	out := mapSeasonRow(row)
	return &out, nil
}

func (r *SeasonRepository) getOneLiteral(ctx context.Context, column, value string) (*season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.EqLiteral(column, value)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season literal fallback query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select season literal fallback: %w", err)
	}

	out := mapSeasonRow(row)
	return &out, nil
}

func mapSeasonRow(row seasonTableModel) season.Season {
	return season.Season{
		ID:                 row.PublicID,
		Slug:               row.Slug,
		Name:               row.Name,
		TeamName:           row.TeamName.String,
		SourceURLFixtures:  row.SourceURLFixtures.String,
		SourceURLResults:   row.SourceURLResults.String,
		SourceURLStandings: row.SourceURLStandings.String,
		IsActive:           row.IsActive,
		CreatedAt:          row.CreatedAt,
	}
}
