package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"curricula/internal/domain"
)

type UnitRepository struct {
	db *sqlx.DB
}

func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) List(ctx context.Context, opts domain.UnitListOptions) ([]domain.Unit, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	query := `SELECT * FROM curriculum_units`

	var conditions []string
	var args []interface{}

	if opts.ContentArea != "" {
		args = append(args, opts.ContentArea)
		conditions = append(conditions, fmt.Sprintf("content_area = $%d", len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		conditions = append(conditions, fmt.Sprintf("unit_title ILIKE $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, opts.Limit)
	query += fmt.Sprintf(" ORDER BY unit_title LIMIT $%d", len(args))
	args = append(args, opts.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	units := make([]domain.Unit, 0)
	if err := r.db.SelectContext(ctx, &units, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	return units, nil
}

// ListContentAreas возвращает различные непустые предметные области.
func (r *UnitRepository) ListContentAreas(ctx context.Context, limit, offset int, search string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	query := `
        SELECT DISTINCT content_area FROM curriculum_units
        WHERE content_area IS NOT NULL`

	var args []interface{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND content_area ILIKE $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY content_area LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	areas := make([]string, 0)
	if err := r.db.SelectContext(ctx, &areas, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list content areas: %w", err)
	}

	return areas, nil
}
