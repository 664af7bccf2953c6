package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"curricula/internal/domain"
)

// OutlineVersionRepository читает историю публикаций. Запись в историю
// происходит только внутри транзакции публикации (см. TopicRepository).
type OutlineVersionRepository struct {
	db *sqlx.DB
}

func NewOutlineVersionRepository(db *sqlx.DB) *OutlineVersionRepository {
	return &OutlineVersionRepository{db: db}
}

func (r *OutlineVersionRepository) ListByTopic(ctx context.Context, topicID uuid.UUID, schema domain.SchemaVersion) ([]domain.OutlineVersion, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var versions []domain.OutlineVersion
	query := `
        SELECT * FROM lesson_outline_versions
        WHERE topic_id = $1 AND schema_version = $2
        ORDER BY version DESC`

	err := r.db.SelectContext(ctx, &versions, query, topicID, int(schema))
	if err != nil {
		return nil, fmt.Errorf("failed to list outline versions: %w", err)
	}

	return versions, nil
}
