package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"curricula/internal/domain"
)

// Явный таймаут на каждое обращение к базе: недоступное хранилище
// должно превращаться в ошибку, а не в зависший запрос.
const storeTimeout = 5 * time.Second

type TopicRepository struct {
	db *sqlx.DB
}

func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

func (r *TopicRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var topic domain.Topic
	err := r.db.GetContext(ctx, &topic, `SELECT * FROM topics WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	return &topic, nil
}

// GetOutlineState читает черновик, публикацию и счётчик версий
// для одной версии схемы.
func (r *TopicRepository) GetOutlineState(ctx context.Context, id uuid.UUID, schema domain.SchemaVersion) (*domain.OutlineState, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	cols := schema.Columns()
	query := fmt.Sprintf(
		`SELECT %s, %s, %s FROM topics WHERE id = $1`,
		cols.Draft, cols.Published, cols.Version,
	)

	// NULL в jsonb-колонках сканируем через []byte
	var draft, published []byte
	var version int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&draft, &published, &version)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to get outline state: %w", err)
	}

	return &domain.OutlineState{
		Draft:     draft,
		Published: published,
		Version:   version,
	}, nil
}

// SaveDraft перезаписывает черновик и аудит-поля. Публикацию и счётчик
// версий не трогает. Обновление нулевого числа строк считаем "not found",
// молчаливый no-op здесь недопустим.
func (r *TopicRepository) SaveDraft(ctx context.Context, id uuid.UUID, schema domain.SchemaVersion, draft json.RawMessage, identity string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	cols := schema.Columns()
	set := []string{
		fmt.Sprintf("%s = $1", cols.Draft),
		"lesson_outline_updated_by = $2",
		"lesson_outline_updated_at = CURRENT_TIMESTAMP",
		"updated_at = CURRENT_TIMESTAMP",
	}
	if cols.LegacyDraft != "" {
		// Для v1 зеркалим черновик в устаревшую колонку
		set = append(set, fmt.Sprintf("%s = $1", cols.LegacyDraft))
	}

	query := fmt.Sprintf(
		`UPDATE topics SET %s WHERE id = $3`,
		strings.Join(set, ", "),
	)

	result, err := r.db.ExecContext(ctx, query, []byte(draft), identity, id)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrTopicNotFound
	}

	return nil
}

// PublishOutline выполняет шаг публикации одной транзакцией: условное
// обновление опубликованного конспекта со сверкой ожидаемой версии плюс
// ровно одна строка истории. Либо происходит всё, либо ничего.
func (r *TopicRepository) PublishOutline(ctx context.Context, id uuid.UUID, schema domain.SchemaVersion, payload json.RawMessage, expectedVersion, newVersion int, identity string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cols := schema.Columns()
	query := fmt.Sprintf(
		`UPDATE topics
         SET %s = $1,
             %s = $2,
             lesson_outline_updated_by = $3,
             lesson_outline_updated_at = CURRENT_TIMESTAMP,
             updated_at = CURRENT_TIMESTAMP
         WHERE id = $4 AND %s = $5`,
		cols.Published, cols.Version, cols.Version,
	)

	result, err := tx.ExecContext(ctx, query, []byte(payload), newVersion, identity, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to publish outline: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		// Кто-то успел опубликовать между чтением и записью
		return domain.ErrVersionConflict
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO lesson_outline_versions (topic_id, version, outline, created_by, schema_version)
        VALUES ($1, $2, $3, $4, $5)`,
		id, newVersion, []byte(payload), identity, int(schema),
	)
	if err != nil {
		return fmt.Errorf("failed to insert outline version: %w", err)
	}

	return tx.Commit()
}

func (r *TopicRepository) List(ctx context.Context, opts domain.TopicListOptions) ([]domain.TopicSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	query := `
        SELECT id, topic_title, topic, lesson_outline IS NOT NULL AS published, unit_id, updated_at
        FROM topics`

	var conditions []string
	var args []interface{}

	if opts.UnitID != nil {
		args = append(args, *opts.UnitID)
		conditions = append(conditions, fmt.Sprintf("unit_id = $%d", len(args)))
	}
	if !opts.IncludeDrafts {
		conditions = append(conditions, "lesson_outline IS NOT NULL")
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		conditions = append(conditions, fmt.Sprintf("topic_title ILIKE $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, opts.Limit)
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d", len(args))
	args = append(args, opts.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	items := make([]domain.TopicSummary, 0)
	for rows.Next() {
		var item domain.TopicSummary
		var title sql.NullString
		if err := rows.Scan(&item.ID, &title, &item.Topic, &item.Published, &item.UnitID, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		// Страницы каталога показывают topic_title, а topic — запасной вариант
		if title.Valid && title.String != "" {
			item.Topic = &title.String
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate topic rows: %w", err)
	}

	return items, nil
}
