package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutlineVersion — строка истории публикаций. Таблица append-only:
// сервис её никогда не изменяет и не удаляет.
type OutlineVersion struct {
	ID            int64           `json:"id" db:"id"`
	TopicID       uuid.UUID       `json:"topic_id" db:"topic_id"`
	Version       int             `json:"version" db:"version"`
	Outline       json.RawMessage `json:"outline" db:"outline"`
	CreatedBy     string          `json:"created_by" db:"created_by"`
	SchemaVersion int             `json:"schema_version" db:"schema_version"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
