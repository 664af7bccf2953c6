package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UnitID     *uuid.UUID `json:"unit_id,omitempty" db:"unit_id"`
	TopicTitle string     `json:"topic_title" db:"topic_title"`
	Topic      *string    `json:"topic,omitempty" db:"topic"`
	// Поля с конспектами — указатели: колонки nullable,
	// а NULL не сканируется в голый json.RawMessage.
	LessonCore *json.RawMessage `json:"lesson_core,omitempty" db:"lesson_core"`

	// Схема v1
	LessonOutline        *json.RawMessage `json:"lesson_outline,omitempty" db:"lesson_outline"`
	LessonOutlineDraft   *json.RawMessage `json:"lesson_outline_draft,omitempty" db:"lesson_outline_draft"`
	LessonOutlineVersion int              `json:"lesson_outline_version" db:"lesson_outline_version"`
	ReLessonOutlines     *json.RawMessage `json:"re_lesson_outlines,omitempty" db:"re_lesson_outlines"`

	// Схема v2
	LessonOutlineV2        *json.RawMessage `json:"lesson_outline_v2,omitempty" db:"lesson_outline_v2"`
	LessonOutlineV2Draft   *json.RawMessage `json:"lesson_outline_v2_draft,omitempty" db:"lesson_outline_v2_draft"`
	LessonOutlineV2Version int              `json:"lesson_outline_v2_version" db:"lesson_outline_v2_version"`

	LessonOutlineUpdatedBy *string    `json:"lesson_outline_updated_by,omitempty" db:"lesson_outline_updated_by"`
	LessonOutlineUpdatedAt *time.Time `json:"lesson_outline_updated_at,omitempty" db:"lesson_outline_updated_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OutlineState — срез темы по одной версии схемы: черновик,
// опубликованный вариант и текущий счётчик версий.
type OutlineState struct {
	Draft     json.RawMessage
	Published json.RawMessage
	Version   int
}

// TopicSummary — элемент списка тем для страниц каталога.
type TopicSummary struct {
	ID        uuid.UUID  `json:"id"`
	Topic     *string    `json:"topic"`
	Published bool       `json:"published"`
	UnitID    *uuid.UUID `json:"unit_id"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// TopicListOptions — фильтры каталога тем. Limit уже нормализован сервисом.
type TopicListOptions struct {
	Limit         int
	Offset        int
	Search        string
	UnitID        *uuid.UUID
	IncludeDrafts bool
}

// UnitListOptions — фильтры списка разделов.
type UnitListOptions struct {
	Limit       int
	Offset      int
	Search      string
	ContentArea string
}

type Unit struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ContentArea *string   `json:"content_area,omitempty" db:"content_area"`
	UnitTitle   string    `json:"unit_title" db:"unit_title"`
	UnitSummary *string   `json:"unit_summary,omitempty" db:"unit_summary"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// IsJSONObject проверяет, что сырой JSON — именно объект,
// а не null, массив или скаляр.
func IsJSONObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
