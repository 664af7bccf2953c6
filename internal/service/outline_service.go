package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"curricula/internal/domain"
)

// Сколько раз повторяем публикацию, если параллельный вызов успел
// сдвинуть счётчик версий. После — отдаём конфликт наружу.
const publishRetries = 3

// OutlineStore — то, что сервису нужно от хранилища тем.
type OutlineStore interface {
	GetOutlineState(ctx context.Context, id uuid.UUID, schema domain.SchemaVersion) (*domain.OutlineState, error)
	SaveDraft(ctx context.Context, id uuid.UUID, schema domain.SchemaVersion, draft json.RawMessage, identity string) error
	PublishOutline(ctx context.Context, id uuid.UUID, schema domain.SchemaVersion, payload json.RawMessage, expectedVersion, newVersion int, identity string) error
}

// VersionStore читает историю публикаций.
type VersionStore interface {
	ListByTopic(ctx context.Context, topicID uuid.UUID, schema domain.SchemaVersion) ([]domain.OutlineVersion, error)
}

type OutlineService struct {
	topics   OutlineStore
	versions VersionStore
}

func NewOutlineService(topics OutlineStore, versions VersionStore) *OutlineService {
	return &OutlineService{
		topics:   topics,
		versions: versions,
	}
}

// UpdateResult — итог SaveDraft или Publish для ответа клиенту.
type UpdateResult struct {
	Mode          string
	SchemaVersion domain.SchemaVersion
	Version       int
}

func parseTopicID(topicID string) (uuid.UUID, error) {
	if topicID == "" {
		return uuid.Nil, domain.ErrMissingTopicID
	}
	id, err := uuid.Parse(topicID)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidTopicID
	}
	return id, nil
}

// SaveDraft безусловно перезаписывает черновик выбранной версии схемы.
// Опубликованный конспект и счётчик версий не меняются.
func (s *OutlineService) SaveDraft(ctx context.Context, topicID string, schemaVersion int, draft json.RawMessage, identity string) (*UpdateResult, error) {
	id, err := parseTopicID(topicID)
	if err != nil {
		return nil, err
	}

	schema, err := domain.ParseSchemaVersion(schemaVersion)
	if err != nil {
		return nil, err
	}

	if len(draft) == 0 || !domain.IsJSONObject(draft) {
		return nil, domain.ErrInvalidDraft
	}

	if err := s.topics.SaveDraft(ctx, id, schema, draft, identity); err != nil {
		return nil, err
	}

	return &UpdateResult{Mode: "draft", SchemaVersion: schema}, nil
}

// Publish продвигает текущий черновик в опубликованный конспект. Если
// черновика нет, повторно снимается слепок с уже опубликованного значения.
// Счётчик версий растёт ровно на единицу за успешный вызов; сверка
// ожидаемой версии при записи не даёт двум публикациям затереть друг друга.
func (s *OutlineService) Publish(ctx context.Context, topicID string, schemaVersion int, identity string) (*UpdateResult, error) {
	id, err := parseTopicID(topicID)
	if err != nil {
		return nil, err
	}

	schema, err := domain.ParseSchemaVersion(schemaVersion)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= publishRetries; attempt++ {
		state, err := s.topics.GetOutlineState(ctx, id, schema)
		if err != nil {
			return nil, err
		}

		payload := state.Draft
		if len(payload) == 0 {
			payload = state.Published
		}
		if len(payload) == 0 {
			return nil, domain.ErrNoDraftToPublish
		}

		newVersion := state.Version + 1

		err = s.topics.PublishOutline(ctx, id, schema, payload, state.Version, newVersion, identity)
		if errors.Is(err, domain.ErrVersionConflict) {
			log.Printf("[OutlineService] Конфликт версий при публикации темы %s (схема %d), попытка %d/%d", id, schema, attempt, publishRetries)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to publish outline: %w", err)
		}

		return &UpdateResult{Mode: "published", SchemaVersion: schema, Version: newVersion}, nil
	}

	return nil, domain.ErrVersionConflict
}

// ListVersions возвращает историю публикаций темы, новые сверху.
func (s *OutlineService) ListVersions(ctx context.Context, topicID string, schemaVersion int) ([]domain.OutlineVersion, error) {
	id, err := parseTopicID(topicID)
	if err != nil {
		return nil, err
	}

	schema, err := domain.ParseSchemaVersion(schemaVersion)
	if err != nil {
		return nil, err
	}

	versions, err := s.versions.ListByTopic(ctx, id, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}

	return versions, nil
}
