package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"curricula/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// TopicStore — чтение тем для страниц каталога.
type TopicStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error)
	List(ctx context.Context, opts domain.TopicListOptions) ([]domain.TopicSummary, error)
}

type UnitStore interface {
	List(ctx context.Context, opts domain.UnitListOptions) ([]domain.Unit, error)
	ListContentAreas(ctx context.Context, limit, offset int, search string) ([]string, error)
}

type TopicService struct {
	topics TopicStore
	units  UnitStore
}

func NewTopicService(topics TopicStore, units UnitStore) *TopicService {
	return &TopicService{
		topics: topics,
		units:  units,
	}
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultListLimit
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}

func clampOffset(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func (s *TopicService) GetTopic(ctx context.Context, topicID string) (*domain.Topic, error) {
	id, err := parseTopicID(topicID)
	if err != nil {
		return nil, err
	}
	return s.topics.GetByID(ctx, id)
}

func (s *TopicService) ListTopics(ctx context.Context, opts domain.TopicListOptions) ([]domain.TopicSummary, error) {
	opts.Limit = clampLimit(opts.Limit)
	opts.Offset = clampOffset(opts.Offset)

	items, err := s.topics.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return items, nil
}

func (s *TopicService) ListUnits(ctx context.Context, opts domain.UnitListOptions) ([]domain.Unit, error) {
	opts.Limit = clampLimit(opts.Limit)
	opts.Offset = clampOffset(opts.Offset)

	units, err := s.units.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

func (s *TopicService) ListContentAreas(ctx context.Context, limit, offset int, search string) ([]string, error) {
	areas, err := s.units.ListContentAreas(ctx, clampLimit(limit), clampOffset(offset), search)
	if err != nil {
		return nil, fmt.Errorf("failed to list content areas: %w", err)
	}
	return areas, nil
}
