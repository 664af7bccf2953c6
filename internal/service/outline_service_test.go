package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"curricula/internal/domain"
)

// outlineState — состояние одной пары колонок в фейковом хранилище.
type outlineState struct {
	draft     json.RawMessage
	published json.RawMessage
	version   int
}

type fakeTopicStore struct {
	topics  map[uuid.UUID]map[domain.SchemaVersion]*outlineState
	history []domain.OutlineVersion

	// Сколько раз PublishOutline имитирует параллельную публикацию:
	// сдвигает версию и возвращает конфликт.
	injectConflicts int

	saveCalls    int
	publishCalls int
	lastIdentity string
}

func newFakeTopicStore() *fakeTopicStore {
	return &fakeTopicStore{topics: map[uuid.UUID]map[domain.SchemaVersion]*outlineState{}}
}

func (f *fakeTopicStore) addTopic(id uuid.UUID) {
	f.topics[id] = map[domain.SchemaVersion]*outlineState{
		domain.SchemaV1: {},
		domain.SchemaV2: {},
	}
}

func (f *fakeTopicStore) state(id uuid.UUID, schema domain.SchemaVersion) *outlineState {
	if states, ok := f.topics[id]; ok {
		return states[schema]
	}
	return nil
}

func (f *fakeTopicStore) GetOutlineState(_ context.Context, id uuid.UUID, schema domain.SchemaVersion) (*domain.OutlineState, error) {
	st := f.state(id, schema)
	if st == nil {
		return nil, domain.ErrTopicNotFound
	}
	return &domain.OutlineState{
		Draft:     st.draft,
		Published: st.published,
		Version:   st.version,
	}, nil
}

func (f *fakeTopicStore) SaveDraft(_ context.Context, id uuid.UUID, schema domain.SchemaVersion, draft json.RawMessage, identity string) error {
	f.saveCalls++
	st := f.state(id, schema)
	if st == nil {
		return domain.ErrTopicNotFound
	}
	st.draft = draft
	f.lastIdentity = identity
	return nil
}

func (f *fakeTopicStore) PublishOutline(_ context.Context, id uuid.UUID, schema domain.SchemaVersion, payload json.RawMessage, expectedVersion, newVersion int, identity string) error {
	f.publishCalls++
	st := f.state(id, schema)
	if st == nil {
		return domain.ErrTopicNotFound
	}
	if f.injectConflicts > 0 {
		f.injectConflicts--
		st.version++
		return domain.ErrVersionConflict
	}
	if st.version != expectedVersion {
		return domain.ErrVersionConflict
	}
	st.published = payload
	st.version = newVersion
	f.lastIdentity = identity
	f.history = append(f.history, domain.OutlineVersion{
		TopicID:       id,
		Version:       newVersion,
		Outline:       payload,
		CreatedBy:     identity,
		SchemaVersion: int(schema),
	})
	return nil
}

type fakeVersionStore struct {
	store *fakeTopicStore
}

func (f *fakeVersionStore) ListByTopic(_ context.Context, topicID uuid.UUID, schema domain.SchemaVersion) ([]domain.OutlineVersion, error) {
	var out []domain.OutlineVersion
	for i := len(f.store.history) - 1; i >= 0; i-- {
		v := f.store.history[i]
		if v.TopicID == topicID && v.SchemaVersion == int(schema) {
			out = append(out, v)
		}
	}
	return out, nil
}

func newTestService() (*OutlineService, *fakeTopicStore, uuid.UUID) {
	store := newFakeTopicStore()
	id := uuid.New()
	store.addTopic(id)
	return NewOutlineService(store, &fakeVersionStore{store: store}), store, id
}

func TestSaveDraftDoesNotTouchPublished(t *testing.T) {
	svc, store, id := newTestService()

	st := store.state(id, domain.SchemaV2)
	st.published = json.RawMessage(`{"old":true}`)
	st.version = 3

	result, err := svc.SaveDraft(context.Background(), id.String(), 2, json.RawMessage(`{"foo":"bar"}`), "admin")
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if result.Mode != "draft" {
		t.Fatalf("mode = %q, want %q", result.Mode, "draft")
	}
	if result.SchemaVersion != domain.SchemaV2 {
		t.Fatalf("schema version = %d, want 2", result.SchemaVersion)
	}

	if !bytes.Equal(st.draft, json.RawMessage(`{"foo":"bar"}`)) {
		t.Fatalf("draft = %s, want saved payload", st.draft)
	}
	if !bytes.Equal(st.published, json.RawMessage(`{"old":true}`)) {
		t.Fatalf("published changed by SaveDraft: %s", st.published)
	}
	if st.version != 3 {
		t.Fatalf("version changed by SaveDraft: %d", st.version)
	}
}

func TestSaveDraftValidation(t *testing.T) {
	svc, store, id := newTestService()

	tests := []struct {
		name    string
		topicID string
		schema  int
		draft   json.RawMessage
		wantErr error
	}{
		{"missing topic id", "", 1, json.RawMessage(`{}`), domain.ErrMissingTopicID},
		{"bad topic id", "not-a-uuid", 1, json.RawMessage(`{}`), domain.ErrInvalidTopicID},
		{"bad schema version", id.String(), 3, json.RawMessage(`{}`), domain.ErrBadSchemaVersion},
		{"nil draft", id.String(), 1, nil, domain.ErrInvalidDraft},
		{"scalar draft", id.String(), 1, json.RawMessage(`"not an object"`), domain.ErrInvalidDraft},
		{"array draft", id.String(), 1, json.RawMessage(`[1,2]`), domain.ErrInvalidDraft},
		{"null draft", id.String(), 1, json.RawMessage(`null`), domain.ErrInvalidDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveDraft(context.Background(), tt.topicID, tt.schema, tt.draft, "admin")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SaveDraft() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if store.saveCalls != 0 {
		t.Fatalf("store was written %d times on invalid input", store.saveCalls)
	}
}

func TestSaveDraftUnknownTopic(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SaveDraft(context.Background(), uuid.NewString(), 1, json.RawMessage(`{}`), "admin")
	if !errors.Is(err, domain.ErrTopicNotFound) {
		t.Fatalf("SaveDraft() error = %v, want %v", err, domain.ErrTopicNotFound)
	}
}

func TestPublishPromotesDraft(t *testing.T) {
	svc, store, id := newTestService()

	draft := json.RawMessage(`{"foo":"bar"}`)
	if _, err := svc.SaveDraft(context.Background(), id.String(), 2, draft, "admin"); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	result, err := svc.Publish(context.Background(), id.String(), 2, "admin")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if result.Mode != "published" {
		t.Fatalf("mode = %q, want %q", result.Mode, "published")
	}
	if result.Version != 1 {
		t.Fatalf("version = %d, want 1", result.Version)
	}

	st := store.state(id, domain.SchemaV2)
	if !bytes.Equal(st.published, draft) {
		t.Fatalf("published = %s, want %s", st.published, draft)
	}
	if len(store.history) != 1 {
		t.Fatalf("history rows = %d, want 1", len(store.history))
	}
	if !bytes.Equal(store.history[0].Outline, draft) {
		t.Fatalf("history outline = %s, want %s", store.history[0].Outline, draft)
	}
}

func TestPublishVersionMonotonicity(t *testing.T) {
	svc, store, id := newTestService()

	if _, err := svc.SaveDraft(context.Background(), id.String(), 1, json.RawMessage(`{"n":1}`), "admin"); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	prev := 0
	for i := 0; i < 5; i++ {
		result, err := svc.Publish(context.Background(), id.String(), 1, "admin")
		if err != nil {
			t.Fatalf("Publish() #%d error = %v", i+1, err)
		}
		if result.Version != prev+1 {
			t.Fatalf("Publish() #%d version = %d, want %d", i+1, result.Version, prev+1)
		}
		prev = result.Version
	}

	if len(store.history) != 5 {
		t.Fatalf("history rows = %d, want 5", len(store.history))
	}
}

func TestPublishFallsBackToPublished(t *testing.T) {
	// Нет нового черновика — публикация повторно снимает слепок
	// с уже опубликованного значения.
	svc, store, id := newTestService()

	st := store.state(id, domain.SchemaV1)
	st.published = json.RawMessage(`{"same":"content"}`)
	st.version = 7

	for i := 0; i < 2; i++ {
		result, err := svc.Publish(context.Background(), id.String(), 1, "admin")
		if err != nil {
			t.Fatalf("Publish() #%d error = %v", i+1, err)
		}
		if result.Version != 8+i {
			t.Fatalf("Publish() #%d version = %d, want %d", i+1, result.Version, 8+i)
		}
	}

	if len(store.history) != 2 {
		t.Fatalf("history rows = %d, want 2", len(store.history))
	}
	if !bytes.Equal(store.history[0].Outline, store.history[1].Outline) {
		t.Fatal("re-published history rows should carry identical outline")
	}
	if store.history[0].Version == store.history[1].Version {
		t.Fatal("re-published history rows should carry distinct versions")
	}
}

func TestPublishNothingToPublish(t *testing.T) {
	svc, store, id := newTestService()

	_, err := svc.Publish(context.Background(), id.String(), 1, "admin")
	if !errors.Is(err, domain.ErrNoDraftToPublish) {
		t.Fatalf("Publish() error = %v, want %v", err, domain.ErrNoDraftToPublish)
	}

	if store.state(id, domain.SchemaV1).version != 0 {
		t.Fatal("version must not change when there is nothing to publish")
	}
	if len(store.history) != 0 {
		t.Fatal("history must stay empty when there is nothing to publish")
	}
}

func TestPublishSchemaIsolation(t *testing.T) {
	svc, store, id := newTestService()

	v2 := store.state(id, domain.SchemaV2)
	v2.published = json.RawMessage(`{"v2":true}`)
	v2.version = 4

	if _, err := svc.SaveDraft(context.Background(), id.String(), 1, json.RawMessage(`{"v1":true}`), "admin"); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if _, err := svc.Publish(context.Background(), id.String(), 1, "admin"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if !bytes.Equal(v2.published, json.RawMessage(`{"v2":true}`)) {
		t.Fatalf("v2 published mutated by v1 operations: %s", v2.published)
	}
	if v2.version != 4 {
		t.Fatalf("v2 version mutated by v1 operations: %d", v2.version)
	}
	if v2.draft != nil {
		t.Fatalf("v2 draft mutated by v1 operations: %s", v2.draft)
	}
}

func TestPublishRetriesOnConflict(t *testing.T) {
	svc, store, id := newTestService()

	st := store.state(id, domain.SchemaV1)
	st.draft = json.RawMessage(`{"x":1}`)

	// Одна параллельная публикация между чтением и записью
	store.injectConflicts = 1

	result, err := svc.Publish(context.Background(), id.String(), 1, "admin")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	// Конфликт сдвинул версию до 1, повторное чтение публикует поверх неё
	if result.Version != 2 {
		t.Fatalf("version = %d, want 2", result.Version)
	}
	if store.publishCalls != 2 {
		t.Fatalf("publish attempts = %d, want 2", store.publishCalls)
	}
}

func TestPublishConflictExhaustsRetries(t *testing.T) {
	svc, store, id := newTestService()

	st := store.state(id, domain.SchemaV1)
	st.draft = json.RawMessage(`{"x":1}`)

	store.injectConflicts = publishRetries + 1

	_, err := svc.Publish(context.Background(), id.String(), 1, "admin")
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("Publish() error = %v, want %v", err, domain.ErrVersionConflict)
	}
	if store.publishCalls != publishRetries {
		t.Fatalf("publish attempts = %d, want %d", store.publishCalls, publishRetries)
	}
}

func TestListVersionsNewestFirst(t *testing.T) {
	svc, _, id := newTestService()

	if _, err := svc.SaveDraft(context.Background(), id.String(), 1, json.RawMessage(`{"a":1}`), "admin"); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.Publish(context.Background(), id.String(), 1, "admin"); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	versions, err := svc.ListVersions(context.Background(), id.String(), 1)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("versions = %d, want 3", len(versions))
	}
	for i := 0; i < len(versions)-1; i++ {
		if versions[i].Version <= versions[i+1].Version {
			t.Fatalf("versions not sorted newest first: %d then %d", versions[i].Version, versions[i+1].Version)
		}
	}
}
