package domain

import "errors"

// Ошибки уровня домена. Хендлеры отображают их в HTTP-статусы через errors.Is.
var (
	ErrTopicNotFound    = errors.New("topic not found")
	ErrNoDraftToPublish = errors.New("no draft to publish")
	ErrMissingTopicID   = errors.New("topic_id required")
	ErrInvalidTopicID   = errors.New("invalid topic_id")
	ErrInvalidDraft     = errors.New("draft object required (or set publish:true)")
	ErrBadSchemaVersion = errors.New("schema_version must be 1 or 2")
	// ErrVersionConflict означает, что параллельная публикация успела
	// сдвинуть счётчик версий между чтением и условным обновлением.
	ErrVersionConflict = errors.New("outline version conflict")
)
