package domain

// SchemaVersion выбирает, с какой парой колонок черновик/публикация/версия
// работают SaveDraft и Publish. Это статический селектор, не состояние.
type SchemaVersion int

const (
	SchemaV1 SchemaVersion = 1
	SchemaV2 SchemaVersion = 2
)

// OutlineColumns описывает набор колонок таблицы topics для одной версии схемы.
// Имена колонок берутся только из этой таблицы и никогда из запроса,
// поэтому подстановка их в SQL безопасна.
type OutlineColumns struct {
	Draft     string
	Published string
	Version   string
	// LegacyDraft заполнен только для v1: старые страницы просмотра
	// читают черновик из re_lesson_outlines, поэтому SaveDraft пишет и туда.
	LegacyDraft string
}

var outlineColumns = map[SchemaVersion]OutlineColumns{
	SchemaV1: {
		Draft:       "lesson_outline_draft",
		Published:   "lesson_outline",
		Version:     "lesson_outline_version",
		LegacyDraft: "re_lesson_outlines",
	},
	SchemaV2: {
		Draft:     "lesson_outline_v2_draft",
		Published: "lesson_outline_v2",
		Version:   "lesson_outline_v2_version",
	},
}

// ParseSchemaVersion нормализует значение из запроса: 0 означает
// «не указано» и трактуется как v1.
func ParseSchemaVersion(n int) (SchemaVersion, error) {
	switch n {
	case 0, 1:
		return SchemaV1, nil
	case 2:
		return SchemaV2, nil
	default:
		return 0, ErrBadSchemaVersion
	}
}

// Columns возвращает дескриптор колонок для версии схемы.
func (v SchemaVersion) Columns() OutlineColumns {
	return outlineColumns[v]
}
