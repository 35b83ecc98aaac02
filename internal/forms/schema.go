package forms

import (
	"unicode"

	"contentadmin/internal/models"
)

// Kind — тип поля формы. От него зависят валидация и кодирование в payload.
type Kind int

const (
	KindText Kind = iota
	KindLocalized
	KindNumber
	KindBool
	KindRelation
	KindRelationList
	KindMedia
	KindMediaList
	KindTags
	KindItems
)

// Field описывает одно поле сущности.
type Field struct {
	Name     string
	Kind     Kind
	Required bool

	// Positive — число должно быть > 0 (цена, длительность).
	Positive bool
	// HTML — локализованный rich-text, санитизируется перед отправкой.
	HTML bool
	// Options — допустимые значения текстового поля-перечисления.
	Options []string
	// Existing — ключ multipart для уже сохранённых URL (по умолчанию existing<Name>).
	Existing string
	// SlugFrom — локализованное поле, из которого генерируется пустой slug.
	SlugFrom string
	// Lookup — коллекция, в которой должен существовать id связи (categories, blogs...).
	Lookup string
	// Item — схема элемента повторяемого блока (FAQ, оглавление, программа курса).
	Item []Field
}

// ExistingKey — имя multipart-поля для уже загруженных URL.
func (f Field) ExistingKey() string {
	if f.Existing != "" {
		return f.Existing
	}
	if f.Name == "" {
		return ""
	}
	r := []rune(f.Name)
	r[0] = unicode.ToUpper(r[0])
	return "existing" + string(r)
}

// Schema — описание формы сущности: набор языков и поля в порядке отображения.
type Schema struct {
	Entity    string
	Languages models.LanguageSet
	Fields    []Field
}

func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func subField(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

