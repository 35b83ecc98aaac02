package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"contentadmin/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrUnknownField = errors.New("неизвестное поле формы")

// Item — элемент повторяемого блока (вопрос FAQ, пункт оглавления...).
type Item map[string]any

// State — состояние формы редактируемой сущности.
// Значения хранятся в каноническом виде по типу поля:
//
//	KindText, KindRelation  -> string
//	KindLocalized           -> models.LocalizedString
//	KindNumber              -> string (сырой ввод, парсится при сборке payload)
//	KindBool                -> bool
//	KindRelationList, Tags  -> []string
//	KindMedia               -> models.MediaReference
//	KindMediaList           -> []models.MediaReference
//	KindItems               -> []Item
type State struct {
	schema *Schema
	values map[string]any

	CurrentTag string
	Loading    bool
	Errors     validation.Errors
}

// NewState — пустая форма "новой сущности" со значениями по умолчанию.
func NewState(schema *Schema) *State {
	st := &State{schema: schema, values: make(map[string]any, len(schema.Fields))}
	for _, f := range schema.Fields {
		st.values[f.Name] = zeroValue(schema.Languages, f)
	}
	return st
}

// FromRecord строит форму редактирования из записи бэкенда: служебные поля
// отбрасываются, локализованные значения нормализуются к набору языков.
func FromRecord(schema *Schema, raw map[string]any) *State {
	st := NewState(schema)
	for _, f := range schema.Fields {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			continue
		}
		st.values[f.Name] = coerce(schema.Languages, f, v)
	}
	return st
}

func (s *State) Schema() *Schema { return s.schema }

// Merge — поверхностное слияние значений (аналог setState({...prev, ...patch})).
func (s *State) Merge(patch map[string]any) error {
	for name, v := range patch {
		f, ok := s.schema.Field(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		s.values[name] = coerce(s.schema.Languages, f, v)
	}
	return nil
}

// Values — копия значений в каноническом виде.
func (s *State) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *State) Value(name string) any { return s.values[name] }

func (s *State) field(name string, kinds ...Kind) (Field, error) {
	f, ok := s.schema.Field(name)
	if !ok {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	for _, k := range kinds {
		if f.Kind == k {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("поле %s имеет другой тип", name)
}

// --- геттеры ---

func (s *State) Localized(name string) models.LocalizedString {
	v, _ := s.values[name].(models.LocalizedString)
	return v
}

func (s *State) Text(name string) string {
	v, _ := s.values[name].(string)
	return v
}

// Number — число из сырого ввода; пустая строка и NaN дают 0.
func (s *State) Number(name string) float64 {
	return ParseNumber(s.Text(name))
}

func (s *State) Bool(name string) bool {
	v, _ := s.values[name].(bool)
	return v
}

func (s *State) Strings(name string) []string {
	v, _ := s.values[name].([]string)
	return v
}

func (s *State) Media(name string) models.MediaReference {
	v, _ := s.values[name].(models.MediaReference)
	return v
}

func (s *State) MediaList(name string) []models.MediaReference {
	v, _ := s.values[name].([]models.MediaReference)
	return v
}

func (s *State) Items(name string) []Item {
	v, _ := s.values[name].([]Item)
	return v
}

// --- сеттеры ---

func (s *State) SetLocalized(name, lang, value string) error {
	if _, err := s.field(name, KindLocalized); err != nil {
		return err
	}
	if !s.schema.Languages.Has(lang) {
		return fmt.Errorf("язык %s не поддерживается формой %s", lang, s.schema.Entity)
	}
	cur := s.Localized(name).Normalize(s.schema.Languages)
	cur[lang] = value
	s.values[name] = cur
	return nil
}

func (s *State) SetText(name, value string) error {
	if _, err := s.field(name, KindText, KindRelation, KindNumber); err != nil {
		return err
	}
	s.values[name] = value
	return nil
}

func (s *State) SetBool(name string, value bool) error {
	if _, err := s.field(name, KindBool); err != nil {
		return err
	}
	s.values[name] = value
	return nil
}

func (s *State) SetRelations(name string, ids []string) error {
	if _, err := s.field(name, KindRelationList); err != nil {
		return err
	}
	s.values[name] = append([]string(nil), ids...)
	return nil
}

// SetMedia заменяет значение медиа-поля; новое представление вытесняет прежнее.
func (s *State) SetMedia(name string, m models.MediaReference) error {
	if _, err := s.field(name, KindMedia); err != nil {
		return err
	}
	s.values[name] = m
	return nil
}

func (s *State) AddMedia(name string, m models.MediaReference) error {
	if _, err := s.field(name, KindMediaList); err != nil {
		return err
	}
	if m.IsZero() {
		return nil
	}
	s.values[name] = append(s.MediaList(name), m)
	return nil
}

// AddTag добавляет тег; пустые и повторяющиеся отклоняются.
func (s *State) AddTag(name, tag string) bool {
	if _, err := s.field(name, KindTags); err != nil {
		return false
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	tags := s.Strings(name)
	for _, t := range tags {
		if t == tag {
			return false
		}
	}
	s.values[name] = append(append([]string(nil), tags...), tag)
	return true
}

// CommitTag переносит набираемый тег в список и очищает ввод.
func (s *State) CommitTag(name string) bool {
	if s.AddTag(name, s.CurrentTag) {
		s.CurrentTag = ""
		return true
	}
	return false
}

func (s *State) RemoveTag(name, tag string) {
	tags := s.Strings(name)
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	s.values[name] = out
}

// AddItem добавляет пустой элемент повторяемого блока и возвращает его индекс.
func (s *State) AddItem(name string) (int, error) {
	f, err := s.field(name, KindItems)
	if err != nil {
		return -1, err
	}
	item := Item{}
	for _, sf := range f.Item {
		item[sf.Name] = zeroValue(s.schema.Languages, sf)
	}
	items := append(s.Items(name), item)
	s.values[name] = items
	return len(items) - 1, nil
}

// SetItem выставляет значение подполя элемента.
func (s *State) SetItem(name string, idx int, sub string, value any) error {
	f, err := s.field(name, KindItems)
	if err != nil {
		return err
	}
	sf, ok := subField(f.Item, sub)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, name, sub)
	}
	items := s.Items(name)
	if idx < 0 || idx >= len(items) {
		return fmt.Errorf("индекс %d вне диапазона", idx)
	}
	items[idx][sub] = coerce(s.schema.Languages, sf, value)
	return nil
}

func (s *State) SetItemLocalized(name string, idx int, sub, lang, value string) error {
	items := s.Items(name)
	if idx < 0 || idx >= len(items) {
		return fmt.Errorf("индекс %d вне диапазона", idx)
	}
	cur, _ := items[idx][sub].(models.LocalizedString)
	next := cur.Normalize(s.schema.Languages)
	next[lang] = value
	return s.SetItem(name, idx, sub, next)
}

func (s *State) RemoveItem(name string, idx int) error {
	if _, err := s.field(name, KindItems); err != nil {
		return err
	}
	items := s.Items(name)
	if idx < 0 || idx >= len(items) {
		return fmt.Errorf("индекс %d вне диапазона", idx)
	}
	out := append([]Item(nil), items[:idx]...)
	s.values[name] = append(out, items[idx+1:]...)
	return nil
}

// MoveItem переставляет элемент (кнопки "вверх"/"вниз").
func (s *State) MoveItem(name string, from, to int) error {
	if _, err := s.field(name, KindItems); err != nil {
		return err
	}
	items := append([]Item(nil), s.Items(name)...)
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return fmt.Errorf("перемещение %d -> %d вне диапазона", from, to)
	}
	it := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]Item{it}, items[to:]...)...)
	s.values[name] = items
	return nil
}

// Snapshot сериализует значения формы (для черновиков). Файлы уходят как data: URL.
func (s *State) Snapshot() ([]byte, error) {
	return json.Marshal(s.values)
}

// Restore восстанавливает форму из Snapshot.
func Restore(schema *Schema, data []byte) (*State, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("разбор черновика: %w", err)
	}
	return FromRecord(schema, raw), nil
}

// ParseNumber разбирает ввод числового поля; пусто или не число -> 0.
func ParseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func zeroValue(langs models.LanguageSet, f Field) any {
	switch f.Kind {
	case KindLocalized:
		return models.NewLocalized(langs)
	case KindBool:
		return false
	case KindRelationList, KindTags:
		return []string{}
	case KindMedia:
		return models.MediaReference{}
	case KindMediaList:
		return []models.MediaReference{}
	case KindItems:
		return []Item{}
	default:
		return ""
	}
}

// coerce приводит значение из JSON, multipart или кода к каноническому виду поля.
// Структурные поля принимают и JSON-строку (так они приходят в multipart).
func coerce(langs models.LanguageSet, f Field, v any) any {
	if str, ok := v.(string); ok && isStructured(f.Kind) {
		trimmed := strings.TrimSpace(str)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var decoded any
			if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
				v = decoded
			}
		}
	}

	switch f.Kind {
	case KindLocalized:
		return models.LocalizedFromAny(v).Normalize(langs)
	case KindNumber:
		return numberString(v)
	case KindBool:
		return toBool(v)
	case KindRelation:
		return refID(v)
	case KindRelationList, KindTags:
		return stringList(v, f.Kind == KindRelationList)
	case KindMedia:
		return toMedia(v)
	case KindMediaList:
		return mediaList(v)
	case KindItems:
		return itemList(langs, f, v)
	default:
		return toString(v)
	}
}

func isStructured(k Kind) bool {
	switch k {
	case KindLocalized, KindRelationList, KindTags, KindMediaList, KindItems:
		return true
	}
	return false
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func numberString(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	default:
		return strings.TrimSpace(toString(v))
	}
}

func toBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(x))
		return b
	default:
		return false
	}
}

// refID — бэкенд иногда возвращает связь "развёрнутой" ({_id, name}).
func refID(v any) string {
	switch x := v.(type) {
	case map[string]any:
		if id, ok := x["_id"].(string); ok {
			return id
		}
		if id, ok := x["id"].(string); ok {
			return id
		}
		return ""
	default:
		return strings.TrimSpace(toString(v))
	}
}

func stringList(v any, refs bool) []string {
	out := []string{}
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch x := v.(type) {
	case []string:
		for _, s := range x {
			add(s)
		}
	case []any:
		for _, e := range x {
			if refs {
				add(refID(e))
			} else {
				add(toString(e))
			}
		}
	case string:
		for _, s := range strings.Split(x, ",") {
			add(s)
		}
	}
	return out
}

func toMedia(v any) models.MediaReference {
	switch x := v.(type) {
	case models.MediaReference:
		return x
	case *models.File:
		return models.MediaFromFile(x)
	case string:
		return models.ParseMedia(x)
	default:
		return models.MediaReference{}
	}
}

func mediaList(v any) []models.MediaReference {
	out := []models.MediaReference{}
	switch x := v.(type) {
	case []models.MediaReference:
		for _, m := range x {
			if !m.IsZero() {
				out = append(out, m)
			}
		}
	case []string:
		for _, s := range x {
			if m := models.ParseMedia(s); !m.IsZero() {
				out = append(out, m)
			}
		}
	case []any:
		for _, e := range x {
			if m := toMedia(e); !m.IsZero() {
				out = append(out, m)
			}
		}
	case string, models.MediaReference:
		if m := toMedia(x); !m.IsZero() {
			out = append(out, m)
		}
	}
	return out
}

func itemList(langs models.LanguageSet, f Field, v any) []Item {
	out := []Item{}
	var raw []map[string]any
	switch x := v.(type) {
	case []Item:
		for _, it := range x {
			raw = append(raw, map[string]any(it))
		}
	case []map[string]any:
		raw = x
	case []any:
		for _, e := range x {
			if m, ok := e.(map[string]any); ok {
				raw = append(raw, m)
			}
		}
	}
	for _, m := range raw {
		item := Item{}
		for _, sf := range f.Item {
			if val, ok := m[sf.Name]; ok && val != nil {
				item[sf.Name] = coerce(langs, sf, val)
			} else {
				item[sf.Name] = zeroValue(langs, sf)
			}
		}
		out = append(out, item)
	}
	return out
}
