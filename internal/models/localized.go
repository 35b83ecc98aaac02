package models

import (
	"encoding/json"
	"strings"
)

// Коды языков, встречающиеся на платформе.
const (
	LangKA = "ka"
	LangEN = "en"
	LangRU = "ru"
)

// LanguageSet — набор языков сущности и язык, обязательный к заполнению.
type LanguageSet struct {
	Codes    []string `json:"codes"`
	Required string   `json:"required"`
}

var (
	// LangsENRU — рубрики, подрубрики, комплексы и упражнения.
	LangsENRU = LanguageSet{Codes: []string{LangEN, LangRU}, Required: LangEN}
	// LangsKAENRU — статьи, блоги, инструкторы.
	LangsKAENRU = LanguageSet{Codes: []string{LangKA, LangEN, LangRU}, Required: LangEN}
	// LangsKAFirst — курсы: грузинский обязателен.
	LangsKAFirst = LanguageSet{Codes: []string{LangKA, LangEN, LangRU}, Required: LangKA}
)

func (s LanguageSet) Has(code string) bool {
	for _, c := range s.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// LocalizedString — значение поля на нескольких языках (код языка -> текст).
type LocalizedString map[string]string

// NewLocalized создаёт пустое значение со всеми языками набора.
func NewLocalized(set LanguageSet) LocalizedString {
	out := make(LocalizedString, len(set.Codes))
	for _, c := range set.Codes {
		out[c] = ""
	}
	return out
}

func (l LocalizedString) Get(code string) string {
	if l == nil {
		return ""
	}
	return l[code]
}

// Normalize возвращает копию, содержащую ровно языки набора:
// отсутствующие заполняются "", посторонние ключи отбрасываются.
func (l LocalizedString) Normalize(set LanguageSet) LocalizedString {
	out := make(LocalizedString, len(set.Codes))
	for _, c := range set.Codes {
		out[c] = l.Get(c)
	}
	return out
}

// Filled — заполнен ли язык после trim.
func (l LocalizedString) Filled(code string) bool {
	return strings.TrimSpace(l.Get(code)) != ""
}

// First возвращает значение на предпочтительном языке, иначе первое непустое.
func (l LocalizedString) First(preferred ...string) string {
	for _, c := range preferred {
		if l.Filled(c) {
			return l[c]
		}
	}
	for _, c := range []string{LangEN, LangKA, LangRU} {
		if l.Filled(c) {
			return l[c]
		}
	}
	return ""
}

// UnmarshalJSON принимает объект бэкенда и оставляет только строковые значения
// (бэкенд добавляет во вложенные объекты служебные поля вроде _id).
func (l *LocalizedString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = LocalizedFromAny(raw)
	return nil
}

// LocalizedFromAny приводит произвольное значение (map из JSON) к LocalizedString.
func LocalizedFromAny(v any) LocalizedString {
	out := LocalizedString{}
	switch m := v.(type) {
	case map[string]any:
		for k, val := range m {
			if strings.HasPrefix(k, "_") {
				continue
			}
			if s, ok := val.(string); ok {
				out[k] = s
			}
		}
	case map[string]string:
		for k, val := range m {
			if !strings.HasPrefix(k, "_") {
				out[k] = val
			}
		}
	case LocalizedString:
		for k, val := range m {
			out[k] = val
		}
	}
	return out
}
