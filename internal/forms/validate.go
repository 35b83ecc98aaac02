package forms

import (
	"fmt"
	"strconv"
	"strings"

	"contentadmin/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	errRequiredLang   = validation.NewError("validation_required_language", "обязательно для языка {{.lang}}")
	errRequired       = validation.NewError("validation_required", "обязательное поле")
	errRequiredList   = validation.NewError("validation_required_list", "выберите хотя бы одно значение")
	errNotNumber      = validation.NewError("validation_not_number", "должно быть числом")
	errNotPositive    = validation.NewError("validation_not_positive", "должно быть больше нуля")
	errMediaRequired  = validation.NewError("validation_media_required", "загрузите файл или укажите URL")
	errUnknownRelated = validation.NewError("validation_unknown_reference", "значение не найдено в справочнике")
)

// Lookups — id, загруженные из справочников, по имени коллекции (categories, blogs...).
type Lookups map[string]map[string]struct{}

func (l Lookups) Add(collection string, ids ...string) {
	set, ok := l[collection]
	if !ok {
		set = make(map[string]struct{}, len(ids))
		l[collection] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
}

func (l Lookups) has(collection, id string) (known, found bool) {
	set, ok := l[collection]
	if !ok {
		return false, false
	}
	_, found = set[id]
	return true, found
}

// Validate проверяет форму и возвращает карту "поле -> ошибка".
// Пустая карта означает, что форму можно отправлять. Функция чистая.
func Validate(st *State, lookups Lookups) validation.Errors {
	errs := validation.Errors{}
	schema := st.Schema()
	for _, f := range schema.Fields {
		if err := validation.Validate(st.Value(f.Name), rulesFor(schema.Languages, f, lookups)...); err != nil {
			errs[f.Name] = err
		}
		if f.Kind == KindItems {
			validateItems(schema.Languages, f, st.Items(f.Name), errs)
		}
	}
	return errs
}

// Invalid — карта "поле -> true" для отметки полей в интерфейсе.
func Invalid(errs validation.Errors) map[string]bool {
	out := make(map[string]bool, len(errs))
	for k, e := range errs {
		if e != nil {
			out[k] = true
		}
	}
	return out
}

// Messages — ошибки в виде строк для ответа клиенту.
func Messages(errs validation.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for k, e := range errs {
		if e != nil {
			out[k] = e.Error()
		}
	}
	return out
}

// FirstMessage — сообщение о первой ошибке в порядке полей схемы.
func FirstMessage(schema *Schema, errs validation.Errors) string {
	for _, f := range schema.Fields {
		if e, ok := errs[f.Name]; ok && e != nil {
			return f.Name + ": " + e.Error()
		}
		prefix := f.Name + "."
		for k, e := range errs {
			if strings.HasPrefix(k, prefix) && e != nil {
				return k + ": " + e.Error()
			}
		}
	}
	return ""
}

func rulesFor(langs models.LanguageSet, f Field, lookups Lookups) []validation.Rule {
	var rules []validation.Rule
	switch f.Kind {
	case KindLocalized:
		if f.Required {
			rules = append(rules, validation.By(requiredLanguage(langs.Required)))
		}
	case KindText:
		if f.Required {
			rules = append(rules, validation.By(requiredText))
		}
		if len(f.Options) > 0 {
			opts := make([]any, len(f.Options))
			for i, o := range f.Options {
				opts[i] = o
			}
			rules = append(rules, validation.In(opts...).Error("недопустимое значение"))
		}
	case KindRelation:
		if f.Required {
			rules = append(rules, validation.By(requiredText))
		}
		if f.Lookup != "" {
			rules = append(rules, validation.By(inLookup(lookups, f.Lookup)))
		}
	case KindRelationList:
		if f.Required {
			rules = append(rules, validation.By(requiredList))
		}
		if f.Lookup != "" {
			rules = append(rules, validation.By(allInLookup(lookups, f.Lookup)))
		}
	case KindNumber:
		rules = append(rules, validation.By(number(f.Required, f.Positive)))
	case KindMedia, KindMediaList:
		if f.Required {
			rules = append(rules, validation.By(mediaPresent))
		}
	case KindTags, KindItems:
		if f.Required {
			rules = append(rules, validation.By(requiredList))
		}
	}
	return rules
}

func validateItems(langs models.LanguageSet, f Field, items []Item, errs validation.Errors) {
	for i, item := range items {
		for _, sf := range f.Item {
			if err := validation.Validate(item[sf.Name], rulesFor(langs, sf, nil)...); err != nil {
				errs[fmt.Sprintf("%s.%d.%s", f.Name, i, sf.Name)] = err
			}
		}
	}
}

func requiredLanguage(lang string) validation.RuleFunc {
	return func(value any) error {
		l, _ := value.(models.LocalizedString)
		if !l.Filled(lang) {
			return errRequiredLang.SetParams(map[string]any{"lang": lang})
		}
		return nil
	}
}

func requiredText(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errRequired
	}
	return nil
}

func requiredList(value any) error {
	switch v := value.(type) {
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				return nil
			}
		}
	case []Item:
		if len(v) > 0 {
			return nil
		}
	}
	return errRequiredList
}

func number(required, positive bool) validation.RuleFunc {
	return func(value any) error {
		raw, _ := value.(string)
		raw = strings.TrimSpace(raw)
		if raw == "" {
			if required {
				return errRequired
			}
			return nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errNotNumber
		}
		if positive && n <= 0 {
			return errNotPositive
		}
		return nil
	}
}

func mediaPresent(value any) error {
	switch v := value.(type) {
	case models.MediaReference:
		if !v.IsZero() {
			return nil
		}
	case []models.MediaReference:
		for _, m := range v {
			if !m.IsZero() {
				return nil
			}
		}
	}
	return errMediaRequired
}

func inLookup(lookups Lookups, collection string) validation.RuleFunc {
	return func(value any) error {
		id, _ := value.(string)
		if id == "" {
			return nil
		}
		if known, found := lookups.has(collection, id); known && !found {
			return errUnknownRelated
		}
		return nil
	}
}

func allInLookup(lookups Lookups, collection string) validation.RuleFunc {
	check := inLookup(lookups, collection)
	return func(value any) error {
		ids, _ := value.([]string)
		for _, id := range ids {
			if err := check(id); err != nil {
				return err
			}
		}
		return nil
	}
}
