package payload

import (
	"encoding/json"
	"fmt"
	"strconv"

	"contentadmin/internal/forms"
	"contentadmin/internal/models"

	"github.com/microcosm-cc/bluemonday"
)

// Builder превращает проверенное состояние формы в тело запроса.
type Builder struct {
	policy            *bluemonday.Policy
	maxImageDimension int
}

func NewBuilder(maxImageDimension int) *Builder {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img", "iframe")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("src", "width", "height", "allowfullscreen").OnElements("iframe")
	return &Builder{policy: p, maxImageDimension: maxImageDimension}
}

// ChooseEncoding зависит только от формы медиа-полей: multipart, если есть
// хотя бы один файл или data: URL, иначе JSON.
func ChooseEncoding(st *forms.State) Encoding {
	for _, f := range st.Schema().Fields {
		switch f.Kind {
		case forms.KindMedia:
			if st.Media(f.Name).NeedsUpload() {
				return EncodingMultipart
			}
		case forms.KindMediaList:
			for _, m := range st.MediaList(f.Name) {
				if m.NeedsUpload() {
					return EncodingMultipart
				}
			}
		}
	}
	return EncodingJSON
}

// Build собирает payload. Пустые строковые поля (текст, связь, одиночное медиа)
// не отправляются, чтобы не затирать значения по умолчанию на бэкенде;
// числа отправляются всегда (пустой ввод -> 0).
func (b *Builder) Build(st *forms.State) (*Payload, error) {
	if ChooseEncoding(st) == EncodingMultipart {
		return b.buildMultipart(st)
	}
	return b.buildJSON(st), nil
}

func (b *Builder) buildJSON(st *forms.State) *Payload {
	schema := st.Schema()
	body := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		switch f.Kind {
		case forms.KindLocalized:
			body[f.Name] = b.localized(schema.Languages, f, st.Localized(f.Name))
		case forms.KindText:
			if v := b.text(st, f); v != "" {
				body[f.Name] = v
			}
		case forms.KindRelation:
			if v := st.Text(f.Name); v != "" {
				body[f.Name] = v
			}
		case forms.KindNumber:
			body[f.Name] = st.Number(f.Name)
		case forms.KindBool:
			body[f.Name] = st.Bool(f.Name)
		case forms.KindRelationList, forms.KindTags:
			body[f.Name] = nonNil(st.Strings(f.Name))
		case forms.KindMedia:
			if m := st.Media(f.Name); m.Kind() == models.MediaURL {
				body[f.Name] = m.URL()
			}
		case forms.KindMediaList:
			body[f.Name] = urls(st.MediaList(f.Name))
		case forms.KindItems:
			body[f.Name] = b.items(schema.Languages, f, st.Items(f.Name))
		}
	}
	return &Payload{Encoding: EncodingJSON, JSON: body}
}

func (b *Builder) buildMultipart(st *forms.State) (*Payload, error) {
	schema := st.Schema()
	p := &Payload{Encoding: EncodingMultipart}
	add := func(name, value string) { p.Fields = append(p.Fields, Part{Name: name, Value: value}) }
	addJSON := func(name string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("поле %s: %w", name, err)
		}
		add(name, string(data))
		return nil
	}

	for _, f := range schema.Fields {
		var err error
		switch f.Kind {
		case forms.KindLocalized:
			err = addJSON(f.Name, b.localized(schema.Languages, f, st.Localized(f.Name)))
		case forms.KindText:
			if v := b.text(st, f); v != "" {
				add(f.Name, v)
			}
		case forms.KindRelation:
			if v := st.Text(f.Name); v != "" {
				add(f.Name, v)
			}
		case forms.KindNumber:
			add(f.Name, strconv.FormatFloat(st.Number(f.Name), 'f', -1, 64))
		case forms.KindBool:
			add(f.Name, strconv.FormatBool(st.Bool(f.Name)))
		case forms.KindRelationList, forms.KindTags:
			err = addJSON(f.Name, nonNil(st.Strings(f.Name)))
		case forms.KindItems:
			err = addJSON(f.Name, b.items(schema.Languages, f, st.Items(f.Name)))
		case forms.KindMedia:
			m := st.Media(f.Name)
			switch {
			case m.NeedsUpload():
				err = b.attach(p, f.Name, m)
			case m.Kind() == models.MediaURL:
				add(f.ExistingKey(), m.URL())
			}
		case forms.KindMediaList:
			var existing []string
			for _, m := range st.MediaList(f.Name) {
				if m.NeedsUpload() {
					if err = b.attach(p, f.Name, m); err != nil {
						break
					}
				} else if m.Kind() == models.MediaURL {
					existing = append(existing, m.URL())
				}
			}
			if err == nil {
				err = addJSON(f.ExistingKey(), nonNil(existing))
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// attach добавляет файл; data: URL предварительно декодируется в бинарь,
// чтобы не отправлять огромную строку.
func (b *Builder) attach(p *Payload, field string, m models.MediaReference) error {
	file, err := m.Decode()
	if err != nil {
		return fmt.Errorf("поле %s: %w", field, err)
	}
	file, err = downscale(file, b.maxImageDimension)
	if err != nil {
		return err
	}
	name := file.Name
	if name == "" {
		name = field
	}
	p.Files = append(p.Files, FilePart{
		Field:       field,
		Filename:    name,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	return nil
}

func (b *Builder) localized(langs models.LanguageSet, f forms.Field, v models.LocalizedString) models.LocalizedString {
	out := v.Normalize(langs)
	if f.HTML {
		for code, text := range out {
			out[code] = b.policy.Sanitize(text)
		}
	}
	return out
}

func (b *Builder) text(st *forms.State, f forms.Field) string {
	v := st.Text(f.Name)
	if v == "" && f.SlugFrom != "" {
		src := st.Localized(f.SlugFrom)
		v = Slugify(src.First(st.Schema().Languages.Required))
	}
	return v
}

func (b *Builder) items(langs models.LanguageSet, f forms.Field, items []forms.Item) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		m := make(map[string]any, len(f.Item))
		for _, sf := range f.Item {
			switch sf.Kind {
			case forms.KindLocalized:
				l, _ := it[sf.Name].(models.LocalizedString)
				m[sf.Name] = b.localized(langs, sf, l)
			case forms.KindNumber:
				raw, _ := it[sf.Name].(string)
				m[sf.Name] = forms.ParseNumber(raw)
			case forms.KindBool:
				v, _ := it[sf.Name].(bool)
				m[sf.Name] = v
			default:
				if v, _ := it[sf.Name].(string); v != "" {
					m[sf.Name] = v
				}
			}
		}
		out = append(out, m)
	}
	return out
}

func urls(list []models.MediaReference) []string {
	out := []string{}
	for _, m := range list {
		if m.Kind() == models.MediaURL {
			out = append(out, m.URL())
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
