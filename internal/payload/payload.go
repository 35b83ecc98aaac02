package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingMultipart
)

func (e Encoding) String() string {
	if e == EncodingMultipart {
		return "multipart"
	}
	return "json"
}

// Part — текстовое поле multipart.
type Part struct {
	Name  string
	Value string
}

// FilePart — бинарная часть multipart.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Payload — тело запроса к бэкенду. В зависимости от Encoding заполнен
// либо JSON, либо Fields/Files — никогда оба.
type Payload struct {
	Encoding Encoding
	JSON     map[string]any
	Fields   []Part
	Files    []FilePart
}

// FromJSON — JSON-тело для точечных изменений (статус, популярность).
func FromJSON(body map[string]any) *Payload {
	return &Payload{Encoding: EncodingJSON, JSON: body}
}

// Field возвращает значение текстового поля multipart.
func (p *Payload) Field(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// FilesFor — файлы, приложенные под ключом name.
func (p *Payload) FilesFor(name string) []FilePart {
	var out []FilePart
	for _, f := range p.Files {
		if f.Field == name {
			out = append(out, f)
		}
	}
	return out
}

// Encode сериализует тело и возвращает его вместе с Content-Type.
// Для multipart Content-Type содержит boundary, выставлять его вручную нельзя.
func (p *Payload) Encode() (io.Reader, string, error) {
	if p.Encoding == EncodingJSON {
		data, err := json.Marshal(p.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("кодирование JSON: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range p.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("поле %s: %w", f.Name, err)
		}
	}
	for _, f := range p.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.Field), escapeQuotes(f.Filename)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("файл %s: %w", f.Field, err)
		}
		if _, err := pw.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("файл %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
