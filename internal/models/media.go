package models

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"
)

type MediaKind int

const (
	MediaNone MediaKind = iota
	MediaURL
	MediaFile
	MediaDataURL
)

func (k MediaKind) String() string {
	switch k {
	case MediaURL:
		return "url"
	case MediaFile:
		return "file"
	case MediaDataURL:
		return "data-url"
	default:
		return "none"
	}
}

// File — свежевыбранный локальный файл.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// MediaReference — изображение или видео в одном из представлений:
// сохранённый URL, локальный файл или data:-превью. Активно ровно одно.
type MediaReference struct {
	kind    MediaKind
	url     string
	file    *File
	dataURL string
}

var ErrBadDataURL = errors.New("некорректный data: URL")

func MediaFromURL(u string) MediaReference {
	u = strings.TrimSpace(u)
	if u == "" {
		return MediaReference{}
	}
	return MediaReference{kind: MediaURL, url: u}
}

func MediaFromFile(f *File) MediaReference {
	if f == nil {
		return MediaReference{}
	}
	return MediaReference{kind: MediaFile, file: f}
}

func MediaFromDataURL(d string) MediaReference {
	d = strings.TrimSpace(d)
	if d == "" {
		return MediaReference{}
	}
	return MediaReference{kind: MediaDataURL, dataURL: d}
}

// ParseMedia классифицирует строку: data: -> превью, всё остальное непустое -> URL.
func ParseMedia(s string) MediaReference {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return MediaReference{}
	case strings.HasPrefix(s, "data:"):
		return MediaFromDataURL(s)
	default:
		return MediaFromURL(s)
	}
}

func (m MediaReference) Kind() MediaKind { return m.kind }
func (m MediaReference) IsZero() bool    { return m.kind == MediaNone }
func (m MediaReference) URL() string     { return m.url }
func (m MediaReference) File() *File     { return m.file }
func (m MediaReference) DataURL() string { return m.dataURL }

// NeedsUpload — значение нужно отправлять как бинарную часть multipart.
func (m MediaReference) NeedsUpload() bool {
	return m.kind == MediaFile || m.kind == MediaDataURL
}

// Decode возвращает бинарное содержимое для загрузки: для файла — как есть,
// для data: URL — декодированные байты.
func (m MediaReference) Decode() (*File, error) {
	switch m.kind {
	case MediaFile:
		return m.file, nil
	case MediaDataURL:
		return DecodeDataURL(m.dataURL)
	default:
		return nil, fmt.Errorf("media %s не содержит данных для загрузки", m.kind)
	}
}

// DecodeDataURL разбирает data:[<mime>][;base64],<data>.
func DecodeDataURL(s string) (*File, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, ErrBadDataURL
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, ErrBadDataURL
	}
	contentType := "application/octet-stream"
	isBase64 := false
	parts := strings.Split(meta, ";")
	if parts[0] != "" {
		contentType = parts[0]
	}
	for _, p := range parts[1:] {
		if p == "base64" {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
		}
		data = b
	} else {
		data = []byte(payload)
	}

	name := "upload"
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		name += exts[0]
	}
	return &File{Name: name, ContentType: contentType, Data: data}, nil
}

// EncodeDataURL — обратное преобразование, используется при сохранении черновиков.
func EncodeDataURL(f *File) string {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// MarshalJSON: URL и data: URL как строки, файл — как data: URL.
func (m MediaReference) MarshalJSON() ([]byte, error) {
	switch m.kind {
	case MediaURL:
		return json.Marshal(m.url)
	case MediaDataURL:
		return json.Marshal(m.dataURL)
	case MediaFile:
		return json.Marshal(EncodeDataURL(m.file))
	default:
		return []byte(`""`), nil
	}
}

func (m *MediaReference) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = ParseMedia(s)
	return nil
}
