package models

import (
	"strings"
	"time"
)

// Listable — то, что умеет показывать список: id, статусы, текст для поиска.
type Listable interface {
	GetID() string
	Published() bool
	Featured() bool
	SearchText() string
	CategoryRef() string
	Created() time.Time
	Order() int
}

// Meta — служебные поля, которые бэкенд добавляет к каждой записи.
type Meta struct {
	ID        string    `json:"_id"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func (m Meta) GetID() string      { return m.ID }
func (m Meta) Created() time.Time { return m.CreatedAt }

func joinSearch(parts ...LocalizedString) string {
	var b strings.Builder
	for _, p := range parts {
		for _, v := range p {
			if v == "" {
				continue
			}
			b.WriteString(strings.ToLower(v))
			b.WriteByte(' ')
		}
	}
	return b.String()
}
