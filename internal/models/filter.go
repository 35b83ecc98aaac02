package models

import "time"

type Status string

const (
	StatusAll       Status = "all"
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusFeatured  Status = "featured"
)

func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusPublished, StatusDraft, StatusFeatured:
		return Status(s)
	default:
		return StatusAll
	}
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// FilterState — фильтры и курсор пагинации страницы списка.
type FilterState struct {
	Status     Status     `json:"status"`
	Search     string     `json:"search,omitempty"`
	CategoryID string     `json:"categoryId,omitempty"`
	DateFrom   *time.Time `json:"dateFrom,omitempty"`
	DateTo     *time.Time `json:"dateTo,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func NewFilterState() FilterState {
	return FilterState{Status: StatusAll, Page: DefaultPage, Limit: DefaultLimit}
}

// Clamp приводит страницу и лимит к допустимым значениям.
func (f FilterState) Clamp() FilterState {
	if f.Status == "" {
		f.Status = StatusAll
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// SameQuery — совпадают ли фильтры без учёта total.
func (f FilterState) SameQuery(o FilterState) bool {
	return f.Status == o.Status && f.Search == o.Search && f.CategoryID == o.CategoryID &&
		sameTime(f.DateFrom, o.DateFrom) && sameTime(f.DateTo, o.DateTo) &&
		f.Page == o.Page && f.Limit == o.Limit
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Page — нормализованный ответ списочного эндпоинта.
// TotalKnown — total пришёл от сервера; для голого массива это просто длина страницы.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	TotalKnown bool `json:"-"`
}
