package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"contentadmin/internal/models"
	"contentadmin/internal/payload"

	"golang.org/x/sync/errgroup"
)

const bulkFanOut = 4

// BulkResult — итог массового удаления по каждому id.
type BulkResult struct {
	Deleted []string         `json:"deleted"`
	Failed  map[string]error `json:"-"`
}

// Err — nil, если удалены все; иначе общая ошибка со списком неудачных id.
func (r BulkResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for id, err := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", id, err))
	}
	return errors.Join(errs...)
}

// FailedMessages — ошибки по id в виде строк для ответа клиенту.
func (r BulkResult) FailedMessages() map[string]string {
	out := make(map[string]string, len(r.Failed))
	for id, err := range r.Failed {
		out[id] = err.Error()
	}
	return out
}

type resourceConfig struct {
	bulkPath string
	params   map[string]string
	scope    string
}

type ResourceOption func(*resourceConfig)

// WithBulkPath — у ресурса есть эндпоинт массового удаления (POST {ids}).
func WithBulkPath(path string) ResourceOption {
	return func(c *resourceConfig) { c.bulkPath = path }
}

// WithParam переименовывает query-параметр фильтра (categoryId -> setId и т.п.).
func WithParam(name, as string) ResourceOption {
	return func(c *resourceConfig) {
		if c.params == nil {
			c.params = map[string]string{}
		}
		c.params[name] = as
	}
}

// WithScope — путь для создания и списка внутри родителя, формат с одним %s
// (например "/categories/%s/subcategories").
func WithScope(format string) ResourceOption {
	return func(c *resourceConfig) { c.scope = format }
}

// Resource — CRUD-операции одной сущности бэкенда.
type Resource[T any] struct {
	c    *Client
	path string
	cfg  resourceConfig
}

func NewResource[T any](c *Client, path string, opts ...ResourceOption) *Resource[T] {
	r := &Resource[T]{c: c, path: path}
	for _, o := range opts {
		o(&r.cfg)
	}
	return r
}

func (r *Resource[T]) Path() string { return r.path }

// Scoped — путь внутри родителя; без WithScope возвращает базовый путь.
func (r *Resource[T]) Scoped(parent string) (string, error) {
	if r.cfg.scope == "" {
		return r.path, nil
	}
	if strings.TrimSpace(parent) == "" {
		return "", fmt.Errorf("%s: не указан родитель", r.path)
	}
	return fmt.Sprintf(r.cfg.scope, url.PathEscape(parent)), nil
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) Create(ctx context.Context, p *payload.Payload) (*T, error) {
	return r.CreateAt(ctx, r.path, p)
}

// CreateAt — создание по явному пути (например, внутри родителя).
func (r *Resource[T]) CreateAt(ctx context.Context, path string, p *payload.Payload) (*T, error) {
	var out T
	if err := r.c.Do(ctx, http.MethodPost, path, nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Update(ctx context.Context, id string, p *payload.Payload) (*T, error) {
	var out T
	if err := r.c.Do(ctx, http.MethodPatch, r.itemPath(id), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Patch — PATCH на подпуть записи (например "/popular").
func (r *Resource[T]) Patch(ctx context.Context, id, sub string, p *payload.Payload) (*T, error) {
	var out T
	if err := r.c.Do(ctx, http.MethodPatch, r.itemPath(id)+sub, nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Toggle меняет один булев флаг и возвращает запись в версии сервера.
func (r *Resource[T]) Toggle(ctx context.Context, id, field string, value bool) (*T, error) {
	return r.Update(ctx, id, payload.FromJSON(map[string]any{field: value}))
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.c.Do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRaw — запись как есть, для заполнения формы редактирования.
func (r *Resource[T]) GetRaw(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	if err := r.c.Do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: "пустой ответ"}
	}
	return out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

// BulkDelete удаляет несколько записей: одним запросом, если у ресурса есть
// bulk-эндпоинт, иначе параллельными запросами по каждому id.
func (r *Resource[T]) BulkDelete(ctx context.Context, ids []string) (BulkResult, error) {
	res := BulkResult{Failed: map[string]error{}}
	if len(ids) == 0 {
		return res, nil
	}

	if r.cfg.bulkPath != "" {
		err := r.c.Do(ctx, http.MethodPost, r.cfg.bulkPath, nil, payload.FromJSON(map[string]any{"ids": ids}), nil)
		if err != nil {
			for _, id := range ids {
				res.Failed[id] = err
			}
			return res, res.Err()
		}
		res.Deleted = append(res.Deleted, ids...)
		return res, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkFanOut)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := r.Delete(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed[id] = err
			} else {
				res.Deleted = append(res.Deleted, id)
			}
			return nil
		})
	}
	_ = g.Wait()
	return res, res.Err()
}

// List — страница записей по фильтру.
func (r *Resource[T]) List(ctx context.Context, f models.FilterState) (models.Page[T], error) {
	return r.ListAt(ctx, r.path, f)
}

// ListAt — список по явному пути (/exercises/set/:setId, /categories/:id/subcategories).
// Бэкенд отвечает то массивом, то {items,total}; ответ всегда приводится к Page.
func (r *Resource[T]) ListAt(ctx context.Context, path string, f models.FilterState) (models.Page[T], error) {
	var raw json.RawMessage
	if err := r.c.Do(ctx, http.MethodGet, path, r.query(f), nil, &raw); err != nil {
		return models.Page[T]{}, err
	}
	return decodePage[T](raw)
}

func (r *Resource[T]) query(f models.FilterState) url.Values {
	f = f.Clamp()
	q := url.Values{}
	set := func(name, value string) {
		if value == "" {
			return
		}
		if as, ok := r.cfg.params[name]; ok {
			name = as
		}
		q.Set(name, value)
	}
	if f.Status != models.StatusAll {
		set("status", string(f.Status))
	}
	set("search", strings.TrimSpace(f.Search))
	set("categoryId", f.CategoryID)
	if f.DateFrom != nil {
		set("dateFrom", f.DateFrom.Format("2006-01-02"))
	}
	if f.DateTo != nil {
		set("dateTo", f.DateTo.Format("2006-01-02"))
	}
	set("page", strconv.Itoa(f.Page))
	set("limit", strconv.Itoa(f.Limit))
	return q
}

func decodePage[T any](raw json.RawMessage) (models.Page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return models.Page[T]{Items: []T{}}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return models.Page[T]{}, fmt.Errorf("разбор списка: %w", err)
		}
		return models.Page[T]{Items: items, Total: len(items)}, nil
	}

	var env struct {
		Items      json.RawMessage `json:"items"`
		Data       json.RawMessage `json:"data"`
		Total      *int            `json:"total"`
		Pagination struct {
			Total *int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return models.Page[T]{}, fmt.Errorf("разбор списка: %w", err)
	}
	list := env.Items
	if len(list) == 0 {
		list = env.Data
	}

	var items []T
	if len(list) > 0 {
		if err := json.Unmarshal(list, &items); err != nil {
			return models.Page[T]{}, fmt.Errorf("разбор списка: %w", err)
		}
	}
	if items == nil {
		items = []T{}
	}

	page := models.Page[T]{Items: items, Total: len(items)}
	switch {
	case env.Total != nil:
		page.Total, page.TotalKnown = *env.Total, true
	case env.Pagination.Total != nil:
		page.Total, page.TotalKnown = *env.Pagination.Total, true
	}
	return page, nil
}
