package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDraftNotFound = errors.New("черновик не найден")

// Draft — сохранённое состояние формы, которую не удалось отправить.
// RecordID пустой для формы создания.
type Draft struct {
	Entity    string    `json:"entity"`
	RecordID  string    `json:"recordId"`
	Data      []byte    `json:"-"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DraftRepository interface {
	Save(ctx context.Context, d *Draft) error
	Get(ctx context.Context, entity, recordID string) (*Draft, error)
	Delete(ctx context.Context, entity, recordID string) error
	List(ctx context.Context, entity string) ([]*Draft, error)
}

type draftRepo struct {
	db *pgxpool.Pool
}

func NewDraftRepository(db *pgxpool.Pool) DraftRepository {
	return &draftRepo{db: db}
}

// EnsureDraftSchema создаёт таблицу черновиков, если её нет.
func EnsureDraftSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS form_drafts (
			entity     TEXT NOT NULL,
			record_id  TEXT NOT NULL DEFAULT '',
			data       JSONB NOT NULL,
			error      TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (entity, record_id)
		)`)
	return err
}

func (r *draftRepo) Save(ctx context.Context, d *Draft) error {
	query := `
		INSERT INTO form_drafts (entity, record_id, data, error, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (entity, record_id)
		DO UPDATE SET data = EXCLUDED.data, error = EXCLUDED.error, updated_at = now()
		RETURNING updated_at`
	return r.db.QueryRow(ctx, query, d.Entity, d.RecordID, d.Data, d.Error).Scan(&d.UpdatedAt)
}

func (r *draftRepo) Get(ctx context.Context, entity, recordID string) (*Draft, error) {
	query := `SELECT entity, record_id, data, error, updated_at FROM form_drafts WHERE entity = $1 AND record_id = $2`
	var d Draft
	err := r.db.QueryRow(ctx, query, entity, recordID).Scan(&d.Entity, &d.RecordID, &d.Data, &d.Error, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *draftRepo) Delete(ctx context.Context, entity, recordID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM form_drafts WHERE entity = $1 AND record_id = $2`, entity, recordID)
	return err
}

func (r *draftRepo) List(ctx context.Context, entity string) ([]*Draft, error) {
	rows, err := r.db.Query(ctx,
		`SELECT entity, record_id, data, error, updated_at FROM form_drafts WHERE entity = $1 ORDER BY updated_at DESC`, entity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Draft
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.Entity, &d.RecordID, &d.Data, &d.Error, &d.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// memoryDrafts — черновики в памяти процесса, когда БД не настроена.
type memoryDrafts struct {
	mu    sync.RWMutex
	items map[string]*Draft
}

func NewMemoryDraftRepository() DraftRepository {
	return &memoryDrafts{items: map[string]*Draft{}}
}

func draftKey(entity, recordID string) string { return entity + "/" + recordID }

func (m *memoryDrafts) Save(_ context.Context, d *Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	cp.Data = append([]byte(nil), d.Data...)
	cp.UpdatedAt = time.Now()
	d.UpdatedAt = cp.UpdatedAt
	m.items[draftKey(d.Entity, d.RecordID)] = &cp
	return nil
}

func (m *memoryDrafts) Get(_ context.Context, entity, recordID string) (*Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.items[draftKey(entity, recordID)]
	if !ok {
		return nil, ErrDraftNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memoryDrafts) Delete(_ context.Context, entity, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, draftKey(entity, recordID))
	return nil
}

func (m *memoryDrafts) List(_ context.Context, entity string) ([]*Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var list []*Draft
	for _, d := range m.items {
		if d.Entity == entity {
			cp := *d
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list, nil
}
