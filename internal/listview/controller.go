package listview

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"contentadmin/internal/logger"
	"contentadmin/internal/models"
	"contentadmin/internal/repository"

	"go.uber.org/zap"
)

// ErrNotConfirmed — пользователь отказался от удаления, запрос не отправлялся.
var ErrNotConfirmed = errors.New("удаление не подтверждено")

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseMutating
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseMutating:
		return "mutating"
	default:
		return "ready"
	}
}

// Source — операции бэкенда, нужные списку. repository.Resource подходит как есть.
type Source[T any] interface {
	List(ctx context.Context, f models.FilterState) (models.Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Toggle(ctx context.Context, id, field string, value bool) (*T, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (repository.BulkResult, error)
}

// Confirmer спрашивает подтверждение деструктивного действия.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

type ConfirmFunc func(ctx context.Context, message string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool { return f(ctx, message) }

// Always — подтверждение, заданное заранее (флаг confirm в запросе).
type Always bool

func (a Always) Confirm(context.Context, string) bool { return bool(a) }

// Controller держит загруженную страницу, фильтры и выделение одного списка.
type Controller[T models.Listable] struct {
	src      Source[T]
	entity   string
	debounce time.Duration

	mu       sync.Mutex
	phase    Phase
	filter   models.FilterState
	items    []T
	selected map[string]struct{}
	lastErr  error
	// loaded — фильтр, с которым получена текущая страница
	loaded    models.FilterState
	hasLoaded bool

	loadSeq    uint64
	cancelLoad context.CancelFunc
	timer      *time.Timer
	closed     bool
}

func New[T models.Listable](entity string, src Source[T], debounce time.Duration) *Controller[T] {
	return &Controller[T]{
		src:      src,
		entity:   entity,
		debounce: debounce,
		phase:    PhaseReady,
		filter:   models.NewFilterState(),
		selected: map[string]struct{}{},
	}
}

func (c *Controller[T]) log(ctx context.Context) *zap.Logger {
	return logger.WithCtx(ctx).With(zap.String("entity", c.entity))
}

// Load загружает страницу по текущему фильтру. Предыдущая незавершённая
// загрузка отменяется; её результат не попадёт в состояние.
// При ошибке коллекция становится пустой, а ошибка возвращается.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancelLoad = cancel
	c.loadSeq++
	seq := c.loadSeq
	c.phase = PhaseLoading
	f := c.filter.Clamp()
	c.mu.Unlock()
	defer cancel()

	page, err := c.src.List(ctx, f)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		// уже запущена более новая загрузка
		return context.Canceled
	}
	c.cancelLoad = nil
	c.phase = PhaseReady
	if err != nil {
		c.log(ctx).Warn("список: ошибка загрузки", zap.Error(err))
		c.items = nil
		c.filter.Total = 0
		c.lastErr = err
		c.hasLoaded = false
		return err
	}
	c.items = page.Items
	c.filter.Total = page.Total
	c.lastErr = nil
	c.loaded = f
	c.hasLoaded = true
	c.pruneSelection()
	return nil
}

// Filter — текущие фильтры вместе с total сервера.
func (c *Controller[T]) Filter() models.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *Controller[T]) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SetFilter заменяет фильтры целиком и перезагружает список.
// SetFilter заменяет фильтры и перезагружает страницу. Если страница уже
// загружена с тем же запросом и другой загрузки нет, запроса не будет.
func (c *Controller[T]) SetFilter(ctx context.Context, f models.FilterState) error {
	c.mu.Lock()
	f.Total = c.filter.Total
	c.filter = f.Clamp()
	c.stopTimer()
	fresh := c.hasLoaded && c.cancelLoad == nil && c.filter.SameQuery(c.loaded)
	c.mu.Unlock()
	if fresh {
		return nil
	}
	return c.Load(ctx)
}

func (c *Controller[T]) SetStatus(ctx context.Context, s models.Status) error {
	return c.update(ctx, func(f *models.FilterState) { f.Status = s; f.Page = models.DefaultPage })
}

func (c *Controller[T]) SetCategory(ctx context.Context, id string) error {
	return c.update(ctx, func(f *models.FilterState) { f.CategoryID = id; f.Page = models.DefaultPage })
}

func (c *Controller[T]) SetDateRange(ctx context.Context, from, to *time.Time) error {
	return c.update(ctx, func(f *models.FilterState) { f.DateFrom, f.DateTo = from, to; f.Page = models.DefaultPage })
}

func (c *Controller[T]) SetPage(ctx context.Context, page int) error {
	return c.update(ctx, func(f *models.FilterState) { f.Page = page })
}

func (c *Controller[T]) update(ctx context.Context, fn func(*models.FilterState)) error {
	c.mu.Lock()
	f := c.filter
	fn(&f)
	c.filter = f.Clamp()
	c.stopTimer()
	c.mu.Unlock()
	return c.Load(ctx)
}

// SetSearch меняет строку поиска сразу, а запрос к бэкенду откладывает на
// интервал debounce. Пока запрос не ушёл, Visible ищет по загруженной странице. Каждый новый ввод
// переносит запрос; при debounce == 0 загрузка выполняется сразу.
func (c *Controller[T]) SetSearch(ctx context.Context, q string) error {
	c.mu.Lock()
	c.filter.Search = q
	c.filter.Page = models.DefaultPage
	if c.debounce <= 0 {
		c.mu.Unlock()
		return c.Load(ctx)
	}
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.stopTimer()
	// контекст вызова не переживёт таймер, поэтому берём только request_id
	bg := context.WithoutCancel(ctx)
	c.timer = time.AfterFunc(c.debounce, func() {
		_ = c.Load(bg)
	})
	c.mu.Unlock()
	return nil
}

func (c *Controller[T]) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Close отменяет отложенный поиск и текущую загрузку.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimer()
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
}

// Items — загруженная страница как есть.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Total — total, сообщённый сервером, а не длина отфильтрованного вида.
func (c *Controller[T]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Total
}

// Visible — загруженные записи после фильтров, отсортированные по sortOrder,
// затем от новых к старым. Поиск принадлежит серверу: если страница получена
// с поиском, локально он не повторяется.
func (c *Controller[T]) Visible() []T {
	c.mu.Lock()
	f := c.filter
	serverSearched := c.hasLoaded && strings.TrimSpace(c.loaded.Search) != ""
	items := make([]T, len(c.items))
	copy(items, c.items)
	c.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(f.Search))
	if serverSearched {
		q = ""
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matches(it, f, q) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order() != out[j].Order() {
			return out[i].Order() < out[j].Order()
		}
		return out[i].Created().After(out[j].Created())
	})
	return out
}

func matches[T models.Listable](it T, f models.FilterState, q string) bool {
	switch f.Status {
	case models.StatusPublished:
		if !it.Published() {
			return false
		}
	case models.StatusDraft:
		if it.Published() {
			return false
		}
	case models.StatusFeatured:
		if !it.Featured() {
			return false
		}
	}
	if q != "" && !strings.Contains(it.SearchText(), q) {
		return false
	}
	if f.CategoryID != "" && it.CategoryRef() != f.CategoryID {
		return false
	}
	created := it.Created()
	if f.DateFrom != nil && !created.IsZero() && created.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && !created.IsZero() && !created.Before(f.DateTo.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// Toggle меняет булев флаг записи. Строка заменяется объектом, который вернул
// сервер; оптимистичного обновления нет.
func (c *Controller[T]) Toggle(ctx context.Context, id, field string, value bool) (*T, error) {
	c.setPhase(PhaseMutating)
	defer c.setPhase(PhaseReady)

	updated, err := c.src.Toggle(ctx, id, field, value)
	if err != nil {
		c.log(ctx).Warn("список: ошибка переключения",
			zap.String("id", id), zap.String("field", field), zap.Error(err))
		return nil, err
	}
	if updated == nil || (*updated).GetID() == "" {
		// сервер ответил без тела — берём запись отдельным запросом
		updated, err = c.src.Get(ctx, id)
		if err != nil {
			c.log(ctx).Warn("список: флаг изменён, но запись не получена",
				zap.String("id", id), zap.Error(err))
			return nil, fmt.Errorf("перечитать запись %s: %w", id, err)
		}
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].GetID() == id {
			c.items[i] = *updated
			break
		}
	}
	c.mu.Unlock()
	return updated, nil
}

// Delete удаляет запись после подтверждения и перезагружает страницу.
func (c *Controller[T]) Delete(ctx context.Context, id string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ctx, "Удалить запись?") {
		return ErrNotConfirmed
	}

	c.setPhase(PhaseMutating)
	err := c.src.Delete(ctx, id)
	c.setPhase(PhaseReady)
	if err != nil {
		c.log(ctx).Warn("список: ошибка удаления", zap.String("id", id), zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.removeLocked(id)
	c.mu.Unlock()
	c.log(ctx).Info("список: запись удалена", zap.String("id", id))
	c.reload(ctx)
	return nil
}

// BulkDelete удаляет выделенные записи. Выделение очищается в любом случае,
// неудачные id возвращаются в BulkResult.Failed.
func (c *Controller[T]) BulkDelete(ctx context.Context, confirm Confirmer) (repository.BulkResult, error) {
	ids := c.Selected()
	if len(ids) == 0 {
		return repository.BulkResult{}, nil
	}
	if confirm == nil || !confirm.Confirm(ctx, "Удалить выбранные записи?") {
		return repository.BulkResult{}, ErrNotConfirmed
	}

	c.setPhase(PhaseMutating)
	res, err := c.src.BulkDelete(ctx, ids)
	c.setPhase(PhaseReady)

	c.mu.Lock()
	for _, id := range res.Deleted {
		c.removeLocked(id)
	}
	c.selected = map[string]struct{}{}
	c.mu.Unlock()

	log := c.log(ctx).With(zap.Int("deleted", len(res.Deleted)), zap.Int("failed", len(res.Failed)))
	if err != nil {
		log.Warn("список: массовое удаление с ошибками", zap.Error(err))
	} else {
		log.Info("список: массовое удаление")
	}
	c.reload(ctx)
	return res, err
}

// reload обновляет страницу после изменения, если она уже загружалась.
func (c *Controller[T]) reload(ctx context.Context) {
	c.mu.Lock()
	loaded := c.loadSeq > 0
	c.mu.Unlock()
	if !loaded {
		return
	}
	if err := c.Load(ctx); err != nil && !errors.Is(err, context.Canceled) {
		c.log(ctx).Warn("список: не удалось обновить после изменения", zap.Error(err))
	}
}

func (c *Controller[T]) removeLocked(id string) {
	for i := range c.items {
		if c.items[i].GetID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	delete(c.selected, id)
}

func (c *Controller[T]) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

// ToggleSelect добавляет id в выделение или убирает его.
func (c *Controller[T]) ToggleSelect(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
		return
	}
	c.selected[id] = struct{}{}
}

// SelectAll: если выделены все загруженные записи — снимает выделение,
// иначе выделяет все.
func (c *Controller[T]) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) > 0 && len(c.selected) == len(c.items) {
		c.selected = map[string]struct{}{}
		return
	}
	c.selected = make(map[string]struct{}, len(c.items))
	for _, it := range c.items {
		c.selected[it.GetID()] = struct{}{}
	}
}

// Selected — выделенные id в порядке загруженной страницы.
func (c *Controller[T]) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	seen := make(map[string]struct{}, len(c.selected))
	for _, it := range c.items {
		id := it.GetID()
		if _, ok := c.selected[id]; ok {
			out = append(out, id)
			seen[id] = struct{}{}
		}
	}
	// id, выделенные вне текущей страницы
	var rest []string
	for id := range c.selected {
		if _, ok := seen[id]; !ok {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Select заменяет выделение (используется HTTP-слоем для bulk-запросов).
func (c *Controller[T]) Select(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			c.selected[id] = struct{}{}
		}
	}
}

func (c *Controller[T]) pruneSelection() {
	if len(c.selected) == 0 {
		return
	}
	loaded := make(map[string]struct{}, len(c.items))
	for _, it := range c.items {
		loaded[it.GetID()] = struct{}{}
	}
	for id := range c.selected {
		if _, ok := loaded[id]; !ok {
			delete(c.selected, id)
		}
	}
}
