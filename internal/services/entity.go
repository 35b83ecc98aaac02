package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contentadmin/internal/forms"
	"contentadmin/internal/listview"
	"contentadmin/internal/logger"
	"contentadmin/internal/models"
	"contentadmin/internal/payload"
	"contentadmin/internal/repository"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

var (
	ErrScopeRequired = errors.New("не указан родительский раздел")
	ErrUnknownToggle = errors.New("это поле нельзя переключать")
)

// ValidationError — форма не прошла проверку, запрос к бэкенду не отправлялся.
type ValidationError struct {
	Fields  validation.Errors
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "форма заполнена с ошибками"
	}
	return "форма заполнена с ошибками: " + e.Message
}

// ListResult — отфильтрованная страница и серверный total.
type ListResult struct {
	Items  any                `json:"items"`
	Total  int                `json:"total"`
	Filter models.FilterState `json:"filter"`
}

// EntityService — конвейер одной сущности: форма, проверка, сборка тела,
// отправка, а также список и массовые действия.
type EntityService interface {
	Entity() string
	Schema() *forms.Schema
	StatusField() string

	NewState() *forms.State
	Validate(ctx context.Context, st *forms.State) validation.Errors
	Submit(ctx context.Context, id string, st *forms.State) (any, error)
	LoadForEdit(ctx context.Context, id string) (*forms.State, error)
	Draft(ctx context.Context, id string) (*forms.State, *repository.Draft, error)
	Drafts(ctx context.Context) ([]*repository.Draft, error)

	List(ctx context.Context, scope string, f models.FilterState) (ListResult, error)
	Toggle(ctx context.Context, id, field string, value bool) (any, error)
	Delete(ctx context.Context, id string, confirm listview.Confirmer) error
	BulkDelete(ctx context.Context, ids []string, confirm listview.Confirmer) (repository.BulkResult, error)
}

type entityConfig struct {
	statusField string
	// parentField — поле формы, по которому строится путь создания (Resource.Scoped)
	parentField string
	// scopeRequired — список доступен только внутри родителя
	scopeRequired bool
	// toggleSub — флаги, которые меняются через отдельный подпуть
	toggleSub map[string]string
}

type entityService[T models.Listable] struct {
	schema  *forms.Schema
	res     *repository.Resource[T]
	builder *payload.Builder
	drafts  repository.DraftRepository
	lookups *LookupService
	cfg     entityConfig
}

func newEntityService[T models.Listable](
	schema *forms.Schema,
	res *repository.Resource[T],
	builder *payload.Builder,
	drafts repository.DraftRepository,
	lookups *LookupService,
	cfg entityConfig,
) *entityService[T] {
	return &entityService[T]{
		schema:  schema,
		res:     res,
		builder: builder,
		drafts:  drafts,
		lookups: lookups,
		cfg:     cfg,
	}
}

func (s *entityService[T]) Entity() string        { return s.schema.Entity }
func (s *entityService[T]) Schema() *forms.Schema { return s.schema }
func (s *entityService[T]) StatusField() string   { return s.cfg.statusField }
func (s *entityService[T]) NewState() *forms.State {
	return forms.NewState(s.schema)
}

func (s *entityService[T]) log(ctx context.Context, op string) *zap.Logger {
	return logger.WithCtx(ctx).With(zap.String("entity", s.schema.Entity), zap.String("op", op))
}

// Validate проверяет форму; справочники для связей подгружаются с бэкенда.
func (s *entityService[T]) Validate(ctx context.Context, st *forms.State) validation.Errors {
	var lookups forms.Lookups
	if s.lookups != nil {
		lookups = s.lookups.ForSchema(ctx, s.schema)
	}
	errs := forms.Validate(st, lookups)
	st.Errors = errs
	return errs
}

// Submit: проверка -> сборка тела -> POST (id == "") или PATCH.
// Ошибка проверки не доходит до бэкенда. При ошибке отправки форма
// сохраняется черновиком, при успехе черновик удаляется.
func (s *entityService[T]) Submit(ctx context.Context, id string, st *forms.State) (any, error) {
	op := "update"
	if id == "" {
		op = "create"
	}
	log := s.log(ctx, op).With(zap.String("id", id))
	log.Info("Сервис: отправка формы")

	st.Loading = true
	defer func() { st.Loading = false }()

	if errs := s.Validate(ctx, st); len(errs) > 0 {
		msg := forms.FirstMessage(s.schema, errs)
		log.Info("Сервис: форма не прошла проверку", zap.Int("fields", len(errs)), zap.String("first", msg))
		return nil, &ValidationError{Fields: errs, Message: msg}
	}

	p, err := s.builder.Build(st)
	if err != nil {
		log.Warn("Сервис: ошибка сборки тела запроса", zap.Error(err))
		s.saveDraft(ctx, id, st, err)
		return nil, fmt.Errorf("сборка запроса: %w", err)
	}
	log.Debug("Сервис: тело запроса собрано",
		zap.Stringer("encoding", p.Encoding), zap.Int("files", len(p.Files)))

	var out *T
	if id == "" {
		path, perr := s.createPath(st)
		if perr != nil {
			return nil, perr
		}
		out, err = s.res.CreateAt(ctx, path, p)
	} else {
		out, err = s.res.Update(ctx, id, p)
	}
	if err != nil {
		log.Error("Сервис: бэкенд отклонил запрос", zap.Error(err))
		s.saveDraft(ctx, id, st, err)
		return nil, err
	}

	if derr := s.drafts.Delete(ctx, s.schema.Entity, id); derr != nil {
		log.Warn("Сервис: не удалось удалить черновик", zap.Error(derr))
	}
	log.Info("Сервис: форма сохранена", zap.String("result_id", (*out).GetID()))
	return out, nil
}

func (s *entityService[T]) createPath(st *forms.State) (string, error) {
	if s.cfg.parentField == "" {
		return s.res.Path(), nil
	}
	parent := st.Text(s.cfg.parentField)
	if strings.TrimSpace(parent) == "" {
		return "", ErrScopeRequired
	}
	return s.res.Scoped(parent)
}

func (s *entityService[T]) saveDraft(ctx context.Context, id string, st *forms.State, cause error) {
	data, err := st.Snapshot()
	if err != nil {
		s.log(ctx, "draft").Warn("Сервис: не удалось сериализовать черновик", zap.Error(err))
		return
	}
	d := &repository.Draft{Entity: s.schema.Entity, RecordID: id, Data: data, Error: cause.Error()}
	if err := s.drafts.Save(ctx, d); err != nil {
		s.log(ctx, "draft").Warn("Сервис: не удалось сохранить черновик", zap.Error(err))
		return
	}
	s.log(ctx, "draft").Info("Сервис: черновик сохранён", zap.String("id", id))
}

// LoadForEdit заполняет форму записью бэкенда.
func (s *entityService[T]) LoadForEdit(ctx context.Context, id string) (*forms.State, error) {
	raw, err := s.res.GetRaw(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			s.log(ctx, "load").Info("Сервис: запись не найдена", zap.String("id", id))
		} else {
			s.log(ctx, "load").Warn("Сервис: запись не получена", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return forms.FromRecord(s.schema, raw), nil
}

// Draft — последняя неотправленная версия формы.
func (s *entityService[T]) Draft(ctx context.Context, id string) (*forms.State, *repository.Draft, error) {
	d, err := s.drafts.Get(ctx, s.schema.Entity, id)
	if err != nil {
		return nil, nil, err
	}
	st, err := forms.Restore(s.schema, d.Data)
	if err != nil {
		return nil, nil, err
	}
	return st, d, nil
}

// Drafts — неотправленные формы сущности, от свежих к старым.
func (s *entityService[T]) Drafts(ctx context.Context) ([]*repository.Draft, error) {
	list, err := s.drafts.List(ctx, s.schema.Entity)
	if err != nil {
		s.log(ctx, "draft").Warn("Сервис: не удалось получить черновики", zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []*repository.Draft{}
	}
	return list, nil
}

func (s *entityService[T]) source(scope string) (listview.Source[T], error) {
	if scope == "" {
		if s.cfg.scopeRequired {
			return nil, ErrScopeRequired
		}
		return s.res, nil
	}
	path, err := s.res.Scoped(scope)
	if err != nil {
		return nil, err
	}
	return scopedSource[T]{Resource: s.res, path: path}, nil
}

// List загружает страницу через контроллер списка и отдаёт производный вид.
// Для сущностей, живущих внутри родителя, scope по умолчанию — categoryId фильтра.
func (s *entityService[T]) List(ctx context.Context, scope string, f models.FilterState) (ListResult, error) {
	if scope == "" && s.cfg.scopeRequired {
		scope = f.CategoryID
	}
	src, err := s.source(scope)
	if err != nil {
		return ListResult{}, err
	}

	c := listview.New[T](s.schema.Entity, src, 0)
	defer c.Close()
	if err := c.SetFilter(ctx, f); err != nil {
		return ListResult{}, err
	}
	s.log(ctx, "list").Debug("Сервис: список получен", zap.Int("total", c.Total()))
	return ListResult{Items: c.Visible(), Total: c.Total(), Filter: c.Filter()}, nil
}

// Toggle меняет булев флаг: статус публикации или флаг с отдельным эндпоинтом.
func (s *entityService[T]) Toggle(ctx context.Context, id, field string, value bool) (any, error) {
	log := s.log(ctx, "toggle").With(zap.String("id", id), zap.String("field", field), zap.Bool("value", value))

	if sub, ok := s.cfg.toggleSub[field]; ok {
		out, err := s.res.Patch(ctx, id, sub, payload.FromJSON(map[string]any{field: value}))
		if err != nil {
			log.Warn("Сервис: ошибка переключения", zap.Error(err))
			return nil, err
		}
		if (*out).GetID() == "" {
			// пустой ответ: отдаём актуальную запись, а не нулевую
			if out, err = s.res.Get(ctx, id); err != nil {
				log.Warn("Сервис: флаг изменён, но запись не получена", zap.Error(err))
				return nil, err
			}
		}
		log.Info("Сервис: флаг изменён")
		return out, nil
	}

	f, ok := s.schema.Field(field)
	if !ok || f.Kind != forms.KindBool {
		return nil, fmt.Errorf("%s: %w", field, ErrUnknownToggle)
	}
	c := listview.New[T](s.schema.Entity, s.res, 0)
	defer c.Close()
	out, err := c.Toggle(ctx, id, field, value)
	if err != nil {
		return nil, err
	}
	log.Info("Сервис: флаг изменён")
	return out, nil
}

func (s *entityService[T]) Delete(ctx context.Context, id string, confirm listview.Confirmer) error {
	c := listview.New[T](s.schema.Entity, s.res, 0)
	defer c.Close()
	if err := c.Delete(ctx, id, confirm); err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, s.schema.Entity, id); err != nil {
		s.log(ctx, "delete").Warn("Сервис: не удалось удалить черновик", zap.Error(err))
	}
	return nil
}

func (s *entityService[T]) BulkDelete(ctx context.Context, ids []string, confirm listview.Confirmer) (repository.BulkResult, error) {
	c := listview.New[T](s.schema.Entity, s.res, 0)
	defer c.Close()
	c.Select(ids...)
	return c.BulkDelete(ctx, confirm)
}

// scopedSource — ресурс, список которого читается по пути родителя.
type scopedSource[T any] struct {
	*repository.Resource[T]
	path string
}

func (s scopedSource[T]) List(ctx context.Context, f models.FilterState) (models.Page[T], error) {
	return s.ListAt(ctx, s.path, f)
}
