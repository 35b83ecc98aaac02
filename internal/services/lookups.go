package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"contentadmin/internal/forms"
	"contentadmin/internal/logger"
	"contentadmin/internal/models"
	"contentadmin/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// lookupMaxPages ограничивает обход справочника по страницам.
const lookupMaxPages = 20

// Option — элемент выпадающего списка (категория, блог, инструктор, комплекс).
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// OptionSource загружает один справочник целиком.
type OptionSource func(ctx context.Context) ([]Option, error)

// OptionsFrom обходит все страницы ресурса и строит справочник.
func OptionsFrom[T models.Listable](res *repository.Resource[T], label func(T) string) OptionSource {
	return func(ctx context.Context) ([]Option, error) {
		f := models.NewFilterState()
		f.Limit = models.MaxLimit

		var out []Option
		seen := map[string]bool{}
		for page := 1; page <= lookupMaxPages; page++ {
			f.Page = page
			p, err := res.List(ctx, f)
			if err != nil {
				return nil, err
			}
			added := 0
			for _, it := range p.Items {
				if id := it.GetID(); !seen[id] {
					seen[id] = true
					out = append(out, Option{ID: id, Label: label(it)})
					added++
				}
			}
			// без серверного total конец списка — неполная страница;
			// сервер, игнорирующий page, повторяет уже полученные записи
			if added == 0 || len(p.Items) < f.Limit || (p.TotalKnown && len(out) >= p.Total) {
				break
			}
		}
		return out, nil
	}
}

type LookupService struct {
	sources map[string]OptionSource
}

func NewLookupService(sources map[string]OptionSource) *LookupService {
	return &LookupService{sources: sources}
}

// Kinds — имена доступных справочников.
func (s *LookupService) Kinds() []string {
	kinds := make([]string, 0, len(s.sources))
	for k := range s.sources {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Load загружает справочники параллельно. Без аргументов — все.
// Ошибка любого справочника отменяет остальные.
func (s *LookupService) Load(ctx context.Context, kinds ...string) (map[string][]Option, error) {
	if len(kinds) == 0 {
		kinds = s.Kinds()
	}

	var mu sync.Mutex
	out := make(map[string][]Option, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		src, ok := s.sources[kind]
		if !ok {
			return nil, fmt.Errorf("неизвестный справочник %q", kind)
		}
		kind := kind
		g.Go(func() error {
			opts, err := src(gctx)
			if err != nil {
				return fmt.Errorf("справочник %s: %w", kind, err)
			}
			if opts == nil {
				opts = []Option{}
			}
			mu.Lock()
			out[kind] = opts
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.WithCtx(ctx).Warn("Сервис: ошибка загрузки справочников", zap.Error(err))
		return nil, err
	}
	return out, nil
}

// ForSchema загружает справочники, на которые ссылаются поля схемы.
// Справочник, который не удалось получить, пропускается: связь с ним
// не проверяется, последнее слово остаётся за бэкендом.
func (s *LookupService) ForSchema(ctx context.Context, schema *forms.Schema) forms.Lookups {
	lookups := forms.Lookups{}
	var kinds []string
	seen := map[string]bool{}
	for _, f := range schema.Fields {
		if f.Lookup == "" || seen[f.Lookup] {
			continue
		}
		seen[f.Lookup] = true
		if _, ok := s.sources[f.Lookup]; ok {
			kinds = append(kinds, f.Lookup)
		}
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, kind := range kinds {
		kind := kind
		g.Go(func() error {
			opts, err := s.sources[kind](ctx)
			if err != nil {
				logger.WithCtx(ctx).Warn("Сервис: справочник недоступен, связь не проверяется",
					zap.String("lookup", kind), zap.Error(err))
				return nil
			}
			ids := make([]string, len(opts))
			for i, o := range opts {
				ids[i] = o.ID
			}
			mu.Lock()
			lookups.Add(kind, ids...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return lookups
}
