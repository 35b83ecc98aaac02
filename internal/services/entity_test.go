package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"contentadmin/internal/forms"
	"contentadmin/internal/listview"
	"contentadmin/internal/models"
	"contentadmin/internal/payload"
	"contentadmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

// fakeBackend — REST-бэкенд контента: справочники отвечают фиксированными
// списками, остальные запросы записываются и обрабатываются по routes.
type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/categories":
		_, _ = io.WriteString(w, `[{"_id":"c1","name":{"en":"Knee"}},{"_id":"c2","name":{"en":"Back"}}]`)
		return
	case r.Method == http.MethodGet && r.URL.Path == "/blogs":
		_, _ = io.WriteString(w, `{"items":[{"_id":"b1","title":{"en":"Rehab blog"}}],"total":1}`)
		return
	case r.Method == http.MethodGet && r.URL.Path == "/instructors":
		_, _ = io.WriteString(w, `[{"_id":"i1","name":"Nino"}]`)
		return
	case r.Method == http.MethodGet && r.URL.Path == "/sets":
		_, _ = io.WriteString(w, `[{"_id":"s1","name":{"en":"Knee set"}}]`)
		return
	}

	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.requests = append(b.requests, recorded{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
	})
	h := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if h == nil {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"route not found"}`)
		return
	}
	h(w, r)
}

func (b *fakeBackend) calls() []recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]recorded, len(b.requests))
	copy(out, b.requests)
	return out
}

func reply(status int, body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newTestRegistry(t *testing.T, routes map[string]func(http.ResponseWriter, *http.Request)) (*Registry, *fakeBackend, repository.DraftRepository) {
	t.Helper()
	backend := &fakeBackend{routes: routes}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	drafts := repository.NewMemoryDraftRepository()
	client := repository.NewClient(srv.URL, 5*time.Second)
	return NewRegistry(client, payload.NewBuilder(0), drafts), backend, drafts
}

func validArticle(t *testing.T, svc EntityService) *forms.State {
	t.Helper()
	st := svc.NewState()
	require.NoError(t, st.Merge(map[string]any{
		"title":      map[string]any{"en": "Knee pain", "ka": "მუხლი"},
		"content":    map[string]any{"en": "<p>Body</p>"},
		"blogId":     "b1",
		"categoryId": "c1",
	}))
	return st
}

func TestSubmit_ValidationErrorMakesNoBackendCall(t *testing.T) {
	reg, backend, drafts := newTestRegistry(t, nil)
	svc, ok := reg.Get(forms.EntityArticles)
	require.True(t, ok)

	st := svc.NewState()
	require.NoError(t, st.SetLocalized("title", "ka", "მხოლოდ ქართულად"))

	_, err := svc.Submit(context.Background(), "", st)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "content")
	assert.NotEmpty(t, verr.Message)
	assert.Empty(t, backend.calls(), "при ошибке проверки запрос к бэкенду не отправляется")
	assert.False(t, st.Loading)

	_, err = drafts.Get(context.Background(), forms.EntityArticles, "")
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)
}

func TestSubmit_UnknownReference(t *testing.T) {
	reg, backend, _ := newTestRegistry(t, nil)
	svc, _ := reg.Get(forms.EntityArticles)

	st := validArticle(t, svc)
	require.NoError(t, st.SetText("blogId", "missing"))

	_, err := svc.Submit(context.Background(), "", st)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "blogId")
	assert.Empty(t, backend.calls())
}

func TestSubmit_CreateSendsJSON(t *testing.T) {
	reg, backend, _ := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /articles": reply(http.StatusCreated, `{"_id":"a1","title":{"en":"Knee pain"}}`),
	})
	svc, _ := reg.Get(forms.EntityArticles)

	out, err := svc.Submit(context.Background(), "", validArticle(t, svc))
	require.NoError(t, err)
	a, ok := out.(*models.Article)
	require.True(t, ok)
	assert.Equal(t, "a1", a.ID)

	calls := backend.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "application/json", calls[0].ContentType)
	assert.Contains(t, calls[0].Body, `"slug":"knee-pain"`)
	assert.Contains(t, calls[0].Body, `"tags":[]`)
}

func TestSubmit_TransportFailureSavesDraftAndSuccessClearsIt(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	reg, _, drafts := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"PATCH /articles/a1": func(w http.ResponseWriter, r *http.Request) {
			if fail.Load() {
				reply(http.StatusInternalServerError, `{"message":"db down"}`)(w, r)
				return
			}
			reply(http.StatusOK, `{"_id":"a1"}`)(w, r)
		},
	})
	svc, _ := reg.Get(forms.EntityArticles)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "a1", validArticle(t, svc))
	require.Error(t, err)
	status, ok := repository.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, status)

	st, d, err := svc.Draft(ctx, "a1")
	require.NoError(t, err)
	assert.Contains(t, d.Error, "db down")
	assert.Equal(t, "Knee pain", st.Localized("title").Get("en"))

	fail.Store(false)
	_, err = svc.Submit(ctx, "a1", st)
	require.NoError(t, err)
	_, err = drafts.Get(ctx, forms.EntityArticles, "a1")
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)
}

func TestSubmit_FileGoesMultipart(t *testing.T) {
	reg, backend, _ := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /categories": reply(http.StatusCreated, `{"_id":"c9"}`),
	})
	svc, _ := reg.Get(forms.EntityCategories)

	st := svc.NewState()
	require.NoError(t, st.SetLocalized("name", "en", "Shoulder"))
	require.NoError(t, st.SetMedia("image", models.MediaFromFile(&models.File{
		Name: "s.txt", ContentType: "text/plain", Data: []byte("not an image"),
	})))

	_, err := svc.Submit(context.Background(), "", st)
	require.NoError(t, err)

	calls := backend.calls()
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0].ContentType, "multipart/form-data"))
	assert.Contains(t, calls[0].Body, `filename="s.txt"`)
}

func TestSubcategories_ScopedToParent(t *testing.T) {
	reg, backend, _ := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /categories/c1/subcategories": reply(http.StatusCreated, `{"_id":"sc1","parentId":"c1"}`),
		"GET /categories/c1/subcategories":  reply(http.StatusOK, `[{"_id":"sc1","parentId":{"_id":"c1"}}]`),
	})
	svc, _ := reg.Get(forms.EntitySubcategories)
	ctx := context.Background()

	st := svc.NewState()
	require.NoError(t, st.SetLocalized("name", "en", "Meniscus"))
	require.NoError(t, st.SetText("parentId", "c1"))
	_, err := svc.Submit(ctx, "", st)
	require.NoError(t, err)

	_, err = svc.List(ctx, "", models.NewFilterState())
	assert.ErrorIs(t, err, ErrScopeRequired)

	res, err := svc.List(ctx, "c1", models.NewFilterState())
	require.NoError(t, err)
	items, ok := res.Items.([]models.SubCategory)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "c1", items[0].CategoryRef())

	calls := backend.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/categories/c1/subcategories", calls[0].Path)
}

func TestExercises_PopularAndStatusToggle(t *testing.T) {
	reg, backend, _ := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"PATCH /exercises/e1/popular": reply(http.StatusOK, `{"_id":"e1","isPopular":true}`),
		"PATCH /exercises/e1":         reply(http.StatusOK, `{"_id":"e1","isPublished":true}`),
	})
	svc, _ := reg.Get(forms.EntityExercises)
	ctx := context.Background()

	out, err := svc.Toggle(ctx, "e1", "isPopular", true)
	require.NoError(t, err)
	assert.True(t, out.(*models.Exercise).IsPopular)

	out, err = svc.Toggle(ctx, "e1", svc.StatusField(), true)
	require.NoError(t, err)
	assert.True(t, out.(*models.Exercise).IsPublished)

	_, err = svc.Toggle(ctx, "e1", "price", true)
	assert.ErrorIs(t, err, ErrUnknownToggle)

	calls := backend.calls()
	require.Len(t, calls, 2)
	assert.JSONEq(t, `{"isPopular":true}`, calls[0].Body)
	assert.JSONEq(t, `{"isPublished":true}`, calls[1].Body)
}

func TestToggle_EmptyResponseReturnsFreshRecord(t *testing.T) {
	reg, backend, _ := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"PATCH /exercises/e1/popular": reply(http.StatusNoContent, ""),
		"PATCH /exercises/e1":         reply(http.StatusNoContent, ""),
		"GET /exercises/e1":           reply(http.StatusOK, `{"_id":"e1","isPopular":true,"isPublished":true}`),
	})
	svc, _ := reg.Get(forms.EntityExercises)
	ctx := context.Background()

	out, err := svc.Toggle(ctx, "e1", "isPopular", true)
	require.NoError(t, err)
	assert.Equal(t, "e1", out.(*models.Exercise).ID)
	assert.True(t, out.(*models.Exercise).IsPopular)

	out, err = svc.Toggle(ctx, "e1", svc.StatusField(), true)
	require.NoError(t, err)
	assert.Equal(t, "e1", out.(*models.Exercise).ID)

	var gets int
	for _, c := range backend.calls() {
		if c.Method == http.MethodGet && c.Path == "/exercises/e1" {
			gets++
		}
	}
	assert.Equal(t, 2, gets)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	reg, backend, _ := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"DELETE /sets/s1": reply(http.StatusNoContent, ""),
	})
	svc, _ := reg.Get(forms.EntitySets)
	ctx := context.Background()

	err := svc.Delete(ctx, "s1", listview.Always(false))
	assert.ErrorIs(t, err, listview.ErrNotConfirmed)
	assert.Empty(t, backend.calls())

	require.NoError(t, svc.Delete(ctx, "s1", listview.Always(true)))
	require.Len(t, backend.calls(), 1)
}

func TestBulkDelete_UsesBulkEndpoint(t *testing.T) {
	reg, backend, _ := newTestRegistry(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /articles/bulk-delete": reply(http.StatusOK, `{"deleted":2}`),
	})
	svc, _ := reg.Get(forms.EntityArticles)

	res, err := svc.BulkDelete(context.Background(), []string{"a1", "a2"}, listview.Always(true))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "a2"}, res.Deleted)

	calls := backend.calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"ids":["a1","a2"]}`, calls[0].Body)
}

func TestLookups_LoadConcurrently(t *testing.T) {
	reg, _, _ := newTestRegistry(t, nil)

	all, err := reg.Lookups.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, []Option{{ID: "i1", Label: "Nino"}}, all[forms.EntityInstructors])
	assert.Equal(t, "Rehab blog", all[forms.EntityBlogs][0].Label)

	_, err = reg.Lookups.Load(context.Background(), "unknown")
	assert.Error(t, err)
}

func TestLookups_FailedSourceIsSkipped(t *testing.T) {
	svc := NewLookupService(map[string]OptionSource{
		forms.EntityCategories: func(context.Context) ([]Option, error) { return []Option{{ID: "c1"}}, nil },
		forms.EntityBlogs:      func(context.Context) ([]Option, error) { return nil, errors.New("down") },
	})
	lookups := svc.ForSchema(context.Background(), forms.ArticleSchema)
	assert.Contains(t, lookups, forms.EntityCategories)
	assert.NotContains(t, lookups, forms.EntityBlogs)

	_, err := svc.Load(context.Background())
	assert.Error(t, err)
}

func TestRegistry_AllEntities(t *testing.T) {
	reg, _, _ := newTestRegistry(t, nil)
	assert.Len(t, reg.Entities(), len(forms.Schemas))
	for name := range forms.Schemas {
		svc, ok := reg.Get(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, svc.StatusField(), name)
	}
}

// bareArrayCategories отдаёт total категорий голыми массивами по page/limit.
func bareArrayCategories(total int, created *atomic.Bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/categories":
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			var rows []string
			for i := (page-1)*limit + 1; i <= page*limit && i <= total; i++ {
				rows = append(rows, fmt.Sprintf(`{"_id":"c%d","name":{"en":"Category %d"}}`, i, i))
			}
			_, _ = io.WriteString(w, "["+strings.Join(rows, ",")+"]")
		case r.Method == http.MethodPost && r.URL.Path == "/blogs":
			created.Store(true)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"_id":"b9"}`)
		default:
			_, _ = io.WriteString(w, `[]`)
		}
	}
}

func TestLookups_BareArrayPagesBeyondFirst(t *testing.T) {
	var created atomic.Bool
	srv := httptest.NewServer(bareArrayCategories(150, &created))
	t.Cleanup(srv.Close)
	client := repository.NewClient(srv.URL, 5*time.Second)
	reg := NewRegistry(client, payload.NewBuilder(0), repository.NewMemoryDraftRepository())

	all, err := reg.Lookups.Load(context.Background(), forms.EntityCategories)
	require.NoError(t, err)
	cats := all[forms.EntityCategories]
	require.Len(t, cats, 150)
	assert.Equal(t, Option{ID: "c120", Label: "Category 120"}, cats[119])

	svc, _ := reg.Get(forms.EntityBlogs)
	st := svc.NewState()
	require.NoError(t, st.Merge(map[string]any{
		"title":      map[string]any{"en": "Shoulder"},
		"categoryId": "c120",
	}))
	_, err = svc.Submit(context.Background(), "", st)
	require.NoError(t, err)
	assert.True(t, created.Load())
}

func TestLookups_ServerIgnoringPageStops(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		rows := make([]string, 100)
		for i := range rows {
			rows[i] = fmt.Sprintf(`{"_id":"c%d"}`, i)
		}
		_, _ = io.WriteString(w, "["+strings.Join(rows, ",")+"]")
	}))
	t.Cleanup(srv.Close)

	res := repository.NewResource[models.Category](repository.NewClient(srv.URL, 5*time.Second), "/categories")
	opts, err := OptionsFrom(res, func(c models.Category) string { return c.GetID() })(context.Background())
	require.NoError(t, err)
	assert.Len(t, opts, 100)
	assert.Equal(t, int32(2), calls.Load())
}
