package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"contentadmin/internal/handlers"
	"contentadmin/internal/payload"
	"contentadmin/internal/reqctx"
	"contentadmin/internal/repository"
	"contentadmin/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	client := repository.NewClient("http://127.0.0.1:1", 0)
	reg := services.NewRegistry(client, payload.NewBuilder(0), repository.NewMemoryDraftRepository())

	r := mux.NewRouter()
	InitRoutes(r,
		handlers.NewEntityHandler(reg, 1),
		handlers.NewLookupHandler(reg.Lookups),
		handlers.NewActivityHandler(t.TempDir()),
	)
	return r
}

func TestRoutes_SpecificBeforeEntity(t *testing.T) {
	r := newRouter(t)

	cases := []struct {
		method, path, name, entity string
	}{
		{http.MethodGet, "/api/admin/lookups", "lookups", ""},
		{http.MethodGet, "/api/admin/activity/days", "activity", ""},
		{http.MethodGet, "/api/admin/exercises/by-set/s1", "by-set", ""},
		{http.MethodPatch, "/api/admin/exercises/e1/popular", "popular", ""},
		{http.MethodGet, "/api/admin/articles/new", "new", "articles"},
		{http.MethodGet, "/api/admin/articles/drafts", "drafts", "articles"},
		{http.MethodGet, "/api/admin/articles/a1/form", "form", "articles"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var match mux.RouteMatch
			req := httptest.NewRequest(tc.method, tc.path, nil)
			assert.True(t, r.Match(req, &match))
			assert.NotNil(t, match.Route)
			assert.Equal(t, tc.entity, match.Vars["entity"])
		})
	}
}

func TestRoutes_RequestIDAndUnknownEntity(t *testing.T) {
	r := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/podcasts/new", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(reqctx.HeaderRequestID))
}
