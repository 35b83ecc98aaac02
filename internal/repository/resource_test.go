package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"contentadmin/internal/models"
	"contentadmin/internal/payload"
	"contentadmin/internal/reqctx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestDo_ErrorMessageFromBody(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message string", `{"message":"Title is required"}`, "Title is required"},
		{"message array", `{"message":["a","b"]}`, "a; b"},
		{"error field", `{"error":"boom"}`, "boom"},
		{"not json", `<html>oops</html>`, "Bad Request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tc.body)
			})
			err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)
			require.Error(t, err)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestDo_ContentTypeFollowsEncoding(t *testing.T) {
	var got []string
	var mu sync.Mutex
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Header.Get("Content-Type"))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.Background()
	require.NoError(t, c.Do(ctx, http.MethodPost, "/a", nil, payload.FromJSON(map[string]any{"x": 1}), nil))
	mp := &payload.Payload{
		Encoding: payload.EncodingMultipart,
		Fields:   []payload.Part{{Name: "name", Value: "v"}},
		Files:    []payload.FilePart{{Field: "image", Filename: "a.png", ContentType: "image/png", Data: []byte{1}}},
	}
	require.NoError(t, c.Do(ctx, http.MethodPost, "/a", nil, mp, nil))

	require.Len(t, got, 2)
	assert.Equal(t, "application/json", got[0])
	assert.True(t, strings.HasPrefix(got[1], "multipart/form-data; boundary="), "получено: %s", got[1])
}

func TestDo_ForwardsRequestID(t *testing.T) {
	var rid string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rid = r.Header.Get(reqctx.HeaderRequestID)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := reqctx.WithRequestID(context.Background(), "req-1")
	require.NoError(t, c.Do(ctx, http.MethodGet, "/x", nil, nil, nil))
	assert.Equal(t, "req-1", rid)
}

func TestDo_CancelledContextAbortsRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Do(ctx, http.MethodGet, "/slow", nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestList_NormalizesResponseShapes(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantLen   int
		wantTotal int
		wantKnown bool
	}{
		{"bare array", `[{"_id":"1"},{"_id":"2"}]`, 2, 2, false},
		{"items and total", `{"items":[{"_id":"1"}],"total":17}`, 1, 17, true},
		{"data and pagination", `{"data":[{"_id":"1"},{"_id":"2"}],"pagination":{"total":40}}`, 2, 40, true},
		{"empty object", `{}`, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tc.body)
			})
			res := NewResource[models.Category](c, "/categories")
			page, err := res.List(context.Background(), models.NewFilterState())
			require.NoError(t, err)
			assert.Len(t, page.Items, tc.wantLen)
			assert.Equal(t, tc.wantTotal, page.Total)
			assert.Equal(t, tc.wantKnown, page.TotalKnown)
			assert.NotNil(t, page.Items)
		})
	}
}

func TestList_QueryParams(t *testing.T) {
	var query map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = io.WriteString(w, `[]`)
	})
	res := NewResource[models.Exercise](c, "/exercises", WithParam("categoryId", "setId"))

	f := models.NewFilterState()
	f.Status = models.StatusPublished
	f.Search = "  knee "
	f.CategoryID = "s1"
	f.Page = 3
	f.Limit = 500
	_, err := res.List(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, []string{"published"}, query["status"])
	assert.Equal(t, []string{"knee"}, query["search"])
	assert.Equal(t, []string{"s1"}, query["setId"])
	assert.Empty(t, query["categoryId"])
	assert.Equal(t, []string{"3"}, query["page"])
	assert.Equal(t, []string{"100"}, query["limit"])
}

func TestGet_PopulatedReferences(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"_id":"a1","title":{"en":"T"},"categoryId":{"_id":"c1","name":{"en":"Knee"}},"blogId":"b1"}`)
	})
	res := NewResource[models.Article](c, "/articles")
	a, err := res.Get(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "c1", a.CategoryRef())
	assert.Equal(t, models.Ref("b1"), a.BlogID)
}

func TestUpdate_UsesPatch(t *testing.T) {
	var method, path string
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"_id":"b1","isActive":true}`)
	})
	res := NewResource[models.Blog](c, "/blogs")
	b, err := res.Toggle(context.Background(), "b1", "isActive", true)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/blogs/b1", path)
	assert.Equal(t, map[string]any{"isActive": true}, body)
	assert.True(t, b.IsActive)
}

func TestBulkDelete_PartialFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sets/bad" {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"message":"set has exercises"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	res := NewResource[models.Set](c, "/sets")
	out, err := res.BulkDelete(context.Background(), []string{"a", "bad", "b"})
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, out.Deleted)
	require.Contains(t, out.Failed, "bad")
	status, ok := StatusOf(out.Failed["bad"])
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, out.FailedMessages()["bad"], "set has exercises")
}

func TestBulkDelete_BulkEndpoint(t *testing.T) {
	var calls int
	var body map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/articles/bulk-delete", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})
	res := NewResource[models.Article](c, "/articles", WithBulkPath("/articles/bulk-delete"))
	out, err := res.BulkDelete(context.Background(), []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"1", "2"}, body["ids"])
	assert.Equal(t, []string{"1", "2"}, out.Deleted)
}

func TestScoped(t *testing.T) {
	res := NewResource[models.SubCategory](nil, "/subcategories", WithScope("/categories/%s/subcategories"))
	p, err := res.Scoped("c1")
	require.NoError(t, err)
	assert.Equal(t, "/categories/c1/subcategories", p)

	_, err = res.Scoped(" ")
	assert.Error(t, err)

	plain := NewResource[models.Set](nil, "/sets")
	p, err = plain.Scoped("")
	require.NoError(t, err)
	assert.Equal(t, "/sets", p)
}

func TestMemoryDrafts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDraftRepository()

	_, err := repo.Get(ctx, "courses", "")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	d := &Draft{Entity: "courses", Data: []byte(`{"price":"1"}`), Error: "backend 500"}
	require.NoError(t, repo.Save(ctx, d))
	assert.False(t, d.UpdatedAt.IsZero())

	got, err := repo.Get(ctx, "courses", "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"1"}`, string(got.Data))

	list, err := repo.List(ctx, "courses")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "courses", ""))
	_, err = repo.Get(ctx, "courses", "")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}
