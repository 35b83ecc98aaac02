package middleware

import (
	"net/http"
	"strings"

	"contentadmin/internal/reqctx"

	"github.com/google/uuid"
)

// RequestID берёт X-Request-ID клиента или выдаёт новый и кладёт его в контекст.
// Тот же id уходит на бэкенд и попадает во все записи лога запроса.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(reqctx.HeaderRequestID))
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		w.Header().Set(reqctx.HeaderRequestID, rid)
		next.ServeHTTP(w, r.WithContext(reqctx.WithRequestID(r.Context(), rid)))
	})
}
