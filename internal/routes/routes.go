package routes

import (
	"net/http"

	"contentadmin/internal/handlers"
	"contentadmin/internal/middleware"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

func InitRoutes(
	router *mux.Router,
	entityH *handlers.EntityHandler,
	lookupH *handlers.LookupHandler,
	activityH *handlers.ActivityHandler,
) {
	router.Use(middleware.RequestID, middleware.Logging, middleware.Recoverer)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	admin := router.PathPrefix("/api/admin").Subrouter()

	// --- Справочники и журнал (до общих маршрутов сущностей) ---
	admin.HandleFunc("/lookups", lookupH.Get).Methods(http.MethodGet)
	admin.HandleFunc("/activity", activityH.List).Methods(http.MethodGet)
	admin.HandleFunc("/activity/days", activityH.Days).Methods(http.MethodGet)
	admin.HandleFunc("/activity/stats", activityH.Stats).Methods(http.MethodGet)

	// --- Упражнения: комплекс и «популярное» ---
	admin.HandleFunc("/exercises/by-set/{setId}", entityH.ListBySet).Methods(http.MethodGet)
	admin.HandleFunc("/exercises/{id}/popular", entityH.SetPopular).Methods(http.MethodPatch)

	// --- Сущности ---
	admin.HandleFunc("/{entity}", entityH.List).Methods(http.MethodGet)
	admin.HandleFunc("/{entity}", entityH.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{entity}/new", entityH.NewForm).Methods(http.MethodGet)
	admin.HandleFunc("/{entity}/draft", entityH.Draft).Methods(http.MethodGet)
	admin.HandleFunc("/{entity}/drafts", entityH.Drafts).Methods(http.MethodGet)
	admin.HandleFunc("/{entity}/validate", entityH.Validate).Methods(http.MethodPost)
	admin.HandleFunc("/{entity}/bulk-delete", entityH.BulkDelete).Methods(http.MethodPost)
	admin.HandleFunc("/{entity}/{id}/form", entityH.EditForm).Methods(http.MethodGet)
	admin.HandleFunc("/{entity}/{id}/status", entityH.SetStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/{entity}/{id}", entityH.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/{entity}/{id}", entityH.Delete).Methods(http.MethodDelete)
}
