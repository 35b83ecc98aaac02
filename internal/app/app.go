package app

import (
	"context"

	"contentadmin/internal/config"
	"contentadmin/internal/db"
	"contentadmin/internal/handlers"
	"contentadmin/internal/logger"
	"contentadmin/internal/payload"
	"contentadmin/internal/repository"
	"contentadmin/internal/routes"
	"contentadmin/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// App — собранный роутер и ресурсы, которые нужно закрыть при остановке.
type App struct {
	Router *mux.Router
	close  []func()
}

func (a *App) Close() {
	for i := len(a.close) - 1; i >= 0; i-- {
		a.close[i]()
	}
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	// Черновики: Postgres, если задан DB_HOST, иначе память процесса
	drafts := repository.NewMemoryDraftRepository()
	if cfg.DraftsInDB() {
		pool, err := db.NewPostgresConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.close = append(a.close, pool.Close)
		drafts = repository.NewDraftRepository(pool)
		logger.Log.Info("Черновики хранятся в Postgres", zap.String("dsn", cfg.GetDSNSafe()))
	}

	// Клиент бэкенда
	var opts []repository.Option
	if cfg.APIRPS > 0 {
		opts = append(opts, repository.WithRateLimit(cfg.APIRPS, cfg.APIBurst))
	}
	client := repository.NewClient(cfg.APIURL, cfg.APITimeout, opts...)

	// Сервисы
	builder := payload.NewBuilder(cfg.MaxImageDimension)
	reg := services.NewRegistry(client, builder, drafts)

	// Хендлеры
	entityH := handlers.NewEntityHandler(reg, cfg.MaxUploadMB)
	lookupH := handlers.NewLookupHandler(reg.Lookups)
	activityH := handlers.NewActivityHandler(cfg.LogDir)

	// Маршруты
	a.Router = mux.NewRouter()
	routes.InitRoutes(a.Router, entityH, lookupH, activityH)

	logger.Log.Info("Приложение собрано",
		zap.String("api", cfg.APIURL),
		zap.Strings("entities", reg.Entities()),
	)
	return a, nil
}
