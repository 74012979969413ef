package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"center_catalog/internal/adapters/catalog"
	server "center_catalog/internal/adapters/http_server"
	"center_catalog/internal/adapters/observability"
	"center_catalog/internal/app"
	"center_catalog/internal/domain"
	"center_catalog/internal/shared"
	filestore "center_catalog/internal/storage/file"
	mysqlstore "center_catalog/internal/storage/mysql"
	"center_catalog/internal/storage/redisstore"
)

func newStateStore(ctx context.Context, cfg shared.Config) domain.StateStore {
	switch cfg.StorageBackend {
	case "redis":
		return redisstore.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		st := mysqlstore.New(db)
		if err := st.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("state table migration failed")
		}
		return st
	default:
		return filestore.New(cfg.StatePath)
	}
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// deps
	st := newStateStore(ctx, cfg)
	store := app.NewCommentStore(st)
	store.Load(ctx)

	sess := app.NewSessionContext(st, store)
	sess.Load(ctx)

	client, err := catalog.New(cfg.UpstreamBase, cfg.UpstreamRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize catalog client")
	}
	syncSvc := app.NewSyncService(client, store)
	views := app.NewViewService(store, syncSvc, cfg.SyncWorkers)

	// Initial catalog pull. On failure the gateway still serves whatever
	// the state store remembered; /v1/refresh can retry later.
	if centers, err := client.ListCenters(ctx); err != nil {
		log.Warn().Err(err).Msg("initial catalog fetch failed, serving cached state")
	} else {
		log.Info().Int("centers", len(centers)).Msg("catalog loaded")
		views.SetCatalog(ctx, centers)
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Views: views, Sync: syncSvc, Session: sess, Client: client})

	log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.StorageBackend).Msg("gateway listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
