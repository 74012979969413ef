// Command sync refreshes every center's comments into the local state
// store once, then exits. Useful for warming the cache before the gateway
// starts or from a cron job.
package main

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"center_catalog/internal/adapters/catalog"
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

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.UpstreamBase).
		Int("workers", cfg.SyncWorkers).
		Str("storage", cfg.StorageBackend).
		Msg("sync starting")

	st := newStateStore(ctx, cfg)
	store := app.NewCommentStore(st)
	store.Load(ctx)

	client, err := catalog.New(cfg.UpstreamBase, cfg.UpstreamRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize catalog client")
	}

	centers, err := client.ListCenters(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog fetch failed")
	}
	log.Info().Int("centers", len(centers)).Msg("catalog loaded")

	syncSvc := app.NewSyncService(client, store)
	syncSvc.RefreshAll(ctx, centers, cfg.SyncWorkers)

	log.Info().Msg("sync completed")
}
