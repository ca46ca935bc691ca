// @title         Chirp API
// @version       0.1.0
// @description   Emoji only posts with an author joined feed

package main

import (
	"context"
	"os/signal"
	"syscall"

	"chirp/internal/platform/config"
	"chirp/internal/platform/logger"
	phttp "chirp/internal/platform/net/http"
	"chirp/internal/platform/store"

	"chirp/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*
	rdCfg := root.Prefix("SERVICE_REDIS_") // rdCfg lives under SERVICE_REDIS_*

	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres + redis)
	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "chirp-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			RDS: store.RedisConfig{
				Enabled:  true,
				Addr:     rdCfg.MustString("ADDR"),
				Password: rdCfg.MayString("PASSWORD", ""),
				DB:       rdCfg.MayInt("DB", 0),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run until interrupted, then drain
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
