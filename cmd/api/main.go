package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "github.com/gsindri/hotelfinder-worker/internal/adapters/http_server"
	"github.com/gsindri/hotelfinder-worker/internal/adapters/observability"
	redisad "github.com/gsindri/hotelfinder-worker/internal/adapters/redis"
	"github.com/gsindri/hotelfinder-worker/internal/adapters/search"
	"github.com/gsindri/hotelfinder-worker/internal/app"
	"github.com/gsindri/hotelfinder-worker/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	client, err := search.New(cfg.SearchBase, cfg.SearchKey, cfg.SearchRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize search client")
	}

	bg := app.NewBackground(int64(cfg.BGWrites), log.Logger)
	resolver := app.NewResolver(cache, client, bg, log.Logger)

	srv := server.New(cfg.AllowedOrigins, cfg.RateLimitRPM)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{R: resolver, DefaultRegion: cfg.DefaultRegion})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	// drain detached cache writes before exiting
	bg.Wait()
	log.Info().Msg("shutdown complete")
}
