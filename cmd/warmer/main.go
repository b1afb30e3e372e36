// cmd/warmer resolves a newline-delimited list of hotel queries to
// pre-populate the token caches. Each line is "name" or "name|domain".
package main

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/gsindri/hotelfinder-worker/internal/adapters/observability"
	redisad "github.com/gsindri/hotelfinder-worker/internal/adapters/redis"
	"github.com/gsindri/hotelfinder-worker/internal/adapters/search"
	"github.com/gsindri/hotelfinder-worker/internal/app"
	"github.com/gsindri/hotelfinder-worker/internal/domain"
	"github.com/gsindri/hotelfinder-worker/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.SearchBase).
		Int("workers", cfg.WarmWorkers).
		Msg("warmer starting")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	client, err := search.New(cfg.SearchBase, cfg.SearchKey, cfg.SearchRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize search client")
	}
	bg := app.NewBackground(int64(cfg.BGWrites), log.Logger)
	resolver := app.NewResolver(cache, client, bg, log.Logger)

	sem := semaphore.NewWeighted(int64(cfg.WarmWorkers))
	var wg sync.WaitGroup

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, dom, _ := strings.Cut(line, "|")

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(name, dom string) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := resolver.Resolve(ctx, app.ResolveRequest{
				Region:         cfg.DefaultRegion,
				HotelName:      strings.TrimSpace(name),
				OfficialDomain: strings.TrimSpace(dom),
			})
			if err != nil {
				if errors.Is(err, domain.ErrNoProperty) {
					log.Warn().Str("name", name).Msg("no property found")
				} else {
					log.Warn().Str("name", name).Err(err).Msg("warm failed")
				}
				return
			}
			log.Info().
				Str("name", name).
				Str("token", res.Token).
				Str("tier", res.Tier).
				Float64("confidence", res.Confidence).
				Msg("warm ok")
		}(name, dom)
	}
	if err := sc.Err(); err != nil {
		log.Error().Err(err).Msg("stdin read failed")
	}

	wg.Wait()
	bg.Wait()
	log.Info().Msg("warming completed")
}
