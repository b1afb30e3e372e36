package redisad

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gsindri/hotelfinder-worker/internal/adapters/observability"
)

type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache(keyspace(key), "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache(keyspace(key), "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache(keyspace(key), "set")
	return r.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache(keyspace(key), "del")
	return r.c.Del(ctx, key).Err()
}

// keyspace maps a cache key onto its metrics label so hit rates can be
// tracked per resolution tier rather than lumped under one counter.
func keyspace(key string) string {
	if strings.HasPrefix(key, "ctx:") {
		return "ctx"
	}
	if strings.HasPrefix(key, "tok:") {
		// tok:{region}:{kind}:{rest}
		parts := strings.SplitN(key, ":", 4)
		if len(parts) >= 3 {
			switch parts[2] {
			case "n":
				return "name"
			case "d":
				return "domain"
			case "b":
				return "slug"
			}
		}
	}
	return "other"
}
