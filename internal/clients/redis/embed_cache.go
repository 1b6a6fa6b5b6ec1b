package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/coursematch/coursematch-backend/internal/platform/envutil"
	"github.com/coursematch/coursematch-backend/internal/platform/logger"
)

// EmbedCache caches query-text embeddings so repeat searches skip the
// embedding API. Lookups are best effort: any Redis failure reads as a miss
// and writes are fire-and-forget.
type EmbedCache interface {
	Get(ctx context.Context, model, text string) ([]float32, bool)
	Set(ctx context.Context, model, text string, embedding []float32)
}

type embedCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewEmbedCache connects to REDIS_ADDR. Callers treat a nil cache as
// disabled; construction fails only when the address is set but unreachable.
func NewEmbedCache(log *logger.Logger) (EmbedCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttlHours := envutil.GetEnvAsInt("REDIS_EMBED_TTL_HOURS", 24, log)
	if ttlHours <= 0 {
		ttlHours = 24
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &embedCache{
		log: log.With("service", "RedisEmbedCache"),
		rdb: rdb,
		ttl: time.Duration(ttlHours) * time.Hour,
	}, nil
}

func (c *embedCache) Get(ctx context.Context, model, text string) ([]float32, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, cacheKey(model, text)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("embed cache read failed", "error", err)
		}
		return nil, false
	}

	var embedding []float32
	if err := json.Unmarshal(raw, &embedding); err != nil {
		c.log.Warn("embed cache entry corrupt", "error", err)
		return nil, false
	}
	if len(embedding) == 0 {
		return nil, false
	}
	return embedding, true
}

func (c *embedCache) Set(ctx context.Context, model, text string, embedding []float32) {
	if c == nil || c.rdb == nil || len(embedding) == 0 {
		return
	}

	raw, err := json.Marshal(embedding)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(model, text), raw, c.ttl).Err(); err != nil {
		c.log.Warn("embed cache write failed", "error", err)
	}
}

func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return "embed:" + model + ":" + hex.EncodeToString(sum[:])
}
