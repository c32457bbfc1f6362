package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lingobridge-backend/internal/logger"
	"github.com/yungbote/lingobridge-backend/internal/types"
	"github.com/yungbote/lingobridge-backend/internal/utils"
)

// DefinitionCache keeps hot catalog rows in redis so repeat resolves skip
// the SQL lookup. Usage counters still live in Postgres; the cache only
// short-circuits the read.
type DefinitionCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewDefinitionCache(log *logger.Logger) (*DefinitionCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSec := utils.GetEnvAsInt("REDIS_DEFINITION_TTL_SECONDS", 3600, log)

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

	return &DefinitionCache{
		log: log.With("service", "RedisDefinitionCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSec) * time.Second,
	}, nil
}

func definitionKey(normalizedTerm string) string {
	return "vocab:definition:" + normalizedTerm
}

func (c *DefinitionCache) Get(ctx context.Context, normalizedTerm string) (*types.VocabularyDefinition, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	raw, err := c.rdb.Get(ctx, definitionKey(normalizedTerm)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var def types.VocabularyDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		// Poisoned entry; drop it and fall through to the DB path.
		_ = c.rdb.Del(ctx, definitionKey(normalizedTerm)).Err()
		return nil, fmt.Errorf("decode cached definition: %w", err)
	}
	return &def, nil
}

func (c *DefinitionCache) Set(ctx context.Context, def *types.VocabularyDefinition) error {
	if c == nil || c.rdb == nil || def == nil {
		return nil
	}
	raw, err := json.Marshal(def)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, definitionKey(def.NormalizedTerm), raw, c.ttl).Err()
}

func (c *DefinitionCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
