package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"yonexus/internal/domain"

	"github.com/redis/go-redis/v9"
)

// CharacterCache is the Redis-backed last-known-good store for registry
// snapshots, shared by every API instance. A zero ttl keeps entries forever.
type CharacterCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCharacterCache(client *redis.Client, ttl time.Duration) *CharacterCache {
	return &CharacterCache{client: client, ttl: ttl}
}

func (c *CharacterCache) Get(ctx context.Context, key string) (domain.ExternalInfo, bool) {
	val, err := c.client.Get(ctx, "character:"+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("character cache: get %q: %v", key, err)
		}
		return domain.ExternalInfo{}, false
	}

	var info domain.ExternalInfo
	if err := json.Unmarshal(val, &info); err != nil {
		log.Printf("character cache: decode %q: %v", key, err)
		return domain.ExternalInfo{}, false
	}
	return info, true
}

func (c *CharacterCache) Put(ctx context.Context, key string, info domain.ExternalInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, "character:"+key, data, c.ttl).Err(); err != nil {
		log.Printf("character cache: put %q: %v", key, err)
	}
}
