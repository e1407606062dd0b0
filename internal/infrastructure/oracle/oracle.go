package oracle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"yonexus/internal/domain"

	"github.com/cenkalti/backoff/v5"
)

type Source interface {
	Fetch(ctx context.Context, name string) (domain.ExternalInfo, error)
}

// Cache stores the last good snapshot per normalized character name.
type Cache interface {
	Get(ctx context.Context, key string) (domain.ExternalInfo, bool)
	Put(ctx context.Context, key string, info domain.ExternalInfo)
}

type Config struct {
	MaxAttempts     uint
	Timeout         time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		Timeout:         10 * time.Second,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     4 * time.Second,
	}
}

// Oracle wraps a registry Source with bounded retry and a last-known-good
// cache. Writes must use LookupStrict; only reads may use LookupWithFallback.
type Oracle struct {
	source Source
	cache  Cache
	cfg    Config
}

func New(source Source, cache Cache, cfg Config) *Oracle {
	def := DefaultConfig()
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = def.MaxInterval
	}
	return &Oracle{source: source, cache: cache, cfg: cfg}
}

// LookupStrict always performs a live lookup and never serves the cache.
func (o *Oracle) LookupStrict(ctx context.Context, name string) (domain.ExternalInfo, error) {
	info, err := o.fetch(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrCharacterNotFound) {
			return domain.ExternalInfo{}, err
		}
		return domain.ExternalInfo{}, fmt.Errorf("%w: %w", domain.ErrOracleUnavailable, err)
	}
	return info, nil
}

// LookupWithFallback tries a live lookup and, when it fails, serves the last
// cached snapshot. stale reports whether the cache was used.
func (o *Oracle) LookupWithFallback(ctx context.Context, name string) (info domain.ExternalInfo, stale bool, err error) {
	info, err = o.fetch(ctx, name)
	if err == nil {
		return info, false, nil
	}

	if cached, ok := o.cache.Get(ctx, domain.NormalizeName(name)); ok {
		log.Printf("oracle: serving cached snapshot of %q: %v", name, err)
		return cached, true, nil
	}
	return domain.ExternalInfo{}, false, fmt.Errorf("%w: %w", domain.ErrOracleUnavailable, err)
}

func (o *Oracle) fetch(ctx context.Context, name string) (domain.ExternalInfo, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.cfg.InitialInterval
	b.MaxInterval = o.cfg.MaxInterval

	operation := func() (domain.ExternalInfo, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()

		info, err := o.source.Fetch(callCtx, name)
		if err != nil && !errors.Is(err, ErrTransient) {
			return info, backoff.Permanent(err)
		}
		return info, err
	}

	info, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(o.cfg.MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Printf("oracle: lookup of %q failed, retrying in %s: %v", name, next, err)
		}),
	)
	if err != nil {
		return domain.ExternalInfo{}, err
	}

	o.cache.Put(ctx, domain.NormalizeName(name), info)
	return info, nil
}
