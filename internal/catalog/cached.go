package catalog

import (
	"context"
	"strings"
	"time"

	product "github.com/angelmondragon/shopcart/internal/products"
	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/logger"
	"github.com/angelmondragon/shopcart/pkg/metrics"
	"github.com/angelmondragon/shopcart/pkg/redis"
)

type lookup interface {
	Lookup(ctx context.Context, name string) (product.Product, bool)
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CatalogKey(source, name string) string
}

// CachedCatalog keeps hits from inner in Redis for ttl. Misses are not
// cached, unreadable entries are deleted, and cache failures fall through
// to inner.
type CachedCatalog struct {
	inner   lookup
	store   cacheStore
	source  string
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.CatalogMetrics
}

func NewCachedCatalog(inner lookup, store cacheStore, source string, ttl time.Duration, logg *logger.Logger, m *metrics.CatalogMetrics) (*CachedCatalog, error) {
	if inner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidDependency, "inner catalog required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidDependency, "cache store required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &CachedCatalog{
		inner:   inner,
		store:   store,
		source:  source,
		ttl:     ttl,
		logg:    logg,
		metrics: m,
	}, nil
}

func (c *CachedCatalog) Lookup(ctx context.Context, name string) (product.Product, bool) {
	if strings.TrimSpace(name) == "" {
		return product.Product{}, false
	}
	key := c.store.CatalogKey(c.source, name)
	logCtx := c.logg.WithProduct(ctx, name)

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		p, decodeErr := product.DecodeJSON(strings.NewReader(raw))
		if decodeErr == nil {
			c.metrics.IncCache(metrics.CacheHit)
			return p, true
		}
		c.metrics.IncCache(metrics.CacheError)
		c.logg.Warn(c.logg.WithField(logCtx, "error", decodeErr.Error()), "discarding unreadable cache entry")
		if delErr := c.store.Del(ctx, key); delErr != nil {
			c.logg.Warn(c.logg.WithField(logCtx, "error", delErr.Error()), "catalog cache delete failed")
		}
	case redis.IsMiss(err):
		c.metrics.IncCache(metrics.CacheMiss)
	default:
		c.metrics.IncCache(metrics.CacheError)
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "catalog cache read failed")
	}

	p, ok := c.inner.Lookup(ctx, name)
	if !ok {
		return product.Product{}, false
	}

	encoded, err := p.MarshalJSON()
	if err == nil {
		err = c.store.Set(ctx, key, string(encoded), c.ttl)
	}
	if err != nil {
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "catalog cache write failed")
	}
	return p, true
}
