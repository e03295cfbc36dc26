package catalog

import (
	"context"
	"io"
	"net/http"

	product "github.com/angelmondragon/shopcart/internal/products"
	"github.com/angelmondragon/shopcart/pkg/config"
	"github.com/angelmondragon/shopcart/pkg/db"
	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/logger"
	"github.com/angelmondragon/shopcart/pkg/metrics"
	"github.com/angelmondragon/shopcart/pkg/migrate"
	"github.com/angelmondragon/shopcart/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

// Deps carries the process-wide collaborators FromConfig wires in.
type Deps struct {
	Logger     *logger.Logger
	Registerer prometheus.Registerer
	HTTPClient *http.Client
}

// Chain is the configured lookup stack plus the connections it owns.
type Chain struct {
	lookup  lookup
	source  string
	closers []io.Closer
}

func (c *Chain) Lookup(ctx context.Context, name string) (product.Product, bool) {
	return c.lookup.Lookup(ctx, name)
}

// Source names the backing catalog.
func (c *Chain) Source() string {
	return c.source
}

// Close releases every connection opened for the chain.
func (c *Chain) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	return multierr.Combine(errs...)
}

// FromConfig builds source -> redis cache (when configured) -> metrics.
func FromConfig(ctx context.Context, cfg *config.Config, deps Deps) (*Chain, error) {
	if cfg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidDependency, "config required")
	}
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	var recorder *metrics.CatalogMetrics
	if cfg.Metrics.Enabled {
		recorder = metrics.NewCatalogMetrics(deps.Registerer)
	}

	chain := &Chain{source: cfg.Catalog.Source}
	fail := func(err error) (*Chain, error) {
		return nil, multierr.Append(err, chain.Close())
	}

	switch cfg.Catalog.Source {
	case config.CatalogSourceHTTP:
		client := deps.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: cfg.Catalog.Timeout}
		}
		httpCatalog, err := NewHTTPCatalog(HTTPOptions{
			BaseURL:    cfg.Catalog.BaseURL,
			Client:     client,
			MaxRetries: cfg.Catalog.MaxRetries,
			BaseDelay:  cfg.Catalog.BaseDelay,
			Logger:     logg,
			Metrics:    recorder,
		})
		if err != nil {
			return fail(err)
		}
		chain.lookup = httpCatalog

	case config.CatalogSourceStatic:
		chain.lookup = NewStaticCatalog(DefaultProducts())

	case config.CatalogSourceDB:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return fail(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open catalog database"))
		}
		chain.closers = append(chain.closers, dbClient)
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return fail(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "migrate catalog database"))
		}
		dbCatalog, err := NewDBCatalog(dbClient.DB(), logg)
		if err != nil {
			return fail(err)
		}
		chain.lookup = dbCatalog

	default:
		return fail(pkgerrors.New(pkgerrors.CodeInvalidDependency, "unknown catalog source").
			WithDetails(map[string]any{"source": cfg.Catalog.Source}))
	}

	// The static catalog is already in memory.
	if cfg.Redis.Enabled() && cfg.Catalog.Source != config.CatalogSourceStatic {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "catalog cache unavailable, continuing without it")
		} else {
			chain.closers = append(chain.closers, redisClient)
			cached, err := NewCachedCatalog(chain.lookup, redisClient, cfg.Catalog.Source, cfg.Redis.CacheTTL, logg, recorder)
			if err != nil {
				return fail(err)
			}
			chain.lookup = cached
		}
	}

	if recorder != nil {
		chain.lookup = NewInstrumentedCatalog(chain.lookup, cfg.Catalog.Source, recorder)
	}
	return chain, nil
}
