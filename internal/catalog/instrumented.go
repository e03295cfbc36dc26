package catalog

import (
	"context"
	"time"

	product "github.com/angelmondragon/shopcart/internal/products"
	"github.com/angelmondragon/shopcart/pkg/metrics"
)

// InstrumentedCatalog records outcome and latency of every lookup on inner.
type InstrumentedCatalog struct {
	inner   lookup
	source  string
	metrics *metrics.CatalogMetrics
	now     func() time.Time
}

func NewInstrumentedCatalog(inner lookup, source string, m *metrics.CatalogMetrics) *InstrumentedCatalog {
	return &InstrumentedCatalog{
		inner:   inner,
		source:  source,
		metrics: m,
		now:     time.Now,
	}
}

func (c *InstrumentedCatalog) Lookup(ctx context.Context, name string) (product.Product, bool) {
	start := c.now()
	p, ok := c.inner.Lookup(ctx, name)
	c.metrics.ObserveLookup(c.source, ok, c.now().Sub(start))
	return p, ok
}
