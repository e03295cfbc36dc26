package catalog

import (
	"context"
	"testing"

	product "github.com/angelmondragon/shopcart/internal/products"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type countingLookup struct {
	products map[string]product.Product
	calls    int
}

func (c *countingLookup) Lookup(_ context.Context, name string) (product.Product, bool) {
	c.calls++
	p, ok := c.products[name]
	return p, ok
}

// counterValue sums every series of the named counter family.
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
