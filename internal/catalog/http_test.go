package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogServer struct {
	server *httptest.Server
	hits   atomic.Int32
	// failures is how many leading requests answer 500.
	failures int32
}

func newFakeCatalogServer(t *testing.T, failures int32) *fakeCatalogServer {
	t.Helper()
	fake := &fakeCatalogServer{failures: failures}

	router := chi.NewRouter()
	router.Get("/{name}.json", func(w http.ResponseWriter, r *http.Request) {
		n := fake.hits.Add(1)
		if n <= fake.failures {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch chi.URLParam(r, "name") {
		case "cornflakes":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"title":"Corn Flakes","price":2.52}`))
		case "broken":
			_, _ = w.Write([]byte(`{"title":`))
		case "forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	})

	fake.server = httptest.NewServer(router)
	t.Cleanup(fake.server.Close)
	return fake
}

func newTestHTTPCatalog(t *testing.T, baseURL string, m *metrics.CatalogMetrics) *HTTPCatalog {
	t.Helper()
	c, err := NewHTTPCatalog(HTTPOptions{
		BaseURL:    baseURL,
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		Metrics:    m,
	})
	require.NoError(t, err)
	return c
}

func TestHTTPCatalogFound(t *testing.T) {
	fake := newFakeCatalogServer(t, 0)
	c := newTestHTTPCatalog(t, fake.server.URL+"/", nil)

	p, ok := c.Lookup(context.Background(), "cornflakes")
	require.True(t, ok)
	assert.Equal(t, "Corn Flakes", p.Title())
	assert.Equal(t, "2.52", p.UnitPrice().String())
	assert.Equal(t, int32(1), fake.hits.Load())
}

func TestHTTPCatalogNotFoundIsNotRetried(t *testing.T) {
	fake := newFakeCatalogServer(t, 0)
	c := newTestHTTPCatalog(t, fake.server.URL, nil)

	_, err := c.Fetch(context.Background(), "granola")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, ok := c.Lookup(context.Background(), "granola")
	assert.False(t, ok)
	assert.Equal(t, int32(2), fake.hits.Load())
}

func TestHTTPCatalogRetriesServerErrors(t *testing.T) {
	fake := newFakeCatalogServer(t, 2)
	reg := prometheus.NewRegistry()
	recorder := metrics.NewCatalogMetrics(reg)
	c := newTestHTTPCatalog(t, fake.server.URL, recorder)

	p, ok := c.Lookup(context.Background(), "cornflakes")
	require.True(t, ok)
	assert.Equal(t, "Corn Flakes", p.Title())
	assert.Equal(t, int32(3), fake.hits.Load())

	assert.Equal(t, 2.0, counterValue(t, reg, "catalog_lookup_retries_total"))
}

func TestHTTPCatalogGivesUpAfterMaxRetries(t *testing.T) {
	fake := newFakeCatalogServer(t, 100)
	c := newTestHTTPCatalog(t, fake.server.URL, nil)

	_, err := c.Fetch(context.Background(), "cornflakes")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	assert.Equal(t, int32(3), fake.hits.Load())
}

func TestHTTPCatalogDoesNotRetryClientErrors(t *testing.T) {
	fake := newFakeCatalogServer(t, 0)
	c := newTestHTTPCatalog(t, fake.server.URL, nil)

	_, ok := c.Lookup(context.Background(), "forbidden")
	assert.False(t, ok)
	_, ok = c.Lookup(context.Background(), "broken")
	assert.False(t, ok)
	assert.Equal(t, int32(2), fake.hits.Load())
}

func TestHTTPCatalogBlankNameSkipsRequest(t *testing.T) {
	fake := newFakeCatalogServer(t, 0)
	c := newTestHTTPCatalog(t, fake.server.URL, nil)

	_, ok := c.Lookup(context.Background(), "   ")
	assert.False(t, ok)
	assert.Zero(t, fake.hits.Load())
}

func TestHTTPCatalogEscapesName(t *testing.T) {
	var gotPath atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.EscapedPath())
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	c := newTestHTTPCatalog(t, server.URL, nil)
	_, ok := c.Lookup(context.Background(), "../admin")
	assert.False(t, ok)
	assert.Equal(t, "/..%2Fadmin.json", gotPath.Load())
}

func TestHTTPCatalogTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	c := newTestHTTPCatalog(t, baseURL, nil)
	_, err := c.Fetch(context.Background(), "cornflakes")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestHTTPCatalogCanceledContext(t *testing.T) {
	fake := newFakeCatalogServer(t, 100)
	c := newTestHTTPCatalog(t, fake.server.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := c.Lookup(ctx, "cornflakes")
	assert.False(t, ok)
	assert.LessOrEqual(t, fake.hits.Load(), int32(1))
}

func TestNewHTTPCatalogRejectsRelativeURL(t *testing.T) {
	_, err := NewHTTPCatalog(HTTPOptions{BaseURL: "catalog/products"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidDependency) {
		t.Fatalf("expected invalid dependency, got %v", err)
	}
}
