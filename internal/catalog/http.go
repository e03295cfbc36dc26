package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	product "github.com/angelmondragon/shopcart/internal/products"
	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/logger"
	"github.com/angelmondragon/shopcart/pkg/metrics"
	"github.com/sethvargo/go-retry"
)

const (
	maxBodyBytes      = 1 << 20
	jitterPercent     = 20
	defaultMaxRetries = 3
	defaultBaseDelay  = 200 * time.Millisecond
)

// HTTPOptions configures an HTTPCatalog.
type HTTPOptions struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries int
	BaseDelay  time.Duration
	Logger     *logger.Logger
	Metrics    *metrics.CatalogMetrics
}

// HTTPCatalog fetches products as <base>/<name>.json documents.
type HTTPCatalog struct {
	baseURL    string
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
	logg       *logger.Logger
	metrics    *metrics.CatalogMetrics
}

// NewHTTPCatalog validates opts and fills in defaults.
func NewHTTPCatalog(opts HTTPOptions) (*HTTPCatalog, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidDependency, "catalog base url must be absolute").
			WithDetails(map[string]any{"base_url": opts.BaseURL})
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 5 * time.Second}
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &HTTPCatalog{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		client:     opts.Client,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		logg:       opts.Logger,
		metrics:    opts.Metrics,
	}, nil
}

// Lookup fetches name, reporting any failure as a miss.
func (c *HTTPCatalog) Lookup(ctx context.Context, name string) (product.Product, bool) {
	if strings.TrimSpace(name) == "" {
		return product.Product{}, false
	}

	p, err := c.Fetch(ctx, name)
	if err == nil {
		return p, true
	}

	logCtx := c.logg.WithProduct(ctx, name)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		c.logg.Debug(logCtx, "product not in catalog")
	} else {
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "catalog lookup failed")
	}
	return product.Product{}, false
}

// Fetch retrieves name, retrying transport failures and 5xx responses with
// exponential backoff. MaxRetries bounds the total number of attempts.
func (c *HTTPCatalog) Fetch(ctx context.Context, name string) (product.Product, error) {
	backoff := retry.NewExponential(c.baseDelay)
	backoff = retry.WithJitterPercent(jitterPercent, backoff)
	backoff = retry.WithMaxRetries(uint64(c.maxRetries-1), backoff)

	var (
		found   product.Product
		attempt int
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			c.metrics.IncRetry(SourceHTTP)
		}
		p, err := c.fetchOnce(ctx, name)
		if err != nil {
			if ctx.Err() == nil && pkgerrors.IsRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		found = p
		return nil
	})
	if err != nil {
		return product.Product{}, err
	}
	return found, nil
}

func (c *HTTPCatalog) productURL(name string) string {
	return fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(name))
}

func (c *HTTPCatalog) fetchOnce(ctx context.Context, name string) (product.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.productURL(name), nil)
	if err != nil {
		return product.Product{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "building catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return product.Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		_, _ = io.Copy(io.Discard, resp.Body)
		return product.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product": name})
	case resp.StatusCode >= http.StatusInternalServerError:
		_, _ = io.Copy(io.Discard, resp.Body)
		return product.Product{}, pkgerrors.New(pkgerrors.CodeDependency, "catalog unavailable").
			WithDetails(map[string]any{"status": resp.StatusCode})
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return product.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "catalog rejected request").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	return product.DecodeJSON(io.LimitReader(resp.Body, maxBodyBytes))
}
