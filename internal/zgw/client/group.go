package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"caseflow/internal/zgw/metrics"
	"caseflow/pkg/platform/circuit"
)

const (
	apiZaken    = "zaken"
	apiCatalogi = "catalogi"
)

// Config holds the remote API roots and client tuning.
type Config struct {
	ZakenRoot    string
	CatalogiRoot string
	// Timeout bounds each request, connection setup included.
	Timeout time.Duration
	// RateLimit is the maximum requests per second per API. Zero disables throttling.
	RateLimit   float64
	ZakenTTL    time.Duration
	CatalogiTTL time.Duration
}

func (c Config) validate() error {
	var errs []error
	roots := []struct{ name, root string }{
		{apiZaken, c.ZakenRoot},
		{apiCatalogi, c.CatalogiRoot},
	}
	for _, r := range roots {
		u, err := url.Parse(r.root)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s root %q is not an absolute url", r.name, r.root))
		}
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	return errors.Join(errs...)
}

// HTTPGroup opens sessions against the Zaken and Catalogi HTTP APIs. Each
// session gets its own transport; cache, breakers, limiters and in-flight
// request collapsing are shared by all sessions.
type HTTPGroup struct {
	cfg     Config
	cache   Cache
	flight  singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	zakenBreaker    *circuit.Breaker
	catalogiBreaker *circuit.Breaker
	zakenLimiter    *rate.Limiter
	catalogiLimiter *rate.Limiter
}

// Option configures an HTTPGroup.
type Option func(*HTTPGroup)

// WithCache sets the response cache. The default stores nothing.
func WithCache(cache Cache) Option {
	return func(g *HTTPGroup) {
		if cache != nil {
			g.cache = cache
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *HTTPGroup) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *HTTPGroup) {
		g.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(g *HTTPGroup) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

// WithBreakerOptions tunes both circuit breakers.
func WithBreakerOptions(opts ...circuit.Option) Option {
	return func(g *HTTPGroup) {
		g.zakenBreaker = circuit.New(apiZaken, opts...)
		g.catalogiBreaker = circuit.New(apiCatalogi, opts...)
	}
}

// NewHTTPGroup validates cfg and builds the group.
func NewHTTPGroup(cfg Config, opts ...Option) (*HTTPGroup, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("zgw client config: %w", err)
	}
	cfg.ZakenRoot = strings.TrimRight(cfg.ZakenRoot, "/")
	cfg.CatalogiRoot = strings.TrimRight(cfg.CatalogiRoot, "/")

	g := &HTTPGroup{
		cfg:             cfg,
		cache:           NopCache{},
		logger:          slog.Default(),
		tracer:          otel.Tracer("caseflow/zgw"),
		zakenBreaker:    circuit.New(apiZaken),
		catalogiBreaker: circuit.New(apiCatalogi),
	}
	for _, opt := range opts {
		opt(g)
	}
	if cfg.RateLimit > 0 {
		burst := max(1, int(cfg.RateLimit))
		g.zakenLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
		g.catalogiLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return g, nil
}

// Open starts a session. Close it when the unit of work is done.
func (g *HTTPGroup) Open(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("open zgw session: %w", err)
	}

	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, errors.New("open zgw session: default transport is not an *http.Transport")
	}
	transport := base.Clone()
	httpClient := &http.Client{Transport: transport, Timeout: g.cfg.Timeout}

	zaken := &zakenHTTP{
		root:      g.cfg.ZakenRoot,
		transport: transport,
		fetcher: &fetcher{
			api:     apiZaken,
			http:    httpClient,
			headers: map[string]string{"Accept-Crs": "EPSG:4326"},
			cache:   g.cache,
			ttl:     g.cfg.ZakenTTL,
			flight:  &g.flight,
			breaker: g.zakenBreaker,
			limiter: g.zakenLimiter,
			metrics: g.metrics,
			tracer:  g.tracer,
			logger:  g.logger,
		},
	}
	catalogi := &catalogiHTTP{
		transport: transport,
		fetcher: &fetcher{
			api:     apiCatalogi,
			http:    httpClient,
			cache:   g.cache,
			ttl:     g.cfg.CatalogiTTL,
			flight:  &g.flight,
			breaker: g.catalogiBreaker,
			limiter: g.catalogiLimiter,
			metrics: g.metrics,
			tracer:  g.tracer,
			logger:  g.logger,
		},
	}
	return &Session{Zaken: zaken, Catalogi: catalogi}, nil
}
