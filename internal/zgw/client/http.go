package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"caseflow/internal/zgw/metrics"
	"caseflow/pkg/platform/circuit"
	"caseflow/pkg/platform/sentinel"
)

const maxResponseBytes = 8 << 20

// fetcher does the GETs for one API within one session. The breaker,
// limiter, singleflight group and cache are shared across sessions.
type fetcher struct {
	api     string
	http    *http.Client
	headers map[string]string
	cache   Cache
	ttl     time.Duration
	flight  *singleflight.Group
	breaker *circuit.Breaker
	limiter *rate.Limiter
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// get decodes the resource at url into out. With cached set, a fresh body is
// served from the cache and successful responses are stored in it.
func (f *fetcher) get(ctx context.Context, url string, cached bool, out any) error {
	if url == "" {
		return fmt.Errorf("%s: empty url: %w", f.api, sentinel.ErrUnavailable)
	}

	if cached {
		if body, ok := f.cache.Get(ctx, url); ok {
			f.metrics.IncrementCacheHit(f.api)
			return f.decode(url, body, out)
		}
		f.metrics.IncrementCacheMiss(f.api)
	}

	key := url
	if !cached {
		key = "uncached:" + url
	}
	// The shared request outlives any single caller; each caller stops
	// waiting when its own context ends.
	ch := f.flight.DoChan(key, func() (any, error) {
		shared, cancel := f.sharedContext(ctx)
		defer cancel()
		return f.request(shared, url)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return fmt.Errorf("%s: get %s: %w: %w", f.api, url, sentinel.ErrUnavailable, ctx.Err())
	}
	if res.Err != nil {
		return res.Err
	}
	body := res.Val.([]byte)
	if err := f.decode(url, body, out); err != nil {
		return err
	}
	if cached {
		f.cache.Set(ctx, url, body, f.ttl)
	}
	return nil
}

// sharedContext keeps the values of ctx but not its cancellation, bounded by
// the client timeout.
func (f *fetcher) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	shared := context.WithoutCancel(ctx)
	if f.http.Timeout > 0 {
		return context.WithTimeout(shared, f.http.Timeout)
	}
	return context.WithCancel(shared)
}

func (f *fetcher) decode(url string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode %s: %w: %w", f.api, url, sentinel.ErrUnavailable, err)
	}
	return nil
}

func (f *fetcher) request(ctx context.Context, url string) ([]byte, error) {
	ctx, span := f.tracer.Start(ctx, "zgw.get", trace.WithAttributes(
		attribute.String("zgw.api", f.api),
		attribute.String("url.full", url),
	))
	defer span.End()

	body, outcome, err := f.roundTrip(ctx, url)
	f.metrics.IncrementRequest(f.api, outcome)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}
	return body, nil
}

func (f *fetcher) roundTrip(ctx context.Context, url string) ([]byte, string, error) {
	if f.breaker != nil && !f.breaker.Allow() {
		return nil, "circuit_open", fmt.Errorf("%s: circuit open: %w", f.api, sentinel.ErrUnavailable)
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, "error", fmt.Errorf("%s: rate limit wait: %w: %w", f.api, sentinel.ErrUnavailable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "error", fmt.Errorf("%s: build request: %w: %w", f.api, sentinel.ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.http.Do(req)
	f.metrics.ObserveRequestLatency(f.api, time.Since(start))
	if err != nil {
		f.recordFailure(ctx)
		return nil, "error", fmt.Errorf("%s: get %s: %w: %w", f.api, url, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		f.recordSuccess(ctx)
		return nil, "not_found", fmt.Errorf("%s: %s: %w: %w", f.api, url, sentinel.ErrUnavailable, sentinel.ErrNotFound)
	case resp.StatusCode >= 500:
		f.recordFailure(ctx)
		return nil, "error", fmt.Errorf("%s: %s returned %d: %w", f.api, url, resp.StatusCode, sentinel.ErrUnavailable)
	case resp.StatusCode >= 300:
		f.recordSuccess(ctx)
		return nil, "error", fmt.Errorf("%s: %s returned %d: %w", f.api, url, resp.StatusCode, sentinel.ErrUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		f.recordFailure(ctx)
		return nil, "error", fmt.Errorf("%s: read %s: %w: %w", f.api, url, sentinel.ErrUnavailable, err)
	}
	f.recordSuccess(ctx)
	return body, "ok", nil
}

func (f *fetcher) recordFailure(ctx context.Context) {
	if f.breaker == nil {
		return
	}
	if _, change := f.breaker.RecordFailure(); change.Opened {
		f.metrics.IncrementBreakerTransition(f.api, string(circuit.StateOpen))
		f.logger.WarnContext(ctx, "zgw circuit opened", "api", f.api)
	}
}

func (f *fetcher) recordSuccess(ctx context.Context) {
	if f.breaker == nil {
		return
	}
	if _, change := f.breaker.RecordSuccess(); change.Closed {
		f.metrics.IncrementBreakerTransition(f.api, string(circuit.StateClosed))
		f.logger.InfoContext(ctx, "zgw circuit closed", "api", f.api)
	}
}

// page is the paginated list envelope of the ZGW APIs.
type page[T any] struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []T    `json:"results"`
}

const maxPages = 100

// list follows next links until exhausted. List endpoints are never cached.
func list[T any](ctx context.Context, f *fetcher, url string) ([]T, error) {
	var all []T
	seen := make(map[string]struct{})
	for next := url; next != ""; {
		if _, dup := seen[next]; dup || len(seen) >= maxPages {
			return nil, fmt.Errorf("%s: pagination loop at %s: %w", f.api, next, sentinel.ErrUnavailable)
		}
		seen[next] = struct{}{}

		var p page[T]
		if err := f.get(ctx, next, false, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		next = p.Next
	}
	return all, nil
}
