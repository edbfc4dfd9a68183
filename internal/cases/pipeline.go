package cases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"caseflow/internal/casetypeconfig"
	"caseflow/internal/cases/metrics"
	"caseflow/internal/zgw/client"
	"caseflow/internal/zgw/models"
)

const defaultWorkers = 4

// ConfigLookup finds the local overlays for a case and its status.
type ConfigLookup interface {
	FindZaakTypeConfig(ctx context.Context, catalogURL, identificatie string) (*casetypeconfig.ZaakTypeConfig, error)
	FindStatusTypeConfig(ctx context.Context, zaakTypeConfigID uuid.UUID, statusTypeURL string) (*casetypeconfig.StatusTypeConfig, error)
}

// Pipeline enriches case lists.
type Pipeline struct {
	configs            ConfigLookup
	workers            int
	maxConfidentiality models.Confidentiality
	logger             *slog.Logger
	metrics            *metrics.Metrics
	tracer             trace.Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds how many fetches run at once in each phase.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithMaxConfidentiality sets the highest confidentiality a visible case may have.
func WithMaxConfidentiality(level models.Confidentiality) Option {
	return func(p *Pipeline) {
		p.maxConfidentiality = level
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

func NewPipeline(configs ConfigLookup, opts ...Option) *Pipeline {
	p := &Pipeline{
		configs:            configs,
		workers:            defaultWorkers,
		maxConfidentiality: models.ConfidentialityOpenbaar,
		logger:             slog.Default(),
		tracer:             otel.Tracer("caseflow/cases"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Preprocess resolves, filters and sorts raw. One session is opened for the
// whole batch and closed before returning. Case types are all resolved before
// visibility is decided; details are only fetched for visible cases. A failed
// fetch leaves its field unresolved and never fails the batch; cases whose
// status cannot be resolved are left out. The input cases are not modified.
//
// Only a failure to open the session is returned as an error.
func (p *Pipeline) Preprocess(ctx context.Context, raw []*models.Case, group client.Group) ([]*Case, error) {
	start := time.Now()
	defer func() { p.metrics.ObserveBatchLatency(time.Since(start)) }()

	ctx, span := p.tracer.Start(ctx, "cases.preprocess", trace.WithAttributes(
		attribute.Int("cases.input", len(raw)),
	))
	defer span.End()

	session, err := group.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("preprocess cases: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			p.logger.WarnContext(ctx, "closing zgw session failed", "error", cerr)
		}
	}()

	batch := make([]*Case, 0, len(raw))
	for _, c := range raw {
		if c == nil {
			continue
		}
		cp := *c
		batch = append(batch, &Case{Case: &cp})
	}

	p.parallel(ctx, "cases.resolve_types", batch, func(ctx context.Context, c *Case) {
		p.resolveType(ctx, session.Catalogi, c)
	})

	visible := p.filterVisible(batch)

	p.parallel(ctx, "cases.resolve_details", visible, func(ctx context.Context, c *Case) {
		p.resolveDetails(ctx, session, c)
	})

	out := p.dropUnresolvedStatus(ctx, visible)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate.Time)
	})

	span.SetAttributes(attribute.Int("cases.output", len(out)))
	return out, nil
}

// parallel runs fn for every case on a bounded pool and waits for all of
// them. fn never fails, so one slow or failing case does not cancel others.
func (p *Pipeline) parallel(ctx context.Context, phase string, batch []*Case, fn func(context.Context, *Case)) {
	ctx, span := p.tracer.Start(ctx, phase, trace.WithAttributes(attribute.Int("cases.count", len(batch))))
	defer span.End()

	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, c := range batch {
		g.Go(func() error {
			fn(ctx, c)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) filterVisible(batch []*Case) []*Case {
	visible := make([]*Case, 0, len(batch))
	var noStatus, hidden int
	for _, c := range batch {
		switch {
		case c.Status.IsZero():
			noStatus++
		case !IsVisible(c.Case, p.maxConfidentiality):
			hidden++
		default:
			visible = append(visible, c)
		}
	}
	p.metrics.AddDropped("no_status", noStatus)
	p.metrics.AddDropped("not_visible", hidden)
	return visible
}

func (p *Pipeline) dropUnresolvedStatus(ctx context.Context, batch []*Case) []*Case {
	out := make([]*Case, 0, len(batch))
	for _, c := range batch {
		if !c.Status.IsResolved() {
			p.logger.InfoContext(ctx, "case left out, status unresolved", "case_url", c.URL)
			p.metrics.AddDropped("status_unresolved", 1)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (p *Pipeline) resolveType(ctx context.Context, catalogi client.CatalogiClient, c *Case) {
	url, ok := c.Type.URL()
	if !ok {
		return
	}
	ct, err := catalogi.FetchCaseType(ctx, url)
	if err != nil {
		p.fetchFailed(ctx, "case_type", c, url, err)
		return
	}
	c.Type = models.Resolved(ct)
}

// resolveDetails resolves status, status type, result and result type, then
// attaches the overlays. Each step depends only on the ones it reads.
func (p *Pipeline) resolveDetails(ctx context.Context, session *client.Session, c *Case) {
	if url, ok := c.Status.URL(); ok {
		if s, err := session.Zaken.FetchStatus(ctx, url); err != nil {
			p.fetchFailed(ctx, "status", c, url, err)
		} else {
			c.Status = models.Resolved(s)
		}
	}
	if s := c.ResolvedStatus(); s != nil {
		if url, ok := s.StatusType.URL(); ok {
			if st, err := session.Catalogi.FetchStatusType(ctx, url); err != nil {
				p.fetchFailed(ctx, "status_type", c, url, err)
			} else {
				resolved := *s
				resolved.StatusType = models.Resolved(st)
				c.Status = models.Resolved(&resolved)
			}
		}
	}

	if url, ok := c.Result.URL(); ok {
		if r, err := session.Zaken.FetchResult(ctx, url); err != nil {
			p.fetchFailed(ctx, "result", c, url, err)
		} else {
			c.Result = models.Resolved(r)
		}
	}
	if r := c.ResolvedResult(); r != nil {
		if url, ok := r.ResultaatType.URL(); ok {
			if rt, err := session.Catalogi.FetchResultType(ctx, url); err != nil {
				p.fetchFailed(ctx, "result_type", c, url, err)
			} else {
				resolved := *r
				resolved.ResultaatType = models.Resolved(rt)
				c.Result = models.Resolved(&resolved)
			}
		}
	}

	p.attachConfigs(ctx, c)
}

func (p *Pipeline) attachConfigs(ctx context.Context, c *Case) {
	if p.configs == nil {
		return
	}
	ct := c.ResolvedType()
	if ct == nil {
		return
	}
	cfg, err := p.configs.FindZaakTypeConfig(ctx, ct.Catalogus, ct.Identificatie)
	if err != nil {
		if !errors.Is(err, casetypeconfig.ErrNotFound) {
			p.fetchFailed(ctx, "config", c, ct.Identificatie, err)
		}
		return
	}
	c.TypeConfig = cfg

	st := c.ResolvedStatusType()
	if st == nil {
		return
	}
	stc, err := p.configs.FindStatusTypeConfig(ctx, cfg.ID, st.URL)
	if err != nil {
		if !errors.Is(err, casetypeconfig.ErrNotFound) {
			p.fetchFailed(ctx, "config", c, st.URL, err)
		}
		return
	}
	c.StatusTypeConfig = stc
}

func (p *Pipeline) fetchFailed(ctx context.Context, resource string, c *Case, url string, err error) {
	p.metrics.IncrementFetchFailure(resource)
	p.logger.WarnContext(ctx, "case enrichment fetch failed",
		"resource", resource,
		"case_url", c.URL,
		"url", url,
		"error", err,
	)
}
