// Package clienttest provides an in-memory client.Group for tests.
package clienttest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"caseflow/internal/zgw/client"
	"caseflow/internal/zgw/models"
	"caseflow/pkg/platform/sentinel"
)

// Call kinds recorded by the fake, in start order.
const (
	CallCase       = "case"
	CallCaseFresh  = "case_uncached"
	CallStatus     = "status"
	CallResult     = "result"
	CallRoles      = "roles"
	CallList       = "list"
	CallCaseType   = "case_type"
	CallStatusType = "status_type"
	CallResultType = "result_type"
)

// Call is one recorded fetch.
type Call struct {
	Kind string
	URL  string
}

// Fake serves resources from maps. Objects are copied on the way out, so
// callers may mutate what they receive.
type Fake struct {
	mu sync.Mutex

	cases       map[string]models.Case
	statuses    map[string]models.Status
	results     map[string]models.Resultaat
	roles       map[string][]models.Role
	byBSN       map[string][]string
	caseTypes   map[string]models.CaseType
	statusTypes map[string]models.StatusType
	resultTypes map[string]models.ResultaatType
	failing     map[string]bool

	openErr  error
	latency  time.Duration
	calls    []Call
	opened   int
	closed   int
	inFlight int
	maxInFly int
}

func New() *Fake {
	return &Fake{
		cases:       make(map[string]models.Case),
		statuses:    make(map[string]models.Status),
		results:     make(map[string]models.Resultaat),
		roles:       make(map[string][]models.Role),
		byBSN:       make(map[string][]string),
		caseTypes:   make(map[string]models.CaseType),
		statusTypes: make(map[string]models.StatusType),
		resultTypes: make(map[string]models.ResultaatType),
		failing:     make(map[string]bool),
	}
}

func (f *Fake) AddCase(c models.Case) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cases[c.URL] = c
	return f
}

func (f *Fake) AddStatus(s models.Status) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[s.URL] = s
	return f
}

func (f *Fake) AddResult(r models.Resultaat) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[r.URL] = r
	return f
}

func (f *Fake) AddRoles(caseURL string, roles ...models.Role) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[caseURL] = append(f.roles[caseURL], roles...)
	return f
}

// AddCaseForBSN makes the case show up in ListCasesForBSN. The case itself
// must be added with AddCase.
func (f *Fake) AddCaseForBSN(bsn, caseURL string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byBSN[bsn] = append(f.byBSN[bsn], caseURL)
	return f
}

func (f *Fake) AddCaseType(ct models.CaseType) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.caseTypes[ct.URL] = ct
	return f
}

func (f *Fake) AddStatusType(st models.StatusType) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusTypes[st.URL] = st
	return f
}

func (f *Fake) AddResultType(rt models.ResultaatType) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resultTypes[rt.URL] = rt
	return f
}

// Fail makes every fetch of url return an unavailable error.
func (f *Fake) Fail(url string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[url] = true
	return f
}

// FailOpen makes Open return err.
func (f *Fake) FailOpen(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openErr = err
	return f
}

// WithLatency delays every fetch by d.
func (f *Fake) WithLatency(d time.Duration) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latency = d
	return f
}

func (f *Fake) Open(ctx context.Context) (*client.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.opened++
	return &client.Session{Zaken: &zaken{f}, Catalogi: &catalogi{f}}, nil
}

// Opened returns how many sessions were opened.
func (f *Fake) Opened() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened
}

// Closed returns how many client Close calls were made. A closed session
// accounts for two.
func (f *Fake) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Calls returns the fetches made so far, in start order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount counts fetches of the given kind.
func (f *Fake) CallCount(kind string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// MaxInFlight is the highest number of concurrent fetches observed.
func (f *Fake) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFly
}

// begin records the call and returns the func that ends it. Failing urls
// return an error instead.
func (f *Fake) begin(ctx context.Context, kind, url string) (func(), error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Kind: kind, URL: url})
	f.inFlight++
	f.maxInFly = max(f.maxInFly, f.inFlight)
	latency := f.latency
	failing := f.failing[url]
	f.mu.Unlock()

	release := func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}
	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("%s %s: %w: %w", kind, url, sentinel.ErrUnavailable, ctx.Err())
		}
	}
	if failing {
		release()
		return nil, fmt.Errorf("%s %s: %w", kind, url, sentinel.ErrUnavailable)
	}
	return release, nil
}

func missing(kind, url string) error {
	return fmt.Errorf("%s %s: %w: %w", kind, url, sentinel.ErrUnavailable, sentinel.ErrNotFound)
}

func lookup[T any](ctx context.Context, f *Fake, kind, url string, m map[string]T) (*T, error) {
	release, err := f.begin(ctx, kind, url)
	if err != nil {
		return nil, err
	}
	defer release()

	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := m[url]
	if !ok {
		return nil, missing(kind, url)
	}
	return &v, nil
}

type zaken struct{ f *Fake }

func (z *zaken) FetchCase(ctx context.Context, url string) (*models.Case, error) {
	return lookup(ctx, z.f, CallCase, url, z.f.cases)
}

func (z *zaken) FetchCaseUncached(ctx context.Context, url string) (*models.Case, error) {
	return lookup(ctx, z.f, CallCaseFresh, url, z.f.cases)
}

func (z *zaken) FetchStatus(ctx context.Context, url string) (*models.Status, error) {
	return lookup(ctx, z.f, CallStatus, url, z.f.statuses)
}

func (z *zaken) FetchResult(ctx context.Context, url string) (*models.Resultaat, error) {
	return lookup(ctx, z.f, CallResult, url, z.f.results)
}

func (z *zaken) FetchRoles(ctx context.Context, caseURL string) ([]models.Role, error) {
	release, err := z.f.begin(ctx, CallRoles, caseURL)
	if err != nil {
		return nil, err
	}
	defer release()

	z.f.mu.Lock()
	defer z.f.mu.Unlock()
	return append([]models.Role(nil), z.f.roles[caseURL]...), nil
}

func (z *zaken) ListCasesForBSN(ctx context.Context, bsn string) ([]*models.Case, error) {
	release, err := z.f.begin(ctx, CallList, bsn)
	if err != nil {
		return nil, err
	}
	defer release()

	z.f.mu.Lock()
	defer z.f.mu.Unlock()
	var out []*models.Case
	for _, url := range z.f.byBSN[bsn] {
		if c, ok := z.f.cases[url]; ok {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (z *zaken) Close() error {
	z.f.mu.Lock()
	defer z.f.mu.Unlock()
	z.f.closed++
	return nil
}

type catalogi struct{ f *Fake }

func (c *catalogi) FetchCaseType(ctx context.Context, url string) (*models.CaseType, error) {
	return lookup(ctx, c.f, CallCaseType, url, c.f.caseTypes)
}

func (c *catalogi) FetchStatusType(ctx context.Context, url string) (*models.StatusType, error) {
	return lookup(ctx, c.f, CallStatusType, url, c.f.statusTypes)
}

func (c *catalogi) FetchResultType(ctx context.Context, url string) (*models.ResultaatType, error) {
	return lookup(ctx, c.f, CallResultType, url, c.f.resultTypes)
}

func (c *catalogi) Close() error {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	c.f.closed++
	return nil
}
