package catalog

import (
	"context"
	"sync"
	"time"

	"kniga/internal/logger"
	"kniga/internal/metrics"
)

// Status is the lifecycle of one fetch cycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

// Snapshot — консистентный срез состояния контроллера для отрисовки
type Snapshot struct {
	State  FilterState
	Query  Query
	Status Status
	Result *ListResult
	Err    error
}

// Controller owns one FilterState and turns every state change into a
// query plus an async fetch against the listing collaborator. Reducer
// methods are called from the single UI goroutine; the mutex only guards
// the boundary where fetch goroutines deliver their results.
//
// Staleness: each fetch carries the query it was built from. On delivery
// the carried query is compared against the current one; a mismatch means
// a newer state change superseded the request, and the result is dropped
// silently. Arrival order is never trusted.
type Controller struct {
	svc ListingService

	mu     sync.Mutex
	state  FilterState
	query  Query
	status Status
	result *ListResult
	err    error

	// onUpdate, if set, is called after every visible state transition.
	onUpdate func()
}

// NewController создает контроллер с чистым состоянием фильтров
func NewController(svc ListingService, pageSize int) *Controller {
	st := NewFilterState(pageSize)
	return &Controller{
		svc:    svc,
		state:  st,
		query:  BuildQuery(st),
		status: StatusIdle,
	}
}

// OnUpdate registers the redraw callback of the view layer.
func (c *Controller) OnUpdate(fn func()) {
	c.mu.Lock()
	c.onUpdate = fn
	c.mu.Unlock()
}

// Snapshot returns a consistent copy of the current controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:  c.state,
		Query:  c.query,
		Status: c.status,
		Result: c.result,
		Err:    c.err,
	}
}

// SetPendingSearch buffers the search box text. No query rebuild, no
// fetch — commit happens on CommitSearch.
func (c *Controller) SetPendingSearch(text string) {
	c.mu.Lock()
	c.state = c.state.WithPendingSearch(text)
	c.mu.Unlock()
}

func (c *Controller) CommitSearch(ctx context.Context) {
	c.apply(ctx, func(s FilterState) FilterState { return s.CommitSearch() })
}

func (c *Controller) ToggleMinRating(ctx context.Context, r int) {
	c.apply(ctx, func(s FilterState) FilterState { return s.ToggleMinRating(r) })
}

func (c *Controller) SetGenre(ctx context.Context, name string) {
	c.apply(ctx, func(s FilterState) FilterState { return s.WithGenre(name) })
}

func (c *Controller) SetAuthor(ctx context.Context, text string) {
	c.apply(ctx, func(s FilterState) FilterState { return s.WithAuthor(text) })
}

func (c *Controller) SetSort(ctx context.Context, key SortKey) {
	c.apply(ctx, func(s FilterState) FilterState { return s.WithSort(key) })
}

func (c *Controller) SetOnlyAvailable(ctx context.Context, flag bool) {
	c.apply(ctx, func(s FilterState) FilterState { return s.WithOnlyAvailable(flag) })
}

// SetPage clamps n to [1, totalPages of the last successful result] and
// fetches that page. Out-of-band values clamp rather than error.
func (c *Controller) SetPage(ctx context.Context, n int) {
	n = c.clampPage(n)
	c.apply(ctx, func(s FilterState) FilterState { return s.WithPage(n) })
}

// NextPage and PrevPage are the navigation guards of the view: both clamp
// at their bound instead of erroring.
func (c *Controller) NextPage(ctx context.Context) {
	c.SetPage(ctx, c.Snapshot().State.Page+1)
}

func (c *Controller) PrevPage(ctx context.Context) {
	c.SetPage(ctx, c.Snapshot().State.Page-1)
}

// Clear drops every filter and refetches the unfiltered first page.
func (c *Controller) Clear(ctx context.Context) {
	c.apply(ctx, func(s FilterState) FilterState { return s.Cleared() })
}

// Refresh re-issues the current query unchanged.
func (c *Controller) Refresh(ctx context.Context) {
	c.apply(ctx, func(s FilterState) FilterState { return s })
}

// HasActiveFilters mirrors the predicate on the current state.
func (c *Controller) HasActiveFilters() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.HasActiveFilters()
}

// Window returns the page tokens for the last successful result, or nil
// while nothing has loaded yet.
func (c *Controller) Window() []PageToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil
	}
	return Window(c.state.Page, c.result.TotalPages)
}

// apply runs a reducer, rebuilds the query and dispatches the fetch.
func (c *Controller) apply(ctx context.Context, reduce func(FilterState) FilterState) {
	c.mu.Lock()
	c.state = reduce(c.state)
	c.query = BuildQuery(c.state)
	c.status = StatusLoading
	q := c.query
	fn := c.onUpdate
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	go c.fetch(ctx, q)
}

func (c *Controller) fetch(ctx context.Context, q Query) {
	start := time.Now()
	res, err := c.svc.List(ctx, q)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	c.mu.Lock()
	if q != c.query {
		// Запрос устарел: состояние успело измениться, результат молча выбрасываем
		c.mu.Unlock()
		metrics.StaleDropped.Inc()
		logger.For(ctx).Debug("catalog.fetch.stale")
		return
	}
	if err != nil {
		c.status = StatusFailed
		c.err = err
		metrics.FetchTotal.WithLabelValues("error").Inc()
	} else {
		c.status = StatusSuccess
		c.result = res
		c.err = nil
		metrics.FetchTotal.WithLabelValues("success").Inc()
	}
	fn := c.onUpdate
	c.mu.Unlock()

	if err != nil {
		logger.For(ctx).WithError(err).Warn("catalog.fetch.failed")
	}
	if fn != nil {
		fn()
	}
}

func (c *Controller) clampPage(n int) int {
	if n < 1 {
		return 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result != nil && c.result.TotalPages > 0 && n > c.result.TotalPages {
		return c.result.TotalPages
	}
	return n
}
