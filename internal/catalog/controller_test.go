package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeListing scripts the listing collaborator per search text: an entry
// in gates blocks that fetch until the test releases it, which is how the
// out-of-order completion scenarios are built.
type fakeListing struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	results map[string]*ListResult
	fail    map[string]bool
	calls   []Query
}

func newFakeListing() *fakeListing {
	return &fakeListing{
		gates:   make(map[string]chan struct{}),
		results: make(map[string]*ListResult),
		fail:    make(map[string]bool),
	}
}

func (f *fakeListing) List(ctx context.Context, q Query) (*ListResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	gate := f.gates[q.Search]
	res := f.results[q.Search]
	shouldFail := f.fail[q.Search]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if shouldFail {
		return nil, errors.New("listing down")
	}
	if res == nil {
		res = &ListResult{Items: []Book{}}
	}
	return res, nil
}

func (f *fakeListing) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestController(f *fakeListing) (*Controller, chan struct{}) {
	c := NewController(f, 10)
	updates := make(chan struct{}, 16)
	c.OnUpdate(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	return c, updates
}

func waitSettled(t *testing.T, c *Controller, updates <-chan struct{}) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		snap := c.Snapshot()
		if snap.Status != StatusLoading {
			return snap
		}
		select {
		case <-updates:
		case <-deadline:
			t.Fatal("fetch never settled")
		}
	}
}

func TestStaleResultIsDropped(t *testing.T) {
	f := newFakeListing()
	f.results["slow"] = &ListResult{Items: []Book{{ID: "slow-book"}}, Total: 1, TotalPages: 1}
	f.results["fast"] = &ListResult{Items: []Book{{ID: "fast-book"}}, Total: 1, TotalPages: 1}
	f.gates["slow"] = make(chan struct{})
	f.gates["fast"] = make(chan struct{})

	c, updates := newTestController(f)
	ctx := context.Background()

	// Fetch A starts, then a filter change supersedes it with fetch B.
	c.SetPendingSearch("slow")
	c.CommitSearch(ctx)
	c.SetPendingSearch("fast")
	c.CommitSearch(ctx)

	// B resolves first.
	close(f.gates["fast"])
	snap := waitSettled(t, c, updates)
	if snap.Status != StatusSuccess || snap.Result.Items[0].ID != "fast-book" {
		t.Fatalf("expected fast-book, got %+v", snap)
	}

	// A resolves late; its result must not clobber B's.
	close(f.gates["slow"])
	time.Sleep(50 * time.Millisecond)
	snap = c.Snapshot()
	if snap.Status != StatusSuccess {
		t.Fatalf("stale delivery changed status to %v", snap.Status)
	}
	if snap.Result.Items[0].ID != "fast-book" {
		t.Fatalf("stale result was applied: %+v", snap.Result.Items)
	}
	if snap.Err != nil {
		t.Fatalf("stale delivery surfaced an error: %v", snap.Err)
	}
}

func TestPendingSearchDoesNotFetch(t *testing.T) {
	f := newFakeListing()
	c, _ := newTestController(f)

	c.SetPendingSearch("d")
	c.SetPendingSearch("du")
	c.SetPendingSearch("dun")

	time.Sleep(20 * time.Millisecond)
	if n := f.callCount(); n != 0 {
		t.Fatalf("keystrokes fired %d requests", n)
	}
	if got := c.Snapshot().State.PendingSearchText; got != "dun" {
		t.Fatalf("pending buffer = %q", got)
	}
}

func TestSetPageClampsToKnownBounds(t *testing.T) {
	f := newFakeListing()
	f.results[""] = &ListResult{Items: []Book{{ID: "b"}}, Total: 40, TotalPages: 4}

	c, updates := newTestController(f)
	ctx := context.Background()

	c.Refresh(ctx)
	waitSettled(t, c, updates)

	c.SetPage(ctx, 99)
	snap := waitSettled(t, c, updates)
	if snap.State.Page != 4 {
		t.Fatalf("page must clamp to totalPages, got %d", snap.State.Page)
	}

	c.SetPage(ctx, -3)
	snap = waitSettled(t, c, updates)
	if snap.State.Page != 1 {
		t.Fatalf("page must clamp to 1, got %d", snap.State.Page)
	}

	c.PrevPage(ctx)
	snap = waitSettled(t, c, updates)
	if snap.State.Page != 1 {
		t.Fatalf("prev at first page must stay, got %d", snap.State.Page)
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	f := newFakeListing()
	f.results[""] = &ListResult{Items: []Book{{ID: "b"}}, Total: 100, TotalPages: 10}

	c, updates := newTestController(f)
	ctx := context.Background()

	c.Refresh(ctx)
	waitSettled(t, c, updates)
	c.SetPage(ctx, 5)
	waitSettled(t, c, updates)

	c.SetGenre(ctx, "Fiction")
	snap := waitSettled(t, c, updates)
	if snap.State.Page != 1 {
		t.Fatalf("genre change must land on page 1, got %d", snap.State.Page)
	}
	if snap.Query.Genre != "Fiction" || snap.Query.Page != 1 {
		t.Fatalf("query out of sync with state: %+v", snap.Query)
	}
}

func TestFailedFetchSurfacesError(t *testing.T) {
	f := newFakeListing()
	f.fail["boom"] = true

	c, updates := newTestController(f)
	ctx := context.Background()

	c.SetPendingSearch("boom")
	c.CommitSearch(ctx)
	snap := waitSettled(t, c, updates)
	if snap.Status != StatusFailed || snap.Err == nil {
		t.Fatalf("expected failed status with error, got %+v", snap)
	}

	// Следующий успешный запрос снимает ошибку
	c.SetPendingSearch("")
	c.CommitSearch(ctx)
	snap = waitSettled(t, c, updates)
	if snap.Status != StatusSuccess || snap.Err != nil {
		t.Fatalf("recovery did not clear the error: %+v", snap)
	}
}

func TestClearRefetchesCleanQuery(t *testing.T) {
	f := newFakeListing()
	f.results[""] = &ListResult{Items: []Book{{ID: "b"}}, Total: 1, TotalPages: 1}
	f.results["dune"] = &ListResult{Items: []Book{{ID: "d"}}, Total: 1, TotalPages: 1}

	c, updates := newTestController(f)
	ctx := context.Background()

	c.SetPendingSearch("dune")
	c.CommitSearch(ctx)
	c.ToggleMinRating(ctx, 4)
	waitSettled(t, c, updates)
	if !c.HasActiveFilters() {
		t.Fatal("filters should be active")
	}

	c.Clear(ctx)
	snap := waitSettled(t, c, updates)
	if c.HasActiveFilters() {
		t.Fatal("clear left filters active")
	}
	if want := BuildQuery(NewFilterState(10)); snap.Query != want {
		t.Fatalf("clear must refetch the default query, got %+v", snap.Query)
	}
	if snap.Status != StatusSuccess {
		t.Fatalf("clear did not refetch, status %v", snap.Status)
	}
}

func TestWindowFollowsResult(t *testing.T) {
	f := newFakeListing()
	f.results[""] = &ListResult{Items: []Book{{ID: "b"}}, Total: 100, TotalPages: 10}

	c, updates := newTestController(f)
	ctx := context.Background()

	if c.Window() != nil {
		t.Fatal("window must be empty before any result")
	}

	c.Refresh(ctx)
	waitSettled(t, c, updates)
	c.SetPage(ctx, 5)
	waitSettled(t, c, updates)

	assertTokens(t, c.Window(), []PageToken{1, Ellipsis, 5, Ellipsis, 10})
}
