// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package listsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/miinsurtech/corredor/pkg/api"
)

// fakeBackend serves a fixed collection of ints, honoring offset,
// limit, and a "min" filter. It records every query it saw.
type fakeBackend struct {
	mu      sync.Mutex
	total   int
	queries []api.ListQuery
	fail    error
}

func (b *fakeBackend) fetch(ctx context.Context, q api.ListQuery) (api.ListResult[int], error) {
	b.mu.Lock()
	b.queries = append(b.queries, q)
	fail := b.fail
	total := b.total
	b.mu.Unlock()

	if fail != nil {
		return api.ListResult[int]{}, fail
	}

	items := []int{}
	for i := q.Offset; i < total && len(items) < q.Limit; i++ {
		items = append(items, i)
	}
	return api.ListResult[int]{Items: items, Total: total}, nil
}

func (b *fakeBackend) queryCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queries)
}

func (b *fakeBackend) lastQuery() api.ListQuery {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queries[len(b.queries)-1]
}

// =============================================================================
// Initial state
// =============================================================================

func TestController_InitialState(t *testing.T) {
	c := New(Config[int]{Fetch: (&fakeBackend{}).fetch})

	st := c.State()
	if st.Page != 1 {
		t.Errorf("Page = %d, want 1", st.Page)
	}
	if st.Total != 0 || len(st.Items) != 0 {
		t.Errorf("fresh controller should be empty, got %+v", st)
	}
	if st.Loading {
		t.Error("fresh controller should not be loading")
	}
	if len(st.Filters) != 0 {
		t.Errorf("Filters = %v, want empty", st.Filters)
	}
}

func TestController_DefaultPageSize(t *testing.T) {
	c := New(Config[int]{Fetch: (&fakeBackend{}).fetch})
	if c.PageSize() != DefaultPageSize {
		t.Errorf("PageSize() = %d, want %d", c.PageSize(), DefaultPageSize)
	}
}

// =============================================================================
// Refresh and pagination
// =============================================================================

func TestController_Refresh_LoadsFirstPage(t *testing.T) {
	b := &fakeBackend{total: 25}
	c := New(Config[int]{Fetch: b.fetch})

	c.Refresh(context.Background())

	st := c.State()
	if st.Total != 25 {
		t.Errorf("Total = %d, want 25", st.Total)
	}
	if len(st.Items) != 10 {
		t.Errorf("len(Items) = %d, want 10", len(st.Items))
	}
	if st.Loading {
		t.Error("Loading should be false after the fetch returns")
	}
	q := b.lastQuery()
	if q.Offset != 0 || q.Limit != 10 {
		t.Errorf("query = %+v, want offset 0 limit 10", q)
	}
}

func TestController_SetPage_FetchesRequestedWindow(t *testing.T) {
	b := &fakeBackend{total: 35}
	c := New(Config[int]{Fetch: b.fetch})
	c.Refresh(context.Background())

	c.SetPage(context.Background(), 3)

	st := c.State()
	if st.Page != 3 {
		t.Errorf("Page = %d, want 3", st.Page)
	}
	q := b.lastQuery()
	if q.Offset != 20 {
		t.Errorf("Offset = %d, want 20", q.Offset)
	}
}

func TestController_SetPage_ClampsHigh(t *testing.T) {
	b := &fakeBackend{total: 35} // 4 pages of 10
	c := New(Config[int]{Fetch: b.fetch})
	c.Refresh(context.Background())

	c.SetPage(context.Background(), 99)

	if got := c.State().Page; got != 4 {
		t.Errorf("Page = %d, want 4 (clamped)", got)
	}
}

func TestController_SetPage_ClampsLow(t *testing.T) {
	b := &fakeBackend{total: 35}
	c := New(Config[int]{Fetch: b.fetch})
	c.Refresh(context.Background())
	c.SetPage(context.Background(), 3)

	c.SetPage(context.Background(), -5)

	if got := c.State().Page; got != 1 {
		t.Errorf("Page = %d, want 1 (clamped)", got)
	}
}

func TestController_SetPage_UnknownTotalPinsToOne(t *testing.T) {
	b := &fakeBackend{total: 50}
	c := New(Config[int]{Fetch: b.fetch})

	// No fetch has happened; total is unknown.
	c.SetPage(context.Background(), 5)

	if got := c.State().Page; got != 1 {
		t.Errorf("Page = %d, want 1 when total unknown", got)
	}
}

func TestController_SetPage_SamePageNoFetch(t *testing.T) {
	b := &fakeBackend{total: 35}
	c := New(Config[int]{Fetch: b.fetch})
	c.Refresh(context.Background())
	before := b.queryCount()

	c.SetPage(context.Background(), 1)

	if b.queryCount() != before {
		t.Error("setting the current page should not fetch")
	}
}

func TestController_MaxPage(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{0, 1},
		{1, 1},
		{10, 1},
		{11, 2},
		{35, 4},
		{40, 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("total_%d", tt.total), func(t *testing.T) {
			b := &fakeBackend{total: tt.total}
			c := New(Config[int]{Fetch: b.fetch})
			c.Refresh(context.Background())
			if got := c.MaxPage(); got != tt.want {
				t.Errorf("MaxPage() = %d, want %d", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Filters
// =============================================================================

func TestController_SetFilters_ResetsPage(t *testing.T) {
	b := &fakeBackend{total: 35}
	c := New(Config[int]{Fetch: b.fetch})
	c.Refresh(context.Background())
	c.SetPage(context.Background(), 3)

	c.SetFilters(context.Background(), map[string]string{"estado": "Activa"})

	st := c.State()
	if st.Page != 1 {
		t.Errorf("Page = %d, want 1 after filter change", st.Page)
	}
	q := b.lastQuery()
	if q.Offset != 0 {
		t.Errorf("Offset = %d, want 0 after filter change", q.Offset)
	}
	if q.Filters["estado"] != "Activa" {
		t.Errorf("Filters = %v, want estado=Activa", q.Filters)
	}
}

func TestController_SetFilters_Merges(t *testing.T) {
	b := &fakeBackend{total: 10}
	c := New(Config[int]{Fetch: b.fetch})

	c.SetFilters(context.Background(), map[string]string{"estado": "Activa"})
	c.SetFilters(context.Background(), map[string]string{"cliente_id": "5"})

	st := c.State()
	if st.Filters["estado"] != "Activa" || st.Filters["cliente_id"] != "5" {
		t.Errorf("Filters = %v, want both keys", st.Filters)
	}
}

func TestController_ClearFilters(t *testing.T) {
	b := &fakeBackend{total: 10}
	c := New(Config[int]{Fetch: b.fetch})
	c.SetFilters(context.Background(), map[string]string{"estado": "Activa"})

	c.ClearFilters(context.Background())

	if len(c.State().Filters) != 0 {
		t.Errorf("Filters = %v, want empty", c.State().Filters)
	}
}

func TestController_State_FiltersAreACopy(t *testing.T) {
	b := &fakeBackend{total: 10}
	c := New(Config[int]{Fetch: b.fetch})
	c.SetFilters(context.Background(), map[string]string{"estado": "Activa"})

	st := c.State()
	st.Filters["estado"] = "mutated"

	if c.State().Filters["estado"] != "Activa" {
		t.Error("mutating a snapshot must not affect the controller")
	}
}

// =============================================================================
// Save / delete hooks
// =============================================================================

func TestController_OnSaved_ResetsToPageOneKeepsFilters(t *testing.T) {
	b := &fakeBackend{total: 35}
	c := New(Config[int]{Fetch: b.fetch})
	c.SetFilters(context.Background(), map[string]string{"estado": "Activa"})
	c.SetPage(context.Background(), 3)

	c.OnSaved(context.Background())

	st := c.State()
	if st.Page != 1 {
		t.Errorf("Page = %d, want 1", st.Page)
	}
	q := b.lastQuery()
	if q.Filters["estado"] != "Activa" {
		t.Error("filters must survive a save")
	}
}

func TestController_OnDeleted_FromLastPage(t *testing.T) {
	// Page 4 holds records 30..34. Deleting one of them must land the
	// user on page 1 with fresh data, never on a dangling page.
	b := &fakeBackend{total: 35}
	c := New(Config[int]{Fetch: b.fetch})
	c.Refresh(context.Background())
	c.SetPage(context.Background(), 4)

	b.mu.Lock()
	b.total = 34
	b.mu.Unlock()
	c.OnDeleted(context.Background())

	st := c.State()
	if st.Page != 1 {
		t.Errorf("Page = %d, want 1 after delete", st.Page)
	}
	if st.Total != 34 {
		t.Errorf("Total = %d, want 34", st.Total)
	}
	if len(st.Items) != 10 || st.Items[0] != 0 {
		t.Errorf("Items = %v, want the first page", st.Items)
	}
}

// =============================================================================
// Errors
// =============================================================================

func TestController_FetchError_KeepsPreviousData(t *testing.T) {
	b := &fakeBackend{total: 25}
	c := New(Config[int]{Fetch: b.fetch})
	c.Refresh(context.Background())

	b.mu.Lock()
	b.fail = errors.New("backend down")
	b.mu.Unlock()
	c.Refresh(context.Background())

	st := c.State()
	if st.Err == nil {
		t.Fatal("Err should be set after a failed fetch")
	}
	if len(st.Items) != 10 || st.Total != 25 {
		t.Errorf("previous data should survive a failure, got %d items total %d", len(st.Items), st.Total)
	}
	if st.Loading {
		t.Error("Loading must clear even on failure")
	}
}

func TestController_FetchError_NotifiesSink(t *testing.T) {
	var got error
	b := &fakeBackend{fail: errors.New("boom")}
	c := New(Config[int]{
		Fetch:   b.fetch,
		OnError: func(err error) { got = err },
	})

	c.Refresh(context.Background())

	if got == nil || got.Error() != "boom" {
		t.Errorf("OnError got %v, want boom", got)
	}
}

func TestController_ErrorClearedBySuccess(t *testing.T) {
	b := &fakeBackend{total: 5, fail: errors.New("boom")}
	c := New(Config[int]{Fetch: b.fetch})
	c.Refresh(context.Background())

	b.mu.Lock()
	b.fail = nil
	b.mu.Unlock()
	c.Refresh(context.Background())

	if err := c.State().Err; err != nil {
		t.Errorf("Err = %v, want nil after recovery", err)
	}
}

func TestController_NoAutoRetry(t *testing.T) {
	b := &fakeBackend{fail: errors.New("boom")}
	c := New(Config[int]{Fetch: b.fetch})

	c.Refresh(context.Background())

	if n := b.queryCount(); n != 1 {
		t.Errorf("query count = %d, want exactly 1 (no retry)", n)
	}
}

// =============================================================================
// Authorization gate
// =============================================================================

func TestController_Unauthorized_NoFetch(t *testing.T) {
	b := &fakeBackend{total: 10}
	c := New(Config[int]{
		Fetch:      b.fetch,
		Authorized: func() bool { return false },
	})

	c.Refresh(context.Background())
	c.SetFilters(context.Background(), map[string]string{"estado": "Activa"})

	if b.queryCount() != 0 {
		t.Error("unauthorized controller must not fetch")
	}
	// The local state change still lands.
	if c.State().Filters["estado"] != "Activa" {
		t.Error("filter change should apply locally even when gated")
	}
}

// =============================================================================
// Stale responses and concurrency
// =============================================================================

// gatedFetcher blocks each fetch until released, so tests can control
// response arrival order.
type gatedFetcher struct {
	mu      sync.Mutex
	started []chan struct{} // closed by the test to release a call
	results []api.ListResult[int]
	ready   chan struct{} // signaled when a call is registered
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{ready: make(chan struct{}, 16)}
}

func (g *gatedFetcher) fetch(ctx context.Context, q api.ListQuery) (api.ListResult[int], error) {
	g.mu.Lock()
	idx := len(g.started)
	gate := make(chan struct{})
	g.started = append(g.started, gate)
	g.mu.Unlock()
	g.ready <- struct{}{}

	<-gate

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.results[idx], nil
}

func (g *gatedFetcher) release(idx int) {
	g.mu.Lock()
	gate := g.started[idx]
	g.mu.Unlock()
	close(gate)
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	g := newGatedFetcher()
	g.results = []api.ListResult[int]{
		{Items: []int{100}, Total: 40}, // slow page-2 response
		{Items: []int{0}, Total: 40},   // fresh page-1 response
	}
	c := New(Config[int]{Fetch: g.fetch})

	// Seed the total so page 2 is reachable, bypassing the fetch path.
	c.mu.Lock()
	c.total = 40
	c.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.SetPage(context.Background(), 2) // fetch 0, will be stale
	}()
	<-g.ready

	go func() {
		defer wg.Done()
		c.SetPage(context.Background(), 1) // fetch 1, supersedes
	}()
	<-g.ready

	// Loading while both are in flight.
	if !c.State().Loading {
		t.Error("Loading should be true with fetches in flight")
	}

	// Newest response lands first, stale one afterwards.
	g.release(1)
	g.release(0)
	wg.Wait()

	st := c.State()
	if len(st.Items) != 1 || st.Items[0] != 0 {
		t.Errorf("Items = %v, want the page-1 result", st.Items)
	}
	if st.Page != 1 {
		t.Errorf("Page = %d, want 1", st.Page)
	}
	if st.Loading {
		t.Error("Loading should clear once both fetches returned")
	}
}

func TestController_SupersededFilterScenario(t *testing.T) {
	// The user types a filter, then refines it before the first
	// response arrives. Only the refined result may be shown.
	g := newGatedFetcher()
	g.results = []api.ListResult[int]{
		{Items: []int{1, 2, 3}, Total: 3}, // broad filter, stale
		{Items: []int{2}, Total: 1},       // refined filter
	}
	c := New(Config[int]{Fetch: g.fetch})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.SetFilters(context.Background(), map[string]string{"nombre": "Gar"})
	}()
	<-g.ready
	go func() {
		defer wg.Done()
		c.SetFilters(context.Background(), map[string]string{"nombre": "García"})
	}()
	<-g.ready

	// Stale response arrives first this time; it must still lose.
	g.release(0)
	g.release(1)
	wg.Wait()

	st := c.State()
	if st.Total != 1 || len(st.Items) != 1 || st.Items[0] != 2 {
		t.Errorf("state shows %v (total %d), want the refined result", st.Items, st.Total)
	}
	if st.Filters["nombre"] != "García" {
		t.Errorf("Filters = %v, want the refined filter", st.Filters)
	}
}

func TestController_ConcurrentMutations(t *testing.T) {
	b := &fakeBackend{total: 100}
	c := New(Config[int]{Fetch: b.fetch})
	c.Refresh(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			switch n % 3 {
			case 0:
				c.SetPage(context.Background(), n%10)
			case 1:
				c.SetFilters(context.Background(), map[string]string{"k": fmt.Sprint(n)})
			default:
				c.Refresh(context.Background())
			}
		}(i)
	}
	wg.Wait()

	st := c.State()
	if st.Loading {
		t.Error("Loading should be false when no fetch is in flight")
	}
	if st.Page < 1 || st.Page > 10 {
		t.Errorf("Page = %d, out of range", st.Page)
	}
}
