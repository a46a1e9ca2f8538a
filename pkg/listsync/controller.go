// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package listsync keeps a paginated, filterable view of one backend
// collection synchronized with user actions.
//
// One Controller exists per entity type. Every state change that needs
// fresh data (page change, filter change, a record saved or deleted)
// issues exactly one fetch. Responses are committed latest-wins: each
// fetch takes a sequence number, and a response whose number is no
// longer current is discarded, so a slow page-2 response can never
// overwrite the page-1 data the user asked for afterwards.
//
// Failures are sticky but not destructive: the previous items and
// total stay on screen, Err carries the failure, and nothing retries
// until the user acts again.
package listsync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/miinsurtech/corredor/pkg/api"
)

// Fetcher loads one page for the controller. In production it wraps
// api.List with the controller's entity type.
type Fetcher[T any] func(ctx context.Context, q api.ListQuery) (api.ListResult[T], error)

// State is a snapshot of a controller. Items is shared, not copied;
// treat it as read-only.
type State[T any] struct {
	Items   []T
	Total   int
	Page    int
	Filters map[string]string
	Loading bool
	Err     error
}

// DefaultPageSize matches the web console's page length.
const DefaultPageSize = 10

// Config wires a Controller.
type Config[T any] struct {
	// Fetch loads one page. Required.
	Fetch Fetcher[T]

	// PageSize is the page length. Defaults to DefaultPageSize.
	PageSize int

	// Authorized gates fetching. When it returns false the controller
	// updates its pagination state but issues no request. Nil means
	// always authorized.
	Authorized func() bool

	// OnError is called with every fetch failure, after the state has
	// absorbed it. Nil means errors are only recorded in State.
	OnError func(error)

	// Logger receives fetch lifecycle events. Nil discards.
	Logger *slog.Logger
}

// Controller synchronizes one collection view. Safe for concurrent
// use.
type Controller[T any] struct {
	fetch      Fetcher[T]
	pageSize   int
	authorized func() bool
	onError    func(error)
	logger     *slog.Logger

	mu      sync.Mutex
	items   []T
	total   int
	page    int
	filters map[string]string
	pending int
	seq     uint64
	err     error
}

// New creates a Controller. The initial state is page 1, no filters,
// no items; nothing is fetched until the first Refresh.
func New[T any](cfg Config[T]) *Controller[T] {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller[T]{
		fetch:      cfg.Fetch,
		pageSize:   pageSize,
		authorized: cfg.Authorized,
		onError:    cfg.OnError,
		logger:     logger,
		page:       1,
		filters:    map[string]string{},
	}
}

// PageSize returns the configured page length.
func (c *Controller[T]) PageSize() int { return c.pageSize }

// State returns a snapshot. Loading is true while any fetch is in
// flight.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	filters := make(map[string]string, len(c.filters))
	for k, v := range c.filters {
		filters[k] = v
	}
	return State[T]{
		Items:   c.items,
		Total:   c.total,
		Page:    c.page,
		Filters: filters,
		Loading: c.pending > 0,
		Err:     c.err,
	}
}

// Refresh refetches the current page with the current filters.
func (c *Controller[T]) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.startFetchLocked(ctx)
}

// SetPage moves to page n and fetches it. n is clamped to
// [1, ceil(total/pageSize)]; when the total is still unknown the only
// valid page is 1. Setting the page it is already on fetches nothing.
func (c *Controller[T]) SetPage(ctx context.Context, n int) {
	c.mu.Lock()
	n = c.clampLocked(n)
	if n == c.page {
		c.mu.Unlock()
		return
	}
	c.page = n
	c.startFetchLocked(ctx)
}

// MaxPage returns the last valid page under the current total.
func (c *Controller[T]) MaxPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxPageLocked()
}

func (c *Controller[T]) maxPageLocked() int {
	if c.total <= 0 {
		return 1
	}
	return (c.total + c.pageSize - 1) / c.pageSize
}

func (c *Controller[T]) clampLocked(n int) int {
	if n < 1 {
		return 1
	}
	if max := c.maxPageLocked(); n > max {
		return max
	}
	return n
}

// SetFilters merges changes into the active filters, resets to page 1,
// and fetches. An empty value keeps the key but the client omits it
// from the query string, matching how the web console cleared a filter
// field.
func (c *Controller[T]) SetFilters(ctx context.Context, changes map[string]string) {
	c.mu.Lock()
	for k, v := range changes {
		c.filters[k] = v
	}
	c.page = 1
	c.startFetchLocked(ctx)
}

// ClearFilters drops every filter, resets to page 1, and fetches.
func (c *Controller[T]) ClearFilters(ctx context.Context) {
	c.mu.Lock()
	c.filters = map[string]string{}
	c.page = 1
	c.startFetchLocked(ctx)
}

// OnSaved is invoked after a record of this collection was created or
// updated: back to page 1, filters kept, refetch.
func (c *Controller[T]) OnSaved(ctx context.Context) {
	c.mu.Lock()
	c.page = 1
	c.startFetchLocked(ctx)
}

// OnDeleted is invoked after a record of this collection was deleted.
// Same behavior as OnSaved; going to page 1 sidesteps the case where
// the deletion emptied the last page.
func (c *Controller[T]) OnDeleted(ctx context.Context) {
	c.mu.Lock()
	c.page = 1
	c.startFetchLocked(ctx)
}

// startFetchLocked issues one fetch for the current page and filters.
// Called with c.mu held; releases it.
//
// The fetch itself runs in the calling goroutine. Claiming a new
// sequence number invalidates every fetch already in flight.
func (c *Controller[T]) startFetchLocked(ctx context.Context) {
	if c.authorized != nil && !c.authorized() {
		c.mu.Unlock()
		return
	}

	c.seq++
	mySeq := c.seq
	c.pending++
	q := api.ListQuery{
		Offset:  (c.page - 1) * c.pageSize,
		Limit:   c.pageSize,
		Filters: make(map[string]string, len(c.filters)),
	}
	for k, v := range c.filters {
		q.Filters[k] = v
	}
	page := c.page
	c.mu.Unlock()

	res, err := c.fetch(ctx, q)

	c.mu.Lock()
	c.pending--
	if mySeq != c.seq {
		// A newer fetch was issued while this one was in flight;
		// its result wins regardless of arrival order.
		c.mu.Unlock()
		c.logger.Debug("stale response discarded", "page", page)
		return
	}
	if err != nil {
		c.err = err
		c.mu.Unlock()
		c.logger.Warn("fetch failed", "page", page, "error", err)
		if c.onError != nil {
			c.onError(err)
		}
		return
	}
	c.items = res.Items
	c.total = res.Total
	c.err = nil
	c.mu.Unlock()
	c.logger.Debug("page loaded", "page", page, "items", len(res.Items), "total", res.Total)
}
