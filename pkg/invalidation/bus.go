// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package invalidation propagates entity mutations to the views they
// affect.
//
// The brokerage entities are a relational web: saving a client changes
// what the policy list displays, resolving a claim changes the
// statistics summary. Rather than each mutation site knowing every
// affected view, a single Bus holds the cascade table; a mutation
// notifies the bus with the source type and the bus refreshes every
// mounted affected view concurrently.
//
// Views that aren't mounted (the user never opened that list) are
// skipped, and one failing refresh never blocks the others.
package invalidation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/miinsurtech/corredor/pkg/entity"
)

// Refresher refetches one view. In production it wraps a listsync
// controller's Refresh or a summary fetch.
type Refresher func(ctx context.Context) error

// Hook is a derived view (no owning entity type) refreshed whenever
// one of its source types mutates.
type Hook struct {
	// Name identifies the hook in logs and errors.
	Name string

	// Sources are the entity types whose mutations trigger the hook.
	Sources []entity.Type

	// Refresh refetches the view.
	Refresh Refresher
}

// Bus fans mutation notifications out to mounted views. Safe for
// concurrent use.
type Bus struct {
	rules  Rules
	logger *slog.Logger

	mu      sync.Mutex
	mounted map[entity.Type]Refresher
	hooks   []Hook
}

// New creates a Bus with the given cascade rules. Nil rules means
// DefaultRules.
func New(rules Rules, logger *slog.Logger) *Bus {
	if rules == nil {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		rules:   rules,
		logger:  logger,
		mounted: map[entity.Type]Refresher{},
	}
}

// Mount registers the refresher for typ, replacing any previous one.
// A mounted type participates in cascades until Unmount.
func (b *Bus) Mount(typ entity.Type, r Refresher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mounted[typ] = r
}

// Unmount removes typ from cascades. Notifications for absent types
// are silently skipped, so unmounting is always safe.
func (b *Bus) Unmount(typ entity.Type) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.mounted, typ)
}

// Mounted reports whether typ currently has a refresher.
func (b *Bus) Mounted(typ entity.Type) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.mounted[typ]
	return ok
}

// AddHook registers a derived-view hook.
func (b *Bus) AddHook(h Hook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = append(b.hooks, h)
}

// Notify fans out after a mutation of source. Every mounted affected
// view and every hook listening to source refreshes concurrently; all
// of them run to completion regardless of individual failures, each
// failure is logged, and the first error is returned.
func (b *Bus) Notify(ctx context.Context, source entity.Type) error {
	type task struct {
		name    string
		refresh Refresher
	}

	b.mu.Lock()
	var tasks []task
	for _, affected := range b.rules[source] {
		r, ok := b.mounted[affected]
		if !ok {
			continue
		}
		tasks = append(tasks, task{name: string(affected), refresh: r})
	}
	for _, h := range b.hooks {
		if listensTo(h, source) {
			tasks = append(tasks, task{name: h.Name, refresh: h.Refresh})
		}
	}
	b.mu.Unlock()

	if len(tasks) == 0 {
		return nil
	}

	b.logger.Debug("invalidation fan-out", "source", source, "views", len(tasks))

	g, ctx := errgroup.WithContext(ctx)
	var firstErr error
	var errMu sync.Mutex
	for _, t := range tasks {
		g.Go(func() error {
			if err := t.refresh(ctx); err != nil {
				b.logger.Warn("refresh failed", "view", t.name, "source", source, "error", err)
				errMu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("refresh %s: %w", t.name, err)
				}
				errMu.Unlock()
			}
			// Never return the error to the group: a failing view
			// must not cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()
	return firstErr
}

func listensTo(h Hook, source entity.Type) bool {
	for _, s := range h.Sources {
		if s == source {
			return true
		}
	}
	return false
}
