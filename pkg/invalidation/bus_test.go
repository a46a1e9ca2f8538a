// Copyright (C) 2025 Mi-Insurtech
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package invalidation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/miinsurtech/corredor/pkg/entity"
)

// counter is a refresher that counts invocations.
type counter struct {
	mu   sync.Mutex
	n    int
	fail error
}

func (c *counter) refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.fail
}

func (c *counter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// =============================================================================
// Cascade rules
// =============================================================================

func TestDefaultRules_CoverAllTypes(t *testing.T) {
	rules := DefaultRules()
	for _, typ := range entity.All() {
		if _, ok := rules[typ]; !ok {
			t.Errorf("no rule for %s", typ)
		}
	}
}

func TestDefaultRules_NoSelfReference(t *testing.T) {
	for source, affected := range DefaultRules() {
		for _, a := range affected {
			if a == source {
				t.Errorf("%s cascades to itself", source)
			}
		}
	}
}

// =============================================================================
// Notify fan-out
// =============================================================================

func TestBus_Notify_RefreshesAffectedViews(t *testing.T) {
	bus := New(nil, nil)

	polizas := &counter{}
	reclamaciones := &counter{}
	clientes := &counter{}
	bus.Mount(entity.TypePoliza, polizas.refresh)
	bus.Mount(entity.TypeReclamacion, reclamaciones.refresh)
	bus.Mount(entity.TypeCliente, clientes.refresh)

	err := bus.Notify(context.Background(), entity.TypeCliente)
	if err != nil {
		t.Fatalf("Notify() error: %v", err)
	}

	if polizas.count() != 1 {
		t.Errorf("polizas refreshed %d times, want 1", polizas.count())
	}
	if reclamaciones.count() != 1 {
		t.Errorf("reclamaciones refreshed %d times, want 1", reclamaciones.count())
	}
	if clientes.count() != 0 {
		t.Error("the source's own view must not be refreshed by the bus")
	}
}

func TestBus_Notify_EveryAffectedTypeRefreshed(t *testing.T) {
	// Mount everything, then check each source refreshes exactly its
	// rule set.
	for source, affected := range DefaultRules() {
		bus := New(nil, nil)
		counters := map[entity.Type]*counter{}
		for _, typ := range entity.All() {
			c := &counter{}
			counters[typ] = c
			bus.Mount(typ, c.refresh)
		}

		if err := bus.Notify(context.Background(), source); err != nil {
			t.Fatalf("Notify(%s) error: %v", source, err)
		}

		want := map[entity.Type]bool{}
		for _, a := range affected {
			want[a] = true
		}
		for typ, c := range counters {
			wantN := 0
			if want[typ] {
				wantN = 1
			}
			if c.count() != wantN {
				t.Errorf("source %s: %s refreshed %d times, want %d", source, typ, c.count(), wantN)
			}
		}
	}
}

func TestBus_Notify_SkipsUnmounted(t *testing.T) {
	bus := New(nil, nil)

	polizas := &counter{}
	bus.Mount(entity.TypePoliza, polizas.refresh)
	// reclamaciones view never mounted

	err := bus.Notify(context.Background(), entity.TypeCliente)
	if err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if polizas.count() != 1 {
		t.Errorf("mounted view refreshed %d times, want 1", polizas.count())
	}
}

func TestBus_Notify_AfterUnmount(t *testing.T) {
	bus := New(nil, nil)

	polizas := &counter{}
	bus.Mount(entity.TypePoliza, polizas.refresh)
	bus.Unmount(entity.TypePoliza)

	_ = bus.Notify(context.Background(), entity.TypeCliente)

	if polizas.count() != 0 {
		t.Error("unmounted view must not be refreshed")
	}
}

func TestBus_Notify_NoListeners(t *testing.T) {
	bus := New(nil, nil)
	if err := bus.Notify(context.Background(), entity.TypeComision); err != nil {
		t.Errorf("Notify() with nothing mounted should be nil, got %v", err)
	}
}

func TestBus_Mounted(t *testing.T) {
	bus := New(nil, nil)
	if bus.Mounted(entity.TypeCliente) {
		t.Error("nothing mounted yet")
	}
	bus.Mount(entity.TypeCliente, (&counter{}).refresh)
	if !bus.Mounted(entity.TypeCliente) {
		t.Error("cliente should be mounted")
	}
}

// =============================================================================
// Failure isolation
// =============================================================================

func TestBus_Notify_FailureDoesNotBlockOthers(t *testing.T) {
	bus := New(nil, nil)

	polizas := &counter{fail: errors.New("polizas down")}
	reclamaciones := &counter{}
	bus.Mount(entity.TypePoliza, polizas.refresh)
	bus.Mount(entity.TypeReclamacion, reclamaciones.refresh)

	err := bus.Notify(context.Background(), entity.TypeCliente)

	if err == nil {
		t.Fatal("Notify() should surface the failure")
	}
	if !strings.Contains(err.Error(), "polizas down") {
		t.Errorf("err = %v, want the refresh failure", err)
	}
	if reclamaciones.count() != 1 {
		t.Error("the healthy view must still refresh")
	}
}

func TestBus_Notify_SlowViewDoesNotBlockFast(t *testing.T) {
	bus := New(nil, nil)

	slowDone := make(chan struct{})
	fastDone := make(chan time.Time, 1)
	bus.Mount(entity.TypePoliza, func(ctx context.Context) error {
		<-slowDone
		return nil
	})
	bus.Mount(entity.TypeReclamacion, func(ctx context.Context) error {
		fastDone <- time.Now()
		return nil
	})

	go func() {
		_ = bus.Notify(context.Background(), entity.TypeCliente)
	}()

	select {
	case <-fastDone:
		// fast view completed while the slow one is still blocked
	case <-time.After(2 * time.Second):
		t.Error("fast view was blocked behind the slow one")
	}
	close(slowDone)
}

// =============================================================================
// Hooks
// =============================================================================

func TestBus_Hooks_RunForListedSources(t *testing.T) {
	bus := New(nil, nil)

	stats := &counter{}
	bus.AddHook(Hook{
		Name:    "statistics",
		Sources: SummarySources(),
		Refresh: stats.refresh,
	})

	for _, typ := range entity.All() {
		_ = bus.Notify(context.Background(), typ)
	}
	if stats.count() != len(entity.All()) {
		t.Errorf("statistics refreshed %d times, want %d", stats.count(), len(entity.All()))
	}
}

func TestBus_Hooks_SkippedForOtherSources(t *testing.T) {
	bus := New(nil, nil)

	expirations := &counter{}
	bus.AddHook(Hook{
		Name:    "expirations",
		Sources: ExpirationSources(),
		Refresh: expirations.refresh,
	})

	_ = bus.Notify(context.Background(), entity.TypeComision)
	if expirations.count() != 0 {
		t.Error("commission mutations must not refresh expirations")
	}

	_ = bus.Notify(context.Background(), entity.TypePoliza)
	if expirations.count() != 1 {
		t.Errorf("policy mutation should refresh expirations, got %d", expirations.count())
	}
}

func TestBus_HookFailure_Surfaced(t *testing.T) {
	bus := New(nil, nil)
	bus.AddHook(Hook{
		Name:    "statistics",
		Sources: SummarySources(),
		Refresh: (&counter{fail: errors.New("stats down")}).refresh,
	})

	err := bus.Notify(context.Background(), entity.TypeCliente)
	if err == nil || !strings.Contains(err.Error(), "statistics") {
		t.Errorf("err = %v, want statistics failure", err)
	}
}

// =============================================================================
// Concurrency
// =============================================================================

func TestBus_ConcurrentNotifyAndMount(t *testing.T) {
	bus := New(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.Mount(entity.TypePoliza, (&counter{}).refresh)
			bus.Unmount(entity.TypePoliza)
		}()
		go func() {
			defer wg.Done()
			_ = bus.Notify(context.Background(), entity.TypeCliente)
		}()
	}
	wg.Wait()
}
