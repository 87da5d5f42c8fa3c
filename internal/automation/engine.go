// Package automation drives an order's status forward over time:
// pending -> confirmed -> preparing -> ready -> completed. Each order gets
// its own detached background task; cancellation is observed by re-reading
// the order at the top of every step rather than via an explicit signal.
package automation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kithulovali/kfc-ordering/internal/metrics"
	"github.com/kithulovali/kfc-ordering/internal/orders"
)

// OrderStore is the persistence surface the engine needs. *orders.Store
// satisfies it.
type OrderStore interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	SetStatus(ctx context.Context, orderID, status string) error
	MarkAutomationStarted(ctx context.Context, orderID string) error
}

// Engine schedules one background progression per order.
type Engine struct {
	store   OrderStore
	delays  Delays
	metrics *metrics.Emitter

	sleep func(time.Duration)

	mu       sync.Mutex
	inflight map[string]struct{}
	wg       sync.WaitGroup
}

// NewEngine returns an Engine using the given store and delay configuration.
func NewEngine(store OrderStore, delays Delays, em *metrics.Emitter) *Engine {
	return &Engine{
		store:    store,
		delays:   delays,
		metrics:  em,
		sleep:    time.Sleep,
		inflight: map[string]struct{}{},
	}
}

// Activate starts the order's background progression. It is idempotent: a
// no-op when the persisted automation flag is already set, and a no-op for
// an order whose task is already in flight in this process. The flag is
// persisted before the task is spawned.
func (e *Engine) Activate(ctx context.Context, o *orders.Order) error {
	if o == nil || o.AutomationStarted {
		return nil
	}

	e.mu.Lock()
	if _, running := e.inflight[o.OrderID]; running {
		e.mu.Unlock()
		return nil
	}
	e.inflight[o.OrderID] = struct{}{}
	e.mu.Unlock()

	if err := e.store.MarkAutomationStarted(ctx, o.OrderID); err != nil {
		e.mu.Lock()
		delete(e.inflight, o.OrderID)
		e.mu.Unlock()
		return err
	}
	o.AutomationStarted = true

	e.wg.Add(1)
	go e.progress(o.OrderID)
	return nil
}

// progress is the per-order background task. It holds the order's id only
// and re-fetches the record on every step so concurrent external changes
// (cancellation, staff overrides) are observed at the next checkpoint.
// Failures exit silently; an order may stay in a non-terminal status if the
// store is unavailable, which is an accepted limitation.
func (e *Engine) progress(orderID string) {
	defer e.wg.Done()
	defer func() {
		e.mu.Lock()
		delete(e.inflight, orderID)
		e.mu.Unlock()
	}()

	ctx := context.Background()
	for _, target := range orders.ForwardSequence {
		o, err := e.store.Get(ctx, orderID)
		if err != nil || o == nil {
			log.Printf("[automation] order %s: fetch failed, stopping: %v", orderID, err)
			return
		}
		if orders.IsTerminal(o.Status) {
			// another actor pre-empted the engine
			break
		}

		e.sleep(e.delays.For(target))

		if err := e.store.SetStatus(ctx, orderID, target); err != nil {
			log.Printf("[automation] order %s: set %s failed, stopping: %v", orderID, target, err)
			return
		}
		e.metrics.Count(ctx, "StatusTransition", 1, map[string]string{"status": target})
	}

	// cleanup: re-confirm the flag once the order is terminal. Harmless if
	// redundant.
	if o, err := e.store.Get(ctx, orderID); err == nil && o != nil && orders.IsTerminal(o.Status) {
		if err := e.store.MarkAutomationStarted(ctx, orderID); err != nil {
			log.Printf("[automation] order %s: flag confirm failed: %v", orderID, err)
		}
	}
}

// Wait blocks until all in-flight progressions finish. Used by tests and
// graceful shutdown.
func (e *Engine) Wait() {
	e.wg.Wait()
}
