// ABOUTME: Dashboard that recomputes analytics on every filter change
// ABOUTME: Subscribes to the filter store and republishes complete views
package analytics

import (
	"slices"
	"sync"

	"github.com/sabixx/poc-portal-sub001/filters"
)

// Dashboard keeps the latest View in sync with a filter store. Each store
// mutation recomputes the whole pipeline before the mutation returns, so a
// stale view is never published after a newer one.
type Dashboard struct {
	engine *Engine
	store  *filters.Store

	mu          sync.RWMutex
	current     View
	listeners   []func(View)
	unsubscribe func()
}

func NewDashboard(engine *Engine, store *filters.Store) (*Dashboard, error) {
	d := &Dashboard{engine: engine, store: store}
	d.current = engine.Compute(store.Get())

	unsubscribe, err := store.Subscribe(d.refresh)
	if err != nil {
		return nil, err
	}
	d.unsubscribe = unsubscribe
	return d, nil
}

func (d *Dashboard) refresh(state filters.FilterState) {
	view := d.engine.Compute(state)

	d.mu.Lock()
	d.current = view
	listeners := slices.Clone(d.listeners)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}

// Current returns the most recently computed view.
func (d *Dashboard) Current() View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// OnChange registers fn to receive every recomputed view.
func (d *Dashboard) OnChange(fn func(View)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

func (d *Dashboard) Engine() *Engine { return d.engine }
func (d *Dashboard) Store() *filters.Store { return d.store }

// DrillDown drills into a metric or row under the current filter state.
func (d *Dashboard) DrillDown(target Target) (Drill, error) {
	return d.engine.DrillDown(target, d.Current().State.Selection)
}

// Close detaches the dashboard from its store.
func (d *Dashboard) Close() {
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
}
