// Package observability provides hooks for metrics and logging.
//
// The engine packages stay free of any metrics backend. They report what
// they do through small hook interfaces, and main decides what listens.
// Every hook has a no-op default, so libraries and tests never need to
// register anything.
//
// # Architecture
//
//   - Hook interfaces per event category (edits, history, binding, HTTP)
//   - No-op default implementations
//   - A process-wide registry set once at startup
//
// [PrometheusHooks] implements every interface on top of a Prometheus
// registry and is what `ladderflow serve` installs.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    ph := observability.NewPrometheusHooks(prometheus.NewRegistry())
//	    observability.SetEditHooks(ph)
//	    observability.SetHistoryHooks(ph)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Edit().OnEdit(flow, "addNode", rungID)
//
// The engine is synchronous, so its hooks take no context. HTTP hooks do.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Edit Hooks
// =============================================================================

// EditHooks receives events from the flow store.
type EditHooks interface {
	// OnEdit records a structural edit that changed a flow.
	OnEdit(flow, op, rung string)

	// OnNoop records an edit that found nothing to change: a missing flow,
	// rung, node, or edge.
	OnNoop(flow, op string)
}

// =============================================================================
// History Hooks
// =============================================================================

// HistoryHooks receives events from the undo/redo manager.
type HistoryHooks interface {
	// OnSnapshot records a pushed snapshot and the resulting undo depth.
	OnSnapshot(pou string, depth int)

	// OnEvict records that the oldest snapshot was dropped at the limit.
	OnEvict(pou string)

	// OnUndo and OnRedo record a restore; applied is false when the stack
	// was empty.
	OnUndo(pou string, applied bool)
	OnRedo(pou string, applied bool)
}

// =============================================================================
// Binding Hooks
// =============================================================================

// BindingHooks receives events from variable binding.
type BindingHooks interface {
	// OnBind records one binding decision for a node kind.
	OnBind(kind string, valid bool)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditHooks is a no-op implementation of EditHooks.
type NoopEditHooks struct{}

func (NoopEditHooks) OnEdit(string, string, string) {}
func (NoopEditHooks) OnNoop(string, string)         {}

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnSnapshot(string, int) {}
func (NoopHistoryHooks) OnEvict(string)         {}
func (NoopHistoryHooks) OnUndo(string, bool)    {}
func (NoopHistoryHooks) OnRedo(string, bool)    {}

// NoopBindingHooks is a no-op implementation of BindingHooks.
type NoopBindingHooks struct{}

func (NoopBindingHooks) OnBind(string, bool) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editHooks    EditHooks    = NoopEditHooks{}
	historyHooks HistoryHooks = NoopHistoryHooks{}
	bindingHooks BindingHooks = NoopBindingHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetEditHooks registers custom edit hooks. Nil is ignored.
func SetEditHooks(h EditHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editHooks = h
	}
}

// SetHistoryHooks registers custom history hooks. Nil is ignored.
func SetHistoryHooks(h HistoryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		historyHooks = h
	}
}

// SetBindingHooks registers custom binding hooks. Nil is ignored.
func SetBindingHooks(h BindingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		bindingHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Edit returns the registered edit hooks.
func Edit() EditHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editHooks
}

// History returns the registered history hooks.
func History() HistoryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return historyHooks
}

// Binding returns the registered binding hooks.
func Binding() BindingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return bindingHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editHooks = NoopEditHooks{}
	historyHooks = NoopHistoryHooks{}
	bindingHooks = NoopBindingHooks{}
	httpHooks = NoopHTTPHooks{}
}
