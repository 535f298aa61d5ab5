// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through small hook interfaces; applications register
// implementations at startup. Every interface has a no-op default, so
// instrumentation is optional and the libraries carry no dependency on a
// metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetHoverHooks(&myHoverHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, len(data), len(series))
//	// ... stack, scale, draw ...
//	observability.Render().OnRenderComplete(ctx, len(data), len(series), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the chart renderer and output sinks.
type RenderHooks interface {
	// Chart draw events
	OnRenderStart(ctx context.Context, records, series int)
	OnRenderComplete(ctx context.Context, records, series int, duration time.Duration)

	// Export events (SVG, PNG, JSON, ...)
	OnExportStart(ctx context.Context, formats []string)
	OnExportComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Hover Hooks
// =============================================================================

// HoverHooks receives tooltip interaction events.
type HoverHooks interface {
	// OnHover records a pointer entering or moving over a series.
	OnHover(ctx context.Context, series string)

	// OnLeave records the pointer leaving a series.
	OnLeave(ctx context.Context)
}

// =============================================================================
// Source Hooks
// =============================================================================

// SourceHooks receives dataset loading events.
type SourceHooks interface {
	// OnLoad records a completed dataset load.
	OnLoad(ctx context.Context, source string, records int, duration time.Duration, err error)

	// OnChange records a change notification from a watched source.
	OnChange(ctx context.Context, source string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, int, int)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, int, int, time.Duration)        {}
func (NoopRenderHooks) OnExportStart(context.Context, []string)                          {}
func (NoopRenderHooks) OnExportComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHoverHooks is a no-op implementation of HoverHooks.
type NoopHoverHooks struct{}

func (NoopHoverHooks) OnHover(context.Context, string) {}
func (NoopHoverHooks) OnLeave(context.Context)         {}

// NoopSourceHooks is a no-op implementation of SourceHooks.
type NoopSourceHooks struct{}

func (NoopSourceHooks) OnLoad(context.Context, string, int, time.Duration, error) {}
func (NoopSourceHooks) OnChange(context.Context, string)                          {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hoverHooks  HoverHooks  = NoopHoverHooks{}
	sourceHooks SourceHooks = NoopSourceHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any rendering.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHoverHooks registers custom hover hooks.
func SetHoverHooks(h HoverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		hoverHooks = h
	}
}

// SetSourceHooks registers custom source hooks.
func SetSourceHooks(h SourceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sourceHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Hover returns the registered hover hooks.
func Hover() HoverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return hoverHooks
}

// Source returns the registered source hooks.
func Source() SourceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sourceHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	hoverHooks = NoopHoverHooks{}
	sourceHooks = NoopSourceHooks{}
}
