// Package observability lets the application observe pipeline jobs and cache
// traffic without the pipeline depending on any metrics backend.
//
// Libraries emit events through the registered hooks:
//
//	observability.Pipeline().OnJobStart(ctx, "background")
//	// ... run the job ...
//	observability.Pipeline().OnJobComplete(ctx, "background", n, time.Since(start), err)
//
// and main (or a server) registers an implementation at startup:
//
//	tally := observability.NewCounters()
//	observability.SetPipelineHooks(tally)
//	observability.SetCacheHooks(tally)
//
// Hooks default to no-ops.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Hook Interfaces
// =============================================================================

// PipelineHooks receives job lifecycle events. job is one of the pipeline's
// job names ("background", "recolor", "tidy", "swatch", "preview").
type PipelineHooks interface {
	OnJobStart(ctx context.Context, job string)

	// OnJobComplete reports how many images the job produced.
	OnJobComplete(ctx context.Context, job string, items int, duration time.Duration, err error)
}

// CacheHooks receives cache traffic. keyType is the key namespace.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnJobStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnJobComplete(context.Context, string, int, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op hooks. Intended for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
