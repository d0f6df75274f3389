package observability

import (
	"context"
	"sync"
	"time"
)

// JobStats aggregates completed runs of one job.
type JobStats struct {
	Runs     int           `json:"runs"`
	Failures int           `json:"failures"`
	Items    int           `json:"items"`
	Total    time.Duration `json:"total_ns"`
}

// CacheStats aggregates cache traffic for one key namespace.
type CacheStats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
	Sets   int `json:"sets"`
	Bytes  int `json:"bytes"`
}

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Running int                   `json:"running"`
	Jobs    map[string]JobStats   `json:"jobs"`
	Cache   map[string]CacheStats `json:"cache"`
}

// Counters is an in-memory implementation of both hook interfaces.
// It is safe for concurrent use.
type Counters struct {
	mu      sync.Mutex
	running int
	jobs    map[string]JobStats
	cache   map[string]CacheStats
}

func NewCounters() *Counters {
	return &Counters{
		jobs:  make(map[string]JobStats),
		cache: make(map[string]CacheStats),
	}
}

func (c *Counters) OnJobStart(context.Context, string) {
	c.mu.Lock()
	c.running++
	c.mu.Unlock()
}

func (c *Counters) OnJobComplete(_ context.Context, job string, items int, d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = max(c.running-1, 0)
	s := c.jobs[job]
	s.Runs++
	if err != nil {
		s.Failures++
	}
	s.Items += items
	s.Total += d
	c.jobs[job] = s
}

func (c *Counters) OnCacheHit(_ context.Context, keyType string) {
	c.updateCache(keyType, func(s *CacheStats) { s.Hits++ })
}

func (c *Counters) OnCacheMiss(_ context.Context, keyType string) {
	c.updateCache(keyType, func(s *CacheStats) { s.Misses++ })
}

func (c *Counters) OnCacheSet(_ context.Context, keyType string, size int) {
	c.updateCache(keyType, func(s *CacheStats) {
		s.Sets++
		s.Bytes += size
	})
}

func (c *Counters) updateCache(keyType string, fn func(*CacheStats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.cache[keyType]
	fn(&s)
	c.cache[keyType] = s
}

// Snapshot copies the current totals.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := Snapshot{
		Running: c.running,
		Jobs:    make(map[string]JobStats, len(c.jobs)),
		Cache:   make(map[string]CacheStats, len(c.cache)),
	}
	for k, v := range c.jobs {
		out.Jobs[k] = v
	}
	for k, v := range c.cache {
		out.Cache[k] = v
	}
	return out
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
)
