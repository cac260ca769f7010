// Package metrics exposes Arena and SkipList health as Prometheus gauges,
// polled on an interval rather than updated on the hot insert/contains path,
// so sampling adds no work to Insert or Contains.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arenakv/memcore/internal/xlog"
)

// ArenaSource is the subset of arena.Arena a Collector polls.
type ArenaSource interface {
	MemoryUsage() int64
	SlabCount() int
}

// SkipListSource is the subset of skiplist.SkipList[K] a Collector polls.
// It is defined without a type parameter so one Collector can watch any
// instantiation of the generic SkipList.
type SkipListSource interface {
	Height() int
	Count() int64
}

var (
	arenaMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memcore_arena_memory_usage_bytes",
		Help: "Total bytes the arena has committed in slabs, including per-slab bookkeeping overhead.",
	})
	arenaSlabCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memcore_arena_slab_count",
		Help: "Number of slabs the arena has allocated.",
	})
	skiplistHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memcore_skiplist_height",
		Help: "Current number of levels in the skip list.",
	})
	skiplistCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memcore_skiplist_node_count",
		Help: "Number of keys currently held in the skip list.",
	})
)

// Collector periodically samples an Arena and a SkipList and publishes the
// sampled values as Prometheus gauges.
type Collector struct {
	arena    ArenaSource
	list     SkipListSource
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewCollector constructs a Collector. Call Start to begin polling.
func NewCollector(a ArenaSource, l SkipListSource, interval time.Duration) *Collector {
	return &Collector{
		arena:    a,
		list:     l,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling goroutine. It returns immediately.
func (c *Collector) Start() {
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				c.sample()
			}
		}
	}()
}

// Stop halts polling and waits for the goroutine to exit.
func (c *Collector) Stop() {
	close(c.stop)
	<-c.done
}

func (c *Collector) sample() {
	arenaMemoryUsage.Set(float64(c.arena.MemoryUsage()))
	arenaSlabCount.Set(float64(c.arena.SlabCount()))
	skiplistHeight.Set(float64(c.list.Height()))
	skiplistCount.Set(float64(c.list.Count()))
	xlog.Logger.Debug().
		Int64("arena_bytes", c.arena.MemoryUsage()).
		Int("skiplist_height", c.list.Height()).
		Msg("metrics: sampled")
}
