// Package profiler tracks per-frame health of a running animation graph
// instance: update rate, how often the graph degraded, how many layers are
// mid-crossfade, and how large its scratch pool has grown.
package profiler

import (
	"log"
	"time"
)

// Profiler accumulates per-frame animgraph stats and logs a summary at a
// configurable interval, rather than on every Tick.
type Profiler struct {
	frameCount     int
	degradedCount  int
	lastTime       time.Time
	updateInterval time.Duration
	lastPoolSize   int
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// Tick should be called once per Instance.Update, reporting that frame's
// degraded flag, active transition count, and the scratch pool's current
// size. Logs a summary when the update interval has elapsed.
//
// Returns:
//   - bool: true if a summary was logged this tick, false otherwise
func (p *Profiler) Tick(degraded bool, activeTransitions, scratchPoolSize int) bool {
	p.frameCount++
	if degraded {
		p.degradedCount++
	}
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed >= p.updateInterval {
		rate := float64(p.frameCount) / elapsed.Seconds()
		poolGrowth := scratchPoolSize - p.lastPoolSize

		log.Printf("[animgraph profiler] updates/s: %.2f | degraded: %d/%d | active transitions: %d | scratch pool: %d poses (+%d)",
			rate, p.degradedCount, p.frameCount, activeTransitions, scratchPoolSize, poolGrowth)

		p.frameCount = 0
		p.degradedCount = 0
		p.lastTime = currentTime
		p.lastPoolSize = scratchPoolSize
		return true
	}

	return false
}
