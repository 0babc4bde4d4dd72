package profiler

import (
	"log"
	"runtime"
	"time"
)

// Counters accumulates streaming activity between profiler reports. The
// orchestrator increments them as tiles progress; Tick resets them after each
// report.
type Counters struct {
	TilesProcessed   int
	TilesRenderable  int
	TilesDone        int
	TerrainLoads     int
	TerrainUpsamples int
	ImageryReady     int
}

func (c *Counters) add(o *Counters) {
	c.TilesProcessed += o.TilesProcessed
	c.TilesRenderable += o.TilesRenderable
	c.TilesDone += o.TilesDone
	c.TerrainLoads += o.TerrainLoads
	c.TerrainUpsamples += o.TerrainUpsamples
	c.ImageryReady += o.ImageryReady
}

// Profiler tracks tick rate, streaming throughput, and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	tickCount      int
	window         Counters
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
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

// Tick should be called once per streaming tick with the counters gathered
// during that tick. Logs statistics when the update interval has elapsed:
// ticks/sec, tiles processed/renderable/done, terrain loads and upsamples
// completed, imagery tiles readied, heap usage and allocation rate.
//
// Parameters:
//   - counters: the activity recorded this tick (nil counts as empty)
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(counters *Counters) bool {
	p.tickCount++
	if counters != nil {
		p.window.add(counters)
	}

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	tps := float64(p.tickCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: bytes of live heap objects. TotalAlloc: cumulative, tracks churn.
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	log.Printf("[Profiler] TPS: %.2f | Tiles: %d processed, %d renderable, %d done | Terrain: %d loaded, %d upsampled | Imagery ready: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s",
		tps, p.window.TilesProcessed, p.window.TilesRenderable, p.window.TilesDone,
		p.window.TerrainLoads, p.window.TerrainUpsamples, p.window.ImageryReady,
		allocMB, allocRateMB)

	p.tickCount = 0
	p.window = Counters{}
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
