package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats is one profiler report.
type Stats struct {
	FPS        float64
	HeapBytes  uint64
	AllocRate  uint64 // bytes per second since the previous report
	SysBytes   uint64
	NumGC      uint32
	LastPause  time.Duration
	MaxPause   time.Duration
	FrameCount int
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now func() time.Time
}

// NewProfiler creates a new Profiler that reports once per interval.
// A non-positive interval defaults to 1 second.
//
// Parameters:
//   - interval: time between reports
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed: FPS, heap usage,
// allocation rate, GC count and pause times, and total memory obtained from the OS.
//
// Returns:
//   - Stats: the report, zero when nothing was logged
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() (Stats, bool) {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		FPS:        float64(p.frameCount) / elapsed.Seconds(),
		HeapBytes:  p.memStats.Alloc,
		AllocRate:  uint64(float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / elapsed.Seconds()),
		SysBytes:   p.memStats.Sys,
		NumGC:      p.memStats.NumGC,
		FrameCount: p.frameCount,
	}

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		stats.LastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			stats.MaxPause = max(stats.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	slog.Info("Profiler",
		"fps", humanize.FtoaWithDigits(stats.FPS, 2),
		"heap", humanize.IBytes(stats.HeapBytes),
		"allocRate", humanize.IBytes(stats.AllocRate)+"/s",
		"gc", stats.NumGC,
		"lastPause", stats.LastPause,
		"maxPause", stats.MaxPause,
		"sys", humanize.IBytes(stats.SysBytes),
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = stats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return stats, true
}
