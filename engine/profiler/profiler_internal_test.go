package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfilerTick(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("should stay quiet inside the interval", func(t *testing.T) {
		p := NewProfiler(time.Second)
		p.lastTime = start
		p.now = func() time.Time { return start.Add(500 * time.Millisecond) }
		_, logged := p.Tick()
		assert.False(t, logged)
		assert.Equal(t, 1, p.frameCount)
	})
	t.Run("should report the frame rate once the interval elapses", func(t *testing.T) {
		// given
		p := NewProfiler(time.Second)
		p.lastTime = start
		now := start
		p.now = func() time.Time { return now }
		for range 59 {
			p.Tick()
		}
		// when
		now = start.Add(time.Second)
		stats, logged := p.Tick()
		// then
		assert.True(t, logged)
		assert.Equal(t, 60, stats.FrameCount)
		assert.InDelta(t, 60, stats.FPS, 1e-9)
		assert.NotZero(t, stats.SysBytes)
		assert.Zero(t, p.frameCount)
		assert.Equal(t, now, p.lastTime)
	})
	t.Run("should default non-positive intervals to one second", func(t *testing.T) {
		assert.Equal(t, time.Second, NewProfiler(0).updateInterval)
		assert.Equal(t, time.Second, NewProfiler(-time.Minute).updateInterval)
	})
}
