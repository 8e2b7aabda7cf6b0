package app

import (
	"time"

	"github.com/milk9111/alvere/common"
)

// frameTimeSmoothing is the weight of the newest sample in FrameTime.
const frameTimeSmoothing = 0.1

// FPSCounter counts frames over fixed windows. FPS reports the last complete
// window, so it holds steady between window boundaries.
type FPSCounter struct {
	window    time.Duration
	start     time.Time
	last      time.Time
	frames    int
	fps       float64
	frameTime float32
}

func NewFPSCounter(window time.Duration) *FPSCounter {
	if window <= 0 {
		window = time.Second
	}
	return &FPSCounter{window: window}
}

// Frame records a frame at now and reports whether it closed a window.
func (c *FPSCounter) Frame(now time.Time) bool {
	if c.start.IsZero() {
		c.start = now
		c.last = now
		return false
	}

	dt := float32(now.Sub(c.last).Seconds())
	c.last = now
	if c.frameTime == 0 {
		c.frameTime = dt
	} else {
		c.frameTime = common.Lerp(c.frameTime, dt, frameTimeSmoothing)
	}

	c.frames++
	elapsed := now.Sub(c.start)
	if elapsed < c.window {
		return false
	}
	c.fps = float64(c.frames) / elapsed.Seconds()
	c.frames = 0
	c.start = now
	return true
}

func (c *FPSCounter) FPS() float64 {
	return c.fps
}

// FrameTime is an exponentially smoothed frame duration.
func (c *FPSCounter) FrameTime() time.Duration {
	return time.Duration(float64(c.frameTime) * float64(time.Second))
}
