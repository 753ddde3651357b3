package animate

import (
	"time"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/sched"
)

// Count-up timings for the quick stats cards.
const (
	DefaultCountUpDuration = time.Second
	DefaultCountUpSteps    = 50
)

// CountUpValue is the value shown after step k of a count from 0 to target
// in the given number of steps.
func CountUpValue(target, steps, k int) int {
	if steps <= 0 || k >= steps {
		return target
	}
	if k <= 0 {
		return 0
	}
	v := target * k / steps
	if v > target {
		return target
	}
	return v
}

// PlayCountUp counts from 0 to target over duration in steps frames.
func PlayCountUp(s sched.Scheduler, target int, duration time.Duration, steps int, onFrame func(int)) sched.Cancel {
	if steps <= 0 {
		steps = 1
	}
	interval := duration / time.Duration(steps)
	if interval <= 0 {
		interval = time.Millisecond
	}

	var (
		k       int
		tick    sched.Cancel
		stopped bool
	)
	tick = s.Every(interval, func() {
		if stopped {
			return
		}
		k++
		if onFrame != nil {
			onFrame(CountUpValue(target, steps, k))
		}
		if k >= steps {
			stopped = true
			tick()
		}
	})
	return func() {
		stopped = true
		tick()
	}
}
