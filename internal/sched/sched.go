// Package sched provides the timers that drive view effects.
//
// Every timer is created through a Scheduler and hands back a Cancel. Views
// collect their cancels in a Group so that tearing a view down releases every
// timer it started, whichever way the teardown happens.
package sched

import (
	"sync"
	"time"
)

// Cancel stops a scheduled callback. Calling it more than once is harmless.
type Cancel func()

// Scheduler runs callbacks after a delay or on a fixed period.
type Scheduler interface {
	// After runs fn once, d from now.
	After(d time.Duration, fn func()) Cancel
	// Every runs fn every d until cancelled. d must be positive.
	Every(d time.Duration, fn func()) Cancel
}

// Group owns the cancels of one view.
type Group struct {
	mu      sync.Mutex
	cancels []Cancel
	stopped bool
}

// Add registers c with the group. If the group is already stopped, c is
// called right away.
func (g *Group) Add(c Cancel) {
	if c == nil {
		return
	}
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		c()
		return
	}
	g.cancels = append(g.cancels, c)
	g.mu.Unlock()
}

// Stop cancels everything registered so far, newest first.
func (g *Group) Stop() {
	g.mu.Lock()
	cancels := g.cancels
	g.cancels = nil
	g.stopped = true
	g.mu.Unlock()

	for i := len(cancels) - 1; i >= 0; i-- {
		cancels[i]()
	}
}

// Len reports how many cancels are held.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cancels)
}

func once(fn func()) Cancel {
	var o sync.Once
	return func() { o.Do(fn) }
}

func checkInterval(d time.Duration) {
	if d <= 0 {
		panic("sched: non-positive interval for Every")
	}
}
