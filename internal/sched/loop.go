package sched

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a Scheduler whose callbacks all run on the goroutine calling Run,
// one at a time, in the order their timers fired.
type Loop struct {
	queue chan func()
	done  chan struct{}

	mu     sync.Mutex
	timers map[*loopTimer]struct{}
	closed bool
}

type loopTimer struct {
	mu      sync.Mutex
	t       *time.Timer
	stopped atomic.Bool
}

func (lt *loopTimer) arm(d time.Duration, f func()) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.stopped.Load() {
		return
	}
	if lt.t == nil {
		lt.t = time.AfterFunc(d, f)
		return
	}
	lt.t.Reset(d)
}

func (lt *loopTimer) halt() {
	lt.stopped.Store(true)
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.t != nil {
		lt.t.Stop()
	}
}

// NewLoop returns a loop that is not yet running.
func NewLoop() *Loop {
	return &Loop{
		queue:  make(chan func(), 64),
		done:   make(chan struct{}),
		timers: make(map[*loopTimer]struct{}),
	}
}

// Post queues fn to run on the loop goroutine. Posts after the loop has
// stopped are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
	case l.queue <- fn:
	}
}

// After implements Scheduler.
func (l *Loop) After(d time.Duration, fn func()) Cancel {
	lt := &loopTimer{}
	if !l.track(lt) {
		return func() {}
	}
	lt.arm(d, func() {
		l.Post(func() {
			if lt.stopped.Load() {
				return
			}
			l.untrack(lt)
			lt.stopped.Store(true)
			fn()
		})
	})
	return once(func() { l.stop(lt) })
}

// Every implements Scheduler.
func (l *Loop) Every(d time.Duration, fn func()) Cancel {
	checkInterval(d)
	lt := &loopTimer{}
	if !l.track(lt) {
		return func() {}
	}
	var fire func()
	fire = func() {
		if lt.stopped.Load() {
			return
		}
		l.Post(func() {
			if lt.stopped.Load() {
				return
			}
			fn()
		})
		lt.arm(d, fire)
	}
	lt.arm(d, fire)
	return once(func() { l.stop(lt) })
}

// Run executes queued callbacks until ctx is done. On return every timer the
// loop still owns is stopped and later posts are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.shutdown()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Pending reports the number of live timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

func (l *Loop) track(lt *loopTimer) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.timers[lt] = struct{}{}
	return true
}

func (l *Loop) untrack(lt *loopTimer) {
	l.mu.Lock()
	delete(l.timers, lt)
	l.mu.Unlock()
}

func (l *Loop) stop(lt *loopTimer) {
	lt.halt()
	l.untrack(lt)
}

func (l *Loop) shutdown() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	timers := l.timers
	l.timers = make(map[*loopTimer]struct{})
	close(l.done)
	l.mu.Unlock()

	for lt := range timers {
		lt.halt()
	}
}
