package sched

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by a virtual clock. Nothing fires until
// Advance is called. Timers due at the same instant fire in the order they
// were scheduled. Manual is not safe for concurrent use; it is meant to be
// driven from a single goroutine such as a test or a UI update loop.
type Manual struct {
	now     time.Duration
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	at     time.Duration
	seq    uint64
	period time.Duration
	fn     func()
}

// NewManual returns a scheduler whose clock starts at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now is the virtual time elapsed since the scheduler was created.
func (m *Manual) Now() time.Duration { return m.now }

// Pending reports how many timers are waiting to fire.
func (m *Manual) Pending() int { return len(m.pending) }

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) Cancel {
	if d < 0 {
		d = 0
	}
	return m.add(&manualTimer{at: m.now + d, fn: fn})
}

// Every implements Scheduler.
func (m *Manual) Every(d time.Duration, fn func()) Cancel {
	checkInterval(d)
	return m.add(&manualTimer{at: m.now + d, period: d, fn: fn})
}

// Advance moves the clock forward by d, firing every timer that comes due on
// the way. Callbacks may schedule new timers; those fire too if they come due
// before the end of the window. A negative d is treated as zero.
func (m *Manual) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := m.now + d
	for len(m.pending) > 0 && m.pending[0].at <= target {
		t := m.pending[0]
		m.pending = m.pending[1:]
		m.now = t.at
		if t.period > 0 {
			t.at += t.period
			m.seq++
			t.seq = m.seq
			m.insert(t)
		}
		t.fn()
	}
	m.now = target
}

func (m *Manual) add(t *manualTimer) Cancel {
	m.seq++
	t.seq = m.seq
	m.insert(t)
	return once(func() { m.remove(t) })
}

func (m *Manual) insert(t *manualTimer) {
	i := sort.Search(len(m.pending), func(i int) bool {
		p := m.pending[i]
		if p.at != t.at {
			return p.at > t.at
		}
		return p.seq > t.seq
	})
	m.pending = append(m.pending, nil)
	copy(m.pending[i+1:], m.pending[i:])
	m.pending[i] = t
}

func (m *Manual) remove(t *manualTimer) {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}
