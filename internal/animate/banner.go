// Package animate holds the timed text effects of the portfolio: the one-shot
// boot banner, the looping role typewriter and the stat count-ups.
//
// Each effect is a plain state value with transition methods, plus a Play
// function that drives the transitions from a sched.Scheduler and returns the
// sched.Cancel that tears it down.
package animate

import (
	"time"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/sched"
)

// Banner timings used by the boot screen.
const (
	DefaultBannerTick  = 80 * time.Millisecond
	DefaultBannerDelay = 1000 * time.Millisecond
)

// AnimationState is the progress of a one-shot text reveal. The zero value
// is a complete reveal of the empty string.
type AnimationState struct {
	source   []rune
	revealed int
}

// NewAnimationState starts a reveal of text with nothing shown.
func NewAnimationState(text string) AnimationState {
	return AnimationState{source: []rune(text)}
}

// Tick reveals one more character. Once everything is shown it is a no-op.
func (s AnimationState) Tick() AnimationState {
	if s.revealed < len(s.source) {
		s.revealed++
	}
	return s
}

// Revealed is the number of characters shown.
func (s AnimationState) Revealed() int { return s.revealed }

// Len is the length of the source text in characters.
func (s AnimationState) Len() int { return len(s.source) }

// Complete reports whether the whole source is shown.
func (s AnimationState) Complete() bool { return s.revealed >= len(s.source) }

// Text is the revealed prefix.
func (s AnimationState) Text() string { return string(s.source[:s.revealed]) }

// Source is the full text being revealed.
func (s AnimationState) Source() string { return string(s.source) }

// PrefixAt is the text shown after t ticks: the first min(t, len) characters.
func PrefixAt(text string, t int) string {
	r := []rune(text)
	if t < 0 {
		t = 0
	}
	if t > len(r) {
		t = len(r)
	}
	return string(r[:t])
}

// BannerConfig parameterizes PlayBanner.
type BannerConfig struct {
	Text          string
	TickInterval  time.Duration
	CompleteDelay time.Duration
}

// DefaultBannerConfig uses the boot screen timings for text.
func DefaultBannerConfig(text string) BannerConfig {
	return BannerConfig{
		Text:          text,
		TickInterval:  DefaultBannerTick,
		CompleteDelay: DefaultBannerDelay,
	}
}

// PlayBanner reveals cfg.Text one character per tick on s. onFrame sees the
// state after every tick; onDone runs exactly once, CompleteDelay after the
// final character appeared. An empty text is complete from the start, so only
// the delay runs. Cancelling drops every pending tick and the completion.
func PlayBanner(s sched.Scheduler, cfg BannerConfig, onFrame func(AnimationState), onDone func()) sched.Cancel {
	state := NewAnimationState(cfg.Text)
	var (
		tick, wait sched.Cancel
		stopped    bool
		finished   bool
	)

	finish := func() {
		if stopped || finished {
			return
		}
		finished = true
		if onDone != nil {
			onDone()
		}
	}

	if state.Complete() {
		wait = s.After(cfg.CompleteDelay, finish)
	} else {
		tick = s.Every(cfg.TickInterval, func() {
			if stopped {
				return
			}
			state = state.Tick()
			if onFrame != nil {
				onFrame(state)
			}
			if state.Complete() && !stopped {
				tick()
				wait = s.After(cfg.CompleteDelay, finish)
			}
		})
	}

	return func() {
		stopped = true
		if tick != nil {
			tick()
		}
		if wait != nil {
			wait()
		}
	}
}
