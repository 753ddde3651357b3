package animate

import (
	"errors"
	"time"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/sched"
)

// ErrNoPhrases is returned when a typewriter is built without phrases.
var ErrNoPhrases = errors.New("animate: typewriter needs at least one phrase")

// Phase is the typewriter state.
type Phase int

const (
	Typing Phase = iota
	PausedAtFull
	Deleting
)

func (p Phase) String() string {
	switch p {
	case Typing:
		return "typing"
	case PausedAtFull:
		return "paused"
	case Deleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// TypewriterState is where the typewriter is in its cycle.
type TypewriterState struct {
	PhraseIndex int
	Revealed    int
	Phase       Phase
}

// IsDeleting reports whether characters are being removed.
func (s TypewriterState) IsDeleting() bool { return s.Phase == Deleting }

// TypewriterConfig holds the per-phase delays.
type TypewriterConfig struct {
	TypeInterval   time.Duration
	Pause          time.Duration
	DeleteInterval time.Duration
}

// DefaultTypewriterConfig types at 100ms, holds the full phrase for 1.5s and
// deletes at 50ms.
func DefaultTypewriterConfig() TypewriterConfig {
	return TypewriterConfig{
		TypeInterval:   100 * time.Millisecond,
		Pause:          1500 * time.Millisecond,
		DeleteInterval: 50 * time.Millisecond,
	}
}

// Typewriter cycles through phrases forever: type one out, pause, delete it,
// move to the next phrase.
type Typewriter struct {
	phrases [][]rune
	cfg     TypewriterConfig
	state   TypewriterState
}

// NewTypewriter returns a typewriter at the start of the first phrase.
func NewTypewriter(phrases []string, cfg TypewriterConfig) (*Typewriter, error) {
	if len(phrases) == 0 {
		return nil, ErrNoPhrases
	}
	tw := &Typewriter{cfg: cfg}
	for _, p := range phrases {
		tw.phrases = append(tw.phrases, []rune(p))
	}
	return tw, nil
}

// State returns the current state.
func (t *Typewriter) State() TypewriterState { return t.state }

// Phrase is the phrase currently being typed or deleted.
func (t *Typewriter) Phrase() string { return string(t.phrases[t.state.PhraseIndex]) }

// Text is what is displayed right now.
func (t *Typewriter) Text() string {
	return string(t.phrases[t.state.PhraseIndex][:t.state.Revealed])
}

// Delay is how long the current phase waits before the next Step.
func (t *Typewriter) Delay() time.Duration {
	switch t.state.Phase {
	case PausedAtFull:
		return t.cfg.Pause
	case Deleting:
		return t.cfg.DeleteInterval
	default:
		return t.cfg.TypeInterval
	}
}

// Step applies one transition and returns the new state.
func (t *Typewriter) Step() TypewriterState {
	t.state = nextTypewriterState(t.state, len(t.phrases[t.state.PhraseIndex]), len(t.phrases))
	return t.state
}

func nextTypewriterState(s TypewriterState, phraseLen, n int) TypewriterState {
	switch s.Phase {
	case Typing:
		if s.Revealed < phraseLen {
			s.Revealed++
		}
		if s.Revealed >= phraseLen {
			s.Phase = PausedAtFull
		}
	case PausedAtFull:
		s.Phase = Deleting
	case Deleting:
		if s.Revealed > 0 {
			s.Revealed--
		}
		if s.Revealed == 0 {
			s.PhraseIndex = (s.PhraseIndex + 1) % n
			s.Phase = Typing
		}
	}
	return s
}

// Play steps the typewriter on s until cancelled, reporting every new state
// and the displayed text to onFrame.
func (t *Typewriter) Play(s sched.Scheduler, onFrame func(TypewriterState, string)) sched.Cancel {
	var (
		pending sched.Cancel
		stopped bool
		step    func()
	)
	step = func() {
		if stopped {
			return
		}
		st := t.Step()
		if onFrame != nil {
			onFrame(st, t.Text())
		}
		if !stopped {
			pending = s.After(t.Delay(), step)
		}
	}
	pending = s.After(t.Delay(), step)

	return func() {
		stopped = true
		if pending != nil {
			pending()
		}
	}
}
