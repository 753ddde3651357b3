// Package view holds the state of one open portfolio page: the boot banner,
// the role typewriter, the header clock and visitor counter, the stat
// count-ups, the menu and theme flags and the contact form.
//
// A Page is owned by a single goroutine. Its timers run on the
// sched.Scheduler passed to Mount and every change is reported through the
// onChange callback as an Event.
package view

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/animate"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/contact"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/content"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/sched"
)

var errNoComposer = errors.New("view: no mail composer configured")

// EventKind names what changed.
type EventKind string

const (
	EventBanner   EventKind = "banner"
	EventLoaded   EventKind = "loaded"
	EventTitle    EventKind = "title"
	EventClock    EventKind = "clock"
	EventVisitors EventKind = "visitors"
	EventStat     EventKind = "stat"
	EventMenu     EventKind = "menu"
	EventTheme    EventKind = "theme"
	EventForm     EventKind = "form"
	EventNotice   EventKind = "notice"
)

// Event describes one state change. Which fields are set depends on Kind:
// Text for banner/title/clock/notice/form, Count for visitors and stats,
// Key for the stat id or form field name, On for menu and theme.
type Event struct {
	Kind  EventKind
	Key   string
	Text  string
	Count int
	On    bool
}

// Flags are the independent display flags of a page.
type Flags struct {
	Loading        bool
	MobileMenuOpen bool
	DarkMode       bool
	VisitorCount   int
	Clock          string
}

// StatTarget is a quick stat and the value it counts up to.
type StatTarget struct {
	ID    string
	Value int
}

type Options struct {
	Banner     animate.BannerConfig
	Titles     []string
	Typewriter animate.TypewriterConfig

	Stats           []StatTarget
	CountUpDuration time.Duration
	CountUpSteps    int

	Location      *time.Location
	Now           func() time.Time
	ClockInterval time.Duration

	VisitorSeed     int
	VisitorStep     int
	VisitorInterval time.Duration
	RandIntN        func(n int) int

	Mail *contact.Composer
}

// DefaultOptions builds page options from portfolio content with the stock
// timings.
func DefaultOptions(p *content.Portfolio) Options {
	opts := Options{
		Banner:     animate.DefaultBannerConfig(p.Banner),
		Titles:     append([]string(nil), p.Titles...),
		Typewriter: animate.DefaultTypewriterConfig(),
	}
	for _, s := range p.Stats {
		opts.Stats = append(opts.Stats, StatTarget{ID: s.ID, Value: s.Value})
	}
	return opts.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Banner.TickInterval <= 0 {
		o.Banner.TickInterval = animate.DefaultBannerTick
	}
	if o.Banner.CompleteDelay < 0 {
		o.Banner.CompleteDelay = 0
	}
	if o.Typewriter == (animate.TypewriterConfig{}) {
		o.Typewriter = animate.DefaultTypewriterConfig()
	}
	if o.CountUpDuration <= 0 {
		o.CountUpDuration = animate.DefaultCountUpDuration
	}
	if o.CountUpSteps <= 0 {
		o.CountUpSteps = animate.DefaultCountUpSteps
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.ClockInterval <= 0 {
		o.ClockInterval = time.Second
	}
	if o.VisitorSeed == 0 {
		o.VisitorSeed = 1247
	}
	if o.VisitorStep <= 0 {
		o.VisitorStep = 3
	}
	if o.VisitorInterval <= 0 {
		o.VisitorInterval = 30 * time.Second
	}
	if o.RandIntN == nil {
		o.RandIntN = rand.IntN
	}
	return o
}

// Page is the state of one view from mount to unmount.
type Page struct {
	id       string
	opts     Options
	onChange func(Event)

	banner     animate.AnimationState
	typewriter *animate.Typewriter
	title      string
	flags      Flags
	stats      map[string]int
	form       contact.Form
	notice     contact.Notice

	mounted   bool
	unmounted bool
	effects   sched.Group
}

// Snapshot is a copy of everything a page displays.
type Snapshot struct {
	ID         string
	Banner     string
	Title      string
	TitlePhase animate.Phase
	Flags      Flags
	Visitors   string
	Stats      map[string]int
	Form       contact.Form
	Notice     contact.Notice
}

// NewPage creates a page in its boot state. onChange may be nil.
func NewPage(opts Options, onChange func(Event)) (*Page, error) {
	opts = opts.withDefaults()
	tw, err := animate.NewTypewriter(opts.Titles, opts.Typewriter)
	if err != nil {
		return nil, err
	}
	p := &Page{
		id:         uuid.NewString(),
		opts:       opts,
		onChange:   onChange,
		banner:     animate.NewAnimationState(opts.Banner.Text),
		typewriter: tw,
		flags: Flags{
			Loading:      true,
			DarkMode:     true,
			VisitorCount: opts.VisitorSeed,
		},
		stats: make(map[string]int, len(opts.Stats)),
	}
	for _, s := range opts.Stats {
		p.stats[s.ID] = 0
	}
	return p, nil
}

// ID identifies the page in logs.
func (p *Page) ID() string { return p.id }

// Mounted reports whether the page's effects are running.
func (p *Page) Mounted() bool { return p.mounted }

// Mount starts the boot banner on s. When the banner completes the page
// leaves the loading state and starts the clock, visitor counter, typewriter
// and stat count-ups. Mounting twice, or after Unmount, does nothing.
func (p *Page) Mount(s sched.Scheduler) {
	if p.mounted || p.unmounted {
		return
	}
	p.mounted = true
	p.effects.Add(animate.PlayBanner(s, p.opts.Banner, p.onBannerFrame, func() { p.startMain(s) }))
}

// Unmount stops every effect. The page never changes again afterwards.
func (p *Page) Unmount() {
	if p.unmounted {
		return
	}
	p.unmounted = true
	p.mounted = false
	p.effects.Stop()
}

func (p *Page) live() bool { return p.mounted && !p.unmounted }

func (p *Page) emit(e Event) {
	if p.onChange != nil {
		p.onChange(e)
	}
}

func (p *Page) onBannerFrame(s animate.AnimationState) {
	if !p.live() {
		return
	}
	p.banner = s
	p.emit(Event{Kind: EventBanner, Text: s.Text()})
}

func (p *Page) startMain(s sched.Scheduler) {
	if !p.live() {
		return
	}
	p.flags.Loading = false
	p.emit(Event{Kind: EventLoaded})

	p.tickClock()
	p.effects.Add(s.Every(p.opts.ClockInterval, p.tickClock))
	p.effects.Add(s.Every(p.opts.VisitorInterval, p.tickVisitors))
	p.effects.Add(p.typewriter.Play(s, p.onTitle))
	for _, st := range p.opts.Stats {
		id := st.ID
		p.effects.Add(animate.PlayCountUp(s, st.Value, p.opts.CountUpDuration, p.opts.CountUpSteps, func(v int) {
			p.onStat(id, v)
		}))
	}
}

func (p *Page) tickClock() {
	if !p.live() {
		return
	}
	p.flags.Clock = FormatClock(p.opts.Now(), p.opts.Location)
	p.emit(Event{Kind: EventClock, Text: p.flags.Clock})
}

func (p *Page) tickVisitors() {
	if !p.live() {
		return
	}
	p.flags.VisitorCount += p.opts.RandIntN(p.opts.VisitorStep)
	p.emit(Event{Kind: EventVisitors, Count: p.flags.VisitorCount, Text: FormatCount(p.flags.VisitorCount)})
}

func (p *Page) onTitle(_ animate.TypewriterState, text string) {
	if !p.live() {
		return
	}
	p.title = text
	p.emit(Event{Kind: EventTitle, Text: text})
}

func (p *Page) onStat(id string, v int) {
	if !p.live() {
		return
	}
	p.stats[id] = v
	p.emit(Event{Kind: EventStat, Key: id, Count: v})
}

// ToggleMenu opens or closes the mobile menu.
func (p *Page) ToggleMenu() {
	if p.unmounted {
		return
	}
	p.flags.MobileMenuOpen = !p.flags.MobileMenuOpen
	p.emit(Event{Kind: EventMenu, On: p.flags.MobileMenuOpen})
}

// CloseMenu closes the mobile menu, as happens after picking a section.
func (p *Page) CloseMenu() {
	if p.unmounted || !p.flags.MobileMenuOpen {
		return
	}
	p.flags.MobileMenuOpen = false
	p.emit(Event{Kind: EventMenu, On: false})
}

// ToggleDarkMode flips the theme.
func (p *Page) ToggleDarkMode() {
	if p.unmounted {
		return
	}
	p.flags.DarkMode = !p.flags.DarkMode
	p.emit(Event{Kind: EventTheme, On: p.flags.DarkMode})
}

// SetField updates one contact form field.
func (p *Page) SetField(name, value string) error {
	if p.unmounted {
		return nil
	}
	if err := p.form.Set(name, value); err != nil {
		return err
	}
	p.emit(Event{Kind: EventForm, Key: name, Text: value})
	return nil
}

// SubmitContact sends the form through the page's mail composer. The form
// is cleared only when the mail client was opened.
func (p *Page) SubmitContact() (contact.Notice, error) {
	if p.opts.Mail == nil {
		p.notice = contact.Notice{Kind: contact.NoticeError, Message: contact.MsgOpenFailed}
		p.emit(Event{Kind: EventNotice, Text: p.notice.Message})
		return p.notice, errNoComposer
	}
	n, err := p.opts.Mail.Submit(&p.form)
	p.notice = n
	p.emit(Event{Kind: EventNotice, Text: n.Message})
	return n, err
}

// Snapshot copies the current display state.
func (p *Page) Snapshot() Snapshot {
	stats := make(map[string]int, len(p.stats))
	for k, v := range p.stats {
		stats[k] = v
	}
	return Snapshot{
		ID:         p.id,
		Banner:     p.banner.Text(),
		Title:      p.title,
		TitlePhase: p.typewriter.State().Phase,
		Flags:      p.flags,
		Visitors:   FormatCount(p.flags.VisitorCount),
		Stats:      stats,
		Form:       p.form,
		Notice:     p.notice,
	}
}
