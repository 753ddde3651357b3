// Package preview renders a portfolio view in the terminal. The view's timers
// run on a virtual clock that each frame advances, so the boot banner,
// typewriter, clock and count-ups play exactly as they do in the browser.
package preview

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/content"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/sched"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/view"
)

// DefaultFrame is how much virtual time one frame covers.
const DefaultFrame = 20 * time.Millisecond

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model of one mounted view.
type Model struct {
	pf    *content.Portfolio
	page  *view.Page
	clock *sched.Manual
	frame time.Duration

	width    int
	quitting bool

	accent lipgloss.AdaptiveColor
	muted  lipgloss.AdaptiveColor
	boot   lipgloss.Color
}

// New builds a model for pf. A non-positive frame uses DefaultFrame.
func New(pf *content.Portfolio, opts view.Options, frame time.Duration) (*Model, error) {
	if frame <= 0 {
		frame = DefaultFrame
	}
	page, err := view.NewPage(opts, nil)
	if err != nil {
		return nil, fmt.Errorf("new view: %w", err)
	}
	return &Model{
		pf:     pf,
		page:   page,
		clock:  sched.NewManual(),
		frame:  frame,
		accent: lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"},
		muted:  lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		boot:   lipgloss.Color("#22C55E"),
	}, nil
}

// Page exposes the underlying view.
func (m *Model) Page() *view.Page { return m.page }

// Init mounts the view and starts the frame ticker.
func (m *Model) Init() tea.Cmd {
	m.page.Mount(m.clock)
	return tick(m.frame)
}

// Update handles frames and keys.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.clock.Advance(m.frame)
		return m, tick(m.frame)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.page.Unmount()
			return m, tea.Quit
		case "m":
			m.page.ToggleMenu()
		case "d":
			m.page.ToggleDarkMode()
		}
	}
	return m, nil
}

// View renders the current snapshot.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.page.Snapshot()
	if s.Flags.Loading {
		return lipgloss.NewStyle().Foreground(m.boot).Bold(true).Padding(2, 4).
			Render(s.Banner + "▌")
	}

	accent := lipgloss.NewStyle().Foreground(m.accent).Bold(true)
	muted := lipgloss.NewStyle().Foreground(m.muted)
	theme := "dark"
	if !s.Flags.DarkMode {
		theme = "light"
	}

	var b strings.Builder
	header := fmt.Sprintf("%s   🕐 %s   👥 %s   [%s]",
		accent.Render(m.pf.Owner.ShortName), s.Flags.Clock, s.Visitors, theme)
	b.WriteString(header + "\n")
	if s.Flags.MobileMenuOpen {
		for _, n := range m.pf.Nav {
			b.WriteString("  • " + n.Name + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString("Hi, I'm " + accent.Render(m.pf.Owner.ShortName) + "\n")
	b.WriteString(s.Title + "▌\n")
	b.WriteString(muted.Render(m.pf.Owner.Specialty) + "\n\n")

	cells := make([]string, 0, len(m.pf.Stats))
	for _, st := range m.pf.Stats {
		cell := fmt.Sprintf("%s %d+\n%s", st.Icon, s.Stats[st.ID], muted.Render(st.Label))
		cells = append(cells, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.accent).
			Padding(0, 1).
			Render(cell))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	b.WriteString("\n\n" + muted.Render("m menu · d theme · q quit"))
	return b.String()
}

// Run starts the preview in the terminal and blocks until the user quits.
func Run(pf *content.Portfolio, opts view.Options) error {
	m, err := New(pf, opts, DefaultFrame)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
