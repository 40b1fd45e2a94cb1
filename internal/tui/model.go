// Package tui is the terminal host for the dashboard.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cobenefits-atlas/internal/dashboard"
	"github.com/sells-group/cobenefits-atlas/internal/fetcher"
	"github.com/sells-group/cobenefits-atlas/internal/loader"
	"github.com/sells-group/cobenefits-atlas/internal/model"
	"github.com/sells-group/cobenefits-atlas/internal/scroll"
	"github.com/sells-group/cobenefits-atlas/internal/view"
)

const (
	scrollFrame    = 16 * time.Millisecond
	scrollFraction = 0.25
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

const helpLine = "↑/↓ region • enter select • esc close • pgup/pgdn scroll • n next • r reload • q quit"

type loadedMsg struct {
	gen  int
	data *model.Dataset
	err  error
}

type scrollTickMsg struct{}

// Model is the bubbletea model. It owns the dashboard store and the loader
// of the current mount.
type Model struct {
	ctx     context.Context
	fetcher fetcher.Fetcher
	res     loader.Resources

	store   *dashboard.Store
	loader  *loader.Loader
	gen     int
	spinner spinner.Model

	cursor    int
	width     int
	height    int
	animating bool
	quit      bool
}

// New creates a model and starts its first load. viewportHeight is used
// until the terminal reports its size.
func New(ctx context.Context, f fetcher.Fetcher, res loader.Resources, viewportHeight int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		ctx:     ctx,
		fetcher: f,
		res:     res,
		store:   dashboard.NewStore(),
		spinner: sp,
		width:   80,
		height:  viewportHeight,
	}
	m.store.Apply(dashboard.Resized{Height: float64(viewportHeight)})
	m.loader = loader.New(f, res)
	m.store.Apply(dashboard.LoadStarted{})
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.ctx, m.loader, m.gen))
}

func loadCmd(ctx context.Context, l *loader.Loader, gen int) tea.Cmd {
	return func() tea.Msg {
		data, err := l.Load(ctx)
		return loadedMsg{gen: gen, data: data, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(scrollFrame, func(time.Time) tea.Msg { return scrollTickMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.store.Apply(dashboard.Resized{Height: float64(msg.Height)})
		return m, nil

	case loadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			zap.L().Warn("tui: load failed", zap.String("session", m.loader.Session()), zap.Error(msg.err))
			m.store.Apply(dashboard.LoadFailed{Err: msg.err})
			return m, nil
		}
		m.store.Apply(dashboard.LoadSucceeded{Data: msg.data})
		m.clampCursor()
		return m, nil

	case scrollTickMsg:
		st := m.store.State()
		if st.ScrollTarget == nil || st.TornDown {
			m.animating = false
			return m, nil
		}
		next := scroll.Step(st.ScrollY, st.ScrollTarget.Top, scrollFraction)
		st = m.store.Apply(dashboard.Scrolled{Y: next})
		if st.ScrollY == st.ScrollTarget.Top {
			m.store.Apply(dashboard.ScrollSettled{})
			m.animating = false
			return m, nil
		}
		return m, tick()

	case spinner.TickMsg:
		if m.store.State().Load != loader.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.store.State()
	switch msg.String() {
	case "q", "ctrl+c":
		m.teardown()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "enter":
		if st.Data != nil && m.cursor < len(st.Data.Regions) {
			m.store.Apply(dashboard.RegionClicked{Name: st.Data.Regions[m.cursor].Region})
		}
	case "esc", "x":
		m.store.Apply(dashboard.DetailClosed{})
	case "pgdown":
		m.store.Apply(dashboard.ScrollSettled{})
		m.store.Apply(dashboard.Scrolled{Y: st.ScrollY + m.page()})
	case "pgup":
		m.store.Apply(dashboard.ScrollSettled{})
		m.store.Apply(dashboard.Scrolled{Y: max(0, st.ScrollY-m.page())})
	case "n":
		m.store.Apply(dashboard.ScrollRequested{})
		if m.animating {
			return m, nil
		}
		m.animating = true
		return m, tick()
	case "r":
		return m.reload()
	}
	return m, nil
}

// reload replaces the loader with a fresh one. The selection survives and
// renders nothing if the new data no longer has that region.
func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loader.Close()
	m.gen++
	m.loader = loader.New(m.fetcher, m.res)
	m.store.Apply(dashboard.LoadStarted{})
	return m, tea.Batch(m.spinner.Tick, loadCmd(m.ctx, m.loader, m.gen))
}

func (m *Model) teardown() {
	m.loader.Close()
	m.store.Apply(dashboard.TornDown{})
	m.quit = true
}

func (m *Model) clampCursor() {
	st := m.store.State()
	n := 0
	if st.Data != nil {
		n = len(st.Data.Regions)
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) page() float64 {
	return float64(max(1, m.height/2))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quit {
		return ""
	}
	st := m.store.State()
	if st.Load == loader.StateLoading {
		return m.spinner.View() + " Loading dashboard data...\n"
	}

	body := view.Text(dashboard.Render(st), view.TextOptions{Width: m.width, Cursor: m.cursor})
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")

	rows := max(1, m.height-1)
	top := min(int(st.ScrollY), max(0, len(lines)-rows))
	bottom := min(len(lines), top+rows)
	return strings.Join(lines[top:bottom], "\n") + "\n" + helpStyle.Render(helpLine)
}

// Run starts the terminal dashboard and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, f fetcher.Fetcher, res loader.Resources, viewportHeight int) error {
	m := New(ctx, f, res, viewportHeight)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(Model); ok {
		fm.teardown()
	} else {
		m.teardown()
	}
	if err != nil {
		return eris.Wrap(err, "tui: run")
	}
	return nil
}
