package read

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	choreodto "gazette/internal/modules/choreo/dto"
	"gazette/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the slice of the choreography use-case the reader drives.
type Port interface {
	Mount(ctx context.Context, issueID string, width, height int, resume bool) (choreodto.MountOutput, error)
	Scroll(ctx context.Context, mountID string, scrollY float64) (choreodto.ScrollOutput, error)
	Resize(ctx context.Context, mountID string, width, height int) (choreodto.ResizeOutput, error)
	Frame(ctx context.Context, mountID string, now time.Time) (choreodto.FrameOutput, error)
	Unmount(ctx context.Context, mountID string) (choreodto.UnmountOutput, error)
}

// BackdropPort renders decorative motifs. Optional.
type BackdropPort interface {
	Backdrop(ctx context.Context, motif string, width, height int, seed uint64) ([]string, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type MountedMsg struct {
	Out choreodto.MountOutput
	Err error
	gen int
}

type UnmountedMsg struct {
	Out choreodto.UnmountOutput
	Err error
}

type tickMsg struct {
	gen int
	at  time.Time
}

type frameMsg struct {
	gen int
	out choreodto.FrameOutput
	err error
}

type scrolledMsg struct {
	gen int
	out choreodto.ScrollOutput
	err error
}

type resizedMsg struct {
	gen int
	out choreodto.ResizeOutput
	err error
}

type backdropMsg struct {
	gen   int
	motif string
	lines []string
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the Read tab. It owns at most one mount; every open or close bumps
// gen so ticks and replies addressed to an older mount are dropped.
type Model struct {
	port      Port
	backdrops BackdropPort
	spinner   spinner.Model
	surface   *Surface
	mountID   string
	issueID   string
	title     string
	gen       int
	interval  time.Duration
	scrollY   float64
	// scrolling counts scroll requests the engine has not answered yet.
	// While any is in flight, frame and resize replies do not move scrollY.
	scrolling int
	maxScroll float64
	loading   bool
	status    string
	width     int
	height    int
}

func New(port Port, backdrops BackdropPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, backdrops: backdrops, spinner: sp, interval: 16 * time.Millisecond}
}

func (m Model) Init() tea.Cmd { return nil }

// Mounted reports whether an issue is open.
func (m Model) Mounted() bool { return m.mountID != "" }

// IssueID is the open issue, if any.
func (m Model) IssueID() string { return m.issueID }

// Open mounts issueID, closing the current mount first. With resume the
// saved reading position is restored.
func (m *Model) Open(issueID string, resume bool) tea.Cmd {
	closeCmd := m.Close()
	m.gen++
	m.loading = true
	m.issueID = issueID
	port, gen := m.port, m.gen
	w, h := m.canvasSize()
	mount := func() tea.Msg {
		out, err := port.Mount(context.Background(), issueID, w, h, resume)
		return MountedMsg{Out: out, Err: err, gen: gen}
	}
	if closeCmd == nil {
		return tea.Batch(mount, m.spinner.Tick)
	}
	return tea.Batch(tea.Sequence(closeCmd, mount), m.spinner.Tick)
}

// Close unmounts the open issue, which also saves the reading position.
func (m *Model) Close() tea.Cmd {
	if m.mountID == "" {
		return nil
	}
	port, id := m.port, m.mountID
	m.mountID = ""
	m.surface = nil
	m.gen++
	return func() tea.Msg {
		out, err := port.Unmount(context.Background(), id)
		return UnmountedMsg{Out: out, Err: err}
	}
}

// Top scrolls back to the start of the document.
func (m *Model) Top() tea.Cmd {
	return m.scrollTo(0)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.mountID != "" {
			return m, m.resizeCmd()
		}

	case MountedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.status = "open failed: " + msg.Err.Error()
			return m, nil
		}
		m.mountID = msg.Out.MountID
		m.title = msg.Out.Title
		m.scrollY = msg.Out.ScrollY
		m.scrolling = 0
		m.surface = NewSurface(msg.Out)
		if msg.Out.FrameInterval > 0 {
			m.interval = msg.Out.FrameInterval
		}
		m.status = ""
		cmds := []tea.Cmd{m.resizeCmd(), m.tickCmd()}
		cmds = append(cmds, m.backdropCmds()...)
		return m, tea.Batch(cmds...)

	case UnmountedMsg:
		if msg.Err != nil {
			m.status = "save position: " + msg.Err.Error()
		}

	case tickMsg:
		if msg.gen != m.gen || m.mountID == "" {
			return m, nil
		}
		return m, m.frameCmd(msg.at)

	case frameMsg:
		if msg.gen != m.gen || m.surface == nil {
			return m, nil
		}
		if msg.err != nil {
			m.status = "frame: " + msg.err.Error()
			return m, m.tickCmd()
		}
		m.surface.Apply(msg.out)
		if m.scrolling == 0 {
			m.scrollY = msg.out.ScrollY
		}
		return m, m.tickCmd()

	case scrolledMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if m.scrolling > 0 {
			m.scrolling--
		}
		if msg.err != nil {
			m.status = "scroll: " + msg.err.Error()
		} else if m.scrolling == 0 {
			m.scrollY = msg.out.ScrollY
		}

	case resizedMsg:
		if msg.gen == m.gen && msg.err == nil {
			m.maxScroll = msg.out.MaxScroll
			if m.scrolling == 0 {
				m.scrollY = msg.out.ScrollY
			} else {
				m.scrollY = math.Min(m.scrollY, msg.out.MaxScroll)
			}
		}

	case backdropMsg:
		if msg.gen == m.gen && m.surface != nil {
			m.surface.SetBackdrop(msg.motif, msg.lines)
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if m.mountID == "" {
			return m, nil
		}
		page := float64(m.height - 4)
		if page < 1 {
			page = 1
		}
		switch msg.String() {
		case "j", "down":
			return m, m.scrollTo(m.scrollY + 1)
		case "k", "up":
			return m, m.scrollTo(m.scrollY - 1)
		case "pgdown", " ", "f":
			return m, m.scrollTo(m.scrollY + page)
		case "pgup", "b":
			return m, m.scrollTo(m.scrollY - page)
		case "g", "home":
			return m, m.scrollTo(0)
		case "G", "end":
			return m, m.scrollTo(m.maxScroll)
		case "esc":
			return m, m.Close()
		}

	case tea.MouseMsg:
		if m.mountID == "" || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			return m, m.scrollTo(m.scrollY + 3)
		case tea.MouseButtonWheelUp:
			return m, m.scrollTo(m.scrollY - 3)
		}
	}
	return m, nil
}

func (m Model) View() string {
	header := m.renderHeader()
	bodyH := m.height - lipgloss.Height(header) - 1
	if bodyH < 1 {
		bodyH = 1
	}
	switch {
	case m.loading:
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Opening issue…"))
	case m.surface == nil:
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, theme.Muted.Render("Pick an issue on the Issues tab (enter)")))
	}
	body := lipgloss.NewStyle().Width(m.width).Height(bodyH).MaxHeight(bodyH).Render(m.surface.Render())
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

// ─── private ─────────────────────────────────────────────────────────────────

// canvasSize is the area handed to the engine as the viewport: the tab minus
// the reader's header and footer rows.
func (m Model) canvasSize() (int, int) {
	h := m.height - 3
	if h < 0 {
		h = 0
	}
	return m.width, h
}

func (m Model) renderHeader() string {
	if m.title == "" || m.surface == nil {
		return theme.Title.Render("Read") + "\n"
	}
	return theme.Title.Render(m.title) + theme.Muted.Render("  j/k: scroll  pgup/pgdn: page  g/G: ends  esc: close") + "\n"
}

func (m Model) renderFooter() string {
	pct := 0.0
	if m.maxScroll > 0 {
		pct = math.Min(100, m.scrollY/m.maxScroll*100)
	}
	left := theme.Muted.Render(fmt.Sprintf("%3.0f%%  row %.0f/%.0f", pct, m.scrollY, m.maxScroll))
	if m.status != "" {
		left += "  " + theme.Hot.Render(m.status)
	}
	return left
}

func (m *Model) scrollTo(y float64) tea.Cmd {
	if m.mountID == "" {
		return nil
	}
	if y < 0 {
		y = 0
	}
	if m.maxScroll > 0 && y > m.maxScroll {
		y = m.maxScroll
	}
	m.scrollY = y
	m.scrolling++
	port, id, gen := m.port, m.mountID, m.gen
	return func() tea.Msg {
		out, err := port.Scroll(context.Background(), id, y)
		return scrolledMsg{gen: gen, out: out, err: err}
	}
}

func (m Model) resizeCmd() tea.Cmd {
	id, gen := m.mountID, m.gen
	w, h := m.canvasSize()
	return func() tea.Msg {
		out, err := m.port.Resize(context.Background(), id, w, h)
		return resizedMsg{gen: gen, out: out, err: err}
	}
}

func (m Model) tickCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m Model) frameCmd(now time.Time) tea.Cmd {
	id, gen := m.mountID, m.gen
	return func() tea.Msg {
		out, err := m.port.Frame(context.Background(), id, now)
		return frameMsg{gen: gen, out: out, err: err}
	}
}

func (m Model) backdropCmds() []tea.Cmd {
	if m.backdrops == nil || m.surface == nil {
		return nil
	}
	w, h := m.canvasSize()
	if w <= 0 || h <= 0 {
		return nil
	}
	var cmds []tea.Cmd
	port, gen := m.backdrops, m.gen
	for _, motif := range m.surface.Motifs() {
		seed := backdropSeed(m.issueID, motif)
		cmds = append(cmds, func() tea.Msg {
			lines, err := port.Backdrop(context.Background(), motif, w, h, seed)
			if err != nil {
				return nil
			}
			return backdropMsg{gen: gen, motif: motif, lines: lines}
		})
	}
	return cmds
}

func backdropSeed(issueID, motif string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(issueID))
	h.Write([]byte{0})
	h.Write([]byte(motif))
	return h.Sum64()
}
