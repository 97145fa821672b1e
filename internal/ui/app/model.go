package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	choreodto "gazette/internal/modules/choreo/dto"
	issuedto "gazette/internal/modules/issue/dto"
	motifdto "gazette/internal/modules/motif/dto"
	"gazette/internal/ui/components"
	"gazette/internal/ui/theme"
	issuesview "gazette/internal/ui/views/issues"
	motifsview "gazette/internal/ui/views/motifs"
	readview "gazette/internal/ui/views/read"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type issuePort interface {
	List(ctx context.Context) ([]issuedto.IssueOutput, error)
	Get(ctx context.Context, id string) (issuedto.IssueDetailOutput, error)
	Position(ctx context.Context, id string) (issuedto.PositionOutput, error)
}

type choreoPort interface {
	Mount(ctx context.Context, issueID string, width, height int, resume bool) (choreodto.MountOutput, error)
	Scroll(ctx context.Context, mountID string, scrollY float64) (choreodto.ScrollOutput, error)
	Resize(ctx context.Context, mountID string, width, height int) (choreodto.ResizeOutput, error)
	Frame(ctx context.Context, mountID string, now time.Time) (choreodto.FrameOutput, error)
	Unmount(ctx context.Context, mountID string) (choreodto.UnmountOutput, error)
}

type motifPort interface {
	List(ctx context.Context) ([]motifdto.MotifPluginInfo, error)
	Doctor(ctx context.Context) ([]motifdto.DoctorResult, error)
	Backdrop(ctx context.Context, motif string, width, height int, seed uint64) ([]string, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabIssues tabID = iota
	tabRead
	tabMotifs
	tabCount
)

var tabLabels = [tabCount]string{
	"Issues", "Read", "Motifs",
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Resume  key.Binding
	Scroll  key.Binding
	Page    key.Binding
	Ends    key.Binding
	Close   key.Binding
	Doctor  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read from top")),
		Resume:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume reading")),
		Scroll:  key.NewBinding(key.WithKeys("j", "k", "up", "down"), key.WithHelp("j/k", "scroll")),
		Page:    key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "page")),
		Ends:    key.NewBinding(key.WithKeys("g", "G"), key.WithHelp("g/G", "top/bottom")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close issue")),
		Doctor:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "motif doctor")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Resume},
		{k.Scroll, k.Page, k.Ends, k.Close},
		{k.Doctor, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; rendering is delegated to sub-views.
type Model struct {
	issueView issuesview.Model
	readView  readview.Model
	motifView motifsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int

	// pendingOpen is mounted once the first window size is known.
	pendingOpen string
}

// ─── constructor ─────────────────────────────────────────────────────────────

// NewModel wires the tabs. motif may be nil; the reader then draws no
// backdrops. initialIssue, when set, is opened at its saved position.
func NewModel(issues issuePort, choreo choreoPort, motif motifPort, initialIssue string) Model {
	var backdrops readview.BackdropPort
	var motifV motifsview.Model
	if motif != nil {
		backdrops = motifPortBridge{p: motif}
		motifV = motifsview.New(motifPortBridge{p: motif})
	} else {
		motifV = motifsview.New(nil)
	}

	m := Model{
		issueView: issuesview.New(issuePortBridge{p: issues}),
		readView:  readview.New(choreoPortBridge{p: choreo}, backdrops),
		motifView: motifV,
		activeTab: tabIssues,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
	if initialIssue != "" {
		m.status = "opening " + initialIssue
		m.pendingOpen = initialIssue
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.issueView.Init(),
		m.motifView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		if m.pendingOpen != "" {
			id := m.pendingOpen
			m.pendingOpen = ""
			m.activeTab = tabRead
			return m, m.readView.Open(id, true)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case readview.MountedMsg:
		if msg.Err != nil {
			m.status = "read: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("reading %s", msg.Out.Title)
			m.activeTab = tabRead
		}

	case readview.UnmountedMsg:
		if msg.Err == nil && msg.Out.IssueID != "" {
			m.status = fmt.Sprintf("saved %s at %.0f%%", msg.Out.IssueID, msg.Out.Percent)
		}
		cmds = append(cmds, m.issueView.Reload())

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			if m.readView.Mounted() {
				return m, tea.Sequence(m.readView.Close(), tea.Quit)
			}
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "enter", "r":
			if m.activeTab == tabIssues {
				if id, ok := m.issueView.SelectedIssueID(); ok {
					m.activeTab = tabRead
					return m, m.readView.Open(id, msg.String() == "r")
				}
			}
		}
		return m, m.updateActive(msg)

	case tea.MouseMsg:
		return m, m.updateActive(msg)
	}

	// Everything else is async plumbing; each view ignores what is not its own.
	var cmd tea.Cmd
	m.issueView, cmd = m.issueView.Update(msg)
	cmds = append(cmds, cmd)
	m.readView, cmd = m.readView.Update(msg)
	cmds = append(cmds, cmd)
	m.motifView, cmd = m.motifView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabIssues:
		m.issueView, cmd = m.issueView.Update(msg)
	case tabRead:
		m.readView, cmd = m.readView.Update(msg)
	case tabMotifs:
		m.motifView, cmd = m.motifView.Update(msg)
	}
	return cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabIssues:
		return m.issueView.View()
	case tabRead:
		return m.readView.View()
	case tabMotifs:
		return m.motifView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "gazette  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "issue:open":
		id := ""
		if len(parts) >= 2 {
			id = parts[1]
		} else if selected, ok := m.issueView.SelectedIssueID(); ok {
			id = selected
		}
		if id == "" {
			m.status = "usage: issue:open <id>"
			return m, nil
		}
		m.activeTab = tabRead
		return m, m.readView.Open(id, false)

	case "issue:reload":
		m.activeTab = tabIssues
		return m, m.issueView.Reload()

	case "read:top":
		if !m.readView.Mounted() {
			m.status = "no issue open"
			return m, nil
		}
		m.activeTab = tabRead
		return m, m.readView.Top()

	case "read:resume":
		id := m.readView.IssueID()
		if id == "" {
			if selected, ok := m.issueView.SelectedIssueID(); ok {
				id = selected
			}
		}
		if id == "" {
			m.status = "no issue selected"
			return m, nil
		}
		m.activeTab = tabRead
		return m, m.readView.Open(id, true)

	case "read:close":
		return m, m.readView.Close()

	case "motif:doctor":
		m.activeTab = tabMotifs
		return m, m.motifView.RunDoctor()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabIssues:
		return m.issueView.Filtering()
	case tabMotifs:
		return m.motifView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.issueView, _ = m.issueView.Update(sz)
	m.motifView, _ = m.motifView.Update(sz)
	m.readView, _ = m.readView.Update(sz)
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view.

type issuePortBridge struct{ p issuePort }

func (b issuePortBridge) List(ctx context.Context) ([]issuedto.IssueOutput, error) {
	return b.p.List(ctx)
}
func (b issuePortBridge) Get(ctx context.Context, id string) (issuedto.IssueDetailOutput, error) {
	return b.p.Get(ctx, id)
}
func (b issuePortBridge) Position(ctx context.Context, id string) (issuedto.PositionOutput, error) {
	return b.p.Position(ctx, id)
}

type choreoPortBridge struct{ p choreoPort }

func (b choreoPortBridge) Mount(ctx context.Context, issueID string, w, h int, resume bool) (choreodto.MountOutput, error) {
	return b.p.Mount(ctx, issueID, w, h, resume)
}
func (b choreoPortBridge) Scroll(ctx context.Context, mountID string, y float64) (choreodto.ScrollOutput, error) {
	return b.p.Scroll(ctx, mountID, y)
}
func (b choreoPortBridge) Resize(ctx context.Context, mountID string, w, h int) (choreodto.ResizeOutput, error) {
	return b.p.Resize(ctx, mountID, w, h)
}
func (b choreoPortBridge) Frame(ctx context.Context, mountID string, now time.Time) (choreodto.FrameOutput, error) {
	return b.p.Frame(ctx, mountID, now)
}
func (b choreoPortBridge) Unmount(ctx context.Context, mountID string) (choreodto.UnmountOutput, error) {
	return b.p.Unmount(ctx, mountID)
}

type motifPortBridge struct{ p motifPort }

func (b motifPortBridge) List(ctx context.Context) ([]motifdto.MotifPluginInfo, error) {
	return b.p.List(ctx)
}
func (b motifPortBridge) Doctor(ctx context.Context) ([]motifdto.DoctorResult, error) {
	return b.p.Doctor(ctx)
}
func (b motifPortBridge) Backdrop(ctx context.Context, motif string, w, h int, seed uint64) ([]string, error) {
	return b.p.Backdrop(ctx, motif, w, h, seed)
}
