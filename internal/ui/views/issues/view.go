package issues

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	issuedto "gazette/internal/modules/issue/dto"
	"gazette/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	List(ctx context.Context) ([]issuedto.IssueOutput, error)
	Get(ctx context.Context, id string) (issuedto.IssueDetailOutput, error)
	Position(ctx context.Context, id string) (issuedto.PositionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type IssuesLoadedMsg struct {
	Issues []issuedto.IssueOutput
	Err    error
}

type DetailLoadedMsg struct {
	Detail   issuedto.IssueDetailOutput
	Position issuedto.PositionOutput
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type issueItem struct {
	issue issuedto.IssueOutput
}

func (i issueItem) Title() string { return i.issue.Title }
func (i issueItem) Description() string {
	return fmt.Sprintf("%s  %d sections, %d blocks", i.issue.Slug, i.issue.Sections, i.issue.Blocks)
}
func (i issueItem) FilterValue() string { return i.issue.Title + " " + i.issue.Slug }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	list     list.Model
	detail   issuedto.IssueDetailOutput
	position issuedto.PositionOutput
	preview  viewport.Model
	spinner  spinner.Model
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Issues"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadIssuesCmd(), m.spinner.Tick)
}

// Reload refreshes the list, e.g. after a reading position was saved.
func (m Model) Reload() tea.Cmd {
	return m.loadIssuesCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case IssuesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Issues: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Issues))
		for i, is := range msg.Issues {
			items[i] = issueItem{issue: is}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if item, ok := m.list.SelectedItem().(issueItem); ok {
			cmds = append(cmds, m.loadDetailCmd(item.issue.ID))
		} else if len(msg.Issues) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Issues[0].ID))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.position = msg.Position
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(issueItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.issue.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading issues…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedIssueID returns the current selection's issue ID, if any.
func (m Model) SelectedIssueID() (string, bool) {
	if item, ok := m.list.SelectedItem().(issueItem); ok {
		return item.issue.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.ID == "" {
		return theme.Muted.Render("Select an issue to see its sections")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Title) + "\n")
	if d.Subtitle != "" {
		sb.WriteString(theme.Muted.Render(d.Subtitle) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(theme.Muted.Render("id:     ") + d.ID + "\n")
	sb.WriteString(theme.Muted.Render("slug:   ") + d.Slug + "\n")
	if d.Source != "" {
		sb.WriteString(theme.Muted.Render("source: ") + d.Source + "\n")
	}
	if m.position.Found {
		sb.WriteString(fmt.Sprintf("%s%.0f%% (row %.0f)\n", theme.Muted.Render("read:   "), m.position.Percent, m.position.ScrollY))
	}
	sb.WriteString("\n")
	for _, s := range d.Sections {
		line := fmt.Sprintf("%-8s %s", s.Kind, s.Title)
		if s.Motif != "" {
			line += theme.Muted.Render("  ~" + s.Motif)
		}
		if s.Hold {
			line += theme.Hot.Render("  hold")
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: read  r: resume"))
	return sb.String()
}

func (m Model) loadIssuesCmd() tea.Cmd {
	return func() tea.Msg {
		issues, err := m.port.List(context.Background())
		return IssuesLoadedMsg{Issues: issues, Err: err}
	}
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.Get(context.Background(), id)
		if err != nil {
			return DetailLoadedMsg{Err: err}
		}
		pos, err := m.port.Position(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Position: pos, Err: err}
	}
}
