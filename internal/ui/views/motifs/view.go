package motifs

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	motifdto "gazette/internal/modules/motif/dto"
	"gazette/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the motif use-case.
type Port interface {
	List(ctx context.Context) ([]motifdto.MotifPluginInfo, error)
	Doctor(ctx context.Context) ([]motifdto.DoctorResult, error)
	Backdrop(ctx context.Context, motif string, width, height int, seed uint64) ([]string, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type PluginsLoadedMsg struct {
	Plugins []motifdto.MotifPluginInfo
	Err     error
}

type DoctorDoneMsg struct {
	Results []motifdto.DoctorResult
	Err     error
}

type PreviewMsg struct {
	Motif string
	Lines []string
	Err   error
}

// ─── list item ───────────────────────────────────────────────────────────────

type pluginItem struct{ info motifdto.MotifPluginInfo }

func (i pluginItem) Title() string { return i.info.Name + " " + i.info.Version }
func (i pluginItem) Description() string {
	state := "enabled"
	if !i.info.Enabled {
		state = "disabled"
	}
	return state + "  " + strings.Join(i.info.Motifs, ", ")
}
func (i pluginItem) FilterValue() string { return i.info.Name + " " + strings.Join(i.info.Motifs, " ") }

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the Motifs tab: registered plugins, doctor results and a preview
// of the selected plugin's first motif.
type Model struct {
	port    Port
	list    list.Model
	output  viewport.Model
	spinner spinner.Model
	doctor  []motifdto.DoctorResult
	preview PreviewMsg
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Motif plugins"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
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

	return Model{port: port, list: l, output: vp, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	if m.port == nil {
		return nil
	}
	return m.loadCmd()
}

// Filtering reports whether the plugin list's search filter is active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// RunDoctor checks every registered plugin.
func (m *Model) RunDoctor() tea.Cmd {
	if m.port == nil {
		return nil
	}
	m.loading = true
	port := m.port
	return tea.Batch(func() tea.Msg {
		results, err := port.Doctor(context.Background())
		return DoctorDoneMsg{Results: results, Err: err}
	}, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case PluginsLoadedMsg:
		if msg.Err != nil {
			m.output.SetContent(theme.Hot.Render("Error loading plugins: " + msg.Err.Error()))
			return m, nil
		}
		items := make([]list.Item, len(msg.Plugins))
		for i, p := range msg.Plugins {
			items[i] = pluginItem{info: p}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Plugins) == 0 {
			m.output.SetContent(theme.Muted.Render("No plugins in .gazette/motifs.json"))
		}
		if cmd := m.previewSelected(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case DoctorDoneMsg:
		m.loading = false
		if msg.Err != nil {
			m.output.SetContent(theme.Hot.Render("Doctor: " + msg.Err.Error()))
			return m, nil
		}
		m.doctor = msg.Results
		m.output.SetContent(m.renderOutput())
		m.output.GotoTop()

	case PreviewMsg:
		m.preview = msg
		m.output.SetContent(m.renderOutput())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if msg.String() == "d" && !m.Filtering() {
			cmds = append(cmds, m.RunDoctor())
			return m, tea.Batch(cmds...)
		}
	}

	prevIdx := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prevIdx {
		if cmd := m.previewSelected(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.output, vCmd = m.output.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	outW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	body := m.output.View()
	if m.loading {
		body = m.spinner.View() + " Checking plugins…"
	}
	outPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(outW - 2).
		Height(m.height - 2).
		Render(body)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, outPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	m.list.SetSize(listW, m.height)
	m.output.Width = m.width - listW - 4
	m.output.Height = m.height - 4
}

func (m Model) renderOutput() string {
	var sb strings.Builder
	if len(m.doctor) > 0 {
		sb.WriteString(theme.Title.Render("Doctor") + "\n")
		for _, r := range m.doctor {
			mark := theme.Ok.Render("ok  ")
			if r.Error != "" {
				mark = theme.Hot.Render("fail")
			}
			sb.WriteString(fmt.Sprintf("%s %s  binary:%t checksum:%t lifecycle:%t\n", mark, r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK))
			if r.Error != "" {
				sb.WriteString(theme.Muted.Render("     "+r.Error) + "\n")
			}
		}
		sb.WriteString("\n")
	}
	if m.preview.Motif != "" {
		sb.WriteString(theme.Title.Render("Preview: "+m.preview.Motif) + "\n")
		if m.preview.Err != nil {
			sb.WriteString(theme.Hot.Render(m.preview.Err.Error()) + "\n")
		} else {
			sb.WriteString(theme.Muted.Render(strings.Join(m.preview.Lines, "\n")) + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("d: doctor"))
	return sb.String()
}

func (m Model) previewSelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(pluginItem)
	if !ok || m.port == nil || !item.info.Enabled || len(item.info.Motifs) == 0 {
		return nil
	}
	motif := item.info.Motifs[0]
	port := m.port
	w, h := m.width-m.width*4/10-6, 8
	if w < 8 {
		w = 8
	}
	return func() tea.Msg {
		lines, err := port.Backdrop(context.Background(), motif, w, h, 1)
		return PreviewMsg{Motif: motif, Lines: lines, Err: err}
	}
}

func (m Model) loadCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		plugins, err := port.List(context.Background())
		return PluginsLoadedMsg{Plugins: plugins, Err: err}
	}
}
