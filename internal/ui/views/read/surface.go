package read

import (
	"maps"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	choreodto "gazette/internal/modules/choreo/dto"
	"gazette/internal/ui/theme"
)

// sectionState is the presentational state of one section: the last
// parameters, reveal state and glyphs applied to it.
type sectionState struct {
	info     choreodto.SectionInfo
	top      float64
	height   float64
	measured bool
	phase    string
	held     bool
	params   map[string]float64
	reveal   choreodto.RevealFrame
	letters  []choreodto.GlyphFrame
}

func (st *sectionState) param(name string, def float64) float64 {
	if v, ok := st.params[name]; ok {
		return v
	}
	return def
}

// Surface paints frames into terminal rows. Every frame carries the full
// section state, so Apply replaces what was there.
type Surface struct {
	title     string
	subtitle  string
	sections  []sectionState
	index     map[string]int
	scrollY   float64
	width     int
	height    int
	docHeight float64
	backdrops map[string][]string
}

func NewSurface(out choreodto.MountOutput) *Surface {
	s := &Surface{
		title:     out.Title,
		subtitle:  out.Subtitle,
		index:     make(map[string]int, len(out.Sections)),
		scrollY:   out.ScrollY,
		backdrops: map[string][]string{},
	}
	for i, info := range out.Sections {
		s.sections = append(s.sections, sectionState{info: info})
		s.index[info.ID] = i
	}
	return s
}

// Motifs lists the distinct backdrop motifs the sections ask for.
func (s *Surface) Motifs() []string {
	var out []string
	seen := map[string]bool{}
	for _, st := range s.sections {
		if m := st.info.Motif; m != "" && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func (s *Surface) SetBackdrop(motif string, lines []string) {
	s.backdrops[motif] = lines
}

func (s *Surface) Apply(f choreodto.FrameOutput) {
	s.scrollY = f.ScrollY
	s.width = int(f.ViewportW)
	s.height = int(f.ViewportH)
	s.docHeight = f.DocumentHeight
	for _, sf := range f.Sections {
		i, ok := s.index[sf.ID]
		if !ok {
			continue
		}
		st := &s.sections[i]
		st.reveal = sf.Reveal
		st.letters = sf.Letters
		st.top = sf.Top
		st.height = sf.Height
		st.measured = sf.Measured
		st.phase = sf.PhaseName
		st.held = sf.Held
		st.params = maps.Clone(sf.Params)
	}
}

// Render returns exactly height rows for the visible slice of the document.
func (s *Surface) Render() string {
	if s.width <= 0 || s.height <= 0 {
		return ""
	}
	rows := make([]string, s.height)
	for i := range s.sections {
		st := &s.sections[i]
		if !st.measured || st.top+st.height <= s.scrollY || st.top >= s.scrollY+float64(s.height) {
			continue
		}
		s.paintBackdrop(rows, st)
		lines := s.paint(st)
		anchor := s.anchor(st, len(lines)) + int(math.Round(st.param(choreodto.ParamTranslateY, 0)))
		for j, line := range lines {
			row := anchor + j - int(math.Floor(s.scrollY))
			if row < 0 || row >= len(rows) || line == "" {
				continue
			}
			if float64(anchor+j) >= st.top+st.height {
				break
			}
			rows[row] = line
		}
	}
	return strings.Join(rows, "\n")
}

// anchor pins a section's content near the top of the viewport while the
// section is scrolled through, without leaving the section's own rows.
func (s *Surface) anchor(st *sectionState, n int) int {
	const pad = 1
	lo := st.top
	hi := st.top + st.height - float64(n)
	pos := s.scrollY + pad
	if pos > hi {
		pos = hi
	}
	if pos < lo {
		pos = lo
	}
	return int(math.Floor(pos))
}

func (s *Surface) paintBackdrop(rows []string, st *sectionState) {
	pattern := s.backdrops[st.info.Motif]
	if len(pattern) == 0 {
		return
	}
	style := lipgloss.NewStyle().Foreground(theme.Fade(theme.Overlay0, 0.6))
	first := int(math.Floor(s.scrollY))
	for row := range rows {
		doc := first + row
		if float64(doc) < st.top || float64(doc) >= st.top+st.height {
			continue
		}
		rows[row] = style.Render(pattern[(doc-int(st.top))%len(pattern)])
	}
}

func (s *Surface) paint(st *sectionState) []string {
	switch st.info.Kind {
	case "hero":
		return s.paintHero(st)
	case "lead":
		return s.paintBlocks(st, st.reveal.Revealed)
	case "article":
		return s.paintArticle(st)
	case "terms":
		return s.paintTerms(st)
	case "track":
		return s.paintTrack(st)
	}
	return nil
}

func (s *Surface) tint(st *sectionState, base lipgloss.Color) lipgloss.Style {
	c := theme.Blend(base, theme.Peach, st.param(choreodto.ParamColorMix, 0))
	return lipgloss.NewStyle().Foreground(theme.Fade(c, st.param(choreodto.ParamOpacity, 1)))
}

func (s *Surface) paintHero(st *sectionState) []string {
	style := s.tint(st, theme.Text).Bold(true)
	spacing := int(math.Round((st.param(choreodto.ParamScale, 1) - 1) * 8))
	if spacing < 0 {
		spacing = 0
	}
	title := s.glyphLine(st, spacing)
	lines := []string{"", s.center(style.Render(title), title)}
	if s.subtitle != "" {
		lines = append(lines, s.center(s.tint(st, theme.Subtext0).Render(s.subtitle), s.subtitle))
	}
	lines = append(lines, "")
	return append(lines, s.paintBlocks(st, st.reveal.Revealed)...)
}

// glyphLine lays out the title glyphs, spreading them by spacing cells and
// shifting scattered glyphs by their horizontal offset.
func (s *Surface) glyphLine(st *sectionState, spacing int) string {
	if len(st.letters) == 0 {
		return st.info.Title
	}
	width := len(st.letters)*(1+spacing) + 8
	cells := []rune(strings.Repeat(" ", width))
	for i, g := range st.letters {
		if !g.Visible {
			continue
		}
		col := 4 + i*(1+spacing) + int(math.Round(g.DX))
		if col >= 0 && col < width {
			cells[col] = g.Rune
		}
	}
	return strings.TrimRight(string(cells), " ")
}

func (s *Surface) paintBlocks(st *sectionState, revealed int) []string {
	var lines []string
	blocks := st.info.Blocks
	if revealed > len(blocks) {
		revealed = len(blocks)
	}
	body := s.tint(st, theme.Text)
	emphasis := s.tint(st, theme.Lavender).Italic(true)
	for _, b := range blocks[:revealed] {
		style := body
		if b.Emphasis {
			style = emphasis
		}
		for _, l := range s.wrap(b.Text, s.width-8) {
			lines = append(lines, "    "+style.Render(l))
		}
		lines = append(lines, "")
	}
	return lines
}

func (s *Surface) paintArticle(st *sectionState) []string {
	revealed := int(st.param(choreodto.ParamRevealCount, 0))
	lines := []string{"  " + s.tint(st, theme.Sapphire).Bold(true).Render(st.info.Title), ""}
	return append(lines, s.paintBlocks(st, revealed)...)
}

func (s *Surface) paintTerms(st *sectionState) []string {
	lines := []string{"  " + s.tint(st, theme.Sapphire).Bold(true).Render(st.info.Title), ""}
	tint := theme.Blend(theme.Text, theme.Peach, st.param(choreodto.ParamColorMix, 0))
	for i, term := range st.info.Terms {
		dx := int(math.Round(st.param(choreodto.ItemParam(choreodto.ParamTranslateX, i), 0)))
		opacity := st.param(choreodto.ItemParam(choreodto.ParamOpacity, i), 1)
		col := (s.width-lipgloss.Width(term))/2 + dx
		if col < 0 {
			col = 0
		}
		style := lipgloss.NewStyle().Foreground(theme.Fade(tint, opacity)).Bold(true)
		lines = append(lines, strings.Repeat(" ", col)+style.Render(term))
	}
	return lines
}

// paintTrack draws the cards on one long strip of plain cells, then crops
// the strip at the track's horizontal offset.
func (s *Surface) paintTrack(st *sectionState) []string {
	cw := int(st.info.CardWidth)
	gap := int(st.info.CardSpacing)
	if cw < 4 || len(st.info.Cards) == 0 {
		return nil
	}
	const cardRows = 6
	inner := cw - 4
	strip := make([][]rune, cardRows)
	total := len(st.info.Cards)*(cw+gap) - gap
	for r := range strip {
		strip[r] = []rune(strings.Repeat(" ", total))
	}
	for i, c := range st.info.Cards {
		x := i * (cw + gap)
		box := []string{"╭" + strings.Repeat("─", cw-2) + "╮"}
		box = append(box, "│ "+fitRunes(c.Title, inner)+" │")
		body := s.wrap(c.Body, inner)
		for r := 0; r < cardRows-3; r++ {
			text := ""
			if r < len(body) {
				text = body[r]
			}
			box = append(box, "│ "+fitRunes(text, inner)+" │")
		}
		box = append(box, "╰"+strings.Repeat("─", cw-2)+"╯")
		for r, row := range box {
			copy(strip[r][x:], []rune(row))
		}
	}

	offset := int(math.Round(-st.param(choreodto.ParamTranslateX, 0)))
	style := s.tint(st, theme.Text)
	lines := []string{"  " + s.tint(st, theme.Sapphire).Bold(true).Render(st.info.Title), ""}
	for _, row := range strip {
		lines = append(lines, style.Render(cropRunes(row, offset, s.width)))
	}
	return lines
}

func (s *Surface) center(rendered, plain string) string {
	pad := (s.width - lipgloss.Width(plain)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + rendered
}

func (s *Surface) wrap(text string, width int) []string {
	if width < 8 {
		width = 8
	}
	out := lipgloss.NewStyle().Width(width).Render(text)
	lines := strings.Split(out, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return lines
}

func fitRunes(text string, width int) string {
	r := []rune(text)
	if len(r) > width {
		r = r[:width]
	}
	return string(r) + strings.Repeat(" ", width-len(r))
}

func cropRunes(row []rune, offset, width int) string {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(row) {
		return ""
	}
	end := offset + width
	if end > len(row) {
		end = len(row)
	}
	return string(row[offset:end])
}
