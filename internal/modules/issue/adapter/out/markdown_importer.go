package out

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gazette/internal/modules/issue/domain"
	issueout "gazette/internal/modules/issue/port/out"
	"gazette/internal/platform/markdown"
)

// MarkdownImporter reads an issue from a markdown file. Every "# " heading
// starts a section; a trailing "{kind key=value hold}" attribute list sets
// the section kind and options.
type MarkdownImporter struct {
	blockDelay time.Duration
}

func NewMarkdownImporter(blockDelay time.Duration) issueout.Importer {
	return &MarkdownImporter{blockDelay: blockDelay}
}

func (m *MarkdownImporter) Import(_ context.Context, path string) (domain.Draft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("read markdown: %w", err)
	}
	return ParseMarkdown(string(raw), m.blockDelay)
}

// ParseMarkdown converts markdown text into a draft. Blocks after the first
// in a section get blockDelay.
func ParseMarkdown(content string, blockDelay time.Duration) (domain.Draft, error) {
	meta, body, err := markdown.SplitFrontmatter(content)
	if err != nil {
		return domain.Draft{}, err
	}
	draft := domain.Draft{
		Title:    metaString(meta, "title"),
		Subtitle: metaString(meta, "subtitle"),
		Motif:    metaString(meta, "motif"),
	}
	p := &mdParser{delayMS: int(blockDelay / time.Millisecond)}
	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		if err := p.line(line); err != nil {
			return domain.Draft{}, err
		}
	}
	p.closeSection()
	draft.Sections = p.sections
	if draft.Title == "" {
		for _, sec := range draft.Sections {
			if sec.Kind == domain.KindHero && sec.Title != "" {
				draft.Title = sec.Title
				break
			}
		}
	}
	for i := range draft.Sections {
		sec := &draft.Sections[i]
		if sec.Kind == domain.KindHero && sec.Title == "" {
			sec.Title = draft.Title
		}
		if sec.Kind == domain.KindHero && sec.ScatterWord == "" {
			sec.ScatterWord = lastWord(sec.Title)
		}
	}
	return draft, nil
}

type mdParser struct {
	delayMS  int
	sections []domain.Section
	current  *domain.Section
	para     []string
	quote    bool
}

func (p *mdParser) line(line string) error {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "# "):
		p.closeSection()
		sec, err := parseHeading(strings.TrimSpace(trimmed[2:]), len(p.sections) == 0)
		if err != nil {
			return err
		}
		p.current = &sec
	case trimmed == "":
		p.flush()
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		p.flush()
		p.item(strings.TrimSpace(trimmed[2:]))
	case strings.HasPrefix(trimmed, ">"):
		if !p.quote {
			p.flush()
		}
		p.quote = true
		p.para = append(p.para, strings.TrimSpace(strings.TrimPrefix(trimmed, ">")))
	default:
		if p.quote {
			p.flush()
		}
		p.para = append(p.para, trimmed)
	}
	return nil
}

func (p *mdParser) section() *domain.Section {
	if p.current == nil {
		p.current = &domain.Section{Kind: domain.KindLead}
	}
	return p.current
}

func (p *mdParser) item(text string) {
	sec := p.section()
	switch sec.Kind {
	case domain.KindTerms:
		sec.Terms = append(sec.Terms, text)
	case domain.KindTrack:
		sec.Cards = append(sec.Cards, parseCard(text))
	default:
		p.block(text, false)
	}
}

func (p *mdParser) flush() {
	if len(p.para) == 0 {
		p.quote = false
		return
	}
	p.block(strings.Join(p.para, " "), p.quote)
	p.para = nil
	p.quote = false
}

func (p *mdParser) block(text string, emphasis bool) {
	sec := p.section()
	delay := 0
	if len(sec.Blocks) > 0 {
		delay = p.delayMS
	}
	sec.Blocks = append(sec.Blocks, domain.Block{Text: text, DelayMS: delay, Emphasis: emphasis})
}

func (p *mdParser) closeSection() {
	p.flush()
	if p.current == nil {
		return
	}
	sec := *p.current
	p.current = nil
	if sec.Title == "" && len(sec.Blocks) == 0 && len(sec.Cards) == 0 && len(sec.Terms) == 0 && sec.Kind != domain.KindHero {
		return
	}
	p.sections = append(p.sections, sec)
}

// parseHeading reads "Title {kind motif=dots scatter=word length=2 gap=8
// card=30 id=x hold}". Without a kind the first section is a hero and the
// rest are articles.
func parseHeading(heading string, first bool) (domain.Section, error) {
	sec := domain.Section{Kind: domain.KindArticle}
	if first {
		sec.Kind = domain.KindHero
	}
	title := heading
	if open := strings.LastIndex(heading, "{"); open >= 0 && strings.HasSuffix(heading, "}") {
		title = strings.TrimSpace(heading[:open])
		for _, field := range strings.Fields(heading[open+1 : len(heading)-1]) {
			key, value, hasValue := strings.Cut(field, "=")
			if !hasValue {
				if key == "hold" {
					sec.Hold = true
					continue
				}
				kind := domain.Kind(key)
				if err := kind.Validate(); err != nil {
					return domain.Section{}, fmt.Errorf("heading %q: %w", heading, err)
				}
				sec.Kind = kind
				continue
			}
			if err := applyAttr(&sec, key, value); err != nil {
				return domain.Section{}, fmt.Errorf("heading %q: %w", heading, err)
			}
		}
	}
	sec.Title = title
	return sec, nil
}

func applyAttr(sec *domain.Section, key, value string) error {
	number := func() (float64, error) {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%s must be a non-negative number", key)
		}
		return v, nil
	}
	var err error
	switch key {
	case "id":
		sec.ID = value
	case "motif":
		sec.Motif = value
	case "scatter":
		sec.ScatterWord = value
	case "length":
		sec.Hints.Length, err = number()
	case "gap":
		sec.Hints.GapPx, err = number()
	case "card":
		sec.Hints.CardWidthPx, err = number()
	default:
		err = fmt.Errorf("unknown attribute %q", key)
	}
	return err
}

func parseCard(text string) domain.Card {
	title, body, ok := strings.Cut(text, ":")
	if !ok {
		return domain.Card{Title: strings.Trim(text, "* ")}
	}
	return domain.Card{Title: strings.Trim(title, "* "), Body: strings.TrimSpace(body)}
}

func lastWord(title string) string {
	fields := strings.Fields(title)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}

func metaString(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
