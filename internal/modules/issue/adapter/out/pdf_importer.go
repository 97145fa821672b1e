package out

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"rsc.io/pdf"

	"gazette/internal/modules/issue/domain"
	issueout "gazette/internal/modules/issue/port/out"
)

// PDFImporter turns every page of a PDF into an article section. The
// document title, when set, becomes a hero section in front.
type PDFImporter struct {
	blockDelay time.Duration
}

func NewPDFImporter(blockDelay time.Duration) issueout.Importer {
	return &PDFImporter{blockDelay: blockDelay}
}

func (r *PDFImporter) Import(_ context.Context, path string) (domain.Draft, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("open pdf: %w", err)
	}
	title := strings.TrimSpace(doc.Trailer().Key("Info").Key("Title").Text())
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		content := p.Content()
		parts := make([]string, 0, len(content.Text))
		for _, text := range content.Text {
			if strings.TrimSpace(text.S) == "" {
				continue
			}
			parts = append(parts, text.S)
		}
		pages = append(pages, strings.Join(parts, " "))
	}
	return DraftFromPages(title, pages, r.blockDelay), nil
}

// DraftFromPages builds the draft for extracted page texts. Blank pages are
// skipped.
func DraftFromPages(title string, pages []string, blockDelay time.Duration) domain.Draft {
	draft := domain.Draft{Title: title}
	draft.Sections = append(draft.Sections, domain.Section{
		ID:          "cover",
		Kind:        domain.KindHero,
		Title:       title,
		ScatterWord: lastWord(title),
	})
	delay := int(blockDelay / time.Millisecond)
	for i, text := range pages {
		sentences := SplitSentences(text)
		if len(sentences) == 0 {
			continue
		}
		sec := domain.Section{
			ID:    "page-" + strconv.Itoa(i+1),
			Kind:  domain.KindArticle,
			Title: "Page " + strconv.Itoa(i+1),
		}
		for j, s := range sentences {
			d := delay
			if j == 0 {
				d = 0
			}
			sec.Blocks = append(sec.Blocks, domain.Block{Text: s, DelayMS: d})
		}
		draft.Sections = append(draft.Sections, sec)
	}
	return draft
}

// SplitSentences splits on '.', '!' and '?' followed by whitespace and
// collapses runs of whitespace.
func SplitSentences(text string) []string {
	words := strings.Fields(text)
	var out []string
	var current []string
	for _, w := range words {
		current = append(current, w)
		if strings.HasSuffix(w, ".") || strings.HasSuffix(w, "!") || strings.HasSuffix(w, "?") {
			out = append(out, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, " "))
	}
	return out
}
