package service

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"gazette/internal/modules/choreo/domain"
	"gazette/internal/modules/choreo/dto"
	"gazette/internal/platform/config"
)

const (
	defaultCardWidth = 28
	cardSpacing      = 2
	termBaseSpread   = 10
)

// trigger decides when a section's block reveal starts.
type trigger int

const (
	// triggerEntry starts the reveal the first frame the section is on screen.
	triggerEntry trigger = iota
	// triggerLetters starts it once the title letters are all visible.
	triggerLetters
)

// preset is the stage recipe for one section kind.
type preset struct {
	length  func(sc domain.SectionContent, t config.Tuning) domain.LengthFunc
	policy  func(t config.Tuning) domain.Policy
	planner func(sc domain.SectionContent, t config.Tuning) domain.Planner
	trigger trigger
	letters bool
}

var presets = map[domain.Kind]preset{
	domain.KindHero: {
		length:  viewports(func(t config.Tuning) float64 { return t.HeroLength }),
		policy:  distance,
		planner: heroPlan,
		trigger: triggerLetters,
		letters: true,
	},
	domain.KindLead: {
		length:  viewports(func(t config.Tuning) float64 { return t.LeadLength }),
		policy:  entry,
		planner: leadPlan,
		trigger: triggerEntry,
	},
	domain.KindArticle: {
		length:  viewports(func(t config.Tuning) float64 { return t.ArticleLength }),
		policy:  entry,
		planner: articlePlan,
		trigger: triggerEntry,
	},
	domain.KindTerms: {
		length:  viewports(func(t config.Tuning) float64 { return t.TermsLength }),
		policy:  distance,
		planner: termsPlan,
		trigger: triggerEntry,
	},
	domain.KindTrack: {
		length:  trackLength,
		policy:  distance,
		planner: trackPlan,
		trigger: triggerEntry,
	},
}

func presetFor(kind domain.Kind) (preset, error) {
	if err := kind.Validate(); err != nil {
		return preset{}, err
	}
	return presets[kind], nil
}

func distance(config.Tuning) domain.Policy { return domain.DistancePolicy() }

func entry(t config.Tuning) domain.Policy { return domain.EntryPolicy(t.EntryStart, t.EntryEnd) }

func viewports(fallback func(config.Tuning) float64) func(domain.SectionContent, config.Tuning) domain.LengthFunc {
	return func(sc domain.SectionContent, t config.Tuning) domain.LengthFunc {
		n := sc.Hints.Length
		if n <= 0 {
			n = fallback(t)
		}
		return domain.FixedViewports(n)
	}
}

func mustTable(phases ...domain.Phase) domain.PhaseTable {
	table, err := domain.NewPhaseTable(phases...)
	if err != nil {
		return domain.FullRange()
	}
	return table
}

// heroPlan: the title warms up during the intro, then the outro scales it up
// and fades it out over the final HeroFadeWindow of the outro.
func heroPlan(_ domain.SectionContent, t config.Tuning) domain.Planner {
	table := mustTable(
		domain.Phase{Name: "intro", Start: 0, End: t.HeroFadeStart},
		domain.Phase{Name: "outro", Start: t.HeroFadeStart, End: 1},
	)
	params := []domain.ParamSpec{
		{Name: dto.ParamColorMix, Phase: 0, Start: 0, End: 1, Ease: domain.OutCubic, Domain: domain.Unit},
		{Name: dto.ParamScale, Phase: 1, Start: 1, End: 1.25, Ease: domain.InOutCubic},
		{Name: dto.ParamTranslateY, Phase: 1, Start: 0, End: -3, Ease: domain.OutQuad},
		{Name: dto.ParamOpacity, Phase: 1, From: 1 - t.HeroFadeWindow, To: 1, Start: 1, End: 0, Ease: domain.Linear, Domain: domain.Unit},
	}
	return domain.StaticPlan(table, params)
}

func leadPlan(_ domain.SectionContent, t config.Tuning) domain.Planner {
	span := t.LeadFadeSpan
	params := []domain.ParamSpec{
		{Name: dto.ParamOpacity, From: 0, To: span, Start: 0, End: 1, Ease: domain.OutCubic, Domain: domain.Unit},
		{Name: dto.ParamTranslateY, From: 0, To: span, Start: 3, End: 0, Ease: domain.OutQuad},
	}
	if span < 1 {
		params = append(params, domain.ParamSpec{Name: dto.ParamColorMix, From: span, To: 1, Start: 0, End: 1, Ease: domain.SmoothStep, Domain: domain.Unit})
	}
	return domain.StaticPlan(domain.FullRange(), params)
}

func articlePlan(sc domain.SectionContent, _ config.Tuning) domain.Planner {
	params := []domain.ParamSpec{
		{Name: dto.ParamRevealCount, From: 0, To: 0.8, Start: 0, End: float64(len(sc.Blocks)), Ease: domain.Linear, Domain: domain.Count},
		{Name: dto.ParamOpacity, From: 0, To: 0.5, Start: 0.35, End: 1, Ease: domain.OutQuad, Domain: domain.Unit},
		{Name: dto.ParamTranslateY, From: 0, To: 0.5, Start: 2, End: 0, Ease: domain.OutCubic},
	}
	return domain.StaticPlan(domain.FullRange(), params)
}

// termsPlan: terms converge from alternating sides, hold, then the emphasis
// phase tints them.
func termsPlan(sc domain.SectionContent, t config.Tuning) domain.Planner {
	table := mustTable(
		domain.Phase{Name: "converge", Start: 0, End: t.TermsConverge},
		domain.Phase{Name: "hold", Start: t.TermsConverge, End: t.TermsHold},
		domain.Phase{Name: "emphasis", Start: t.TermsHold, End: 1},
	)
	params := make([]domain.ParamSpec, 0, 2*len(sc.Terms)+1)
	for i := range sc.Terms {
		spread := termBaseSpread + t.ScatterSpread*float64(i%3)
		if i%2 == 1 {
			spread = -spread
		}
		params = append(params,
			domain.ParamSpec{Name: dto.ItemParam(dto.ParamTranslateX, i), Phase: 0, Start: spread, End: 0, Ease: domain.InOutCubic},
			domain.ParamSpec{Name: dto.ItemParam(dto.ParamOpacity, i), Phase: 0, Start: 0.25, End: 1, Ease: domain.OutQuad, Domain: domain.Unit},
		)
	}
	params = append(params, domain.ParamSpec{Name: dto.ParamColorMix, Phase: 2, Start: 0, End: 1, Ease: domain.SmoothStep, Domain: domain.Unit})
	return domain.StaticPlan(table, params)
}

// trackGeometry is the horizontal layout of a track section in cells.
type trackGeometry struct {
	cardWidth float64
	width     float64
}

func trackLayout(sc domain.SectionContent) trackGeometry {
	cw := sc.Hints.CardWidthPx
	if cw <= 0 {
		cw = defaultCardWidth
	}
	n := float64(len(sc.Cards))
	width := n * cw
	if n > 1 {
		width += (n - 1) * cardSpacing
	}
	return trackGeometry{cardWidth: cw, width: width}
}

func trackSpans(sc domain.SectionContent, t config.Tuning, vw, vh float64) []domain.Span {
	overflow := math.Max(0, trackLayout(sc).width-vw)
	return []domain.Span{
		{Name: "entry", Size: vh * t.TrackEntry},
		{Name: "track", Size: overflow},
		{Name: "gap", Size: math.Max(0, sc.Hints.GapPx)},
		{Name: "exit", Size: vh * t.TrackExit},
	}
}

// trackLength makes the distance span equal the sum of the spans, so one
// scrolled cell moves the track one cell.
func trackLength(sc domain.SectionContent, t config.Tuning) domain.LengthFunc {
	return func(vw, vh float64) float64 {
		total := vh
		for _, s := range trackSpans(sc, t, vw, vh) {
			total += s.Size
		}
		return total
	}
}

func trackPlan(sc domain.SectionContent, t config.Tuning) domain.Planner {
	return func(g domain.Geometry) domain.Plan {
		overflow := math.Max(0, trackLayout(sc).width-g.ViewportW)
		table := domain.TableFromSpans(trackSpans(sc, t, g.ViewportW, g.ViewportH)...)
		return domain.Plan{
			Table: table,
			Params: []domain.ParamSpec{
				{Name: dto.ParamOpacity, Phase: 0, Start: 0, End: 1, Ease: domain.OutQuad, Domain: domain.Unit},
				{Name: dto.ParamTranslateX, Phase: 1, Start: 0, End: -overflow, Ease: domain.Linear},
				{Name: dto.ParamColorMix, Phase: 2, Start: 0, End: 1, Ease: domain.SmoothStep, Domain: domain.Unit},
				{Name: dto.ParamOpacity, Phase: 3, From: 0.4, To: 1, Start: 1, End: 0, Ease: domain.InQuad, Domain: domain.Unit},
			},
		}
	}
}

// scatterFrom returns the rune index where word starts when the title ends
// with it, or -1.
func scatterFrom(title, word string) int {
	word = strings.TrimSpace(word)
	if word == "" || !strings.HasSuffix(title, word) {
		return -1
	}
	return utf8.RuneCountInString(title) - utf8.RuneCountInString(word)
}

func sectionID(sc domain.SectionContent, index int) string {
	if id := strings.TrimSpace(sc.ID); id != "" {
		return id
	}
	return string(sc.Kind) + "-" + strconv.Itoa(index)
}

func sectionInfo(sc domain.SectionContent, id string) dto.SectionInfo {
	info := dto.SectionInfo{
		ID:          id,
		Kind:        string(sc.Kind),
		Motif:       sc.Motif,
		Title:       sc.Title,
		ScatterWord: sc.ScatterWord,
		Terms:       append([]string(nil), sc.Terms...),
		CardSpacing: cardSpacing,
	}
	for _, b := range sc.Blocks {
		info.Blocks = append(info.Blocks, dto.BlockInfo{Text: b.Text, Emphasis: b.Emphasis})
	}
	for _, c := range sc.Cards {
		info.Cards = append(info.Cards, dto.CardInfo{Title: c.Title, Body: c.Body})
	}
	if sc.Kind == domain.KindTrack {
		info.CardWidth = trackLayout(sc).cardWidth
	}
	return info
}
