package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds the choreography constants. Lengths are multiples of the
// viewport height; fractions are in progress units unless noted.
type Tuning struct {
	EntryStart float64 `yaml:"entry_start"`
	EntryEnd   float64 `yaml:"entry_end"`

	FrameIntervalMS   int `yaml:"frame_interval_ms"`
	LetterStaggerMS   int `yaml:"letter_stagger_ms"`
	LetterDelayMS     int `yaml:"letter_delay_ms"`
	ScatterDelayMS    int `yaml:"scatter_delay_ms"`
	ScatterDurationMS int `yaml:"scatter_duration_ms"`
	SettleDelayMS     int `yaml:"settle_delay_ms"`
	BlockDelayMS      int `yaml:"block_delay_ms"`

	HeroLength    float64 `yaml:"hero_length"`
	LeadLength    float64 `yaml:"lead_length"`
	ArticleLength float64 `yaml:"article_length"`
	TermsLength   float64 `yaml:"terms_length"`

	HeroFadeStart  float64 `yaml:"hero_fade_start"`
	HeroFadeWindow float64 `yaml:"hero_fade_window"`
	LeadFadeSpan   float64 `yaml:"lead_fade_span"`
	TrackEntry     float64 `yaml:"track_entry"`
	TrackExit      float64 `yaml:"track_exit"`
	TermsConverge  float64 `yaml:"terms_converge"`
	TermsHold      float64 `yaml:"terms_hold"`
	ScatterSpread  float64 `yaml:"scatter_spread"`

	Seed uint64 `yaml:"seed"`
}

func DefaultTuning() Tuning {
	return Tuning{
		EntryStart:        0.8,
		EntryEnd:          -0.3,
		FrameIntervalMS:   16,
		LetterStaggerMS:   60,
		LetterDelayMS:     200,
		ScatterDelayMS:    400,
		ScatterDurationMS: 900,
		SettleDelayMS:     1200,
		BlockDelayMS:      700,
		HeroLength:        2,
		LeadLength:        1.2,
		ArticleLength:     1.5,
		TermsLength:       2.5,
		HeroFadeStart:     0.35,
		HeroFadeWindow:    0.6,
		LeadFadeSpan:      0.6,
		TrackEntry:        0.1,
		TrackExit:         0.3,
		TermsConverge:     0.5,
		TermsHold:         0.8,
		ScatterSpread:     6,
	}
}

// LoadTuning overlays the YAML file at path onto the defaults. A missing
// file yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	tuning := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tuning, nil
		}
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, &tuning); err != nil {
		return Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	if err := tuning.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("tuning %s: %w", path, err)
	}
	return tuning, nil
}

func (t Tuning) Validate() error {
	unit := map[string]float64{
		"hero_fade_start":  t.HeroFadeStart,
		"hero_fade_window": t.HeroFadeWindow,
		"lead_fade_span":   t.LeadFadeSpan,
		"terms_converge":   t.TermsConverge,
		"terms_hold":       t.TermsHold,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	if t.LeadFadeSpan == 0 {
		return fmt.Errorf("lead_fade_span must be positive")
	}
	if t.TermsHold < t.TermsConverge {
		return fmt.Errorf("terms_hold must not precede terms_converge")
	}
	if t.EntryStart <= 0 {
		return fmt.Errorf("entry_start must be positive")
	}
	if t.FrameIntervalMS <= 0 {
		return fmt.Errorf("frame_interval_ms must be positive")
	}
	for name, v := range map[string]float64{
		"hero_length":    t.HeroLength,
		"lead_length":    t.LeadLength,
		"article_length": t.ArticleLength,
		"terms_length":   t.TermsLength,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if t.TrackEntry < 0 || t.TrackExit < 0 {
		return fmt.Errorf("track entry/exit must not be negative")
	}
	return nil
}

func (t Tuning) FrameInterval() time.Duration {
	return time.Duration(t.FrameIntervalMS) * time.Millisecond
}

func ms(v int) time.Duration {
	if v < 0 {
		return 0
	}
	return time.Duration(v) * time.Millisecond
}

func (t Tuning) LetterStagger() time.Duration   { return ms(t.LetterStaggerMS) }
func (t Tuning) LetterDelay() time.Duration     { return ms(t.LetterDelayMS) }
func (t Tuning) ScatterDelay() time.Duration    { return ms(t.ScatterDelayMS) }
func (t Tuning) ScatterDuration() time.Duration { return ms(t.ScatterDurationMS) }
func (t Tuning) SettleDelay() time.Duration     { return ms(t.SettleDelayMS) }
func (t Tuning) BlockDelay() time.Duration      { return ms(t.BlockDelayMS) }
