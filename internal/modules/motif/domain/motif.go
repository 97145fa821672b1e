package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrPluginDisabled   = errors.New("motif plugin is disabled")
	ErrChecksumMismatch = errors.New("motif plugin checksum mismatch")
	ErrPluginTimeout    = errors.New("motif plugin timeout")
)

const (
	MaxWidth  = 512
	MaxHeight = 256
)

var (
	sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)
	namePattern   = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
)

// Manifest registers one plugin binary and the motifs it renders.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Binary  string   `json:"binary"`
	SHA256  string   `json:"sha256"`
	Enabled bool     `json:"enabled"`
	Motifs  []string `json:"motifs"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Motifs) == 0 {
		return fmt.Errorf("plugin %s declares no motifs", m.Name)
	}
	seen := map[string]struct{}{}
	for _, motif := range m.Motifs {
		if !namePattern.MatchString(motif) {
			return fmt.Errorf("invalid motif name %q", motif)
		}
		if _, ok := seen[motif]; ok {
			return fmt.Errorf("duplicate motif: %s", motif)
		}
		seen[motif] = struct{}{}
	}
	return nil
}

func (m Manifest) Provides(motif string) bool {
	for _, name := range m.Motifs {
		if name == motif {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
	Motifs  []string
}

type RenderRequest struct {
	Motif  string
	Width  int
	Height int
	Seed   uint64
}

func (r RenderRequest) Validate() error {
	if r.Motif == "" {
		return fmt.Errorf("motif is required")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("motif size must be positive, got %dx%d", r.Width, r.Height)
	}
	if r.Width > MaxWidth || r.Height > MaxHeight {
		return fmt.Errorf("motif size %dx%d exceeds %dx%d", r.Width, r.Height, MaxWidth, MaxHeight)
	}
	return nil
}

// Pattern is a rendered backdrop, one string per row.
type Pattern struct {
	Motif string
	Lines []string
}
