package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"gazette/internal/modules/motif/domain"
	"gazette/internal/modules/motif/dto"
	motifout "gazette/internal/modules/motif/port/out"
	apperrors "gazette/internal/platform/errors"
)

const cacheSize = 64

type renderKey struct {
	motif  string
	width  int
	height int
	seed   uint64
}

func (k renderKey) String() string {
	return k.motif + "/" + strconv.Itoa(k.width) + "x" + strconv.Itoa(k.height) + "/" + strconv.FormatUint(k.seed, 10)
}

type rendered struct {
	plugin  string
	pattern domain.Pattern
}

// MotifService renders decorative backdrops through out-of-process plugins.
// Rendered patterns are cached; concurrent requests for the same pattern
// share one plugin call.
type MotifService struct {
	store  motifout.ManifestStore
	host   motifout.Host
	logger hclog.Logger
	cache  *lru.Cache[renderKey, rendered]
	flight singleflight.Group
}

func NewMotifService(store motifout.ManifestStore, host motifout.Host, logger hclog.Logger) *MotifService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	cache, _ := lru.New[renderKey, rendered](cacheSize)
	return &MotifService{store: store, host: host, logger: logger.Named("motif"), cache: cache}
}

func (s *MotifService) List(ctx context.Context) ([]dto.MotifPluginInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MotifPluginInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.MotifPluginInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Motifs: append([]string(nil), m.Motifs...)})
	}
	return out, nil
}

func (s *MotifService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		if result.Error != "" {
			s.logger.Warn("motif plugin unhealthy", "plugin", m.Name, "error", result.Error)
		}
		results = append(results, result)
	}
	return results, nil
}

// Render returns the pattern for a motif. A motif no enabled plugin declares
// yields ErrNotFound.
func (s *MotifService) Render(ctx context.Context, input dto.RenderInput) (dto.RenderOutput, error) {
	req := domain.RenderRequest{Motif: input.Motif, Width: input.Width, Height: input.Height, Seed: input.Seed}
	if err := req.Validate(); err != nil {
		return dto.RenderOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	key := renderKey{motif: req.Motif, width: req.Width, height: req.Height, seed: req.Seed}
	if hit, ok := s.cache.Get(key); ok {
		return toOutput(hit, true), nil
	}

	v, err, _ := s.flight.Do(key.String(), func() (any, error) {
		manifest, err := s.manifestFor(ctx, req.Motif)
		if err != nil {
			return rendered{}, err
		}
		pattern, err := s.host.Render(ctx, manifest, req)
		if err != nil {
			return rendered{}, err
		}
		pattern.Motif = req.Motif
		pattern.Lines = fit(pattern.Lines, req.Width, req.Height)
		r := rendered{plugin: manifest.Name, pattern: pattern}
		s.cache.Add(key, r)
		s.logger.Debug("rendered motif", "motif", req.Motif, "plugin", manifest.Name, "size", strconv.Itoa(req.Width)+"x"+strconv.Itoa(req.Height))
		return r, nil
	})
	if err != nil {
		return dto.RenderOutput{}, err
	}
	return toOutput(v.(rendered), false), nil
}

func (s *MotifService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate plugin name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *MotifService) manifestFor(ctx context.Context, motif string) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	disabled := ""
	for _, m := range manifests {
		if !m.Provides(motif) {
			continue
		}
		if !m.Enabled {
			disabled = m.Name
			continue
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		if s.host == nil {
			return domain.Manifest{}, fmt.Errorf("motif host is not configured")
		}
		return m, nil
	}
	if disabled != "" {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginDisabled, disabled)
	}
	return domain.Manifest{}, fmt.Errorf("motif %q: %w", motif, apperrors.ErrNotFound)
}

// fit pads or trims the plugin output to exactly width x height cells.
func fit(lines []string, width, height int) []string {
	out := make([]string, height)
	for i := range out {
		var row []rune
		if i < len(lines) {
			row = []rune(lines[i])
		}
		if len(row) > width {
			row = row[:width]
		}
		for len(row) < width {
			row = append(row, ' ')
		}
		out[i] = string(row)
	}
	return out
}

func toOutput(r rendered, cached bool) dto.RenderOutput {
	return dto.RenderOutput{
		Motif:  r.pattern.Motif,
		Plugin: r.plugin,
		Lines:  append([]string(nil), r.pattern.Lines...),
		Cached: cached,
	}
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
