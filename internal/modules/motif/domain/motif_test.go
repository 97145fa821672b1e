package domain_test

import (
	"strings"
	"testing"

	"gazette/internal/modules/motif/domain"
)

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	base := domain.Manifest{
		Name:    "motifs",
		Version: "1.0.0",
		Binary:  "/tmp/motifs",
		SHA256:  strings.Repeat("a", 64),
		Enabled: true,
		Motifs:  []string{"dots", "waves"},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("manifest should be valid: %v", err)
	}
	if !base.Provides("waves") || base.Provides("rain") {
		t.Fatalf("provides should follow the motif list")
	}

	badHash := base
	badHash.SHA256 = "ABC"
	if err := badHash.Validate(); err == nil {
		t.Fatalf("bad checksum format should fail")
	}
	none := base
	none.Motifs = nil
	if err := none.Validate(); err == nil {
		t.Fatalf("manifest without motifs should fail")
	}
	dup := base
	dup.Motifs = []string{"dots", "dots"}
	if err := dup.Validate(); err == nil {
		t.Fatalf("duplicate motifs should fail")
	}
	badName := base
	badName.Motifs = []string{"Dots!"}
	if err := badName.Validate(); err == nil {
		t.Fatalf("invalid motif name should fail")
	}
}

func TestRenderRequestValidate(t *testing.T) {
	t.Parallel()
	if err := (domain.RenderRequest{Motif: "dots", Width: 10, Height: 4}).Validate(); err != nil {
		t.Fatalf("request should be valid: %v", err)
	}
	for _, req := range []domain.RenderRequest{
		{Width: 10, Height: 4},
		{Motif: "dots", Width: 0, Height: 4},
		{Motif: "dots", Width: domain.MaxWidth + 1, Height: 4},
	} {
		if err := req.Validate(); err == nil {
			t.Fatalf("request %+v should fail", req)
		}
	}
}
