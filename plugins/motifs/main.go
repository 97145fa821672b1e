package main

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	pluginrpc "gazette/internal/modules/motif/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type painter func(rng *rand.Rand, width, height int) []string

var painters = map[string]painter{
	"dots":  dots,
	"waves": waves,
	"grid":  grid,
	"rain":  rain,
}

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{
		Name:    "stock",
		Version: "1.0.0",
		Motifs:  []string{"dots", "waves", "grid", "rain"},
	}, nil
}

func (s *server) Render(_ context.Context, in *pluginrpc.RenderRequest) (*pluginrpc.RenderResponse, error) {
	paint, ok := painters[in.Motif]
	if !ok {
		return nil, fmt.Errorf("unknown motif: %s", in.Motif)
	}
	if in.Width <= 0 || in.Height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", in.Width, in.Height)
	}
	rng := rand.New(rand.NewPCG(in.Seed, in.Seed^0x9e3779b97f4a7c15))
	return &pluginrpc.RenderResponse{Lines: paint(rng, int(in.Width), int(in.Height))}, nil
}

func dots(rng *rand.Rand, width, height int) []string {
	lines := make([]string, height)
	for y := range lines {
		row := make([]rune, width)
		for x := range row {
			switch n := rng.IntN(24); {
			case n == 0:
				row[x] = '•'
			case n < 3:
				row[x] = '·'
			default:
				row[x] = ' '
			}
		}
		lines[y] = string(row)
	}
	return lines
}

func waves(rng *rand.Rand, width, height int) []string {
	glyphs := []rune(" .-~≈")
	phase := rng.Float64() * 2 * math.Pi
	freq := 0.15 + rng.Float64()*0.2
	lines := make([]string, height)
	for y := range lines {
		row := make([]rune, width)
		for x := range row {
			v := math.Sin(float64(x)*freq+phase+float64(y)*0.9) + math.Cos(float64(y)*0.5-float64(x)*freq/2)
			idx := int((v + 2) / 4 * float64(len(glyphs)))
			if idx >= len(glyphs) {
				idx = len(glyphs) - 1
			}
			row[x] = glyphs[idx]
		}
		lines[y] = string(row)
	}
	return lines
}

func grid(rng *rand.Rand, width, height int) []string {
	cell := 4 + rng.IntN(4)
	lines := make([]string, height)
	for y := range lines {
		var b strings.Builder
		for x := 0; x < width; x++ {
			onRow := y%(cell/2) == 0
			onCol := x%cell == 0
			switch {
			case onRow && onCol:
				b.WriteRune('+')
			case onRow:
				b.WriteRune('-')
			case onCol:
				b.WriteRune('|')
			default:
				b.WriteRune(' ')
			}
		}
		lines[y] = b.String()
	}
	return lines
}

func rain(rng *rand.Rand, width, height int) []string {
	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", width))
	}
	for x := 0; x < width; x++ {
		if rng.IntN(3) != 0 {
			continue
		}
		head := rng.IntN(height)
		tail := 1 + rng.IntN(4)
		for y := head; y >= 0 && y > head-tail; y-- {
			if y == head {
				cells[y][x] = '╎'
			} else {
				cells[y][x] = '¦'
			}
		}
	}
	lines := make([]string, height)
	for y := range cells {
		lines[y] = string(cells[y])
	}
	return lines
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
