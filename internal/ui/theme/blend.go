package theme

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Blend mixes from toward to in Lab space. t is clamped to [0, 1]; a color
// that does not parse as hex falls back to the nearer endpoint.
func Blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	switch {
	case t <= 0:
		return from
	case t >= 1:
		return to
	}
	a, errA := colorful.Hex(string(from))
	b, errB := colorful.Hex(string(to))
	if errA != nil || errB != nil {
		if t < 0.5 {
			return from
		}
		return to
	}
	return lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
}

// Fade renders c at the given opacity over the app background.
func Fade(c lipgloss.Color, opacity float64) lipgloss.Color {
	return Blend(Base, c, opacity)
}
