package domain

import (
	"math"
	"strings"
)

// Easing reshapes t in [0,1]. Every easing maps 0 to 0 and 1 to 1.
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func InQuad(t float64) float64 { return t * t }

func OutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }

func InCubic(t float64) float64 { return t * t * t }

func OutCubic(t float64) float64 { return 1 - math.Pow(1-t, 3) }

func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func OutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func SmoothStep(t float64) float64 { return t * t * (3 - 2*t) }

var easings = map[string]Easing{
	"linear":       Linear,
	"in-quad":      InQuad,
	"out-quad":     OutQuad,
	"in-cubic":     InCubic,
	"out-cubic":    OutCubic,
	"in-out-cubic": InOutCubic,
	"out-expo":     OutExpo,
	"smoothstep":   SmoothStep,
}

// EasingByName resolves names such as "out-cubic". Unknown names resolve to
// Linear with ok=false.
func EasingByName(name string) (Easing, bool) {
	e, ok := easings[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Linear, false
	}
	return e, true
}
