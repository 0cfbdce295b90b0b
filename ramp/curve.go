package ramp

import (
	"fmt"
	"sort"

	"github.com/fogleman/ease"
	"github.com/gruntwork-io/go-commons/errors"
)

// Curve shapes how ramp steps are spaced in time. Every curve must be monotonic on [0,1] with
// f(0) = 0 and f(1) = 1.
type Curve string

const (
	CurveLinear     Curve = "linear"
	CurveInQuad     Curve = "in-quad"
	CurveOutQuad    Curve = "out-quad"
	CurveInOutQuad  Curve = "in-out-quad"
	CurveInOutCubic Curve = "in-out-cubic"
)

var curves = map[Curve]ease.Function{
	CurveLinear:     ease.Linear,
	CurveInQuad:     ease.InQuad,
	CurveOutQuad:    ease.OutQuad,
	CurveInOutQuad:  ease.InOutQuad,
	CurveInOutCubic: ease.InOutCubic,
}

// ParseCurve returns the curve with the given name. An empty name selects the linear curve.
func ParseCurve(name string) (Curve, error) {
	if name == "" {
		return CurveLinear, nil
	}
	c := Curve(name)
	if _, ok := curves[c]; !ok {
		return "", errors.WithStackTrace(fmt.Errorf("unknown ramp curve %q", name))
	}
	return c, nil
}

// Curves lists the names of all supported curves.
func Curves() []string {
	out := make([]string, 0, len(curves))
	for c := range curves {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}

func (c Curve) function() ease.Function {
	if fn, ok := curves[c]; ok {
		return fn
	}
	return ease.Linear
}

// progressAt finds the time fraction at which the curve reaches the given brightness fraction.
func (c Curve) progressAt(fraction float64) float64 {
	if fraction <= 0 {
		return 0
	}
	if fraction >= 1 {
		return 1
	}
	if c == CurveLinear || c == "" {
		return fraction
	}

	fn := c.function()
	lo, hi := 0.0, 1.0
	for i := 0; i < 50; i++ {
		mid := (lo + hi) / 2
		if fn(mid) < fraction {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
