package ramp

import (
	"context"
	"time"

	"github.com/robmorgan/glow/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Light is the one operation the engine needs from a device.
type Light interface {
	SetBrightnessInLumen(lumen int) error
}

// Request describes a single ramp.
type Request struct {
	// TargetPercentage is the brightness to reach, as a percentage of the device range.
	TargetPercentage int

	// Duration is the total wall-clock time the ramp should take. Callers set the brightness
	// directly instead of ramping when this is zero.
	Duration time.Duration

	// Curve spaces the steps in time. The zero value is linear.
	Curve Curve
}

// Step is a brightness to apply followed by the wait before the next step.
type Step struct {
	Brightness int
	Delay      time.Duration
}

// Plan computes every step needed to move from s.Current to the requested target. Each step moves
// the brightness by exactly one lumen and the delays add up to req.Duration.
func Plan(s State, req Request) []Step {
	target := TargetBrightness(s, req.TargetPercentage)
	delta := target - s.Current
	if delta == 0 {
		return nil
	}

	direction := 1
	n := delta
	if delta < 0 {
		direction = -1
		n = -delta
	}

	steps := make([]Step, 0, n)
	if req.Curve == "" || req.Curve == CurveLinear {
		delay := req.Duration / time.Duration(n)
		for i := 1; i <= n; i++ {
			steps = append(steps, Step{Brightness: s.Current + direction*i, Delay: delay})
		}
		return steps
	}

	// step i is applied at offset(i-1) and waits until offset(i)
	offset := func(i int) time.Duration {
		return time.Duration(req.Curve.progressAt(float64(i)/float64(n)) * float64(req.Duration))
	}
	for i := 1; i <= n; i++ {
		steps = append(steps, Step{Brightness: s.Current + direction*i, Delay: offset(i) - offset(i-1)})
	}
	return steps
}

// Engine applies ramp plans to lights. Nothing prevents two ramps on the same light from
// interleaving; the last write wins on the device.
type Engine struct {
	clock clock.Clock
}

// NewEngine creates an engine that waits between steps using c.
func NewEngine(c clock.Clock) *Engine {
	return &Engine{clock: c}
}

// Ramp sets each planned brightness on light in order, sleeping between steps. It stops at the
// first failed set call and returns its error. A cancelled ctx stops the ramp between steps.
func (e *Engine) Ramp(ctx context.Context, light Light, s State, req Request) error {
	log := logger.GetProjectLogger().WithFields(logrus.Fields{
		"current":  s.Current,
		"target":   req.TargetPercentage,
		"duration": req.Duration,
	})

	steps := Plan(s, req)
	if len(steps) == 0 {
		log.Debugf("Brightness is already at %d%%", req.TargetPercentage)
		return nil
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := light.SetBrightnessInLumen(step.Brightness); err != nil {
			return err
		}
		e.clock.Sleep(step.Delay)
	}

	if steps[0].Brightness > s.Current {
		log.Debugf("Brightness ramped up to %d%%", req.TargetPercentage)
	} else {
		log.Debugf("Brightness ramped down to %d%%", req.TargetPercentage)
	}
	return nil
}
