package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/glow/config"
	"github.com/robmorgan/glow/ramp"
)

// number accepts a JSON number or a numeric string, since the property inspector sends either
// depending on the input element. An empty string leaves it unset.
type number struct {
	value float64
	set   bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = number{}
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = number{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.WithStackTrace(fmt.Errorf("invalid number %q", s))
		}
		*n = number{value: v, set: true}
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = number{value: v, set: true}
	return nil
}

func (n number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// Settings is what the property inspector stores for one key.
type Settings struct {
	SelectedLights []string `json:"selectedLights"`
	Value          number   `json:"value"`
	Duration       number   `json:"duration"`
	ShowOnIcon     bool     `json:"showOnIcon"`
	Curve          string   `json:"curve,omitempty"`
}

// ParseSettings decodes raw settings. Missing or empty settings decode to the zero value.
func ParseSettings(raw json.RawMessage) (Settings, error) {
	var s Settings
	if len(bytes.TrimSpace(raw)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return Settings{}, errors.WithStackTrace(fmt.Errorf("decoding settings: %w", err))
	}
	return s, nil
}

// Request is a key's settings with defaults applied and bounds enforced.
type Request struct {
	Lights     []string
	Percentage int
	Duration   time.Duration
	ShowOnIcon bool
	Curve      ramp.Curve
}

// MaxDuration is the longest ramp a key can request. Longer durations are cut to it.
const MaxDuration = time.Hour

// Resolve fills in defaults from cfg and clamps the percentage to 0-100. A negative or
// non-finite duration becomes zero, and a longer one than MaxDuration is capped. An unknown curve
// falls back to linear and is reported as an error alongside the usable request.
func (s Settings) Resolve(cfg config.PluginConfig) (Request, error) {
	req := Request{
		Lights:     s.SelectedLights,
		Percentage: cfg.DefaultBrightness,
		Duration:   cfg.DefaultDuration,
		ShowOnIcon: s.ShowOnIcon,
		Curve:      ramp.CurveLinear,
	}

	if v := s.Value.value; s.Value.set && !math.IsNaN(v) && !math.IsInf(v, 0) {
		req.Percentage = int(math.Round(math.Max(0, math.Min(100, v))))
	}
	if req.Percentage < 0 {
		req.Percentage = 0
	}
	if req.Percentage > 100 {
		req.Percentage = 100
	}

	if s.Duration.set {
		req.Duration = 0
		if d := s.Duration.value; d > 0 && !math.IsInf(d, 0) {
			// compared in seconds so the conversion below cannot overflow
			if d >= MaxDuration.Seconds() {
				req.Duration = MaxDuration
			} else {
				req.Duration = time.Duration(d * float64(time.Second))
			}
		}
	}

	curve, err := ramp.ParseCurve(s.Curve)
	if err != nil {
		return req, err
	}
	req.Curve = curve
	return req, nil
}

// Title is the text shown on the key.
func (r Request) Title() string {
	if !r.ShowOnIcon {
		return ""
	}
	return fmt.Sprintf("%d%%", r.Percentage)
}
