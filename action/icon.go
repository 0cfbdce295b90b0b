package action

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	iconOff  = colorful.Color{R: 0.12, G: 0.12, B: 0.14}
	iconWarm = colorful.Color{R: 1.0, G: 0.84, B: 0.56}
)

// IconColor blends from a dark grey at 0% to warm white at 100%.
func IconColor(percentage int) colorful.Color {
	t := float64(percentage) / 100
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return iconOff.BlendLab(iconWarm, t).Clamped()
}

// KeyImage renders a lamp glyph tinted for percentage as an SVG data URI.
func KeyImage(percentage int) string {
	r, g, b := IconColor(percentage).RGB255()
	fill := fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)

	return "data:image/svg+xml;charset=utf8," +
		`<svg xmlns="http://www.w3.org/2000/svg" width="144" height="144" viewBox="0 0 144 144">` +
		`<rect width="144" height="144" fill="rgb(0,0,0)"/>` +
		`<rect x="32" y="40" width="80" height="50" rx="10" fill="` + fill + `"/>` +
		`<rect x="68" y="90" width="8" height="26" fill="rgb(90,90,90)"/>` +
		`<rect x="48" y="116" width="48" height="6" rx="3" fill="rgb(90,90,90)"/>` +
		`</svg>`
}
