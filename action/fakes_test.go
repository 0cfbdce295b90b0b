package action

import (
	"fmt"
	"sync"

	"github.com/robmorgan/glow/litra"
)

type fakeLight struct {
	mu          sync.Mutex
	serial      string
	on          bool
	current     int
	min, max    int
	lumenCalls  []int
	percentages []int
	power       []string
	reads       int
}

func newFakeLight(serial string, on bool, current, min, max int) *fakeLight {
	return &fakeLight{serial: serial, on: on, current: current, min: min, max: max}
}

func (l *fakeLight) SerialNumber() string { return l.serial }
func (l *fakeLight) Name() string         { return "Litra Glow" }

func (l *fakeLight) IsOn() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on, nil
}

func (l *fakeLight) TurnOn() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.power = append(l.power, "on")
	return nil
}

func (l *fakeLight) TurnOff() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.power = append(l.power, "off")
	return nil
}

func (l *fakeLight) BrightnessInLumen() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	return l.current, nil
}

func (l *fakeLight) MinimumBrightnessInLumen() int { return l.min }
func (l *fakeLight) MaximumBrightnessInLumen() int { return l.max }

func (l *fakeLight) SetBrightnessInLumen(lumen int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = lumen
	l.lumenCalls = append(l.lumenCalls, lumen)
	return nil
}

func (l *fakeLight) SetBrightnessPercentage(percentage int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = litra.PercentageToLumen(l.min, l.max, percentage)
	l.percentages = append(l.percentages, percentage)
	return nil
}

func (l *fakeLight) snapshot() (lumen []int, percentages []int, power []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]int(nil), l.lumenCalls...), append([]int(nil), l.percentages...), append([]string(nil), l.power...)
}

type fakeLights struct {
	lights    map[string]*fakeLight
	order     []string
	refreshes int
}

func newFakeLights(lights ...*fakeLight) *fakeLights {
	f := &fakeLights{lights: make(map[string]*fakeLight)}
	for _, l := range lights {
		f.lights[l.serial] = l
		f.order = append(f.order, l.serial)
	}
	return f
}

func (f *fakeLights) GetLightBySerialNumber(serial string) (litra.Light, error) {
	if l, ok := f.lights[serial]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %s", litra.ErrLightNotFound, serial)
}

func (f *fakeLights) Lights() []litra.Light {
	out := make([]litra.Light, 0, len(f.order))
	for _, s := range f.order {
		out = append(out, f.lights[s])
	}
	return out
}

func (f *fakeLights) Refresh() error {
	f.refreshes++
	return nil
}

type piMessage struct {
	action, context string
	payload         interface{}
}

type fakeHost struct {
	mu       sync.Mutex
	titles   map[string]string
	images   map[string]string
	messages []piMessage
}

func newFakeHost() *fakeHost {
	return &fakeHost{titles: make(map[string]string), images: make(map[string]string)}
}

func (h *fakeHost) SetTitle(actionContext, title string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.titles[actionContext] = title
	return nil
}

func (h *fakeHost) SetImage(actionContext, image string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.images[actionContext] = image
	return nil
}

func (h *fakeHost) SendToPropertyInspector(action, actionContext string, payload interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, piMessage{action: action, context: actionContext, payload: payload})
	return nil
}
