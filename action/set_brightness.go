package action

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/robmorgan/glow/config"
	"github.com/robmorgan/glow/litra"
	"github.com/robmorgan/glow/logger"
	"github.com/robmorgan/glow/ramp"
	"github.com/robmorgan/glow/streamdeck"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// SetBrightnessUUID is the action identifier declared in the plugin manifest.
const SetBrightnessUUID = "com.eladavron.litra-glow-commander.set-brightness"

// Property inspector message asking for the connected lights.
const eventGetLights = "getLights"

// Host is the subset of the Stream Deck connection the action talks back to.
type Host interface {
	SetTitle(actionContext, title string) error
	SetImage(actionContext, image string) error
	SendToPropertyInspector(action, actionContext string, payload interface{}) error
}

// Lights finds the lights a key refers to.
type Lights interface {
	GetLightBySerialNumber(serial string) (litra.Light, error)
	Lights() []litra.Light
	Refresh() error
}

// SetBrightness sets every selected light to a percentage, ramping over the configured duration.
type SetBrightness struct {
	config config.PluginConfig
	host   Host
	lights Lights
	clock  clock.Clock
	engine *ramp.Engine

	// last settings seen per key, used to spot selection changes
	lock     sync.Mutex
	settings map[string]Settings

	// in-flight ramps and flashes
	wg sync.WaitGroup
}

// NewSetBrightness creates the action. c drives both ramps and flashes.
func NewSetBrightness(cfg config.PluginConfig, host Host, lights Lights, c clock.Clock) *SetBrightness {
	return &SetBrightness{
		config:   cfg,
		host:     host,
		lights:   lights,
		clock:    c,
		engine:   ramp.NewEngine(c),
		settings: make(map[string]Settings),
	}
}

// Wait blocks until every ramp and flash started by the action has finished.
func (a *SetBrightness) Wait() {
	a.wg.Wait()
}

func (a *SetBrightness) WillAppear(_ context.Context, ev streamdeck.ActionEvent) {
	log := logger.GetProjectLogger().WithField("context", ev.Context)
	log.Debug("Set Brightness action will appear")

	settings, err := ParseSettings(ev.Payload.Settings)
	if err != nil {
		log.Errorf("error reading settings. err='%v'", err)
	}
	a.remember(ev.Context, settings)
	a.updateKey(ev.Context, settings)
}

func (a *SetBrightness) WillDisappear(_ context.Context, ev streamdeck.ActionEvent) {
	a.lock.Lock()
	defer a.lock.Unlock()
	delete(a.settings, ev.Context)
}

func (a *SetBrightness) KeyDown(ctx context.Context, ev streamdeck.ActionEvent) {
	log := logger.GetProjectLogger().WithField("context", ev.Context)
	log.Debug("Set Brightness action key down")

	settings, err := ParseSettings(ev.Payload.Settings)
	if err != nil {
		log.Errorf("error reading settings. err='%v'", err)
		return
	}
	req, err := settings.Resolve(a.config)
	if err != nil {
		log.Warnf("using linear ramp. err='%v'", err)
	}

	for _, serial := range req.Lights {
		light, err := a.lights.GetLightBySerialNumber(serial)
		if err != nil {
			if litra.IsLightNotFound(err) {
				log.WithField("serial", serial).Error("Light not found")
			} else {
				log.WithField("serial", serial).Errorf("error looking up light. err='%v'", err)
			}
			continue
		}

		if req.Duration == 0 {
			a.setDirect(light, req)
			continue
		}

		a.wg.Add(1)
		go a.rampLight(ctx, light, req)
	}
}

func (a *SetBrightness) DidReceiveSettings(_ context.Context, ev streamdeck.ActionEvent) {
	log := logger.GetProjectLogger().WithField("context", ev.Context)

	settings, err := ParseSettings(ev.Payload.Settings)
	if err != nil {
		log.Errorf("error reading settings. err='%v'", err)
		return
	}

	prev := a.remember(ev.Context, settings)
	if serial, ok := SelectionChange(prev.SelectedLights, settings.SelectedLights); ok {
		a.flash(serial)
	}
	a.updateKey(ev.Context, settings)
}

func (a *SetBrightness) SendToPlugin(_ context.Context, ev streamdeck.SendToPluginEvent) {
	log := logger.GetProjectLogger().WithField("context", ev.Context)
	log.Debug("Set Brightness action received message from property inspector")

	var msg struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(ev.Payload, &msg); err != nil {
		log.Errorf("error reading property inspector message. err='%v'", err)
		return
	}
	if msg.Event != eventGetLights {
		log.WithField("event", msg.Event).Debug("Ignoring property inspector message")
		return
	}

	if err := a.lights.Refresh(); err != nil {
		log.Warnf("error refreshing lights. err='%v'", err)
	}
	if err := a.host.SendToPropertyInspector(ev.Action, ev.Context, lightsPayload(a.lights.Lights())); err != nil {
		log.Errorf("error sending lights to property inspector. err='%v'", err)
	}
}

type lightItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type lightsMessage struct {
	Event string      `json:"event"`
	Items []lightItem `json:"items"`
}

func lightsPayload(lights []litra.Light) lightsMessage {
	items := make([]lightItem, 0, len(lights))
	for _, l := range lights {
		items = append(items, lightItem{
			Label: l.Name() + " (" + l.SerialNumber() + ")",
			Value: l.SerialNumber(),
		})
	}
	return lightsMessage{Event: eventGetLights, Items: items}
}

// remember stores settings for a key and returns the ones stored before.
func (a *SetBrightness) remember(actionContext string, settings Settings) Settings {
	a.lock.Lock()
	defer a.lock.Unlock()

	prev := a.settings[actionContext]
	a.settings[actionContext] = settings
	return prev
}

func (a *SetBrightness) updateKey(actionContext string, settings Settings) {
	log := logger.GetProjectLogger().WithField("context", actionContext)

	req, _ := settings.Resolve(a.config)
	if err := a.host.SetTitle(actionContext, req.Title()); err != nil {
		log.Errorf("error setting title. err='%v'", err)
	}

	image := ""
	if req.ShowOnIcon {
		image = KeyImage(req.Percentage)
	}
	if err := a.host.SetImage(actionContext, image); err != nil {
		log.Errorf("error setting image. err='%v'", err)
	}
}

func (a *SetBrightness) setDirect(light litra.Light, req Request) {
	log := logger.GetProjectLogger().WithField("serial", light.SerialNumber())

	state := ramp.State{
		Min: light.MinimumBrightnessInLumen(),
		Max: light.MaximumBrightnessInLumen(),
	}
	current, err := light.BrightnessInLumen()
	if err != nil {
		log.Errorf("error reading brightness. err='%v'", err)
		return
	}

	if err := light.SetBrightnessPercentage(req.Percentage); err != nil {
		log.Errorf("error setting brightness. err='%v'", err)
		return
	}
	if err := a.ensureOn(light); err != nil {
		log.Errorf("error turning light on. err='%v'", err)
		return
	}

	after, err := light.BrightnessInLumen()
	if err != nil {
		log.Errorf("error reading brightness. err='%v'", err)
		return
	}
	log.Debugf("Set brightness of light %s from %d%% (%dlm) to %d%% (%dlm)",
		light.SerialNumber(), ramp.Percentage(state, current), current, ramp.Percentage(state, after), after)
}

func (a *SetBrightness) rampLight(ctx context.Context, light litra.Light, req Request) {
	defer a.wg.Done()

	log := logger.GetProjectLogger().WithFields(logrus.Fields{
		"serial":   light.SerialNumber(),
		"target":   req.Percentage,
		"duration": req.Duration,
	})

	on, err := light.IsOn()
	if err != nil {
		log.Errorf("error reading power state. err='%v'", err)
		return
	}
	// a light that is off starts the ramp from the bottom of its range
	if !on {
		if err := light.SetBrightnessPercentage(1); err != nil {
			log.Errorf("error setting brightness. err='%v'", err)
			return
		}
		if err := light.TurnOn(); err != nil {
			log.Errorf("error turning light on. err='%v'", err)
			return
		}
	}

	current, err := light.BrightnessInLumen()
	if err != nil {
		log.Errorf("error reading brightness. err='%v'", err)
		return
	}
	state := ramp.State{
		Current: current,
		Min:     light.MinimumBrightnessInLumen(),
		Max:     light.MaximumBrightnessInLumen(),
	}

	err = a.engine.Ramp(ctx, light, state, ramp.Request{
		TargetPercentage: req.Percentage,
		Duration:         req.Duration,
		Curve:            req.Curve,
	})
	if err != nil {
		log.Errorf("error ramping brightness. err='%v'", err)
	}
}

func (a *SetBrightness) ensureOn(light litra.Light) error {
	on, err := light.IsOn()
	if err != nil {
		return err
	}
	if on {
		return nil
	}
	return light.TurnOn()
}

func (a *SetBrightness) flash(serial string) {
	log := logger.GetProjectLogger().WithField("serial", serial)

	light, err := a.lights.GetLightBySerialNumber(serial)
	if err != nil {
		log.Debugf("not flashing light. err='%v'", err)
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := litra.Flash(a.clock, light, a.config.FlashCount, a.config.FlashInterval); err != nil {
			log.Errorf("error flashing light. err='%v'", err)
		}
	}()
}
