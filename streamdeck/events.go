package streamdeck

import (
	"encoding/json"
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
)

// Inbound event names the router dispatches. Every other event is logged and dropped.
const (
	EventWillAppear         = "willAppear"
	EventWillDisappear      = "willDisappear"
	EventKeyDown            = "keyDown"
	EventDidReceiveSettings = "didReceiveSettings"
	EventSendToPlugin       = "sendToPlugin"
)

// Outbound event names.
const (
	eventSetTitle                = "setTitle"
	eventSetImage                = "setImage"
	eventLogMessage              = "logMessage"
	eventSendToPropertyInspector = "sendToPropertyInspector"
)

// Target selects which of hardware and software the title or image is applied to.
type Target int

const (
	TargetBoth Target = iota
	TargetHardware
	TargetSoftware
)

// Envelope is the common shape of every message the Stream Deck application sends.
type Envelope struct {
	Action  string          `json:"action,omitempty"`
	Event   string          `json:"event"`
	Context string          `json:"context,omitempty"`
	Device  string          `json:"device,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Coordinates locate a key on the device.
type Coordinates struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// ActionPayload is carried by willAppear, willDisappear, keyDown, keyUp and didReceiveSettings.
type ActionPayload struct {
	Settings        json.RawMessage `json:"settings"`
	Coordinates     *Coordinates    `json:"coordinates,omitempty"`
	State           int             `json:"state"`
	IsInMultiAction bool            `json:"isInMultiAction"`
}

// ActionEvent is a lifecycle or key event for a single action instance.
type ActionEvent struct {
	Action  string
	Event   string
	Context string
	Device  string
	Payload ActionPayload
}

// SendToPluginEvent carries an arbitrary message from the property inspector.
type SendToPluginEvent struct {
	Action  string
	Context string
	Payload json.RawMessage
}

// DecodeEnvelope parses a raw message from the application.
func DecodeEnvelope(message []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		return Envelope{}, errors.WithStackTrace(fmt.Errorf("decoding event: %w", err))
	}
	if env.Event == "" {
		return Envelope{}, errors.WithStackTrace(fmt.Errorf("decoding event: missing event name"))
	}
	return env, nil
}

// ActionEvent decodes the envelope's payload as an ActionPayload.
func (e Envelope) ActionEvent() (ActionEvent, error) {
	ev := ActionEvent{
		Action:  e.Action,
		Event:   e.Event,
		Context: e.Context,
		Device:  e.Device,
	}
	if len(e.Payload) == 0 {
		return ev, nil
	}
	if err := json.Unmarshal(e.Payload, &ev.Payload); err != nil {
		return ActionEvent{}, errors.WithStackTrace(fmt.Errorf("decoding %s payload: %w", e.Event, err))
	}
	return ev, nil
}

// SendToPluginEvent wraps the envelope's payload without decoding it.
func (e Envelope) SendToPluginEvent() SendToPluginEvent {
	return SendToPluginEvent{
		Action:  e.Action,
		Context: e.Context,
		Payload: e.Payload,
	}
}

type registration struct {
	Event string `json:"event"`
	UUID  string `json:"uuid"`
}

type titlePayload struct {
	Title  string `json:"title"`
	Target Target `json:"target"`
}

type imagePayload struct {
	Image  string `json:"image"`
	Target Target `json:"target"`
}

type logPayload struct {
	Message string `json:"message"`
}

type outbound struct {
	Action  string      `json:"action,omitempty"`
	Event   string      `json:"event"`
	Context string      `json:"context,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}
