package streamdeck

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	appeared    []ActionEvent
	disappeared []ActionEvent
	keyDowns    []ActionEvent
	settings    []ActionEvent
	messages    []SendToPluginEvent
}

func (h *recordingHandler) WillAppear(_ context.Context, ev ActionEvent) {
	h.appeared = append(h.appeared, ev)
}

func (h *recordingHandler) WillDisappear(_ context.Context, ev ActionEvent) {
	h.disappeared = append(h.disappeared, ev)
}

func (h *recordingHandler) KeyDown(_ context.Context, ev ActionEvent) {
	h.keyDowns = append(h.keyDowns, ev)
}

func (h *recordingHandler) DidReceiveSettings(_ context.Context, ev ActionEvent) {
	h.settings = append(h.settings, ev)
}

func (h *recordingHandler) SendToPlugin(_ context.Context, ev SendToPluginEvent) {
	h.messages = append(h.messages, ev)
}

const testAction = "com.eladavron.litra-glow-commander.set-brightness"

func TestDispatchKeyDown(t *testing.T) {
	t.Parallel()

	h := &recordingHandler{}
	r := NewRouter()
	r.Handle(testAction, h)

	message := `{
		"action": "com.eladavron.litra-glow-commander.set-brightness",
		"event": "keyDown",
		"context": "ctx-1",
		"device": "dev-1",
		"payload": {
			"settings": {"selectedLights": ["GLOW-A"], "value": 70, "duration": 2},
			"coordinates": {"column": 3, "row": 1},
			"state": 0,
			"isInMultiAction": false
		}
	}`

	require.NoError(t, r.Dispatch(context.Background(), []byte(message)))
	require.Len(t, h.keyDowns, 1)

	ev := h.keyDowns[0]
	assert.Equal(t, "ctx-1", ev.Context)
	assert.Equal(t, "dev-1", ev.Device)
	require.NotNil(t, ev.Payload.Coordinates)
	assert.Equal(t, 3, ev.Payload.Coordinates.Column)
	assert.JSONEq(t, `{"selectedLights": ["GLOW-A"], "value": 70, "duration": 2}`, string(ev.Payload.Settings))
}

func TestDispatchRoutesEveryHandledEvent(t *testing.T) {
	t.Parallel()

	h := &recordingHandler{}
	r := NewRouter()
	r.Handle(testAction, h)

	for _, event := range []string{EventWillAppear, EventWillDisappear, EventDidReceiveSettings, "keyUp", "propertyInspectorDidAppear"} {
		message, err := json.Marshal(map[string]interface{}{
			"action":  testAction,
			"event":   event,
			"context": "ctx-1",
			"payload": map[string]interface{}{"settings": map[string]interface{}{}},
		})
		require.NoError(t, err)
		require.NoError(t, r.Dispatch(context.Background(), message))
	}
	require.NoError(t, r.Dispatch(context.Background(), []byte(`{"action":"`+testAction+`","event":"sendToPlugin","context":"ctx-1","payload":{"event":"getLights"}}`)))

	assert.Len(t, h.appeared, 1)
	assert.Len(t, h.disappeared, 1)
	assert.Len(t, h.settings, 1)
	assert.Empty(t, h.keyDowns)
	require.Len(t, h.messages, 1)
	assert.JSONEq(t, `{"event":"getLights"}`, string(h.messages[0].Payload))
}

func TestDispatchIgnoresUnknownActions(t *testing.T) {
	t.Parallel()

	h := &recordingHandler{}
	r := NewRouter()
	r.Handle(testAction, h)

	require.NoError(t, r.Dispatch(context.Background(), []byte(`{"action":"com.other.plugin","event":"keyDown","context":"x"}`)))
	require.NoError(t, r.Dispatch(context.Background(), []byte(`{"event":"deviceDidConnect","device":"dev-1"}`)))
	assert.Empty(t, h.keyDowns)
}

func TestDispatchRejectsMalformedMessages(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.Handle(testAction, &recordingHandler{})

	assert.Error(t, r.Dispatch(context.Background(), []byte(`not json`)))
	assert.Error(t, r.Dispatch(context.Background(), []byte(`{"action":"x"}`)))
	assert.Error(t, r.Dispatch(context.Background(), []byte(`{"action":"`+testAction+`","event":"keyDown","payload":{"state":"on"}}`)))
}
