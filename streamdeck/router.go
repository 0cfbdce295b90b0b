package streamdeck

import (
	"context"
	"sync"

	"github.com/robmorgan/glow/logger"
	"github.com/sirupsen/logrus"
)

// ActionHandler receives the events for one action UUID.
type ActionHandler interface {
	WillAppear(ctx context.Context, ev ActionEvent)
	KeyDown(ctx context.Context, ev ActionEvent)
	DidReceiveSettings(ctx context.Context, ev ActionEvent)
	SendToPlugin(ctx context.Context, ev SendToPluginEvent)
}

// DisappearHandler is an optional interface for handlers that track visible instances.
type DisappearHandler interface {
	WillDisappear(ctx context.Context, ev ActionEvent)
}

// Router dispatches decoded events to the handler registered for their action.
type Router struct {
	lock     sync.RWMutex
	handlers map[string]ActionHandler
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]ActionHandler)}
}

// Handle registers h for actionUUID, replacing any earlier handler.
func (r *Router) Handle(actionUUID string, h ActionHandler) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.handlers[actionUUID] = h
}

// Dispatch decodes message and calls the matching handler. Events for unknown actions and event
// types the plugin does not act on are logged and dropped.
func (r *Router) Dispatch(ctx context.Context, message []byte) error {
	logger := logger.GetProjectLogger()

	env, err := DecodeEnvelope(message)
	if err != nil {
		return err
	}
	log := logger.WithFields(logrus.Fields{"event": env.Event, "action": env.Action, "context": env.Context})

	r.lock.RLock()
	h, ok := r.handlers[env.Action]
	r.lock.RUnlock()
	if !ok {
		log.Debug("Ignoring event")
		return nil
	}

	switch env.Event {
	case EventWillAppear, EventWillDisappear, EventKeyDown, EventDidReceiveSettings:
		ev, err := env.ActionEvent()
		if err != nil {
			return err
		}
		log.Debug("Dispatching event")
		switch env.Event {
		case EventWillAppear:
			h.WillAppear(ctx, ev)
		case EventWillDisappear:
			if dh, ok := h.(DisappearHandler); ok {
				dh.WillDisappear(ctx, ev)
			}
		case EventKeyDown:
			h.KeyDown(ctx, ev)
		case EventDidReceiveSettings:
			h.DidReceiveSettings(ctx, ev)
		}
	case EventSendToPlugin:
		log.Debug("Dispatching event")
		h.SendToPlugin(ctx, env.SendToPluginEvent())
	default:
		log.Debug("Ignoring event")
	}

	return nil
}
