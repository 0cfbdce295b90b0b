package streamdeck

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/glow/config"
	"github.com/robmorgan/glow/logger"
)

const writeTimeout = 5 * time.Second

// Client is the plugin's websocket connection to the Stream Deck application.
type Client struct {
	url           string
	pluginUUID    string
	registerEvent string
	router        *Router

	// gorilla/websocket allows a single concurrent writer
	writeLock sync.Mutex
	conn      *websocket.Conn
}

// NewClient creates a client for the application listening on the configured port.
func NewClient(cfg config.PluginConfig, router *Router) *Client {
	return &Client{
		url:           fmt.Sprintf("ws://127.0.0.1:%d", cfg.Port),
		pluginUUID:    cfg.PluginUUID,
		registerEvent: cfg.RegisterEvent,
		router:        router,
	}
}

// Connect dials the application and registers the plugin.
func (c *Client) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return errors.WithStackTrace(fmt.Errorf("failed to connect to %s: %w", c.url, err))
	}

	c.writeLock.Lock()
	c.conn = conn
	c.writeLock.Unlock()

	return c.send(registration{Event: c.registerEvent, UUID: c.pluginUUID})
}

// Run reads events until the application closes the connection or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	logger := logger.GetProjectLogger()

	c.writeLock.Lock()
	conn := c.conn
	c.writeLock.Unlock()
	if conn == nil {
		return errors.WithStackTrace(fmt.Errorf("not connected"))
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.WithStackTrace(err)
		}

		if err := c.router.Dispatch(ctx, message); err != nil {
			logger.Warnf("error handling event. err='%v'", err)
		}
	}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
	err := c.conn.Close()
	c.conn = nil
	return err
}

// SetTitle changes the title shown on a key.
func (c *Client) SetTitle(actionContext, title string) error {
	return c.send(outbound{
		Event:   eventSetTitle,
		Context: actionContext,
		Payload: titlePayload{Title: title, Target: TargetBoth},
	})
}

// SetImage changes the image shown on a key. image is a data URI.
func (c *Client) SetImage(actionContext, image string) error {
	return c.send(outbound{
		Event:   eventSetImage,
		Context: actionContext,
		Payload: imagePayload{Image: image, Target: TargetBoth},
	})
}

// SendToPropertyInspector delivers payload to the property inspector of the given action instance.
func (c *Client) SendToPropertyInspector(action, actionContext string, payload interface{}) error {
	return c.send(outbound{
		Action:  action,
		Event:   eventSendToPropertyInspector,
		Context: actionContext,
		Payload: payload,
	})
}

// LogMessage writes message to the application's plugin log. It must not log through the
// project logger, which forwards here.
func (c *Client) LogMessage(message string) error {
	return c.send(outbound{
		Event:   eventLogMessage,
		Payload: logPayload{Message: message},
	})
}

func (c *Client) send(v interface{}) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	if c.conn == nil {
		return errors.WithStackTrace(fmt.Errorf("not connected"))
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return errors.WithStackTrace(err)
	}
	return errors.WithStackTrace(c.conn.WriteJSON(v))
}
