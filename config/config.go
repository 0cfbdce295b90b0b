package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/glow/profile"
)

// EnvLogLevel overrides the configured log level when set.
const EnvLogLevel = "LITRA_LOG_LEVEL"

// PluginConfig represents options that configure the global behavior of the plugin
type PluginConfig struct {
	// Registration parameters handed to the plugin by the Stream Deck application.
	Port          int
	PluginUUID    string
	RegisterEvent string
	Info          string

	// LogLevel is any level understood by logrus.
	LogLevel string

	// Action defaults used when the property inspector has not stored a value yet.
	DefaultBrightness int
	DefaultDuration   time.Duration

	// Lights flash this many times when they are added to or removed from a key.
	FlashCount    int
	FlashInterval time.Duration

	// VendorID is the USB vendor the light discovery looks for.
	VendorID uint16

	// DeviceProfiles maps a profile name to the Litra model it describes.
	DeviceProfiles map[string]profile.Profile
}

// NewPluginConfig creates a PluginConfig with reasonable defaults and applies the registration
// arguments the Stream Deck application launches the plugin with.
func NewPluginConfig(args []string) (PluginConfig, error) {
	cfg := PluginConfig{
		LogLevel:          "info",
		DefaultBrightness: 50,
		DefaultDuration:   0,
		FlashCount:        2,
		FlashInterval:     250 * time.Millisecond,
		VendorID:          profile.VendorLogitech,
		DeviceProfiles:    initializeDeviceProfiles(),
	}

	fs := flag.NewFlagSet("glow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&cfg.Port, "port", 0, "websocket port of the Stream Deck application")
	fs.StringVar(&cfg.PluginUUID, "pluginUUID", "", "unique identifier used to register the plugin")
	fs.StringVar(&cfg.RegisterEvent, "registerEvent", "", "event name to send when registering")
	fs.StringVar(&cfg.Info, "info", "", "JSON describing the Stream Deck application and devices")
	fs.StringVar(&cfg.LogLevel, "logLevel", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return PluginConfig{}, errors.WithStackTrace(err)
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return PluginConfig{}, err
	}

	return cfg, nil
}

// Validate checks the registration parameters are usable.
func (c PluginConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.WithStackTrace(fmt.Errorf("invalid port %d", c.Port))
	}
	if c.PluginUUID == "" {
		return errors.WithStackTrace(fmt.Errorf("missing -pluginUUID"))
	}
	if c.RegisterEvent == "" {
		return errors.WithStackTrace(fmt.Errorf("missing -registerEvent"))
	}
	return nil
}

// ProfileForProduct returns the device profile matching a USB product ID.
func (c PluginConfig) ProfileForProduct(productID uint16) (profile.Profile, bool) {
	for _, p := range c.DeviceProfiles {
		if p.ProductID == productID {
			return p, true
		}
	}
	return profile.Profile{}, false
}
