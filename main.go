package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/robmorgan/glow/action"
	"github.com/robmorgan/glow/config"
	"github.com/robmorgan/glow/litra"
	"github.com/robmorgan/glow/logger"
	"github.com/robmorgan/glow/streamdeck"
	"k8s.io/utils/clock"
)

func main() {
	// The Stream Deck application passes the registration parameters as arguments.
	cfg, err := config.NewPluginConfig(os.Args[1:])
	if err != nil {
		logger.GetProjectLogger().Fatalf("error reading registration parameters. err='%v'", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, cfg); err != nil {
		logger.GetProjectLogger().Fatalf("plugin stopped. err='%v'", err)
	}
}

// Run connects to the Stream Deck application and serves events until ctx is cancelled or the
// application closes the connection.
func Run(ctx context.Context, cfg config.PluginConfig) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// initialize the logger
	log := logger.GetProjectLogger()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warnf("unknown log level %q, using %s", cfg.LogLevel, log.GetLevel())
	}

	// initialize the lights
	log.Info("Initializing light manager...")
	lights := litra.NewManager(cfg, litra.NewUSBEnumerator())
	if err := lights.Refresh(); err != nil {
		log.Errorf("error discovering lights. err='%v'", err)
	}
	defer lights.Close()
	log.Infof("Found %d lights", lights.Count())

	// connect to the host
	log.Info("Connecting to Stream Deck...")
	router := streamdeck.NewRouter()
	client := streamdeck.NewClient(cfg, router)
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()
	log.AddHook(logger.NewHostHook(client, log.GetLevel()))

	setBrightness := action.NewSetBrightness(cfg, client, lights, clock.RealClock{})
	router.Handle(action.SetBrightnessUUID, setBrightness)

	log.Info("Processing events forever...")
	err := client.Run(ctx)

	// ramps stop between steps once ctx is done
	cancel()
	setBrightness.Wait()
	log.Println("shutting down")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
