package litra

import (
	"time"

	"k8s.io/utils/clock"
)

// Switch is the part of a light needed to flash it.
type Switch interface {
	IsOn() (bool, error)
	TurnOn() error
	TurnOff() error
}

// Flash toggles the light off and on times times, waiting interval after every toggle, then
// restores the power state it started with.
func Flash(c clock.Clock, light Switch, times int, interval time.Duration) error {
	wasOn, err := light.IsOn()
	if err != nil {
		return err
	}

	for i := 0; i < times; i++ {
		if err := light.TurnOff(); err != nil {
			return err
		}
		c.Sleep(interval)
		if err := light.TurnOn(); err != nil {
			return err
		}
		c.Sleep(interval)
	}

	if !wasOn {
		return light.TurnOff()
	}
	return nil
}
