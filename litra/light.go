package litra

import (
	"fmt"
	"math"
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/glow/profile"
)

// Light is the set of operations the plugin performs on a single light.
type Light interface {
	SerialNumber() string
	Name() string

	IsOn() (bool, error)
	TurnOn() error
	TurnOff() error

	BrightnessInLumen() (int, error)
	MinimumBrightnessInLumen() int
	MaximumBrightnessInLumen() int
	SetBrightnessInLumen(lumen int) error
	SetBrightnessPercentage(percentage int) error
}

// Transport is an open HID handle.
type Transport interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// Device is a Litra light reachable over USB HID.
type Device struct {
	// serialises a write and its matching read
	mu sync.Mutex

	transport Transport
	serial    string
	profile   profile.Profile

	// set once an exchange with the light fails; the handle is not reused after that
	failed bool
}

// NewDevice wraps an open transport for a light of the given profile.
func NewDevice(serial string, p profile.Profile, t Transport) *Device {
	return &Device{
		transport: t,
		serial:    serial,
		profile:   p,
	}
}

func (d *Device) SerialNumber() string {
	return d.serial
}

// Name returns the model name, e.g. "Litra Glow".
func (d *Device) Name() string {
	return d.profile.Name
}

func (d *Device) MinimumBrightnessInLumen() int {
	return d.profile.MinBrightness
}

func (d *Device) MaximumBrightnessInLumen() int {
	return d.profile.MaxBrightness
}

func (d *Device) IsOn() (bool, error) {
	resp, err := d.query(getPowerReport(d.profile.Function))
	if err != nil {
		return false, err
	}
	return parsePower(resp), nil
}

func (d *Device) TurnOn() error {
	return d.send(powerReport(d.profile.Function, true))
}

func (d *Device) TurnOff() error {
	return d.send(powerReport(d.profile.Function, false))
}

func (d *Device) BrightnessInLumen() (int, error) {
	resp, err := d.query(getBrightnessReport(d.profile.Function))
	if err != nil {
		return 0, err
	}
	return parseBrightness(resp), nil
}

// SetBrightnessInLumen rejects values outside the range the model supports.
func (d *Device) SetBrightnessInLumen(lumen int) error {
	if lumen < d.profile.MinBrightness || lumen > d.profile.MaxBrightness {
		return errors.WithStackTrace(fmt.Errorf("%w: %d lm is outside %d-%d lm for %s",
			ErrBrightnessOutOfRange, lumen, d.profile.MinBrightness, d.profile.MaxBrightness, d.profile.Name))
	}
	return d.send(setBrightnessReport(d.profile.Function, lumen))
}

// SetBrightnessPercentage maps percentage linearly onto the model's lumen range.
func (d *Device) SetBrightnessPercentage(percentage int) error {
	return d.SetBrightnessInLumen(PercentageToLumen(d.profile.MinBrightness, d.profile.MaxBrightness, percentage))
}

// Close releases the HID handle.
func (d *Device) Close() error {
	return d.transport.Close()
}

// Healthy reports whether every exchange with the light so far has succeeded.
func (d *Device) Healthy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.failed
}

// PercentageToLumen clamps percentage to 0-100 and rounds to the nearest lumen.
func PercentageToLumen(min, max, percentage int) int {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	return int(math.Round(float64(min) + float64(percentage*(max-min))/100))
}

func (d *Device) send(b []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.transport.Write(b); err != nil {
		d.failed = true
		return errors.WithStackTrace(fmt.Errorf("writing to light %s: %w", d.serial, err))
	}
	return nil
}

func (d *Device) query(b []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.transport.Write(b); err != nil {
		d.failed = true
		return nil, errors.WithStackTrace(fmt.Errorf("writing to light %s: %w", d.serial, err))
	}
	resp := make([]byte, reportLength)
	n, err := d.transport.Read(resp)
	if err != nil {
		d.failed = true
		return nil, errors.WithStackTrace(fmt.Errorf("reading from light %s: %w", d.serial, err))
	}
	return resp[:n], nil
}
