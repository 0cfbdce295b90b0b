package litra

import (
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/karalabe/hid"
)

// DeviceInfo describes a HID interface found during enumeration.
type DeviceInfo struct {
	Path      string
	ProductID uint16
	Serial    string
}

// Enumerator finds and opens HID devices.
type Enumerator interface {
	Enumerate(vendorID uint16) ([]DeviceInfo, error)
	Open(info DeviceInfo) (Transport, error)
}

// USBEnumerator talks to the host's HID stack through hidapi.
type USBEnumerator struct {
	found map[string]hid.DeviceInfo
}

// NewUSBEnumerator creates an enumerator backed by the system HID library.
func NewUSBEnumerator() *USBEnumerator {
	return &USBEnumerator{found: make(map[string]hid.DeviceInfo)}
}

func (e *USBEnumerator) Enumerate(vendorID uint16) ([]DeviceInfo, error) {
	if !hid.Supported() {
		return nil, errors.WithStackTrace(fmt.Errorf("HID is not supported on this platform"))
	}

	infos := hid.Enumerate(vendorID, 0)
	out := make([]DeviceInfo, 0, len(infos))
	for _, info := range infos {
		e.found[info.Path] = info
		out = append(out, DeviceInfo{
			Path:      info.Path,
			ProductID: info.ProductID,
			Serial:    info.Serial,
		})
	}
	return out, nil
}

func (e *USBEnumerator) Open(info DeviceInfo) (Transport, error) {
	found, ok := e.found[info.Path]
	if !ok {
		return nil, errors.WithStackTrace(fmt.Errorf("device %s was not enumerated", info.Path))
	}
	dev, err := found.Open()
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return dev, nil
}
