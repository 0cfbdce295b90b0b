package litra

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/glow/config"
	"github.com/robmorgan/glow/logger"
	"github.com/sirupsen/logrus"
)

// Manager keeps track of the connected lights, keyed by serial number.
type Manager struct {
	config     config.PluginConfig
	enumerator Enumerator

	lock   sync.RWMutex
	lights map[string]*Device
	paths  map[string]string
}

// NewManager creates a manager that discovers lights through enumerator.
func NewManager(cfg config.PluginConfig, enumerator Enumerator) *Manager {
	return &Manager{
		config:     cfg,
		enumerator: enumerator,
		lights:     make(map[string]*Device),
		paths:      make(map[string]string),
	}
}

// Refresh enumerates the USB bus and brings the known lights in line with it. New lights are
// opened, lights that are gone are closed, and a light that moved to another path or failed an
// exchange is reopened.
func (m *Manager) Refresh() error {
	logger := logger.GetProjectLogger()

	infos, err := m.enumerator.Enumerate(m.config.VendorID)
	if err != nil {
		return errors.WithStackTrace(err)
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	seen := make(map[string]bool, len(infos))
	for _, info := range infos {
		if info.Serial == "" || seen[info.Serial] {
			continue
		}
		p, ok := m.config.ProfileForProduct(info.ProductID)
		if !ok {
			continue
		}
		seen[info.Serial] = true

		if d, ok := m.lights[info.Serial]; ok {
			if m.paths[info.Serial] == info.Path && d.Healthy() {
				continue
			}
			m.drop(info.Serial, "Light reconnected")
		}

		t, err := m.enumerator.Open(info)
		if err != nil {
			logger.WithFields(logrus.Fields{"serial": info.Serial, "path": info.Path}).Errorf("error opening light. err='%v'", err)
			continue
		}
		m.lights[info.Serial] = NewDevice(info.Serial, p, t)
		m.paths[info.Serial] = info.Path
		logger.WithFields(logrus.Fields{"serial": info.Serial, "model": p.Name}).Info("Light connected")
	}

	for serial := range m.lights {
		if !seen[serial] {
			m.drop(serial, "Light disconnected")
		}
	}

	return nil
}

// drop closes and forgets a light. The caller holds the write lock.
func (m *Manager) drop(serial, reason string) {
	log := logger.GetProjectLogger().WithFields(logrus.Fields{"serial": serial, "path": m.paths[serial]})
	if err := m.lights[serial].Close(); err != nil {
		log.Warnf("error closing light. err='%v'", err)
	}
	delete(m.lights, serial)
	delete(m.paths, serial)
	log.Info(reason)
}

// GetLightBySerialNumber looks up a light. A light that is not known yet, or whose last exchange
// failed, triggers one refresh first.
func (m *Manager) GetLightBySerialNumber(serial string) (Light, error) {
	if d := m.get(serial); d != nil && d.Healthy() {
		return d, nil
	}
	if err := m.Refresh(); err != nil {
		return nil, err
	}
	if d := m.get(serial); d != nil {
		return d, nil
	}
	return nil, errors.WithStackTrace(fmt.Errorf("%w: %s", ErrLightNotFound, serial))
}

func (m *Manager) get(serial string) *Device {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.lights[serial]
}

// Lights returns every known light ordered by serial number.
func (m *Manager) Lights() []Light {
	m.lock.RLock()
	defer m.lock.RUnlock()

	serials := make([]string, 0, len(m.lights))
	for k := range m.lights {
		serials = append(serials, k)
	}
	sort.Strings(serials)

	out := make([]Light, 0, len(serials))
	for _, s := range serials {
		out = append(out, m.lights[s])
	}
	return out
}

// Count returns the number of known lights.
func (m *Manager) Count() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.lights)
}

// Close releases every open light.
func (m *Manager) Close() {
	m.lock.Lock()
	defer m.lock.Unlock()

	for serial, d := range m.lights {
		if err := d.Close(); err != nil {
			logger.GetProjectLogger().WithField("serial", serial).Warnf("error closing light. err='%v'", err)
		}
		delete(m.lights, serial)
		delete(m.paths, serial)
	}
}
