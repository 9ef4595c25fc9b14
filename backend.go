// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vpp

import (
	"fmt"
	"sort"
	"sync"
)

// DeviceFactory creates a new Device for a backend.
// Implementations should validate availability and return descriptive errors.
type DeviceFactory func() (Device, error)

// BackendEntry represents a registered device backend.
type BackendEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: native hardware backends (d3d11)
	//   - 10: pure software backends (soft)
	Priority int

	// Factory creates device instances.
	Factory DeviceFactory

	// Available reports if the backend is available on this system.
	Available func() bool
}

// globalBackends is the default registry.
var globalBackends = &backendRegistry{}

// backendRegistry manages registered device backends.
//
// The registry enables backends to register themselves on import without
// requiring changes to the core library:
//
//	func init() {
//	    vpp.RegisterBackend("d3d11", 100, newDevice, d3d11Available)
//	}
type backendRegistry struct {
	mu      sync.RWMutex
	entries map[string]*BackendEntry
}

// RegisterBackend adds a backend to the global registry.
//
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func RegisterBackend(name string, priority int, factory DeviceFactory, available func() bool) {
	globalBackends.register(name, priority, factory, available)
}

// Backends returns all registered backend names sorted by priority
// (highest first).
func Backends() []string {
	return globalBackends.list(false)
}

// AvailableBackends returns names of all available backends sorted by
// priority.
func AvailableBackends() []string {
	return globalBackends.list(true)
}

// NewDevice creates a device using the best available backend.
// Returns ErrNoBackendAvailable if no backend is available.
func NewDevice() (Device, error) {
	return globalBackends.newDevice()
}

// NewDeviceByName creates a device using a specific named backend.
func NewDeviceByName(name string) (Device, error) {
	return globalBackends.newDeviceByName(name)
}

func (r *backendRegistry) register(name string, priority int, factory DeviceFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*BackendEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &BackendEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

func (r *backendRegistry) list(onlyAvailable bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*BackendEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

func (r *backendRegistry) newDevice() (Device, error) {
	available := r.list(true)
	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range available {
		dev, err := r.newDeviceByName(name)
		if err == nil {
			return dev, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("vpp: all backends failed: %w", lastErr)
}

func (r *backendRegistry) newDeviceByName(name string) (Device, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("vpp: backend %q not registered", name)
	}
	if !entry.Available() {
		return nil, fmt.Errorf("vpp: backend %q not available", name)
	}
	return entry.Factory()
}
