// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"errors"
	"fmt"

	"github.com/gogpu/vpp"
	"github.com/gogpu/vpp/vpcore"
)

func init() {
	vpp.RegisterBackend("soft", 10, func() (vpp.Device, error) {
		return NewDevice(), nil
	}, nil)
}

// Package errors.
var (
	// ErrUnsupportedFormat is returned for surface formats the software
	// backend does not implement.
	ErrUnsupportedFormat = errors.New("soft: unsupported surface format")

	// ErrNotMappable is returned when mapping a surface created without
	// CPU write access.
	ErrNotMappable = errors.New("soft: surface is not CPU-writable")

	// ErrSurfaceReleased is returned when operating on a released surface.
	ErrSurfaceReleased = errors.New("soft: surface has been released")

	// ErrBadSlice is returned when a view addresses an array slice the
	// surface does not have.
	ErrBadSlice = errors.New("soft: array slice out of range")
)

// rowAlign is the row pitch alignment, chosen to mimic hardware texture
// pitch so pitch != width paths are exercised by default.
const rowAlign = 64

// Faults injects failures into device entry points. A nil hook means the
// call succeeds. Hooks returning a non-nil error make the corresponding
// call fail with that error.
type Faults struct {
	CreateSurface    func(desc vpcore.SurfaceDesc) error
	Map              func(s *Surface) error
	CreateEnumerator func(desc vpp.ContentDesc) error
	QueryCaps        func() error
	CreateProcessor  func() error
	CreateInputView  func() error
	CreateOutputView func() error
	StreamExtension  func(call int, guid vpcore.GUID) error
	OutputExtension  func(call int, guid vpcore.GUID) error
	Blt              func() error
}

// Device is a pure-Go implementation of the vpp device hierarchy.
//
// The zero Faults value injects no failures. Surfaces and Processors
// record enough state for callers to observe what a driver would have
// received.
type Device struct {
	// Faults injects failures; safe to modify between frames.
	Faults Faults

	// Processors lists every processor created on this device, newest
	// last. Released processors stay in the list for inspection.
	Processors []*Processor

	live     int
	released bool
}

// NewDevice creates a software device.
func NewDevice() *Device { return &Device{} }

// LiveSurfaces returns the number of surfaces created and not yet
// released. Tests use this to detect leaks.
func (d *Device) LiveSurfaces() int { return d.live }

// CreateSurface allocates a CPU-backed surface with aligned row pitch.
func (d *Device) CreateSurface(desc vpcore.SurfaceDesc) (vpp.Surface, error) {
	if hook := d.Faults.CreateSurface; hook != nil {
		if err := hook(desc); err != nil {
			return nil, err
		}
	}
	if desc.Format != vpcore.FormatNV12 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, desc.Format)
	}
	if desc.Width <= 0 || desc.Height <= 0 || desc.Width%2 != 0 || desc.Height%2 != 0 {
		return nil, fmt.Errorf("soft: invalid surface size %dx%d", desc.Width, desc.Height)
	}
	if desc.ArraySize <= 0 {
		desc.ArraySize = 1
	}

	pitch := alignUp(desc.Width, rowAlign)
	rows := desc.Height + desc.Height/2 // NV12: luma rows plus half-height chroma rows
	s := &Surface{
		dev:       d,
		desc:      desc,
		pitch:     pitch,
		sliceSize: pitch * rows,
		data:      make([]byte, pitch*rows*desc.ArraySize),
	}
	d.live++
	return s, nil
}

// ImmediateContext returns the device's context.
func (d *Device) ImmediateContext() (vpp.DeviceContext, error) {
	return &deviceContext{dev: d}, nil
}

// VideoDevice returns the video-capable device interface.
func (d *Device) VideoDevice() (vpp.VideoDevice, error) {
	return &videoDevice{dev: d}, nil
}

// Release marks the device released. CPU memory is reclaimed by the GC.
func (d *Device) Release() { d.released = true }

func alignUp(v, align int) int {
	return (v + align - 1) / align * align
}

// Surface is a CPU-backed NV12 surface. Rows are pitch bytes apart; the
// luma plane occupies the first Height rows of each array slice, followed
// by Height/2 rows of interleaved chroma.
type Surface struct {
	dev       *Device
	desc      vpcore.SurfaceDesc
	pitch     int
	sliceSize int
	data      []byte
	released  bool
}

// Desc returns the surface description.
func (s *Surface) Desc() vpcore.SurfaceDesc { return s.desc }

// Pitch returns the row pitch in bytes.
func (s *Surface) Pitch() int { return s.pitch }

// Data returns the backing bytes of one array slice.
func (s *Surface) Data(slice int) ([]byte, error) {
	if s.released {
		return nil, ErrSurfaceReleased
	}
	if slice < 0 || slice >= s.desc.ArraySize {
		return nil, ErrBadSlice
	}
	return s.data[slice*s.sliceSize : (slice+1)*s.sliceSize], nil
}

// Release drops the surface. Releasing twice is a no-op.
func (s *Surface) Release() {
	if !s.released {
		s.released = true
		s.dev.live--
	}
}

// deviceContext implements vpp.DeviceContext over CPU memory.
type deviceContext struct {
	dev *Device
}

func (c *deviceContext) Map(s vpp.Surface, subresource int) (vpp.Mapped, error) {
	surf := s.(*Surface)
	if hook := c.dev.Faults.Map; hook != nil {
		if err := hook(surf); err != nil {
			return vpp.Mapped{}, err
		}
	}
	if surf.desc.Usage&vpcore.UsageCPUWrite == 0 {
		return vpp.Mapped{}, ErrNotMappable
	}
	data, err := surf.Data(subresource)
	if err != nil {
		return vpp.Mapped{}, err
	}
	return vpp.Mapped{Data: data, RowPitch: surf.pitch}, nil
}

func (c *deviceContext) Unmap(s vpp.Surface, subresource int) {}

func (c *deviceContext) VideoContext() (vpp.VideoContext, error) {
	return &videoContext{dev: c.dev}, nil
}

func (c *deviceContext) Release() {}
