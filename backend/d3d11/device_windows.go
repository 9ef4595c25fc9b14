// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d11

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gogpu/vpp"
	"github.com/gogpu/vpp/vpcore"
)

func init() {
	vpp.RegisterBackend("d3d11", 100, func() (vpp.Device, error) {
		return CreateDevice()
	}, available)
}

// Package errors.
var (
	// ErrUnsupportedFormat is returned for formats with no DXGI mapping.
	ErrUnsupportedFormat = errors.New("d3d11: unsupported surface format")

	// ErrNilDevice is returned when wrapping a nil device pointer.
	ErrNilDevice = errors.New("d3d11: nil device pointer")
)

var modD3D11 = windows.NewLazySystemDLL("d3d11.dll")
var procD3D11CreateDevice = modD3D11.NewProc("D3D11CreateDevice")

func available() bool {
	return modD3D11.Load() == nil
}

// CreateDevice creates a standalone hardware device with video support.
// Hosts sharing a device with a decoder should use WrapDevice instead.
func CreateDevice() (vpp.Device, error) {
	var raw unsafe.Pointer
	hr, _, _ := procD3D11CreateDevice.Call(
		0, // default adapter
		d3dDriverTypeHardware,
		0,
		d3d11CreateDeviceVideoSupport,
		0, 0, // default feature levels
		d3d11SDKVersion,
		uintptr(unsafe.Pointer(&raw)),
		0, // feature level out
		0, // immediate context out
	)
	if err := hresult(hr); err != nil {
		return nil, fmt.Errorf("d3d11: creating device: %w", err)
	}
	return &device{raw: raw}, nil
}

// WrapDevice wraps a host-owned ID3D11Device*. A reference is taken; the
// host keeps its own.
func WrapDevice(ptr unsafe.Pointer) (vpp.Device, error) {
	if ptr == nil {
		return nil, ErrNilDevice
	}
	comAddRef(ptr)
	return &device{raw: ptr}, nil
}

// device implements vpp.Device over an ID3D11Device*.
type device struct {
	raw unsafe.Pointer
}

func (d *device) vtbl() *d3d11DeviceVtbl { return vtblOf[d3d11DeviceVtbl](d.raw) }

func (d *device) CreateSurface(desc vpcore.SurfaceDesc) (vpp.Surface, error) {
	format, err := dxgiFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	arraySize := desc.ArraySize
	if arraySize <= 0 {
		arraySize = 1
	}

	td := texture2DDesc{
		Width:      uint32(desc.Width),
		Height:     uint32(desc.Height),
		MipLevels:  1,
		ArraySize:  uint32(arraySize),
		Format:     format,
		SampleDesc: dxgiSampleDesc{Count: 1},
		Usage:      d3d11UsageDefault,
	}
	if desc.Usage&vpcore.UsageRenderTarget != 0 {
		td.BindFlags |= d3d11BindRenderTarget
	}
	if desc.Usage&vpcore.UsageShaderResource != 0 {
		td.BindFlags |= d3d11BindShaderResource
	}
	if desc.Usage&vpcore.UsageDecoder != 0 {
		td.BindFlags |= d3d11BindDecoder
	}
	if desc.Usage&vpcore.UsageCPUWrite != 0 {
		td.Usage = d3d11UsageDynamic
		td.CPUAccessFlags = d3d11CPUAccessWrite
	}

	var tex unsafe.Pointer
	hr, _, _ := syscall.SyscallN(d.vtbl().CreateTexture2D, uintptr(d.raw),
		uintptr(unsafe.Pointer(&td)), 0, uintptr(unsafe.Pointer(&tex)))
	if err := hresult(hr); err != nil {
		return nil, fmt.Errorf("d3d11: creating texture: %w", err)
	}
	return &surface{raw: tex, desc: desc}, nil
}

func (d *device) ImmediateContext() (vpp.DeviceContext, error) {
	var ctx unsafe.Pointer
	syscall.SyscallN(d.vtbl().GetImmediateContext, uintptr(d.raw),
		uintptr(unsafe.Pointer(&ctx)))
	if ctx == nil {
		return nil, errors.New("d3d11: no immediate context")
	}
	return &deviceContext{raw: ctx}, nil
}

func (d *device) VideoDevice() (vpp.VideoDevice, error) {
	raw, err := comQueryInterface(d.raw, &iidD3D11VideoDevice)
	if err != nil {
		return nil, fmt.Errorf("d3d11: querying ID3D11VideoDevice: %w", err)
	}
	return &videoDevice{raw: raw}, nil
}

func (d *device) Release() {
	comRelease(d.raw)
	d.raw = nil
}

// texture2DVtbl is ID3D11Texture2D.
type texture2DVtbl struct {
	deviceChildVtbl
	GetType             uintptr
	SetEvictionPriority uintptr
	GetEvictionPriority uintptr
	GetDesc             uintptr
}

// surface implements vpp.Surface over an ID3D11Texture2D*.
type surface struct {
	raw  unsafe.Pointer
	desc vpcore.SurfaceDesc
}

// WrapSurface wraps a host-owned ID3D11Texture2D* (typically a decoder
// frame). The description is read back from the texture, so padded decoder
// dimensions are reported faithfully. A reference is taken.
func WrapSurface(ptr unsafe.Pointer) (vpp.Surface, error) {
	if ptr == nil {
		return nil, ErrNilDevice
	}
	var td texture2DDesc
	v := vtblOf[texture2DVtbl](ptr)
	syscall.SyscallN(v.GetDesc, uintptr(ptr), uintptr(unsafe.Pointer(&td)))

	desc := vpcore.SurfaceDesc{
		Width:     int(td.Width),
		Height:    int(td.Height),
		ArraySize: int(td.ArraySize),
	}
	switch td.Format {
	case dxgiFormatNV12:
		desc.Format = vpcore.FormatNV12
	case dxgiFormatP010:
		desc.Format = vpcore.FormatP010
	case dxgiFormatB8G8R8A8Unorm:
		desc.Format = vpcore.FormatBGRA8
	}
	comAddRef(ptr)
	return &surface{raw: ptr, desc: desc}, nil
}

func (s *surface) Desc() vpcore.SurfaceDesc { return s.desc }

func (s *surface) Release() {
	comRelease(s.raw)
	s.raw = nil
}

// deviceContext implements vpp.DeviceContext over ID3D11DeviceContext*.
type deviceContext struct {
	raw unsafe.Pointer
}

func (c *deviceContext) vtbl() *d3d11DeviceContextVtbl {
	return vtblOf[d3d11DeviceContextVtbl](c.raw)
}

func (c *deviceContext) Map(s vpp.Surface, subresource int) (vpp.Mapped, error) {
	surf := s.(*surface)
	var m mappedSubresource
	hr, _, _ := syscall.SyscallN(c.vtbl().Map, uintptr(c.raw),
		uintptr(surf.raw), uintptr(subresource), d3d11MapWriteDiscard, 0,
		uintptr(unsafe.Pointer(&m)))
	if err := hresult(hr); err != nil {
		return vpp.Mapped{}, fmt.Errorf("d3d11: mapping texture: %w", err)
	}

	rows := surf.desc.Height
	if surf.desc.Format == vpcore.FormatNV12 || surf.desc.Format == vpcore.FormatP010 {
		rows += surf.desc.Height / 2
	}
	data := unsafe.Slice((*byte)(m.PData), int(m.RowPitch)*rows)
	return vpp.Mapped{Data: data, RowPitch: int(m.RowPitch)}, nil
}

func (c *deviceContext) Unmap(s vpp.Surface, subresource int) {
	surf := s.(*surface)
	syscall.SyscallN(c.vtbl().Unmap, uintptr(c.raw), uintptr(surf.raw),
		uintptr(subresource))
}

func (c *deviceContext) VideoContext() (vpp.VideoContext, error) {
	raw, err := comQueryInterface(c.raw, &iidD3D11VideoContext)
	if err != nil {
		return nil, fmt.Errorf("d3d11: querying ID3D11VideoContext: %w", err)
	}
	return &videoContext{raw: raw}, nil
}

func (c *deviceContext) Release() {
	comRelease(c.raw)
	c.raw = nil
}

func dxgiFormat(f vpcore.SurfaceFormat) (uint32, error) {
	switch f {
	case vpcore.FormatNV12:
		return dxgiFormatNV12, nil
	case vpcore.FormatP010:
		return dxgiFormatP010, nil
	case vpcore.FormatBGRA8:
		return dxgiFormatB8G8R8A8Unorm, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}
