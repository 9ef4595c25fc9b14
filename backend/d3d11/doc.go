// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package d3d11 provides the Direct3D 11 backend for vpp.
//
// The backend drives ID3D11VideoDevice / ID3D11VideoContext /
// ID3D11VideoProcessor through raw COM vtable calls (syscall.SyscallN over
// golang.org/x/sys/windows types) without cgo.
//
// Hosts that already own a D3D11 device hierarchy (shared with a hardware
// decoder or a display renderer) wrap it without transferring ownership:
//
//	dev, err := d3d11.WrapDevice(unsafe.Pointer(id3d11Device))
//	f, err := vpp.New(queue, vpp.WithDevice(dev))
//
// Importing the package also registers a standalone factory under the name
// "d3d11" at priority 100, which creates its own hardware device with
// video support enabled.
//
// The package only builds on Windows.
package d3d11
