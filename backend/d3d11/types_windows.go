// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d11

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// DXGI formats used by the video processor path.
const (
	dxgiFormatB8G8R8A8Unorm = 87
	dxgiFormatNV12          = 103
	dxgiFormatP010          = 104
)

// D3D11_USAGE values.
const (
	d3d11UsageDefault = 0
	d3d11UsageDynamic = 2
)

// D3D11_BIND_FLAG values.
const (
	d3d11BindShaderResource = 0x8
	d3d11BindRenderTarget   = 0x20
	d3d11BindDecoder        = 0x200
)

// D3D11_CPU_ACCESS_FLAG values.
const d3d11CPUAccessWrite = 0x10000

// D3D11_MAP values.
const d3d11MapWriteDiscard = 4

// View dimension selectors.
const (
	d3d11VpivDimensionTexture2D = 1
	d3d11VpovDimensionTexture2D = 1
)

// Device creation.
const (
	d3dDriverTypeHardware         = 1
	d3d11CreateDeviceVideoSupport = 0x800
	d3d11SDKVersion               = 7
)

type dxgiRational struct {
	Numerator   uint32
	Denominator uint32
}

type dxgiSampleDesc struct {
	Count   uint32
	Quality uint32
}

type texture2DDesc struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32
	SampleDesc     dxgiSampleDesc
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type mappedSubresource struct {
	PData      unsafe.Pointer
	RowPitch   uint32
	DepthPitch uint32
}

type rect struct {
	Left, Top, Right, Bottom int32
}

type videoProcessorContentDesc struct {
	InputFrameFormat uint32
	InputFrameRate   dxgiRational
	InputWidth       uint32
	InputHeight      uint32
	OutputFrameRate  dxgiRational
	OutputWidth      uint32
	OutputHeight     uint32
	Usage            uint32
}

type videoProcessorCaps struct {
	DeviceCaps              uint32
	FeatureCaps             uint32
	FilterCaps              uint32
	InputFormatCaps         uint32
	AutoStreamCaps          uint32
	StereoCaps              uint32
	RateConversionCapsCount uint32
	MaxInputStreams         uint32
	MaxStreamStates         uint32
}

// videoProcessorColorSpace packs the D3D11_VIDEO_PROCESSOR_COLOR_SPACE
// bitfields: Usage:1, RGB_Range:1, YCbCr_Matrix:1, YCbCr_xvYCC:1,
// Nominal_Range:2.
type videoProcessorColorSpace uint32

func packColorSpace(ycbcrMatrix, nominalRange uint32) videoProcessorColorSpace {
	return videoProcessorColorSpace((ycbcrMatrix&1)<<2 | (nominalRange&3)<<4)
}

type videoProcessorInputViewDesc struct {
	FourCC        uint32
	ViewDimension uint32
	MipSlice      uint32
	ArraySlice    uint32
}

type videoProcessorOutputViewDesc struct {
	ViewDimension uint32
	// Union of Texture2D/Texture2DArray; three UINTs cover the largest
	// member.
	MipSlice        uint32
	FirstArraySlice uint32
	ArraySize       uint32
}

type videoProcessorStream struct {
	Enable                int32
	OutputIndex           uint32
	InputFrameOrField     uint32
	PastFrames            uint32
	FutureFrames          uint32
	PPPastSurfaces        unsafe.Pointer
	PInputSurface         unsafe.Pointer
	PPFutureSurfaces      unsafe.Pointer
	PPPastSurfacesRight   unsafe.Pointer
	PInputSurfaceRight    unsafe.Pointer
	PPFutureSurfacesRight unsafe.Pointer
}

// intelVpeExt is the pointer-bearing wire struct Intel VPE calls expect:
// a function selector and a pointer to the parameter value.
type intelVpeExt struct {
	Function uint32
	_        uint32 // alignment before the pointer on 64-bit
	Param    unsafe.Pointer
}

// Interface IDs queried at setup.
var (
	iidD3D11VideoDevice = windows.GUID{
		Data1: 0x10EC4D5B, Data2: 0x975A, Data3: 0x4689,
		Data4: [8]byte{0xB9, 0xE4, 0xD0, 0xAA, 0xC3, 0x0F, 0xE3, 0x33},
	}
	iidD3D11VideoContext = windows.GUID{
		Data1: 0x61F21C45, Data2: 0x3C0E, Data3: 0x4A74,
		Data4: [8]byte{0x9C, 0xEA, 0x67, 0x10, 0x0D, 0x9A, 0xD5, 0xE4},
	}
)
