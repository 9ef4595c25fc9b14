// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vpcore

// SurfaceFormat specifies the pixel layout of a hardware surface.
type SurfaceFormat uint32

// Surface formats.
const (
	// FormatUnknown is the zero value, representing no negotiated format.
	FormatUnknown SurfaceFormat = iota

	// FormatNV12 is 8-bit semi-planar 4:2:0: a full-resolution luma plane
	// followed by a half-resolution plane of interleaved Cb/Cr samples.
	FormatNV12

	// FormatP010 is 10-bit semi-planar 4:2:0 stored in 16-bit containers.
	FormatP010

	// FormatBGRA8 is 8-bit packed BGRA.
	FormatBGRA8
)

// String returns the format name.
func (f SurfaceFormat) String() string {
	switch f {
	case FormatNV12:
		return "nv12"
	case FormatP010:
		return "p010"
	case FormatBGRA8:
		return "bgra8"
	default:
		return "unknown"
	}
}

// SurfaceUsage is a bitmask specifying how a surface will be used.
type SurfaceUsage uint32

// Surface usage flags.
const (
	// UsageRenderTarget indicates the surface can be a blit destination.
	UsageRenderTarget SurfaceUsage = 1 << 0

	// UsageShaderResource indicates the surface can be sampled by shaders.
	UsageShaderResource SurfaceUsage = 1 << 1

	// UsageDecoder indicates the surface can be bound to a hardware decoder.
	UsageDecoder SurfaceUsage = 1 << 2

	// UsageCPUWrite indicates the surface can be mapped for CPU writes.
	UsageCPUWrite SurfaceUsage = 1 << 3
)

// SurfaceDesc describes a hardware surface.
type SurfaceDesc struct {
	// Width and Height are the surface dimensions in pixels. For padded
	// decoder surfaces these may exceed the logical frame size.
	Width  int
	Height int

	// Format is the surface pixel layout.
	Format SurfaceFormat

	// Usage specifies how the surface may be bound.
	Usage SurfaceUsage

	// ArraySize is the number of array slices (decoder surfaces are often
	// allocated as texture arrays; 1 for plain surfaces).
	ArraySize int
}

// Rect is a pixel rectangle. The right/bottom edges are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectFromSize returns a rectangle anchored at the origin.
func RectFromSize(w, h int) Rect {
	return Rect{Right: w, Bottom: h}
}

// Width returns the rectangle width.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the rectangle height.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// ColorSystem identifies the YCbCr matrix of the content.
type ColorSystem uint32

// Color systems.
const (
	// ColorSystemUnknown is the zero value.
	ColorSystemUnknown ColorSystem = iota

	// ColorSystemBT601 is ITU-R BT.601 (SD content).
	ColorSystemBT601

	// ColorSystemBT709 is ITU-R BT.709 (HD content).
	ColorSystemBT709

	// ColorSystemBT2020 is ITU-R BT.2020 (UHD content).
	ColorSystemBT2020
)

// ColorLevels identifies the sample value range of the content.
type ColorLevels uint32

// Color levels.
const (
	// LevelsUnknown is the zero value.
	LevelsUnknown ColorLevels = iota

	// LevelsLimited is studio range (16-235 luma).
	LevelsLimited

	// LevelsFull is full range (0-255).
	LevelsFull
)

// ColorSpace is the driver-facing color space descriptor attached to both
// the input stream and the output target of a video processor. The field
// encoding matches what video drivers consume: a boolean matrix selector
// (BT.601 or not) and a two-valued nominal range.
type ColorSpace struct {
	// YCbCrMatrix is 0 for BT.601, 1 for any other matrix.
	YCbCrMatrix uint32

	// NominalRange is 1 for limited range, 2 for full range.
	NominalRange uint32
}

// ColorSpaceFor derives the driver descriptor from content metadata.
func ColorSpaceFor(sys ColorSystem, levels ColorLevels) ColorSpace {
	cs := ColorSpace{NominalRange: 2}
	if sys != ColorSystemBT601 {
		cs.YCbCrMatrix = 1
	}
	if levels == LevelsLimited {
		cs.NominalRange = 1
	}
	return cs
}

// FrameFormat is the per-call frame structure flag on an input stream.
type FrameFormat uint32

// Frame formats.
const (
	// FrameProgressive marks the stream input as a full progressive frame.
	FrameProgressive FrameFormat = iota

	// FrameInterlacedTopFirst marks interlaced content, top field first.
	FrameInterlacedTopFirst

	// FrameInterlacedBottomFirst marks interlaced content, bottom field first.
	FrameInterlacedBottomFirst
)

// OutputRate selects the processor output cadence relative to the input.
type OutputRate uint32

// Output rates.
const (
	// RateNormal emits one output frame per input frame.
	RateNormal OutputRate = iota

	// RateHalf emits one output frame per two input frames.
	RateHalf

	// RateCustom emits at a caller-supplied custom rate.
	RateCustom
)

// GUID identifies a vendor extension interface. Stored in the canonical
// registry layout so backends can pass it to drivers verbatim.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// ProcessorCaps reports capabilities enumerated for a (input, output)
// dimension pair. Only the bits this module inspects are modeled.
type ProcessorCaps struct {
	// DeinterlaceCaps is a bitmask of supported deinterlace algorithms.
	DeinterlaceCaps uint32

	// RateConversionCount is the number of rate conversion capability
	// groups the enumerator exposes.
	RateConversionCount int
}

// Deinterlace capability bits.
const (
	DeinterlaceBlend              = 0x1
	DeinterlaceBob                = 0x2
	DeinterlaceAdaptive           = 0x4
	DeinterlaceMotionCompensation = 0x8
	InverseTelecine               = 0x10
	FrameRateConversion           = 0x20
)
