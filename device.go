package vpp

import "github.com/gogpu/vpp/vpcore"

// Device is the root hardware handle for a video-capable device. Instances
// are handed in by the host's hardware-decode subsystem ([WithDevice]) or
// created through a registered backend; vpp never opens devices itself.
//
// The host may share the same underlying device with other subsystems such
// as a display renderer. vpp assumes exclusive access for the duration of a
// call and never holds the device across a suspension point.
type Device interface {
	// CreateSurface allocates a surface on the device.
	CreateSurface(desc vpcore.SurfaceDesc) (Surface, error)

	// ImmediateContext returns the device's immediate context.
	ImmediateContext() (DeviceContext, error)

	// VideoDevice returns the video-capable device interface, or an error
	// if the device has no video processing capability.
	VideoDevice() (VideoDevice, error)

	// Release drops the reference to the device.
	Release()
}

// Surface is a hardware-resident 2D memory resource usable as a texture
// and/or blit target.
type Surface interface {
	// Desc returns the surface description. For padded decoder surfaces
	// the reported dimensions may exceed the logical frame size.
	Desc() vpcore.SurfaceDesc

	// Release drops the reference to the surface.
	Release()
}

// Mapped is a CPU-visible mapping of a surface. Data covers the full
// mapped allocation; rows are RowPitch bytes apart, which may exceed the
// surface width due to hardware alignment.
type Mapped struct {
	Data     []byte
	RowPitch int
}

// DeviceContext is the device's immediate context, used for CPU access to
// mappable surfaces.
type DeviceContext interface {
	// Map maps a CPU-writable surface for writing. The previous contents
	// are discarded.
	Map(s Surface, subresource int) (Mapped, error)

	// Unmap releases a mapping established by Map.
	Unmap(s Surface, subresource int)

	// VideoContext returns the video-capable context interface, or an
	// error if unavailable.
	VideoContext() (VideoContext, error)

	// Release drops the reference to the context.
	Release()
}

// ContentDesc describes the stream a video processor will operate on.
type ContentDesc struct {
	InputFrameFormat          vpcore.FrameFormat
	InputWidth, InputHeight   int
	OutputWidth, OutputHeight int
}

// VideoDevice creates video processors and their transient views.
type VideoDevice interface {
	// CreateProcessorEnumerator enumerates processing capabilities for
	// the given content description.
	CreateProcessorEnumerator(desc ContentDesc) (ProcessorEnumerator, error)

	// CreateProcessor creates a video processor from an enumeration.
	// rateIndex selects a rate conversion capability group; 0 is the
	// driver default.
	CreateProcessor(enum ProcessorEnumerator, rateIndex int) (Processor, error)

	// CreateInputView creates a transient view through which the
	// processor reads one slice of an input surface.
	CreateInputView(s Surface, enum ProcessorEnumerator, arraySlice int) (InputView, error)

	// CreateOutputView creates a transient view through which the
	// processor writes an output surface.
	CreateOutputView(s Surface, enum ProcessorEnumerator) (OutputView, error)

	// Release drops the reference to the video device.
	Release()
}

// ProcessorEnumerator exposes the capabilities enumerated for one content
// description. Its lifetime is tied to the processor created from it.
type ProcessorEnumerator interface {
	// Caps returns the enumerated processor capabilities.
	Caps() (vpcore.ProcessorCaps, error)

	// Release drops the reference to the enumerator.
	Release()
}

// Processor is a driver-managed object performing hardware-side resize,
// deinterlace, and color conversion between bound views.
type Processor interface {
	Release()
}

// InputView is a transient read binding over one input surface slice.
type InputView interface {
	Release()
}

// OutputView is a transient write binding over an output surface.
type OutputView interface {
	Release()
}

// Stream is one input stream binding for a blit. vpp always binds exactly
// one stream.
type Stream struct {
	Enable bool
	Input  InputView
}

// VideoContext issues video processing commands against a Processor.
//
// The stream state setters configure driver state that persists until the
// processor is destroyed; they do not fail (drivers clamp out-of-range
// values). Extension calls and Blt can fail and report errors.
type VideoContext interface {
	// SetStreamSourceRect restricts the area of the input stream the
	// processor samples from.
	SetStreamSourceRect(p Processor, stream int, enable bool, r vpcore.Rect)

	// SetStreamAutoProcessingMode toggles driver-internal enhancement
	// heuristics on the input stream.
	SetStreamAutoProcessingMode(p Processor, stream int, enable bool)

	// SetStreamOutputRate sets the output cadence of the input stream.
	// repeat controls whether the driver repeats frames when converting.
	SetStreamOutputRate(p Processor, stream int, rate vpcore.OutputRate, repeat bool)

	// SetStreamColorSpace sets the color space of the input stream.
	SetStreamColorSpace(p Processor, stream int, cs vpcore.ColorSpace)

	// SetOutputColorSpace sets the color space of the output target.
	SetOutputColorSpace(p Processor, cs vpcore.ColorSpace)

	// SetStreamFrameFormat sets the per-call frame structure flag on the
	// input stream.
	SetStreamFrameFormat(p Processor, stream int, f vpcore.FrameFormat)

	// SetStreamExtension passes an opaque vendor extension blob scoped to
	// the input stream.
	SetStreamExtension(p Processor, stream int, guid vpcore.GUID, data []byte) error

	// SetOutputExtension passes an opaque vendor extension blob scoped to
	// the output target.
	SetOutputExtension(p Processor, guid vpcore.GUID, data []byte) error

	// Blt performs the video processing operation: reads the enabled
	// streams, writes the output view. outputFrame selects the field
	// index (0 for first/top, 1 for second/bottom) of the operation.
	Blt(p Processor, out OutputView, outputFrame int, streams []Stream) error

	// Release drops the reference to the video context.
	Release()
}
