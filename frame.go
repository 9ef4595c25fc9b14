package vpp

import "github.com/gogpu/vpp/vpcore"

// PixFormat identifies the storage class of a frame.
type PixFormat int

// Pixel formats accepted by the filter.
const (
	// PixNone is the zero value.
	PixNone PixFormat = iota

	// PixI420 is CPU-resident planar 4:2:0: a full-resolution luma plane
	// and two half-resolution chroma planes.
	PixI420

	// PixHardware is a frame backed by a hardware surface reference.
	PixHardware
)

// String returns the format name.
func (p PixFormat) String() string {
	switch p {
	case PixI420:
		return "i420"
	case PixHardware:
		return "hw"
	default:
		return "none"
	}
}

// StreamParams is the negotiated per-stream format: logical frame size,
// storage class, and color metadata. Derived once per input-format change.
type StreamParams struct {
	W, H      int
	PixFormat PixFormat

	// SubFormat is the hardware surface format carried by PixHardware
	// frames (and forced on output when super-resolution is active).
	SubFormat vpcore.SurfaceFormat

	ColorSystem vpcore.ColorSystem
	ColorLevels vpcore.ColorLevels
}

// Frame is a logical video frame moving through the pipeline. Exactly one
// of the storage classes is populated: hardware frames carry Surface and
// SubIndex, CPU frames carry Planes and Strides.
//
// A Frame is owned by whoever holds the reference; Release returns the
// backing storage (to the pool, or to the device) once the last reference
// is dropped. Frames are not safe for concurrent use.
type Frame struct {
	Params StreamParams

	// Crop is the visible rectangle within the decoded frame.
	Crop vpcore.Rect

	// PTS is the presentation timestamp in stream time base units.
	// Duration is the frame duration in the same units.
	PTS      int64
	Duration int64

	// SecondField marks the frame as the second field of an interlaced
	// pair, as reported by the upstream field-pairing queue.
	SecondField bool

	// Surface and SubIndex locate a hardware frame: the surface handle
	// and the array slice within it (decoder surfaces are often arrays).
	Surface  Surface
	SubIndex int

	// Planes and Strides describe a CPU frame: luma in Planes[0], chroma
	// in Planes[1] (Cb) and Planes[2] (Cr) at half resolution.
	Planes  [3][]byte
	Strides [3]int

	// refs is shared between all references to the same backing storage.
	refs *int

	// release returns the backing storage when refs reaches zero.
	release func()
}

// newFrame wraps backing storage in a single-reference frame.
func newFrame(release func()) *Frame {
	one := 1
	return &Frame{refs: &one, release: release}
}

// NewHardwareFrame creates a frame referencing a hardware surface slice.
// release, if non-nil, is invoked when the last reference is dropped.
func NewHardwareFrame(s Surface, subIndex, w, h int, release func()) *Frame {
	f := newFrame(release)
	f.Params = StreamParams{
		W: w, H: h,
		PixFormat: PixHardware,
		SubFormat: s.Desc().Format,
	}
	f.Crop = vpcore.RectFromSize(w, h)
	f.Surface = s
	f.SubIndex = subIndex
	return f
}

// NewI420Frame creates a CPU planar frame over caller-owned planes.
func NewI420Frame(w, h int, planes [3][]byte, strides [3]int) *Frame {
	f := newFrame(nil)
	f.Params = StreamParams{W: w, H: h, PixFormat: PixI420}
	f.Crop = vpcore.RectFromSize(w, h)
	f.Planes = planes
	f.Strides = strides
	return f
}

// NewRef returns a new reference to the same backing storage. Metadata is
// copied, so the new reference can rewrite its own size, crop, and tags
// without affecting the original.
func (f *Frame) NewRef() *Frame {
	if f == nil {
		return nil
	}
	nf := *f
	*f.refs++
	return &nf
}

// Release drops this reference. The backing storage is returned once the
// last reference is dropped. Release on a nil frame is a no-op.
func (f *Frame) Release() {
	if f == nil || f.refs == nil {
		return
	}
	*f.refs--
	if *f.refs == 0 && f.release != nil {
		f.release()
	}
	f.refs = nil
	f.Surface = nil
	f.Planes = [3][]byte{}
}

// SetSize rewrites the logical frame size and resets the crop rectangle
// to cover it.
func (f *Frame) SetSize(w, h int) {
	f.Params.W = w
	f.Params.H = h
	f.Crop = vpcore.RectFromSize(w, h)
}

// CopyMetadataFrom copies source metadata (color tags, timestamps, field
// flags, geometry) onto f.
//
// When keepGeometry is true the destination's size and crop rectangle are
// preserved; the copy then transfers only non-geometric metadata. Callers
// performing a resize use this instead of copying everything and patching
// the geometry back afterwards.
func (f *Frame) CopyMetadataFrom(src *Frame, keepGeometry bool) {
	w, h, crop := f.Params.W, f.Params.H, f.Crop

	f.Params.ColorSystem = src.Params.ColorSystem
	f.Params.ColorLevels = src.Params.ColorLevels
	f.PTS = src.PTS
	f.Duration = src.Duration
	f.SecondField = src.SecondField

	if keepGeometry {
		f.Params.W, f.Params.H, f.Crop = w, h, crop
	} else {
		f.Params.W, f.Params.H = src.Params.W, src.Params.H
		f.Crop = src.Crop
	}
}
