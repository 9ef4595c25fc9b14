package vpp

import (
	"testing"

	"github.com/gogpu/vpp/vpcore"
)

// fakePitchPad is added to the surface width so pitch != width paths are
// exercised by every fake surface.
const fakePitchPad = 32

// fakeSurface is a CPU-backed test surface.
type fakeSurface struct {
	desc     vpcore.SurfaceDesc
	pitch    int
	data     []byte
	released bool
}

func newFakeSurface(desc vpcore.SurfaceDesc) *fakeSurface {
	if desc.ArraySize <= 0 {
		desc.ArraySize = 1
	}
	pitch := desc.Width + fakePitchPad
	rows := desc.Height + desc.Height/2
	return &fakeSurface{
		desc:  desc,
		pitch: pitch,
		data:  make([]byte, pitch*rows*desc.ArraySize),
	}
}

func (s *fakeSurface) Desc() vpcore.SurfaceDesc { return s.desc }
func (s *fakeSurface) Release()                 { s.released = true }

// fakeDevice implements the full device hierarchy with per-entry-point
// error injection and call recording.
type fakeDevice struct {
	surfaces []*fakeSurface

	createErr   error
	ctxErr      error
	videoErr    error
	videoCtxErr error
	mapErr      error

	maps, unmaps int
	released     bool

	video *fakeVideoDevice
	vctx  *fakeVideoContext
}

func newFakeDevice() *fakeDevice {
	d := &fakeDevice{}
	d.video = &fakeVideoDevice{dev: d}
	d.vctx = &fakeVideoContext{dev: d}
	return d
}

func (d *fakeDevice) CreateSurface(desc vpcore.SurfaceDesc) (Surface, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	s := newFakeSurface(desc)
	d.surfaces = append(d.surfaces, s)
	return s, nil
}

func (d *fakeDevice) ImmediateContext() (DeviceContext, error) {
	if d.ctxErr != nil {
		return nil, d.ctxErr
	}
	return &fakeDeviceContext{dev: d}, nil
}

func (d *fakeDevice) VideoDevice() (VideoDevice, error) {
	if d.videoErr != nil {
		return nil, d.videoErr
	}
	return d.video, nil
}

func (d *fakeDevice) Release() { d.released = true }

// liveSurfaces counts surfaces created and not yet released.
func (d *fakeDevice) liveSurfaces() int {
	n := 0
	for _, s := range d.surfaces {
		if !s.released {
			n++
		}
	}
	return n
}

type fakeDeviceContext struct {
	dev      *fakeDevice
	released bool
}

func (c *fakeDeviceContext) Map(s Surface, subresource int) (Mapped, error) {
	if c.dev.mapErr != nil {
		return Mapped{}, c.dev.mapErr
	}
	surf := s.(*fakeSurface)
	c.dev.maps++
	return Mapped{Data: surf.data, RowPitch: surf.pitch}, nil
}

func (c *fakeDeviceContext) Unmap(s Surface, subresource int) { c.dev.unmaps++ }

func (c *fakeDeviceContext) VideoContext() (VideoContext, error) {
	if c.dev.videoCtxErr != nil {
		return nil, c.dev.videoCtxErr
	}
	return c.dev.vctx, nil
}

func (c *fakeDeviceContext) Release() { c.released = true }

// fakeVideoDevice records processor and view creation.
type fakeVideoDevice struct {
	dev *fakeDevice

	enumErr    error
	capsErr    error
	procErr    error
	inViewErr  error
	outViewErr error

	enums []*fakeEnum
	procs []*fakeProc
	released bool
}

func (v *fakeVideoDevice) CreateProcessorEnumerator(desc ContentDesc) (ProcessorEnumerator, error) {
	if v.enumErr != nil {
		return nil, v.enumErr
	}
	e := &fakeEnum{video: v, content: desc}
	v.enums = append(v.enums, e)
	return e, nil
}

func (v *fakeVideoDevice) CreateProcessor(enum ProcessorEnumerator, rateIndex int) (Processor, error) {
	if v.procErr != nil {
		return nil, v.procErr
	}
	p := &fakeProc{content: enum.(*fakeEnum).content}
	v.procs = append(v.procs, p)
	return p, nil
}

func (v *fakeVideoDevice) CreateInputView(s Surface, enum ProcessorEnumerator, arraySlice int) (InputView, error) {
	if v.inViewErr != nil {
		return nil, v.inViewErr
	}
	return &fakeInputView{surf: s.(*fakeSurface), slice: arraySlice}, nil
}

func (v *fakeVideoDevice) CreateOutputView(s Surface, enum ProcessorEnumerator) (OutputView, error) {
	if v.outViewErr != nil {
		return nil, v.outViewErr
	}
	return &fakeOutputView{surf: s.(*fakeSurface)}, nil
}

func (v *fakeVideoDevice) Release() { v.released = true }

type fakeEnum struct {
	video    *fakeVideoDevice
	content  ContentDesc
	released bool
}

func (e *fakeEnum) Caps() (vpcore.ProcessorCaps, error) {
	if e.video.capsErr != nil {
		return vpcore.ProcessorCaps{}, e.video.capsErr
	}
	return vpcore.ProcessorCaps{RateConversionCount: 1}, nil
}

func (e *fakeEnum) Release() { e.released = true }

type fakeProc struct {
	content  ContentDesc
	released bool
}

func (p *fakeProc) Release() { p.released = true }

type fakeInputView struct {
	surf     *fakeSurface
	slice    int
	released bool
}

func (v *fakeInputView) Release() { v.released = true }

type fakeOutputView struct {
	surf     *fakeSurface
	released bool
}

func (v *fakeOutputView) Release() { v.released = true }

// fakeExtCall records one vendor extension call.
type fakeExtCall struct {
	guid vpcore.GUID
	data []byte
}

// fakeVideoContext records all configuration state and extension calls.
type fakeVideoContext struct {
	dev *fakeDevice

	sourceRect        vpcore.Rect
	sourceRectEnabled bool
	autoProcessing    bool
	rate              vpcore.OutputRate
	streamColorSpace  vpcore.ColorSpace
	outputColorSpace  vpcore.ColorSpace
	frameFormat       vpcore.FrameFormat

	streamExts []fakeExtCall
	outputExts []fakeExtCall

	// streamExtErr and outputExtErr fail extension calls starting at the
	// given 1-based call number (0 fails every call) when set.
	streamExtErr    error
	streamExtFailAt int
	outputExtErr    error
	outputExtFailAt int

	bltErr    error
	blits     int
	lastField int
	lastViews []Stream
	lastOut   OutputView

	released bool
}

func (c *fakeVideoContext) SetStreamSourceRect(p Processor, stream int, enable bool, r vpcore.Rect) {
	c.sourceRectEnabled = enable
	c.sourceRect = r
}

func (c *fakeVideoContext) SetStreamAutoProcessingMode(p Processor, stream int, enable bool) {
	c.autoProcessing = enable
}

func (c *fakeVideoContext) SetStreamOutputRate(p Processor, stream int, rate vpcore.OutputRate, repeat bool) {
	c.rate = rate
}

func (c *fakeVideoContext) SetStreamColorSpace(p Processor, stream int, cs vpcore.ColorSpace) {
	c.streamColorSpace = cs
}

func (c *fakeVideoContext) SetOutputColorSpace(p Processor, cs vpcore.ColorSpace) {
	c.outputColorSpace = cs
}

func (c *fakeVideoContext) SetStreamFrameFormat(p Processor, stream int, f vpcore.FrameFormat) {
	c.frameFormat = f
}

func (c *fakeVideoContext) SetStreamExtension(p Processor, stream int, guid vpcore.GUID, data []byte) error {
	if c.streamExtErr != nil && len(c.streamExts)+1 >= c.streamExtFailAt {
		return c.streamExtErr
	}
	c.streamExts = append(c.streamExts, fakeExtCall{guid: guid, data: append([]byte(nil), data...)})
	return nil
}

func (c *fakeVideoContext) SetOutputExtension(p Processor, guid vpcore.GUID, data []byte) error {
	if c.outputExtErr != nil && len(c.outputExts)+1 >= c.outputExtFailAt {
		return c.outputExtErr
	}
	c.outputExts = append(c.outputExts, fakeExtCall{guid: guid, data: append([]byte(nil), data...)})
	return nil
}

func (c *fakeVideoContext) Blt(p Processor, out OutputView, outputFrame int, streams []Stream) error {
	if c.bltErr != nil {
		return c.bltErr
	}
	c.blits++
	c.lastField = outputFrame
	c.lastViews = streams
	c.lastOut = out
	return nil
}

func (c *fakeVideoContext) Release() { c.released = true }

// fakeQueue implements RefQueue over in-memory slices.
type fakeQueue struct {
	frames      []*Frame
	out         []*Frame
	reinit      *Frame
	canOutput   bool
	secondField bool
	flushes     int
}

func (q *fakeQueue) Get(index int) *Frame {
	if index < 0 || index >= len(q.frames) {
		return nil
	}
	return q.frames[index]
}

func (q *fakeQueue) Flush() {
	q.flushes++
	q.frames = nil
}

func (q *fakeQueue) CanOutput() bool { return q.canOutput }

func (q *fakeQueue) WriteOut(f *Frame) { q.out = append(q.out, f) }

func (q *fakeQueue) ExecuteReinit() *Frame {
	r := q.reinit
	q.reinit = nil
	return r
}

func (q *fakeQueue) IsSecondField() bool { return q.secondField }

// reinitFrame builds a format-change frame for the queue.
func reinitFrame(w, h int, pix PixFormat) *Frame {
	f := newFrame(nil)
	f.Params = StreamParams{
		W: w, H: h,
		PixFormat:   pix,
		ColorSystem: vpcore.ColorSystemBT709,
		ColorLevels: vpcore.LevelsLimited,
	}
	f.Crop = vpcore.RectFromSize(w, h)
	return f
}

// newTestFilter builds a filter over a fresh fake device.
func newTestFilter(t *testing.T, queue *fakeQueue, opts ...Option) (*Filter, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice()
	f, err := New(queue, append(opts, WithDevice(dev))...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return f, dev
}
