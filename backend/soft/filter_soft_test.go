// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft_test

import (
	"slices"
	"testing"

	"github.com/gogpu/vpp"
	"github.com/gogpu/vpp/backend/soft"
	"github.com/gogpu/vpp/vpcore"
)

// queue is a minimal in-memory RefQueue for driving the filter.
type queue struct {
	frames      []*vpp.Frame
	out         []*vpp.Frame
	reinit      *vpp.Frame
	canOutput   bool
	secondField bool
}

func (q *queue) Get(index int) *vpp.Frame {
	if index < 0 || index >= len(q.frames) {
		return nil
	}
	return q.frames[index]
}

func (q *queue) Flush()                { q.frames = nil }
func (q *queue) CanOutput() bool       { return q.canOutput }
func (q *queue) WriteOut(f *vpp.Frame) { q.out = append(q.out, f) }
func (q *queue) IsSecondField() bool   { return q.secondField }

func (q *queue) ExecuteReinit() *vpp.Frame {
	r := q.reinit
	q.reinit = nil
	return r
}

// solidI420 builds a solid-color CPU frame.
func solidI420(w, h int, y, cb, cr byte) *vpp.Frame {
	planes := [3][]byte{
		make([]byte, w*h),
		make([]byte, w/2*h/2),
		make([]byte, w/2*h/2),
	}
	for i := range planes[0] {
		planes[0][i] = y
	}
	for i := range planes[1] {
		planes[1][i] = cb
		planes[2][i] = cr
	}
	f := vpp.NewI420Frame(w, h, planes, [3]int{w, w / 2, w / 2})
	f.Params.ColorSystem = vpcore.ColorSystemBT709
	f.Params.ColorLevels = vpcore.LevelsLimited
	return f
}

func reinitFor(f *vpp.Frame) *vpp.Frame { return f.NewRef() }

func TestBackendRegistered(t *testing.T) {
	if !slices.Contains(vpp.Backends(), "soft") {
		t.Fatalf("Backends() = %v, missing soft", vpp.Backends())
	}
	if !slices.Contains(vpp.AvailableBackends(), "soft") {
		t.Fatalf("AvailableBackends() = %v, missing soft", vpp.AvailableBackends())
	}

	dev, err := vpp.NewDeviceByName("soft")
	if err != nil {
		t.Fatalf("NewDeviceByName(soft) = %v", err)
	}
	dev.Release()
}

func TestFilterEndToEnd(t *testing.T) {
	dev := soft.NewDevice()
	in := solidI420(640, 480, 120, 60, 190)

	q := &queue{
		canOutput: true,
		reinit:    reinitFor(in),
		frames:    []*vpp.Frame{in},
	}
	f, err := vpp.New(q, vpp.WithMode(vpp.ModeNvidia), vpp.WithDevice(dev))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer f.Close()

	if err := f.Process(); err != nil {
		t.Fatalf("Process() = %v", err)
	}
	if len(q.out) != 1 {
		t.Fatalf("wrote %d frames, want 1", len(q.out))
	}

	out := q.out[0]
	// 4:3 source into the default 1080p box: height-bound fit.
	if out.Params.W != 1440 || out.Params.H != 1080 {
		t.Errorf("output = %dx%d, want 1440x1080", out.Params.W, out.Params.H)
	}
	if out.Params.PixFormat != vpp.PixHardware || out.Params.SubFormat != vpcore.FormatNV12 {
		t.Errorf("output format = %v/%v, want hw/nv12", out.Params.PixFormat, out.Params.SubFormat)
	}

	// The blit ran on a processor configured for the negotiated stream.
	if len(dev.Processors) != 1 {
		t.Fatalf("created %d processors, want 1", len(dev.Processors))
	}
	proc := dev.Processors[0]
	if proc.Blits != 1 {
		t.Errorf("Blits = %d, want 1", proc.Blits)
	}
	if proc.SourceRect != vpcore.RectFromSize(640, 480) {
		t.Errorf("SourceRect = %+v, want 640x480", proc.SourceRect)
	}
	if proc.AutoProcessing {
		t.Error("driver auto-processing left enabled")
	}
	if proc.FrameFormat != vpcore.FrameProgressive {
		t.Errorf("FrameFormat = %v, want progressive", proc.FrameFormat)
	}
	wantCS := vpcore.ColorSpace{YCbCrMatrix: 1, NominalRange: 1}
	if proc.StreamColorSpace != wantCS || proc.OutputColorSpace != wantCS {
		t.Errorf("color spaces = %+v / %+v, want %+v", proc.StreamColorSpace, proc.OutputColorSpace, wantCS)
	}

	// NVIDIA super resolution was requested through the stream extension.
	if len(proc.StreamExtensions) != 1 {
		t.Fatalf("stream extensions = %d, want 1", len(proc.StreamExtensions))
	}
	wantGUID := vpcore.GUID{
		Data1: 0xd43ce1b3, Data2: 0x1f4b, Data3: 0x48ac,
		Data4: [8]byte{0xba, 0xee, 0xc3, 0xc2, 0x53, 0x75, 0xe6, 0xf7},
	}
	if proc.StreamExtensions[0].GUID != wantGUID {
		t.Errorf("extension GUID = %+v", proc.StreamExtensions[0].GUID)
	}
	wantBlob := []byte{1, 0, 0, 0, 2, 0, 0, 0, 1, 0, 0, 0}
	if got := proc.StreamExtensions[0].Data; !slices.Equal(got, wantBlob) {
		t.Errorf("extension blob = %v, want %v", got, wantBlob)
	}

	// The upscaled solid color survives the CPU processing path.
	surf := out.Surface.(*soft.Surface)
	data, err := surf.Data(0)
	if err != nil {
		t.Fatalf("Data(0) = %v", err)
	}
	near := func(got, want byte) bool {
		d := int(got) - int(want)
		return d >= -1 && d <= 1
	}
	if !near(data[0], 120) || !near(data[surf.Pitch()*540+720], 120) {
		t.Errorf("output luma = %d / %d, want ~120", data[0], data[surf.Pitch()*540+720])
	}
	chroma := data[surf.Pitch()*1080:]
	if !near(chroma[0], 60) || !near(chroma[1], 190) {
		t.Errorf("output chroma = %d/%d, want ~60/~190", chroma[0], chroma[1])
	}

	out.Release()
}

func TestFilterIntelExtensionSequence(t *testing.T) {
	dev := soft.NewDevice()
	in := solidI420(640, 480, 128, 128, 128)

	q := &queue{canOutput: true, reinit: reinitFor(in), frames: []*vpp.Frame{in}}
	f, err := vpp.New(q, vpp.WithMode(vpp.ModeIntel), vpp.WithDevice(dev))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer f.Close()

	if err := f.Process(); err != nil {
		t.Fatalf("Process() = %v", err)
	}

	proc := dev.Processors[0]
	// Version and mode land output-scoped, scaling stream-scoped.
	if len(proc.OutputExtensions) != 2 || len(proc.StreamExtensions) != 1 {
		t.Fatalf("extensions = %d output, %d stream; want 2/1",
			len(proc.OutputExtensions), len(proc.StreamExtensions))
	}
	wantFn := []byte{0x01, 0x20, 0x37}
	blobs := [][]byte{
		proc.OutputExtensions[0].Data,
		proc.OutputExtensions[1].Data,
		proc.StreamExtensions[0].Data,
	}
	for i, blob := range blobs {
		if len(blob) != 8 || blob[0] != wantFn[i] {
			t.Errorf("call %d blob = %v, want function 0x%02x", i, blob, wantFn[i])
		}
	}
	q.out[0].Release()
}

func TestFilterExtensionFailureDegrades(t *testing.T) {
	dev := soft.NewDevice()
	dev.Faults.StreamExtension = func(call int, guid vpcore.GUID) error {
		return soft.ErrNoStream // any error will do
	}

	in := solidI420(640, 480, 128, 128, 128)
	q := &queue{canOutput: true, reinit: reinitFor(in), frames: []*vpp.Frame{in}}
	f, err := vpp.New(q, vpp.WithMode(vpp.ModeNvidia), vpp.WithDevice(dev))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer f.Close()

	// The frame still renders when the vendor extension is rejected.
	if err := f.Process(); err != nil {
		t.Fatalf("Process() = %v", err)
	}
	if len(q.out) != 1 {
		t.Fatalf("wrote %d frames, want 1", len(q.out))
	}
	if dev.Processors[0].Blits != 1 {
		t.Error("blit skipped after extension rejection")
	}
	q.out[0].Release()
}

func TestFilterSurfaceLifecycle(t *testing.T) {
	dev := soft.NewDevice()
	in := solidI420(640, 480, 128, 128, 128)

	q := &queue{canOutput: true, reinit: reinitFor(in), frames: []*vpp.Frame{in}}
	f, err := vpp.New(q, vpp.WithMode(vpp.ModeNvidia), vpp.WithDevice(dev))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	for i := 0; i < 4; i++ {
		if err := f.Process(); err != nil {
			t.Fatalf("Process() #%d = %v", i, err)
		}
	}
	for _, out := range q.out {
		out.Release()
	}

	f.Close()
	if n := dev.LiveSurfaces(); n != 0 {
		t.Errorf("%d surfaces leaked after Close", n)
	}
}

func TestFilterRenegotiationRebuildsProcessor(t *testing.T) {
	dev := soft.NewDevice()
	small := solidI420(640, 480, 100, 128, 128)

	q := &queue{canOutput: true, reinit: reinitFor(small), frames: []*vpp.Frame{small}}
	f, err := vpp.New(q, vpp.WithMode(vpp.ModeNvidia), vpp.WithDevice(dev))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer f.Close()

	if err := f.Process(); err != nil {
		t.Fatalf("Process() = %v", err)
	}

	// Mid-stream format change: new size shows up via reinit.
	big := solidI420(1280, 720, 100, 128, 128)
	q.frames = []*vpp.Frame{big}
	q.reinit = reinitFor(big)

	if err := f.Process(); err != nil {
		t.Fatalf("Process() after reinit = %v", err)
	}

	if len(dev.Processors) != 2 {
		t.Fatalf("created %d processors, want 2 after renegotiation", len(dev.Processors))
	}
	if !dev.Processors[0].Released {
		t.Error("old processor not destroyed on renegotiation")
	}
	if c := dev.Processors[1].Content; c.InputWidth != 1280 || c.InputHeight != 720 {
		t.Errorf("new content input = %dx%d, want 1280x720", c.InputWidth, c.InputHeight)
	}

	// 16:9 source fills the 1080p box exactly.
	out := q.out[len(q.out)-1]
	if out.Params.W != 1920 || out.Params.H != 1080 {
		t.Errorf("output = %dx%d, want 1920x1080", out.Params.W, out.Params.H)
	}
	for _, o := range q.out {
		o.Release()
	}
}
