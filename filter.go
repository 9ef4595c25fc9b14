package vpp

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/vpp/vpcore"
)

// RefQueue is the upstream reference/field-pairing queue. It delivers
// input frames, tracks interlace field order, and receives output frames.
// vpp consumes it as a black box; the host's filter graph owns it.
type RefQueue interface {
	// Get returns the frame at the given index relative to the current
	// position, or nil if none is ready. Index 0 is the current frame.
	Get(index int) *Frame

	// Flush discards all queued frames.
	Flush()

	// CanOutput reports whether a frame is ready to be processed.
	CanOutput() bool

	// WriteOut delivers a processed frame downstream.
	WriteOut(f *Frame)

	// ExecuteReinit returns a frame carrying a newly negotiated input
	// format, or nil if the format is unchanged.
	ExecuteReinit() *Frame

	// IsSecondField reports whether the current frame is the second
	// field of an interlaced pair.
	IsSecondField() bool
}

// Filter is the externally visible control surface of the post-processing
// stage: format negotiation, output-size policy, pass-through mode, and
// error reporting.
//
// Filter is single-threaded: Process transforms at most one frame per
// call and never overlaps hardware operations.
type Filter struct {
	opts  filterOptions
	queue RefQueue

	dev      Device
	devCtx   DeviceContext
	videoDev VideoDevice
	videoCtx VideoContext

	vp   *videoProcessor
	pool *SurfacePool
	up   *uploader
	ext  Extension

	// in is the negotiated input stream format; params are the transform
	// parameters derived from it. Both are recomputed on reinit.
	in     StreamParams
	params ProcessingParams

	negotiated bool
	failed     bool
}

// New creates a filter reading from and writing to the given queue.
//
// Device acquisition failures (no backend, missing video capability) are
// fatal configuration errors and are returned here; the host should treat
// them as pipeline-level failures.
func New(queue RefQueue, opts ...Option) (*Filter, error) {
	o := defaultFilterOptions()
	for _, opt := range opts {
		opt(&o)
	}

	dev := o.device
	if dev == nil {
		var err error
		if o.backend != "" {
			dev, err = NewDeviceByName(o.backend)
		} else {
			dev, err = NewDevice()
		}
		if err != nil {
			return nil, err
		}
	}

	f := &Filter{opts: o, queue: queue, dev: dev}

	// Interface acquisition in order: immediate context, video device,
	// video context. Any failure here means the device cannot do video
	// processing at all.
	var err error
	if f.devCtx, err = dev.ImmediateContext(); err != nil {
		f.releaseDevice()
		return nil, fmt.Errorf("%w: %v", ErrNoVideoCapability, err)
	}
	if f.videoDev, err = dev.VideoDevice(); err != nil {
		f.releaseDevice()
		return nil, fmt.Errorf("%w: %v", ErrNoVideoCapability, err)
	}
	if f.videoCtx, err = f.devCtx.VideoContext(); err != nil {
		f.releaseDevice()
		return nil, fmt.Errorf("%w: %v", ErrNoVideoCapability, err)
	}

	f.vp = newVideoProcessor(f.videoDev, f.videoCtx)
	f.pool = NewSurfacePool(f.allocOutput, o.poolIdle)
	f.up = newUploader(f.dev, f.devCtx)
	f.ext = extensionFor(o.mode)
	return f, nil
}

// allocOutput is the pool allocator: output surfaces are bound as both
// blit targets and shader resources so a display renderer can sample them
// directly.
func (f *Filter) allocOutput(format vpcore.SurfaceFormat, w, h int) (Surface, error) {
	return f.dev.CreateSurface(vpcore.SurfaceDesc{
		Width:     w,
		Height:    h,
		Format:    format,
		Usage:     vpcore.UsageRenderTarget | vpcore.UsageShaderResource,
		ArraySize: 1,
	})
}

// AcceptedFormats returns the input storage classes the filter accepts,
// for the host's format negotiation.
func (f *Filter) AcceptedFormats() []PixFormat {
	return []PixFormat{PixI420, PixHardware}
}

// OutputParams returns the currently negotiated output stream format.
// Valid after the first Process call that observed a format.
func (f *Filter) OutputParams() StreamParams {
	out := f.in
	out.W, out.H = f.params.OutW, f.params.OutH
	if f.opts.mode != ModeOff {
		out.PixFormat = PixHardware
		out.SubFormat = f.params.OutFormat
	}
	return out
}

// Failed reports whether the filter hit a fatal configuration error and
// stopped processing.
func (f *Filter) Failed() bool { return f.failed }

// Process runs one processing pass: handle a pending format change, then
// ingest, transform, and emit at most one frame.
//
// Per-frame hardware failures drop the frame and return nil; the pipeline
// continues with the next frame. A non-nil error is fatal for the stream
// and marks the filter failed.
func (f *Filter) Process() error {
	if f.failed {
		return ErrFilterFailed
	}

	if reinit := f.queue.ExecuteReinit(); reinit != nil {
		f.renegotiate(reinit)
	}

	if !f.queue.CanOutput() {
		return nil
	}
	if !f.negotiated {
		return nil
	}

	// The hardware transform path cannot address odd-sized chroma.
	if f.in.W%2 != 0 || f.in.H%2 != 0 {
		Logger().Error("vpp: cannot process video with odd width or height",
			slog.Int("w", f.in.W), slog.Int("h", f.in.H))
		f.failed = true
		return fmt.Errorf("%w: %dx%d", ErrOddDimensions, f.in.W, f.in.H)
	}

	if f.opts.mode == ModeOff {
		in := f.queue.Get(0)
		if in == nil {
			f.failed = true
			return fmt.Errorf("%w: pass-through input", ErrNoFrame)
		}
		f.queue.WriteOut(in.NewRef())
		return nil
	}

	if out := f.render(); out != nil {
		f.queue.WriteOut(out)
	}
	return nil
}

// renegotiate adopts a new input format: committed hardware state tied to
// the old format is discarded and the output size policy is re-applied.
func (f *Filter) renegotiate(reinit *Frame) {
	f.pool.Clear()
	f.vp.destroy()
	f.up.drop()

	f.in = reinit.Params
	f.params = ProcessingParams{
		InW: f.in.W, InH: f.in.H,
		OutW: f.in.W, OutH: f.in.H,
		OutFormat:   f.in.SubFormat,
		ColorSystem: f.in.ColorSystem,
		ColorLevels: f.in.ColorLevels,
	}

	if f.opts.mode != ModeOff {
		boxW, boxH := scaleTarget(f.opts.scale, f.in.W, f.in.H)
		f.params.OutW, f.params.OutH = renderSize(f.in.W, f.in.H, boxW, boxH)
		f.params.OutFormat = vpcore.FormatNV12
	}
	f.negotiated = true

	Logger().Info("vpp: input format renegotiated",
		slog.Int("in_w", f.in.W), slog.Int("in_h", f.in.H),
		slog.Int("out_w", f.params.OutW), slog.Int("out_h", f.params.OutH),
		slog.String("mode", f.opts.mode.String()))
}

// Reset flushes all queued frames. Committed hardware state is kept; the
// next frame continues with the current negotiated format.
func (f *Filter) Reset() {
	f.queue.Flush()
}

// Close destroys the processor and releases all device references in
// strict reverse-acquisition order. The filter must not be used after
// Close.
func (f *Filter) Close() {
	f.vp.destroy()
	f.queue.Flush()
	f.pool.Close()
	f.up.drop()
	f.releaseDevice()
}

// releaseDevice releases whatever part of the device hierarchy was
// acquired, newest first.
func (f *Filter) releaseDevice() {
	if f.videoCtx != nil {
		f.videoCtx.Release()
		f.videoCtx = nil
	}
	if f.videoDev != nil {
		f.videoDev.Release()
		f.videoDev = nil
	}
	if f.devCtx != nil {
		f.devCtx.Release()
		f.devCtx = nil
	}
	if f.dev != nil {
		f.dev.Release()
		f.dev = nil
	}
}
