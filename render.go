package vpp

import (
	"log/slog"

	"github.com/gogpu/vpp/vpcore"
)

// render transforms one frame: acquire an output surface, resolve the
// input surface, ensure the processor matches the actual input dimensions,
// bind transient views, apply the vendor extension, and blit.
//
// Returns nil when the frame must be dropped. Per-frame failures never
// unwind past this function; the filter continues with the next frame.
func (f *Filter) render() *Frame {
	out, err := f.pool.Acquire(f.params.OutFormat, f.params.OutW, f.params.OutH)
	if err != nil {
		Logger().Warn("vpp: failed to allocate output frame", slog.Any("err", err))
		return nil
	}

	in := f.queue.Get(0)
	if in == nil {
		// Queue has no ready frame; nothing to report.
		out.Release()
		return nil
	}

	src, subIndex, err := f.up.resolve(in)
	if err != nil {
		Logger().Error("vpp: input upload failed", slog.Any("err", err))
		out.Release()
		return nil
	}

	// The resize must survive the metadata copy: geometry is pinned while
	// color tags, timestamps, and flags come from the source.
	out.CopyMetadataFrom(in, true)
	out.Params.SubFormat = f.params.OutFormat

	// Decoders may hand over surfaces padded beyond the logical frame
	// size; the processor must be built for the actual surface.
	desc := src.Desc()
	if err := f.vp.ensure(desc.Width, desc.Height, f.params); err != nil {
		Logger().Error("vpp: video processor not ready", slog.Any("err", err))
		out.Release()
		return nil
	}

	f.videoCtx.SetStreamFrameFormat(f.vp.proc, 0, vpcore.FrameProgressive)

	inView, err := f.videoDev.CreateInputView(src, f.vp.enum, subIndex)
	if err != nil {
		Logger().Error("vpp: could not create processor input view", slog.Any("err", err))
		out.Release()
		return nil
	}
	defer inView.Release()

	outView, err := f.videoDev.CreateOutputView(out.Surface, f.vp.enum)
	if err != nil {
		Logger().Error("vpp: could not create processor output view", slog.Any("err", err))
		out.Release()
		return nil
	}
	defer outView.Release()

	field := 0
	if f.queue.IsSecondField() {
		field = 1
	}

	if f.ext != nil {
		if err := f.ext.Configure(f.videoCtx, f.vp.proc); err != nil {
			Logger().Warn("vpp: vendor extension not applied",
				slog.String("vendor", f.ext.ID()), slog.Any("err", err))
		}
	}

	streams := []Stream{{Enable: true, Input: inView}}
	if err := f.videoCtx.Blt(f.vp.proc, outView, field, streams); err != nil {
		Logger().Error("vpp: processor blit failed", slog.Any("err", err))
		out.Release()
		return nil
	}

	return out
}
