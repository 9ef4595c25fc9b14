package vpp

import (
	"fmt"

	"github.com/gogpu/vpp/vpcore"
)

// uploader normalizes heterogeneous input frames into hardware input
// surfaces. Hardware frames pass through with zero copy; CPU planar frames
// are converted into a packed semi-planar upload surface.
//
// The upload surface is cached and reused while the input size is stable;
// it is dropped on renegotiation and teardown.
type uploader struct {
	dev    Device
	devCtx DeviceContext

	surface Surface
	w, h    int
}

func newUploader(dev Device, devCtx DeviceContext) *uploader {
	return &uploader{dev: dev, devCtx: devCtx}
}

// resolve produces a hardware surface reference plus an array sub-index
// for the given frame. Failure aborts the current frame.
func (u *uploader) resolve(in *Frame) (Surface, int, error) {
	if in.Params.PixFormat == PixHardware {
		return in.Surface, in.SubIndex, nil
	}
	s, err := u.upload(in)
	return s, 0, err
}

// upload converts a CPU I420 frame into the cached NV12 upload surface.
func (u *uploader) upload(in *Frame) (Surface, error) {
	w, h := in.Params.W, in.Params.H
	if err := u.ensureSurface(w, h); err != nil {
		return nil, err
	}

	m, err := u.devCtx.Map(u.surface, 0)
	if err != nil {
		return nil, fmt.Errorf("vpp: mapping upload surface: %w", err)
	}

	// Luma rows, then the packed chroma region starting at row h of the
	// mapped allocation. Destination row pitch can exceed the row width;
	// padding bytes are skipped, not written.
	copyPlane(m.Data, m.RowPitch, in.Planes[0], in.Strides[0], w, h)
	chroma := m.Data[m.RowPitch*h:]
	interleaveChroma(chroma, m.RowPitch, in.Planes[1], in.Strides[1],
		in.Planes[2], in.Strides[2], w/2, h/2)

	u.devCtx.Unmap(u.surface, 0)
	return u.surface, nil
}

// ensureSurface keeps a CPU-writable NV12 surface matching the input size.
func (u *uploader) ensureSurface(w, h int) error {
	if u.surface != nil && u.w == w && u.h == h {
		return nil
	}
	u.drop()

	s, err := u.dev.CreateSurface(vpcore.SurfaceDesc{
		Width:     w,
		Height:    h,
		Format:    vpcore.FormatNV12,
		Usage:     vpcore.UsageDecoder | vpcore.UsageCPUWrite,
		ArraySize: 1,
	})
	if err != nil {
		return fmt.Errorf("vpp: creating upload surface: %w", err)
	}
	u.surface = s
	u.w, u.h = w, h
	return nil
}

// drop releases the cached upload surface.
func (u *uploader) drop() {
	if u.surface != nil {
		u.surface.Release()
		u.surface = nil
	}
	u.w, u.h = 0, 0
}

// copyPlane copies a w x h plane row by row. Source and destination row
// pitches may each exceed w; the bytes past w in every destination row are
// left untouched.
func copyPlane(dst []byte, dstPitch int, src []byte, srcPitch, w, h int) {
	for y := 0; y < h; y++ {
		copy(dst[y*dstPitch:y*dstPitch+w], src[y*srcPitch:y*srcPitch+w])
	}
}

// interleaveChroma packs two half-resolution chroma planes into the
// interleaved CbCr region of a semi-planar surface. w and h are the chroma
// plane dimensions; every destination row holds 2*w payload bytes followed
// by untouched padding up to dstPitch.
func interleaveChroma(dst []byte, dstPitch int, cb []byte, cbPitch int, cr []byte, crPitch, w, h int) {
	for y := 0; y < h; y++ {
		row := dst[y*dstPitch:]
		cbRow := cb[y*cbPitch:]
		crRow := cr[y*crPitch:]
		for x := 0; x < w; x++ {
			row[2*x] = cbRow[x]
			row[2*x+1] = crRow[x]
		}
	}
}
