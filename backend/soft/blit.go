// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/vpp/vpcore"
)

// scaler is the resampling kernel used for the processing blit.
var scaler draw.Scaler = draw.CatmullRom

// blit performs the video processing operation in CPU memory: crop the
// input to the source sample rectangle, scale each NV12 plane to the
// output surface size, and reassemble the semi-planar layout.
func blit(src *Surface, slice int, dst *Surface, proc *Processor) error {
	srcData, err := src.Data(slice)
	if err != nil {
		return err
	}
	dstData, err := dst.Data(0)
	if err != nil {
		return err
	}

	srcW, srcH := src.desc.Width, src.desc.Height
	dstW, dstH := dst.desc.Width, dst.desc.Height

	sr := vpcore.RectFromSize(srcW, srcH)
	if proc.SourceRectEnabled {
		sr = clipRect(proc.SourceRect, srcW, srcH)
	}
	if sr.Empty() {
		return fmt.Errorf("soft: empty source rectangle %+v", sr)
	}

	// Luma plane views alias the surface memory directly; the row pitch
	// becomes the image stride.
	srcY := &image.Gray{Pix: srcData[:src.pitch*srcH], Stride: src.pitch,
		Rect: image.Rect(0, 0, srcW, srcH)}
	dstY := &image.Gray{Pix: dstData[:dst.pitch*dstH], Stride: dst.pitch,
		Rect: image.Rect(0, 0, dstW, dstH)}

	srcYRect := image.Rect(sr.Left, sr.Top, sr.Right, sr.Bottom)
	scalePlane(dstY, dstY.Rect, srcY, srcYRect)

	// Chroma is interleaved at half resolution; deinterleave, scale the
	// Cb and Cr planes separately, then reinterleave.
	cb, cr := deinterleave(srcData[src.pitch*srcH:], src.pitch, srcW/2, srcH/2)
	dstCb := image.NewGray(image.Rect(0, 0, dstW/2, dstH/2))
	dstCr := image.NewGray(image.Rect(0, 0, dstW/2, dstH/2))

	srcCRect := image.Rect(sr.Left/2, sr.Top/2, sr.Right/2, sr.Bottom/2)
	scalePlane(dstCb, dstCb.Rect, cb, srcCRect)
	scalePlane(dstCr, dstCr.Rect, cr, srcCRect)

	interleave(dstData[dst.pitch*dstH:], dst.pitch, dstCb, dstCr)
	return nil
}

// scalePlane scales one plane. Same-size regions are copied directly so
// the identity transform is byte-exact.
func scalePlane(dst *image.Gray, dr image.Rectangle, src *image.Gray, sr image.Rectangle) {
	if dr.Dx() == sr.Dx() && dr.Dy() == sr.Dy() {
		for y := 0; y < dr.Dy(); y++ {
			srow := src.Pix[(sr.Min.Y+y)*src.Stride+sr.Min.X:]
			drow := dst.Pix[(dr.Min.Y+y)*dst.Stride+dr.Min.X:]
			copy(drow[:dr.Dx()], srow[:sr.Dx()])
		}
		return
	}
	scaler.Scale(dst, dr, src, sr, draw.Src, nil)
}

// deinterleave splits an interleaved CbCr region into two planes.
func deinterleave(data []byte, pitch, w, h int) (cb, cr *image.Gray) {
	cb = image.NewGray(image.Rect(0, 0, w, h))
	cr = image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := data[y*pitch:]
		for x := 0; x < w; x++ {
			cb.Pix[y*cb.Stride+x] = row[2*x]
			cr.Pix[y*cr.Stride+x] = row[2*x+1]
		}
	}
	return cb, cr
}

// interleave packs two chroma planes into an interleaved CbCr region.
func interleave(data []byte, pitch int, cb, cr *image.Gray) {
	w, h := cb.Rect.Dx(), cb.Rect.Dy()
	for y := 0; y < h; y++ {
		row := data[y*pitch:]
		for x := 0; x < w; x++ {
			row[2*x] = cb.Pix[y*cb.Stride+x]
			row[2*x+1] = cr.Pix[y*cr.Stride+x]
		}
	}
}

// clipRect clamps a rectangle to surface bounds.
func clipRect(r vpcore.Rect, w, h int) vpcore.Rect {
	if r.Left < 0 {
		r.Left = 0
	}
	if r.Top < 0 {
		r.Top = 0
	}
	if r.Right > w {
		r.Right = w
	}
	if r.Bottom > h {
		r.Bottom = h
	}
	return r
}
