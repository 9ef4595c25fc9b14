// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d11

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/gogpu/vpp"
	"github.com/gogpu/vpp/vpcore"
)

// videoDevice implements vpp.VideoDevice over ID3D11VideoDevice*.
type videoDevice struct {
	raw unsafe.Pointer
}

func (v *videoDevice) vtbl() *d3d11VideoDeviceVtbl {
	return vtblOf[d3d11VideoDeviceVtbl](v.raw)
}

func (v *videoDevice) CreateProcessorEnumerator(desc vpp.ContentDesc) (vpp.ProcessorEnumerator, error) {
	cd := videoProcessorContentDesc{
		InputFrameFormat: uint32(desc.InputFrameFormat),
		InputWidth:       uint32(desc.InputWidth),
		InputHeight:      uint32(desc.InputHeight),
		OutputWidth:      uint32(desc.OutputWidth),
		OutputHeight:     uint32(desc.OutputHeight),
	}
	var raw unsafe.Pointer
	hr, _, _ := syscall.SyscallN(v.vtbl().CreateVideoProcessorEnumerator,
		uintptr(v.raw), uintptr(unsafe.Pointer(&cd)), uintptr(unsafe.Pointer(&raw)))
	if err := hresult(hr); err != nil {
		return nil, fmt.Errorf("d3d11: creating processor enumerator: %w", err)
	}
	return &enumerator{raw: raw}, nil
}

func (v *videoDevice) CreateProcessor(enum vpp.ProcessorEnumerator, rateIndex int) (vpp.Processor, error) {
	e := enum.(*enumerator)
	var raw unsafe.Pointer
	hr, _, _ := syscall.SyscallN(v.vtbl().CreateVideoProcessor, uintptr(v.raw),
		uintptr(e.raw), uintptr(rateIndex), uintptr(unsafe.Pointer(&raw)))
	if err := hresult(hr); err != nil {
		return nil, fmt.Errorf("d3d11: creating video processor: %w", err)
	}
	return &processor{raw: raw}, nil
}

func (v *videoDevice) CreateInputView(s vpp.Surface, enum vpp.ProcessorEnumerator, arraySlice int) (vpp.InputView, error) {
	surf := s.(*surface)
	e := enum.(*enumerator)
	desc := videoProcessorInputViewDesc{
		ViewDimension: d3d11VpivDimensionTexture2D,
		ArraySlice:    uint32(arraySlice),
	}
	var raw unsafe.Pointer
	hr, _, _ := syscall.SyscallN(v.vtbl().CreateVideoProcessorInputView,
		uintptr(v.raw), uintptr(surf.raw), uintptr(e.raw),
		uintptr(unsafe.Pointer(&desc)), uintptr(unsafe.Pointer(&raw)))
	if err := hresult(hr); err != nil {
		return nil, fmt.Errorf("d3d11: creating input view: %w", err)
	}
	return &view{raw: raw}, nil
}

func (v *videoDevice) CreateOutputView(s vpp.Surface, enum vpp.ProcessorEnumerator) (vpp.OutputView, error) {
	surf := s.(*surface)
	e := enum.(*enumerator)
	desc := videoProcessorOutputViewDesc{
		ViewDimension: d3d11VpovDimensionTexture2D,
	}
	var raw unsafe.Pointer
	hr, _, _ := syscall.SyscallN(v.vtbl().CreateVideoProcessorOutputView,
		uintptr(v.raw), uintptr(surf.raw), uintptr(e.raw),
		uintptr(unsafe.Pointer(&desc)), uintptr(unsafe.Pointer(&raw)))
	if err := hresult(hr); err != nil {
		return nil, fmt.Errorf("d3d11: creating output view: %w", err)
	}
	return &view{raw: raw}, nil
}

func (v *videoDevice) Release() {
	comRelease(v.raw)
	v.raw = nil
}

// enumerator implements vpp.ProcessorEnumerator.
type enumerator struct {
	raw unsafe.Pointer
}

func (e *enumerator) Caps() (vpcore.ProcessorCaps, error) {
	var caps videoProcessorCaps
	v := vtblOf[d3d11VideoProcessorEnumeratorVtbl](e.raw)
	hr, _, _ := syscall.SyscallN(v.GetVideoProcessorCaps, uintptr(e.raw),
		uintptr(unsafe.Pointer(&caps)))
	if err := hresult(hr); err != nil {
		return vpcore.ProcessorCaps{}, fmt.Errorf("d3d11: querying processor caps: %w", err)
	}
	return vpcore.ProcessorCaps{
		DeinterlaceCaps:     caps.DeviceCaps,
		RateConversionCount: int(caps.RateConversionCapsCount),
	}, nil
}

func (e *enumerator) Release() {
	comRelease(e.raw)
	e.raw = nil
}

// processor implements vpp.Processor.
type processor struct {
	raw unsafe.Pointer
}

func (p *processor) Release() {
	comRelease(p.raw)
	p.raw = nil
}

// view implements both vpp.InputView and vpp.OutputView.
type view struct {
	raw unsafe.Pointer
}

func (v *view) Release() {
	comRelease(v.raw)
	v.raw = nil
}

// videoContext implements vpp.VideoContext over ID3D11VideoContext*.
type videoContext struct {
	raw unsafe.Pointer
}

func (c *videoContext) vtbl() *d3d11VideoContextVtbl {
	return vtblOf[d3d11VideoContextVtbl](c.raw)
}

func boolArg(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}

func (c *videoContext) SetStreamSourceRect(p vpp.Processor, stream int, enable bool, r vpcore.Rect) {
	proc := p.(*processor)
	rc := rect{Left: int32(r.Left), Top: int32(r.Top), Right: int32(r.Right), Bottom: int32(r.Bottom)}
	syscall.SyscallN(c.vtbl().VideoProcessorSetStreamSourceRect, uintptr(c.raw),
		uintptr(proc.raw), uintptr(stream), boolArg(enable), uintptr(unsafe.Pointer(&rc)))
}

func (c *videoContext) SetStreamAutoProcessingMode(p vpp.Processor, stream int, enable bool) {
	proc := p.(*processor)
	syscall.SyscallN(c.vtbl().VideoProcessorSetStreamAutoProcessingMode,
		uintptr(c.raw), uintptr(proc.raw), uintptr(stream), boolArg(enable))
}

func (c *videoContext) SetStreamOutputRate(p vpp.Processor, stream int, rate vpcore.OutputRate, repeat bool) {
	proc := p.(*processor)
	syscall.SyscallN(c.vtbl().VideoProcessorSetStreamOutputRate, uintptr(c.raw),
		uintptr(proc.raw), uintptr(stream), uintptr(rate), boolArg(repeat), 0)
}

func (c *videoContext) SetStreamColorSpace(p vpp.Processor, stream int, cs vpcore.ColorSpace) {
	proc := p.(*processor)
	packed := packColorSpace(cs.YCbCrMatrix, cs.NominalRange)
	syscall.SyscallN(c.vtbl().VideoProcessorSetStreamColorSpace, uintptr(c.raw),
		uintptr(proc.raw), uintptr(stream), uintptr(unsafe.Pointer(&packed)))
}

func (c *videoContext) SetOutputColorSpace(p vpp.Processor, cs vpcore.ColorSpace) {
	proc := p.(*processor)
	packed := packColorSpace(cs.YCbCrMatrix, cs.NominalRange)
	syscall.SyscallN(c.vtbl().VideoProcessorSetOutputColorSpace, uintptr(c.raw),
		uintptr(proc.raw), uintptr(unsafe.Pointer(&packed)))
}

func (c *videoContext) SetStreamFrameFormat(p vpp.Processor, stream int, f vpcore.FrameFormat) {
	proc := p.(*processor)
	syscall.SyscallN(c.vtbl().VideoProcessorSetStreamFrameFormat, uintptr(c.raw),
		uintptr(proc.raw), uintptr(stream), uintptr(f))
}

func (c *videoContext) SetStreamExtension(p vpp.Processor, stream int, guid vpcore.GUID, data []byte) error {
	proc := p.(*processor)
	if isIntelVpe(guid, data) {
		param := binary.LittleEndian.Uint32(data[4:])
		ext := intelVpeExt{
			Function: binary.LittleEndian.Uint32(data[0:]),
			Param:    unsafe.Pointer(&param),
		}
		hr, _, _ := syscall.SyscallN(c.vtbl().VideoProcessorSetStreamExtension,
			uintptr(c.raw), uintptr(proc.raw), uintptr(stream),
			uintptr(unsafe.Pointer(&guid)), unsafe.Sizeof(ext),
			uintptr(unsafe.Pointer(&ext)))
		runtime.KeepAlive(&param)
		return hresult(hr)
	}
	hr, _, _ := syscall.SyscallN(c.vtbl().VideoProcessorSetStreamExtension,
		uintptr(c.raw), uintptr(proc.raw), uintptr(stream),
		uintptr(unsafe.Pointer(&guid)), uintptr(len(data)),
		uintptr(unsafe.Pointer(&data[0])))
	return hresult(hr)
}

func (c *videoContext) SetOutputExtension(p vpp.Processor, guid vpcore.GUID, data []byte) error {
	proc := p.(*processor)
	if isIntelVpe(guid, data) {
		param := binary.LittleEndian.Uint32(data[4:])
		ext := intelVpeExt{
			Function: binary.LittleEndian.Uint32(data[0:]),
			Param:    unsafe.Pointer(&param),
		}
		hr, _, _ := syscall.SyscallN(c.vtbl().VideoProcessorSetOutputExtension,
			uintptr(c.raw), uintptr(proc.raw),
			uintptr(unsafe.Pointer(&guid)), unsafe.Sizeof(ext),
			uintptr(unsafe.Pointer(&ext)))
		runtime.KeepAlive(&param)
		return hresult(hr)
	}
	hr, _, _ := syscall.SyscallN(c.vtbl().VideoProcessorSetOutputExtension,
		uintptr(c.raw), uintptr(proc.raw),
		uintptr(unsafe.Pointer(&guid)), uintptr(len(data)),
		uintptr(unsafe.Pointer(&data[0])))
	return hresult(hr)
}

// isIntelVpe reports whether an extension call carries Intel VPE's 8-byte
// neutral encoding. Intel's wire layout is pointer-bearing (function
// selector plus pointer to the parameter value), so the neutral encoding
// is rebuilt into the wire struct at the call site; every other vendor
// blob is passed through verbatim.
func isIntelVpe(guid vpcore.GUID, data []byte) bool {
	return guid.Data1 == 0xedd1d4b9 && len(data) == 8
}

func (c *videoContext) Blt(p vpp.Processor, out vpp.OutputView, outputFrame int, streams []vpp.Stream) error {
	proc := p.(*processor)
	ov := out.(*view)

	native := make([]videoProcessorStream, len(streams))
	for i, st := range streams {
		native[i].Enable = int32(boolArg(st.Enable))
		if st.Input != nil {
			native[i].PInputSurface = st.Input.(*view).raw
		}
	}

	hr, _, _ := syscall.SyscallN(c.vtbl().VideoProcessorBlt, uintptr(c.raw),
		uintptr(proc.raw), uintptr(ov.raw), uintptr(outputFrame),
		uintptr(len(native)), uintptr(unsafe.Pointer(&native[0])))
	return hresult(hr)
}

func (c *videoContext) Release() {
	comRelease(c.raw)
	c.raw = nil
}
