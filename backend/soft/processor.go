// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"errors"

	"github.com/gogpu/vpp"
	"github.com/gogpu/vpp/vpcore"
)

// Processor errors.
var (
	// ErrProcessorReleased is returned when blitting with a released
	// processor.
	ErrProcessorReleased = errors.New("soft: processor has been released")

	// ErrNoStream is returned when a blit has no enabled input stream.
	ErrNoStream = errors.New("soft: blit requires one enabled stream")
)

// ExtensionCall records one vendor extension call as a driver would
// receive it.
type ExtensionCall struct {
	GUID vpcore.GUID
	Data []byte
}

// videoDevice implements vpp.VideoDevice.
type videoDevice struct {
	dev *Device
}

func (v *videoDevice) CreateProcessorEnumerator(desc vpp.ContentDesc) (vpp.ProcessorEnumerator, error) {
	if hook := v.dev.Faults.CreateEnumerator; hook != nil {
		if err := hook(desc); err != nil {
			return nil, err
		}
	}
	return &enumerator{dev: v.dev, content: desc}, nil
}

func (v *videoDevice) CreateProcessor(enum vpp.ProcessorEnumerator, rateIndex int) (vpp.Processor, error) {
	if hook := v.dev.Faults.CreateProcessor; hook != nil {
		if err := hook(); err != nil {
			return nil, err
		}
	}
	e := enum.(*enumerator)
	p := &Processor{Content: e.content}
	v.dev.Processors = append(v.dev.Processors, p)
	return p, nil
}

func (v *videoDevice) CreateInputView(s vpp.Surface, enum vpp.ProcessorEnumerator, arraySlice int) (vpp.InputView, error) {
	if hook := v.dev.Faults.CreateInputView; hook != nil {
		if err := hook(); err != nil {
			return nil, err
		}
	}
	surf := s.(*Surface)
	if surf.released {
		return nil, ErrSurfaceReleased
	}
	if arraySlice < 0 || arraySlice >= surf.desc.ArraySize {
		return nil, ErrBadSlice
	}
	return &inputView{surf: surf, slice: arraySlice}, nil
}

func (v *videoDevice) CreateOutputView(s vpp.Surface, enum vpp.ProcessorEnumerator) (vpp.OutputView, error) {
	if hook := v.dev.Faults.CreateOutputView; hook != nil {
		if err := hook(); err != nil {
			return nil, err
		}
	}
	surf := s.(*Surface)
	if surf.released {
		return nil, ErrSurfaceReleased
	}
	return &outputView{surf: surf}, nil
}

func (v *videoDevice) Release() {}

// enumerator implements vpp.ProcessorEnumerator for a content description.
type enumerator struct {
	dev      *Device
	content  vpp.ContentDesc
	released bool
}

func (e *enumerator) Caps() (vpcore.ProcessorCaps, error) {
	if hook := e.dev.Faults.QueryCaps; hook != nil {
		if err := hook(); err != nil {
			return vpcore.ProcessorCaps{}, err
		}
	}
	return vpcore.ProcessorCaps{
		DeinterlaceCaps:     vpcore.DeinterlaceBlend | vpcore.DeinterlaceBob,
		RateConversionCount: 1,
	}, nil
}

func (e *enumerator) Release() { e.released = true }

// Processor is the software video processor. Stream state set through the
// video context is recorded on the processor; Blt consumes it.
type Processor struct {
	Content vpp.ContentDesc

	SourceRect        vpcore.Rect
	SourceRectEnabled bool
	AutoProcessing    bool
	Rate              vpcore.OutputRate
	StreamColorSpace  vpcore.ColorSpace
	OutputColorSpace  vpcore.ColorSpace
	FrameFormat       vpcore.FrameFormat

	// StreamExtensions and OutputExtensions record vendor extension
	// calls in arrival order.
	StreamExtensions []ExtensionCall
	OutputExtensions []ExtensionCall

	// Blits counts completed blit operations.
	Blits int

	Released bool
}

// Release marks the processor released; it stays inspectable.
func (p *Processor) Release() { p.Released = true }

type inputView struct {
	surf     *Surface
	slice    int
	released bool
}

func (v *inputView) Release() { v.released = true }

type outputView struct {
	surf     *Surface
	released bool
}

func (v *outputView) Release() { v.released = true }

// videoContext implements vpp.VideoContext against software processors.
type videoContext struct {
	dev *Device

	streamExtCalls int
	outputExtCalls int
}

func (c *videoContext) SetStreamSourceRect(p vpp.Processor, stream int, enable bool, r vpcore.Rect) {
	proc := p.(*Processor)
	proc.SourceRectEnabled = enable
	proc.SourceRect = r
}

func (c *videoContext) SetStreamAutoProcessingMode(p vpp.Processor, stream int, enable bool) {
	p.(*Processor).AutoProcessing = enable
}

func (c *videoContext) SetStreamOutputRate(p vpp.Processor, stream int, rate vpcore.OutputRate, repeat bool) {
	p.(*Processor).Rate = rate
}

func (c *videoContext) SetStreamColorSpace(p vpp.Processor, stream int, cs vpcore.ColorSpace) {
	p.(*Processor).StreamColorSpace = cs
}

func (c *videoContext) SetOutputColorSpace(p vpp.Processor, cs vpcore.ColorSpace) {
	p.(*Processor).OutputColorSpace = cs
}

func (c *videoContext) SetStreamFrameFormat(p vpp.Processor, stream int, f vpcore.FrameFormat) {
	p.(*Processor).FrameFormat = f
}

func (c *videoContext) SetStreamExtension(p vpp.Processor, stream int, guid vpcore.GUID, data []byte) error {
	c.streamExtCalls++
	if hook := c.dev.Faults.StreamExtension; hook != nil {
		if err := hook(c.streamExtCalls, guid); err != nil {
			return err
		}
	}
	proc := p.(*Processor)
	proc.StreamExtensions = append(proc.StreamExtensions, ExtensionCall{
		GUID: guid,
		Data: append([]byte(nil), data...),
	})
	return nil
}

func (c *videoContext) SetOutputExtension(p vpp.Processor, guid vpcore.GUID, data []byte) error {
	c.outputExtCalls++
	if hook := c.dev.Faults.OutputExtension; hook != nil {
		if err := hook(c.outputExtCalls, guid); err != nil {
			return err
		}
	}
	proc := p.(*Processor)
	proc.OutputExtensions = append(proc.OutputExtensions, ExtensionCall{
		GUID: guid,
		Data: append([]byte(nil), data...),
	})
	return nil
}

func (c *videoContext) Blt(p vpp.Processor, out vpp.OutputView, outputFrame int, streams []vpp.Stream) error {
	if hook := c.dev.Faults.Blt; hook != nil {
		if err := hook(); err != nil {
			return err
		}
	}
	proc := p.(*Processor)
	if proc.Released {
		return ErrProcessorReleased
	}

	var in *inputView
	for _, st := range streams {
		if st.Enable && st.Input != nil {
			in = st.Input.(*inputView)
			break
		}
	}
	if in == nil {
		return ErrNoStream
	}

	ov := out.(*outputView)
	if err := blit(in.surf, in.slice, ov.surf, proc); err != nil {
		return err
	}
	proc.Blits++
	return nil
}

func (c *videoContext) Release() {}
