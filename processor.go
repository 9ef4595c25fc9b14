package vpp

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/vpp/vpcore"
)

// processorState is the lifecycle state of the hardware video processor.
// Validity is explicit state, never inferred from a nil handle.
type processorState uint8

const (
	// stateUninitialized means no processor exists; the next frame will
	// trigger creation.
	stateUninitialized processorState = iota

	// stateReady means a processor exists, built for builtW x builtH
	// input surfaces.
	stateReady
)

// ProcessingParams are the negotiated transform parameters the processor
// is configured from. Recomputed on every input-format change.
type ProcessingParams struct {
	// InW and InH are the uncropped decoded frame dimensions. The source
	// sample rectangle is clipped to these; cropping offsets do not apply
	// at this stage.
	InW, InH int

	// OutW and OutH are the negotiated output dimensions.
	OutW, OutH int

	// OutFormat is the negotiated output surface format.
	OutFormat vpcore.SurfaceFormat

	ColorSystem vpcore.ColorSystem
	ColorLevels vpcore.ColorLevels
}

// videoProcessor owns the hardware video processing handle and its
// capability enumerator. Exactly one is live per filter instance; rebuilds
// are atomic destroy-then-create.
type videoProcessor struct {
	videoDev VideoDevice
	videoCtx VideoContext

	state processorState
	enum  ProcessorEnumerator
	proc  Processor

	// builtW and builtH are the actual input surface dimensions the
	// current processor was created for. These can diverge from the
	// negotiated frame size because decoders pad surfaces.
	builtW, builtH int
}

func newVideoProcessor(videoDev VideoDevice, videoCtx VideoContext) *videoProcessor {
	return &videoProcessor{videoDev: videoDev, videoCtx: videoCtx}
}

// ready reports whether a processor exists for exactly the given input
// surface dimensions.
func (vp *videoProcessor) ready(inW, inH int) bool {
	return vp.state == stateReady && vp.builtW == inW && vp.builtH == inH
}

// ensure makes the processor ready for the given actual input surface
// dimensions, rebuilding if the dimensions differ from what the current
// processor was built for. On failure the state is Uninitialized and the
// current frame must not be rendered.
func (vp *videoProcessor) ensure(inW, inH int, params ProcessingParams) error {
	if vp.ready(inW, inH) {
		return nil
	}
	if vp.state == stateReady {
		Logger().Info("vpp: input surface size changed, rebuilding processor",
			slog.Int("old_w", vp.builtW), slog.Int("old_h", vp.builtH),
			slog.Int("new_w", inW), slog.Int("new_h", inH))
	}
	return vp.rebuild(inW, inH, params)
}

// rebuild destroys any current processor and creates one for the given
// input dimensions, then applies the static stream configuration.
func (vp *videoProcessor) rebuild(inW, inH int, params ProcessingParams) error {
	vp.destroy()

	enum, err := vp.videoDev.CreateProcessorEnumerator(ContentDesc{
		InputFrameFormat: vpcore.FrameProgressive,
		InputWidth:       inW,
		InputHeight:      inH,
		OutputWidth:      params.OutW,
		OutputHeight:     params.OutH,
	})
	if err != nil {
		return fmt.Errorf("%w: enumerating capabilities: %v", ErrProcessorUnavailable, err)
	}

	if _, err := enum.Caps(); err != nil {
		enum.Release()
		return fmt.Errorf("%w: querying capabilities: %v", ErrProcessorUnavailable, err)
	}

	proc, err := vp.videoDev.CreateProcessor(enum, 0)
	if err != nil {
		enum.Release()
		return fmt.Errorf("%w: creating processor: %v", ErrProcessorUnavailable, err)
	}

	vp.enum = enum
	vp.proc = proc
	vp.builtW, vp.builtH = inW, inH
	vp.state = stateReady
	vp.configure(params)
	return nil
}

// configure applies the static per-processor stream state. Decoders cannot
// crop left/top with hardware frames, so the source rectangle is only the
// uncropped decoded size.
func (vp *videoProcessor) configure(params ProcessingParams) {
	vc := vp.videoCtx

	vc.SetStreamSourceRect(vp.proc, 0, true, vpcore.RectFromSize(params.InW, params.InH))

	// Driver auto-processing heuristics degrade quality unpredictably.
	vc.SetStreamAutoProcessingMode(vp.proc, 0, false)

	vc.SetStreamOutputRate(vp.proc, 0, vpcore.RateNormal, false)

	cs := vpcore.ColorSpaceFor(params.ColorSystem, params.ColorLevels)
	vc.SetStreamColorSpace(vp.proc, 0, cs)
	vc.SetOutputColorSpace(vp.proc, cs)
}

// destroy releases the processor and its enumerator, in that order, and
// returns the state machine to Uninitialized. Safe to call in any state.
func (vp *videoProcessor) destroy() {
	if vp.proc != nil {
		vp.proc.Release()
		vp.proc = nil
	}
	if vp.enum != nil {
		vp.enum.Release()
		vp.enum = nil
	}
	vp.state = stateUninitialized
	vp.builtW, vp.builtH = 0, 0
}
