package vpp

import (
	"errors"
	"testing"

	"github.com/gogpu/vpp/vpcore"
)

func testParams() ProcessingParams {
	return ProcessingParams{
		InW: 640, InH: 480,
		OutW: 1440, OutH: 1080,
		OutFormat:   vpcore.FormatNV12,
		ColorSystem: vpcore.ColorSystemBT709,
		ColorLevels: vpcore.LevelsLimited,
	}
}

func TestProcessorEnsureBuildsOnce(t *testing.T) {
	dev := newFakeDevice()
	vp := newVideoProcessor(dev.video, dev.vctx)

	if vp.ready(640, 480) {
		t.Fatal("processor ready before first ensure")
	}

	if err := vp.ensure(640, 480, testParams()); err != nil {
		t.Fatalf("ensure() = %v", err)
	}
	if !vp.ready(640, 480) {
		t.Fatal("processor not ready after ensure")
	}
	if len(dev.video.procs) != 1 || len(dev.video.enums) != 1 {
		t.Fatalf("created %d processors, %d enumerators; want 1 each",
			len(dev.video.procs), len(dev.video.enums))
	}

	// Same dimensions: no rebuild.
	if err := vp.ensure(640, 480, testParams()); err != nil {
		t.Fatalf("ensure() = %v", err)
	}
	if len(dev.video.procs) != 1 {
		t.Errorf("ensure with unchanged dimensions rebuilt the processor")
	}
}

func TestProcessorRebuildOnDimensionChange(t *testing.T) {
	dev := newFakeDevice()
	vp := newVideoProcessor(dev.video, dev.vctx)

	if err := vp.ensure(640, 480, testParams()); err != nil {
		t.Fatalf("ensure() = %v", err)
	}
	old := dev.video.procs[0]
	oldEnum := dev.video.enums[0]

	// Decoder hands over a padded surface: rebuild for the actual size.
	if err := vp.ensure(640, 512, testParams()); err != nil {
		t.Fatalf("ensure() = %v", err)
	}
	if !old.released || !oldEnum.released {
		t.Error("old processor and enumerator not released on rebuild")
	}
	if len(dev.video.procs) != 2 {
		t.Fatalf("created %d processors, want 2", len(dev.video.procs))
	}
	if !vp.ready(640, 512) || vp.ready(640, 480) {
		t.Error("readiness does not track the rebuilt dimensions")
	}

	// The enumerator content carries the actual input size.
	if c := dev.video.enums[1].content; c.InputWidth != 640 || c.InputHeight != 512 {
		t.Errorf("content input = %dx%d, want 640x512", c.InputWidth, c.InputHeight)
	}
	if c := dev.video.enums[1].content; c.OutputWidth != 1440 || c.OutputHeight != 1080 {
		t.Errorf("content output = %dx%d, want 1440x1080", c.OutputWidth, c.OutputHeight)
	}
}

func TestProcessorConfigure(t *testing.T) {
	dev := newFakeDevice()
	vp := newVideoProcessor(dev.video, dev.vctx)

	if err := vp.ensure(640, 480, testParams()); err != nil {
		t.Fatalf("ensure() = %v", err)
	}

	vctx := dev.vctx
	// Source rectangle is the uncropped negotiated size, not the padded
	// surface size.
	if !vctx.sourceRectEnabled || vctx.sourceRect != vpcore.RectFromSize(640, 480) {
		t.Errorf("source rect = %+v enabled=%v", vctx.sourceRect, vctx.sourceRectEnabled)
	}
	if vctx.autoProcessing {
		t.Error("auto-processing left enabled")
	}
	if vctx.rate != vpcore.RateNormal {
		t.Errorf("rate = %v, want normal", vctx.rate)
	}

	want := vpcore.ColorSpace{YCbCrMatrix: 1, NominalRange: 1}
	if vctx.streamColorSpace != want || vctx.outputColorSpace != want {
		t.Errorf("color spaces = %+v / %+v, want %+v", vctx.streamColorSpace, vctx.outputColorSpace, want)
	}
}

func TestProcessorCreationFailures(t *testing.T) {
	boom := errors.New("driver says no")

	t.Run("enumerator", func(t *testing.T) {
		dev := newFakeDevice()
		dev.video.enumErr = boom
		vp := newVideoProcessor(dev.video, dev.vctx)

		err := vp.ensure(640, 480, testParams())
		if !errors.Is(err, ErrProcessorUnavailable) {
			t.Errorf("ensure() = %v, want ErrProcessorUnavailable", err)
		}
		if vp.ready(640, 480) {
			t.Error("processor ready after failed ensure")
		}
	})

	t.Run("caps", func(t *testing.T) {
		dev := newFakeDevice()
		dev.video.capsErr = boom
		vp := newVideoProcessor(dev.video, dev.vctx)

		err := vp.ensure(640, 480, testParams())
		if !errors.Is(err, ErrProcessorUnavailable) {
			t.Errorf("ensure() = %v, want ErrProcessorUnavailable", err)
		}
		if !dev.video.enums[0].released {
			t.Error("enumerator leaked after caps failure")
		}
	})

	t.Run("processor", func(t *testing.T) {
		dev := newFakeDevice()
		dev.video.procErr = boom
		vp := newVideoProcessor(dev.video, dev.vctx)

		err := vp.ensure(640, 480, testParams())
		if !errors.Is(err, ErrProcessorUnavailable) {
			t.Errorf("ensure() = %v, want ErrProcessorUnavailable", err)
		}
		if !dev.video.enums[0].released {
			t.Error("enumerator leaked after processor creation failure")
		}
		if vp.state != stateUninitialized {
			t.Errorf("state = %v, want uninitialized", vp.state)
		}
	})
}

func TestProcessorDestroy(t *testing.T) {
	dev := newFakeDevice()
	vp := newVideoProcessor(dev.video, dev.vctx)

	// Destroy in the uninitialized state is a no-op.
	vp.destroy()

	if err := vp.ensure(640, 480, testParams()); err != nil {
		t.Fatalf("ensure() = %v", err)
	}
	vp.destroy()

	if !dev.video.procs[0].released || !dev.video.enums[0].released {
		t.Error("destroy did not release the processor and enumerator")
	}
	if vp.ready(640, 480) {
		t.Error("processor still ready after destroy")
	}
	if vp.state != stateUninitialized || vp.builtW != 0 || vp.builtH != 0 {
		t.Error("destroy did not reset the state machine")
	}

	// A destroyed processor can be rebuilt.
	if err := vp.ensure(640, 480, testParams()); err != nil {
		t.Fatalf("ensure() after destroy = %v", err)
	}
	if !vp.ready(640, 480) {
		t.Error("rebuild after destroy failed")
	}
}
