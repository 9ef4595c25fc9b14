package vpp

// scaleTarget returns the target box for a scale option given the source
// size. Fixed targets ignore the source; multipliers scale it.
func scaleTarget(s Scale, srcW, srcH int) (boxW, boxH int) {
	switch s {
	case Scale720p:
		return 1280, 720
	case Scale1440p:
		return 2560, 1440
	case Scale2160p:
		return 3840, 2160
	case Scale2x:
		return 2 * srcW, 2 * srcH
	case Scale3x:
		return 3 * srcW, 3 * srcH
	default: // ScaleAuto, Scale1080p
		return 1920, 1080
	}
}

// renderSize computes the output size for a source inside a target box.
//
// A source that exceeds the box in either dimension is passed through
// unchanged: this stage never downscales. Otherwise the source is scaled
// to fit the box preserving aspect ratio: width is expanded to the box
// first, and if the derived height overshoots, height is clamped to the
// box and width re-derived.
func renderSize(inW, inH, boxW, boxH int) (outW, outH int) {
	if inW > boxW || inH > boxH {
		return inW, inH
	}

	aspect := float64(inW) / float64(inH)
	outW = boxW
	outH = int(float64(boxW) / aspect)
	if outH > boxH {
		outH = boxH
		outW = int(float64(boxH) * aspect)
	}
	return outW, outH
}
