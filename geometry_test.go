package vpp

import "testing"

func TestScaleTarget(t *testing.T) {
	tests := []struct {
		name       string
		scale      Scale
		srcW, srcH int
		boxW, boxH int
	}{
		{"auto", ScaleAuto, 640, 480, 1920, 1080},
		{"720p", Scale720p, 640, 480, 1280, 720},
		{"1080p", Scale1080p, 640, 480, 1920, 1080},
		{"1440p", Scale1440p, 640, 480, 2560, 1440},
		{"2160p", Scale2160p, 640, 480, 3840, 2160},
		{"2x", Scale2x, 640, 480, 1280, 960},
		{"3x", Scale3x, 640, 480, 1920, 1440},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := scaleTarget(tt.scale, tt.srcW, tt.srcH)
			if w != tt.boxW || h != tt.boxH {
				t.Errorf("scaleTarget(%v, %d, %d) = %dx%d, want %dx%d",
					tt.scale, tt.srcW, tt.srcH, w, h, tt.boxW, tt.boxH)
			}
		})
	}
}

func TestRenderSize(t *testing.T) {
	tests := []struct {
		name       string
		inW, inH   int
		boxW, boxH int
		outW, outH int
	}{
		// 16:9 source fills a 16:9 box exactly.
		{"720p to 1080p", 1280, 720, 1920, 1080, 1920, 1080},

		// Wide source: width hits the box, height stays under.
		{"scope to 2160p", 1920, 800, 3840, 2160, 3840, 1600},

		// Tall source: width-first overshoots, height clamps and width
		// is re-derived.
		{"4:3 to 1080p", 640, 480, 1920, 1080, 1440, 1080},

		// Source already at the box: identity.
		{"identity", 1920, 1080, 1920, 1080, 1920, 1080},

		// Source larger than the box in either dimension passes through:
		// never downscale.
		{"wider than box", 2560, 1440, 1920, 1080, 2560, 1440},
		{"taller than box", 1280, 1200, 1920, 1080, 1280, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := renderSize(tt.inW, tt.inH, tt.boxW, tt.boxH)
			if w != tt.outW || h != tt.outH {
				t.Errorf("renderSize(%d, %d, %d, %d) = %dx%d, want %dx%d",
					tt.inW, tt.inH, tt.boxW, tt.boxH, w, h, tt.outW, tt.outH)
			}
		})
	}
}

func TestRenderSizeNeverExceedsBoxWhenScaling(t *testing.T) {
	// Any source that fits the box must produce an output inside the box.
	for _, src := range [][2]int{{320, 240}, {720, 576}, {1280, 720}, {1918, 1078}} {
		w, h := renderSize(src[0], src[1], 1920, 1080)
		if w > 1920 || h > 1080 {
			t.Errorf("renderSize(%d, %d, 1920, 1080) = %dx%d exceeds box", src[0], src[1], w, h)
		}
		if w < src[0] || h < src[1] {
			t.Errorf("renderSize(%d, %d, 1920, 1080) = %dx%d shrank the source", src[0], src[1], w, h)
		}
	}
}
