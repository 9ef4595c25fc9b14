// Package vpp provides a hardware video post-processing stage for media
// playback pipelines.
//
// # Overview
//
// vpp consumes decoded video frames, either already resident on a hardware
// surface or in planar CPU memory, and emits frames sized and formatted for
// display, optionally upscaled through a GPU vendor's proprietary
// super-resolution extension (NVIDIA RTX Video Super Resolution, Intel VPE).
//
// The package is organized around a single hardware video processor per
// [Filter] instance: one resize/super-resolution transform per frame, one
// frame in flight at a time. It is not a compositor and not a multi-stage
// GPU pipeline.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/vpp"
//	    _ "github.com/gogpu/vpp/backend/soft" // register the pure-Go backend
//	)
//
//	f, err := vpp.New(queue,
//	    vpp.WithMode(vpp.ModeNvidia),
//	    vpp.WithScale(vpp.Scale1080p),
//	)
//	if err != nil {
//	    // missing hardware capability: fatal configuration error
//	}
//	defer f.Close()
//
//	for !f.Failed() {
//	    f.Process() // one frame per pass, pulled from and written to queue
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Filter, Frame, SurfacePool, Mode/Scale options
//   - Hardware abstraction: Device, VideoDevice, VideoContext, Surface
//   - Shared types: vpcore (formats, color spaces, rects)
//   - Backends: backend/soft (pure Go), backend/d3d11 (Windows)
//
// Backends register themselves on import via [RegisterBackend], mirroring
// how hosts select GPU rendering backends. A host that already owns a
// hardware device hierarchy (for example a D3D11 decode context shared with
// the display renderer) passes it in directly with [WithDevice] instead.
//
// # Concurrency
//
// Filter is single-threaded and synchronous: one frame is fully ingested,
// transformed, and emitted before the next is considered. The module assumes
// external synchronization guarantees exclusive access to the shared device
// objects it was handed.
package vpp
