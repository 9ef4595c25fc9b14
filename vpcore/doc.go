// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vpcore provides shared backend-neutral types for the vpp video
// post-processing pipeline.
//
// The package defines surface descriptors, color space encodings, and the
// small value types exchanged between the root vpp package and its hardware
// backends (backend/soft, backend/d3d11). It deliberately contains no
// behavior: backends interpret these values against their own driver APIs,
// mirroring how drivers consume the equivalent structures.
//
// # Color space encoding
//
// [ColorSpace] uses the two-field driver encoding (matrix selector plus
// nominal range) rather than a full colorimetry description: the hardware
// video processor only distinguishes BT.601 from everything else, and
// limited from full range. [ColorSpaceFor] derives the descriptor from
// content metadata.
//
// # Surfaces
//
// [SurfaceDesc] describes hardware surfaces including decoder padding:
// decoders may allocate surfaces larger than the logical frame, so the
// Width/Height here can diverge from the frame size negotiated upstream.
// Consumers that care about the distinction (processor rebuild detection)
// must compare against surface dimensions, not frame dimensions.
package vpcore
