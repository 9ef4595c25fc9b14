// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package soft provides a pure-Go reference backend for vpp.
//
// The backend implements the full device hierarchy in CPU memory: NV12
// surfaces with hardware-style row pitch alignment, mappable upload
// surfaces, and a video processor whose blit crops to the source rectangle
// and scales each plane with a Catmull-Rom kernel (golang.org/x/image/draw).
// Vendor extension blobs are recorded per processor instead of being sent
// to a driver, so callers and tests can inspect exactly what would reach
// the hardware.
//
// Importing the package registers it under the name "soft" at priority 10:
//
//	import _ "github.com/gogpu/vpp/backend/soft"
//
// The [Faults] hooks inject failures into individual device entry points,
// which the package tests use to exercise the filter's degraded paths.
package soft
