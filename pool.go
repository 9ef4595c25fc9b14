package vpp

import (
	"fmt"
	"sync"

	"github.com/gogpu/vpp/vpcore"
)

// defaultPoolIdle is the default bound on retained idle surfaces.
const defaultPoolIdle = 8

// Allocator creates a new surface for the pool. Supplied by the filter so
// the pool stays independent of the device that backs it.
type Allocator func(format vpcore.SurfaceFormat, w, h int) (Surface, error)

// SurfacePool recycles hardware output surfaces of a fixed format and
// size. Released surfaces are retained up to a bound; when the bound is
// exceeded the least-recently-used surface is evicted and released to the
// device. The pool must be cleared whenever the negotiated output format
// or size changes so stale-sized surfaces are never served.
type SurfacePool struct {
	mu      sync.Mutex
	alloc   Allocator
	idle    []Surface // ordered oldest first
	maxIdle int
	closed  bool
}

// NewSurfacePool creates a pool backed by the given allocator.
// If maxIdle <= 0, defaultPoolIdle is used.
func NewSurfacePool(alloc Allocator, maxIdle int) *SurfacePool {
	if maxIdle <= 0 {
		maxIdle = defaultPoolIdle
	}
	return &SurfacePool{alloc: alloc, maxIdle: maxIdle}
}

// Acquire returns an output frame backed by a surface of exactly the given
// format and size. A matching idle surface is reused when available;
// otherwise a new surface is allocated. Idle surfaces that no longer match
// the requested shape are evicted on the way.
//
// On allocation failure the pool state is unchanged and the caller must
// abandon the current frame.
func (p *SurfacePool) Acquire(format vpcore.SurfaceFormat, w, h int) (*Frame, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}

	var s Surface
	keep := p.idle[:0]
	for _, cand := range p.idle {
		d := cand.Desc()
		switch {
		case s == nil && d.Format == format && d.Width == w && d.Height == h:
			s = cand
		case d.Format == format && d.Width == w && d.Height == h:
			keep = append(keep, cand)
		default:
			// Stale shape: a renegotiation should have cleared these,
			// but never serve or retain one.
			cand.Release()
		}
	}
	p.idle = keep
	p.mu.Unlock()

	if s == nil {
		var err error
		s, err = p.alloc(format, w, h)
		if err != nil {
			return nil, fmt.Errorf("%w: %dx%d %s: %v", ErrAllocationFailed, w, h, format, err)
		}
	}

	surf := s
	f := NewHardwareFrame(surf, 0, w, h, func() { p.recycle(surf) })
	return f, nil
}

// recycle returns a surface to the idle set, evicting the least-recently
// used entry if the bound is exceeded.
func (p *SurfacePool) recycle(s Surface) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		s.Release()
		return
	}
	for len(p.idle) >= p.maxIdle {
		old := p.idle[0]
		p.idle = p.idle[1:]
		old.Release()
	}
	p.idle = append(p.idle, s)
	p.mu.Unlock()
}

// Clear releases all idle surfaces. Called whenever the negotiated output
// format or size changes. Surfaces still referenced by in-flight frames
// are returned to the device when their frames are released.
func (p *SurfacePool) Clear() {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, s := range idle {
		s.Release()
	}
}

// Close clears the pool and rejects further acquisition. Surfaces recycled
// after Close are released to the device immediately.
func (p *SurfacePool) Close() {
	p.mu.Lock()
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, s := range idle {
		s.Release()
	}
}

// IdleLen returns the number of retained idle surfaces.
func (p *SurfacePool) IdleLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
