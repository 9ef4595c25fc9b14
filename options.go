package vpp

import "fmt"

// Mode selects the super-resolution vendor path.
type Mode int

// Super-resolution modes.
const (
	// ModeOff disables the transform entirely: frames pass through with
	// only reference duplication.
	ModeOff Mode = iota

	// ModeNvidia enables NVIDIA RTX Video Super Resolution.
	ModeNvidia

	// ModeIntel enables Intel VPE super resolution.
	ModeIntel
)

// String returns the option spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNvidia:
		return "nvidia"
	case ModeIntel:
		return "intel"
	default:
		return "none"
	}
}

// ParseMode parses a mode option value.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "none", "off", "":
		return ModeOff, nil
	case "nvidia":
		return ModeNvidia, nil
	case "intel":
		return ModeIntel, nil
	}
	return ModeOff, fmt.Errorf("vpp: unknown mode %q", s)
}

// Scale selects the super-resolution output target: a fixed resolution box
// or a multiplier relative to the source size. Only meaningful when the
// mode is not ModeOff.
type Scale int

// Scale targets.
const (
	// ScaleAuto targets 1920x1080.
	ScaleAuto Scale = iota

	// Scale720p targets 1280x720.
	Scale720p

	// Scale1080p targets 1920x1080.
	Scale1080p

	// Scale1440p targets 2560x1440.
	Scale1440p

	// Scale2160p targets 3840x2160.
	Scale2160p

	// Scale2x targets twice the source size.
	Scale2x

	// Scale3x targets three times the source size.
	Scale3x
)

// String returns the option spelling of the scale target.
func (s Scale) String() string {
	switch s {
	case Scale720p:
		return "720p"
	case Scale1080p:
		return "1080p"
	case Scale1440p:
		return "1440p"
	case Scale2160p:
		return "2160p"
	case Scale2x:
		return "2X"
	case Scale3x:
		return "3X"
	default:
		return "auto"
	}
}

// ParseScale parses a scale option value.
func ParseScale(s string) (Scale, error) {
	switch s {
	case "auto", "":
		return ScaleAuto, nil
	case "720p":
		return Scale720p, nil
	case "1080p":
		return Scale1080p, nil
	case "1440p":
		return Scale1440p, nil
	case "2160p":
		return Scale2160p, nil
	case "2X", "2x":
		return Scale2x, nil
	case "3X", "3x":
		return Scale3x, nil
	}
	return ScaleAuto, fmt.Errorf("vpp: unknown scale %q", s)
}

// Option configures a Filter during creation.
//
// Example:
//
//	// Pass-through filter on the best available backend
//	f, err := vpp.New(queue)
//
//	// NVIDIA super resolution targeting 4K, host-owned device
//	f, err := vpp.New(queue,
//	    vpp.WithMode(vpp.ModeNvidia),
//	    vpp.WithScale(vpp.Scale2160p),
//	    vpp.WithDevice(dev),
//	)
type Option func(*filterOptions)

// filterOptions holds optional configuration for Filter creation.
type filterOptions struct {
	mode     Mode
	scale    Scale
	device   Device
	backend  string
	poolIdle int
}

// defaultFilterOptions returns the default filter options.
func defaultFilterOptions() filterOptions {
	return filterOptions{
		mode:     ModeOff,
		scale:    ScaleAuto,
		poolIdle: defaultPoolIdle,
	}
}

// WithMode sets the super-resolution vendor path.
func WithMode(m Mode) Option {
	return func(o *filterOptions) { o.mode = m }
}

// WithScale sets the super-resolution output target.
func WithScale(s Scale) Option {
	return func(o *filterOptions) { o.scale = s }
}

// WithDevice supplies a host-owned device instead of resolving one from
// the backend registry. The filter takes a reference and releases it on
// Close.
func WithDevice(d Device) Option {
	return func(o *filterOptions) { o.device = d }
}

// WithBackend selects a specific registered backend by name.
// Ignored when WithDevice is used.
func WithBackend(name string) Option {
	return func(o *filterOptions) { o.backend = name }
}

// WithPoolCapacity bounds the number of idle output surfaces retained by
// the surface pool. Values <= 0 select the default.
func WithPoolCapacity(n int) Option {
	return func(o *filterOptions) {
		if n > 0 {
			o.poolIdle = n
		}
	}
}
