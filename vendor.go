package vpp

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/vpp/vpcore"
)

// Extension configures vendor-specific super-resolution behavior on an
// already-created processor. Configure is invoked once per rendered frame;
// implementations must be idempotent across repeated identical calls.
//
// A Configure failure is non-fatal: the frame still renders without the
// extension's effect.
type Extension interface {
	// ID returns the vendor name for logging.
	ID() string

	// Configure applies the extension to the processor.
	Configure(vc VideoContext, p Processor) error
}

// extensionFor returns the adapter for a mode, or nil for ModeOff.
func extensionFor(m Mode) Extension {
	switch m {
	case ModeNvidia:
		return nvidiaSuperRes{}
	case ModeIntel:
		return intelVPE{}
	default:
		return nil
	}
}

// nvidiaPPEInterfaceGUID identifies the NVIDIA driver post-processing
// extension interface.
var nvidiaPPEInterfaceGUID = vpcore.GUID{
	Data1: 0xd43ce1b3, Data2: 0x1f4b, Data3: 0x48ac,
	Data4: [8]byte{0xba, 0xee, 0xc3, 0xc2, 0x53, 0x75, 0xe6, 0xf7},
}

// NVIDIA stream extension protocol.
const (
	nvStreamExtensionVersionV1              = 0x1
	nvStreamExtensionMethodSuperResolution  = 0x2
	nvStreamExtensionSuperResolutionEnabled = 0x1
)

// nvidiaSuperRes enables NVIDIA RTX Video Super Resolution with a single
// stream-level extension blob: a versioned struct with an enable flag.
type nvidiaSuperRes struct{}

func (nvidiaSuperRes) ID() string { return "nvidia" }

func (nvidiaSuperRes) Configure(vc VideoContext, p Processor) error {
	var blob [12]byte
	binary.LittleEndian.PutUint32(blob[0:], nvStreamExtensionVersionV1)
	binary.LittleEndian.PutUint32(blob[4:], nvStreamExtensionMethodSuperResolution)
	binary.LittleEndian.PutUint32(blob[8:], nvStreamExtensionSuperResolutionEnabled)

	if err := vc.SetStreamExtension(p, 0, nvidiaPPEInterfaceGUID, blob[:]); err != nil {
		return fmt.Errorf("enabling NVIDIA super resolution: %w", err)
	}
	return nil
}

// intelVPEInterfaceGUID identifies the Intel Video Processing Extension
// interface.
var intelVPEInterfaceGUID = vpcore.GUID{
	Data1: 0xedd1d4b9, Data2: 0x8659, Data3: 0x4cbc,
	Data4: [8]byte{0xa4, 0xd6, 0x98, 0x31, 0xa2, 0x16, 0x3a, 0xc3},
}

// Intel VPE function selectors and parameter values.
const (
	intelVpeFnVersion = 0x01
	intelVpeFnMode    = 0x20
	intelVpeFnScaling = 0x37

	intelVpeVersion3 = 0x0003

	intelVpeModePreproc = 0x01

	intelVpeScalingSuperResolution = 0x2
)

// intelVPE enables Intel super resolution with three sequential extension
// calls keyed by the same GUID but different function selectors: declare
// the protocol version, select preprocessing mode, select super-resolution
// scaling. There is no rollback on partial failure; whether the driver
// self-corrects on the next full reconfiguration is undocumented.
type intelVPE struct{}

func (intelVPE) ID() string { return "intel" }

func (intelVPE) Configure(vc VideoContext, p Processor) error {
	if err := vc.SetOutputExtension(p, intelVPEInterfaceGUID,
		intelVpeBlob(intelVpeFnVersion, intelVpeVersion3)); err != nil {
		return fmt.Errorf("declaring Intel VPE version: %w", err)
	}

	if err := vc.SetOutputExtension(p, intelVPEInterfaceGUID,
		intelVpeBlob(intelVpeFnMode, intelVpeModePreproc)); err != nil {
		return fmt.Errorf("selecting Intel VPE preprocessing mode: %w", err)
	}

	if err := vc.SetStreamExtension(p, 0, intelVPEInterfaceGUID,
		intelVpeBlob(intelVpeFnScaling, intelVpeScalingSuperResolution)); err != nil {
		return fmt.Errorf("selecting Intel VPE super-resolution scaling: %w", err)
	}
	return nil
}

// intelVpeBlob encodes one VPE call as a function selector plus parameter
// value. Backends that talk to the real driver rebuild the pointer-bearing
// wire struct from this pair.
func intelVpeBlob(fn, param uint32) []byte {
	blob := make([]byte, 8)
	binary.LittleEndian.PutUint32(blob[0:], fn)
	binary.LittleEndian.PutUint32(blob[4:], param)
	return blob
}
