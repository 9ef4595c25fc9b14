// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d11

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// COM objects are opaque pointers whose first word points at a vtable.
// vtblOf reinterprets that word as a typed vtable.
func vtblOf[T any](obj unsafe.Pointer) *T {
	return *(**T)(obj)
}

type iUnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

// deviceChildVtbl is the common prefix of every ID3D11DeviceChild.
type deviceChildVtbl struct {
	iUnknownVtbl
	GetDevice               uintptr
	GetPrivateData          uintptr
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
}

func comAddRef(obj unsafe.Pointer) {
	v := vtblOf[iUnknownVtbl](obj)
	syscall.SyscallN(v.AddRef, uintptr(obj))
}

func comRelease(obj unsafe.Pointer) {
	if obj == nil {
		return
	}
	v := vtblOf[iUnknownVtbl](obj)
	syscall.SyscallN(v.Release, uintptr(obj))
}

func comQueryInterface(obj unsafe.Pointer, iid *windows.GUID) (unsafe.Pointer, error) {
	v := vtblOf[iUnknownVtbl](obj)
	var out unsafe.Pointer
	hr, _, _ := syscall.SyscallN(v.QueryInterface, uintptr(obj),
		uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&out)))
	if err := hresult(hr); err != nil {
		return nil, err
	}
	return out, nil
}

// hresult converts a COM return value into an error (nil on success).
func hresult(hr uintptr) error {
	if int32(hr) >= 0 {
		return nil
	}
	return windows.Errno(hr)
}

// d3d11DeviceVtbl is ID3D11Device. Slots past GetImmediateContext are not
// used and omitted.
type d3d11DeviceVtbl struct {
	iUnknownVtbl
	CreateBuffer                         uintptr
	CreateTexture1D                      uintptr
	CreateTexture2D                      uintptr
	CreateTexture3D                      uintptr
	CreateShaderResourceView             uintptr
	CreateUnorderedAccessView            uintptr
	CreateRenderTargetView               uintptr
	CreateDepthStencilView               uintptr
	CreateInputLayout                    uintptr
	CreateVertexShader                   uintptr
	CreateGeometryShader                 uintptr
	CreateGeometryShaderWithStreamOutput uintptr
	CreatePixelShader                    uintptr
	CreateHullShader                     uintptr
	CreateDomainShader                   uintptr
	CreateComputeShader                  uintptr
	CreateClassLinkage                   uintptr
	CreateBlendState                     uintptr
	CreateDepthStencilState              uintptr
	CreateRasterizerState                uintptr
	CreateSamplerState                   uintptr
	CreateQuery                          uintptr
	CreatePredicate                      uintptr
	CreateCounter                        uintptr
	CreateDeferredContext                uintptr
	OpenSharedResource                   uintptr
	CheckFormatSupport                   uintptr
	CheckMultisampleQualityLevels        uintptr
	CheckCounterInfo                     uintptr
	CheckCounter                         uintptr
	CheckFeatureSupport                  uintptr
	GetPrivateData                       uintptr
	SetPrivateData                       uintptr
	SetPrivateDataInterface              uintptr
	GetFeatureLevel                      uintptr
	GetCreationFlags                     uintptr
	GetDeviceRemovedReason               uintptr
	GetImmediateContext                  uintptr
}

// d3d11DeviceContextVtbl is ID3D11DeviceContext up to Unmap.
type d3d11DeviceContextVtbl struct {
	deviceChildVtbl
	VSSetConstantBuffers uintptr
	PSSetShaderResources uintptr
	PSSetShader          uintptr
	PSSetSamplers        uintptr
	VSSetShader          uintptr
	DrawIndexed          uintptr
	Draw                 uintptr
	Map                  uintptr
	Unmap                uintptr
}

// d3d11VideoDeviceVtbl is ID3D11VideoDevice.
type d3d11VideoDeviceVtbl struct {
	iUnknownVtbl
	CreateVideoDecoder               uintptr
	CreateVideoProcessor             uintptr
	CreateAuthenticatedChannel       uintptr
	CreateCryptoSession              uintptr
	CreateVideoDecoderOutputView     uintptr
	CreateVideoProcessorInputView    uintptr
	CreateVideoProcessorOutputView   uintptr
	CreateVideoProcessorEnumerator   uintptr
	GetVideoDecoderProfileCount      uintptr
	GetVideoDecoderProfile           uintptr
	CheckVideoDecoderFormat          uintptr
	GetVideoDecoderConfigCount       uintptr
	GetVideoDecoderConfig            uintptr
	GetContentProtectionCaps         uintptr
	CheckCryptoKeyExchange           uintptr
	SetPrivateData                   uintptr
	SetPrivateDataInterface          uintptr
}

// d3d11VideoProcessorEnumeratorVtbl is ID3D11VideoProcessorEnumerator.
type d3d11VideoProcessorEnumeratorVtbl struct {
	deviceChildVtbl
	GetVideoProcessorContentDesc        uintptr
	CheckVideoProcessorFormat           uintptr
	GetVideoProcessorCaps               uintptr
	GetVideoProcessorRateConversionCaps uintptr
	GetVideoProcessorCustomRate         uintptr
	GetVideoProcessorFilterRange        uintptr
}

// d3d11VideoContextVtbl is ID3D11VideoContext up to VideoProcessorBlt.
type d3d11VideoContextVtbl struct {
	deviceChildVtbl
	GetDecoderBuffer                          uintptr
	ReleaseDecoderBuffer                      uintptr
	DecoderBeginFrame                         uintptr
	DecoderEndFrame                           uintptr
	SubmitDecoderBuffers                      uintptr
	DecoderExtension                          uintptr
	VideoProcessorSetOutputTargetRect         uintptr
	VideoProcessorSetOutputBackgroundColor    uintptr
	VideoProcessorSetOutputColorSpace         uintptr
	VideoProcessorSetOutputAlphaFillMode      uintptr
	VideoProcessorSetOutputConstriction       uintptr
	VideoProcessorSetOutputStereoMode         uintptr
	VideoProcessorSetOutputExtension          uintptr
	VideoProcessorGetOutputTargetRect         uintptr
	VideoProcessorGetOutputBackgroundColor    uintptr
	VideoProcessorGetOutputColorSpace         uintptr
	VideoProcessorGetOutputAlphaFillMode      uintptr
	VideoProcessorGetOutputConstriction       uintptr
	VideoProcessorGetOutputStereoMode         uintptr
	VideoProcessorGetOutputExtension          uintptr
	VideoProcessorSetStreamFrameFormat        uintptr
	VideoProcessorSetStreamColorSpace         uintptr
	VideoProcessorSetStreamOutputRate         uintptr
	VideoProcessorSetStreamSourceRect         uintptr
	VideoProcessorSetStreamDestRect           uintptr
	VideoProcessorSetStreamAlpha              uintptr
	VideoProcessorSetStreamPalette            uintptr
	VideoProcessorSetStreamPixelAspectRatio   uintptr
	VideoProcessorSetStreamLumaKey            uintptr
	VideoProcessorSetStreamStereoFormat       uintptr
	VideoProcessorSetStreamAutoProcessingMode uintptr
	VideoProcessorSetStreamFilter             uintptr
	VideoProcessorSetStreamExtension          uintptr
	VideoProcessorGetStreamFrameFormat        uintptr
	VideoProcessorGetStreamColorSpace         uintptr
	VideoProcessorGetStreamOutputRate         uintptr
	VideoProcessorGetStreamSourceRect         uintptr
	VideoProcessorGetStreamDestRect           uintptr
	VideoProcessorGetStreamAlpha              uintptr
	VideoProcessorGetStreamPalette            uintptr
	VideoProcessorGetStreamPixelAspectRatio   uintptr
	VideoProcessorGetStreamLumaKey            uintptr
	VideoProcessorGetStreamStereoFormat       uintptr
	VideoProcessorGetStreamAutoProcessingMode uintptr
	VideoProcessorGetStreamFilter             uintptr
	VideoProcessorGetStreamExtension          uintptr
	VideoProcessorBlt                         uintptr
}
