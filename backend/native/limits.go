package native

import (
	"github.com/gogpu/glfx"
	"github.com/gogpu/gputypes"
)

// shaderStages is the number of graphics and compute stages WebGPU
// per-stage limits are multiplied by for the combined GL limits.
const shaderStages = 3

// capabilities derives GL limits from WebGPU device limits. GL limits
// with no WebGPU counterpart get the values of a conservative desktop
// driver. Every limit up to GL 4.6 is reported.
func capabilities(l gputypes.Limits) map[glfx.Enum]float64 {
	f := func(v uint32) float64 { return float64(v) }
	return map[glfx.Enum]float64{
		glfx.MaxTextureSize:               f(l.MaxTextureDimension2D),
		glfx.Max3DTextureSize:             f(l.MaxTextureDimension3D),
		glfx.MaxArrayTextureLayers:        f(l.MaxTextureArrayLayers),
		glfx.MaxTextureImageUnits:         f(l.MaxSampledTexturesPerShaderStage),
		glfx.MaxCombinedTextureImageUnits: f(l.MaxSampledTexturesPerShaderStage) * shaderStages,
		glfx.MaxVertexAttribs:             f(l.MaxVertexAttributes),
		glfx.MaxUniformBufferBindings:     f(l.MaxUniformBuffersPerShaderStage) * shaderStages,
		glfx.MaxDrawBuffers:               f(l.MaxColorAttachments),
		glfx.MaxColorAttachments:          f(l.MaxColorAttachments),
		glfx.MaxSamples:                   4,
		glfx.MaxTextureLODBias:            16,

		glfx.MaxPatchVertices:               32,
		glfx.MaxTessGenLevel:                64,
		glfx.MaxVertexStreams:               4,
		glfx.MaxTransformFeedbackBuffers:    4,
		glfx.MinFragmentInterpolationOffset: -0.5,
		glfx.MaxFragmentInterpolationOffset: 0.5,

		glfx.MaxViewports:            16,
		glfx.ViewportSubpixelBits:    8,
		glfx.NumProgramBinaryFormats: 1,

		glfx.MaxAtomicCounterBufferBindings: 8,
		glfx.MaxImageUnits:                  f(l.MaxStorageTexturesPerShaderStage),

		glfx.MaxShaderStorageBufferBindings: f(l.MaxStorageBuffersPerShaderStage),
		glfx.MaxComputeWorkGroupInvocations: f(l.MaxComputeInvocationsPerWorkgroup),
		glfx.MaxComputeSharedMemorySize:     f(l.MaxComputeWorkgroupStorageSize),
		glfx.MaxDebugMessageLength:          1024,
		glfx.MaxDebugLoggedMessages:         64,
		glfx.MaxDebugGroupStackDepth:        64,
		glfx.MaxLabelLength:                 256,

		glfx.MaxVertexAttribStride: f(l.MaxVertexBufferArrayStride),

		glfx.MaxCullDistances:                8,
		glfx.MaxCombinedClipAndCullDistances: 8,

		glfx.MaxTextureMaxAnisotropy: 16,
	}
}

// GetInteger implements glfx.Native.
func (a *HALAdapter) GetInteger(pname glfx.Enum) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.caps[pname]
	if !ok {
		a.raise("GetInteger", glfx.InvalidEnum)
		return 0
	}
	return int64(c)
}

// GetFloat implements glfx.Native.
func (a *HALAdapter) GetFloat(pname glfx.Enum) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.caps[pname]
	if !ok {
		a.raise("GetFloat", glfx.InvalidEnum)
		return 0
	}
	return c
}

// capInt returns an integer limit. Caller must hold a.mu.
func (a *HALAdapter) capInt(pname glfx.Enum) int64 {
	return int64(a.caps[pname])
}
