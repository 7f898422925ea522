package recorder

import "github.com/gogpu/glfx"

// limit is one context limit and the version that introduced it.
type limit struct {
	since glfx.Version
	value float64
}

// defaultLimits are typical values of a desktop GL 4.6 driver.
func defaultLimits() map[glfx.Enum]limit {
	return map[glfx.Enum]limit{
		glfx.MaxTextureSize:               {glfx.GL33, 16384},
		glfx.Max3DTextureSize:             {glfx.GL33, 2048},
		glfx.MaxArrayTextureLayers:        {glfx.GL33, 2048},
		glfx.MaxTextureImageUnits:         {glfx.GL33, 32},
		glfx.MaxCombinedTextureImageUnits: {glfx.GL33, 192},
		glfx.MaxVertexAttribs:             {glfx.GL33, 16},
		glfx.MaxUniformBufferBindings:     {glfx.GL33, 84},
		glfx.MaxDrawBuffers:               {glfx.GL33, 8},
		glfx.MaxColorAttachments:          {glfx.GL33, 8},
		glfx.MaxSamples:                   {glfx.GL33, 8},
		glfx.MaxTextureLODBias:            {glfx.GL33, 16},

		glfx.MaxPatchVertices:               {glfx.GL40, 32},
		glfx.MaxTessGenLevel:                {glfx.GL40, 64},
		glfx.MaxVertexStreams:               {glfx.GL40, 4},
		glfx.MaxTransformFeedbackBuffers:    {glfx.GL40, 4},
		glfx.MinFragmentInterpolationOffset: {glfx.GL40, -0.5},
		glfx.MaxFragmentInterpolationOffset: {glfx.GL40, 0.5},

		glfx.MaxViewports:            {glfx.GL41, 16},
		glfx.ViewportSubpixelBits:    {glfx.GL41, 8},
		glfx.NumProgramBinaryFormats: {glfx.GL41, 1},

		glfx.MaxAtomicCounterBufferBindings: {glfx.GL42, 8},
		glfx.MaxImageUnits:                  {glfx.GL42, 8},

		glfx.MaxShaderStorageBufferBindings: {glfx.GL43, 16},
		glfx.MaxComputeWorkGroupInvocations: {glfx.GL43, 1024},
		glfx.MaxComputeSharedMemorySize:     {glfx.GL43, 32768},
		glfx.MaxDebugMessageLength:          {glfx.GL43, 1024},
		glfx.MaxDebugLoggedMessages:         {glfx.GL43, 64},
		glfx.MaxDebugGroupStackDepth:        {glfx.GL43, 64},
		glfx.MaxLabelLength:                 {glfx.GL43, 256},

		glfx.MaxVertexAttribStride: {glfx.GL44, 2048},

		glfx.MaxCullDistances:                {glfx.GL45, 8},
		glfx.MaxCombinedClipAndCullDistances: {glfx.GL45, 8},

		glfx.MaxTextureMaxAnisotropy: {glfx.GL46, 16},
	}
}

// GetInteger implements glfx.Native.
func (r *Recorder) GetInteger(pname glfx.Enum) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetInteger")
	l, ok := r.lookupLimit(pname)
	if !ok {
		r.raise("GetInteger", glfx.InvalidEnum)
		return 0
	}
	return int64(l)
}

// GetFloat implements glfx.Native.
func (r *Recorder) GetFloat(pname glfx.Enum) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetFloat")
	l, ok := r.lookupLimit(pname)
	if !ok {
		r.raise("GetFloat", glfx.InvalidEnum)
		return 0
	}
	return l
}

// SetLimit overrides a limit. The limit becomes available from GL 3.3 on
// if it was unknown.
func (r *Recorder) SetLimit(pname glfx.Enum, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limits[pname]
	if !ok {
		l.since = glfx.GL33
	}
	l.value = value
	r.limits[pname] = l
}

// lookupLimit returns a limit the emulated version provides.
func (r *Recorder) lookupLimit(pname glfx.Enum) (float64, bool) {
	l, ok := r.limits[pname]
	if !ok || l.since > r.version {
		return 0, false
	}
	return l.value, true
}

// limitInt returns an integer limit, or fallback if the version lacks it.
func (r *Recorder) limitInt(pname glfx.Enum, fallback int64) int64 {
	if v, ok := r.lookupLimit(pname); ok {
		return int64(v)
	}
	return fallback
}
