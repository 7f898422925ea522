package glfx

import "fmt"

// Enum is a symbolic constant of the native API.
type Enum uint32

// ErrorCode is a value returned by [Native.GetError].
type ErrorCode uint32

// Native error codes.
const (
	NoError                     ErrorCode = 0
	InvalidEnum                 ErrorCode = 0x0500
	InvalidValue                ErrorCode = 0x0501
	InvalidOperation            ErrorCode = 0x0502
	StackOverflow               ErrorCode = 0x0503
	StackUnderflow              ErrorCode = 0x0504
	OutOfMemory                 ErrorCode = 0x0505
	InvalidFramebufferOperation ErrorCode = 0x0506
	ContextLost                 ErrorCode = 0x0507
)

// String returns the native name of the error code.
func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "NO_ERROR"
	case InvalidEnum:
		return "INVALID_ENUM"
	case InvalidValue:
		return "INVALID_VALUE"
	case InvalidOperation:
		return "INVALID_OPERATION"
	case StackOverflow:
		return "STACK_OVERFLOW"
	case StackUnderflow:
		return "STACK_UNDERFLOW"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case ContextLost:
		return "CONTEXT_LOST"
	default:
		return fmt.Sprintf("ErrorCode(0x%04X)", uint32(c))
	}
}

// Capability query parameters, grouped by the version that introduced them.
const (
	// 3.3
	MaxTextureSize               Enum = 0x0D33
	Max3DTextureSize             Enum = 0x8073
	MaxArrayTextureLayers        Enum = 0x88FF
	MaxTextureImageUnits         Enum = 0x8872
	MaxCombinedTextureImageUnits Enum = 0x8B4D
	MaxVertexAttribs             Enum = 0x8869
	MaxUniformBufferBindings     Enum = 0x8A2F
	MaxDrawBuffers               Enum = 0x8824
	MaxColorAttachments          Enum = 0x8CDF
	MaxSamples                   Enum = 0x8D57
	MaxTextureLODBias            Enum = 0x84FD

	// 4.0
	MaxPatchVertices               Enum = 0x8E7D
	MaxTessGenLevel                Enum = 0x8E7E
	MaxVertexStreams               Enum = 0x8E71
	MaxTransformFeedbackBuffers    Enum = 0x8E70
	MinFragmentInterpolationOffset Enum = 0x8E5B
	MaxFragmentInterpolationOffset Enum = 0x8E5C

	// 4.1
	MaxViewports            Enum = 0x825B
	ViewportSubpixelBits    Enum = 0x825C
	NumProgramBinaryFormats Enum = 0x87FE

	// 4.2
	MaxAtomicCounterBufferBindings Enum = 0x92DC
	MaxImageUnits                  Enum = 0x8F38

	// 4.3
	MaxShaderStorageBufferBindings Enum = 0x90DD
	MaxComputeWorkGroupInvocations Enum = 0x90EB
	MaxComputeSharedMemorySize     Enum = 0x8262
	MaxDebugMessageLength          Enum = 0x9143
	MaxDebugLoggedMessages         Enum = 0x9144
	MaxDebugGroupStackDepth        Enum = 0x826C
	MaxLabelLength                 Enum = 0x82E8

	// 4.4
	MaxVertexAttribStride Enum = 0x82E5

	// 4.5
	MaxCullDistances                Enum = 0x82F9
	MaxCombinedClipAndCullDistances Enum = 0x82FA

	// 4.6
	MaxTextureMaxAnisotropy Enum = 0x84FF
)

// Object and program parameters.
const (
	CompileStatus        Enum = 0x8B81
	LinkStatus           Enum = 0x8B82
	InfoLogLength        Enum = 0x8B84
	ProgramBinaryLength  Enum = 0x8741
	TextureMaxAnisotropy Enum = 0x84FE
	QueryResult          Enum = 0x8866
	QueryResultAvailable Enum = 0x8867
)

// Query targets.
const (
	SamplesPassed                      Enum = 0x8914
	AnySamplesPassed                   Enum = 0x8C2F
	PrimitivesGenerated                Enum = 0x8C87
	TransformFeedbackPrimitivesWritten Enum = 0x8C88
	TimeElapsed                        Enum = 0x88BF
)

// Tessellation patch parameters.
const (
	PatchVertices          Enum = 0x8E72
	PatchDefaultInnerLevel Enum = 0x8E73
	PatchDefaultOuterLevel Enum = 0x8E74
)

// Buffer usage hints.
const (
	StreamDraw  Enum = 0x88E0
	StaticDraw  Enum = 0x88E4
	DynamicDraw Enum = 0x88E8
)

// Image access modes for BindImageTexture.
const (
	ReadOnly  Enum = 0x88B8
	WriteOnly Enum = 0x88B9
	ReadWrite Enum = 0x88BA
)

// ShaderStage selects the pipeline stage a shader object compiles for.
type ShaderStage Enum

// Shader stages.
const (
	VertexShader         ShaderStage = 0x8B31
	FragmentShader       ShaderStage = 0x8B30
	GeometryShader       ShaderStage = 0x8DD9
	TessControlShader    ShaderStage = 0x8E88
	TessEvaluationShader ShaderStage = 0x8E87
	ComputeShader        ShaderStage = 0x91B9
)

// String returns a short stage name.
func (s ShaderStage) String() string {
	switch s {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	case GeometryShader:
		return "geometry"
	case TessControlShader:
		return "tess-control"
	case TessEvaluationShader:
		return "tess-evaluation"
	case ComputeShader:
		return "compute"
	default:
		return fmt.Sprintf("ShaderStage(0x%04X)", uint32(s))
	}
}

// ObjectKind identifies the namespace a native object id belongs to.
// Ids are only unique within a kind.
type ObjectKind uint8

// Object kinds.
const (
	KindBuffer ObjectKind = iota
	KindTexture
	KindQuery
	KindVertexArray
	KindFramebuffer
	KindRenderbuffer
	KindSampler
	KindShader
	KindProgram

	// NumObjectKinds is the number of object kinds.
	NumObjectKinds = int(KindProgram) + 1
)

var kindNames = [NumObjectKinds]string{
	"buffer", "texture", "query", "vertex-array", "framebuffer",
	"renderbuffer", "sampler", "shader", "program",
}

// String returns the kind name used in logs and metric labels.
func (k ObjectKind) String() string {
	if int(k) < NumObjectKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("ObjectKind(%d)", uint8(k))
}

// Valid reports whether k is a known kind.
func (k ObjectKind) Valid() bool {
	return int(k) < NumObjectKinds
}

// Image unit formats for BindImageTexture.
const (
	RGBA8   Enum = 0x8058
	RGBA32F Enum = 0x8814
	R32F    Enum = 0x822E
	R32UI   Enum = 0x8236
)
