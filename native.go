package glfx

import "github.com/gogpu/gputypes"

// Native is the set of primitive calls a Context issues against the
// current native graphics context.
//
// Implementations wrap a platform binding (or, for backend/native, a wgpu
// HAL device). All methods operate on the context that is current for the
// calling goroutine; none of them block. Errors are not returned from the
// individual calls: like the underlying API, an implementation records an
// error code which the Context polls with GetError after each
// state-mutating call.
type Native interface {
	// GetInteger and GetFloat return a context limit. An unknown pname
	// records InvalidEnum and returns 0.
	GetInteger(pname Enum) int64
	GetFloat(pname Enum) float64

	// GetError returns and clears the oldest recorded error code.
	GetError() ErrorCode

	// GenObjects fills ids with fresh object names of the given kind.
	// On failure it records an error and leaves the ids zero.
	GenObjects(kind ObjectKind, ids []uint32)

	// DeleteObjects releases every id in ids. Unknown ids are ignored.
	DeleteObjects(kind ObjectKind, ids []uint32)

	BufferData(buffer uint32, data []byte, usage Enum)
	TexImage2D(texture uint32, width, height int, format gputypes.TextureFormat, pixels []byte)
	TexParameterf(texture uint32, pname Enum, value float32)

	ShaderSource(shader uint32, stage ShaderStage, source string)
	CompileShader(shader uint32)
	GetShaderInt(shader uint32, pname Enum) int32
	GetShaderInfoLog(shader uint32) string

	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	UseProgram(program uint32)
	GetProgramInt(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string

	// GetProgramBinary returns at most bufSize bytes of the program binary
	// and the binary's format.
	GetProgramBinary(program uint32, bufSize int32) (format Enum, data []byte)
	ProgramBinary(program uint32, format Enum, data []byte)

	GetUniformLocation(program uint32, name string) int32
	UniformMatrix4fv(location int32, transpose bool, value *[16]float32)

	BeginQueryIndexed(target Enum, index, query uint32)
	EndQueryIndexed(target Enum, index uint32)
	GetQueryObjectUint64(query uint32, pname Enum) uint64

	PatchParameteri(pname Enum, value int32)
	PatchParameterfv(pname Enum, values []float32)

	ViewportIndexedf(index uint32, x, y, width, height float32)
	BindImageTexture(unit, texture uint32, level int32, layered bool, layer int32, access, format Enum)
	DispatchCompute(x, y, z uint32)

	DebugMessageControl(source, typ, severity Enum, ids []uint32, enabled bool)
	DebugMessageInsert(source, typ Enum, id uint32, severity Enum, message string)

	// GetDebugMessageLog copies up to count messages into the parallel
	// slices and the flat messageLog buffer, and returns how many it
	// copied. Each lengths entry counts the message's trailing NUL.
	GetDebugMessageLog(count uint32, sources, types []Enum, ids []uint32, severities []Enum, lengths []int32, messageLog []byte) uint32
}
