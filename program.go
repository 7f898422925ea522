package glfx

import (
	"fmt"

	"github.com/gogpu/glfx/internal/cache"
)

// ProgramState is the link state of a Program.
type ProgramState uint8

// Program states. Link moves Unlinked (or any settled state) through
// Linking to Linked or LinkFailed. A binary upload settles the state
// directly from the refreshed link status.
const (
	ProgramUnlinked ProgramState = iota
	ProgramLinking
	ProgramLinked
	ProgramLinkFailed
)

// String returns the state name.
func (s ProgramState) String() string {
	switch s {
	case ProgramUnlinked:
		return "unlinked"
	case ProgramLinking:
		return "linking"
	case ProgramLinked:
		return "linked"
	case ProgramLinkFailed:
		return "link-failed"
	default:
		return fmt.Sprintf("ProgramState(%d)", uint8(s))
	}
}

// Shader is a native shader object.
type Shader struct {
	Handle
	stage    ShaderStage
	compiled bool
	infoLog  string
}

// Stage returns the stage of the last Compile call.
func (s *Shader) Stage() ShaderStage { return s.stage }

// Compiled reports whether the last Compile succeeded.
func (s *Shader) Compiled() bool { return s.compiled }

// InfoLog returns the compiler log of the last Compile call.
func (s *Shader) InfoLog() string { return s.infoLog }

// stageFeature returns the operation group a shader stage needs.
func stageFeature(stage ShaderStage) (Feature, bool) {
	switch stage {
	case VertexShader, FragmentShader, GeometryShader:
		return FeatureCore, true
	case TessControlShader, TessEvaluationShader:
		return FeatureTessellation, true
	case ComputeShader:
		return FeatureComputeShader, true
	default:
		return 0, false
	}
}

// Compile sets the shader source and compiles it. A compile failure
// returns an error wrapping ErrCompileFailed; InfoLog holds the details.
func (s *Shader) Compile(stage ShaderStage, source string) error {
	const op = "CompileShader"
	c := s.ctx
	f, ok := stageFeature(stage)
	if !ok {
		return precondition(op, ErrInvalidEnum, "shader stage 0x%04X", uint32(stage))
	}
	if err := c.require(op, f); err != nil {
		return err
	}
	id, err := s.Allocate()
	if err != nil {
		return err
	}

	s.stage = stage
	c.native.ShaderSource(id, stage, source)
	c.native.CompileShader(id)
	if err := c.check(op); err != nil {
		s.compiled = false
		return err
	}
	s.compiled = c.native.GetShaderInt(id, CompileStatus) != 0
	s.infoLog = c.native.GetShaderInfoLog(id)
	if !s.compiled {
		c.logger().Debug("glfx: shader compile failed", "stage", stage.String(), "id", id, "log", s.infoLog)
		return fmt.Errorf("%w: %s shader: %s", ErrCompileFailed, stage, s.infoLog)
	}
	return nil
}

// Program is a native program object.
type Program struct {
	Handle
	state   ProgramState
	infoLog string
	shaders []*Shader

	// uniforms maps uniform names to locations for the current link.
	uniforms *cache.Cache[string, int32]
}

// State returns the link state.
func (p *Program) State() ProgramState { return p.state }

// Release deletes the native program and forgets its link state, attached
// shaders and uniform locations.
func (p *Program) Release() {
	p.Handle.Release()
	p.state = ProgramUnlinked
	p.infoLog = ""
	p.shaders = nil
	if p.uniforms != nil {
		p.uniforms.Purge()
	}
}

// InfoLog returns the linker log of the last link or binary upload.
func (p *Program) InfoLog() string { return p.infoLog }

// Shaders returns the attached shaders.
func (p *Program) Shaders() []*Shader {
	out := make([]*Shader, len(p.shaders))
	copy(out, p.shaders)
	return out
}

// AttachShader attaches s to p. Both objects are allocated if needed.
func (p *Program) AttachShader(s *Shader) error {
	const op = "AttachShader"
	c := p.ctx
	if err := c.require(op, FeatureCore); err != nil {
		return err
	}
	if s == nil {
		return precondition(op, ErrInvalidArgument, "nil shader")
	}
	if err := p.mustBeLive(c, op); err != nil {
		return err
	}
	if err := s.mustBeLive(c, op); err != nil {
		return err
	}
	pid, err := p.Allocate()
	if err != nil {
		return err
	}
	sid, err := s.Allocate()
	if err != nil {
		return err
	}
	c.native.AttachShader(pid, sid)
	if err := c.check(op); err != nil {
		return err
	}
	p.shaders = append(p.shaders, s)
	return nil
}

// Link links the attached shaders. A link failure returns an error
// wrapping ErrLinkFailed and leaves the program in ProgramLinkFailed.
func (p *Program) Link() error {
	const op = "LinkProgram"
	c := p.ctx
	if err := c.require(op, FeatureCore); err != nil {
		return err
	}
	id, err := p.Allocate()
	if err != nil {
		return err
	}

	p.state = ProgramLinking
	c.native.LinkProgram(id)
	callErr := c.check(op)
	c.refreshProgram(p, id)
	if callErr != nil {
		return callErr
	}
	if p.state != ProgramLinked {
		return fmt.Errorf("%w: %s", ErrLinkFailed, p.infoLog)
	}
	return nil
}

// UniformLocation returns the location of an active uniform, or -1 if the
// program has no active uniform of that name. Lookups are cached until the
// next link or binary upload.
func (p *Program) UniformLocation(name string) (int32, error) {
	const op = "GetUniformLocation"
	c := p.ctx
	if c.closed {
		return -1, ErrContextClosed
	}
	if err := p.mustBeLive(c, op); err != nil {
		return -1, err
	}
	if p.state != ProgramLinked {
		return -1, &ProgramStateError{Op: op, State: p.state}
	}
	id := p.ID()
	return p.uniforms.GetOrLoad(name, func() (int32, error) {
		loc := c.native.GetUniformLocation(id, name)
		if err := c.check(op); err != nil {
			return -1, err
		}
		return loc, nil
	})
}

// refreshProgram re-reads link status and info log and drops the uniform
// locations of the previous link.
func (c *Context) refreshProgram(p *Program, id uint32) {
	linked := c.native.GetProgramInt(id, LinkStatus) != 0
	p.infoLog = c.native.GetProgramInfoLog(id)
	p.uniforms.Purge()
	if linked {
		p.state = ProgramLinked
	} else {
		p.state = ProgramLinkFailed
	}
	c.logger().Debug("glfx: program refreshed", "id", id, "state", p.state.String())
}

// UseProgram installs p as the current program.
func (c *Context) UseProgram(p *Program) error {
	const op = "UseProgram"
	if err := c.require(op, FeatureCore); err != nil {
		return err
	}
	if p == nil {
		return precondition(op, ErrInvalidArgument, "nil program")
	}
	if err := p.mustBeLive(c, op); err != nil {
		return err
	}
	if p.state != ProgramLinked {
		return &ProgramStateError{Op: op, State: p.state}
	}
	c.native.UseProgram(p.ID())
	return c.check(op)
}

// ProgramBinary returns the binary of a linked program and its format.
// The length is queried first, then the binary is fetched with that
// length as the buffer size.
func (c *Context) ProgramBinary(p *Program) (Enum, []byte, error) {
	const op = "GetProgramBinary"
	if err := c.require(op, FeatureProgramBinary); err != nil {
		return 0, nil, err
	}
	if p == nil {
		return 0, nil, precondition(op, ErrInvalidArgument, "nil program")
	}
	if err := p.mustBeLive(c, op); err != nil {
		return 0, nil, err
	}
	if p.state != ProgramLinked {
		return 0, nil, &ProgramStateError{Op: op, State: p.state}
	}

	id := p.ID()
	length := c.native.GetProgramInt(id, ProgramBinaryLength)
	if err := c.check(op); err != nil {
		return 0, nil, err
	}
	if length <= 0 {
		return 0, nil, ErrNoBinaryFormats
	}
	format, data := c.native.GetProgramBinary(id, length)
	if err := c.check(op); err != nil {
		return 0, nil, err
	}
	return format, data, nil
}

// SetProgramBinary replaces p with a binary previously returned by
// ProgramBinary. The link state, info log and uniform locations are
// refreshed whether or not the upload succeeded; a binary the native layer
// rejects leaves p in ProgramLinkFailed and returns an error wrapping
// ErrLinkFailed.
func (c *Context) SetProgramBinary(p *Program, format Enum, data []byte) error {
	const op = "ProgramBinary"
	if err := c.require(op, FeatureProgramBinary); err != nil {
		return err
	}
	if p == nil {
		return precondition(op, ErrInvalidArgument, "nil program")
	}
	if err := p.mustBeLive(c, op); err != nil {
		return err
	}
	if len(data) == 0 {
		return precondition(op, ErrInvalidArgument, "empty program binary")
	}
	id, err := p.Allocate()
	if err != nil {
		return err
	}

	c.native.ProgramBinary(id, format, data)
	callErr := c.check(op)
	c.refreshProgram(p, id)
	if callErr != nil {
		return callErr
	}
	if p.state != ProgramLinked {
		return fmt.Errorf("%w: binary format 0x%04X: %s", ErrLinkFailed, uint32(format), p.infoLog)
	}
	return nil
}

// UniformMatrix uploads the current matrix of the mode's stack to the
// named mat4 uniform of p. p becomes the current program.
func (c *Context) UniformMatrix(p *Program, name string, mode MatrixMode) error {
	const op = "UniformMatrix4fv"
	if err := c.require(op, FeatureCore); err != nil {
		return err
	}
	if mode >= numMatrixModes {
		return precondition(op, ErrInvalidEnum, "matrix mode %s", mode)
	}
	if p == nil {
		return precondition(op, ErrInvalidArgument, "nil program")
	}
	if err := p.mustBeLive(c, op); err != nil {
		return err
	}
	loc, err := p.UniformLocation(name)
	if err != nil {
		return err
	}
	if loc < 0 {
		return precondition(op, ErrInvalidArgument, "uniform %q is not active", name)
	}
	c.native.UseProgram(p.ID())
	// Stack matrices are row-major; the native layer expects columns.
	c.native.UniformMatrix4fv(loc, true, (*[16]float32)(c.stacks[mode].Peek()))
	return c.check(op)
}
