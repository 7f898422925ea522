package native

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/gogpu/glfx"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// stageAttribute is the WGSL entry point attribute of each stage WGSL
// can express.
var stageAttribute = map[glfx.ShaderStage]string{
	glfx.VertexShader:   "@vertex",
	glfx.FragmentShader: "@fragment",
	glfx.ComputeShader:  "@compute",
}

type shaderObject struct {
	stage    glfx.ShaderStage
	source   string
	compiled bool
	infoLog  string
	spirv    []uint32
	module   hal.ShaderModule
}

func (s *shaderObject) release(d hal.Device) {
	if s.module != nil {
		d.DestroyShaderModule(s.module)
		s.module = nil
	}
	s.spirv = nil
	s.compiled = false
}

// linkedStage is one stage of a linked program. The program owns its
// modules so shaders can be deleted after linking.
type linkedStage struct {
	stage  glfx.ShaderStage
	source string
	spirv  []uint32
	module hal.ShaderModule
}

type programObject struct {
	attached []uint32
	linked   bool
	infoLog  string
	stages   []linkedStage

	layout   hal.PipelineLayout
	pipeline hal.ComputePipeline

	locations map[string]int32
	next      int32
	uniforms  hal.Buffer
	shadow    []byte
}

func (p *programObject) hasStage(stage glfx.ShaderStage) bool {
	for _, s := range p.stages {
		if s.stage == stage {
			return true
		}
	}
	return false
}

func (p *programObject) release(d hal.Device) {
	if p.pipeline != nil {
		d.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.layout != nil {
		d.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	for _, s := range p.stages {
		if s.module != nil {
			d.DestroyShaderModule(s.module)
		}
	}
	p.stages = nil
	if p.uniforms != nil {
		d.DestroyBuffer(p.uniforms)
		p.uniforms = nil
	}
	p.shadow = nil
	p.locations = nil
	p.next = 0
	p.linked = false
}

// compileWGSL translates WGSL to SPIR-V words.
func compileWGSL(source string) ([]uint32, error) {
	code, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}
	if len(code)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V length %d is not a multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words, nil
}

// entryPoint returns the name of the function following attr in a WGSL
// source, or "" if there is none.
func entryPoint(source, attr string) string {
	i := strings.Index(source, attr)
	if i < 0 {
		return ""
	}
	rest := source[i+len(attr):]
	j := strings.Index(rest, "fn ")
	if j < 0 {
		return ""
	}
	rest = strings.TrimLeftFunc(rest[j+3:], unicode.IsSpace)
	end := strings.IndexFunc(rest, func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if end < 0 {
		end = len(rest)
	}
	return rest[:end]
}

// ShaderSource implements glfx.Native.
func (a *HALAdapter) ShaderSource(shader uint32, stage glfx.ShaderStage, source string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindShader, shader)
	if !ok {
		a.raise("ShaderSource", glfx.InvalidValue)
		return
	}
	s := obj.(*shaderObject)
	s.stage = stage
	s.source = source
}

// CompileShader implements glfx.Native. The source must be WGSL with an
// entry point for the shader's stage.
func (a *HALAdapter) CompileShader(shader uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindShader, shader)
	if !ok {
		a.raise("CompileShader", glfx.InvalidValue)
		return
	}
	s := obj.(*shaderObject)
	s.release(a.device)
	s.infoLog = ""
	if err := a.compile(shader, s); err != nil {
		s.infoLog = "error: " + err.Error()
		a.emit(glfx.DebugMessage{
			Source:   glfx.DebugSourceShaderCompiler,
			Type:     glfx.DebugTypeError,
			ID:       shader,
			Severity: glfx.DebugSeverityHigh,
			Text:     s.infoLog,
		})
		return
	}
	s.compiled = true
}

func (a *HALAdapter) compile(id uint32, s *shaderObject) error {
	attr, ok := stageAttribute[s.stage]
	if !ok {
		return fmt.Errorf("WGSL has no %s stage", s.stage)
	}
	if entryPoint(s.source, attr) == "" {
		return fmt.Errorf("no %s entry point", attr)
	}
	words, err := compileWGSL(s.source)
	if err != nil {
		return err
	}
	module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  fmt.Sprintf("glfx shader %d", id),
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return err
	}
	s.spirv, s.module = words, module
	return nil
}

// GetShaderInt implements glfx.Native.
func (a *HALAdapter) GetShaderInt(shader uint32, pname glfx.Enum) int32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindShader, shader)
	if !ok {
		a.raise("GetShaderInt", glfx.InvalidValue)
		return 0
	}
	s := obj.(*shaderObject)
	switch pname {
	case glfx.CompileStatus:
		return boolInt(s.compiled)
	case glfx.InfoLogLength:
		return logLength(s.infoLog)
	default:
		a.raise("GetShaderInt", glfx.InvalidEnum)
		return 0
	}
}

// GetShaderInfoLog implements glfx.Native.
func (a *HALAdapter) GetShaderInfoLog(shader uint32) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindShader, shader)
	if !ok {
		a.raise("GetShaderInfoLog", glfx.InvalidValue)
		return ""
	}
	return obj.(*shaderObject).infoLog
}

// AttachShader implements glfx.Native.
func (a *HALAdapter) AttachShader(program, shader uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	pobj, ok := a.lookup(glfx.KindProgram, program)
	if !ok {
		a.raise("AttachShader", glfx.InvalidValue)
		return
	}
	if _, ok := a.lookup(glfx.KindShader, shader); !ok {
		a.raise("AttachShader", glfx.InvalidValue)
		return
	}
	p := pobj.(*programObject)
	for _, id := range p.attached {
		if id == shader {
			a.raise("AttachShader", glfx.InvalidOperation)
			return
		}
	}
	p.attached = append(p.attached, shader)
}

// LinkProgram implements glfx.Native.
func (a *HALAdapter) LinkProgram(program uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindProgram, program)
	if !ok {
		a.raise("LinkProgram", glfx.InvalidValue)
		return
	}
	p := obj.(*programObject)
	if len(p.attached) == 0 {
		a.settle(program, p, nil, "error: no shaders attached")
		return
	}
	stages := make([]linkedStage, 0, len(p.attached))
	for _, id := range p.attached {
		sobj, ok := a.lookup(glfx.KindShader, id)
		if !ok {
			a.settle(program, p, nil, fmt.Sprintf("error: shader %d was deleted", id))
			return
		}
		s := sobj.(*shaderObject)
		if !s.compiled {
			a.settle(program, p, nil, fmt.Sprintf("error: %s shader %d is not compiled", s.stage, id))
			return
		}
		stages = append(stages, linkedStage{stage: s.stage, source: s.source, spirv: s.spirv})
	}
	a.settle(program, p, stages, "")
}

// settle replaces the program's linked state. A nil stages slice leaves
// the program unlinked with log as its info log. Caller must hold a.mu.
func (a *HALAdapter) settle(id uint32, p *programObject, stages []linkedStage, log string) {
	p.release(a.device)
	p.infoLog = log
	if stages == nil {
		return
	}
	for i := range stages {
		module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  fmt.Sprintf("glfx program %d %s", id, stages[i].stage),
			Source: hal.ShaderSource{SPIRV: stages[i].spirv},
		})
		if err != nil {
			p.stages = stages[:i]
			p.release(a.device)
			p.infoLog = "error: " + err.Error()
			return
		}
		stages[i].module = module
	}
	p.stages = stages
	for _, s := range stages {
		if s.stage != glfx.ComputeShader {
			continue
		}
		if err := a.buildComputePipeline(id, p, s); err != nil {
			p.release(a.device)
			p.infoLog = "error: " + err.Error()
			return
		}
	}
	p.linked = true
}

func (a *HALAdapter) buildComputePipeline(id uint32, p *programObject, s linkedStage) error {
	layout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: fmt.Sprintf("glfx program %d layout", id),
	})
	if err != nil {
		return err
	}
	p.layout = layout
	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  fmt.Sprintf("glfx program %d", id),
		Layout: layout,
		Compute: hal.ComputeState{
			Module:     s.module,
			EntryPoint: entryPoint(s.source, stageAttribute[glfx.ComputeShader]),
		},
	})
	if err != nil {
		return err
	}
	p.pipeline = pipeline
	return nil
}

// GetProgramInt implements glfx.Native.
func (a *HALAdapter) GetProgramInt(program uint32, pname glfx.Enum) int32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindProgram, program)
	if !ok {
		a.raise("GetProgramInt", glfx.InvalidValue)
		return 0
	}
	p := obj.(*programObject)
	switch pname {
	case glfx.LinkStatus:
		return boolInt(p.linked)
	case glfx.InfoLogLength:
		return logLength(p.infoLog)
	case glfx.ProgramBinaryLength:
		if !p.linked {
			return 0
		}
		return int32(len(encodeBinary(p.stages)))
	default:
		a.raise("GetProgramInt", glfx.InvalidEnum)
		return 0
	}
}

// GetProgramInfoLog implements glfx.Native.
func (a *HALAdapter) GetProgramInfoLog(program uint32) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindProgram, program)
	if !ok {
		a.raise("GetProgramInfoLog", glfx.InvalidValue)
		return ""
	}
	return obj.(*programObject).infoLog
}

// GetProgramBinary implements glfx.Native. The binary is in
// BinaryFormatSPIRV.
func (a *HALAdapter) GetProgramBinary(program uint32, bufSize int32) (glfx.Enum, []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindProgram, program)
	if !ok {
		a.raise("GetProgramBinary", glfx.InvalidValue)
		return 0, nil
	}
	p := obj.(*programObject)
	if !p.linked {
		a.raise("GetProgramBinary", glfx.InvalidOperation)
		return 0, nil
	}
	data := encodeBinary(p.stages)
	if int(bufSize) < len(data) {
		a.raise("GetProgramBinary", glfx.InvalidOperation)
		return 0, nil
	}
	return BinaryFormatSPIRV, data
}

// ProgramBinary implements glfx.Native. The SPIR-V in the binary is
// loaded into new shader modules; an unreadable binary leaves the program
// unlinked without an error.
func (a *HALAdapter) ProgramBinary(program uint32, format glfx.Enum, data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindProgram, program)
	if !ok {
		a.raise("ProgramBinary", glfx.InvalidValue)
		return
	}
	p := obj.(*programObject)
	if format != BinaryFormatSPIRV {
		a.settle(program, p, nil, fmt.Sprintf("error: unsupported binary format 0x%04X", uint32(format)))
		a.raise("ProgramBinary", glfx.InvalidEnum)
		return
	}
	stages, err := decodeBinary(data)
	if err != nil {
		a.settle(program, p, nil, "error: "+err.Error())
		return
	}
	a.settle(program, p, stages, "")
}

// GetUniformLocation implements glfx.Native. Locations are handed out in
// lookup order to names that occur in a linked stage's source.
func (a *HALAdapter) GetUniformLocation(program uint32, name string) int32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindProgram, program)
	if !ok {
		a.raise("GetUniformLocation", glfx.InvalidValue)
		return -1
	}
	p := obj.(*programObject)
	if !p.linked {
		a.raise("GetUniformLocation", glfx.InvalidOperation)
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	if name == "" || strings.HasPrefix(name, "gl_") {
		return -1
	}
	for _, s := range p.stages {
		if strings.Contains(s.source, name) {
			if p.locations == nil {
				p.locations = make(map[string]int32)
			}
			loc := p.next
			p.next++
			p.locations[name] = loc
			return loc
		}
	}
	return -1
}

// matrixSize is the byte size of one mat4x4<f32> uniform slot.
const matrixSize = 64

// UniformMatrix4fv implements glfx.Native. Each location owns a 64-byte
// slot of the current program's uniform buffer; values are stored
// column-major as WGSL reads them.
func (a *HALAdapter) UniformMatrix4fv(location int32, transpose bool, value *[16]float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindProgram, a.program)
	if !ok {
		a.raise("UniformMatrix4fv", glfx.InvalidOperation)
		return
	}
	if location == -1 {
		return
	}
	p := obj.(*programObject)
	if location < 0 || location >= p.next {
		a.raise("UniformMatrix4fv", glfx.InvalidOperation)
		return
	}
	m := *value
	if transpose {
		for i := range 4 {
			for j := range 4 {
				m[j*4+i] = value[i*4+j]
			}
		}
	}
	var slot [matrixSize]byte
	for i, f := range m {
		binary.LittleEndian.PutUint32(slot[i*4:], math.Float32bits(f))
	}

	offset := uint64(location) * matrixSize
	need := offset + matrixSize
	if uint64(len(p.shadow)) < need {
		p.shadow = append(p.shadow, make([]byte, need-uint64(len(p.shadow)))...)
		if p.uniforms != nil {
			a.device.DestroyBuffer(p.uniforms)
			p.uniforms = nil
		}
	}
	copy(p.shadow[offset:], slot[:])

	if p.uniforms == nil {
		buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("glfx program %d uniforms", a.program),
			Size:  uint64(len(p.shadow)),
			Usage: bufferUsage,
		})
		if err != nil {
			a.fail("UniformMatrix4fv", err)
			return
		}
		p.uniforms = buf
		if err := a.queue.WriteBuffer(buf, 0, p.shadow); err != nil {
			a.fail("UniformMatrix4fv", err)
		}
		return
	}
	if err := a.queue.WriteBuffer(p.uniforms, offset, slot[:]); err != nil {
		a.fail("UniformMatrix4fv", err)
	}
}

// UniformMatrix returns the column-major matrix last written to a
// uniform location of program.
func (a *HALAdapter) UniformMatrix(program uint32, location int32) ([16]float32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindProgram, program)
	if !ok || location < 0 {
		return [16]float32{}, false
	}
	p := obj.(*programObject)
	offset := int(location) * matrixSize
	if offset+matrixSize > len(p.shadow) {
		return [16]float32{}, false
	}
	var m [16]float32
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(p.shadow[offset+i*4:]))
	}
	return m, true
}

// UniformBuffer returns the HAL buffer holding program's uniforms, or
// nil before the first upload.
func (a *HALAdapter) UniformBuffer(program uint32) hal.Buffer {
	a.mu.Lock()
	defer a.mu.Unlock()
	if obj, ok := a.lookup(glfx.KindProgram, program); ok {
		return obj.(*programObject).uniforms
	}
	return nil
}

// UseProgram implements glfx.Native.
func (a *HALAdapter) UseProgram(program uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if program == 0 {
		a.program = 0
		return
	}
	obj, ok := a.lookup(glfx.KindProgram, program)
	if !ok || !obj.(*programObject).linked {
		a.raise("UseProgram", glfx.InvalidOperation)
		return
	}
	a.program = program
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// logLength counts the trailing NUL, as INFO_LOG_LENGTH does.
func logLength(s string) int32 {
	if s == "" {
		return 0
	}
	return int32(len(s) + 1)
}
