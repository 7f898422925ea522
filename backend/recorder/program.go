package recorder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/glfx"
)

// BinaryFormat is the program binary format of the recorder.
const BinaryFormat glfx.Enum = 0x7E00

// binaryMagic starts every recorder program binary.
var binaryMagic = [8]byte{'G', 'L', 'F', 'X', 'R', 'E', 'C', '1'}

type shaderObject struct {
	stage    glfx.ShaderStage
	source   string
	compiled bool
	infoLog  string
}

// stageSource is one compiled stage of a linked program.
type stageSource struct {
	stage  glfx.ShaderStage
	source string
}

type programObject struct {
	attached []uint32
	linked   bool
	infoLog  string
	stages   []stageSource

	locations map[string]int32
	next      int32
}

func (p *programObject) hasStage(stage glfx.ShaderStage) bool {
	if !p.linked {
		return false
	}
	for _, s := range p.stages {
		if s.stage == stage {
			return true
		}
	}
	return false
}

// settle replaces the linked stages and forgets uniform locations.
func (p *programObject) settle(linked bool, stages []stageSource, log string) {
	p.linked = linked
	p.infoLog = log
	p.locations = nil
	p.next = 0
	if linked {
		p.stages = stages
	} else {
		p.stages = nil
	}
}

// ShaderSource implements glfx.Native.
func (r *Recorder) ShaderSource(shader uint32, stage glfx.ShaderStage, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ShaderSource")
	obj, ok := r.lookup(glfx.KindShader, shader)
	if !ok {
		r.raise("ShaderSource", glfx.InvalidValue)
		return
	}
	s := obj.(*shaderObject)
	s.stage = stage
	s.source = source
}

// CompileShader implements glfx.Native.
func (r *Recorder) CompileShader(shader uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("CompileShader")
	obj, ok := r.lookup(glfx.KindShader, shader)
	if !ok {
		r.raise("CompileShader", glfx.InvalidValue)
		return
	}
	s := obj.(*shaderObject)
	s.compiled, s.infoLog = r.compile(s.stage, s.source)
	if !s.compiled {
		r.emit(glfx.DebugMessage{
			Source:   glfx.DebugSourceShaderCompiler,
			Type:     glfx.DebugTypeError,
			ID:       shader,
			Severity: glfx.DebugSeverityHigh,
			Text:     s.infoLog,
		})
	}
}

// GetShaderInt implements glfx.Native.
func (r *Recorder) GetShaderInt(shader uint32, pname glfx.Enum) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetShaderInt")
	obj, ok := r.lookup(glfx.KindShader, shader)
	if !ok {
		r.raise("GetShaderInt", glfx.InvalidValue)
		return 0
	}
	s := obj.(*shaderObject)
	switch pname {
	case glfx.CompileStatus:
		return boolInt(s.compiled)
	case glfx.InfoLogLength:
		return logLength(s.infoLog)
	default:
		r.raise("GetShaderInt", glfx.InvalidEnum)
		return 0
	}
}

// GetShaderInfoLog implements glfx.Native.
func (r *Recorder) GetShaderInfoLog(shader uint32) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetShaderInfoLog")
	obj, ok := r.lookup(glfx.KindShader, shader)
	if !ok {
		r.raise("GetShaderInfoLog", glfx.InvalidValue)
		return ""
	}
	return obj.(*shaderObject).infoLog
}

// AttachShader implements glfx.Native.
func (r *Recorder) AttachShader(program, shader uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("AttachShader")
	pobj, ok := r.lookup(glfx.KindProgram, program)
	if !ok {
		r.raise("AttachShader", glfx.InvalidValue)
		return
	}
	if _, ok := r.lookup(glfx.KindShader, shader); !ok {
		r.raise("AttachShader", glfx.InvalidValue)
		return
	}
	p := pobj.(*programObject)
	for _, id := range p.attached {
		if id == shader {
			r.raise("AttachShader", glfx.InvalidOperation)
			return
		}
	}
	p.attached = append(p.attached, shader)
}

// LinkProgram implements glfx.Native. A program links when at least one
// shader is attached and every attached shader compiled.
func (r *Recorder) LinkProgram(program uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("LinkProgram")
	obj, ok := r.lookup(glfx.KindProgram, program)
	if !ok {
		r.raise("LinkProgram", glfx.InvalidValue)
		return
	}
	p := obj.(*programObject)
	if len(p.attached) == 0 {
		p.settle(false, nil, "error: no shaders attached")
		return
	}
	stages := make([]stageSource, 0, len(p.attached))
	for _, id := range p.attached {
		sobj, ok := r.lookup(glfx.KindShader, id)
		if !ok {
			p.settle(false, nil, fmt.Sprintf("error: shader %d was deleted", id))
			return
		}
		s := sobj.(*shaderObject)
		if !s.compiled {
			p.settle(false, nil, fmt.Sprintf("error: %s shader %d is not compiled", s.stage, id))
			return
		}
		stages = append(stages, stageSource{stage: s.stage, source: s.source})
	}
	p.settle(true, stages, "")
}

// GetProgramInt implements glfx.Native.
func (r *Recorder) GetProgramInt(program uint32, pname glfx.Enum) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetProgramInt")
	obj, ok := r.lookup(glfx.KindProgram, program)
	if !ok {
		r.raise("GetProgramInt", glfx.InvalidValue)
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
		r.raise("GetProgramInt", glfx.InvalidEnum)
		return 0
	}
}

// GetProgramInfoLog implements glfx.Native.
func (r *Recorder) GetProgramInfoLog(program uint32) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetProgramInfoLog")
	obj, ok := r.lookup(glfx.KindProgram, program)
	if !ok {
		r.raise("GetProgramInfoLog", glfx.InvalidValue)
		return ""
	}
	return obj.(*programObject).infoLog
}

// GetProgramBinary implements glfx.Native.
func (r *Recorder) GetProgramBinary(program uint32, bufSize int32) (glfx.Enum, []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetProgramBinary")
	obj, ok := r.lookup(glfx.KindProgram, program)
	if !ok {
		r.raise("GetProgramBinary", glfx.InvalidValue)
		return 0, nil
	}
	p := obj.(*programObject)
	if !p.linked {
		r.raise("GetProgramBinary", glfx.InvalidOperation)
		return 0, nil
	}
	data := encodeBinary(p.stages)
	if int(bufSize) < len(data) {
		r.raise("GetProgramBinary", glfx.InvalidOperation)
		return 0, nil
	}
	return BinaryFormat, data
}

// ProgramBinary implements glfx.Native. An unknown format records
// InvalidEnum; a corrupt binary leaves the program unlinked without an
// error, as drivers do.
func (r *Recorder) ProgramBinary(program uint32, format glfx.Enum, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ProgramBinary")
	obj, ok := r.lookup(glfx.KindProgram, program)
	if !ok {
		r.raise("ProgramBinary", glfx.InvalidValue)
		return
	}
	p := obj.(*programObject)
	if format != BinaryFormat {
		p.settle(false, nil, fmt.Sprintf("error: unsupported binary format 0x%04X", uint32(format)))
		r.raise("ProgramBinary", glfx.InvalidEnum)
		return
	}
	stages, err := decodeBinary(data)
	if err != nil {
		p.settle(false, nil, "error: "+err.Error())
		return
	}
	p.settle(true, stages, "")
}

// GetUniformLocation implements glfx.Native. A name gets a location when
// it occurs in one of the linked sources.
func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetUniformLocation")
	obj, ok := r.lookup(glfx.KindProgram, program)
	if !ok {
		r.raise("GetUniformLocation", glfx.InvalidValue)
		return -1
	}
	p := obj.(*programObject)
	if !p.linked {
		r.raise("GetUniformLocation", glfx.InvalidOperation)
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

// encodeBinary serializes linked stages:
//
//	magic [8]byte
//	count uint32
//	count * { stage uint32, length uint32, source [length]byte }
//
// All integers are little-endian.
func encodeBinary(stages []stageSource) []byte {
	var buf bytes.Buffer
	buf.Write(binaryMagic[:])
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(stages)))
	for _, s := range stages {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(s.stage))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(s.source)))
		buf.WriteString(s.source)
	}
	return buf.Bytes()
}

var errCorruptBinary = errors.New("corrupt program binary")

func decodeBinary(data []byte) ([]stageSource, error) {
	rd := bytes.NewReader(data)
	var magic [8]byte
	if _, err := io.ReadFull(rd, magic[:]); err != nil || magic != binaryMagic {
		return nil, errCorruptBinary
	}
	var count uint32
	if err := binary.Read(rd, binary.LittleEndian, &count); err != nil || count == 0 {
		return nil, errCorruptBinary
	}
	if int64(count)*8 > int64(rd.Len()) {
		return nil, errCorruptBinary
	}
	stages := make([]stageSource, 0, count)
	for range count {
		var hdr struct{ Stage, Length uint32 }
		if err := binary.Read(rd, binary.LittleEndian, &hdr); err != nil {
			return nil, errCorruptBinary
		}
		if int64(hdr.Length) > int64(rd.Len()) {
			return nil, errCorruptBinary
		}
		src := make([]byte, hdr.Length)
		if _, err := io.ReadFull(rd, src); err != nil {
			return nil, errCorruptBinary
		}
		stages = append(stages, stageSource{stage: glfx.ShaderStage(hdr.Stage), source: string(src)})
	}
	if rd.Len() != 0 {
		return nil, errCorruptBinary
	}
	return stages, nil
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
