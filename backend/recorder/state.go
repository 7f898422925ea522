package recorder

import (
	"github.com/gogpu/glfx"
	"github.com/gogpu/gputypes"
)

type bufferObject struct {
	data  []byte
	usage glfx.Enum
}

type textureObject struct {
	width, height int
	format        gputypes.TextureFormat
	pixels        []byte
	params        map[glfx.Enum]float32
}

type queryObject struct {
	target glfx.Enum
	result uint64
	active bool
}

// ImageBinding is the state of one image unit.
type ImageBinding struct {
	Texture uint32
	Level   int32
	Layered bool
	Layer   int32
	Access  glfx.Enum
	Format  glfx.Enum
}

type querySlot struct {
	target glfx.Enum
	index  uint32
}

type uniformKey struct {
	program  uint32
	location int32
}

// state is the context-global state the recorder tracks.
type state struct {
	viewports     map[uint32][4]float32
	imageUnits    map[uint32]ImageBinding
	patchVertices int32
	patchOuter    [4]float32
	patchInner    [2]float32
	dispatches    [][3]uint32
	program       uint32
	uniforms      map[uniformKey][16]float32
	activeQueries map[querySlot]uint32
	queryResults  map[glfx.Enum]uint64
}

func (s *state) init() {
	s.viewports = make(map[uint32][4]float32)
	s.imageUnits = make(map[uint32]ImageBinding)
	s.patchVertices = 3
	s.patchOuter = [4]float32{1, 1, 1, 1}
	s.patchInner = [2]float32{1, 1}
	s.uniforms = make(map[uniformKey][16]float32)
	s.activeQueries = make(map[querySlot]uint32)
	s.queryResults = make(map[glfx.Enum]uint64)
}

// BufferData implements glfx.Native.
func (r *Recorder) BufferData(buffer uint32, data []byte, usage glfx.Enum) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BufferData")
	obj, ok := r.lookup(glfx.KindBuffer, buffer)
	if !ok {
		r.raise("BufferData", glfx.InvalidOperation)
		return
	}
	b := obj.(*bufferObject)
	b.data = append(b.data[:0], data...)
	b.usage = usage
}

// BufferContents returns a copy of a buffer's storage.
func (r *Recorder) BufferContents(buffer uint32) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.lookup(glfx.KindBuffer, buffer)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.(*bufferObject).data...), true
}

// TexImage2D implements glfx.Native.
func (r *Recorder) TexImage2D(texture uint32, width, height int, format gputypes.TextureFormat, pixels []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("TexImage2D")
	obj, ok := r.lookup(glfx.KindTexture, texture)
	if !ok {
		r.raise("TexImage2D", glfx.InvalidOperation)
		return
	}
	maxSize := r.limitInt(glfx.MaxTextureSize, 0)
	if width < 0 || height < 0 || int64(width) > maxSize || int64(height) > maxSize {
		r.raise("TexImage2D", glfx.InvalidValue)
		return
	}
	t := obj.(*textureObject)
	t.width, t.height, t.format = width, height, format
	t.pixels = append(t.pixels[:0], pixels...)
}

// TexParameterf implements glfx.Native.
func (r *Recorder) TexParameterf(texture uint32, pname glfx.Enum, value float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("TexParameterf")
	obj, ok := r.lookup(glfx.KindTexture, texture)
	if !ok {
		r.raise("TexParameterf", glfx.InvalidOperation)
		return
	}
	if pname == glfx.TextureMaxAnisotropy && value < 1 {
		r.raise("TexParameterf", glfx.InvalidValue)
		return
	}
	obj.(*textureObject).params[pname] = value
}

// TextureParameter returns a texture parameter set with TexParameterf.
func (r *Recorder) TextureParameter(texture uint32, pname glfx.Enum) (float32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.lookup(glfx.KindTexture, texture)
	if !ok {
		return 0, false
	}
	v, ok := obj.(*textureObject).params[pname]
	return v, ok
}

// SetQueryResult sets the result the next query ended on target reports.
func (r *Recorder) SetQueryResult(target glfx.Enum, value uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queryResults[target] = value
}

// BeginQueryIndexed implements glfx.Native.
func (r *Recorder) BeginQueryIndexed(target glfx.Enum, index, query uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BeginQueryIndexed")
	obj, ok := r.lookup(glfx.KindQuery, query)
	if !ok {
		r.raise("BeginQueryIndexed", glfx.InvalidOperation)
		return
	}
	q := obj.(*queryObject)
	slot := querySlot{target, index}
	if _, busy := r.activeQueries[slot]; busy || q.active {
		r.raise("BeginQueryIndexed", glfx.InvalidOperation)
		return
	}
	if q.target != 0 && q.target != target {
		r.raise("BeginQueryIndexed", glfx.InvalidOperation)
		return
	}
	q.target = target
	q.active = true
	r.activeQueries[slot] = query
}

// EndQueryIndexed implements glfx.Native.
func (r *Recorder) EndQueryIndexed(target glfx.Enum, index uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("EndQueryIndexed")
	slot := querySlot{target, index}
	id, ok := r.activeQueries[slot]
	if !ok {
		r.raise("EndQueryIndexed", glfx.InvalidOperation)
		return
	}
	delete(r.activeQueries, slot)
	if obj, ok := r.lookup(glfx.KindQuery, id); ok {
		q := obj.(*queryObject)
		q.active = false
		q.result = r.queryResults[target]
	}
}

// freeQuerySlot ends the slot a deleted query was running on.
func (r *Recorder) freeQuerySlot(id uint32) {
	for slot, active := range r.activeQueries {
		if active == id {
			delete(r.activeQueries, slot)
		}
	}
}

// GetQueryObjectUint64 implements glfx.Native.
func (r *Recorder) GetQueryObjectUint64(query uint32, pname glfx.Enum) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GetQueryObjectUint64")
	obj, ok := r.lookup(glfx.KindQuery, query)
	if !ok || obj.(*queryObject).active {
		r.raise("GetQueryObjectUint64", glfx.InvalidOperation)
		return 0
	}
	switch pname {
	case glfx.QueryResult:
		return obj.(*queryObject).result
	case glfx.QueryResultAvailable:
		return 1
	default:
		r.raise("GetQueryObjectUint64", glfx.InvalidEnum)
		return 0
	}
}

// PatchParameteri implements glfx.Native.
func (r *Recorder) PatchParameteri(pname glfx.Enum, value int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("PatchParameteri")
	if pname != glfx.PatchVertices {
		r.raise("PatchParameteri", glfx.InvalidEnum)
		return
	}
	if value < 1 || int64(value) > r.limitInt(glfx.MaxPatchVertices, 0) {
		r.raise("PatchParameteri", glfx.InvalidValue)
		return
	}
	r.patchVertices = value
}

// PatchParameterfv implements glfx.Native.
func (r *Recorder) PatchParameterfv(pname glfx.Enum, values []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("PatchParameterfv")
	switch {
	case pname == glfx.PatchDefaultOuterLevel && len(values) == 4:
		copy(r.patchOuter[:], values)
	case pname == glfx.PatchDefaultInnerLevel && len(values) == 2:
		copy(r.patchInner[:], values)
	default:
		r.raise("PatchParameterfv", glfx.InvalidEnum)
	}
}

// Patch returns the patch vertex count and default tessellation levels.
func (r *Recorder) Patch() (vertices int32, outer [4]float32, inner [2]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.patchVertices, r.patchOuter, r.patchInner
}

// ViewportIndexedf implements glfx.Native.
func (r *Recorder) ViewportIndexedf(index uint32, x, y, width, height float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ViewportIndexedf")
	if int64(index) >= r.limitInt(glfx.MaxViewports, 1) || width < 0 || height < 0 {
		r.raise("ViewportIndexedf", glfx.InvalidValue)
		return
	}
	r.viewports[index] = [4]float32{x, y, width, height}
}

// Viewport returns viewport index as x, y, width, height.
func (r *Recorder) Viewport(index uint32) ([4]float32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.viewports[index]
	return v, ok
}

// BindImageTexture implements glfx.Native.
func (r *Recorder) BindImageTexture(unit, texture uint32, level int32, layered bool, layer int32, access, format glfx.Enum) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindImageTexture")
	if int64(unit) >= r.limitInt(glfx.MaxImageUnits, 0) || level < 0 {
		r.raise("BindImageTexture", glfx.InvalidValue)
		return
	}
	if texture != 0 {
		if _, ok := r.lookup(glfx.KindTexture, texture); !ok {
			r.raise("BindImageTexture", glfx.InvalidValue)
			return
		}
	}
	r.imageUnits[unit] = ImageBinding{
		Texture: texture,
		Level:   level,
		Layered: layered,
		Layer:   layer,
		Access:  access,
		Format:  format,
	}
}

// ImageUnit returns the binding of an image unit.
func (r *Recorder) ImageUnit(unit uint32) (ImageBinding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.imageUnits[unit]
	return b, ok
}

// DispatchCompute implements glfx.Native. The current program must have
// been linked with a compute shader.
func (r *Recorder) DispatchCompute(x, y, z uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DispatchCompute")
	obj, ok := r.lookup(glfx.KindProgram, r.program)
	if !ok || !obj.(*programObject).hasStage(glfx.ComputeShader) {
		r.raise("DispatchCompute", glfx.InvalidOperation)
		return
	}
	r.dispatches = append(r.dispatches, [3]uint32{x, y, z})
}

// Dispatches returns the work group counts of every dispatch.
func (r *Recorder) Dispatches() [][3]uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][3]uint32, len(r.dispatches))
	copy(out, r.dispatches)
	return out
}

// UseProgram implements glfx.Native.
func (r *Recorder) UseProgram(program uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("UseProgram")
	if program == 0 {
		r.program = 0
		return
	}
	obj, ok := r.lookup(glfx.KindProgram, program)
	if !ok || !obj.(*programObject).linked {
		r.raise("UseProgram", glfx.InvalidOperation)
		return
	}
	r.program = program
}

// CurrentProgram returns the program installed by UseProgram.
func (r *Recorder) CurrentProgram() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.program
}

// UniformMatrix4fv implements glfx.Native. Values are stored column-major
// as the shader sees them.
func (r *Recorder) UniformMatrix4fv(location int32, transpose bool, value *[16]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("UniformMatrix4fv")
	if r.program == 0 {
		r.raise("UniformMatrix4fv", glfx.InvalidOperation)
		return
	}
	if location == -1 {
		return
	}
	m := *value
	if transpose {
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				m[j*4+i] = value[i*4+j]
			}
		}
	}
	r.uniforms[uniformKey{r.program, location}] = m
}

// UniformMatrix returns the column-major matrix stored at a uniform
// location of program.
func (r *Recorder) UniformMatrix(program uint32, location int32) ([16]float32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.uniforms[uniformKey{program, location}]
	return m, ok
}
