package native

import (
	"fmt"
	"time"

	"github.com/gogpu/glfx"
	"github.com/gogpu/wgpu/hal"
)

type queryObject struct {
	target glfx.Enum
	active bool
	start  time.Time
	result uint64
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

// glState is the context state the HAL has no object for.
type glState struct {
	viewports     map[uint32][4]float32
	imageUnits    map[uint32]ImageBinding
	patchVertices int32
	patchOuter    [4]float32
	patchInner    [2]float32
	activeQueries map[querySlot]uint32
	submissions   uint64
}

func (s *glState) init() {
	s.viewports = make(map[uint32][4]float32)
	s.imageUnits = make(map[uint32]ImageBinding)
	s.patchVertices = 3
	s.patchOuter = [4]float32{1, 1, 1, 1}
	s.patchInner = [2]float32{1, 1}
	s.activeQueries = make(map[querySlot]uint32)
}

// BeginQueryIndexed implements glfx.Native. Only TimeElapsed queries
// measure anything: they report the wall time between begin and end.
// Other targets complete with a zero result.
func (a *HALAdapter) BeginQueryIndexed(target glfx.Enum, index, query uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindQuery, query)
	if !ok {
		a.raise("BeginQueryIndexed", glfx.InvalidOperation)
		return
	}
	q := obj.(*queryObject)
	slot := querySlot{target, index}
	if _, busy := a.gl.activeQueries[slot]; busy || q.active {
		a.raise("BeginQueryIndexed", glfx.InvalidOperation)
		return
	}
	if q.target != 0 && q.target != target {
		a.raise("BeginQueryIndexed", glfx.InvalidOperation)
		return
	}
	q.target = target
	q.active = true
	q.start = time.Now()
	a.gl.activeQueries[slot] = query
}

// EndQueryIndexed implements glfx.Native.
func (a *HALAdapter) EndQueryIndexed(target glfx.Enum, index uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	slot := querySlot{target, index}
	id, ok := a.gl.activeQueries[slot]
	if !ok {
		a.raise("EndQueryIndexed", glfx.InvalidOperation)
		return
	}
	delete(a.gl.activeQueries, slot)
	obj, ok := a.lookup(glfx.KindQuery, id)
	if !ok {
		return
	}
	q := obj.(*queryObject)
	q.active = false
	q.result = 0
	if target == glfx.TimeElapsed {
		q.result = uint64(time.Since(q.start).Nanoseconds())
	}
}

// GetQueryObjectUint64 implements glfx.Native.
func (a *HALAdapter) GetQueryObjectUint64(query uint32, pname glfx.Enum) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindQuery, query)
	if !ok || obj.(*queryObject).active {
		a.raise("GetQueryObjectUint64", glfx.InvalidOperation)
		return 0
	}
	switch pname {
	case glfx.QueryResult:
		return obj.(*queryObject).result
	case glfx.QueryResultAvailable:
		return 1
	default:
		a.raise("GetQueryObjectUint64", glfx.InvalidEnum)
		return 0
	}
}

// PatchParameteri implements glfx.Native.
func (a *HALAdapter) PatchParameteri(pname glfx.Enum, value int32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if pname != glfx.PatchVertices {
		a.raise("PatchParameteri", glfx.InvalidEnum)
		return
	}
	if value < 1 || int64(value) > a.capInt(glfx.MaxPatchVertices) {
		a.raise("PatchParameteri", glfx.InvalidValue)
		return
	}
	a.gl.patchVertices = value
}

// PatchParameterfv implements glfx.Native.
func (a *HALAdapter) PatchParameterfv(pname glfx.Enum, values []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case pname == glfx.PatchDefaultOuterLevel && len(values) == 4:
		copy(a.gl.patchOuter[:], values)
	case pname == glfx.PatchDefaultInnerLevel && len(values) == 2:
		copy(a.gl.patchInner[:], values)
	default:
		a.raise("PatchParameterfv", glfx.InvalidEnum)
	}
}

// Patch returns the patch vertex count and default tessellation levels.
func (a *HALAdapter) Patch() (vertices int32, outer [4]float32, inner [2]float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gl.patchVertices, a.gl.patchOuter, a.gl.patchInner
}

// ViewportIndexedf implements glfx.Native.
func (a *HALAdapter) ViewportIndexedf(index uint32, x, y, width, height float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int64(index) >= a.capInt(glfx.MaxViewports) || width < 0 || height < 0 {
		a.raise("ViewportIndexedf", glfx.InvalidValue)
		return
	}
	a.gl.viewports[index] = [4]float32{x, y, width, height}
}

// Viewport returns viewport index as x, y, width, height.
func (a *HALAdapter) Viewport(index uint32) ([4]float32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.gl.viewports[index]
	return v, ok
}

// BindImageTexture implements glfx.Native. The texture must have storage.
func (a *HALAdapter) BindImageTexture(unit, texture uint32, level int32, layered bool, layer int32, access, format glfx.Enum) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int64(unit) >= a.capInt(glfx.MaxImageUnits) || level < 0 {
		a.raise("BindImageTexture", glfx.InvalidValue)
		return
	}
	if texture != 0 {
		obj, ok := a.lookup(glfx.KindTexture, texture)
		if !ok {
			a.raise("BindImageTexture", glfx.InvalidValue)
			return
		}
		if obj.(*textureObject).tex == nil {
			a.raise("BindImageTexture", glfx.InvalidOperation)
			return
		}
	}
	a.gl.imageUnits[unit] = ImageBinding{
		Texture: texture,
		Level:   level,
		Layered: layered,
		Layer:   layer,
		Access:  access,
		Format:  format,
	}
}

// ImageUnit returns the binding of an image unit.
func (a *HALAdapter) ImageUnit(unit uint32) (ImageBinding, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.gl.imageUnits[unit]
	return b, ok
}

// DispatchCompute implements glfx.Native. The dispatch is recorded into
// a compute pass on the current program's pipeline and submitted.
func (a *HALAdapter) DispatchCompute(x, y, z uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindProgram, a.program)
	if !ok || obj.(*programObject).pipeline == nil {
		a.raise("DispatchCompute", glfx.InvalidOperation)
		return
	}
	maxGroups := a.limits.MaxComputeWorkgroupsPerDimension
	if x > maxGroups || y > maxGroups || z > maxGroups {
		a.raise("DispatchCompute", glfx.InvalidValue)
		return
	}
	if err := a.submitDispatch(obj.(*programObject).pipeline, x, y, z); err != nil {
		a.fail("DispatchCompute", err)
		return
	}
	a.gl.submissions++
}

func (a *HALAdapter) submitDispatch(pipeline hal.ComputePipeline, x, y, z uint32) error {
	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "glfx dispatch"})
	if err != nil {
		return err
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding(fmt.Sprintf("glfx dispatch %d", a.program)); err != nil {
		return err
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "glfx compute"})
	pass.SetPipeline(pipeline)
	pass.Dispatch(x, y, z)
	pass.End()
	cmd, err := encoder.EndEncoding()
	if err != nil {
		return err
	}
	defer a.device.FreeCommandBuffer(cmd)
	_, err = a.queue.Submit([]hal.CommandBuffer{cmd})
	return err
}

// Submissions returns the number of submitted compute dispatches.
func (a *HALAdapter) Submissions() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gl.submissions
}
