package native

import (
	"testing"
	"unsafe"

	"github.com/gogpu/glfx"
	"github.com/gogpu/wgpu/hal"
)

const computeWGSL = `
@group(0) @binding(0) var<storage, read_write> data: array<f32>;

@compute @workgroup_size(64)
fn double_values(@builtin(global_invocation_id) id: vec3<u32>) {
    data[id.x] = data[id.x] * 2.0;
}
`

const vertexWGSL = `
struct Uniforms {
    u_mvp: mat4x4<f32>,
}

@group(0) @binding(0) var<uniform> uniforms: Uniforms;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return uniforms.u_mvp * vec4<f32>(position, 1.0);
}
`

const fragmentWGSL = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

// openNoop returns an adapter on a noop device, closed at cleanup.
func openNoop(t *testing.T) *HALAdapter {
	t.Helper()
	a, err := OpenNoop()
	if err != nil {
		t.Fatalf("OpenNoop() error = %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

// expectError fails unless the next queued error is want.
func expectError(t *testing.T, a *HALAdapter, want glfx.ErrorCode) {
	t.Helper()
	if got := a.GetError(); got != want {
		t.Errorf("GetError() = %v, want %v", got, want)
	}
}

func gen(a *HALAdapter, kind glfx.ObjectKind) uint32 {
	ids := make([]uint32, 1)
	a.GenObjects(kind, ids)
	return ids[0]
}

func compileShader(t *testing.T, a *HALAdapter, stage glfx.ShaderStage, source string) uint32 {
	t.Helper()
	s := gen(a, glfx.KindShader)
	a.ShaderSource(s, stage, source)
	a.CompileShader(s)
	if a.GetShaderInt(s, glfx.CompileStatus) != 1 {
		t.Fatalf("%s shader did not compile: %s", stage, a.GetShaderInfoLog(s))
	}
	return s
}

// linkProgram compiles and links the given stages and fails the test on
// any error.
func linkProgram(t *testing.T, a *HALAdapter, stages map[glfx.ShaderStage]string) uint32 {
	t.Helper()
	p := gen(a, glfx.KindProgram)
	for stage, src := range stages {
		a.AttachShader(p, compileShader(t, a, stage, src))
	}
	a.LinkProgram(p)
	if a.GetProgramInt(p, glfx.LinkStatus) != 1 {
		t.Fatalf("link failed: %s", a.GetProgramInfoLog(p))
	}
	expectError(t, a, glfx.NoError)
	return p
}

// readBuffer maps a noop buffer and copies size bytes out of it.
func readBuffer(t *testing.T, a *HALAdapter, buf hal.Buffer, size uint64) []byte {
	t.Helper()
	m, err := a.Device().MapBuffer(buf, 0, size)
	if err != nil {
		t.Fatalf("MapBuffer() error = %v", err)
	}
	defer func() { _ = a.Device().UnmapBuffer(buf) }()
	return append([]byte(nil), unsafe.Slice((*byte)(m.Ptr), size)...)
}
