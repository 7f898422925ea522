package recorder

import (
	"slices"
	"testing"

	"github.com/gogpu/glfx"
	"github.com/gogpu/glfx/backend"
)

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendRecorder) {
		t.Fatal("recorder backend not registered")
	}
	b, err := backend.Open(backend.BackendRecorder)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()
	if b.Name() != backend.BackendRecorder {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestGenDeleteObjects(t *testing.T) {
	r := New()
	ids := make([]uint32, 3)
	r.GenObjects(glfx.KindBuffer, ids)
	if got := r.GetError(); got != glfx.NoError {
		t.Fatalf("GetError() = %v", got)
	}
	if !slices.Equal(ids, []uint32{1, 2, 3}) {
		t.Errorf("ids = %v, want [1 2 3]", ids)
	}
	if r.Live(glfx.KindBuffer) != 3 {
		t.Errorf("Live = %d, want 3", r.Live(glfx.KindBuffer))
	}

	r.DeleteObjects(glfx.KindBuffer, []uint32{2, 99, 0})
	if r.IsLive(glfx.KindBuffer, 2) {
		t.Error("buffer 2 still live")
	}
	if r.Deleted(glfx.KindBuffer) != 1 {
		t.Errorf("Deleted = %d, want 1 (unknown ids ignored)", r.Deleted(glfx.KindBuffer))
	}

	// Names are per kind and freed names are reused.
	one := make([]uint32, 1)
	r.GenObjects(glfx.KindBuffer, one)
	if one[0] != 2 {
		t.Errorf("reused id = %d, want 2", one[0])
	}
	r.GenObjects(glfx.KindTexture, one)
	if one[0] != 1 {
		t.Errorf("first texture id = %d, want 1", one[0])
	}
}

func TestFailNextAlloc(t *testing.T) {
	r := New()
	r.FailNextAlloc(glfx.KindTexture, glfx.OutOfMemory)

	ids := make([]uint32, 1)
	r.GenObjects(glfx.KindTexture, ids)
	if ids[0] != 0 {
		t.Errorf("failed alloc returned id %d", ids[0])
	}
	if got := r.GetError(); got != glfx.OutOfMemory {
		t.Errorf("GetError() = %v, want OutOfMemory", got)
	}

	r.GenObjects(glfx.KindTexture, ids)
	if ids[0] == 0 || r.GetError() != glfx.NoError {
		t.Error("second allocation should succeed")
	}
}

func TestFailNextRelease(t *testing.T) {
	r := New()
	ids := make([]uint32, 1)
	r.GenObjects(glfx.KindProgram, ids)

	r.FailNextRelease(glfx.KindProgram, glfx.InvalidOperation)
	r.DeleteObjects(glfx.KindProgram, ids)
	if got := r.GetError(); got != glfx.InvalidOperation {
		t.Errorf("GetError() = %v, want InvalidOperation", got)
	}
	if !r.IsLive(glfx.KindProgram, ids[0]) {
		t.Error("failed release deleted the program")
	}
}

func TestErrorQueueOrder(t *testing.T) {
	r := New()
	r.InjectError(glfx.InvalidValue)
	r.InjectError(glfx.InvalidEnum)

	for _, want := range []glfx.ErrorCode{glfx.InvalidValue, glfx.InvalidEnum, glfx.NoError} {
		if got := r.GetError(); got != want {
			t.Errorf("GetError() = %v, want %v", got, want)
		}
	}
}

func TestLimitsByVersion(t *testing.T) {
	tests := []struct {
		name    string
		version glfx.Version
		pname   glfx.Enum
		want    int64
		wantErr glfx.ErrorCode
	}{
		{"core", glfx.GL33, glfx.MaxTextureSize, 16384, glfx.NoError},
		{"tessellation on 4.0", glfx.GL40, glfx.MaxPatchVertices, 32, glfx.NoError},
		{"tessellation on 3.3", glfx.GL33, glfx.MaxPatchVertices, 0, glfx.InvalidEnum},
		{"debug on 4.3", glfx.GL43, glfx.MaxDebugMessageLength, 1024, glfx.NoError},
		{"unknown pname", glfx.GL46, glfx.Enum(0xFFFF), 0, glfx.InvalidEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(WithMaxVersion(tt.version))
			if got := r.GetInteger(tt.pname); got != tt.want {
				t.Errorf("GetInteger() = %d, want %d", got, tt.want)
			}
			if got := r.GetError(); got != tt.wantErr {
				t.Errorf("GetError() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestWithLimit(t *testing.T) {
	r := New(WithLimit(glfx.MaxViewports, 2))
	if got := r.GetInteger(glfx.MaxViewports); got != 2 {
		t.Errorf("MaxViewports = %d, want 2", got)
	}
	r.SetLimit(glfx.MaxTextureMaxAnisotropy, 4)
	if got := r.GetFloat(glfx.MaxTextureMaxAnisotropy); got != 4 {
		t.Errorf("MaxTextureMaxAnisotropy = %g, want 4", got)
	}
}

func TestCallLog(t *testing.T) {
	r := New()
	r.GetInteger(glfx.MaxTextureSize)
	r.GenObjects(glfx.KindBuffer, make([]uint32, 1))
	r.GetInteger(glfx.MaxSamples)

	if got := r.CallCount("GetInteger"); got != 2 {
		t.Errorf("CallCount(GetInteger) = %d, want 2", got)
	}
	want := []string{"GetInteger", "GenObjects", "GetInteger"}
	if got := r.Calls(); !slices.Equal(got, want) {
		t.Errorf("Calls() = %v, want %v", got, want)
	}
	r.ResetCalls()
	if len(r.Calls()) != 0 {
		t.Error("ResetCalls left entries")
	}
}

func TestCloseFailsAllocation(t *testing.T) {
	r := New()
	r.Close()
	ids := make([]uint32, 1)
	r.GenObjects(glfx.KindBuffer, ids)
	if got := r.GetError(); got != glfx.ContextLost {
		t.Errorf("GetError() after Close = %v, want ContextLost", got)
	}
}

func TestQueryLifecycle(t *testing.T) {
	r := New()
	ids := make([]uint32, 1)
	r.GenObjects(glfx.KindQuery, ids)
	r.SetQueryResult(glfx.PrimitivesGenerated, 42)

	r.BeginQueryIndexed(glfx.PrimitivesGenerated, 2, ids[0])
	r.BeginQueryIndexed(glfx.PrimitivesGenerated, 2, ids[0])
	if got := r.GetError(); got != glfx.InvalidOperation {
		t.Errorf("double begin: GetError() = %v, want InvalidOperation", got)
	}
	r.EndQueryIndexed(glfx.PrimitivesGenerated, 2)
	if got := r.GetQueryObjectUint64(ids[0], glfx.QueryResult); got != 42 {
		t.Errorf("result = %d, want 42", got)
	}
	if got := r.GetError(); got != glfx.NoError {
		t.Errorf("GetError() = %v", got)
	}

	r.EndQueryIndexed(glfx.PrimitivesGenerated, 2)
	if got := r.GetError(); got != glfx.InvalidOperation {
		t.Errorf("end inactive: GetError() = %v, want InvalidOperation", got)
	}
}

func TestDeleteActiveQuery(t *testing.T) {
	r := New()
	ids := make([]uint32, 2)
	r.GenObjects(glfx.KindQuery, ids)
	r.BeginQueryIndexed(glfx.SamplesPassed, 0, ids[0])
	r.DeleteObjects(glfx.KindQuery, ids[:1])

	r.BeginQueryIndexed(glfx.SamplesPassed, 0, ids[1])
	if got := r.GetError(); got != glfx.NoError {
		t.Errorf("begin after deleting the active query: GetError() = %v", got)
	}
}

func TestPatchState(t *testing.T) {
	r := New()
	r.PatchParameteri(glfx.PatchVertices, 4)
	r.PatchParameterfv(glfx.PatchDefaultOuterLevel, []float32{2, 3, 4, 5})
	r.PatchParameterfv(glfx.PatchDefaultInnerLevel, []float32{6, 7})
	if got := r.GetError(); got != glfx.NoError {
		t.Fatalf("GetError() = %v", got)
	}
	v, outer, inner := r.Patch()
	if v != 4 || outer != [4]float32{2, 3, 4, 5} || inner != [2]float32{6, 7} {
		t.Errorf("Patch() = %d %v %v", v, outer, inner)
	}

	r.PatchParameterfv(glfx.PatchDefaultInnerLevel, []float32{1, 2, 3, 4})
	if got := r.GetError(); got != glfx.InvalidEnum {
		t.Errorf("wrong component count: GetError() = %v, want InvalidEnum", got)
	}
	r.PatchParameteri(glfx.PatchVertices, 33)
	if got := r.GetError(); got != glfx.InvalidValue {
		t.Errorf("too many vertices: GetError() = %v, want InvalidValue", got)
	}
}

func TestUniformMatrixTranspose(t *testing.T) {
	r := New()
	prog := linkProgram(t, r, glfx.VertexShader, "uniform mat4 u_mvp;")
	r.UseProgram(prog)

	loc := r.GetUniformLocation(prog, "u_mvp")
	rowMajor := [16]float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	r.UniformMatrix4fv(loc, true, &rowMajor)

	got, ok := r.UniformMatrix(prog, loc)
	if !ok {
		t.Fatal("uniform not stored")
	}
	// Column-major: first column is 1, 5, 9, 13.
	if got[0] != 1 || got[1] != 5 || got[2] != 9 || got[3] != 13 {
		t.Errorf("stored matrix = %v", got)
	}
}
