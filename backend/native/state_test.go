package native

import (
	"testing"
	"time"

	"github.com/gogpu/glfx"
	"github.com/gogpu/gputypes"
)

func TestTimeElapsedQuery(t *testing.T) {
	a := openNoop(t)
	q := gen(a, glfx.KindQuery)

	a.BeginQueryIndexed(glfx.TimeElapsed, 0, q)
	a.BeginQueryIndexed(glfx.TimeElapsed, 0, gen(a, glfx.KindQuery))
	expectError(t, a, glfx.InvalidOperation)
	a.GetQueryObjectUint64(q, glfx.QueryResult)
	expectError(t, a, glfx.InvalidOperation)

	time.Sleep(time.Millisecond)
	a.EndQueryIndexed(glfx.TimeElapsed, 0)
	expectError(t, a, glfx.NoError)

	if a.GetQueryObjectUint64(q, glfx.QueryResultAvailable) != 1 {
		t.Error("result not available")
	}
	if ns := a.GetQueryObjectUint64(q, glfx.QueryResult); ns < uint64(time.Millisecond) {
		t.Errorf("elapsed = %dns, want at least 1ms", ns)
	}

	// A query keeps its first target.
	a.BeginQueryIndexed(glfx.PrimitivesGenerated, 0, q)
	expectError(t, a, glfx.InvalidOperation)

	a.EndQueryIndexed(glfx.TimeElapsed, 0)
	expectError(t, a, glfx.InvalidOperation)
}

func TestCountingQueryReportsZero(t *testing.T) {
	a := openNoop(t)
	q := gen(a, glfx.KindQuery)
	a.BeginQueryIndexed(glfx.PrimitivesGenerated, 2, q)
	a.EndQueryIndexed(glfx.PrimitivesGenerated, 2)
	if got := a.GetQueryObjectUint64(q, glfx.QueryResult); got != 0 {
		t.Errorf("result = %d", got)
	}
	expectError(t, a, glfx.NoError)
}

func TestPatchParameters(t *testing.T) {
	a := openNoop(t)
	if v, outer, inner := a.Patch(); v != 3 || outer != [4]float32{1, 1, 1, 1} || inner != [2]float32{1, 1} {
		t.Errorf("defaults = %d %v %v", v, outer, inner)
	}
	a.PatchParameteri(glfx.PatchVertices, 16)
	a.PatchParameterfv(glfx.PatchDefaultOuterLevel, []float32{2, 3, 4, 5})
	a.PatchParameterfv(glfx.PatchDefaultInnerLevel, []float32{6, 7})
	expectError(t, a, glfx.NoError)
	if v, outer, inner := a.Patch(); v != 16 || outer[3] != 5 || inner[1] != 7 {
		t.Errorf("patch = %d %v %v", v, outer, inner)
	}

	a.PatchParameteri(glfx.PatchVertices, 33)
	expectError(t, a, glfx.InvalidValue)
	a.PatchParameteri(glfx.PatchDefaultInnerLevel, 1)
	expectError(t, a, glfx.InvalidEnum)
	a.PatchParameterfv(glfx.PatchDefaultInnerLevel, []float32{1})
	expectError(t, a, glfx.InvalidEnum)
}

func TestViewports(t *testing.T) {
	a := openNoop(t)
	a.ViewportIndexedf(15, 1, 2, 3, 4)
	expectError(t, a, glfx.NoError)
	if v, ok := a.Viewport(15); !ok || v != [4]float32{1, 2, 3, 4} {
		t.Errorf("Viewport(15) = %v, %v", v, ok)
	}
	a.ViewportIndexedf(16, 0, 0, 1, 1)
	expectError(t, a, glfx.InvalidValue)
	a.ViewportIndexedf(0, 0, 0, -1, 1)
	expectError(t, a, glfx.InvalidValue)
}

func TestBindImageTexture(t *testing.T) {
	a := openNoop(t)
	tex := gen(a, glfx.KindTexture)

	a.BindImageTexture(0, tex, 0, false, 0, glfx.ReadWrite, glfx.RGBA8)
	expectError(t, a, glfx.InvalidOperation)

	a.TexImage2D(tex, 8, 8, gputypes.TextureFormatRGBA8Unorm, nil)
	a.BindImageTexture(1, tex, 0, true, 2, glfx.WriteOnly, glfx.RGBA8)
	expectError(t, a, glfx.NoError)
	if b, ok := a.ImageUnit(1); !ok || b.Texture != tex || !b.Layered || b.Layer != 2 || b.Access != glfx.WriteOnly {
		t.Errorf("ImageUnit(1) = %+v, %v", b, ok)
	}

	units := uint32(a.GetInteger(glfx.MaxImageUnits))
	a.BindImageTexture(units, tex, 0, false, 0, glfx.ReadOnly, glfx.R32F)
	expectError(t, a, glfx.InvalidValue)
	a.BindImageTexture(0, 77, 0, false, 0, glfx.ReadOnly, glfx.R32F)
	expectError(t, a, glfx.InvalidValue)
	a.BindImageTexture(0, 0, 0, false, 0, glfx.ReadOnly, glfx.R32F)
	expectError(t, a, glfx.NoError)
}

func TestDispatchCompute(t *testing.T) {
	a := openNoop(t)

	a.DispatchCompute(1, 1, 1)
	expectError(t, a, glfx.InvalidOperation)

	render := linkProgram(t, a, map[glfx.ShaderStage]string{
		glfx.VertexShader:   vertexWGSL,
		glfx.FragmentShader: fragmentWGSL,
	})
	a.UseProgram(render)
	a.DispatchCompute(1, 1, 1)
	expectError(t, a, glfx.InvalidOperation)

	compute := linkProgram(t, a, map[glfx.ShaderStage]string{glfx.ComputeShader: computeWGSL})
	a.UseProgram(compute)
	a.DispatchCompute(8, 2, 1)
	expectError(t, a, glfx.NoError)
	if a.Submissions() != 1 {
		t.Errorf("Submissions() = %d, want 1", a.Submissions())
	}

	over := a.limits.MaxComputeWorkgroupsPerDimension + 1
	a.DispatchCompute(over, 1, 1)
	expectError(t, a, glfx.InvalidValue)

	a.DeleteObjects(glfx.KindProgram, []uint32{compute})
	a.DispatchCompute(1, 1, 1)
	expectError(t, a, glfx.InvalidOperation)
}

func TestUseProgramRejectsUnlinked(t *testing.T) {
	a := openNoop(t)
	p := gen(a, glfx.KindProgram)
	a.UseProgram(p)
	expectError(t, a, glfx.InvalidOperation)
	a.UseProgram(0)
	expectError(t, a, glfx.NoError)
}

func TestDeleteActiveQueryFreesSlot(t *testing.T) {
	a := openNoop(t)
	q := gen(a, glfx.KindQuery)
	a.BeginQueryIndexed(glfx.SamplesPassed, 0, q)
	expectError(t, a, glfx.NoError)

	a.DeleteObjects(glfx.KindQuery, []uint32{q})
	a.EndQueryIndexed(glfx.SamplesPassed, 0)
	expectError(t, a, glfx.InvalidOperation)

	a.BeginQueryIndexed(glfx.SamplesPassed, 0, gen(a, glfx.KindQuery))
	expectError(t, a, glfx.NoError)
}
