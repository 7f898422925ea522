package glfx_test

import (
	"errors"
	"testing"

	"github.com/gogpu/glfx"
)

func TestSetPatchVertices(t *testing.T) {
	c, rec := newContext(t, glfx.GL40)

	for _, n := range []int{1, 4, 32} {
		if err := c.SetPatchVertices(n); err != nil {
			t.Errorf("SetPatchVertices(%d) error = %v", n, err)
		}
		if got, _, _ := rec.Patch(); got != int32(n) {
			t.Errorf("native patch vertices = %d, want %d", got, n)
		}
	}

	rec.ResetCalls()
	for _, n := range []int{0, -1, 33} {
		err := c.SetPatchVertices(n)
		var pe *glfx.PreconditionError
		if !errors.As(err, &pe) || !errors.Is(err, glfx.ErrIndexOutOfRange) {
			t.Errorf("SetPatchVertices(%d) = %v, want ErrIndexOutOfRange", n, err)
		}
	}
	if rec.CallCount("PatchParameteri") != 0 {
		t.Error("out-of-range count reached the native layer")
	}
}

func TestPatchDefaultLevels(t *testing.T) {
	c, rec := newContext(t, glfx.GL40)

	outer := [4]float32{2, 3, 4, 5}
	inner := [2]float32{6, 7}
	if err := c.SetPatchDefaultOuterLevel(outer); err != nil {
		t.Fatal(err)
	}
	if err := c.SetPatchDefaultInnerLevel(inner); err != nil {
		t.Fatal(err)
	}
	_, gotOuter, gotInner := rec.Patch()
	if gotOuter != outer || gotInner != inner {
		t.Errorf("Patch() = %v, %v; want %v, %v", gotOuter, gotInner, outer, inner)
	}
}

func TestTessellationStages(t *testing.T) {
	c, _ := newContext(t, glfx.GL40)
	p := linkedProgram(t, c, map[glfx.ShaderStage]string{
		glfx.VertexShader:         vertexSource,
		glfx.TessControlShader:    "layout(vertices = 3) out; void main() {}",
		glfx.TessEvaluationShader: "layout(triangles) in; void main() {}",
		glfx.FragmentShader:       fragmentSource,
	})
	if p.State() != glfx.ProgramLinked {
		t.Errorf("State() = %s", p.State())
	}
}
