package glfx_test

import (
	"testing"

	"github.com/gogpu/glfx"
	"github.com/gogpu/glfx/backend/recorder"
)

// newContext creates a context of version v over a fresh recorder and
// closes it when the test ends.
func newContext(t *testing.T, v glfx.Version, opts ...glfx.Option) (*glfx.Context, *recorder.Recorder) {
	t.Helper()
	rec := recorder.New()
	c, err := glfx.NewContext(rec, v, opts...)
	if err != nil {
		t.Fatalf("NewContext(%s) error = %v", v, err)
	}
	t.Cleanup(c.Close)
	return c, rec
}

// linkedProgram compiles one shader per stage and links them.
func linkedProgram(t *testing.T, c *glfx.Context, sources map[glfx.ShaderStage]string) *glfx.Program {
	t.Helper()
	p := c.NewProgram()
	for stage, src := range sources {
		s := c.NewShader()
		if err := s.Compile(stage, src); err != nil {
			t.Fatalf("Compile(%s) error = %v", stage, err)
		}
		if err := p.AttachShader(s); err != nil {
			t.Fatalf("AttachShader() error = %v", err)
		}
	}
	if err := p.Link(); err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	return p
}

const (
	vertexSource   = "uniform mat4 u_mvp; in vec4 pos; void main() { gl_Position = u_mvp * pos; }"
	fragmentSource = "uniform vec4 u_color; out vec4 color; void main() { color = u_color; }"
	computeSource  = "layout(local_size_x = 64) in; uniform float u_scale; void main() {}"
)

func renderProgram(t *testing.T, c *glfx.Context) *glfx.Program {
	t.Helper()
	return linkedProgram(t, c, map[glfx.ShaderStage]string{
		glfx.VertexShader:   vertexSource,
		glfx.FragmentShader: fragmentSource,
	})
}
