package glfx

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f32"
)

// MatrixMode selects one of the context's matrix stacks.
type MatrixMode uint8

// Matrix modes.
const (
	MatrixModelView MatrixMode = iota
	MatrixProjection
	MatrixTexture

	numMatrixModes
)

// String returns the mode name.
func (m MatrixMode) String() string {
	switch m {
	case MatrixModelView:
		return "modelview"
	case MatrixProjection:
		return "projection"
	case MatrixTexture:
		return "texture"
	default:
		return fmt.Sprintf("MatrixMode(%d)", uint8(m))
	}
}

// Identity4 returns the 4x4 identity matrix.
func Identity4() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// MatrixStack is a fixed-depth stack of 4x4 matrices.
//
// Matrices are stored row-major and transform column vectors, so
// composition right-multiplies: after Translate then RotateZ, a vertex is
// rotated first and translated second.
//
// MatrixStack is not safe for concurrent use.
type MatrixStack struct {
	stack []f32.Mat4
	top   int

	// scratch holds the operand of a derived operation. It is never part
	// of stack, so multiply can read it while writing the current matrix.
	scratch f32.Mat4
}

// NewMatrixStack creates a stack with room for depth matrices. The bottom
// matrix starts as the identity. A depth below 1 uses
// DefaultMatrixStackDepth.
func NewMatrixStack(depth int) *MatrixStack {
	if depth < 1 {
		depth = DefaultMatrixStackDepth
	}
	s := &MatrixStack{stack: make([]f32.Mat4, depth)}
	s.stack[0] = Identity4()
	return s
}

// Capacity returns the maximum number of matrices on the stack.
func (s *MatrixStack) Capacity() int { return len(s.stack) }

// Depth returns the number of matrices on the stack (at least 1).
func (s *MatrixStack) Depth() int { return s.top + 1 }

// Push duplicates the current matrix.
func (s *MatrixStack) Push() error {
	if s.top == len(s.stack)-1 {
		return ErrStackOverflow
	}
	s.stack[s.top+1] = s.stack[s.top]
	s.top++
	return nil
}

// Pop discards the current matrix. The slot is kept for reuse.
func (s *MatrixStack) Pop() error {
	if s.top == 0 {
		return ErrStackUnderflow
	}
	s.top--
	return nil
}

// Peek returns the current matrix. Writes through the pointer modify the
// stack; the pointer is invalidated by Push and Pop.
func (s *MatrixStack) Peek() *f32.Mat4 { return &s.stack[s.top] }

// Set replaces the current matrix.
func (s *MatrixStack) Set(m f32.Mat4) { s.stack[s.top] = m }

// Identity replaces the current matrix with the identity.
func (s *MatrixStack) Identity() { s.stack[s.top] = Identity4() }

// Multiply sets current = current * m.
func (s *MatrixStack) Multiply(m f32.Mat4) { s.multiply(&m) }

func (s *MatrixStack) multiply(m *f32.Mat4) {
	a := &s.stack[s.top]
	var r f32.Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i*4+j] = a[i*4+0]*m[0*4+j] +
				a[i*4+1]*m[1*4+j] +
				a[i*4+2]*m[2*4+j] +
				a[i*4+3]*m[3*4+j]
		}
	}
	*a = r
}

// Translate composes a translation.
func (s *MatrixStack) Translate(x, y, z float32) {
	m := &s.scratch
	*m = Identity4()
	m[3], m[7], m[11] = x, y, z
	s.multiply(m)
}

// Scale composes a scale.
func (s *MatrixStack) Scale(x, y, z float32) {
	m := &s.scratch
	*m = f32.Mat4{}
	m[0], m[5], m[10], m[15] = x, y, z, 1
	s.multiply(m)
}

// RotateX composes a rotation of deg degrees about the X axis.
func (s *MatrixStack) RotateX(deg float32) {
	sin, cos := sincos(deg)
	s.scratch = f32.Mat4{
		1, 0, 0, 0,
		0, cos, -sin, 0,
		0, sin, cos, 0,
		0, 0, 0, 1,
	}
	s.multiply(&s.scratch)
}

// RotateY composes a rotation of deg degrees about the Y axis.
func (s *MatrixStack) RotateY(deg float32) {
	sin, cos := sincos(deg)
	s.scratch = f32.Mat4{
		cos, 0, sin, 0,
		0, 1, 0, 0,
		-sin, 0, cos, 0,
		0, 0, 0, 1,
	}
	s.multiply(&s.scratch)
}

// RotateZ composes a rotation of deg degrees about the Z axis.
func (s *MatrixStack) RotateZ(deg float32) {
	sin, cos := sincos(deg)
	s.scratch = f32.Mat4{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	s.multiply(&s.scratch)
}

// Frustum composes a perspective projection for the given clip planes.
func (s *MatrixStack) Frustum(left, right, bottom, top, near, far float32) error {
	const op = "Frustum"
	if err := checkVolume(op, left, right, bottom, top, near, far); err != nil {
		return err
	}
	rl, tb, fn := right-left, top-bottom, far-near
	s.scratch = f32.Mat4{
		2 * near / rl, 0, (right + left) / rl, 0,
		0, 2 * near / tb, (top + bottom) / tb, 0,
		0, 0, -(far + near) / fn, -2 * far * near / fn,
		0, 0, -1, 0,
	}
	s.multiply(&s.scratch)
	return nil
}

// Perspective composes a symmetric perspective projection. fovy is the
// vertical field of view in degrees.
func (s *MatrixStack) Perspective(fovy, aspect, near, far float32) error {
	const op = "Perspective"
	switch {
	case fovy == 0:
		return &NumericDomainError{Op: op, Reason: "field of view is zero"}
	case aspect == 0:
		return &NumericDomainError{Op: op, Reason: "aspect ratio is zero"}
	case near == far:
		return &NumericDomainError{Op: op, Reason: "near equals far"}
	}
	t := math.Tan(float64(fovy) * math.Pi / 360)
	if t == 0 || math.IsInf(t, 0) {
		return &NumericDomainError{Op: op, Reason: fmt.Sprintf("field of view %g has no finite tangent", fovy)}
	}
	f := float32(1 / t)
	fn := far - near
	s.scratch = f32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, -(far + near) / fn, -2 * far * near / fn,
		0, 0, -1, 0,
	}
	s.multiply(&s.scratch)
	return nil
}

// Ortho composes an orthographic projection.
func (s *MatrixStack) Ortho(left, right, bottom, top, near, far float32) error {
	const op = "Ortho"
	if err := checkVolume(op, left, right, bottom, top, near, far); err != nil {
		return err
	}
	rl, tb, fn := right-left, top-bottom, far-near
	s.scratch = f32.Mat4{
		2 / rl, 0, 0, -(right + left) / rl,
		0, 2 / tb, 0, -(top + bottom) / tb,
		0, 0, -2 / fn, -(far + near) / fn,
		0, 0, 0, 1,
	}
	s.multiply(&s.scratch)
	return nil
}

// AspectOrtho composes an orthographic projection spanning [-1, 1] on the
// shorter axis of a width x height viewport, extended on the longer axis to
// keep the aspect ratio.
func (s *MatrixStack) AspectOrtho(width, height, near, far float32) error {
	const op = "AspectOrtho"
	if width == 0 || height == 0 {
		return &NumericDomainError{Op: op, Reason: fmt.Sprintf("viewport %gx%g is empty", width, height)}
	}
	if width >= height {
		a := width / height
		return s.orthoAs(op, -a, a, -1, 1, near, far)
	}
	a := height / width
	return s.orthoAs(op, -1, 1, -a, a, near, far)
}

func (s *MatrixStack) orthoAs(op string, left, right, bottom, top, near, far float32) error {
	err := s.Ortho(left, right, bottom, top, near, far)
	if de, ok := err.(*NumericDomainError); ok {
		de.Op = op
	}
	return err
}

// LookAt composes a viewing transform for an eye at eye looking at center
// with the given up direction.
func (s *MatrixStack) LookAt(eye, center, up f32.Vec3) error {
	const op = "LookAt"
	f := f32.Vec3{center[0] - eye[0], center[1] - eye[1], center[2] - eye[2]}
	if !normalize(&f) {
		return &NumericDomainError{Op: op, Reason: "eye and center coincide"}
	}
	side := cross(f, up)
	if !normalize(&side) {
		return &NumericDomainError{Op: op, Reason: "up is parallel to the view direction"}
	}
	u := cross(side, f)

	s.scratch = f32.Mat4{
		side[0], side[1], side[2], -dot(side, eye),
		u[0], u[1], u[2], -dot(u, eye),
		-f[0], -f[1], -f[2], dot(f, eye),
		0, 0, 0, 1,
	}
	s.multiply(&s.scratch)
	return nil
}

// checkVolume rejects clip volumes with a zero extent on any axis.
func checkVolume(op string, left, right, bottom, top, near, far float32) error {
	switch {
	case left == right:
		return &NumericDomainError{Op: op, Reason: fmt.Sprintf("left equals right (%g)", left)}
	case bottom == top:
		return &NumericDomainError{Op: op, Reason: fmt.Sprintf("bottom equals top (%g)", bottom)}
	case near == far:
		return &NumericDomainError{Op: op, Reason: fmt.Sprintf("near equals far (%g)", near)}
	}
	return nil
}

func sincos(deg float32) (sin, cos float32) {
	s, c := math.Sincos(float64(deg) * math.Pi / 180)
	return float32(s), float32(c)
}

func dot(a, b f32.Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b f32.Vec3) f32.Vec3 {
	return f32.Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// normalize scales v to unit length and reports false for a zero vector.
func normalize(v *f32.Vec3) bool {
	l := float32(math.Sqrt(float64(dot(*v, *v))))
	if l == 0 {
		return false
	}
	v[0] /= l
	v[1] /= l
	v[2] /= l
	return true
}
