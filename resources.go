package glfx

import (
	"github.com/gogpu/glfx/internal/cache"
	"github.com/gogpu/gputypes"
)

// Buffer is a native buffer object.
type Buffer struct {
	Handle
	size int
}

// Texture is a native texture object.
type Texture struct {
	Handle
	width, height int
	format        gputypes.TextureFormat
}

// VertexArray is a native vertex array object.
type VertexArray struct{ Handle }

// Framebuffer is a native framebuffer object.
type Framebuffer struct{ Handle }

// Renderbuffer is a native renderbuffer object.
type Renderbuffer struct{ Handle }

// Sampler is a native sampler object.
type Sampler struct{ Handle }

// NewBuffer returns a buffer whose native object is created on first use.
func (c *Context) NewBuffer() *Buffer {
	b := &Buffer{}
	track(c, b, &b.Handle, KindBuffer)
	return b
}

// NewTexture returns a texture whose native object is created on first use.
func (c *Context) NewTexture() *Texture {
	t := &Texture{}
	track(c, t, &t.Handle, KindTexture)
	return t
}

// NewQuery returns a query object.
func (c *Context) NewQuery() *Query {
	q := &Query{}
	track(c, q, &q.Handle, KindQuery)
	return q
}

// NewVertexArray returns a vertex array object.
func (c *Context) NewVertexArray() *VertexArray {
	v := &VertexArray{}
	track(c, v, &v.Handle, KindVertexArray)
	return v
}

// NewFramebuffer returns a framebuffer object.
func (c *Context) NewFramebuffer() *Framebuffer {
	f := &Framebuffer{}
	track(c, f, &f.Handle, KindFramebuffer)
	return f
}

// NewRenderbuffer returns a renderbuffer object.
func (c *Context) NewRenderbuffer() *Renderbuffer {
	r := &Renderbuffer{}
	track(c, r, &r.Handle, KindRenderbuffer)
	return r
}

// NewSampler returns a sampler object.
func (c *Context) NewSampler() *Sampler {
	s := &Sampler{}
	track(c, s, &s.Handle, KindSampler)
	return s
}

// NewShader returns a shader object.
func (c *Context) NewShader() *Shader {
	s := &Shader{}
	track(c, s, &s.Handle, KindShader)
	return s
}

// NewProgram returns a program object in the unlinked state.
func (c *Context) NewProgram() *Program {
	p := &Program{uniforms: cache.New[string, int32](c.opts.uniformCacheSize)}
	track(c, p, &p.Handle, KindProgram)
	return p
}

// Size returns the size in bytes of the last SetData upload.
func (b *Buffer) Size() int { return b.size }

// SetData uploads data as the buffer's storage.
func (b *Buffer) SetData(data []byte, usage Enum) error {
	const op = "BufferData"
	c := b.ctx
	if err := c.require(op, FeatureCore); err != nil {
		return err
	}
	switch usage {
	case StreamDraw, StaticDraw, DynamicDraw:
	default:
		return precondition(op, ErrInvalidEnum, "usage 0x%04X", uint32(usage))
	}
	id, err := b.Allocate()
	if err != nil {
		return err
	}
	c.native.BufferData(id, data, usage)
	if err := c.check(op); err != nil {
		return err
	}
	b.size = len(data)
	return nil
}

// Size returns the dimensions of the last SetImage2D upload.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Format returns the format of the last SetImage2D upload.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// SetImage2D specifies the texture's 2D storage. pixels may be nil to
// allocate storage without uploading.
func (t *Texture) SetImage2D(width, height int, format gputypes.TextureFormat, pixels []byte) error {
	const op = "TexImage2D"
	c := t.ctx
	if err := c.require(op, FeatureCore); err != nil {
		return err
	}
	maxSize := c.intCap("MAX_TEXTURE_SIZE")
	if width <= 0 || height <= 0 || int64(width) > maxSize || int64(height) > maxSize {
		return precondition(op, ErrIndexOutOfRange, "size %dx%d, MAX_TEXTURE_SIZE %d", width, height, maxSize)
	}
	if format == gputypes.TextureFormatUndefined {
		return precondition(op, ErrInvalidEnum, "undefined texture format")
	}
	id, err := t.Allocate()
	if err != nil {
		return err
	}
	c.native.TexImage2D(id, width, height, format, pixels)
	if err := c.check(op); err != nil {
		return err
	}
	t.width, t.height, t.format = width, height, format
	return nil
}

// SetTextureAnisotropy sets the maximum anisotropy of t. level must lie in
// [1, MAX_TEXTURE_MAX_ANISOTROPY].
func (c *Context) SetTextureAnisotropy(t *Texture, level float32) error {
	const op = "TexParameterf(TEXTURE_MAX_ANISOTROPY)"
	if err := c.require(op, FeatureAnisotropicFiltering); err != nil {
		return err
	}
	if t == nil {
		return precondition(op, ErrInvalidArgument, "nil texture")
	}
	if err := t.mustBeLive(c, op); err != nil {
		return err
	}
	limit, _ := c.caps.Float("MAX_TEXTURE_MAX_ANISOTROPY")
	if level < 1 || float64(level) > limit {
		return precondition(op, ErrIndexOutOfRange, "anisotropy %g not in [1, %g]", level, limit)
	}
	id, err := t.Allocate()
	if err != nil {
		return err
	}
	c.native.TexParameterf(id, TextureMaxAnisotropy, level)
	return c.check(op)
}
