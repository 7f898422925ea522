package native

import (
	"fmt"

	"github.com/gogpu/glfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// bufferUsage is the usage every glfx buffer is created with. GL buffers
// are untyped, so the HAL buffer must allow every binding.
const bufferUsage = gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst |
	gputypes.BufferUsageVertex | gputypes.BufferUsageIndex |
	gputypes.BufferUsageUniform | gputypes.BufferUsageStorage

const textureUsage = gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst |
	gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment

type bufferObject struct {
	buf   hal.Buffer
	size  uint64
	usage glfx.Enum
}

func (b *bufferObject) release(d hal.Device) {
	if b.buf != nil {
		d.DestroyBuffer(b.buf)
		b.buf = nil
		b.size = 0
	}
}

type textureObject struct {
	tex           hal.Texture
	width, height int
	format        gputypes.TextureFormat
	params        map[glfx.Enum]float32
}

func (t *textureObject) release(d hal.Device) {
	if t.tex != nil {
		d.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// align4 rounds n up to the copy alignment of queue writes.
func align4(n uint64) uint64 {
	return (n + 3) &^ 3
}

// BufferData implements glfx.Native. The HAL buffer is reallocated when
// the size changes; data is uploaded with a queue write.
func (a *HALAdapter) BufferData(buffer uint32, data []byte, usage glfx.Enum) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindBuffer, buffer)
	if !ok {
		a.raise("BufferData", glfx.InvalidOperation)
		return
	}
	b := obj.(*bufferObject)
	size := align4(uint64(len(data)))
	if size > a.limits.MaxBufferSize {
		a.raise("BufferData", glfx.OutOfMemory)
		return
	}
	b.usage = usage
	if size == 0 {
		b.release(a.device)
		return
	}
	if b.buf == nil || b.size != size {
		b.release(a.device)
		buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("glfx buffer %d", buffer),
			Size:  size,
			Usage: bufferUsage,
		})
		if err != nil {
			a.fail("BufferData", err)
			return
		}
		b.buf, b.size = buf, size
	}
	padded := data
	if uint64(len(data)) != size {
		padded = make([]byte, size)
		copy(padded, data)
	}
	if err := a.queue.WriteBuffer(b.buf, 0, padded); err != nil {
		a.fail("BufferData", err)
	}
}

// HALBuffer returns the HAL buffer behind a glfx buffer name, or nil if
// it has no storage.
func (a *HALAdapter) HALBuffer(buffer uint32) hal.Buffer {
	a.mu.Lock()
	defer a.mu.Unlock()
	if obj, ok := a.lookup(glfx.KindBuffer, buffer); ok {
		return obj.(*bufferObject).buf
	}
	return nil
}

// texelSize returns the bytes per texel of the formats TexImage2D
// accepts, or 0 for any other format.
func texelSize(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatR32Float,
		gputypes.TextureFormatR32Uint:
		return 4
	case gputypes.TextureFormatRGBA16Float, gputypes.TextureFormatRG32Float:
		return 8
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

// TexImage2D implements glfx.Native. A nil pixels slice allocates the
// texture without uploading.
func (a *HALAdapter) TexImage2D(texture uint32, width, height int, format gputypes.TextureFormat, pixels []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindTexture, texture)
	if !ok {
		a.raise("TexImage2D", glfx.InvalidOperation)
		return
	}
	bpp := texelSize(format)
	if bpp == 0 {
		a.raise("TexImage2D", glfx.InvalidEnum)
		return
	}
	maxSize := int(a.limits.MaxTextureDimension2D)
	if width < 1 || height < 1 || width > maxSize || height > maxSize {
		a.raise("TexImage2D", glfx.InvalidValue)
		return
	}
	if pixels != nil && len(pixels) < width*height*bpp {
		a.raise("TexImage2D", glfx.InvalidOperation)
		return
	}
	t := obj.(*textureObject)
	t.release(a.device)
	size := hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}
	tex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("glfx texture %d", texture),
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         textureUsage,
	})
	if err != nil {
		a.fail("TexImage2D", err)
		return
	}
	t.tex, t.width, t.height, t.format = tex, width, height, format
	if pixels == nil {
		return
	}
	err = a.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, Aspect: gputypes.TextureAspectAll},
		pixels[:width*height*bpp],
		&hal.ImageDataLayout{BytesPerRow: uint32(width * bpp), RowsPerImage: uint32(height)},
		&size,
	)
	if err != nil {
		a.fail("TexImage2D", err)
	}
}

// TexParameterf implements glfx.Native. Parameters are kept for sampler
// creation; anisotropy is clamped by the device at sampling time.
func (a *HALAdapter) TexParameterf(texture uint32, pname glfx.Enum, value float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindTexture, texture)
	if !ok {
		a.raise("TexParameterf", glfx.InvalidOperation)
		return
	}
	if pname == glfx.TextureMaxAnisotropy && value < 1 {
		a.raise("TexParameterf", glfx.InvalidValue)
		return
	}
	obj.(*textureObject).params[pname] = value
}

// TextureParameter returns a texture parameter set with TexParameterf.
func (a *HALAdapter) TextureParameter(texture uint32, pname glfx.Enum) (float32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.lookup(glfx.KindTexture, texture)
	if !ok {
		return 0, false
	}
	v, ok := obj.(*textureObject).params[pname]
	return v, ok
}
