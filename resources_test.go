package glfx_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/glfx"
	"github.com/gogpu/gputypes"
)

func TestBufferSetData(t *testing.T) {
	c, rec := newContext(t, glfx.GL33)
	b := c.NewBuffer()
	data := []byte{1, 2, 3, 4}

	if err := b.SetData(data, glfx.StaticDraw); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if b.Size() != len(data) {
		t.Errorf("Size() = %d", b.Size())
	}
	if got, ok := rec.BufferContents(b.ID()); !ok || !bytes.Equal(got, data) {
		t.Errorf("BufferContents() = %v, %v", got, ok)
	}
	if err := b.SetData(data, glfx.Enum(0x1234)); !errors.Is(err, glfx.ErrInvalidEnum) {
		t.Errorf("bad usage = %v, want ErrInvalidEnum", err)
	}
}

func TestTextureSetImage2D(t *testing.T) {
	c, _ := newContext(t, glfx.GL33)
	tex := c.NewTexture()

	if err := tex.SetImage2D(4, 2, gputypes.TextureFormatRGBA8Unorm, make([]byte, 4*2*4)); err != nil {
		t.Fatalf("SetImage2D() error = %v", err)
	}
	if w, h := tex.Size(); w != 4 || h != 2 || tex.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Size() = %dx%d, Format() = %v", w, h, tex.Format())
	}

	tests := []struct {
		name string
		w, h int
		f    gputypes.TextureFormat
		want error
	}{
		{"zero width", 0, 1, gputypes.TextureFormatRGBA8Unorm, glfx.ErrIndexOutOfRange},
		{"above max", 16385, 1, gputypes.TextureFormatRGBA8Unorm, glfx.ErrIndexOutOfRange},
		{"undefined format", 1, 1, gputypes.TextureFormatUndefined, glfx.ErrInvalidEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.NewTexture().SetImage2D(tt.w, tt.h, tt.f, nil); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetTextureAnisotropy(t *testing.T) {
	c, rec := newContext(t, glfx.GL46)
	tex := c.NewTexture()

	if err := c.SetTextureAnisotropy(tex, 8); err != nil {
		t.Fatalf("SetTextureAnisotropy() error = %v", err)
	}
	if v, ok := rec.TextureParameter(tex.ID(), glfx.TextureMaxAnisotropy); !ok || v != 8 {
		t.Errorf("TextureParameter() = %g, %v", v, ok)
	}
	for _, level := range []float32{0.5, 17} {
		if err := c.SetTextureAnisotropy(tex, level); !errors.Is(err, glfx.ErrIndexOutOfRange) {
			t.Errorf("SetTextureAnisotropy(%g) = %v, want ErrIndexOutOfRange", level, err)
		}
	}
	if err := c.SetTextureAnisotropy(nil, 2); !errors.Is(err, glfx.ErrInvalidArgument) {
		t.Errorf("nil texture = %v, want ErrInvalidArgument", err)
	}
}

func TestObjectFactories(t *testing.T) {
	c, rec := newContext(t, glfx.GL33)

	handles := []struct {
		kind glfx.ObjectKind
		h    interface {
			Allocate() (uint32, error)
			Release()
			Kind() glfx.ObjectKind
		}
	}{
		{glfx.KindVertexArray, c.NewVertexArray()},
		{glfx.KindFramebuffer, c.NewFramebuffer()},
		{glfx.KindRenderbuffer, c.NewRenderbuffer()},
		{glfx.KindSampler, c.NewSampler()},
	}
	for _, tt := range handles {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if tt.h.Kind() != tt.kind {
				t.Fatalf("Kind() = %s", tt.h.Kind())
			}
			id, err := tt.h.Allocate()
			if err != nil {
				t.Fatal(err)
			}
			if !rec.IsLive(tt.kind, id) {
				t.Error("object not live after Allocate")
			}
			tt.h.Release()
			if rec.IsLive(tt.kind, id) {
				t.Error("object live after Release")
			}
		})
	}
}
