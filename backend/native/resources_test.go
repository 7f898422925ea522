package native

import (
	"bytes"
	"testing"

	"github.com/gogpu/glfx"
	"github.com/gogpu/gputypes"
)

func TestBufferDataUploads(t *testing.T) {
	a := openNoop(t)
	b := gen(a, glfx.KindBuffer)

	a.BufferData(b, []byte{1, 2, 3, 4, 5, 6}, glfx.DynamicDraw)
	expectError(t, a, glfx.NoError)
	buf := a.HALBuffer(b)
	if buf == nil {
		t.Fatal("no HAL buffer")
	}
	// Sizes are padded to the 4-byte write alignment.
	got := readBuffer(t, a, buf, 8)
	if !bytes.Equal(got, []byte{1, 2, 3, 4, 5, 6, 0, 0}) {
		t.Errorf("buffer contents = %v", got)
	}

	// Same size: storage is reused.
	a.BufferData(b, []byte{9, 9, 9, 9, 9, 9, 9, 9}, glfx.DynamicDraw)
	if a.HALBuffer(b) != buf {
		t.Error("same-size upload reallocated the buffer")
	}
	if got := readBuffer(t, a, buf, 8); got[0] != 9 {
		t.Errorf("rewrite not visible: %v", got)
	}

	a.BufferData(b, nil, glfx.StaticDraw)
	if a.HALBuffer(b) != nil {
		t.Error("empty upload kept storage")
	}
	expectError(t, a, glfx.NoError)
}

func TestBufferDataErrors(t *testing.T) {
	a := openNoop(t)
	a.BufferData(7, []byte{1}, glfx.StaticDraw)
	expectError(t, a, glfx.InvalidOperation)

	a.limits.MaxBufferSize = 4
	b := gen(a, glfx.KindBuffer)
	a.BufferData(b, make([]byte, 5), glfx.StaticDraw)
	expectError(t, a, glfx.OutOfMemory)
}

func TestTexImage2D(t *testing.T) {
	a := openNoop(t)
	tex := gen(a, glfx.KindTexture)

	a.TexImage2D(tex, 2, 2, gputypes.TextureFormatRGBA8Unorm, make([]byte, 16))
	expectError(t, a, glfx.NoError)
	a.TexImage2D(tex, 4, 4, gputypes.TextureFormatR32Float, nil)
	expectError(t, a, glfx.NoError)

	tests := []struct {
		name   string
		tex    uint32
		w, h   int
		format gputypes.TextureFormat
		pixels []byte
		want   glfx.ErrorCode
	}{
		{"unknown texture", 99, 1, 1, gputypes.TextureFormatRGBA8Unorm, nil, glfx.InvalidOperation},
		{"undefined format", tex, 1, 1, gputypes.TextureFormatUndefined, nil, glfx.InvalidEnum},
		{"zero width", tex, 0, 1, gputypes.TextureFormatRGBA8Unorm, nil, glfx.InvalidValue},
		{"too large", tex, 1 << 20, 1, gputypes.TextureFormatRGBA8Unorm, nil, glfx.InvalidValue},
		{"short pixels", tex, 2, 2, gputypes.TextureFormatRGBA32Float, make([]byte, 16), glfx.InvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a.TexImage2D(tt.tex, tt.w, tt.h, tt.format, tt.pixels)
			expectError(t, a, tt.want)
		})
	}
}

func TestTexelSize(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		want   int
	}{
		{gputypes.TextureFormatR8Unorm, 1},
		{gputypes.TextureFormatBGRA8Unorm, 4},
		{gputypes.TextureFormatR32Uint, 4},
		{gputypes.TextureFormatRG32Float, 8},
		{gputypes.TextureFormatRGBA32Float, 16},
		{gputypes.TextureFormatUndefined, 0},
	}
	for _, tt := range tests {
		if got := texelSize(tt.format); got != tt.want {
			t.Errorf("texelSize(%v) = %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestTexParameterf(t *testing.T) {
	a := openNoop(t)
	tex := gen(a, glfx.KindTexture)
	a.TexParameterf(tex, glfx.TextureMaxAnisotropy, 8)
	expectError(t, a, glfx.NoError)
	if v, ok := a.TextureParameter(tex, glfx.TextureMaxAnisotropy); !ok || v != 8 {
		t.Errorf("TextureParameter = %v, %v", v, ok)
	}
	a.TexParameterf(tex, glfx.TextureMaxAnisotropy, 0.5)
	expectError(t, a, glfx.InvalidValue)
}
