// Package opengl provides an OpenGL 4.1 texture sink for the
// glyphcache package. Glyph bitmaps are uploaded as single-channel
// (red) textures; a fragment shader is expected to read the R channel
// as alpha.
//
// All calls require a current OpenGL context on the calling thread.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/glyphcache"
)

// Texture is an OpenGL texture holding a glyph's alpha bitmap.
// It implements glyphcache.Texture.
type Texture struct {
	id     uint32
	width  int
	height int
}

// ID returns the OpenGL texture name, for binding before drawing.
func (t *Texture) ID() uint32 { return t.id }

// Size implements glyphcache.Texture. The designated empty texture
// reports (0, 0) even though its GL storage is a 1x1 transparent
// texel.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Delete releases the GL texture. The cache never deletes textures
// itself; this is for callers tearing down a whole cache.
func (t *Texture) Delete() {
	gl.DeleteTextures(1, &t.id)
	t.id = 0
}

// TextureSink implements glyphcache.TextureSink over OpenGL 4.1.
//
// Like the cache it serves, TextureSink is single-threaded: it must be
// used from the thread owning the GL context.
type TextureSink struct {
	empty *Texture
}

// NewTextureSink creates a TextureSink. A GL context must already be
// current; call gl.Init before constructing the sink.
func NewTextureSink() *TextureSink {
	return &TextureSink{}
}

// CreateEmpty implements glyphcache.TextureSink. The same 1x1
// transparent texture is shared by every zero-area glyph.
func (s *TextureSink) CreateEmpty() (glyphcache.Texture, error) {
	if s.empty != nil {
		return s.empty, nil
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return nil, fmt.Errorf("opengl: glGenTextures failed (no current context?)")
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	transparent := []byte{0}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, 1, 1, 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(transparent))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	s.empty = &Texture{id: tex}
	return s.empty, nil
}

// CreateFromAlpha implements glyphcache.TextureSink.
func (s *TextureSink) CreateFromAlpha(buf []byte, width, height int, settings glyphcache.TextureSettings) (glyphcache.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("opengl: invalid texture dimensions %dx%d", width, height)
	}
	if len(buf) < width*height {
		return nil, fmt.Errorf("opengl: alpha buffer has %d bytes, need %d", len(buf), width*height)
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return nil, fmt.Errorf("opengl: glGenTextures failed (no current context?)")
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(settings.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(settings.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(settings.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(settings.WrapV))

	// Rows are tightly packed one byte per pixel; the default 4-byte
	// unpack alignment would skew odd-width glyphs.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(width), int32(height), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(buf))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{id: tex, width: width, height: height}, nil
}

// glFilter maps a glyphcache filter to its GL constant.
func glFilter(f glyphcache.Filter) int32 {
	switch f {
	case glyphcache.FilterNearest:
		return gl.NEAREST
	default:
		return gl.LINEAR
	}
}

// glWrap maps a glyphcache wrap mode to its GL constant.
func glWrap(w glyphcache.Wrap) int32 {
	switch w {
	case glyphcache.WrapRepeat:
		return gl.REPEAT
	case glyphcache.WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}
