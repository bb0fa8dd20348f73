package glyphcache

// Texture is an opaque handle to an uploaded single-channel bitmap.
// Handles are owned by the cache record they belong to.
type Texture interface {
	// Size returns the bitmap dimensions in pixels. The designated
	// empty texture reports (0, 0).
	Size() (width, height int)
}

// TextureSink is the interface for materializing rasterized glyph
// bitmaps into textures. Implementations are assumed to never fail on
// well-formed input; the cache treats a sink error as fatal.
type TextureSink interface {
	// CreateEmpty returns the designated empty texture handle, used
	// for glyphs with a zero-area pixel bounding box.
	CreateEmpty() (Texture, error)

	// CreateFromAlpha uploads a width×height single-channel bitmap
	// (one byte per pixel, row-major) and returns its handle. The
	// settings are the cache's texture settings, passed through
	// unchanged.
	CreateFromAlpha(buf []byte, width, height int, settings TextureSettings) (Texture, error)
}

// Filter selects the sampling filter for glyph textures.
type Filter int

const (
	// FilterLinear samples with bilinear interpolation.
	FilterLinear Filter = iota
	// FilterNearest samples the nearest texel.
	FilterNearest
)

// Wrap selects the texture coordinate wrap mode.
type Wrap int

const (
	// WrapClampToEdge clamps coordinates to the texture edge.
	WrapClampToEdge Wrap = iota
	// WrapRepeat tiles the texture.
	WrapRepeat
	// WrapMirroredRepeat tiles the texture with mirroring.
	WrapMirroredRepeat
)

// TextureSettings holds texture creation settings. The cache stores
// them at construction and forwards them unchanged to the sink for
// every upload.
type TextureSettings struct {
	MinFilter Filter
	MagFilter Filter
	WrapU     Wrap
	WrapV     Wrap
}

// DefaultTextureSettings returns linear filtering with edge clamping,
// the usual choice for scaled text.
func DefaultTextureSettings() TextureSettings {
	return TextureSettings{
		MinFilter: FilterLinear,
		MagFilter: FilterLinear,
		WrapU:     WrapClampToEdge,
		WrapV:     WrapClampToEdge,
	}
}
