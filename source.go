package glyphcache

// GlyphSource is the interface for the font-rendering capability behind
// a GlyphCache. It maps a character at a uniform pixel scale to a
// positioned, scaled glyph.
//
// The cache does not depend on any concrete font library. Applications
// normally use the built-in OpenTypeSource, but alternative backends
// (or test doubles) can be injected instead.
//
// Implementations are not required to be safe for concurrent use; the
// cache itself is single-threaded.
type GlyphSource interface {
	// Glyph returns the scaled glyph for ch at the given pixel scale.
	// Unmapped characters resolve to the font's notdef glyph (id 0)
	// rather than an error. An error indicates the source itself is
	// broken and is treated as fatal by the cache.
	Glyph(ch rune, pixels uint32) (ScaledGlyph, error)
}

// ScaledGlyph is a glyph positioned at the origin and scaled to a pixel
// size, as produced by a GlyphSource.
type ScaledGlyph interface {
	// ID returns the glyph identifier within the font. ID 0 is the
	// font's notdef placeholder.
	ID() uint32

	// HasOutline reports whether the glyph has any visible contours.
	HasOutline() bool

	// AdvanceWidth returns the horizontal pen advance in pixels.
	AdvanceWidth() float64

	// ExactBounds returns the sub-pixel bounding box of the glyph
	// outline. The second result is false when the glyph has no exact
	// bounds (e.g. whitespace).
	ExactBounds() (Rect, bool)

	// PixelBounds returns the integer pixel bounding box of the glyph
	// positioned at the origin. The second result is false when the
	// glyph has no rasterized extent.
	PixelBounds() (PixelRect, bool)

	// Rasterize invokes fn once per covered pixel with coordinates in
	// the glyph's local space (relative to PixelBounds min) and a
	// coverage value in [0, 1].
	Rasterize(fn func(x, y int, coverage float64))
}
