package glyphcache

import (
	"fmt"
	"math"
	"os"
)

// pointsToPixelsRatio approximates a 96/72 dpi conversion. It is a
// design constant: the public API accepts point sizes as is
// conventional for text APIs, while the cache key and all
// rasterization use pixel units.
const pointsToPixelsRatio = 1.333

// PointsToPixels converts a point size to the pixel size used as the
// cache key and rasterization scale.
func PointsToPixels(size FontSize) uint32 {
	return uint32(math.Round(float64(size) * pointsToPixelsRatio))
}

// key identifies a cached glyph. The size is always the converted
// pixel size, so point sizes that round to the same pixel size share
// one entry.
type key struct {
	pixels uint32
	ch     rune
}

// Glyph is the cached result for one (pixel size, character) pair.
// Records are append-only: once inserted they are never mutated or
// removed, and the returned pointer stays valid for the cache's
// lifetime.
type Glyph struct {
	// Offset is the pen-space offset at which to place the bitmap's
	// origin. X includes the 1px transparent border; Y is sign-flipped
	// from the y-down glyph space and includes the border.
	Offset Vec2

	// Advance is the pen advance after drawing this glyph. Advance.Y
	// is always zero (horizontal text only).
	Advance Vec2

	// Texture holds the uploaded bitmap, or the sink's designated
	// empty handle when the glyph has a zero-area pixel bounding box.
	Texture Texture
}

// GlyphCache memoizes rasterized glyph textures and layout metrics per
// (pixel size, character) pair. Entries are created lazily on first
// lookup and never evicted; the mapping grows for the cache's
// lifetime.
//
// GlyphCache is not safe for concurrent use. Character may insert, so
// concurrent callers need external synchronization around the whole
// cache.
type GlyphCache struct {
	source   GlyphSource
	sink     TextureSink
	settings TextureSettings
	data     map[key]*Glyph
}

// NewFromSource constructs a GlyphCache over an already-constructed
// glyph source.
func NewFromSource(source GlyphSource, sink TextureSink, settings TextureSettings) *GlyphCache {
	return &GlyphCache{
		source:   source,
		sink:     sink,
		settings: settings,
		data:     make(map[key]*Glyph),
	}
}

// New constructs a GlyphCache from a font file path. The file is read
// fully into memory and parsed as a font collection; the first font in
// the collection is used. I/O failures are reported as a
// [*FontLoadError], parse failures as a [*FontParseError].
func New(path string, sink TextureSink, settings TextureSettings) (*GlyphCache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FontLoadError{Path: path, Err: err}
	}
	return NewFromBytes(data, sink, settings)
}

// NewFromBytes constructs a GlyphCache from an in-memory font file,
// for embedded or bundled fonts. The bytes must not be modified while
// the cache is in use.
func NewFromBytes(data []byte, sink TextureSink, settings TextureSettings) (*GlyphCache, error) {
	font, err := ParseFont(data)
	if err != nil {
		return nil, err
	}
	return NewFromSource(NewOpenTypeSource(font), sink, settings), nil
}

// Source returns the glyph source backing this cache.
func (c *GlyphCache) Source() GlyphSource { return c.source }

// PreloadChars populates the cache for every character in chars at the
// given size, discarding the results.
func (c *GlyphCache) PreloadChars(size FontSize, chars []rune) {
	for _, ch := range chars {
		c.Character(size, ch)
	}
}

// PreloadString populates the cache for every character in s at the
// given size.
func (c *GlyphCache) PreloadString(size FontSize, s string) {
	for _, ch := range s {
		c.Character(size, ch)
	}
}

// PreloadPrintableASCII populates the cache for the 95 printable ASCII
// characters [' ', '~'] at the given size. Includes space.
func (c *GlyphCache) PreloadPrintableASCII(size FontSize) {
	for ch := rune(0x20); ch < 0x7F; ch++ {
		c.Character(size, ch)
	}
}

// OptCharacter returns the cached glyph for ch at size if it is
// already cached, without populating on a miss. See the Preload
// functions.
func (c *GlyphCache) OptCharacter(size FontSize, ch rune) (*Glyph, bool) {
	g, ok := c.data[key{pixels: PointsToPixels(size), ch: ch}]
	return g, ok
}

// Character returns the glyph for ch at the given point size,
// rasterizing and uploading it on first use.
//
// A glyph source or texture sink failure signals a broken collaborator
// rather than bad input and panics with the offending character and
// pixel size; valid Unicode scalar values against a parsed font are
// expected to always succeed.
func (c *GlyphCache) Character(size FontSize, ch rune) *Glyph {
	pixels := PointsToPixels(size)
	k := key{pixels: pixels, ch: ch}
	if g, ok := c.data[k]; ok {
		return g
	}

	glyph, err := c.source.Glyph(ch, pixels)
	if err != nil {
		panic(fmt.Sprintf("glyphcache: glyph source failed for %q at %dpx: %v", ch, pixels, err))
	}

	// Some fonts do not carry a visible glyph zero as fallback;
	// substitute U+FFFD so unmapped codepoints don't draw as nothing.
	if glyph.ID() == 0 && !glyph.HasOutline() {
		glyph, err = c.source.Glyph('\uFFFD', pixels)
		if err != nil {
			panic(fmt.Sprintf("glyphcache: glyph source failed for replacement of %q at %dpx: %v", ch, pixels, err))
		}
	}
	if glyph == nil {
		panic(fmt.Sprintf("glyphcache: glyph source returned no glyph for %q at %dpx", ch, pixels))
	}

	exact, _ := glyph.ExactBounds()
	pixelBounds, _ := glyph.PixelBounds()

	g := &Glyph{
		Offset: Vec2{
			X: exact.MinX - 1,
			Y: -float64(pixelBounds.MinY) + 1,
		},
		Advance: Vec2{X: glyph.AdvanceWidth(), Y: 0},
		Texture: c.materialize(glyph, pixelBounds, ch, pixels),
	}
	c.data[k] = g
	return g
}

// materialize rasterizes the glyph's coverage into a bordered alpha
// buffer and uploads it, or returns the sink's empty handle for
// zero-area glyphs such as space.
func (c *GlyphCache) materialize(glyph ScaledGlyph, pixelBounds PixelRect, ch rune, pixels uint32) Texture {
	width, height := pixelBounds.Width(), pixelBounds.Height()
	if width <= 0 || height <= 0 {
		tex, err := c.sink.CreateEmpty()
		if err != nil {
			panic(fmt.Sprintf("glyphcache: texture sink failed for %q at %dpx: %v", ch, pixels, err))
		}
		return tex
	}

	// A 1px transparent border on every side avoids texture-sampling
	// bleed at glyph edges.
	bufWidth, bufHeight := width+2, height+2
	buf := make([]byte, bufWidth*bufHeight)
	glyph.Rasterize(func(x, y int, coverage float64) {
		buf[(y+1)*bufWidth+(x+1)] = byte(math.Round(255 * coverage))
	})

	tex, err := c.sink.CreateFromAlpha(buf, bufWidth, bufHeight, c.settings)
	if err != nil {
		panic(fmt.Sprintf("glyphcache: texture sink failed for %q at %dpx (%dx%d): %v",
			ch, pixels, bufWidth, bufHeight, err))
	}
	Logger().Debug("rasterized glyph",
		"char", string(ch), "pixels", pixels, "width", bufWidth, "height", bufHeight)
	return tex
}
