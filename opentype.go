package glyphcache

import (
	"errors"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ParseFont parses TTF, OTF, TTC or OTC data and returns the first
// font in the collection. Failures are reported as a
// [*FontParseError].
func ParseFont(data []byte) (*sfnt.Font, error) {
	collection, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, &FontParseError{Err: err}
	}
	if collection.NumFonts() == 0 {
		return nil, &FontParseError{Err: errors.New("collection contains no fonts")}
	}
	f, err := collection.Font(0)
	if err != nil {
		return nil, &FontParseError{Err: err}
	}
	return f, nil
}

// OpenTypeSource is the built-in GlyphSource over an sfnt font. It
// loads glyph outlines at the requested pixel scale and rasterizes
// their coverage with x/image/vector.
//
// OpenTypeSource is not safe for concurrent use: it reuses a single
// sfnt.Buffer across calls, matching the cache's single-threaded
// model.
type OpenTypeSource struct {
	font *sfnt.Font
	buf  sfnt.Buffer
}

// NewOpenTypeSource wraps an already-parsed font.
func NewOpenTypeSource(f *sfnt.Font) *OpenTypeSource {
	return &OpenTypeSource{font: f}
}

// Font returns the underlying sfnt font.
func (s *OpenTypeSource) Font() *sfnt.Font { return s.font }

// Glyph implements GlyphSource. Unmapped characters resolve to glyph
// index 0 (notdef) with whatever outline the font provides for it.
func (s *OpenTypeSource) Glyph(ch rune, pixels uint32) (ScaledGlyph, error) {
	ppem := fixed.I(int(pixels))

	index, err := s.font.GlyphIndex(&s.buf, ch)
	if err != nil {
		return nil, err
	}
	segments, err := s.font.LoadGlyph(&s.buf, index, ppem, nil)
	if err != nil {
		return nil, err
	}
	advance, err := s.font.GlyphAdvance(&s.buf, index, ppem, font.HintingNone)
	if err != nil {
		return nil, err
	}

	return &openTypeGlyph{
		index:    index,
		segments: segments,
		advance:  advance,
	}, nil
}

// openTypeGlyph is a scaled glyph backed by sfnt outline segments.
// Segment coordinates are y-down with the origin on the baseline,
// already scaled to the requested ppem.
type openTypeGlyph struct {
	index    sfnt.GlyphIndex
	segments sfnt.Segments
	advance  fixed.Int26_6
}

func (g *openTypeGlyph) ID() uint32 { return uint32(g.index) }

func (g *openTypeGlyph) HasOutline() bool { return len(g.segments) > 0 }

func (g *openTypeGlyph) AdvanceWidth() float64 { return fixedToFloat(g.advance) }

func (g *openTypeGlyph) ExactBounds() (Rect, bool) {
	if len(g.segments) == 0 {
		return Rect{}, false
	}
	b := g.segments.Bounds()
	return Rect{
		MinX: fixedToFloat(b.Min.X),
		MinY: fixedToFloat(b.Min.Y),
		MaxX: fixedToFloat(b.Max.X),
		MaxY: fixedToFloat(b.Max.Y),
	}, true
}

func (g *openTypeGlyph) PixelBounds() (PixelRect, bool) {
	if len(g.segments) == 0 {
		return PixelRect{}, false
	}
	b := g.segments.Bounds()
	return PixelRect{
		MinX: b.Min.X.Floor(),
		MinY: b.Min.Y.Floor(),
		MaxX: b.Max.X.Ceil(),
		MaxY: b.Max.Y.Ceil(),
	}, true
}

// Rasterize renders the outline into an alpha mask and reports every
// covered pixel in the glyph's local space.
func (g *openTypeGlyph) Rasterize(fn func(x, y int, coverage float64)) {
	bounds, ok := g.PixelBounds()
	if !ok {
		return
	}
	width, height := bounds.Width(), bounds.Height()
	if width <= 0 || height <= 0 {
		return
	}

	// The vector rasterizer expects coordinates in the positive
	// quadrant, so the outline is shifted by the pixel bounds minimum.
	offsetX := float32(bounds.MinX)
	offsetY := float32(bounds.MinY)

	r := vector.NewRasterizer(width, height)
	r.DrawOp = draw.Src
	for _, segment := range g.segments {
		p0 := segmentPoint(segment.Args[0], offsetX, offsetY)
		switch segment.Op {
		case sfnt.SegmentOpMoveTo:
			r.MoveTo(p0[0], p0[1])
		case sfnt.SegmentOpLineTo:
			r.LineTo(p0[0], p0[1])
		case sfnt.SegmentOpQuadTo:
			p1 := segmentPoint(segment.Args[1], offsetX, offsetY)
			r.QuadTo(p0[0], p0[1], p1[0], p1[1])
		case sfnt.SegmentOpCubeTo:
			p1 := segmentPoint(segment.Args[1], offsetX, offsetY)
			p2 := segmentPoint(segment.Args[2], offsetX, offsetY)
			r.CubeTo(p0[0], p0[1], p1[0], p1[1], p2[0], p2[1])
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < height; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+width]
		for x, a := range row {
			if a == 0 {
				continue
			}
			fn(x, y, float64(a)/255)
		}
	}
}

func segmentPoint(p fixed.Point26_6, offsetX, offsetY float32) [2]float32 {
	return [2]float32{
		float32(p.X)/64 - offsetX,
		float32(p.Y)/64 - offsetY,
	}
}

func fixedToFloat(x fixed.Int26_6) float64 { return float64(x) / 64 }
