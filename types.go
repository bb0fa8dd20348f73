package glyphcache

// FontSize is a font size in points, as accepted by the public API.
// Sizes are converted to pixels internally (see PointsToPixels); the
// cache keys on the converted pixel size, never on the point size.
type FontSize uint32

// Vec2 represents a 2D vector in pen space.
type Vec2 struct {
	X, Y float64
}

// Add returns the sum of two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Rect is a sub-pixel-precision bounding box in min/max form.
// The coordinate system is y-down with the origin on the baseline,
// matching the glyph coordinate convention of the font stack.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// PixelRect is an integer-aligned bounding box enclosing a positioned
// glyph's rasterized extent.
type PixelRect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Width returns the horizontal extent in pixels.
func (r PixelRect) Width() int { return r.MaxX - r.MinX }

// Height returns the vertical extent in pixels.
func (r PixelRect) Height() int { return r.MaxY - r.MinY }
