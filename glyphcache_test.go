package glyphcache_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-theft-auto/glyphcache"
)

// fakeGlyph is a scripted ScaledGlyph.
type fakeGlyph struct {
	id       uint32
	outline  bool
	advance  float64
	exact    glyphcache.Rect
	hasExact bool
	pixel    glyphcache.PixelRect
	hasPixel bool

	// coverage maps local (x, y) pixels to coverage values.
	coverage map[[2]int]float64
}

func (g *fakeGlyph) ID() uint32            { return g.id }
func (g *fakeGlyph) HasOutline() bool      { return g.outline }
func (g *fakeGlyph) AdvanceWidth() float64 { return g.advance }

func (g *fakeGlyph) ExactBounds() (glyphcache.Rect, bool) {
	return g.exact, g.hasExact
}

func (g *fakeGlyph) PixelBounds() (glyphcache.PixelRect, bool) {
	return g.pixel, g.hasPixel
}

func (g *fakeGlyph) Rasterize(fn func(x, y int, coverage float64)) {
	for pos, v := range g.coverage {
		fn(pos[0], pos[1], v)
	}
}

// solidGlyph builds a fully covered w×h glyph sitting on the baseline.
func solidGlyph(id uint32, w, h int, advance float64) *fakeGlyph {
	coverage := make(map[[2]int]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			coverage[[2]int{x, y}] = 1.0
		}
	}
	return &fakeGlyph{
		id:       id,
		outline:  true,
		advance:  advance,
		exact:    glyphcache.Rect{MinX: 0, MinY: float64(-h), MaxX: float64(w), MaxY: 0},
		hasExact: true,
		pixel:    glyphcache.PixelRect{MinX: 0, MinY: -h, MaxX: w, MaxY: 0},
		hasPixel: true,
		coverage: coverage,
	}
}

type glyphRequest struct {
	ch     rune
	pixels uint32
}

// fakeSource is a call-counting GlyphSource test double.
type fakeSource struct {
	glyphs map[rune]*fakeGlyph
	byAny  *fakeGlyph // returned for runes not in glyphs
	err    error
	calls  []glyphRequest
}

func (s *fakeSource) Glyph(ch rune, pixels uint32) (glyphcache.ScaledGlyph, error) {
	s.calls = append(s.calls, glyphRequest{ch: ch, pixels: pixels})
	if s.err != nil {
		return nil, s.err
	}
	if g, ok := s.glyphs[ch]; ok {
		return g, nil
	}
	if s.byAny != nil {
		return s.byAny, nil
	}
	return nil, fmt.Errorf("no scripted glyph for %q", ch)
}

type fakeTexture struct {
	width, height int
}

func (t *fakeTexture) Size() (int, int) { return t.width, t.height }

type upload struct {
	buf           []byte
	width, height int
	settings      glyphcache.TextureSettings
}

// fakeSink records every materialization request.
type fakeSink struct {
	uploads    []upload
	emptyCalls int
	err        error
}

func (s *fakeSink) CreateEmpty() (glyphcache.Texture, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.emptyCalls++
	return &fakeTexture{}, nil
}

func (s *fakeSink) CreateFromAlpha(buf []byte, width, height int, settings glyphcache.TextureSettings) (glyphcache.Texture, error) {
	if s.err != nil {
		return nil, s.err
	}
	stored := make([]byte, len(buf))
	copy(stored, buf)
	s.uploads = append(s.uploads, upload{buf: stored, width: width, height: height, settings: settings})
	return &fakeTexture{width: width, height: height}, nil
}

// recordView is a comparable projection of a cached glyph.
type recordView struct {
	Offset  glyphcache.Vec2
	Advance glyphcache.Vec2
	W, H    int
}

func view(g *glyphcache.Glyph) recordView {
	w, h := g.Texture.Size()
	return recordView{Offset: g.Offset, Advance: g.Advance, W: w, H: h}
}

func newTestCache(src *fakeSource, sink *fakeSink) *glyphcache.GlyphCache {
	return glyphcache.NewFromSource(src, sink, glyphcache.DefaultTextureSettings())
}

func TestCharacterMemoization(t *testing.T) {
	src := &fakeSource{glyphs: map[rune]*fakeGlyph{'A': solidGlyph(42, 5, 7, 9.5)}}
	sink := &fakeSink{}
	cache := newTestCache(src, sink)

	first := cache.Character(12, 'A')
	second := cache.Character(12, 'A')

	if first != second {
		t.Error("expected the same record on repeated lookups")
	}
	if len(src.calls) != 1 {
		t.Errorf("expected 1 rasterization, got %d source calls", len(src.calls))
	}
	if len(sink.uploads) != 1 {
		t.Errorf("expected 1 upload, got %d", len(sink.uploads))
	}

	want := recordView{
		Offset:  glyphcache.Vec2{X: -1, Y: 8}, // exact min x - 1, -pixel min y + 1
		Advance: glyphcache.Vec2{X: 9.5, Y: 0},
		W:       7, // 5 + 2px border
		H:       9, // 7 + 2px border
	}
	if diff := cmp.Diff(want, view(first)); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestPointsToPixels(t *testing.T) {
	tests := []struct {
		points glyphcache.FontSize
		pixels uint32
	}{
		{1, 1},   // 1.333 rounds down
		{2, 3},   // 2.666 rounds up
		{3, 4},
		{6, 8},
		{9, 12},
		{12, 16},
		{24, 32},
	}
	for _, tt := range tests {
		if got := glyphcache.PointsToPixels(tt.points); got != tt.pixels {
			t.Errorf("PointsToPixels(%d) = %d, want %d", tt.points, got, tt.pixels)
		}
	}
}

func TestCacheKeysOnPixelSize(t *testing.T) {
	src := &fakeSource{byAny: solidGlyph(1, 4, 4, 4)}
	sink := &fakeSink{}
	cache := newTestCache(src, sink)

	cache.Character(12, 'A')
	if len(src.calls) != 1 || src.calls[0].pixels != 16 {
		t.Fatalf("expected one source call at 16px, got %+v", src.calls)
	}

	// Peek converts the same way, so the populated entry is visible.
	if _, ok := cache.OptCharacter(12, 'A'); !ok {
		t.Error("expected entry for the converted pixel size")
	}
}

func TestOptCharacterDoesNotPopulate(t *testing.T) {
	src := &fakeSource{glyphs: map[rune]*fakeGlyph{'A': solidGlyph(42, 5, 7, 9.5)}}
	sink := &fakeSink{}
	cache := newTestCache(src, sink)

	if _, ok := cache.OptCharacter(12, 'A'); ok {
		t.Fatal("peek before populate should be absent")
	}
	if len(src.calls) != 0 {
		t.Fatalf("peek must not rasterize, got %d source calls", len(src.calls))
	}

	populated := cache.Character(12, 'A')
	peeked, ok := cache.OptCharacter(12, 'A')
	if !ok {
		t.Fatal("peek after populate should be present")
	}
	if diff := cmp.Diff(view(populated), view(peeked)); diff != "" {
		t.Errorf("peeked record differs (-populated +peeked):\n%s", diff)
	}
}

func TestPreloadPrintableASCII(t *testing.T) {
	src := &fakeSource{byAny: solidGlyph(1, 4, 6, 5)}
	sink := &fakeSink{}
	cache := newTestCache(src, sink)

	cache.PreloadPrintableASCII(14)

	for ch := rune(0x20); ch < 0x7F; ch++ {
		if _, ok := cache.OptCharacter(14, ch); !ok {
			t.Errorf("expected %q to be preloaded", ch)
		}
	}
	if len(src.calls) != 95 {
		t.Errorf("expected 95 rasterizations, got %d", len(src.calls))
	}
	for _, ch := range []rune{0x1F, 0x7F, 'é', '\n'} {
		if _, ok := cache.OptCharacter(14, ch); ok {
			t.Errorf("did not expect %q to be cached", ch)
		}
	}
}

func TestPreloadChars(t *testing.T) {
	src := &fakeSource{byAny: solidGlyph(1, 4, 6, 5)}
	cache := newTestCache(src, &fakeSink{})

	cache.PreloadChars(10, []rune{'a', 'b', 'c'})
	for _, ch := range "abc" {
		if _, ok := cache.OptCharacter(10, ch); !ok {
			t.Errorf("expected %q to be preloaded", ch)
		}
	}
}

func TestBorderInvariant(t *testing.T) {
	src := &fakeSource{glyphs: map[rune]*fakeGlyph{'#': solidGlyph(3, 3, 2, 4)}}
	sink := &fakeSink{}
	cache := newTestCache(src, sink)

	cache.Character(9, '#')

	if len(sink.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(sink.uploads))
	}
	up := sink.uploads[0]
	if up.width != 5 || up.height != 4 {
		t.Fatalf("expected 5x4 bitmap (3x2 + border), got %dx%d", up.width, up.height)
	}
	for y := 0; y < up.height; y++ {
		for x := 0; x < up.width; x++ {
			v := up.buf[y*up.width+x]
			onBorder := x == 0 || y == 0 || x == up.width-1 || y == up.height-1
			if onBorder && v != 0 {
				t.Errorf("border pixel (%d,%d) = %d, want 0", x, y, v)
			}
			if !onBorder && v != 255 {
				t.Errorf("interior pixel (%d,%d) = %d, want 255", x, y, v)
			}
		}
	}
}

func TestCoverageRounding(t *testing.T) {
	g := &fakeGlyph{
		id:       2,
		outline:  true,
		advance:  3,
		exact:    glyphcache.Rect{MinX: 0, MinY: -1, MaxX: 1, MaxY: 0},
		hasExact: true,
		pixel:    glyphcache.PixelRect{MinX: 0, MinY: -1, MaxX: 1, MaxY: 0},
		hasPixel: true,
		coverage: map[[2]int]float64{{0, 0}: 0.5},
	}
	src := &fakeSource{glyphs: map[rune]*fakeGlyph{'.': g}}
	sink := &fakeSink{}
	cache := newTestCache(src, sink)

	cache.Character(9, '.')

	up := sink.uploads[0]
	if got := up.buf[1*up.width+1]; got != 128 {
		t.Errorf("coverage 0.5 stored as %d, want round(255*0.5) = 128", got)
	}
}

func TestZeroAreaGlyph(t *testing.T) {
	space := &fakeGlyph{id: 4, outline: false, advance: 6}
	src := &fakeSource{glyphs: map[rune]*fakeGlyph{' ': space}}
	sink := &fakeSink{}
	cache := newTestCache(src, sink)

	g := cache.Character(12, ' ')

	if sink.emptyCalls != 1 {
		t.Errorf("expected 1 empty-texture request, got %d", sink.emptyCalls)
	}
	if len(sink.uploads) != 0 {
		t.Errorf("expected no upload attempt, got %d", len(sink.uploads))
	}
	if w, h := g.Texture.Size(); w != 0 || h != 0 {
		t.Errorf("expected empty texture, got %dx%d", w, h)
	}
	// Both bounding boxes fall back to all-zero.
	want := recordView{Offset: glyphcache.Vec2{X: -1, Y: 1}, Advance: glyphcache.Vec2{X: 6, Y: 0}}
	if diff := cmp.Diff(want, view(g)); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestNotdefFallback(t *testing.T) {
	// The font maps U+0378 to a bare notdef but carries a visible
	// replacement glyph.
	notdef := &fakeGlyph{id: 0, outline: false, advance: 2}
	src := &fakeSource{glyphs: map[rune]*fakeGlyph{
		'\u0378': notdef,
		'\uFFFD': solidGlyph(7, 6, 8, 7),
	}}
	sink := &fakeSink{}
	cache := newTestCache(src, sink)

	unmapped := cache.Character(12, '\u0378')

	wantCalls := []glyphRequest{
		{ch: '\u0378', pixels: 16},
		{ch: '\uFFFD', pixels: 16},
	}
	if diff := cmp.Diff(wantCalls, src.calls, cmp.AllowUnexported(glyphRequest{})); diff != "" {
		t.Fatalf("source call mismatch (-want +got):\n%s", diff)
	}

	direct := cache.Character(12, '\uFFFD')
	if diff := cmp.Diff(view(direct), view(unmapped)); diff != "" {
		t.Errorf("substituted record differs from direct U+FFFD (-direct +substituted):\n%s", diff)
	}
}

func TestNotdefWithOutlineIsKept(t *testing.T) {
	// A font whose glyph zero has visible contours needs no
	// substitution.
	notdef := solidGlyph(0, 4, 6, 5)
	src := &fakeSource{glyphs: map[rune]*fakeGlyph{'\u0378': notdef}}
	cache := newTestCache(src, &fakeSink{})

	cache.Character(12, '\u0378')

	if len(src.calls) != 1 {
		t.Errorf("expected no fallback request, got calls %+v", src.calls)
	}
}

func TestSourceFailurePanics(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	cache := newTestCache(src, &fakeSink{})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on glyph source failure")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "'Q'") || !strings.Contains(msg, "16px") {
			t.Errorf("panic message should name the character and pixel size, got %q", msg)
		}
	}()
	cache.Character(12, 'Q')
}

func TestSinkFailurePanics(t *testing.T) {
	src := &fakeSource{glyphs: map[rune]*fakeGlyph{'A': solidGlyph(42, 5, 7, 9.5)}}
	cache := newTestCache(src, &fakeSink{err: errors.New("out of texture memory")})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on texture sink failure")
		}
	}()
	cache.Character(12, 'A')
}

func TestNewReportsLoadError(t *testing.T) {
	_, err := glyphcache.New("testdata/definitely-missing.ttf", &fakeSink{}, glyphcache.DefaultTextureSettings())
	var loadErr *glyphcache.FontLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *FontLoadError, got %T (%v)", err, err)
	}
	if loadErr.Path != "testdata/definitely-missing.ttf" {
		t.Errorf("error should carry the path, got %q", loadErr.Path)
	}
}

func TestNewFromBytesReportsParseError(t *testing.T) {
	_, err := glyphcache.NewFromBytes([]byte("this is not a font"), &fakeSink{}, glyphcache.DefaultTextureSettings())
	var parseErr *glyphcache.FontParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *FontParseError, got %T (%v)", err, err)
	}
}

func TestSettingsPassedThrough(t *testing.T) {
	settings := glyphcache.TextureSettings{
		MinFilter: glyphcache.FilterNearest,
		MagFilter: glyphcache.FilterNearest,
		WrapU:     glyphcache.WrapRepeat,
		WrapV:     glyphcache.WrapMirroredRepeat,
	}
	src := &fakeSource{glyphs: map[rune]*fakeGlyph{'A': solidGlyph(42, 5, 7, 9.5)}}
	sink := &fakeSink{}
	cache := glyphcache.NewFromSource(src, sink, settings)

	cache.Character(12, 'A')

	if sink.uploads[0].settings != settings {
		t.Errorf("settings not forwarded unchanged: got %+v", sink.uploads[0].settings)
	}
}
