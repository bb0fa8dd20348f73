/*
Package glyphcache provides a font-glyph rasterization cache for 2D
rendering pipelines. It converts Unicode characters at a requested
point size into GPU-uploadable single-channel bitmap textures plus
layout metrics (offset and advance width), and memoizes the result so
repeated draws of the same character/size pair avoid re-rasterization
and re-upload.

# Overview

A GlyphCache sits between a text-layout routine and two narrow
collaborators: a GlyphSource that turns a character plus pixel scale
into a scaled glyph outline with metrics, and a TextureSink that turns
an alpha buffer into an opaque texture handle. The built-in
OpenTypeSource parses TTF/OTF/TTC fonts via golang.org/x/image, and
the backend/opengl package provides a TextureSink over OpenGL 4.1.
Both collaborators can be substituted, e.g. with test doubles.

Point sizes are converted to pixels with a fixed 96/72 dpi
approximation (round(points * 1.333)); the cache keys on the converted
pixel size, so nearby point sizes that round to the same pixel size
share one entry. Entries are never evicted and live as long as the
cache.

# Quick Start

	sink := opengl.NewTextureSink() // requires a current GL context
	cache, err := glyphcache.New("DejaVuSansMono.ttf", sink, glyphcache.DefaultTextureSettings())
	if err != nil {
	    log.Fatal(err)
	}

	cache.PreloadPrintableASCII(14)

	pen := glyphcache.Vec2{X: 20, Y: 40} // baseline position
	for _, ch := range "Hello, World!" {
	    g := cache.Character(14, ch)
	    if w, h := g.Texture.Size(); w > 0 && h > 0 {
	        // draw a w×h quad at (pen.X + g.Offset.X, pen.Y - g.Offset.Y)
	    }
	    pen = pen.Add(g.Advance)
	}

# Concurrency

GlyphCache is not safe for concurrent use: Character may insert into
the cache, so concurrent callers must wrap the whole cache in a mutex.
Returned *Glyph records are never mutated after insertion and stay
valid for the cache's lifetime.
*/
package glyphcache
