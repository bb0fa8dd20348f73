// Example renders a line of text with a glyph cache in a GLFW window.
//
// Prerequisites:
//
//	go run ./example/ path/to/font.ttf
//
// The example creates a GLFW window, builds a GlyphCache over the
// OpenGL texture sink, preloads printable ASCII, and draws each
// character as a textured quad using the cached offset and advance.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/glyphcache"
	"github.com/go-theft-auto/glyphcache/backend/opengl"
)

const (
	windowWidth  = 800
	windowHeight = 200
	windowTitle  = "glyphcache example"

	fontSize = glyphcache.FontSize(24)
	message  = "The quick brown fox jumps over the lazy dog."
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: example <font.ttf>")
	}
	if err := run(os.Args[1]); err != nil {
		log.Fatal("example failed", "err", err)
	}
}

func run(fontPath string) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return err
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	if err := gl.Init(); err != nil {
		return err
	}

	cache, err := glyphcache.New(fontPath, opengl.NewTextureSink(), glyphcache.DefaultTextureSettings())
	if err != nil {
		return err
	}
	cache.PreloadPrintableASCII(fontSize)
	log.Info("font loaded", "path", fontPath)

	r, err := newQuadRenderer(windowWidth, windowHeight)
	if err != nil {
		return err
	}

	for !window.ShouldClose() {
		gl.ClearColor(0.12, 0.12, 0.12, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		r.drawText(cache, fontSize, message, 20, 110)

		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// Vertex shader: position plus texture coordinate, orthographic
// projection to window space.
const vertexShaderSource = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

uniform mat4 projection;

void main() {
    gl_Position = projection * vec4(aPos, 0.0, 1.0);
    TexCoord = aTexCoord;
}
` + "\x00"

// Fragment shader: the glyph texture's R channel is alpha.
const fragmentShaderSource = `
#version 410 core
in vec2 TexCoord;

out vec4 FragColor;

uniform sampler2D glyphTexture;
uniform vec4 textColor;

void main() {
    float alpha = texture(glyphTexture, TexCoord).r;
    FragColor = vec4(textColor.rgb, textColor.a * alpha);
}
` + "\x00"

// quadRenderer draws one textured quad per glyph. It is deliberately
// unbatched; the point of the example is the cache, not the renderer.
type quadRenderer struct {
	shader   uint32
	vao, vbo uint32
	projLoc  int32
	texLoc   int32
	colorLoc int32
}

func newQuadRenderer(width, height int) (*quadRenderer, error) {
	r := &quadRenderer{}

	var err error
	r.shader, err = createShaderProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	r.projLoc = gl.GetUniformLocation(r.shader, gl.Str("projection\x00"))
	r.texLoc = gl.GetUniformLocation(r.shader, gl.Str("glyphTexture\x00"))
	r.colorLoc = gl.GetUniformLocation(r.shader, gl.Str("textColor\x00"))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	// Vertex layout: Pos (2 floats) + TexCoord (2 floats)
	stride := int32(4 * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 8)
	gl.EnableVertexAttribArray(1)

	gl.UseProgram(r.shader)
	proj := orthoMatrix(0, float32(width), float32(height), 0, -1, 1)
	gl.UniformMatrix4fv(r.projLoc, 1, false, &proj[0])
	gl.Uniform1i(r.texLoc, 0)
	gl.Uniform4f(r.colorLoc, 0.95, 0.95, 0.95, 1.0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return r, nil
}

// drawText draws s with its baseline at (x, y) in window coordinates.
func (r *quadRenderer) drawText(cache *glyphcache.GlyphCache, size glyphcache.FontSize, s string, x, y float64) {
	gl.UseProgram(r.shader)
	gl.BindVertexArray(r.vao)
	gl.ActiveTexture(gl.TEXTURE0)

	pen := glyphcache.Vec2{X: x, Y: y}
	for _, ch := range s {
		g := cache.Character(size, ch)
		if w, h := g.Texture.Size(); w > 0 && h > 0 {
			// Offset.Y is measured up from the baseline; the window
			// coordinate system is y-down.
			left := float32(pen.X + g.Offset.X)
			top := float32(pen.Y - g.Offset.Y)
			r.drawQuad(g.Texture.(*opengl.Texture), left, top, float32(w), float32(h))
		}
		pen = pen.Add(g.Advance)
	}
}

func (r *quadRenderer) drawQuad(tex *opengl.Texture, x, y, w, h float32) {
	vertices := []float32{
		x, y, 0, 0,
		x + w, y, 1, 0,
		x + w, y + h, 1, 1,
		x, y, 0, 0,
		x + w, y + h, 1, 1,
		x, y + h, 0, 1,
	}
	gl.BindTexture(gl.TEXTURE_2D, tex.ID())
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// createShaderProgram compiles and links a shader program.
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &infoLog[0])
		return 0, fmt.Errorf("shader program linking failed: %s", infoLog)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	return program, nil
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &infoLog[0])
		return 0, fmt.Errorf("shader compilation failed: %s", infoLog)
	}
	return shader, nil
}

// orthoMatrix creates an orthographic projection matrix.
func orthoMatrix(left, right, bottom, top, near, far float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}
