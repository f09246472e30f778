// Package renderer draws frames with OpenGL 4.1 core.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/melencholia/internal/logger"
	"github.com/Faultbox/melencholia/pkg/math"
)

// Vertex format: pos(2) + color(4) = 6 floats.
const solidStride = 6

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer is a Sink backed by an OpenGL context. Draw calls are batched
// in submission order and flushed whenever the primitive type changes.
type Renderer struct {
	config Config
	clear  color.NRGBA
	swap   func()

	solidShader uint32
	solidVAO    uint32
	solidVBO    uint32

	bgShader  uint32
	bgVAO     uint32
	bgVBO     uint32
	bgTexture uint32

	proj  math.Mat4
	batch []float32
	mode  uint32
}

// New creates a renderer. It must be called after the OpenGL context is
// current. swap presents the back buffer; background may be nil.
func New(cfg Config, background *image.NRGBA, clear color.NRGBA, swap func()) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		clear:  clear,
		swap:   swap,
		proj:   math.Ortho(0, float32(cfg.Width), float32(cfg.Height), 0, -1, 1),
		batch:  make([]float32, 0, 1024),
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(float32(clear.R)/255, float32(clear.G)/255, float32(clear.B)/255, float32(clear.A)/255)

	var err error
	r.solidShader, err = linkShaderProgram(solidVertexSource, solidFragmentSource)
	if err != nil {
		return nil, fmt.Errorf("solid shader: %w", err)
	}
	r.solidVAO, r.solidVBO = createBuffers(2, 4)

	if background != nil {
		r.bgShader, err = linkShaderProgram(backgroundVertexSource, backgroundFragmentSource)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("background shader: %w", err)
		}
		r.bgVAO, r.bgVBO = createBuffers(2, 2)
		r.bgTexture = uploadTexture(background)
	}

	return r, nil
}

// Close releases GL resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.bgTexture != 0 {
		gl.DeleteTextures(1, &r.bgTexture)
	}
	for _, vao := range []*uint32{&r.solidVAO, &r.bgVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.bgVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	for _, p := range []uint32{r.solidShader, r.bgShader} {
		if p != 0 {
			gl.DeleteProgram(p)
		}
	}
}

// DrawBackground draws the background texture as a screen-sized quad.
func (r *Renderer) DrawBackground() error {
	if r.bgTexture == 0 {
		return nil
	}
	r.flush()

	w, h := float32(r.config.Width), float32(r.config.Height)
	vertices := []float32{
		// pos(x,y) + uv(u,v); image rows run top to bottom like pixel y
		0, 0, 0, 0,
		w, 0, 1, 0,
		w, h, 1, 1,
		0, 0, 0, 0,
		w, h, 1, 1,
		0, h, 0, 1,
	}

	gl.UseProgram(r.bgShader)
	gl.UniformMatrix4fv(gl.GetUniformLocation(r.bgShader, gl.Str("uProjection\x00")), 1, false, r.proj.Ptr())
	gl.Uniform1i(gl.GetUniformLocation(r.bgShader, gl.Str("uTexture\x00")), 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.bgTexture)

	gl.BindVertexArray(r.bgVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.bgVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return glError("background")
}

// DrawTriangleOutline queues the three edges as lines.
func (r *Renderer) DrawTriangleOutline(p0, p1, p2 math.Vec2, c color.NRGBA) error {
	r.begin(gl.LINES)
	r.vertex(p0, c, c.A)
	r.vertex(p1, c, c.A)
	r.vertex(p1, c, c.A)
	r.vertex(p2, c, c.A)
	r.vertex(p2, c, c.A)
	r.vertex(p0, c, c.A)
	return nil
}

// FillTriangle queues one vertex-coloured triangle.
func (r *Renderer) FillTriangle(p0, p1, p2 math.Vec2, colors [3]color.NRGBA, alpha uint8) error {
	r.begin(gl.TRIANGLES)
	r.vertex(p0, colors[0], alpha)
	r.vertex(p1, colors[1], alpha)
	r.vertex(p2, colors[2], alpha)
	return nil
}

// Present flushes pending draws and swaps buffers.
func (r *Renderer) Present() error {
	r.flush()
	if err := glError("present"); err != nil {
		return err
	}
	r.swap()
	return nil
}

// Clear clears the colour buffer.
func (r *Renderer) Clear() error {
	r.batch = r.batch[:0]
	gl.Clear(gl.COLOR_BUFFER_BIT)
	return nil
}

func (r *Renderer) begin(mode uint32) {
	if mode != r.mode {
		r.flush()
		r.mode = mode
	}
}

func (r *Renderer) vertex(p math.Vec2, c color.NRGBA, alpha uint8) {
	r.batch = append(r.batch,
		p.X, p.Y,
		float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(alpha)/255,
	)
}

// flush draws the queued vertices.
func (r *Renderer) flush() {
	if len(r.batch) == 0 {
		return
	}

	gl.UseProgram(r.solidShader)
	gl.UniformMatrix4fv(gl.GetUniformLocation(r.solidShader, gl.Str("uProjection\x00")), 1, false, r.proj.Ptr())

	gl.BindVertexArray(r.solidVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.solidVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.batch)*4, unsafe.Pointer(&r.batch[0]), gl.STREAM_DRAW)
	gl.DrawArrays(r.mode, 0, int32(len(r.batch)/solidStride))
	gl.BindVertexArray(0)

	r.batch = r.batch[:0]
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: OpenGL error 0x%x", op, code)
	}
	return nil
}

// createBuffers creates a VAO/VBO pair with two float attributes.
func createBuffers(sizeA, sizeB int32) (uint32, uint32) {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride := (sizeA + sizeB) * 4
	gl.VertexAttribPointerWithOffset(0, sizeA, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, sizeB, gl.FLOAT, false, stride, uintptr(sizeA*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

func uploadTexture(img *image.NRGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}

// linkShaderProgram compiles and links a vertex/fragment pair.
func linkShaderProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link failed: %s", log)
	}

	logger.Debug("shader program created", zap.Uint32("program", program))
	return program, nil
}

// compileShader compiles a shader from source.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", log)
	}

	return shader, nil
}
