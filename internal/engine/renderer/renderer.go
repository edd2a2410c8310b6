// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/grafika/internal/engine/renderer/shaders"
	"github.com/Faultbox/grafika/internal/engine/shader"
	"github.com/Faultbox/grafika/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// ClearColor is the background RGB.
	ClearColor [3]float32
}

// Renderer owns the GL state and the mesh program.
type Renderer struct {
	config  Config
	program *shader.Program
	ctx     *RenderContext
	log     *zap.Logger
}

// New creates a new renderer.
// Must be called after the OpenGL context is current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(cfg.ClearColor[0], cfg.ClearColor[1], cfg.ClearColor[2], 1.0)

	var err error
	r.program, err = shader.NewProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh program: %w", err)
	}
	r.ctx = NewRenderContext(r.program)
	r.log.Debug("mesh program created", zap.Uint32("program", r.program.ID))

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Context returns the uniform context of the mesh program.
func (r *Renderer) Context() *RenderContext {
	return r.ctx
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.program.Delete()
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Begin clears the frame and binds the mesh program.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.program.Use()
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// Draw issues the draw call for mesh. Empty meshes are skipped.
func (r *Renderer) Draw(mesh *GPUMesh) {
	if mesh.Empty() {
		return
	}
	r.ctx.SetChannels(mesh.layout)

	gl.BindVertexArray(mesh.vao)
	if mesh.indexed {
		gl.DrawElementsWithOffset(gl.TRIANGLES, mesh.count, gl.UNSIGNED_INT, 0)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, mesh.count)
	}
}
