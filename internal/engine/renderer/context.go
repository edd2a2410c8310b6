package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/grafika/internal/engine/camera"
	"github.com/Faultbox/grafika/internal/engine/lighting"
	"github.com/Faultbox/grafika/internal/engine/model"
	"github.com/Faultbox/grafika/internal/engine/shader"
)

// RenderContext holds the uniform locations of the mesh program.
// It is owned by the renderer and passed explicitly; inactive uniforms are -1
// and silently ignored by GL.
type RenderContext struct {
	model      int32
	view       int32
	projection int32

	hasNormal   int32
	hasTexCoord int32
	hasColor    int32

	lightingEnabled int32
	ambient         int32
	lightStrength   int32
	lightPos        int32
	ambientColor    int32
	diffuseColor    int32
}

// NewRenderContext looks up the uniform locations of p.
func NewRenderContext(p *shader.Program) *RenderContext {
	return &RenderContext{
		model:           p.Uniform("uModel"),
		view:            p.Uniform("uView"),
		projection:      p.Uniform("uProjection"),
		hasNormal:       p.Uniform("uHasNormal"),
		hasTexCoord:     p.Uniform("uHasTexCoord"),
		hasColor:        p.Uniform("uHasColor"),
		lightingEnabled: p.Uniform("uLightingEnabled"),
		ambient:         p.Uniform("uAmbient"),
		lightStrength:   p.Uniform("uLightStrength"),
		lightPos:        p.Uniform("uLightPos"),
		ambientColor:    p.Uniform("uAmbientColor"),
		diffuseColor:    p.Uniform("uDiffuseColor"),
	}
}

// Apply uploads the per-frame camera and lighting uniforms.
// The program must be bound.
func (c *RenderContext) Apply(pose camera.Pose, projection mgl32.Mat4, light lighting.Uniforms) {
	view := pose.ViewMatrix()
	gl.UniformMatrix4fv(c.view, 1, false, &view[0])
	gl.UniformMatrix4fv(c.projection, 1, false, &projection[0])

	gl.Uniform1i(c.lightingEnabled, boolInt(light.Enabled))
	gl.Uniform1f(c.ambient, light.Ambient)
	gl.Uniform1f(c.lightStrength, light.LightStrength)
	gl.Uniform3fv(c.lightPos, 1, &light.LightPosition[0])
	gl.Uniform3fv(c.ambientColor, 1, &light.AmbientColor[0])
	gl.Uniform3fv(c.diffuseColor, 1, &light.DiffuseColor[0])
}

// SetModel uploads the model matrix.
func (c *RenderContext) SetModel(m mgl32.Mat4) {
	gl.UniformMatrix4fv(c.model, 1, false, &m[0])
}

// SetChannels tells the fragment shader which attributes the layout carries.
func (c *RenderContext) SetChannels(layout model.Layout) {
	gl.Uniform1i(c.hasNormal, boolInt(layout.Has(model.AttrNormal)))
	gl.Uniform1i(c.hasTexCoord, boolInt(layout.Has(model.AttrTexCoord)))
	gl.Uniform1i(c.hasColor, boolInt(layout.Has(model.AttrColor)))
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
