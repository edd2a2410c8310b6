package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/grafika/internal/engine/model"
)

// GPUMesh is a vertex buffer uploaded to the GPU.
type GPUMesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
	layout        model.Layout
}

// UploadMesh copies buf into new GL buffers. An empty buffer yields an
// empty mesh with no GL objects, which Draw skips.
func UploadMesh(buf *model.Buffer) *GPUMesh {
	if buf.Empty() || len(buf.Vertices) == 0 {
		return &GPUMesh{}
	}
	if buf.Indexed() && len(buf.Indices) == 0 {
		return &GPUMesh{}
	}

	m := &GPUMesh{
		layout:  buf.Layout,
		indexed: buf.Indexed(),
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf.Vertices)*4, unsafe.Pointer(&buf.Vertices[0]), gl.STATIC_DRAW)

	for _, p := range buf.Layout.Pointers() {
		gl.VertexAttribPointerWithOffset(p.Location, p.Components, gl.FLOAT, false, p.Stride, p.Offset)
		gl.EnableVertexAttribArray(p.Location)
	}

	if m.indexed {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(buf.Indices)*4, unsafe.Pointer(&buf.Indices[0]), gl.STATIC_DRAW)
		m.count = int32(len(buf.Indices))
	} else {
		m.count = int32(buf.VertexCount)
	}

	gl.BindVertexArray(0)
	return m
}

// Empty reports whether there is nothing to draw.
func (m *GPUMesh) Empty() bool {
	return m == nil || m.vao == 0 || m.count == 0
}

// Delete releases the GL objects.
func (m *GPUMesh) Delete() {
	if m == nil {
		return
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	*m = GPUMesh{}
}
