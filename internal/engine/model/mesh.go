package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/grafika/pkg/formats"
)

// Build flattens mesh faces into an interleaved vertex buffer matching layout.
//
// One record is emitted per face-vertex reference, in parsed order, without
// deduplication. Absent normals and texcoords are zero-filled. A reference whose
// position index is out of range is skipped, as is one whose normal or texcoord
// index points past a non-empty mesh channel the layout reads. Faces left with
// fewer than 3 usable vertices are skipped.
//
// In ModeIndexed faces are fan-triangulated into Buffer.Indices. In ModeDirect
// every face must be a triangle; any other face returns ErrNonTriangleFace.
//
// An empty mesh yields an empty buffer and no error.
func Build(mesh *formats.MeshData, layout Layout, opts BuildOptions) (*Buffer, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	layout = layout.resolved()
	if opts.Mode != ModeIndexed && opts.Mode != ModeDirect {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, opts.Mode)
	}

	buf := &Buffer{Layout: layout}
	if opts.Mode == ModeIndexed {
		buf.Indices = []uint32{}
	}
	if mesh == nil || len(mesh.Positions) == 0 {
		return buf, nil
	}

	if opts.Mode == ModeDirect {
		for i := range mesh.Faces {
			if n := mesh.Faces[i].Len(); n != 3 {
				return nil, fmt.Errorf("%w: face %d has %d vertices", ErrNonTriangleFace, i, n)
			}
		}
	}

	refs := mesh.VertexRefs()
	buf.Vertices = make([]float32, 0, refs*layout.Floats())
	if opts.Mode == ModeIndexed {
		buf.Indices = make([]uint32, 0, refs*3)
	}

	e := emitter{mesh: mesh, layout: layout}
	slots := make([]int, 0, 8)

	for fi := range mesh.Faces {
		face := &mesh.Faces[fi]

		slots = slots[:0]
		for slot := range face.VertexIndices {
			if !e.usable(face, slot) {
				buf.SkippedRefs++
				continue
			}
			slots = append(slots, slot)
		}
		if len(slots) < 3 {
			buf.SkippedFaces++
			continue
		}

		normal := e.faceNormal(face, slots)
		base := uint32(buf.VertexCount)
		for _, slot := range slots {
			buf.Vertices = e.appendRecord(buf.Vertices, face, slot, normal)
			buf.VertexCount++
		}

		if opts.Mode == ModeIndexed {
			// Fan around the first vertex: (0, i-1, i)
			for i := 2; i < len(slots); i++ {
				buf.Indices = append(buf.Indices, base, base+uint32(i-1), base+uint32(i))
			}
		}
	}

	return buf, nil
}

// emitter writes vertex records for one mesh/layout pair.
type emitter struct {
	mesh   *formats.MeshData
	layout Layout
}

// usable reports whether a face slot can be emitted without out-of-range reads.
func (e *emitter) usable(face *formats.Face, slot int) bool {
	vi := face.VertexIndices[slot]
	if vi < 0 || vi >= len(e.mesh.Positions) {
		return false
	}
	if ch, ok := e.layout.Channel(AttrNormal); ok && ch.Source == SourceMesh && len(e.mesh.Normals) > 0 {
		if ni, ok := face.NormalIndex(slot); ok && (ni < 0 || ni >= len(e.mesh.Normals)) {
			return false
		}
	}
	if ch, ok := e.layout.Channel(AttrTexCoord); ok && ch.Source == SourceMesh && len(e.mesh.TexCoords) > 0 {
		if ti, ok := face.TexCoordIndex(slot); ok && (ti < 0 || ti >= len(e.mesh.TexCoords)) {
			return false
		}
	}
	return true
}

// faceNormal returns the geometric normal of the first three usable vertices.
func (e *emitter) faceNormal(face *formats.Face, slots []int) mgl32.Vec3 {
	p0 := e.mesh.Positions[face.VertexIndices[slots[0]]]
	p1 := e.mesh.Positions[face.VertexIndices[slots[1]]]
	p2 := e.mesh.Positions[face.VertexIndices[slots[2]]]
	return triangleNormal(p0, p1, p2)
}

// meshNormal returns the mesh normal for a slot, or zero when absent.
func (e *emitter) meshNormal(face *formats.Face, slot int) mgl32.Vec3 {
	if len(e.mesh.Normals) == 0 {
		return mgl32.Vec3{}
	}
	ni, ok := face.NormalIndex(slot)
	if !ok || ni < 0 || ni >= len(e.mesh.Normals) {
		return mgl32.Vec3{}
	}
	return e.mesh.Normals[ni]
}

// meshTexCoord returns the mesh texcoord for a slot, or zero when absent.
func (e *emitter) meshTexCoord(face *formats.Face, slot int) mgl32.Vec2 {
	if len(e.mesh.TexCoords) == 0 {
		return mgl32.Vec2{}
	}
	ti, ok := face.TexCoordIndex(slot)
	if !ok || ti < 0 || ti >= len(e.mesh.TexCoords) {
		return mgl32.Vec2{}
	}
	return e.mesh.TexCoords[ti]
}

// appendRecord appends one zeroed record and fills the enabled channels at their offsets.
func (e *emitter) appendRecord(dst []float32, face *formats.Face, slot int, faceNormal mgl32.Vec3) []float32 {
	start := len(dst)
	for i := 0; i < e.layout.Floats(); i++ {
		dst = append(dst, 0)
	}
	rec := dst[start:]

	for _, ch := range e.layout.Channels {
		if !ch.Enabled {
			continue
		}
		field := rec[ch.Offset/floatSize : ch.Offset/floatSize+ch.Attribute.Components()]

		switch ch.Source {
		case SourceConstant:
			copy(field, ch.Constant[:])
			continue
		case SourceDerived:
			n := faceNormal
			if ch.Attribute == AttrColor {
				if mn := e.meshNormal(face, slot); mn != (mgl32.Vec3{}) {
					n = mn
				}
				n = normalColor(n)
			}
			copy(field, n[:])
			continue
		}

		switch ch.Attribute {
		case AttrPosition:
			p := e.mesh.Positions[face.VertexIndices[slot]]
			copy(field, p[:])
		case AttrNormal:
			n := e.meshNormal(face, slot)
			copy(field, n[:])
		case AttrTexCoord:
			uv := e.meshTexCoord(face, slot)
			copy(field, uv[:])
		}
	}
	return dst
}
