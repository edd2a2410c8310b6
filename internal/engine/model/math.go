package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// degenerateArea is the cross product magnitude below which a triangle has no normal.
const degenerateArea = 1e-8

// triangleNormal returns the unit normal of a counter-clockwise triangle.
// Degenerate triangles yield the zero vector.
func triangleNormal(p0, p1, p2 mgl32.Vec3) mgl32.Vec3 {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	l := n.Len()
	if l < degenerateArea {
		return mgl32.Vec3{}
	}
	return n.Mul(1 / l)
}

// normalColor maps a unit normal from [-1,1] to an RGB color in [0,1].
func normalColor(n mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		n[0]*0.5 + 0.5,
		n[1]*0.5 + 0.5,
		n[2]*0.5 + 0.5,
	}
}
