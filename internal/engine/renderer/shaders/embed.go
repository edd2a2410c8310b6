// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms interleaved mesh vertices.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader applies ambient plus a single point light.
//
//go:embed mesh.frag
var MeshFragmentShader string
