// Package assets provides the built-in viewer mesh.
package assets

import _ "embed"

// CubeOBJ is the unit cube shown when no mesh path is configured.
//
//go:embed cube.obj
var CubeOBJ string
