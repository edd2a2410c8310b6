// Package formats provides parsers for mesh file formats.
//
// OBJ (Wavefront) is a line-oriented text format: v, vt and vn records build
// attribute pools and f records reference them with 1-based indices.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// OBJ format errors.
var (
	ErrMeshIO = errors.New("mesh file unreadable")
)

// NoIndex marks a face slot whose texcoord or normal sub-index is absent
// while a later slot of the same face carries one.
const NoIndex = -1

// maxOBJLine is the longest line parsed (large faces can be long).
// Longer lines are skipped like any other malformed line.
const maxOBJLine = 1 << 20

// Face is one polygon of a mesh. Indices are 0-based.
// TexCoordIndices and NormalIndices run parallel to VertexIndices but may be
// shorter: trailing slots without a sub-index are not stored at all.
type Face struct {
	VertexIndices   []int
	TexCoordIndices []int
	NormalIndices   []int
}

// Len returns the number of vertices in the face.
func (f *Face) Len() int {
	return len(f.VertexIndices)
}

// TexCoordIndex returns the texcoord index for a slot, if present.
func (f *Face) TexCoordIndex(slot int) (int, bool) {
	return subIndex(f.TexCoordIndices, slot)
}

// NormalIndex returns the normal index for a slot, if present.
func (f *Face) NormalIndex(slot int) (int, bool) {
	return subIndex(f.NormalIndices, slot)
}

func subIndex(indices []int, slot int) (int, bool) {
	if slot < 0 || slot >= len(indices) || indices[slot] == NoIndex {
		return 0, false
	}
	return indices[slot], true
}

// MeshData holds parsed geometry. It is not modified after parsing.
type MeshData struct {
	Positions []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Normals   []mgl32.Vec3
	Faces     []Face

	// Skipped counts lines (or face vertices) dropped as malformed.
	Skipped int
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// FitMatrix returns a transform that centers the box at the origin and
// scales its largest extent to 1. Flat boxes are only centered.
func (b Bounds) FitMatrix() mgl32.Mat4 {
	size := b.Size()
	extent := max(size.X(), size.Y(), size.Z())
	if extent <= 0 {
		extent = 1
	}
	c := b.Center()
	s := 1 / extent
	return mgl32.Scale3D(s, s, s).Mul4(mgl32.Translate3D(-c.X(), -c.Y(), -c.Z()))
}

// Empty reports whether the mesh has no drawable geometry.
func (m *MeshData) Empty() bool {
	return m == nil || len(m.Positions) == 0 || len(m.Faces) == 0
}

// VertexRefs returns the total number of face-vertex references.
func (m *MeshData) VertexRefs() int {
	n := 0
	for i := range m.Faces {
		n += m.Faces[i].Len()
	}
	return n
}

// Bounds returns the bounding box of all positions.
// ok is false when the mesh has no positions.
func (m *MeshData) Bounds() (b Bounds, ok bool) {
	if m == nil || len(m.Positions) == 0 {
		return Bounds{}, false
	}
	b.Min = m.Positions[0]
	b.Max = m.Positions[0]
	for _, p := range m.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < b.Min[i] {
				b.Min[i] = p[i]
			}
			if p[i] > b.Max[i] {
				b.Max[i] = p[i]
			}
		}
	}
	return b, true
}

// MeshStats summarizes a parsed mesh for logging.
type MeshStats struct {
	Positions int
	TexCoords int
	Normals   int
	Faces     int
	Refs      int
	Skipped   int
}

// Stats returns element counts of the mesh.
func (m *MeshData) Stats() MeshStats {
	return MeshStats{
		Positions: len(m.Positions),
		TexCoords: len(m.TexCoords),
		Normals:   len(m.Normals),
		Faces:     len(m.Faces),
		Refs:      m.VertexRefs(),
		Skipped:   m.Skipped,
	}
}

// OBJOption configures an OBJ parse.
type OBJOption func(*objParser)

// WithLogger reports skipped lines at debug level.
func WithLogger(log *zap.Logger) OBJOption {
	return func(p *objParser) {
		if log != nil {
			p.log = log
		}
	}
}

type objParser struct {
	log  *zap.Logger
	line int
	mesh *MeshData

	// scratch for face parsing, reused across lines
	verts, texs, norms []int
}

// LoadOBJ reads and parses an OBJ file.
// If the file cannot be read, an empty mesh is returned along with an error
// wrapping ErrMeshIO.
func LoadOBJ(path string, opts ...OBJOption) (*MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return &MeshData{}, fmt.Errorf("%w: %s: %v", ErrMeshIO, path, err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, opts...)
	if err != nil {
		return mesh, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ parses OBJ data from a reader.
// Malformed lines are skipped and counted; only read failures are errors.
func ParseOBJ(r io.Reader, opts ...OBJOption) (*MeshData, error) {
	p := &objParser{
		log:  zap.NewNop(),
		mesh: &MeshData{},
	}
	for _, opt := range opts {
		opt(p)
	}

	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte
	for {
		line, tooLong, err := readLine(br, buf[:0], maxOBJLine)
		buf = line
		if len(line) > 0 || tooLong {
			p.line++
			if tooLong {
				p.skip("", fmt.Sprintf("line longer than %d bytes", maxOBJLine))
			} else {
				p.parseLine(string(line))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return &MeshData{}, fmt.Errorf("%w: line %d: %v", ErrMeshIO, p.line+1, err)
		}
	}

	if p.mesh.Skipped > 0 {
		p.log.Debug("obj parsed with skipped lines",
			zap.Int("skipped", p.mesh.Skipped),
			zap.Int("lines", p.line),
		)
	}
	return p.mesh, nil
}

// readLine appends the next line, newline included, to buf. A line longer
// than limit is consumed but not returned, and tooLong is set.
func readLine(br *bufio.Reader, buf []byte, limit int) ([]byte, bool, error) {
	tooLong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > limit {
				tooLong = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return buf, tooLong, err
	}
}

func (p *objParser) parseLine(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return
	}

	switch fields[0] {
	case "v":
		v, ok := parseFloats(fields[1:], 3)
		if !ok {
			p.skip("v", "need 3 numeric components")
			return
		}
		p.mesh.Positions = append(p.mesh.Positions, mgl32.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, ok := parseFloats(fields[1:], 2)
		if !ok {
			p.skip("vt", "need 2 numeric components")
			return
		}
		p.mesh.TexCoords = append(p.mesh.TexCoords, mgl32.Vec2{v[0], v[1]})
	case "vn":
		v, ok := parseFloats(fields[1:], 3)
		if !ok {
			p.skip("vn", "need 3 numeric components")
			return
		}
		p.mesh.Normals = append(p.mesh.Normals, mgl32.Vec3{v[0], v[1], v[2]})
	case "f":
		p.parseFace(fields[1:])
	}
	// o, g, s, usemtl, mtllib and unknown directives are ignored
}

// parseFace reads "v", "v/t", "v//n" or "v/t/n" tokens.
func (p *objParser) parseFace(tokens []string) {
	p.verts = p.verts[:0]
	p.texs = p.texs[:0]
	p.norms = p.norms[:0]

	for _, tok := range tokens {
		parts := strings.SplitN(tok, "/", 3)

		vi, ok := resolveIndex(parts[0], len(p.mesh.Positions))
		if !ok {
			p.skip("f", "bad vertex index "+strconv.Quote(tok))
			continue
		}
		p.verts = append(p.verts, vi)

		ti := NoIndex
		if len(parts) > 1 && parts[1] != "" {
			if idx, ok := resolveIndex(parts[1], len(p.mesh.TexCoords)); ok {
				ti = idx
			}
		}
		p.texs = append(p.texs, ti)

		ni := NoIndex
		if len(parts) > 2 && parts[2] != "" {
			if idx, ok := resolveIndex(parts[2], len(p.mesh.Normals)); ok {
				ni = idx
			}
		}
		p.norms = append(p.norms, ni)
	}

	if len(p.verts) < 3 {
		p.skip("f", "fewer than 3 vertices")
		return
	}

	p.mesh.Faces = append(p.mesh.Faces, Face{
		VertexIndices:   append([]int(nil), p.verts...),
		TexCoordIndices: trimAbsent(p.texs),
		NormalIndices:   trimAbsent(p.norms),
	})
}

func (p *objParser) skip(directive, reason string) {
	p.mesh.Skipped++
	p.log.Debug("skipping malformed obj line",
		zap.Int("line", p.line),
		zap.String("directive", directive),
		zap.String("reason", reason),
	)
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index to 0-based.
// count is the number of elements defined so far in the channel.
func resolveIndex(s string, count int) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return 0, false
	}
	if n > 0 {
		return n - 1, true
	}
	idx := count + n
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// trimAbsent copies indices without trailing NoIndex entries.
// Returns nil when no slot has an index.
func trimAbsent(indices []int) []int {
	end := len(indices)
	for end > 0 && indices[end-1] == NoIndex {
		end--
	}
	if end == 0 {
		return nil
	}
	return append([]int(nil), indices[:end]...)
}

// parseFloats parses the first n fields as finite float32 values.
func parseFloats(fields []string, n int) ([]float32, bool) {
	if len(fields) < n {
		return nil, false
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		out[i] = float32(f)
	}
	return out, true
}
