// Package model flattens parsed meshes into interleaved vertex buffers ready for GPU upload.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Build errors.
var (
	ErrInvalidLayout   = errors.New("invalid vertex layout")
	ErrNonTriangleFace = errors.New("non-triangle face in direct mode")
	ErrUnknownLayout   = errors.New("unknown vertex layout")
	ErrUnknownMode     = errors.New("unknown build mode")
)

// floatSize is the byte size of one float32 component.
const floatSize = 4

// Attribute identifies a per-vertex field.
type Attribute int

// Vertex attributes. The value doubles as the shader attribute location.
const (
	AttrPosition Attribute = iota
	AttrNormal
	AttrTexCoord
	AttrColor
)

// String returns the attribute name.
func (a Attribute) String() string {
	switch a {
	case AttrPosition:
		return "position"
	case AttrNormal:
		return "normal"
	case AttrTexCoord:
		return "texcoord"
	case AttrColor:
		return "color"
	default:
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
}

// Components returns the number of floats the attribute occupies.
func (a Attribute) Components() int {
	switch a {
	case AttrTexCoord:
		return 2
	case AttrPosition, AttrNormal, AttrColor:
		return 3
	default:
		return 0
	}
}

// Location returns the shader attribute location for the attribute.
func (a Attribute) Location() uint32 {
	return uint32(a)
}

// Source selects where a channel's values come from.
type Source int

const (
	// SourceMesh reads the matching mesh channel (zero when absent).
	SourceMesh Source = iota
	// SourceConstant writes Channel.Constant for every vertex.
	SourceConstant
	// SourceDerived computes the value: face normal for normals,
	// normal mapped to [0,1] for colors.
	SourceDerived
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceMesh:
		return "mesh"
	case SourceConstant:
		return "constant"
	case SourceDerived:
		return "derived"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Channel describes one field of the interleaved vertex record.
type Channel struct {
	Attribute Attribute
	Enabled   bool
	Source    Source
	Constant  [3]float32

	// Offset is the byte offset within the record, -1 when disabled.
	// Filled in by NewLayout.
	Offset int
}

// Layout is an ordered vertex layout descriptor.
type Layout struct {
	Name     string
	Channels []Channel
	stride   int
}

// NewLayout computes offsets and stride for the given channels, in order.
func NewLayout(name string, channels ...Channel) Layout {
	l := Layout{
		Name:     name,
		Channels: make([]Channel, len(channels)),
	}
	offset := 0
	for i, ch := range channels {
		if ch.Enabled {
			ch.Offset = offset
			offset += ch.Attribute.Components() * floatSize
		} else {
			ch.Offset = -1
		}
		l.Channels[i] = ch
	}
	l.stride = offset
	return l
}

// resolved recomputes offsets and stride from the channel list, so layouts
// built as literals or edited after NewLayout are packed correctly.
func (l Layout) resolved() Layout {
	return NewLayout(l.Name, l.Channels...)
}

// Stride returns the record size in bytes.
func (l Layout) Stride() int {
	return l.stride
}

// Floats returns the record size in float32 components.
func (l Layout) Floats() int {
	return l.stride / floatSize
}

// Channel returns the enabled channel for an attribute.
func (l Layout) Channel(a Attribute) (Channel, bool) {
	for _, ch := range l.Channels {
		if ch.Attribute == a && ch.Enabled {
			return ch, true
		}
	}
	return Channel{}, false
}

// Has reports whether the layout emits an attribute.
func (l Layout) Has(a Attribute) bool {
	_, ok := l.Channel(a)
	return ok
}

// AttributePointer describes one enabled channel as a vertex attribute binding.
type AttributePointer struct {
	Attribute  Attribute
	Location   uint32
	Components int32
	Stride     int32
	Offset     uintptr
}

// Pointers returns the attribute bindings for the enabled channels, in layout order.
func (l Layout) Pointers() []AttributePointer {
	l = l.resolved()
	ptrs := make([]AttributePointer, 0, len(l.Channels))
	for _, ch := range l.Channels {
		if !ch.Enabled {
			continue
		}
		ptrs = append(ptrs, AttributePointer{
			Attribute:  ch.Attribute,
			Location:   ch.Attribute.Location(),
			Components: int32(ch.Attribute.Components()),
			Stride:     int32(l.stride),
			Offset:     uintptr(ch.Offset),
		})
	}
	return ptrs
}

// Validate checks the layout for consistency.
func (l Layout) Validate() error {
	seen := make(map[Attribute]bool, len(l.Channels))
	for _, ch := range l.Channels {
		if ch.Attribute.Components() == 0 {
			return fmt.Errorf("%w: unknown attribute %v", ErrInvalidLayout, ch.Attribute)
		}
		if seen[ch.Attribute] {
			return fmt.Errorf("%w: duplicate %v channel", ErrInvalidLayout, ch.Attribute)
		}
		seen[ch.Attribute] = true
		if !ch.Enabled {
			continue
		}

		switch ch.Source {
		case SourceMesh:
			if ch.Attribute == AttrColor {
				return fmt.Errorf("%w: meshes carry no color channel", ErrInvalidLayout)
			}
		case SourceConstant:
			if ch.Attribute == AttrPosition {
				return fmt.Errorf("%w: position cannot be constant", ErrInvalidLayout)
			}
		case SourceDerived:
			if ch.Attribute != AttrNormal && ch.Attribute != AttrColor {
				return fmt.Errorf("%w: %v cannot be derived", ErrInvalidLayout, ch.Attribute)
			}
		default:
			return fmt.Errorf("%w: unknown source %v", ErrInvalidLayout, ch.Source)
		}
	}

	if pos, ok := l.Channel(AttrPosition); !ok || pos.Source != SourceMesh {
		return fmt.Errorf("%w: position channel required", ErrInvalidLayout)
	}
	return nil
}

// Predefined layouts.
var (
	// LayoutPositionTexCoord matches the textured cube: position(3) + texcoord(2).
	LayoutPositionTexCoord = NewLayout("position-texcoord",
		Channel{Attribute: AttrPosition, Enabled: true},
		Channel{Attribute: AttrTexCoord, Enabled: true},
	)
	// LayoutPositionNormal is position(3) + normal(3).
	LayoutPositionNormal = NewLayout("position-normal",
		Channel{Attribute: AttrPosition, Enabled: true},
		Channel{Attribute: AttrNormal, Enabled: true},
	)
	// LayoutPositionNormalTexCoord is position(3) + normal(3) + texcoord(2).
	LayoutPositionNormalTexCoord = NewLayout("position-normal-texcoord",
		Channel{Attribute: AttrPosition, Enabled: true},
		Channel{Attribute: AttrNormal, Enabled: true},
		Channel{Attribute: AttrTexCoord, Enabled: true},
	)
	// LayoutPositionColor is position(3) + color(3), color derived from the face normal.
	LayoutPositionColor = NewLayout("position-color",
		Channel{Attribute: AttrPosition, Enabled: true},
		Channel{Attribute: AttrColor, Enabled: true, Source: SourceDerived},
	)
)

// LayoutNames lists the predefined layout names.
func LayoutNames() []string {
	return []string{
		LayoutPositionTexCoord.Name,
		LayoutPositionNormal.Name,
		LayoutPositionNormalTexCoord.Name,
		LayoutPositionColor.Name,
	}
}

// LayoutByName returns a predefined layout.
func LayoutByName(name string) (Layout, error) {
	switch strings.ToLower(name) {
	case LayoutPositionTexCoord.Name:
		return LayoutPositionTexCoord, nil
	case LayoutPositionNormal.Name:
		return LayoutPositionNormal, nil
	case LayoutPositionNormalTexCoord.Name, "":
		return LayoutPositionNormalTexCoord, nil
	case LayoutPositionColor.Name:
		return LayoutPositionColor, nil
	default:
		return Layout{}, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
}

// Mode selects how faces are emitted.
type Mode int

const (
	// ModeIndexed fan-triangulates faces into an index list.
	ModeIndexed Mode = iota
	// ModeDirect emits records for non-indexed triangle-list drawing.
	// Every face must be a triangle.
	ModeDirect
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeIndexed:
		return "indexed"
	case ModeDirect:
		return "direct"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "indexed" or "direct".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "indexed", "":
		return ModeIndexed, nil
	case "direct":
		return ModeDirect, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// BuildOptions contains options for buffer building.
type BuildOptions struct {
	Mode Mode
}

// Buffer holds a flattened mesh ready for GPU upload.
type Buffer struct {
	Layout      Layout
	Vertices    []float32
	Indices     []uint32 // nil in ModeDirect
	VertexCount int

	// SkippedRefs counts face-vertex references dropped for out-of-range indices.
	SkippedRefs int
	// SkippedFaces counts faces left with fewer than 3 usable vertices.
	SkippedFaces int
}

// Empty reports whether there is nothing to draw.
func (b *Buffer) Empty() bool {
	return b == nil || b.VertexCount == 0
}

// Indexed reports whether the buffer carries an index list.
func (b *Buffer) Indexed() bool {
	return b != nil && b.Indices != nil
}

// TriangleCount returns the number of triangles the buffer draws.
func (b *Buffer) TriangleCount() int {
	if b == nil {
		return 0
	}
	if b.Indices != nil {
		return len(b.Indices) / 3
	}
	return b.VertexCount / 3
}

// Record returns the float slice of vertex i.
func (b *Buffer) Record(i int) []float32 {
	n := b.Layout.Floats()
	return b.Vertices[i*n : (i+1)*n]
}
