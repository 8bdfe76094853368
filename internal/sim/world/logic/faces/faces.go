// Package faces names the six block faces plus the block itself and maps them
// to unit offsets in world space (+X east, +Y up, +Z south).
package faces

import (
	"fmt"

	"voxelsignal.ai/internal/sim/world/kernel/model"
)

type Face uint8

const (
	This Face = iota
	North
	East
	South
	West
	Top
	Bottom
)

var names = [...]string{
	This:   "THIS",
	North:  "NORTH",
	East:   "EAST",
	South:  "SOUTH",
	West:   "WEST",
	Top:    "TOP",
	Bottom: "BOTTOM",
}

var offsets = [...]model.Vec3i{
	This:   {},
	North:  {Z: -1},
	East:   {X: 1},
	South:  {Z: 1},
	West:   {X: -1},
	Top:    {Y: 1},
	Bottom: {Y: -1},
}

var opposites = [...]Face{
	This:   This,
	North:  South,
	East:   West,
	South:  North,
	West:   East,
	Top:    Bottom,
	Bottom: Top,
}

// ESWN is the horizontal facing order stored in 2-bit orientation fields.
var ESWN = [4]Face{East, South, West, North}

// NESWBT is every neighbor face, excluding This.
var NESWBT = [6]Face{North, East, South, West, Bottom, Top}

func (f Face) Valid() bool { return int(f) < len(names) }

func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("FACE(%d)", uint8(f))
	}
	return names[f]
}

func (f Face) Offset() model.Vec3i {
	if !f.Valid() {
		return model.Vec3i{}
	}
	return offsets[f]
}

func (f Face) Opposite() Face {
	if !f.Valid() {
		return f
	}
	return opposites[f]
}

func (f Face) Horizontal() bool {
	return f == North || f == East || f == South || f == West
}

// FromESWN decodes a 2-bit orientation index.
func FromESWN(i uint8) (Face, error) {
	if int(i) >= len(ESWN) {
		return This, fmt.Errorf("orientation index out of range: %d", i)
	}
	return ESWN[i], nil
}

// ESWNIndex encodes a horizontal face; ok is false for This/Top/Bottom.
func ESWNIndex(f Face) (uint8, bool) {
	for i, e := range ESWN {
		if e == f {
			return uint8(i), true
		}
	}
	return 0, false
}

// Parse accepts the upper-case face names used on the wire.
func Parse(s string) (Face, error) {
	for i, n := range names {
		if n == s {
			return Face(i), nil
		}
	}
	return This, fmt.Errorf("unknown face %q", s)
}
