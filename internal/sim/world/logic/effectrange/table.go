package effectrange

import (
	"fmt"

	"voxelsignal.ai/internal/sim/world/logic/faces"
)

// directionalBase is the cell and its six neighbors, in the order used by
// every directional table.
var directionalBase = [7]faces.Face{
	faces.North, faces.East, faces.South, faces.West, faces.Bottom, faces.Top, faces.This,
}

// Facing is the physics range of a one-way element facing o: the cell in
// front of it plus that cell's neighbors, except the element itself.
//
// Built by dropping opposite(o) from directionalBase and translating the
// rest by o.
func Facing(o faces.Face) Range {
	fs := make([]faces.Face, 0, len(directionalBase))
	for _, f := range directionalBase {
		if f == o.Opposite() {
			continue
		}
		fs = append(fs, f)
	}
	return FromFaces(fs...).Translate(o.Offset())
}

// Table holds one Range per horizontal orientation, indexed in ESWN order.
type Table [4]Range

func NewTable(build func(faces.Face) Range) Table {
	var t Table
	for i, f := range faces.ESWN {
		t[i] = build(f)
	}
	return t
}

// FacingTable is Facing for every ESWN orientation.
var FacingTable = NewTable(Facing)

func (t *Table) ForIndex(i uint8) (Range, error) {
	if int(i) >= len(t) {
		return Range{}, fmt.Errorf("orientation index out of range: %d", i)
	}
	return t[i], nil
}
