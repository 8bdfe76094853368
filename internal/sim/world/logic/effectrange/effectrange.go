package effectrange

import (
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/logic/faces"
)

// Range is an immutable list of offsets relative to a cell.
// Values are shared between callers; never modify the returned slices.
type Range struct {
	offsets []model.Vec3i
}

var (
	// This touches only the cell itself.
	This = FromFaces(faces.This)
	// Neighbors touches the six face-adjacent cells.
	Neighbors = FromFaces(faces.NESWBT[:]...)
)

func FromFaces(fs ...faces.Face) Range {
	out := make([]model.Vec3i, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Offset())
	}
	return Range{offsets: dedupe(out)}
}

func FromOffsets(offs ...model.Vec3i) Range {
	cp := make([]model.Vec3i, len(offs))
	copy(cp, offs)
	return Range{offsets: dedupe(cp)}
}

// Translate shifts every offset by d and returns a new Range.
func (r Range) Translate(d model.Vec3i) Range {
	out := make([]model.Vec3i, len(r.offsets))
	for i, o := range r.offsets {
		out[i] = o.Add(d)
	}
	return Range{offsets: out}
}

func (r Range) Len() int { return len(r.offsets) }

func (r Range) Offsets() []model.Vec3i {
	out := make([]model.Vec3i, len(r.offsets))
	copy(out, r.offsets)
	return out
}

func (r Range) Contains(off model.Vec3i) bool {
	for _, o := range r.offsets {
		if o == off {
			return true
		}
	}
	return false
}

// Apply resolves the range to absolute positions around origin, in range order.
func (r Range) Apply(origin model.Vec3i) []model.Vec3i {
	out := make([]model.Vec3i, len(r.offsets))
	for i, o := range r.offsets {
		out[i] = origin.Add(o)
	}
	return out
}

func dedupe(in []model.Vec3i) []model.Vec3i {
	seen := make(map[model.Vec3i]struct{}, len(in))
	out := in[:0]
	for _, o := range in {
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
