package material

import (
	"errors"

	"voxelsignal.ai/internal/sim/world/logic/faces"
)

// ErrUnsupported is returned by placement checks when the cell below cannot
// carry the block.
var ErrUnsupported = errors.New("no solid block below")

// Supporter kinds can carry ground-attached blocks on their top face.
type Supporter interface {
	Solid() bool
}

// HasSupport reports whether the cell below b is loaded and solid.
func HasSupport(b Block) bool {
	below := b.Neighbor(faces.Bottom)
	if !below.Loaded() {
		return false
	}
	s, ok := below.Material().(Supporter)
	return ok && s.Solid()
}

// LightLevelOf returns the light m emits, 0 for kinds that emit none.
func LightLevelOf(m Material) int {
	if le, ok := m.(LightEmitter); ok {
		return le.LightLevel()
	}
	return 0
}
