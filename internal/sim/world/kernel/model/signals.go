package model

// CellChange records a single committed mutation of a cell during one tick.
//
// Changes are the unit of propagation: every change recorded in a tick is
// handed to the physics pass, which notifies the cells in the effect range of
// both the old and the new material.
type CellChange struct {
	Pos      Vec3i
	FromID   uint16
	ToID     uint16
	FromData uint8
	ToData   uint8
	Reason   string
}

// MaterialChanged reports whether the material identity (not only aux data) changed.
func (c CellChange) MaterialChanged() bool { return c.FromID != c.ToID }
