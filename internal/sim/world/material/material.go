// Package material binds block kinds to their element handlers.
//
// Every kind implements Material plus whichever capability interfaces it
// needs; the world checks capabilities with type assertions, so a kind that
// does not care about an event simply does not implement the method.
package material

import (
	"voxelsignal.ai/internal/sim/catalogs"
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/logic/effectrange"
	"voxelsignal.ai/internal/sim/world/logic/faces"
	"voxelsignal.ai/internal/sim/world/logic/redstonepower"
)

// World is the grid and clock a handler works against.
type World interface {
	BlockID(pos model.Vec3i) uint16
	SetBlockID(pos model.Vec3i, id uint16) bool
	AuxData(pos model.Vec3i) uint8
	SetAuxData(pos model.Vec3i, d uint8) bool
	RegionLoaded(pos model.Vec3i) bool

	Age() int64
	ScheduleDynamic(pos model.Vec3i, fireTime int64, payload int) bool

	Material(id uint16) Material
}

type Material interface {
	ID() uint16
	Name() string
	Kind() string
}

// Placeable runs once when the block is put into the world by an action.
type Placeable interface {
	OnPlacement(b Block, facing faces.Face) error
}

// Updatable is notified when a cell in whose physics range it lies changes.
type Updatable interface {
	OnUpdate(b Block) error
}

// Dynamic receives scheduled updates.
type Dynamic interface {
	OnDynamicUpdate(b Block, fireTime int64, payload int) error
	DynamicRange(data uint8) (effectrange.Range, error)
}

// PhysicsRanged overrides which cells are notified when this block changes.
// Kinds that do not implement it notify their six neighbors.
type PhysicsRanged interface {
	PhysicsRange(data uint8) (effectrange.Range, error)
}

type PowerSource interface {
	PowerTo(b Block, dir faces.Face, mode redstonepower.Mode) uint8
}

type PowerTarget interface {
	IsReceivingPower(b Block) (bool, error)
}

type Interactable interface {
	OnInteract(b Block) error
}

// Switchable kinds store their output state as an on/off material pair.
type Switchable interface {
	Active() bool
}

type LightEmitter interface {
	LightLevel() int
}

// PhysicsRangeOf resolves the notification range of m for aux data d.
func PhysicsRangeOf(m Material, d uint8) (effectrange.Range, error) {
	if pr, ok := m.(PhysicsRanged); ok {
		return pr.PhysicsRange(d)
	}
	return effectrange.Neighbors, nil
}

type base struct {
	id  uint16
	def catalogs.BlockDef
}

func (m *base) ID() uint16      { return m.id }
func (m *base) Name() string    { return m.def.ID }
func (m *base) Kind() string    { return m.def.Kind }
func (m *base) LightLevel() int { return m.def.LightLevel }
func (m *base) Solid() bool     { return m.def.Solid }

// PlacementChecker rejects a placement before anything is written. b is the
// still empty target cell.
type PlacementChecker interface {
	CheckPlacement(b Block, facing faces.Face) error
}
