package redstonepower

import (
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/logic/faces"
)

const (
	PowerMin uint8 = 0
	PowerMax uint8 = 15
)

// Mode selects which kinds of sources count when a target samples power.
type Mode uint8

const (
	ModeAll Mode = iota
	ModeAllExceptWire
)

// Env answers how much power the cell at pos sends in direction dir.
// Implementations must not mutate the world.
type Env interface {
	PowerTo(pos model.Vec3i, dir faces.Face, mode Mode) uint8
}

// IsEmittingPowerTo reports whether src sends any power toward dir.
func IsEmittingPowerTo(env Env, src model.Vec3i, dir faces.Face) bool {
	return env.PowerTo(src, dir, ModeAll) > PowerMin
}

// IsReceivingFrom reports whether target is powered by its neighbor on face from.
// The neighbor has to emit toward target, i.e. in the direction opposite to from.
func IsReceivingFrom(env Env, target model.Vec3i, from faces.Face) bool {
	src := target.Add(from.Offset())
	return IsEmittingPowerTo(env, src, from.Opposite())
}

// IsReceivingAny reports whether any of the listed faces powers target.
func IsReceivingAny(env Env, target model.Vec3i, from []faces.Face) bool {
	for _, f := range from {
		if IsReceivingFrom(env, target, f) {
			return true
		}
	}
	return false
}

// Directional is the output rule of a one-way element: full power out of the
// facing side while active, nothing anywhere else.
func Directional(active bool, facing, dir faces.Face) uint8 {
	if active && facing == dir {
		return PowerMax
	}
	return PowerMin
}

// Omni is the output rule of a plain source: full power on every side while active.
func Omni(active bool) uint8 {
	if active {
		return PowerMax
	}
	return PowerMin
}
