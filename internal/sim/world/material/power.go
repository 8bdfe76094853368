package material

import (
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/logic/faces"
	"voxelsignal.ai/internal/sim/world/logic/redstonepower"
)

// powerEnv answers power queries by asking the source's material.
type powerEnv struct{ w World }

func PowerEnv(w World) redstonepower.Env { return powerEnv{w: w} }

func (e powerEnv) PowerTo(pos model.Vec3i, dir faces.Face, mode redstonepower.Mode) uint8 {
	if !e.w.RegionLoaded(pos) {
		return redstonepower.PowerMin
	}
	src, ok := e.w.Material(e.w.BlockID(pos)).(PowerSource)
	if !ok {
		return redstonepower.PowerMin
	}
	return src.PowerTo(At(e.w, pos), dir, mode)
}

// IsReceivingPower reports whether b is powered, for kinds that take input.
func IsReceivingPower(b Block) (bool, error) {
	t, ok := b.Material().(PowerTarget)
	if !ok {
		return false, nil
	}
	return t.IsReceivingPower(b)
}
