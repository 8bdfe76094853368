package material

import (
	"voxelsignal.ai/internal/sim/world/logic/auxdata"
	"voxelsignal.ai/internal/sim/world/logic/faces"
	"voxelsignal.ai/internal/sim/world/logic/redstonepower"
)

type plain struct{ base }

type powerBlock struct{ base }

func (m *powerBlock) PowerTo(b Block, dir faces.Face, mode redstonepower.Mode) uint8 {
	return redstonepower.Omni(true)
}

type lever struct{ base }

func (m *lever) OnPlacement(b Block, facing faces.Face) error {
	b.SetData(0)
	return nil
}

func (m *lever) On(b Block) bool { return b.DataField(auxdata.LeverOnMask) != 0 }

func (m *lever) OnInteract(b Block) error {
	next := uint8(1)
	if m.On(b) {
		next = 0
	}
	b.SetDataField(auxdata.LeverOnMask, next)
	return nil
}

func (m *lever) PowerTo(b Block, dir faces.Face, mode redstonepower.Mode) uint8 {
	return redstonepower.Omni(m.On(b))
}
