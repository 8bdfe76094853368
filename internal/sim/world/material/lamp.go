package material

import (
	"voxelsignal.ai/internal/sim/world/logic/effectrange"
	"voxelsignal.ai/internal/sim/world/logic/faces"
	"voxelsignal.ai/internal/sim/world/logic/redstonepower"
)

// lamp lights up one tick after any face is powered and goes dark offDelay
// after the last input drops.
type lamp struct {
	base
	on       bool
	pair     *lamp
	offDelay int64
}

func (m *lamp) Active() bool { return m.on }

func (m *lamp) variant(on bool) *lamp {
	if m.on == on {
		return m
	}
	return m.pair
}

func (m *lamp) DynamicRange(data uint8) (effectrange.Range, error) {
	return effectrange.This, nil
}

func (m *lamp) IsReceivingPower(b Block) (bool, error) {
	return redstonepower.IsReceivingAny(PowerEnv(b.World()), b.Pos, faces.NESWBT[:]), nil
}

func (m *lamp) OnPlacement(b Block, facing faces.Face) error {
	_, err := b.DynamicUpdate(b.Age(), 0)
	return err
}

func (m *lamp) OnUpdate(b Block) error {
	receiving, err := m.IsReceivingPower(b)
	if err != nil {
		return err
	}
	if receiving == m.on {
		return nil
	}
	if receiving {
		_, err = b.DynamicUpdate(b.Age(), PayloadPowerUp)
		return err
	}
	_, err = b.DynamicUpdate(b.Age()+m.offDelay, 0)
	return err
}

func (m *lamp) OnDynamicUpdate(b Block, fireTime int64, payload int) error {
	receiving, err := m.IsReceivingPower(b)
	if err != nil {
		return err
	}
	if receiving != m.on {
		b.SetMaterial(m.variant(receiving))
	}
	return nil
}
