package material

import (
	"fmt"

	"voxelsignal.ai/internal/sim/catalogs"
	"voxelsignal.ai/internal/sim/world/logic/auxdata"
	"voxelsignal.ai/internal/sim/world/logic/effectrange"
	"voxelsignal.ai/internal/sim/world/logic/faces"
	"voxelsignal.ai/internal/sim/world/logic/redstonepower"
)

// RepeaterDelays maps the 2-bit delay index to an age span.
var RepeaterDelays = [4]int64{100, 200, 300, 400}

// PayloadPowerUp marks a scheduled check that was queued because the input
// went high.
const PayloadPowerUp = 1

// repeater is a one-way delayed element. Its output state is the material
// itself: the off and on variants point at each other through pair.
type repeater struct {
	base
	on   bool
	pair *repeater
}

func (m *repeater) Active() bool { return m.on }

func (m *repeater) variant(on bool) *repeater {
	if m.on == on {
		return m
	}
	return m.pair
}

func repeaterFacing(data uint8) (faces.Face, error) {
	return faces.FromESWN(auxdata.UnpackRepeater(data).FacingIndex)
}

func repeaterDelay(data uint8) (int64, error) {
	i := auxdata.UnpackRepeater(data).DelayIndex
	if int(i) >= len(RepeaterDelays) {
		return 0, fmt.Errorf("delay index out of range: %d", i)
	}
	return RepeaterDelays[i], nil
}

func (m *repeater) PhysicsRange(data uint8) (effectrange.Range, error) {
	return effectrange.FacingTable.ForIndex(auxdata.UnpackRepeater(data).FacingIndex)
}

func (m *repeater) DynamicRange(data uint8) (effectrange.Range, error) {
	return effectrange.This, nil
}

// IsReceivingPower samples the neighbor behind the repeater. It only counts
// when that neighbor emits in the repeater's facing direction.
func (m *repeater) IsReceivingPower(b Block) (bool, error) {
	facing, err := repeaterFacing(b.Data())
	if err != nil {
		return false, err
	}
	return redstonepower.IsReceivingFrom(PowerEnv(b.World()), b.Pos, facing.Opposite()), nil
}

func (m *repeater) PowerTo(b Block, dir faces.Face, mode redstonepower.Mode) uint8 {
	facing, err := repeaterFacing(b.Data())
	if err != nil {
		return redstonepower.PowerMin
	}
	return redstonepower.Directional(m.on, facing, dir)
}

// CheckPlacement accepts horizontal facings on top of a solid block.
func (m *repeater) CheckPlacement(b Block, facing faces.Face) error {
	if _, ok := faces.ESWNIndex(facing); !ok {
		return fmt.Errorf("repeater cannot face %s", facing)
	}
	if !HasSupport(b) {
		return fmt.Errorf("repeater at %v: %w", b.Pos, ErrUnsupported)
	}
	return nil
}

func (m *repeater) OnPlacement(b Block, facing faces.Face) error {
	if err := m.CheckPlacement(b, facing); err != nil {
		return err
	}
	idx, _ := faces.ESWNIndex(facing)
	d, err := auxdata.RepeaterData{FacingIndex: idx}.Pack()
	if err != nil {
		return err
	}
	b.SetData(d)
	delay, err := repeaterDelay(d)
	if err != nil {
		return err
	}
	_, err = b.DynamicUpdate(b.Age()+delay, 0)
	return err
}

// OnUpdate pops the repeater off when its support is gone. Otherwise it
// queues a delayed check when input and output disagree; it never changes the
// output itself.
func (m *repeater) OnUpdate(b Block) error {
	if !HasSupport(b) {
		b.SetData(0)
		b.SetMaterial(b.World().Material(catalogs.AirID))
		return nil
	}
	receiving, err := m.IsReceivingPower(b)
	if err != nil {
		return err
	}
	if receiving == m.on {
		return nil
	}
	delay, err := repeaterDelay(b.Data())
	if err != nil {
		return err
	}
	payload := 0
	if receiving {
		payload = PayloadPowerUp
	}
	_, err = b.DynamicUpdate(b.Age()+delay, payload)
	return err
}

// OnDynamicUpdate re-samples the input and commits. A power-up check that
// finds the input gone does not latch; it queues a fresh check one delay
// later instead. Power-down checks commit right away.
func (m *repeater) OnDynamicUpdate(b Block, fireTime int64, payload int) error {
	receiving, err := m.IsReceivingPower(b)
	if err != nil {
		return err
	}
	if payload&PayloadPowerUp != 0 {
		if receiving {
			if !m.on {
				b.SetMaterial(m.variant(true))
			}
			return nil
		}
		delay, err := repeaterDelay(b.Data())
		if err != nil {
			return err
		}
		_, err = b.DynamicUpdate(fireTime+delay, 0)
		return err
	}
	if receiving != m.on {
		b.SetMaterial(m.variant(receiving))
	}
	return nil
}

// OnInteract cycles the delay index. The output state is left alone.
func (m *repeater) OnInteract(b Block) error {
	i := b.DataField(auxdata.RepeaterDelayMask)
	b.SetDataField(auxdata.RepeaterDelayMask, (i+1)%uint8(len(RepeaterDelays)))
	return nil
}
