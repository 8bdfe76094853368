// Package auxdata packs the 4-bit per-cell auxiliary word.
//
// A field is addressed by its mask; values are shifted down by the mask's
// trailing zero count, so Field(0xC) of 0b1001 is 0b10.
package auxdata

import (
	"fmt"
	"math/bits"
)

// Width is the number of significant bits in a cell's aux word.
const Width = 4

// Mask covers every significant bit.
const Mask uint8 = 1<<Width - 1

func shift(mask uint8) uint {
	if mask == 0 {
		return 0
	}
	return uint(bits.TrailingZeros8(mask))
}

func Field(data, mask uint8) uint8 {
	return (data & mask) >> shift(mask)
}

// WithField returns data with the masked field replaced by v. Bits of v that
// do not fit the field are discarded.
func WithField(data, mask, v uint8) uint8 {
	return (data &^ mask) | ((v << shift(mask)) & mask)
}

const (
	RepeaterFacingMask uint8 = 0x3
	RepeaterDelayMask  uint8 = 0xC

	LeverOnMask uint8 = 0x8
)

// RepeaterData is the unpacked form of a repeater's aux word.
type RepeaterData struct {
	FacingIndex uint8 // ESWN order
	DelayIndex  uint8
}

func UnpackRepeater(data uint8) RepeaterData {
	return RepeaterData{
		FacingIndex: Field(data, RepeaterFacingMask),
		DelayIndex:  Field(data, RepeaterDelayMask),
	}
}

func (r RepeaterData) Pack() (uint8, error) {
	if r.FacingIndex > Field(0xFF, RepeaterFacingMask) {
		return 0, fmt.Errorf("facing index out of range: %d", r.FacingIndex)
	}
	if r.DelayIndex > Field(0xFF, RepeaterDelayMask) {
		return 0, fmt.Errorf("delay index out of range: %d", r.DelayIndex)
	}
	d := WithField(0, RepeaterFacingMask, r.FacingIndex)
	return WithField(d, RepeaterDelayMask, r.DelayIndex), nil
}
