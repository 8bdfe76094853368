package auxdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldUsesMaskShift(t *testing.T) {
	assert.Equal(t, uint8(0b10), Field(0b1001, RepeaterDelayMask))
	assert.Equal(t, uint8(0b01), Field(0b1001, RepeaterFacingMask))
	assert.Equal(t, uint8(1), Field(0b1000, LeverOnMask))
}

func TestWithFieldLeavesOtherBits(t *testing.T) {
	d := WithField(0b0011, RepeaterDelayMask, 3)
	assert.Equal(t, uint8(0b1111), d)
	d = WithField(d, RepeaterFacingMask, 0)
	assert.Equal(t, uint8(0b1100), d)
	// Overflowing values are truncated to the field.
	assert.Equal(t, uint8(0b0100), WithField(0, RepeaterDelayMask, 0b101))
}

func TestRepeaterPackUnpack(t *testing.T) {
	for f := uint8(0); f < 4; f++ {
		for d := uint8(0); d < 4; d++ {
			packed, err := RepeaterData{FacingIndex: f, DelayIndex: d}.Pack()
			require.NoError(t, err)
			assert.LessOrEqual(t, packed, Mask)
			assert.Equal(t, RepeaterData{FacingIndex: f, DelayIndex: d}, UnpackRepeater(packed))
		}
	}
	_, err := RepeaterData{FacingIndex: 4}.Pack()
	assert.Error(t, err)
}
