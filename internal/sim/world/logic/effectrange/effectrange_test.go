package effectrange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/logic/faces"
)

func TestNeighborsHasSixOffsets(t *testing.T) {
	require.Equal(t, 6, Neighbors.Len())
	assert.False(t, Neighbors.Contains(model.Vec3i{}))
	assert.True(t, Neighbors.Contains(model.Vec3i{Y: -1}))
}

func TestTranslateDoesNotMutateSource(t *testing.T) {
	moved := This.Translate(faces.East.Offset())
	assert.Equal(t, []model.Vec3i{{X: 1}}, moved.Offsets())
	assert.Equal(t, []model.Vec3i{{}}, This.Offsets())
}

func TestApplyKeepsOrder(t *testing.T) {
	r := FromFaces(faces.North, faces.Top)
	got := r.Apply(model.Vec3i{X: 5, Y: 5, Z: 5})
	assert.Equal(t, []model.Vec3i{{X: 5, Y: 5, Z: 4}, {X: 5, Y: 6, Z: 5}}, got)
}

func TestFromOffsetsDropsDuplicates(t *testing.T) {
	r := FromOffsets(model.Vec3i{X: 1}, model.Vec3i{X: 1}, model.Vec3i{Z: 1})
	assert.Equal(t, 2, r.Len())
}

func TestFacingExcludesOppositeForEveryOrientation(t *testing.T) {
	for i, o := range faces.ESWN {
		r, err := FacingTable.ForIndex(uint8(i))
		require.NoError(t, err)
		require.Equal(t, 6, r.Len(), o.String())

		// The dropped opposite face lands on the element itself after translation.
		assert.False(t, r.Contains(model.Vec3i{}), o.String())
		assert.False(t, r.Contains(o.Opposite().Offset().Add(o.Offset())), o.String())

		assert.True(t, r.Contains(o.Offset()), "front cell for %s", o)
		assert.True(t, r.Contains(o.Offset().Add(o.Offset())), "cell beyond front for %s", o)
		assert.True(t, r.Contains(o.Offset().Add(faces.Top.Offset())), "above front for %s", o)
	}
}

func TestFacingEastMatchesExpectedOffsets(t *testing.T) {
	r := Facing(faces.East)
	assert.ElementsMatch(t, []model.Vec3i{
		{X: 1, Z: -1},
		{X: 2},
		{X: 1, Z: 1},
		{X: 1, Y: -1},
		{X: 1, Y: 1},
		{X: 1},
	}, r.Offsets())
}

func TestTableForIndexRejectsOutOfRange(t *testing.T) {
	_, err := FacingTable.ForIndex(4)
	assert.Error(t, err)
}
