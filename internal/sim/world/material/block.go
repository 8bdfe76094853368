package material

import (
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/logic/auxdata"
	"voxelsignal.ai/internal/sim/world/logic/faces"
)

// Block is a cell handle. It holds no state of its own; every read goes to
// the world.
type Block struct {
	Pos model.Vec3i
	w   World
}

func At(w World, pos model.Vec3i) Block { return Block{Pos: pos, w: w} }

func (b Block) World() World { return b.w }

func (b Block) ID() uint16 { return b.w.BlockID(b.Pos) }

func (b Block) Material() Material { return b.w.Material(b.ID()) }

func (b Block) Data() uint8 { return b.w.AuxData(b.Pos) }

func (b Block) DataField(mask uint8) uint8 { return auxdata.Field(b.Data(), mask) }

func (b Block) SetData(d uint8) bool { return b.w.SetAuxData(b.Pos, d) }

func (b Block) SetDataField(mask, v uint8) bool {
	return b.SetData(auxdata.WithField(b.Data(), mask, v))
}

// SetMaterial swaps the material and keeps the aux data.
func (b Block) SetMaterial(m Material) bool { return b.w.SetBlockID(b.Pos, m.ID()) }

func (b Block) Loaded() bool { return b.w.RegionLoaded(b.Pos) }

func (b Block) Translate(off model.Vec3i) Block { return At(b.w, b.Pos.Add(off)) }

func (b Block) Neighbor(f faces.Face) Block { return b.Translate(f.Offset()) }

func (b Block) Age() int64 { return b.w.Age() }

// DynamicUpdate schedules an update for every cell in the dynamic range of
// the block's material. It reports whether anything was queued.
func (b Block) DynamicUpdate(fireTime int64, payload int) (bool, error) {
	d, ok := b.Material().(Dynamic)
	if !ok {
		return false, nil
	}
	r, err := d.DynamicRange(b.Data())
	if err != nil {
		return false, err
	}
	queued := false
	for _, p := range r.Apply(b.Pos) {
		if b.w.ScheduleDynamic(p, fireTime, payload) {
			queued = true
		}
	}
	return queued, nil
}
