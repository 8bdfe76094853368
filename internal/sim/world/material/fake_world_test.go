package material

import (
	"path/filepath"
	"testing"

	"voxelsignal.ai/internal/sim/catalogs"
	"voxelsignal.ai/internal/sim/world/kernel/model"
)

type scheduled struct {
	pos      model.Vec3i
	fireTime int64
	payload  int
}

type cell struct {
	id   uint16
	data uint8
}

// fakeWorld is an unbounded grid with every region loaded. Cells at y=0 that
// were never written read as the floor block.
type fakeWorld struct {
	reg   *Registry
	floor uint16
	cells map[model.Vec3i]cell
	age   int64
	queue []scheduled
}

func newFakeWorld(t *testing.T) *fakeWorld {
	t.Helper()
	cats, err := catalogs.Load(filepath.Join("..", "..", "..", "..", "configs"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	reg, err := NewRegistry(&cats.Blocks, Options{LampOffDelay: 100})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	w := &fakeWorld{reg: reg, cells: map[model.Vec3i]cell{}}
	w.floor = w.mat(t, "STONE").ID()
	return w
}

func (w *fakeWorld) BlockID(pos model.Vec3i) uint16 {
	c, ok := w.cells[pos]
	if !ok && pos.Y == 0 {
		return w.floor
	}
	return c.id
}

func (w *fakeWorld) AuxData(pos model.Vec3i) uint8 { return w.cells[pos].data }
func (w *fakeWorld) RegionLoaded(model.Vec3i) bool { return true }
func (w *fakeWorld) Age() int64                    { return w.age }
func (w *fakeWorld) Material(id uint16) Material   { return w.reg.Get(id) }

func (w *fakeWorld) SetBlockID(pos model.Vec3i, id uint16) bool {
	c := w.cells[pos]
	c.id = id
	w.cells[pos] = c
	return true
}

func (w *fakeWorld) SetAuxData(pos model.Vec3i, d uint8) bool {
	c := w.cells[pos]
	c.data = d & 0xF
	w.cells[pos] = c
	return true
}

func (w *fakeWorld) ScheduleDynamic(pos model.Vec3i, fireTime int64, payload int) bool {
	w.queue = append(w.queue, scheduled{pos: pos, fireTime: fireTime, payload: payload})
	return true
}

func (w *fakeWorld) mat(t *testing.T, name string) Material {
	t.Helper()
	m, ok := w.reg.ByName(name)
	if !ok {
		t.Fatalf("unknown material %s", name)
	}
	return m
}

func (w *fakeWorld) put(t *testing.T, pos model.Vec3i, name string, data uint8) Block {
	t.Helper()
	w.cells[pos] = cell{id: w.mat(t, name).ID(), data: data}
	return At(w, pos)
}

func (w *fakeWorld) name(pos model.Vec3i) string { return w.Material(w.BlockID(pos)).Name() }

func (w *fakeWorld) takeQueue() []scheduled {
	q := w.queue
	w.queue = nil
	return q
}
