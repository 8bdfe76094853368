package world

import (
	"context"
	"fmt"

	"voxelsignal.ai/internal/persistence/snapshot"
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/material"
)

type summaryReq struct{ resp chan Summary }

type cellReq struct {
	pos  model.Vec3i
	resp chan CellInfo
}

type snapshotReq struct{ resp chan snapshot.SnapshotV1 }

func (w *World) summary() Summary {
	return Summary{
		WorldID:       w.cfg.ID,
		Tick:          w.tick.Load(),
		Age:           w.age,
		LoadedChunks:  len(w.chunks.Chunks),
		PendingEvents: w.sched.Pending(),
		Clients:       len(w.clients),
	}
}

func (w *World) cellInfo(pos model.Vec3i) CellInfo {
	m := w.reg.Get(w.BlockID(pos))
	info := CellInfo{
		Pos:    pos.ToArray(),
		Loaded: w.RegionLoaded(pos),
		Block:  m.Name(),
		Kind:   m.Kind(),
		Data:   w.AuxData(pos),
		Light:  material.LightLevelOf(m),
	}
	for _, ev := range w.sched.PendingAt(pos) {
		info.Pending = append(info.Pending, PendingEvent{FireTime: ev.FireTime, Payload: ev.Payload, Seq: ev.Seq})
	}
	return info
}

// RequestSummary asks the running world loop for a Summary.
func (w *World) RequestSummary(ctx context.Context) (Summary, error) {
	resp := make(chan Summary, 1)
	select {
	case w.summaryReq <- summaryReq{resp: resp}:
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}
	select {
	case s := <-resp:
		return s, nil
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}
}

// RequestCell asks the running world loop to describe one cell.
func (w *World) RequestCell(ctx context.Context, pos model.Vec3i) (CellInfo, error) {
	resp := make(chan CellInfo, 1)
	select {
	case w.cellReq <- cellReq{pos: pos, resp: resp}:
	case <-ctx.Done():
		return CellInfo{}, ctx.Err()
	}
	select {
	case c := <-resp:
		return c, nil
	case <-ctx.Done():
		return CellInfo{}, ctx.Err()
	}
}

// RequestSnapshot returns a snapshot taken at the next tick boundary.
func (w *World) RequestSnapshot(ctx context.Context) (snapshot.SnapshotV1, error) {
	resp := make(chan snapshot.SnapshotV1, 1)
	select {
	case w.snapReq <- snapshotReq{resp: resp}:
	case <-ctx.Done():
		return snapshot.SnapshotV1{}, ctx.Err()
	}
	select {
	case s := <-resp:
		return s, nil
	case <-ctx.Done():
		return snapshot.SnapshotV1{}, ctx.Err()
	}
}

// Summary and Cell read state directly; use them only while the loop is not
// running (tests, replay).
func (w *World) Summary() Summary { return w.summary() }

func (w *World) Cell(pos model.Vec3i) CellInfo { return w.cellInfo(pos) }

// PutBlock writes a cell without running placement handlers, as an edit
// loaded from outside the simulation would. The change is propagated on the
// next tick. The world must not be running.
func (w *World) PutBlock(pos model.Vec3i, block string, data uint8) error {
	m, ok := w.reg.ByName(block)
	if !ok {
		return fmt.Errorf("unknown block %q", block)
	}
	if !w.RegionLoaded(pos) {
		return fmt.Errorf("cell %v is not loaded", pos)
	}
	w.attribute(ActorAdmin, "PUT_BLOCK")
	w.SetAuxData(pos, data)
	w.SetBlockID(pos, m.ID())
	return nil
}

// Registry exposes the material registry, read-only.
func (w *World) Registry() *material.Registry { return w.reg }
