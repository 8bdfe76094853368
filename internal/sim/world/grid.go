package world

import (
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/logic/auxdata"
	"voxelsignal.ai/internal/sim/world/material"
)

// World implements material.World. Every write is recorded as a CellChange
// for the next propagation pass and written to the audit log.

func (w *World) BlockID(pos model.Vec3i) uint16 {
	return w.chunks.GetBlock(pos.X, pos.Y, pos.Z)
}

func (w *World) AuxData(pos model.Vec3i) uint8 {
	return w.chunks.GetData(pos.X, pos.Y, pos.Z)
}

func (w *World) RegionLoaded(pos model.Vec3i) bool {
	return w.chunks.RegionLoaded(pos.X, pos.Y, pos.Z)
}

func (w *World) Age() int64 { return w.age }

func (w *World) Material(id uint16) material.Material { return w.reg.Get(id) }

func (w *World) ScheduleDynamic(pos model.Vec3i, fireTime int64, payload int) bool {
	return w.sched.Schedule(pos, fireTime, payload)
}

func (w *World) SetBlockID(pos model.Vec3i, id uint16) bool {
	from := w.BlockID(pos)
	data := w.AuxData(pos)
	if !w.chunks.SetBlock(pos.X, pos.Y, pos.Z, id) {
		return false
	}
	if from == id {
		return true
	}
	w.changes = append(w.changes, model.CellChange{
		Pos: pos, FromID: from, ToID: id, FromData: data, ToData: data, Reason: w.reason,
	})

	action := AuditSetBlock
	fm, tm := w.reg.Get(from), w.reg.Get(id)
	if fs, ok := fm.(material.Switchable); ok {
		if ts, ok := tm.(material.Switchable); ok && fm.Kind() == tm.Kind() && fs.Active() != ts.Active() {
			action = AuditTransition
			w.metrics.IncTransition(tm.Kind(), ts.Active())
		}
	}
	w.audit(action, pos, from, id, w.reason, nil)
	return true
}

func (w *World) SetAuxData(pos model.Vec3i, d uint8) bool {
	d &= auxdata.Mask
	from := w.AuxData(pos)
	if !w.chunks.SetData(pos.X, pos.Y, pos.Z, d) {
		return false
	}
	if from == d {
		return true
	}
	id := w.BlockID(pos)
	w.changes = append(w.changes, model.CellChange{
		Pos: pos, FromID: id, ToID: id, FromData: from, ToData: d, Reason: w.reason,
	})
	w.audit(AuditSetData, pos, id, id, w.reason, map[string]any{"from_data": from, "to_data": d})
	return true
}

// attribute sets the actor and reason used for changes made until the next call.
func (w *World) attribute(actor, reason string) {
	w.actor = actor
	w.reason = reason
}
