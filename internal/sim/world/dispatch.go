package world

import (
	"voxelsignal.ai/internal/sim/world/dynamic"
	"voxelsignal.ai/internal/sim/world/material"
)

// dispatchDue runs every dynamic update due at the current age.
func (w *World) dispatchDue() dynamic.Result {
	w.attribute(ActorScheduler, "DYNAMIC_UPDATE")
	res := w.sched.AdvanceTo(w.age, w.onDynamicUpdate)
	for _, ev := range res.Dropped {
		reason := "STALE"
		if !w.RegionLoaded(ev.Pos) {
			reason = "UNLOADED"
		}
		w.audit(AuditDropEvent, ev.Pos, 0, 0, reason, map[string]any{
			"fire_time": ev.FireTime,
			"payload":   ev.Payload,
		})
	}
	return res
}

func (w *World) onDynamicUpdate(ev dynamic.Event) error {
	b := material.At(w, ev.Pos)
	d, ok := b.Material().(material.Dynamic)
	if !ok {
		return dynamic.ErrStale
	}
	return d.OnDynamicUpdate(b, ev.FireTime, ev.Payload)
}
