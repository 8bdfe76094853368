package world

import "voxelsignal.ai/internal/sim/world/kernel/model"

func (w *World) audit(action string, pos model.Vec3i, from, to uint16, reason string, details map[string]any) {
	if w.auditLogger == nil {
		return
	}
	_ = w.auditLogger.WriteAudit(AuditEntry{
		Tick:    w.tick.Load(),
		Age:     w.age,
		Actor:   w.actor,
		Action:  action,
		Pos:     pos.ToArray(),
		From:    from,
		To:      to,
		Reason:  reason,
		Details: details,
	})
}
