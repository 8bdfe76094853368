package world

import (
	"errors"
	"fmt"

	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/material"
)

// propagate notifies every cell in the physics range of each change. The
// range of both the old and the new material counts, so a cell that was
// powered by what got removed still hears about it. Each target is notified
// once per pass, in first-seen order.
func (w *World) propagate(changes []model.CellChange) error {
	if len(changes) == 0 {
		return nil
	}
	var errs []error
	seen := make(map[model.Vec3i]struct{}, len(changes)*7)
	targets := make([]model.Vec3i, 0, len(changes)*7)
	add := func(c model.CellChange, id uint16, data uint8) {
		r, err := material.PhysicsRangeOf(w.reg.Get(id), data)
		if err != nil {
			errs = append(errs, fmt.Errorf("physics range at %v: %w", c.Pos, err))
			return
		}
		for _, p := range r.Apply(c.Pos) {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			targets = append(targets, p)
		}
	}
	for _, c := range changes {
		add(c, c.FromID, c.FromData)
		if c.MaterialChanged() || c.ToData != c.FromData {
			add(c, c.ToID, c.ToData)
		}
	}

	w.attribute(ActorPhysics, "NEIGHBOR_UPDATE")
	for _, p := range targets {
		if !w.RegionLoaded(p) {
			continue
		}
		b := material.At(w, p)
		u, ok := b.Material().(material.Updatable)
		if !ok {
			continue
		}
		if err := u.OnUpdate(b); err != nil {
			errs = append(errs, fmt.Errorf("update at %v: %w", p, err))
		}
	}
	return errors.Join(errs...)
}
