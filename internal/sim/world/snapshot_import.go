package world

import (
	"fmt"

	"voxelsignal.ai/internal/persistence/snapshot"
	"voxelsignal.ai/internal/sim/world/dynamic"
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/terrain/store"
)

// ImportSnapshot replaces the world state with snap. The world must not be
// running.
func (w *World) ImportSnapshot(snap snapshot.SnapshotV1) error {
	if snap.Header.Version != snapshot.Version {
		return fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	if snap.PaletteDigest != "" && snap.PaletteDigest != w.catalogs.Blocks.PaletteDigest {
		return fmt.Errorf("snapshot block palette does not match catalogs")
	}
	if snap.Height != w.cfg.Height {
		return fmt.Errorf("snapshot height %d does not match world height %d", snap.Height, w.cfg.Height)
	}
	if snap.LampOffDelay != 0 && snap.LampOffDelay != w.reg.LampOffDelay() {
		return fmt.Errorf("snapshot lamp_off_delay %d does not match %d", snap.LampOffDelay, w.reg.LampOffDelay())
	}
	if snap.TimePerTick <= 0 {
		return fmt.Errorf("snapshot time_per_tick must be > 0")
	}

	gen := w.chunks.Gen
	gen.FloorY = snap.FloorY
	chunks, err := store.ImportChunks(gen, snap.Chunks)
	if err != nil {
		return err
	}

	sched := dynamic.New(w)
	events := make([]dynamic.Event, 0, len(snap.Pending))
	for _, ev := range snap.Pending {
		events = append(events, dynamic.Event{
			Pos:      model.Vec3FromArray(ev.Pos),
			FireTime: ev.FireTime,
			Payload:  ev.Payload,
			Seq:      ev.Seq,
		})
	}
	if err := sched.Restore(events, snap.NextEventSeq); err != nil {
		return fmt.Errorf("snapshot pending events: %w", err)
	}

	changes := make([]model.CellChange, 0, len(snap.Unpropagated))
	for _, c := range snap.Unpropagated {
		changes = append(changes, model.CellChange{
			Pos:      model.Vec3FromArray(c.Pos),
			FromID:   c.FromID,
			ToID:     c.ToID,
			FromData: c.FromData,
			ToData:   c.ToData,
			Reason:   c.Reason,
		})
	}

	if snap.TickRateHz > 0 {
		w.cfg.TickRateHz = snap.TickRateHz
	}
	w.cfg.TimePerTick = snap.TimePerTick
	w.cfg.FloorY = snap.FloorY
	if snap.Header.WorldID != "" {
		w.cfg.ID = snap.Header.WorldID
	}
	w.chunks = chunks
	w.sched = sched
	w.sched.SetMetrics(w.schedMetrics)
	w.changes = changes
	w.tick.Store(snap.Header.Tick)
	w.setAge(snap.Age)
	return nil
}
