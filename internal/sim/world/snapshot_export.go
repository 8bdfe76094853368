package world

import (
	"voxelsignal.ai/internal/persistence/snapshot"
	"voxelsignal.ai/internal/sim/world/terrain/store"
)

// ExportSnapshot captures the world as it stands before the next tick.
func (w *World) ExportSnapshot() snapshot.SnapshotV1 {
	keys := w.chunks.LoadedChunkKeys()

	events := w.sched.Events()
	pending := make([]snapshot.EventV1, 0, len(events))
	for _, ev := range events {
		pending = append(pending, snapshot.EventV1{
			Pos:      ev.Pos.ToArray(),
			FireTime: ev.FireTime,
			Payload:  ev.Payload,
			Seq:      ev.Seq,
		})
	}

	var unprop []snapshot.ChangeV1
	for _, c := range w.changes {
		unprop = append(unprop, snapshot.ChangeV1{
			Pos:      c.Pos.ToArray(),
			FromID:   c.FromID,
			ToID:     c.ToID,
			FromData: c.FromData,
			ToData:   c.ToData,
			Reason:   c.Reason,
		})
	}

	return snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			WorldID: w.cfg.ID,
			Tick:    w.tick.Load(),
		},
		TickRateHz:    w.cfg.TickRateHz,
		TimePerTick:   w.cfg.TimePerTick,
		Age:           w.age,
		Height:        w.cfg.Height,
		FloorY:        w.cfg.FloorY,
		PaletteDigest: w.catalogs.Blocks.PaletteDigest,
		LampOffDelay:  w.reg.LampOffDelay(),
		Chunks:        store.ExportLoadedChunks(w.chunks.Chunks, keys),
		Pending:       pending,
		NextEventSeq:  w.sched.NextSeq(),
		Unpropagated:  unprop,
	}
}
