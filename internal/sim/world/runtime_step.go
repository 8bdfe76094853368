package world

import (
	"errors"
	"fmt"
	"time"

	"voxelsignal.ai/internal/protocol"
)

// step runs one tick at the current age:
// session changes, due dynamic updates, then client actions in inbox order, then one
// propagation pass over everything committed so far. Changes made by the
// pass itself are propagated on the next tick.
func (w *World) step(joins []JoinRequest, leaves []string, actions []ActionEnvelope) string {
	stepStart := time.Now()
	nowTick := w.tick.Load()

	// Sessions change at the tick boundary; they are not part of the state digest.
	for _, id := range leaves {
		w.handleLeave(id)
	}
	for _, req := range joins {
		w.handleJoin(req)
	}

	res := w.dispatchDue()
	var errs []error
	if res.Err != nil {
		errs = append(errs, res.Err)
	}

	recorded := make([]RecordedAction, 0, len(actions))
	acks := make([]ackOut, 0, len(actions))
	for _, env := range actions {
		recorded = append(recorded, RecordedAction{ClientID: env.ClientID, Act: env.Act})
		aerr := w.applyAct(env.ClientID, env.Act)
		if aerr != nil && aerr.code == protocol.ErrInternal {
			errs = append(errs, fmt.Errorf("%s by %s: %w", env.Act.Action, env.ClientID, aerr))
		}
		acks = append(acks, ackOut{clientID: env.ClientID, actID: env.Act.ActID, err: aerr})
	}

	changes := w.changes
	w.changes = nil
	if err := w.propagate(changes); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		w.metrics.AddHandlerErrors(len(errs))
		w.logf("tick %d age %d: %v", nowTick, w.age, err)
	}

	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{
			Tick:       nowTick,
			Age:        w.age,
			Actions:    recorded,
			Dispatched: res.Dispatched,
			Dropped:    len(res.Dropped),
			Changes:    len(changes),
			Digest:     digest,
		})
	}

	w.sendAcks(nowTick, acks)
	w.broadcastTick(nowTick, digest, res.Dispatched, changes)

	w.metrics.ObserveTick(time.Since(stepStart), w.age, len(w.chunks.Chunks))
	w.tick.Add(1)
	w.setAge(w.age + w.cfg.TimePerTick)

	// Snapshot every N ticks, starting after tick 0. The snapshot resumes at
	// the next tick.
	if w.snapshotSink != nil && nowTick != 0 && w.cfg.SnapshotEveryTicks > 0 {
		if nowTick%uint64(w.cfg.SnapshotEveryTicks) == 0 {
			snap := w.ExportSnapshot()
			select {
			case w.snapshotSink <- snap:
			default:
				// Drop snapshot if sink is backed up.
			}
		}
	}
	return digest
}
