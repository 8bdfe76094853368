package world

import (
	"errors"
	"fmt"

	"voxelsignal.ai/internal/protocol"
	"voxelsignal.ai/internal/sim/world/dynamic"
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/logic/faces"
	"voxelsignal.ai/internal/sim/world/material"
	"voxelsignal.ai/internal/sim/world/terrain/store"
)

// actionError carries the protocol code reported back in the ACK.
type actionError struct {
	code string
	msg  string
}

func (e *actionError) Error() string { return e.code + ": " + e.msg }

// reject builds an action error. Codes outside the protocol's set are
// reported as E_INTERNAL so clients never see an undocumented code.
func reject(code, format string, args ...any) *actionError {
	msg := fmt.Sprintf(format, args...)
	if code == "" || !protocol.IsKnownCode(code) {
		return &actionError{code: protocol.ErrInternal, msg: code + ": " + msg}
	}
	return &actionError{code: code, msg: msg}
}

// applyAct executes one client action. Handler failures after validation are
// reported as E_INTERNAL.
func (w *World) applyAct(clientID string, act protocol.ActMsg) *actionError {
	actor := clientID
	if actor == "" {
		actor = ActorWorld
	}
	w.attribute(actor, act.Action)

	pos := model.Vec3FromArray(act.Pos)
	switch act.Action {
	case protocol.ActionPlace:
		return w.actPlace(pos, act.Block, act.Facing)
	case protocol.ActionBreak:
		return w.actBreak(pos)
	case protocol.ActionInteract:
		return w.actInteract(pos)
	case protocol.ActionLoadChunk:
		return w.actLoadChunk(store.ChunkKey{CX: act.Chunk[0], CZ: act.Chunk[1]})
	case protocol.ActionUnloadChunk:
		return w.actUnloadChunk(store.ChunkKey{CX: act.Chunk[0], CZ: act.Chunk[1]})
	default:
		return reject(protocol.ErrBadRequest, "unknown action %q", act.Action)
	}
}

func (w *World) actPlace(pos model.Vec3i, block, facing string) *actionError {
	m, ok := w.reg.ByName(block)
	if !ok {
		return reject(protocol.ErrBadRequest, "unknown block %q", block)
	}
	if m.ID() == w.air {
		return reject(protocol.ErrBadRequest, "use BREAK to clear a cell")
	}
	f := faces.North
	if facing != "" {
		var err error
		if f, err = faces.Parse(facing); err != nil {
			return reject(protocol.ErrBadRequest, "%v", err)
		}
	}
	if !w.RegionLoaded(pos) {
		return reject(protocol.ErrUnloaded, "cell %v is not loaded", pos)
	}
	if w.BlockID(pos) != w.air {
		return reject(protocol.ErrConflict, "cell %v is occupied", pos)
	}
	if pc, ok := m.(material.PlacementChecker); ok {
		if err := pc.CheckPlacement(material.At(w, pos), f); err != nil {
			if errors.Is(err, material.ErrUnsupported) {
				return reject(protocol.ErrInvalidTarget, "%v", err)
			}
			return reject(protocol.ErrBadRequest, "%v", err)
		}
	}

	w.SetAuxData(pos, 0)
	w.SetBlockID(pos, m.ID())
	if p, ok := m.(material.Placeable); ok {
		if err := p.OnPlacement(material.At(w, pos), f); err != nil {
			return reject(protocol.ErrInternal, "placement: %v", err)
		}
	}
	return nil
}

func (w *World) actBreak(pos model.Vec3i) *actionError {
	if !w.RegionLoaded(pos) {
		return reject(protocol.ErrUnloaded, "cell %v is not loaded", pos)
	}
	if w.BlockID(pos) == w.air {
		return reject(protocol.ErrInvalidTarget, "cell %v is empty", pos)
	}
	// Queued updates for the cell are dropped at dispatch time.
	w.SetAuxData(pos, 0)
	w.SetBlockID(pos, w.air)
	return nil
}

func (w *World) actInteract(pos model.Vec3i) *actionError {
	if !w.RegionLoaded(pos) {
		return reject(protocol.ErrUnloaded, "cell %v is not loaded", pos)
	}
	b := material.At(w, pos)
	it, ok := b.Material().(material.Interactable)
	if !ok {
		return reject(protocol.ErrInvalidTarget, "%s cannot be interacted with", b.Material().Name())
	}
	if err := it.OnInteract(b); err != nil {
		return reject(protocol.ErrInternal, "interact: %v", err)
	}
	return nil
}

func (w *World) actLoadChunk(k store.ChunkKey) *actionError {
	if _, created := w.chunks.Load(k); created {
		w.audit(AuditLoadChunk, model.Vec3i{X: k.CX * store.ChunkSize, Z: k.CZ * store.ChunkSize}, 0, 0, "", nil)
	}
	return nil
}

func (w *World) actUnloadChunk(k store.ChunkKey) *actionError {
	if !w.chunks.Unload(k) {
		return reject(protocol.ErrInvalidTarget, "chunk %d,%d is not loaded", k.CX, k.CZ)
	}
	w.dropChunkState(k)
	w.audit(AuditUnloadChunk, model.Vec3i{X: k.CX * store.ChunkSize, Z: k.CZ * store.ChunkSize}, 0, 0, "", nil)
	return nil
}

// dropChunkState discards queued updates and unpropagated changes inside k.
func (w *World) dropChunkState(k store.ChunkKey) {
	inChunk := func(p model.Vec3i) bool { return store.KeyFor(p.X, p.Z) == k }
	dropped := w.sched.DropWhere(func(ev dynamic.Event) bool { return inChunk(ev.Pos) })
	for _, ev := range dropped {
		w.audit(AuditDropEvent, ev.Pos, 0, 0, "UNLOADED", map[string]any{
			"fire_time": ev.FireTime,
			"payload":   ev.Payload,
		})
	}
	kept := w.changes[:0]
	for _, c := range w.changes {
		if !inChunk(c.Pos) {
			kept = append(kept, c)
		}
	}
	w.changes = kept
}
