package worldtest

import (
	"encoding/json"
	"fmt"
	"testing"

	"voxelsignal.ai/internal/protocol"
	"voxelsignal.ai/internal/sim/catalogs"
	world "voxelsignal.ai/internal/sim/world"
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/logic/auxdata"
)

// Harness drives a world through its exported API only:
// - Step() applies ACTs via StepOnce()
// - Join() registers a client whose Out channel collects ACK and TICK frames
// - Put() writes pre-existing cells without placement handlers
//
// It avoids world internals so tests can live outside the world package.
type Harness struct {
	T    *testing.T
	Cats *catalogs.Catalogs
	W    *world.World

	ClientID string

	out      chan []byte
	actSeq   int
	acks     map[string]protocol.AckMsg
	lastTick protocol.TickMsg
	ticks    []protocol.TickMsg
}

// DefaultConfig is a world where one tick advances the age by one, so ages
// in tests read as tick numbers.
func DefaultConfig() world.WorldConfig {
	return world.WorldConfig{
		ID:            "test",
		TickRateHz:    20,
		TimePerTick:   1,
		Height:        16,
		FloorY:        0,
		PreloadRadius: 1,
		LampOffDelay:  100,
	}
}

func LoadCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return cats
}

func NewHarness(t *testing.T, cfg world.WorldConfig) *Harness {
	t.Helper()
	cats := LoadCatalogs(t)
	w, err := world.New(cfg, cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return NewHarnessWithWorld(t, w, cats)
}

// NewHarnessWithWorld wraps an already-constructed world, e.g. one restored
// from a snapshot.
func NewHarnessWithWorld(t *testing.T, w *world.World, cats *catalogs.Catalogs) *Harness {
	t.Helper()
	if w == nil {
		t.Fatalf("NewHarnessWithWorld: nil world")
	}
	return &Harness{T: t, Cats: cats, W: w, acks: map[string]protocol.AckMsg{}}
}

// Join registers a client. The join is applied by a tick of its own.
func (h *Harness) Join(name string) protocol.WelcomeMsg {
	h.T.Helper()
	if h.out != nil {
		h.T.Fatalf("harness already joined as %s", h.ClientID)
	}
	h.out = make(chan []byte, 256)
	resp := make(chan world.JoinResponse, 1)
	_, _ = h.W.StepOnce([]world.JoinRequest{{Name: name, Out: h.out, Resp: resp}}, nil, nil)
	jr := <-resp
	if jr.Welcome.ClientID == "" {
		h.T.Fatalf("join returned empty client id")
	}
	h.ClientID = jr.Welcome.ClientID
	h.drain()
	return jr.Welcome
}

func (h *Harness) nextActID() string {
	h.actSeq++
	return fmt.Sprintf("A%d", h.actSeq)
}

func (h *Harness) act(action string) protocol.ActMsg {
	return protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ActID:           h.nextActID(),
		Action:          action,
	}
}

func (h *Harness) Place(pos model.Vec3i, block, facing string) protocol.ActMsg {
	a := h.act(protocol.ActionPlace)
	a.Pos = pos.ToArray()
	a.Block = block
	a.Facing = facing
	return a
}

func (h *Harness) Break(pos model.Vec3i) protocol.ActMsg {
	a := h.act(protocol.ActionBreak)
	a.Pos = pos.ToArray()
	return a
}

func (h *Harness) Interact(pos model.Vec3i) protocol.ActMsg {
	a := h.act(protocol.ActionInteract)
	a.Pos = pos.ToArray()
	return a
}

func (h *Harness) LoadChunk(cx, cz int) protocol.ActMsg {
	a := h.act(protocol.ActionLoadChunk)
	a.Chunk = [2]int{cx, cz}
	return a
}

func (h *Harness) UnloadChunk(cx, cz int) protocol.ActMsg {
	a := h.act(protocol.ActionUnloadChunk)
	a.Chunk = [2]int{cx, cz}
	return a
}

// Step runs one tick with acts applied in order and returns its digest.
func (h *Harness) Step(acts ...protocol.ActMsg) string {
	h.T.Helper()
	envs := make([]world.ActionEnvelope, 0, len(acts))
	for _, a := range acts {
		envs = append(envs, world.ActionEnvelope{ClientID: h.ClientID, Act: a})
	}
	_, digest := h.W.StepOnce(nil, nil, envs)
	h.drain()
	return digest
}

// AdvanceTo runs empty ticks until the next tick is the one at age.
func (h *Harness) AdvanceTo(age int64) {
	h.T.Helper()
	if h.W.CurrentAge() > age {
		h.T.Fatalf("AdvanceTo(%d): world is already at age %d", age, h.W.CurrentAge())
	}
	for h.W.CurrentAge() < age {
		h.Step()
	}
}

// RunThrough runs every tick up to and including the one at age.
func (h *Harness) RunThrough(age int64) {
	h.T.Helper()
	h.AdvanceTo(age)
	h.Step()
}

// StepAt advances to age and runs that tick with acts.
func (h *Harness) StepAt(age int64, acts ...protocol.ActMsg) string {
	h.T.Helper()
	h.AdvanceTo(age)
	return h.Step(acts...)
}

// Put writes a cell directly; the change propagates on the next tick.
func (h *Harness) Put(pos model.Vec3i, block string, data uint8) {
	h.T.Helper()
	if err := h.W.PutBlock(pos, block, data); err != nil {
		h.T.Fatalf("PutBlock(%v, %s): %v", pos, block, err)
	}
}

func (h *Harness) Block(pos model.Vec3i) string { return h.W.Cell(pos).Block }

func (h *Harness) Data(pos model.Vec3i) uint8 { return h.W.Cell(pos).Data }

func (h *Harness) Pending(pos model.Vec3i) []world.PendingEvent { return h.W.Cell(pos).Pending }

// RequireBlock fails the test unless pos holds block.
func (h *Harness) RequireBlock(pos model.Vec3i, block string) {
	h.T.Helper()
	if got := h.Block(pos); got != block {
		h.T.Fatalf("age %d: block at %v = %s, want %s", h.W.CurrentAge(), pos, got, block)
	}
}

// Ack returns the ACK for an ACT sent by the joined client.
func (h *Harness) Ack(act protocol.ActMsg) protocol.AckMsg {
	h.T.Helper()
	a, ok := h.acks[act.ActID]
	if !ok {
		h.T.Fatalf("no ACK for %s (%s)", act.ActID, act.Action)
	}
	return a
}

func (h *Harness) LastTick() protocol.TickMsg { return h.lastTick }

// Ticks returns every TICK frame received since the last call.
func (h *Harness) Ticks() []protocol.TickMsg {
	out := h.ticks
	h.ticks = nil
	return out
}

func (h *Harness) drain() {
	h.T.Helper()
	if h.out == nil {
		return
	}
	for {
		select {
		case b := <-h.out:
			h.handleFrame(b)
			continue
		default:
		}
		return
	}
}

func (h *Harness) handleFrame(b []byte) {
	h.T.Helper()
	base, err := protocol.DecodeBase(b)
	if err != nil {
		h.T.Fatalf("decode frame: %v", err)
	}
	switch base.Type {
	case protocol.TypeAck:
		var ack protocol.AckMsg
		if err := json.Unmarshal(b, &ack); err != nil {
			h.T.Fatalf("unmarshal ACK: %v", err)
		}
		h.acks[ack.AckFor] = ack
	case protocol.TypeTick:
		var tm protocol.TickMsg
		if err := json.Unmarshal(b, &tm); err != nil {
			h.T.Fatalf("unmarshal TICK: %v", err)
		}
		h.lastTick = tm
		h.ticks = append(h.ticks, tm)
	default:
		h.T.Fatalf("unexpected frame type %q", base.Type)
	}
}

// RepeaterData packs a repeater aux word for Put.
func RepeaterData(t *testing.T, facingIndex, delayIndex uint8) uint8 {
	t.Helper()
	d, err := auxdata.RepeaterData{FacingIndex: facingIndex, DelayIndex: delayIndex}.Pack()
	if err != nil {
		t.Fatalf("pack repeater data: %v", err)
	}
	return d
}
