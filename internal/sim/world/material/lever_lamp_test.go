package material

import (
	"testing"

	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/logic/faces"
	"voxelsignal.ai/internal/sim/world/logic/redstonepower"
)

func TestLeverToggles(t *testing.T) {
	w := newFakeWorld(t)
	b := w.put(t, model.Vec3i{}, "LEVER", 0)
	src := b.Material().(PowerSource)
	if src.PowerTo(b, faces.East, redstonepower.ModeAll) != 0 {
		t.Fatalf("lever starts off")
	}
	if err := b.Material().(Interactable).OnInteract(b); err != nil {
		t.Fatalf("OnInteract: %v", err)
	}
	for _, f := range faces.NESWBT {
		if src.PowerTo(b, f, redstonepower.ModeAll) != redstonepower.PowerMax {
			t.Fatalf("lever on must power %s", f)
		}
	}
	_ = b.Material().(Interactable).OnInteract(b)
	if src.PowerTo(b, faces.Top, redstonepower.ModeAll) != 0 {
		t.Fatalf("lever toggled back must be off")
	}
}

func TestLampSchedulesAsymmetricChecks(t *testing.T) {
	w := newFakeWorld(t)
	w.age = 30
	pos := model.Vec3i{Y: 2}
	b := w.put(t, pos, "LAMP", 0)
	w.put(t, pos.Add(faces.Top.Offset()), "REDSTONE_BLOCK", 0)

	if err := b.Material().(Updatable).OnUpdate(b); err != nil {
		t.Fatalf("OnUpdate: %v", err)
	}
	q := w.takeQueue()
	if len(q) != 1 || q[0] != (scheduled{pos: pos, fireTime: 30, payload: PayloadPowerUp}) {
		t.Fatalf("unexpected queue: %+v", q)
	}
	dispatch(t, w, b, 30, PayloadPowerUp)
	if w.name(pos) != "LAMP_ON" {
		t.Fatalf("expected LAMP_ON, got %s", w.name(pos))
	}
	if lvl := b.Material().(LightEmitter).LightLevel(); lvl != 15 {
		t.Fatalf("lit lamp light level: got %d", lvl)
	}

	w.put(t, pos.Add(faces.Top.Offset()), "AIR", 0)
	if err := b.Material().(Updatable).OnUpdate(b); err != nil {
		t.Fatalf("OnUpdate: %v", err)
	}
	q = w.takeQueue()
	if len(q) != 1 || q[0].fireTime != 130 {
		t.Fatalf("unexpected queue: %+v", q)
	}
	dispatch(t, w, b, 130, 0)
	if w.name(pos) != "LAMP" {
		t.Fatalf("expected LAMP, got %s", w.name(pos))
	}
}

func TestRegistryResolvesUnknownIDsToAir(t *testing.T) {
	w := newFakeWorld(t)
	if got := w.reg.Get(60000).Name(); got != "AIR" {
		t.Fatalf("unknown id resolved to %s", got)
	}
	on := w.mat(t, "REPEATER_ON")
	if !on.(Switchable).Active() || w.mat(t, "REPEATER_OFF").(Switchable).Active() {
		t.Fatalf("unexpected repeater variants")
	}
	if on.(LightEmitter).LightLevel() != 9 {
		t.Fatalf("lit repeater emits light 9")
	}
}
