package worldtest

import (
	"path/filepath"
	"testing"

	"voxelsignal.ai/internal/persistence/snapshot"
	world "voxelsignal.ai/internal/sim/world"
)

func TestSnapshotExportImport_ContinuesWithSameDigests(t *testing.T) {
	h1 := NewHarness(t, DefaultConfig())
	for age := int64(0); age < 160; age++ {
		h1.Step(circuitScript(h1, age)...)
	}
	// The lever flip at 150 left a power-up check queued for 250.
	if h1.W.Summary().PendingEvents == 0 {
		t.Fatalf("expected queued updates at snapshot time")
	}

	snap := h1.W.ExportSnapshot()
	if snap.Header.Tick != 160 || snap.Age != 160 {
		t.Fatalf("snapshot clock = %d@%d, want 160@160", snap.Header.Tick, snap.Age)
	}
	path := filepath.Join(t.TempDir(), "snap.zst")
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	loaded, err := snapshot.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	w2, err := world.New(DefaultConfig(), h1.Cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	if err := w2.ImportSnapshot(loaded); err != nil {
		t.Fatalf("import: %v", err)
	}
	h2 := NewHarnessWithWorld(t, w2, h1.Cats)
	if h2.W.CurrentTick() != 160 || h2.W.CurrentAge() != 160 {
		t.Fatalf("restored clock = %d@%d", h2.W.CurrentTick(), h2.W.CurrentAge())
	}

	for age := int64(160); age < 700; age++ {
		d1 := h1.Step(circuitScript(h1, age)...)
		d2 := h2.Step(circuitScript(h2, age)...)
		if d1 != d2 {
			t.Fatalf("digest mismatch at age %d", age)
		}
	}
	if h1.Block(outputPos) != h2.Block(outputPos) {
		t.Fatalf("output differs: %s vs %s", h1.Block(outputPos), h2.Block(outputPos))
	}
}

func TestSnapshotImport_KeepsUnpropagatedChanges(t *testing.T) {
	h1 := NewHarness(t, DefaultConfig())
	eastRepeater(t, h1)
	h1.Put(inputPos, "REDSTONE_BLOCK", 0)

	// Nothing has stepped yet, so both puts are still waiting to propagate.
	snap := h1.W.ExportSnapshot()
	if len(snap.Unpropagated) != 2 {
		t.Fatalf("unpropagated = %d, want 2", len(snap.Unpropagated))
	}

	w2, err := world.New(DefaultConfig(), h1.Cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	if err := w2.ImportSnapshot(snap); err != nil {
		t.Fatalf("import: %v", err)
	}
	h2 := NewHarnessWithWorld(t, w2, h1.Cats)
	h2.Step()
	requirePending(t, h2, repeaterPos, world.PendingEvent{FireTime: 100, Payload: 1})
	h2.RunThrough(100)
	h2.RequireBlock(repeaterPos, "REPEATER_ON")
}

func TestSnapshotImport_RejectsMismatchedWorld(t *testing.T) {
	h := NewHarness(t, DefaultConfig())
	h.Step()
	snap := h.W.ExportSnapshot()

	cfg := DefaultConfig()
	cfg.Height = 32
	other, err := world.New(cfg, h.Cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	if err := other.ImportSnapshot(snap); err == nil {
		t.Fatalf("expected height mismatch error")
	}

	bad := snap
	bad.PaletteDigest = "not-a-digest"
	fresh, _ := world.New(DefaultConfig(), h.Cats)
	if err := fresh.ImportSnapshot(bad); err == nil {
		t.Fatalf("expected palette mismatch error")
	}
}

func TestSnapshotImport_ComparesEffectiveLampDelay(t *testing.T) {
	h := NewHarness(t, DefaultConfig())
	snap := h.W.ExportSnapshot()
	snap.LampOffDelay = 250

	// An unset delay falls back to the default of 100, which still differs.
	cfg := DefaultConfig()
	cfg.LampOffDelay = 0
	w, err := world.New(cfg, h.Cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	if err := w.ImportSnapshot(snap); err == nil {
		t.Fatalf("expected lamp_off_delay mismatch error")
	}
	if got := w.ExportSnapshot().LampOffDelay; got != 100 {
		t.Fatalf("exported lamp_off_delay = %d, want the effective 100", got)
	}

	snap.LampOffDelay = 100
	if err := w.ImportSnapshot(snap); err != nil {
		t.Fatalf("matching delay rejected: %v", err)
	}
}
