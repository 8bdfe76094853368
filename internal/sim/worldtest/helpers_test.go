package worldtest

import (
	"sync"
	"testing"

	world "voxelsignal.ai/internal/sim/world"
	"voxelsignal.ai/internal/sim/world/kernel/model"
)

// A straight east-facing line on top of the floor: input, repeater, output.
var (
	inputPos    = model.Vec3i{X: 0, Y: 1, Z: 0}
	repeaterPos = model.Vec3i{X: 1, Y: 1, Z: 0}
	outputPos   = model.Vec3i{X: 2, Y: 1, Z: 0}
)

// eastRepeater puts an unpowered repeater at repeaterPos before the first tick.
func eastRepeater(t *testing.T, h *Harness) {
	t.Helper()
	h.Put(repeaterPos, "REPEATER_OFF", RepeaterData(t, 0, 0))
}

func requirePending(t *testing.T, h *Harness, pos model.Vec3i, want ...world.PendingEvent) {
	t.Helper()
	got := h.Pending(pos)
	if len(got) != len(want) {
		t.Fatalf("age %d: pending at %v = %+v, want %+v", h.W.CurrentAge(), pos, got, want)
	}
	for i := range want {
		if got[i].FireTime != want[i].FireTime || got[i].Payload != want[i].Payload {
			t.Fatalf("age %d: pending[%d] at %v = %+v, want %+v", h.W.CurrentAge(), i, pos, got[i], want[i])
		}
	}
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []world.AuditEntry
}

func (r *recordingAudit) WriteAudit(e world.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingAudit) find(action, reason string) []world.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []world.AuditEntry
	for _, e := range r.entries {
		if e.Action == action && (reason == "" || e.Reason == reason) {
			out = append(out, e)
		}
	}
	return out
}

type recordingTicks struct {
	entries []world.TickLogEntry
}

func (r *recordingTicks) WriteTick(e world.TickLogEntry) error {
	r.entries = append(r.entries, e)
	return nil
}
