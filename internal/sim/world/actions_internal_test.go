package world

import (
	"strings"
	"testing"

	"voxelsignal.ai/internal/protocol"
)

func TestRejectKeepsKnownCodes(t *testing.T) {
	err := reject(protocol.ErrConflict, "cell %d is occupied", 7)
	if err.code != protocol.ErrConflict || err.msg != "cell 7 is occupied" {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestRejectMapsUnknownCodesToInternal(t *testing.T) {
	for _, code := range []string{"", "E_NOT_DEFINED"} {
		err := reject(code, "boom")
		if err.code != protocol.ErrInternal {
			t.Fatalf("code %q: got %s, want %s", code, err.code, protocol.ErrInternal)
		}
		if !strings.HasSuffix(err.msg, "boom") {
			t.Fatalf("code %q: message lost: %q", code, err.msg)
		}
	}
}
