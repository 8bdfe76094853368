package snapshot

import (
	"path/filepath"
	"testing"
)

func TestWriteReadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "42.snap.zst")
	in := SnapshotV1{
		Header:      Header{Version: Version, WorldID: "w", Tick: 42},
		TickRateHz:  20,
		TimePerTick: 50,
		Age:         2100,
		Height:      4,
		Chunks: []ChunkV1{{
			CX: -1, CZ: 2, Height: 4,
			Blocks: []uint16{1, 2, 3},
			Data:   []uint8{0, 0xC, 1},
		}},
		Pending:      []EventV1{{Pos: [3]int{1, 2, 3}, FireTime: 2200, Payload: 1, Seq: 7}},
		NextEventSeq: 8,
	}
	if err := WriteSnapshot(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Header != in.Header || out.Age != in.Age || out.NextEventSeq != 8 {
		t.Fatalf("header/clock mismatch: %+v", out)
	}
	if len(out.Chunks) != 1 || out.Chunks[0].Data[1] != 0xC || out.Chunks[0].Blocks[2] != 3 {
		t.Fatalf("chunk mismatch: %+v", out.Chunks)
	}
	if len(out.Pending) != 1 || out.Pending[0] != in.Pending[0] {
		t.Fatalf("pending mismatch: %+v", out.Pending)
	}
}

func TestReadSnapshotRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.snap.zst")
	if err := WriteSnapshot(path, SnapshotV1{Header: Header{Version: 99}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadSnapshot(path); err == nil {
		t.Fatalf("expected version error")
	}
}
