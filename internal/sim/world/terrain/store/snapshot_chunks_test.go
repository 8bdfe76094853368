package store

import (
	"testing"

	snapv1 "voxelsignal.ai/internal/persistence/snapshot"
)

func TestExportAndImportChunksRoundTrip(t *testing.T) {
	gen := WorldGen{Height: 2, Air: 0, FloorY: -1}
	s := NewChunkStore(gen)
	ch, _ := s.Load(ChunkKey{CX: 1, CZ: -2})
	s.SetBlock(16, 0, -32, 3)
	s.SetBlock(17, 0, -31, 9)
	s.SetData(17, 0, -31, 0xC)

	keys := []ChunkKey{{CX: 1, CZ: -2}}
	exported := ExportLoadedChunks(s.Chunks, keys)
	if len(exported) != 1 {
		t.Fatalf("expected 1 exported chunk, got %d", len(exported))
	}
	if exported[0].Blocks[0] != 3 || exported[0].Blocks[17] != 9 || exported[0].Data[17] != 0xC {
		t.Fatalf("unexpected exported cells: got %d,%d,%d", exported[0].Blocks[0], exported[0].Blocks[17], exported[0].Data[17])
	}

	imported, err := ImportChunks(gen, exported)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	got := imported.Chunks[ChunkKey{CX: 1, CZ: -2}]
	if got == nil {
		t.Fatalf("missing imported chunk")
	}
	if got.Blocks[0] != 3 || got.Blocks[17] != 9 || got.Data[17] != 0xC {
		t.Fatalf("unexpected imported cells: got %d,%d,%d", got.Blocks[0], got.Blocks[17], got.Data[17])
	}
	if got.Digest() != ch.Digest() {
		t.Fatalf("digest changed across round trip")
	}
}

func TestImportChunksRejectsInvalidShape(t *testing.T) {
	gen := WorldGen{Height: 1, Air: 0}
	_, err := ImportChunks(gen, []snapv1.ChunkV1{{
		CX:     0,
		CZ:     0,
		Height: 2,
		Blocks: make([]uint16, 16*16*2),
		Data:   make([]uint8, 16*16*2),
	}})
	if err == nil {
		t.Fatalf("expected error for invalid chunk shape")
	}
}
