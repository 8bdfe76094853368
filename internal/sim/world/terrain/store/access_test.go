package store

import "testing"

func TestUnloadedCellsReadAirAndIgnoreWrites(t *testing.T) {
	s := NewChunkStore(WorldGen{Height: 4, Air: 0, Floor: 7, FloorY: 0})
	if s.RegionLoaded(0, 1, 0) {
		t.Fatalf("nothing loaded yet")
	}
	if s.SetBlock(0, 1, 0, 5) {
		t.Fatalf("write to unloaded chunk must be rejected")
	}
	if got := s.GetBlock(0, 1, 0); got != 0 {
		t.Fatalf("unloaded read: got %d want air", got)
	}

	if _, created := s.Load(ChunkKey{}); !created {
		t.Fatalf("expected fresh chunk")
	}
	if got := s.GetBlock(3, 0, 3); got != 7 {
		t.Fatalf("floor: got %d want 7", got)
	}
	if !s.SetBlock(0, 1, 0, 5) || s.GetBlock(0, 1, 0) != 5 {
		t.Fatalf("write to loaded chunk failed")
	}
	if s.SetBlock(0, 4, 0, 5) {
		t.Fatalf("write above height must be rejected")
	}
}

func TestNegativeCoordinatesMapToOwnChunk(t *testing.T) {
	s := NewChunkStore(WorldGen{Height: 1, FloorY: -1})
	s.Load(ChunkKey{CX: -1, CZ: -1})
	if !s.RegionLoaded(-1, 0, -16) {
		t.Fatalf("(-1,-16) belongs to chunk (-1,-1)")
	}
	if s.RegionLoaded(0, 0, -1) {
		t.Fatalf("(0,-1) belongs to chunk (0,-1)")
	}
	s.SetData(-1, 0, -1, 0xFF)
	if got := s.GetData(-1, 0, -1); got != 0x0F {
		t.Fatalf("aux data must be truncated to 4 bits, got %#x", got)
	}
}

func TestUnloadAndDigest(t *testing.T) {
	s := NewChunkStore(WorldGen{Height: 1, FloorY: -1})
	ch, _ := s.Load(ChunkKey{})
	d0 := ch.Digest()
	s.SetData(1, 0, 1, 3)
	if ch.Digest() == d0 {
		t.Fatalf("digest must cover aux data")
	}
	if !s.Unload(ChunkKey{}) || s.Unload(ChunkKey{}) {
		t.Fatalf("unload should succeed once")
	}
	if len(s.LoadedChunkKeys()) != 0 {
		t.Fatalf("expected no loaded chunks")
	}
}
