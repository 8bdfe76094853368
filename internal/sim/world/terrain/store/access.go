package store

import (
	"sort"

	"voxelsignal.ai/internal/sim/world/logic/mathx"
)

func KeyFor(x, z int) ChunkKey {
	return ChunkKey{CX: mathx.FloorDiv(x, ChunkSize), CZ: mathx.FloorDiv(z, ChunkSize)}
}

func (s *ChunkStore) InBounds(x, y, z int) bool {
	return y >= 0 && y < s.Gen.Height
}

func (s *ChunkStore) Loaded(k ChunkKey) bool {
	_, ok := s.Chunks[k]
	return ok
}

// RegionLoaded reports whether the cell is addressable: inside the height
// bounds and in a loaded chunk.
func (s *ChunkStore) RegionLoaded(x, y, z int) bool {
	if !s.InBounds(x, y, z) {
		return false
	}
	return s.Loaded(KeyFor(x, z))
}

func (s *ChunkStore) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.Chunks))
	for k := range s.Chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

func (s *ChunkStore) lookup(x, y, z int) (*Chunk, int, int, bool) {
	if !s.InBounds(x, y, z) {
		return nil, 0, 0, false
	}
	ch := s.Chunks[KeyFor(x, z)]
	if ch == nil {
		return nil, 0, 0, false
	}
	return ch, mathx.Mod(x, ChunkSize), mathx.Mod(z, ChunkSize), true
}

func (s *ChunkStore) GetBlock(x, y, z int) uint16 {
	ch, lx, lz, ok := s.lookup(x, y, z)
	if !ok {
		return s.Gen.Air
	}
	return ch.Get(lx, y, lz)
}

func (s *ChunkStore) GetData(x, y, z int) uint8 {
	ch, lx, lz, ok := s.lookup(x, y, z)
	if !ok {
		return 0
	}
	return ch.GetData(lx, y, lz)
}

// SetBlock writes the block id and reports whether the cell was addressable.
func (s *ChunkStore) SetBlock(x, y, z int, b uint16) bool {
	ch, lx, lz, ok := s.lookup(x, y, z)
	if !ok {
		return false
	}
	ch.Set(lx, y, lz, b)
	return true
}

func (s *ChunkStore) SetData(x, y, z int, d uint8) bool {
	ch, lx, lz, ok := s.lookup(x, y, z)
	if !ok {
		return false
	}
	ch.SetData(lx, y, lz, d)
	return true
}

// Load returns the chunk at k, generating it when it is not loaded yet.
// created is true when a new chunk was generated.
func (s *ChunkStore) Load(k ChunkKey) (ch *Chunk, created bool) {
	if ch, ok := s.Chunks[k]; ok {
		return ch, false
	}
	ch = newChunk(k.CX, k.CZ, s.Gen.Height)
	s.GenerateChunk(ch)
	ch.dirty = true
	_ = ch.Digest()
	s.Chunks[k] = ch
	return ch, true
}

// Unload drops the chunk and reports whether it was loaded.
func (s *ChunkStore) Unload(k ChunkKey) bool {
	if _, ok := s.Chunks[k]; !ok {
		return false
	}
	delete(s.Chunks, k)
	return true
}
