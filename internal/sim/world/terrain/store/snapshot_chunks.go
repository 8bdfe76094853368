package store

import (
	"fmt"

	snapv1 "voxelsignal.ai/internal/persistence/snapshot"
)

// ExportLoadedChunks converts loaded chunk data into snapshot chunks.
func ExportLoadedChunks(chunks map[ChunkKey]*Chunk, keys []ChunkKey) []snapv1.ChunkV1 {
	out := make([]snapv1.ChunkV1, 0, len(keys))
	for _, k := range keys {
		ch := chunks[k]
		if ch == nil {
			continue
		}
		blocks := make([]uint16, len(ch.Blocks))
		copy(blocks, ch.Blocks)
		data := make([]uint8, len(ch.Data))
		copy(data, ch.Data)
		out = append(out, snapv1.ChunkV1{
			CX:     k.CX,
			CZ:     k.CZ,
			Height: ch.Height,
			Blocks: blocks,
			Data:   data,
		})
	}
	return out
}

// ImportChunks rebuilds a chunk store from snapshot chunks.
func ImportChunks(gen WorldGen, chunks []snapv1.ChunkV1) (*ChunkStore, error) {
	store := NewChunkStore(gen)
	want := ChunkSize * ChunkSize * store.Gen.Height
	for _, ch := range chunks {
		if ch.Height != store.Gen.Height {
			return nil, fmt.Errorf("snapshot chunk height mismatch: got %d want %d", ch.Height, store.Gen.Height)
		}
		if len(ch.Blocks) != want {
			return nil, fmt.Errorf("snapshot chunk blocks length mismatch: got %d want %d", len(ch.Blocks), want)
		}
		if len(ch.Data) != want {
			return nil, fmt.Errorf("snapshot chunk data length mismatch: got %d want %d", len(ch.Data), want)
		}
		k := ChunkKey{CX: ch.CX, CZ: ch.CZ}
		if _, dup := store.Chunks[k]; dup {
			return nil, fmt.Errorf("snapshot chunk duplicated: %d,%d", ch.CX, ch.CZ)
		}
		c := newChunk(ch.CX, ch.CZ, ch.Height)
		copy(c.Blocks, ch.Blocks)
		copy(c.Data, ch.Data)
		_ = c.Digest()
		store.Chunks[k] = c
	}
	return store, nil
}
