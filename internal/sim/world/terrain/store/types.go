package store

import (
	"crypto/sha256"
	"encoding/binary"

	"voxelsignal.ai/internal/sim/world/logic/auxdata"
)

const ChunkSize = 16

type ChunkKey struct {
	CX int
	CZ int
}

// Chunk is a 16x16 column of cells, Height cells tall.
// Blocks and Data are indexed by x + z*16 + y*256.
type Chunk struct {
	CX, CZ int
	Height int
	Blocks []uint16
	Data   []uint8 // low auxdata.Width bits significant

	dirty bool
	hash  [32]byte
}

func newChunk(cx, cz, height int) *Chunk {
	n := ChunkSize * ChunkSize * height
	return &Chunk{
		CX:     cx,
		CZ:     cz,
		Height: height,
		Blocks: make([]uint16, n),
		Data:   make([]uint8, n),
	}
}

func (c *Chunk) index(x, y, z int) int {
	return x + z*ChunkSize + y*ChunkSize*ChunkSize
}

func (c *Chunk) Get(x, y, z int) uint16 {
	return c.Blocks[c.index(x, y, z)]
}

func (c *Chunk) GetData(x, y, z int) uint8 {
	return c.Data[c.index(x, y, z)]
}

func (c *Chunk) Set(x, y, z int, b uint16) {
	i := c.index(x, y, z)
	if c.Blocks[i] == b {
		return
	}
	c.Blocks[i] = b
	c.dirty = true
}

func (c *Chunk) SetData(x, y, z int, d uint8) {
	i := c.index(x, y, z)
	d &= auxdata.Mask
	if c.Data[i] == d {
		return
	}
	c.Data[i] = d
	c.dirty = true
}

func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], v)
			h.Write(tmp[:])
		}
		h.Write(c.Data)
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}

// WorldGen describes how freshly loaded chunks are filled.
type WorldGen struct {
	Height int

	Air    uint16
	Floor  uint16
	FloorY int // -1 for an empty world
}

// ChunkStore holds the loaded chunks. Cells in chunks that are not loaded read
// as air and ignore writes.
type ChunkStore struct {
	Gen    WorldGen
	Chunks map[ChunkKey]*Chunk
}

func NewChunkStore(gen WorldGen) *ChunkStore {
	if gen.Height <= 0 {
		gen.Height = 1
	}
	return &ChunkStore{
		Gen:    gen,
		Chunks: map[ChunkKey]*Chunk{},
	}
}
