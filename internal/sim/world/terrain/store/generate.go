package store

// GenerateChunk fills a fresh chunk: air everywhere plus an optional one-cell
// floor layer that gives circuits something to sit on.
func (s *ChunkStore) GenerateChunk(ch *Chunk) {
	for i := range ch.Blocks {
		ch.Blocks[i] = s.Gen.Air
	}
	y := s.Gen.FloorY
	if y < 0 || y >= ch.Height {
		return
	}
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			ch.Blocks[ch.index(x, y, z)] = s.Gen.Floor
		}
	}
}
