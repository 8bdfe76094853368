package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

// stateDigest hashes everything that determines future ticks: the clock,
// loaded chunk contents, the dynamic update queue and unpropagated changes.
func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, nowTick)
	digestWriteI64(h, &tmp, w.age)
	digestWriteI64(h, &tmp, w.cfg.TimePerTick)

	keys := w.chunks.LoadedChunkKeys()
	digestWriteU64(h, &tmp, uint64(len(keys)))
	for _, k := range keys {
		digestWriteI64(h, &tmp, int64(k.CX))
		digestWriteI64(h, &tmp, int64(k.CZ))
		d := w.chunks.Chunks[k].Digest()
		h.Write(d[:])
	}

	events := w.sched.Events()
	digestWriteU64(h, &tmp, uint64(len(events)))
	for _, ev := range events {
		digestWriteI64(h, &tmp, int64(ev.Pos.X))
		digestWriteI64(h, &tmp, int64(ev.Pos.Y))
		digestWriteI64(h, &tmp, int64(ev.Pos.Z))
		digestWriteI64(h, &tmp, ev.FireTime)
		digestWriteI64(h, &tmp, int64(ev.Payload))
		digestWriteU64(h, &tmp, ev.Seq)
	}
	digestWriteU64(h, &tmp, w.sched.NextSeq())

	digestWriteU64(h, &tmp, uint64(len(w.changes)))
	for _, c := range w.changes {
		digestWriteI64(h, &tmp, int64(c.Pos.X))
		digestWriteI64(h, &tmp, int64(c.Pos.Y))
		digestWriteI64(h, &tmp, int64(c.Pos.Z))
		digestWriteU64(h, &tmp, uint64(c.FromID)<<16|uint64(c.ToID))
		h.Write([]byte{c.FromData, c.ToData})
	}

	return hex.EncodeToString(h.Sum(nil))
}
