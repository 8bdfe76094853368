package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

// SnapshotV1 captures everything needed to resume a world deterministically:
// loaded chunks, the simulation clock, and the dynamic update queue.
type SnapshotV1 struct {
	Header Header `json:"header"`

	TickRateHz  int   `json:"tick_rate_hz"`
	TimePerTick int64 `json:"time_per_tick"`
	Age         int64 `json:"age"`

	Height        int    `json:"height"`
	FloorY        int    `json:"floor_y"`
	PaletteDigest string `json:"palette_digest"`

	LampOffDelay int64 `json:"lamp_off_delay,omitempty"`

	Chunks []ChunkV1 `json:"chunks"`

	// Pending dynamic updates in dispatch order.
	Pending      []EventV1 `json:"pending,omitempty"`
	NextEventSeq uint64    `json:"next_event_seq"`

	// Changes committed after the last propagation pass.
	Unpropagated []ChangeV1 `json:"unpropagated,omitempty"`
}

type ChunkV1 struct {
	CX     int      `json:"cx"`
	CZ     int      `json:"cz"`
	Height int      `json:"height"`
	Blocks []uint16 `json:"blocks"`
	Data   []uint8  `json:"data"`
}

type EventV1 struct {
	Pos      [3]int `json:"pos"`
	FireTime int64  `json:"fire_time"`
	Payload  int    `json:"payload"`
	Seq      uint64 `json:"seq"`
}

type ChangeV1 struct {
	Pos      [3]int `json:"pos"`
	FromID   uint16 `json:"from_id"`
	ToID     uint16 `json:"to_id"`
	FromData uint8  `json:"from_data"`
	ToData   uint8  `json:"to_data"`
	Reason   string `json:"reason,omitempty"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Header line is for humans and tooling; gob carries it too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}
