package log

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voxelsignal.ai/internal/sim/world"
)

func TestJSONLZstdWriterRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "events")
	clock := time.Date(2026, 3, 1, 10, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }

	require.NoError(t, w.Write(world.TickLogEntry{Tick: 1, Age: 100}))
	require.NoError(t, w.Write(world.TickLogEntry{Tick: 2, Age: 200}))
	clock = clock.Add(2 * time.Minute)
	require.NoError(t, w.Write(world.TickLogEntry{Tick: 3, Age: 300}))
	require.NoError(t, w.Close())

	files, err := ListLogFiles(dir, "events")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "events-2026-03-01-10.jsonl.zst"),
		filepath.Join(dir, "events-2026-03-01-11.jsonl.zst"),
	}, files)

	var ticks []uint64
	for _, f := range files {
		require.NoError(t, ReadJSONLZstd(f, func(line []byte) error {
			var e world.TickLogEntry
			if err := json.Unmarshal(line, &e); err != nil {
				return err
			}
			ticks = append(ticks, e.Tick)
			return nil
		}))
	}
	require.Equal(t, []uint64{1, 2, 3}, ticks)
}

func TestAuditLoggerWritesUnderAuditDir(t *testing.T) {
	dir := t.TempDir()
	l := NewAuditLogger(dir)
	require.NoError(t, l.WriteAudit(world.AuditEntry{Tick: 4, Action: world.AuditTransition, Pos: [3]int{1, 2, 3}}))
	require.NoError(t, l.Close())

	files, err := ListLogFiles(filepath.Join(dir, "audit"), "audit")
	require.NoError(t, err)
	require.Len(t, files, 1)
}
