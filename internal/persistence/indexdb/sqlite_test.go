package indexdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"voxelsignal.ai/internal/persistence/snapshot"
	"voxelsignal.ai/internal/protocol"
	"voxelsignal.ai/internal/sim/world"
)

func countRows(t *testing.T, db *sql.DB, q string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(q, args...).Scan(&n))
	return n
}

func TestSQLiteIndex_WritesTicksAuditsAndSnapshots(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index", "world.sqlite")
	idx, err := OpenSQLite(dbPath)
	require.NoError(t, err)

	require.NoError(t, idx.WriteTick(world.TickLogEntry{
		Tick:       7,
		Age:        700,
		Digest:     "abc",
		Dispatched: 2,
		Actions: []world.RecordedAction{
			{ClientID: "c1", Act: protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, Action: protocol.ActionPlace, Pos: [3]int{1, 2, 3}, Block: "REPEATER_OFF"}},
			{ClientID: "c2", Act: protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, Action: protocol.ActionBreak, Pos: [3]int{4, 5, 6}}},
		},
	}))
	require.NoError(t, idx.WriteAudit(world.AuditEntry{Tick: 7, Age: 700, Actor: "SCHEDULER", Action: world.AuditTransition, Pos: [3]int{1, 2, 3}, From: 3, To: 4, Reason: "POWERED"}))
	require.NoError(t, idx.WriteAudit(world.AuditEntry{Tick: 7, Age: 700, Actor: "c2", Action: world.AuditSetBlock, Pos: [3]int{4, 5, 6}, From: 1, To: 0, Reason: "BREAK"}))
	idx.RecordSnapshot("/tmp/snap/7.snap.zst", snapshot.SnapshotV1{
		Header:  snapshot.Header{Version: snapshot.Version, WorldID: "w", Tick: 7},
		Age:     700,
		Height:  16,
		Chunks:  make([]snapshot.ChunkV1, 3),
		Pending: make([]snapshot.EventV1, 1),
	})
	require.NoError(t, idx.Close())

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	require.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM ticks WHERE tick=7 AND age=700 AND dispatched=2`))
	require.Equal(t, 2, countRows(t, db, `SELECT COUNT(*) FROM actions WHERE tick=7`))
	require.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM actions WHERE client_id='c2' AND seq=1`))
	require.Equal(t, 2, countRows(t, db, `SELECT COUNT(*) FROM audits WHERE tick=7`))
	require.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM audits WHERE action=? AND seq=0`, world.AuditTransition))
	require.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM snapshots WHERE tick=7 AND chunks=3 AND pending=1`))
}

func TestSQLiteIndex_NilAndClosedAreNoops(t *testing.T) {
	var nilIdx *SQLiteIndex
	require.NoError(t, nilIdx.WriteTick(world.TickLogEntry{Tick: 1}))
	require.NoError(t, nilIdx.WriteAudit(world.AuditEntry{Tick: 1}))
	nilIdx.RecordSnapshot("x", snapshot.SnapshotV1{})
	require.Zero(t, nilIdx.Dropped())

	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "w.sqlite"))
	require.NoError(t, err)
	require.NoError(t, idx.Close())
	require.NoError(t, idx.WriteTick(world.TickLogEntry{Tick: 2}))
	require.NoError(t, idx.Close())
}

func TestOpenSQLiteRejectsEmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	require.Error(t, err)
}
