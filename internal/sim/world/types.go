package world

import (
	"voxelsignal.ai/internal/protocol"
)

type JoinRequest struct {
	Name string
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
}

type ActionEnvelope struct {
	ClientID string
	Act      protocol.ActMsg
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type TickLogEntry struct {
	Tick       uint64           `json:"tick"`
	Age        int64            `json:"age"`
	Actions    []RecordedAction `json:"actions,omitempty"`
	Dispatched int              `json:"dispatched"`
	Dropped    int              `json:"dropped,omitempty"`
	Changes    int              `json:"changes,omitempty"`
	Digest     string           `json:"digest"`
}

type RecordedAction struct {
	ClientID string          `json:"client_id"`
	Act      protocol.ActMsg `json:"act"`
}

// Audit actions.
const (
	AuditSetBlock    = "SET_BLOCK"
	AuditSetData     = "SET_DATA"
	AuditTransition  = "TRANSITION"
	AuditDropEvent   = "DROP_EVENT"
	AuditLoadChunk   = "LOAD_CHUNK"
	AuditUnloadChunk = "UNLOAD_CHUNK"
)

// Actors that are not clients.
const (
	ActorScheduler = "SCHEDULER"
	ActorPhysics   = "PHYSICS"
	ActorAdmin     = "ADMIN"
	ActorWorld     = "WORLD"
)

type AuditEntry struct {
	Tick    uint64         `json:"tick"`
	Age     int64          `json:"age"`
	Actor   string         `json:"actor"`
	Action  string         `json:"action"`
	Pos     [3]int         `json:"pos"`
	From    uint16         `json:"from"`
	To      uint16         `json:"to"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type clientState struct {
	Name string
	Out  chan []byte
}

// Summary is a point-in-time view of the world for the admin API.
type Summary struct {
	WorldID       string `json:"world_id"`
	Tick          uint64 `json:"tick"`
	Age           int64  `json:"age"`
	LoadedChunks  int    `json:"loaded_chunks"`
	PendingEvents int    `json:"pending_events"`
	Clients       int    `json:"clients"`
}

// CellInfo describes one cell and the dynamic updates queued for it.
type CellInfo struct {
	Pos     [3]int         `json:"pos"`
	Loaded  bool           `json:"loaded"`
	Block   string         `json:"block"`
	Kind    string         `json:"kind"`
	Data    uint8          `json:"data"`
	Light   int            `json:"light"`
	Pending []PendingEvent `json:"pending,omitempty"`
}

type PendingEvent struct {
	FireTime int64  `json:"fire_time"`
	Payload  int    `json:"payload"`
	Seq      uint64 `json:"seq"`
}
