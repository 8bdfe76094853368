package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
	MaxQueue        int    `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	ClientID        string         `json:"client_id"`
	WorldID         string         `json:"world_id"`
	Tick            uint64         `json:"tick"`
	Age             int64          `json:"age"`
	WorldParams     WorldParams    `json:"world_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
	// BlockPalette lists block names by palette id.
	BlockPalette []string `json:"block_palette"`
}

type WorldParams struct {
	TickRateHz  int    `json:"tick_rate_hz"`
	TimePerTick int64  `json:"time_per_tick"`
	ChunkSize   [3]int `json:"chunk_size"`
	Height      int    `json:"height"`
}

type CatalogDigests struct {
	BlockPalette DigestRef `json:"block_palette"`
	TuningDigest string    `json:"tuning_digest,omitempty"`
}

type DigestRef struct {
	Digest string `json:"digest"`
	Count  int    `json:"count"`
}

// ACT (client -> server). Pos is used by PLACE/BREAK/INTERACT, Chunk by the
// chunk actions.
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ActID           string `json:"act_id,omitempty"`
	Action          string `json:"action"`
	Pos             [3]int `json:"pos"`
	Block           string `json:"block,omitempty"`
	Facing          string `json:"facing,omitempty"`
	Chunk           [2]int `json:"chunk"`
}

// ACK (server -> client), one per ACT once its tick has been applied.
type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AckFor          string `json:"ack_for"`
	Accepted        bool   `json:"accepted"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
	ServerTick      uint64 `json:"server_tick"`
	WorldID         string `json:"world_id,omitempty"`
}

// TICK (server -> client): every committed cell change of one tick.
type TickMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	WorldID         string          `json:"world_id,omitempty"`
	Tick            uint64          `json:"tick"`
	Age             int64           `json:"age"`
	Digest          string          `json:"digest"`
	Dispatched      int             `json:"dispatched"`
	Pending         int             `json:"pending"`
	Changes         []CellChangeMsg `json:"changes,omitempty"`
}

type CellChangeMsg struct {
	Pos    [3]int `json:"pos"`
	From   string `json:"from"`
	To     string `json:"to"`
	Data   uint8  `json:"data"`
	Light  int    `json:"light,omitempty"`
	Reason string `json:"reason,omitempty"`
}
