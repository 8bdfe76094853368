package world

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"voxelsignal.ai/internal/observability"
	"voxelsignal.ai/internal/persistence/snapshot"
	"voxelsignal.ai/internal/sim/catalogs"
	"voxelsignal.ai/internal/sim/tuning"
	"voxelsignal.ai/internal/sim/world/dynamic"
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/material"
	"voxelsignal.ai/internal/sim/world/terrain/store"
)

type WorldConfig struct {
	ID         string
	TickRateHz int
	// TimePerTick is added to the age after every tick.
	TimePerTick int64

	Height     int
	FloorY     int // -1 disables the floor layer
	FloorBlock string

	// Chunks within PreloadRadius of chunk (0,0) are loaded by New.
	PreloadRadius      int
	SnapshotEveryTicks int

	LampOffDelay int64
}

func ConfigFromTuning(id string, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:                 id,
		TickRateHz:         t.TickRateHz,
		TimePerTick:        t.TimePerTick,
		Height:             t.ChunkHeight,
		FloorY:             t.FloorY,
		FloorBlock:         "STONE",
		PreloadRadius:      t.PreloadRadius,
		SnapshotEveryTicks: t.SnapshotEveryTicks,
		LampOffDelay:       t.LampOffDelay,
	}
}

// ConfigFromSnapshot rebuilds the config a snapshot was taken with. Fields the
// snapshot does not carry come from base.
func ConfigFromSnapshot(snap snapshot.SnapshotV1, base WorldConfig) WorldConfig {
	cfg := base
	if snap.Header.WorldID != "" {
		cfg.ID = snap.Header.WorldID
	}
	if snap.TickRateHz > 0 {
		cfg.TickRateHz = snap.TickRateHz
	}
	cfg.TimePerTick = snap.TimePerTick
	cfg.Height = snap.Height
	cfg.FloorY = snap.FloorY
	if snap.LampOffDelay > 0 {
		cfg.LampOffDelay = snap.LampOffDelay
	}
	return cfg
}

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs
	reg      *material.Registry
	air      uint16

	tick     atomic.Uint64
	age      int64
	ageShown atomic.Int64

	chunks *store.ChunkStore
	sched  *dynamic.Scheduler

	// Changes committed since the last propagation pass.
	changes []model.CellChange
	// Attribution for changes and audits made by the running handler.
	actor  string
	reason string

	clients       map[string]*clientState
	nextClientNum atomic.Uint64

	inbox      chan ActionEnvelope
	join       chan JoinRequest
	leave      chan string
	summaryReq chan summaryReq
	cellReq    chan cellReq
	snapReq    chan snapshotReq
	stop       chan struct{}
	stopOnce   sync.Once

	// Optional sinks (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	auditLogger AuditLogger
	// Snapshot writing happens off-thread.
	snapshotSink chan<- snapshot.SnapshotV1

	logger       *log.Logger
	metrics      *observability.WorldCollector
	schedMetrics *observability.SchedulerCollector
}

func New(cfg WorldConfig, cats *catalogs.Catalogs) (*World, error) {
	if cats == nil {
		return nil, fmt.Errorf("nil catalogs")
	}
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = 20
	}
	if cfg.TimePerTick <= 0 {
		cfg.TimePerTick = 1
	}
	if cfg.Height <= 0 {
		cfg.Height = 64
	}
	if cfg.FloorBlock == "" {
		cfg.FloorBlock = "STONE"
	}

	reg, err := material.NewRegistry(&cats.Blocks, material.Options{LampOffDelay: cfg.LampOffDelay})
	if err != nil {
		return nil, err
	}
	air, ok := cats.Blocks.ID("AIR")
	if !ok {
		return nil, fmt.Errorf("missing block id in palette: AIR")
	}
	gen := store.WorldGen{Height: cfg.Height, Air: air, FloorY: cfg.FloorY}
	if cfg.FloorY >= 0 {
		floor, ok := cats.Blocks.ID(cfg.FloorBlock)
		if !ok {
			return nil, fmt.Errorf("missing block id in palette: %s", cfg.FloorBlock)
		}
		gen.Floor = floor
	}

	w := &World{
		cfg:        cfg,
		catalogs:   cats,
		reg:        reg,
		air:        air,
		chunks:     store.NewChunkStore(gen),
		clients:    map[string]*clientState{},
		inbox:      make(chan ActionEnvelope, 1024),
		join:       make(chan JoinRequest, 64),
		leave:      make(chan string, 64),
		summaryReq: make(chan summaryReq, 16),
		cellReq:    make(chan cellReq, 16),
		snapReq:    make(chan snapshotReq, 4),
		stop:       make(chan struct{}),
	}
	w.sched = dynamic.New(w)

	r := cfg.PreloadRadius
	for cx := -r; cx <= r; cx++ {
		for cz := -r; cz <= r; cz++ {
			w.chunks.Load(store.ChunkKey{CX: cx, CZ: cz})
		}
	}
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger)   { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger) { w.auditLogger = l }
func (w *World) SetLogger(l *log.Logger)      { w.logger = l }

func (w *World) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { w.snapshotSink = ch }

func (w *World) SetMetrics(world *observability.WorldCollector, sched *observability.SchedulerCollector) {
	w.metrics = world
	w.schedMetrics = sched
	w.sched.SetMetrics(sched)
}

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) Config() WorldConfig { return w.cfg }

func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

// CurrentAge is safe to call from any goroutine.
func (w *World) CurrentAge() int64 { return w.ageShown.Load() }

func (w *World) setAge(age int64) {
	w.age = age
	w.ageShown.Store(age)
}

func (w *World) logf(format string, args ...any) {
	if w.logger != nil {
		w.logger.Printf(format, args...)
	}
}
