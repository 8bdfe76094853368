package main

import (
	"flag"
	"fmt"
	"os"

	"voxelsignal.ai/internal/persistence/snapshot"
	"voxelsignal.ai/internal/sim/catalogs"
	"voxelsignal.ai/internal/sim/world"
)

func main() {
	var (
		snapPath  = flag.String("snapshot", "", "path to .snap.zst")
		eventsDir = flag.String("events", "", "events dir containing events-*.jsonl.zst (optional)")
		configDir = flag.String("configs", "./configs", "config directory")
		fromTick  = flag.Uint64("from_tick", 0, "start verifying from tick (inclusive, optional)")
		toTick    = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}

	fmt.Printf("snapshot v%d world=%s tick=%d age=%d time_per_tick=%d height=%d chunks=%d pending=%d unpropagated=%d\n",
		snap.Header.Version, snap.Header.WorldID, snap.Header.Tick, snap.Age, snap.TimePerTick, snap.Height,
		len(snap.Chunks), len(snap.Pending), len(snap.Unpropagated))

	if *eventsDir == "" {
		return
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}

	w, err := world.New(world.ConfigFromSnapshot(snap, world.WorldConfig{}), cats)
	if err != nil {
		fmt.Fprintln(os.Stderr, "world:", err)
		os.Exit(1)
	}
	if err := w.ImportSnapshot(snap); err != nil {
		fmt.Fprintln(os.Stderr, "import snapshot:", err)
		os.Exit(1)
	}

	res, err := replayDir(w, *eventsDir, *fromTick, *toTick)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: checked=%d ticks files=%d (from snapshot tick=%d, now tick=%d age=%d)\n",
		res.Checked, res.Files, snap.Header.Tick, w.CurrentTick(), w.CurrentAge())
}
