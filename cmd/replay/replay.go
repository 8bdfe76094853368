package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	persistlog "voxelsignal.ai/internal/persistence/log"
	"voxelsignal.ai/internal/sim/world"
)

type replayResult struct {
	Files   int
	Checked uint64
}

var errStop = errors.New("stop")

// replayDir steps w through every logged tick at or after its current tick
// and compares digests from verifyFrom on. A zero toTick means no limit.
func replayDir(w *world.World, eventsDir string, verifyFrom, toTick uint64) (replayResult, error) {
	var res replayResult
	files, err := persistlog.ListLogFiles(eventsDir, "events")
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		return res, fmt.Errorf("no events files found in %s", eventsDir)
	}

	startTick := w.CurrentTick()
	if verifyFrom == 0 {
		verifyFrom = startTick
	}
	for _, path := range files {
		res.Files++
		err := persistlog.ReadJSONLZstd(path, func(line []byte) error {
			var entry world.TickLogEntry
			if err := json.Unmarshal(line, &entry); err != nil {
				return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
			}
			if entry.Tick < startTick {
				return nil
			}
			if toTick != 0 && entry.Tick > toTick {
				return errStop
			}
			if entry.Tick != w.CurrentTick() {
				return fmt.Errorf("tick mismatch: want=%d got=%d (file=%s)", w.CurrentTick(), entry.Tick, filepath.Base(path))
			}

			acts := make([]world.ActionEnvelope, 0, len(entry.Actions))
			for _, ra := range entry.Actions {
				acts = append(acts, world.ActionEnvelope{ClientID: ra.ClientID, Act: ra.Act})
			}
			tick, gotDigest := w.StepOnce(nil, nil, acts)
			if entry.Age != 0 && w.CurrentAge()-w.Config().TimePerTick != entry.Age {
				return fmt.Errorf("age mismatch at tick %d: got=%d want=%d", tick, w.CurrentAge()-w.Config().TimePerTick, entry.Age)
			}
			if tick >= verifyFrom {
				res.Checked++
				if gotDigest != entry.Digest {
					return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, gotDigest, entry.Digest)
				}
			}
			return nil
		})
		if errors.Is(err, errStop) {
			return res, nil
		}
		if err != nil {
			return res, err
		}
	}
	return res, nil
}
