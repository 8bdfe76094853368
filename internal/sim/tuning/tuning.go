package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz" json:"tick_rate_hz"`
	// TimePerTick is how far the simulation age advances on every tick.
	TimePerTick int64 `yaml:"time_per_tick" json:"time_per_tick"`

	ChunkHeight   int `yaml:"chunk_height" json:"chunk_height"`
	FloorY        int `yaml:"floor_y" json:"floor_y"`
	PreloadRadius int `yaml:"preload_radius" json:"preload_radius"`

	SnapshotEveryTicks int `yaml:"snapshot_every_ticks" json:"snapshot_every_ticks"`

	// LampOffDelay is the age span a lit lamp waits before going dark.
	LampOffDelay int64 `yaml:"lamp_off_delay" json:"lamp_off_delay"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:         20,
		TimePerTick:        50,
		ChunkHeight:        64,
		FloorY:             0,
		PreloadRadius:      1,
		SnapshotEveryTicks: 3000,
		LampOffDelay:       100,
	}
}

// Load reads path over Defaults; keys missing from the file keep their
// default value.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.TickRateHz <= 0:
		return fmt.Errorf("tick_rate_hz must be > 0, got %d", t.TickRateHz)
	case t.TimePerTick <= 0:
		return fmt.Errorf("time_per_tick must be > 0, got %d", t.TimePerTick)
	case t.ChunkHeight <= 0 || t.ChunkHeight > 1024:
		return fmt.Errorf("chunk_height must be in 1..1024, got %d", t.ChunkHeight)
	case t.FloorY >= t.ChunkHeight:
		return fmt.Errorf("floor_y must be below chunk_height, got %d", t.FloorY)
	case t.PreloadRadius < 0:
		return fmt.Errorf("preload_radius must be >= 0, got %d", t.PreloadRadius)
	case t.SnapshotEveryTicks < 0:
		return fmt.Errorf("snapshot_every_ticks must be >= 0, got %d", t.SnapshotEveryTicks)
	case t.LampOffDelay <= 0:
		return fmt.Errorf("lamp_off_delay must be > 0, got %d", t.LampOffDelay)
	}
	return nil
}
