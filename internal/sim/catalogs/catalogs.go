package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Block kinds understood by the material registry.
const (
	KindPlain      = "plain"
	KindRepeater   = "repeater"
	KindLever      = "lever"
	KindPowerBlock = "power_block"
	KindLamp       = "lamp"
)

// AirID is the palette id of AIR in every catalog.
const AirID uint16 = 0

type Catalogs struct {
	Blocks BlockCatalog
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
	DefsDigest    string
}

type BlockDef struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	// Powered marks the active variant of an on/off pair. Solid blocks can
	// carry ground-attached blocks such as repeaters.
	Powered    bool   `json:"powered,omitempty"`
	LightLevel int    `json:"light_level,omitempty"`
	Pair       string `json:"pair,omitempty"`
	Solid      bool   `json:"solid,omitempty"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	return &c, nil
}

// ID returns the palette id of a block name.
func (b *BlockCatalog) ID(name string) (uint16, bool) {
	id, ok := b.Index[name]
	return id, ok
}

// Def returns the definition behind a palette id.
func (b *BlockCatalog) Def(id uint16) (BlockDef, bool) {
	if int(id) >= len(b.Palette) {
		return BlockDef{}, false
	}
	d, ok := b.Defs[b.Palette[id]]
	return d, ok
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return parseBlocks(raw, out)
}

func parseBlocks(raw []byte, out *BlockCatalog) error {
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("blocks.json: duplicate id %s", d.ID)
		}
		if d.Kind == "" {
			d.Kind = KindPlain
		}
		switch d.Kind {
		case KindPlain, KindRepeater, KindLever, KindPowerBlock, KindLamp:
		default:
			return fmt.Errorf("blocks.json: %s: unknown kind %q", d.ID, d.Kind)
		}
		if d.LightLevel < 0 || d.LightLevel > 15 {
			return fmt.Errorf("blocks.json: %s: light_level out of range", d.ID)
		}
		out.Defs[d.ID] = d
	}
	for _, d := range out.Defs {
		if d.Pair == "" {
			continue
		}
		p, ok := out.Defs[d.Pair]
		if !ok {
			return fmt.Errorf("blocks.json: %s: unknown pair %s", d.ID, d.Pair)
		}
		if p.Pair != d.ID || p.Kind != d.Kind || p.Powered == d.Powered {
			return fmt.Errorf("blocks.json: %s and %s are not a matching on/off pair", d.ID, d.Pair)
		}
	}
	air, ok := out.Defs["AIR"]
	if !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	if air.Solid {
		return fmt.Errorf("blocks.json: AIR cannot be solid")
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		if id != "AIR" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	ids = append([]string{"AIR"}, ids...)

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

// ParseBlocks builds a block catalog from blocks.json content.
func ParseBlocks(raw []byte) (*BlockCatalog, error) {
	var b BlockCatalog
	if err := parseBlocks(raw, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
