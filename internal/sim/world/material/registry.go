package material

import (
	"fmt"

	"voxelsignal.ai/internal/sim/catalogs"
)

type Options struct {
	// LampOffDelay is how long a lamp stays lit after losing power.
	LampOffDelay int64
}

// Registry maps palette ids to materials. It is immutable after NewRegistry.
type Registry struct {
	byID   []Material
	byName map[string]Material
	opts   Options
}

func NewRegistry(cat *catalogs.BlockCatalog, opts Options) (*Registry, error) {
	if cat == nil {
		return nil, fmt.Errorf("nil block catalog")
	}
	if opts.LampOffDelay <= 0 {
		opts.LampOffDelay = 100
	}
	r := &Registry{
		byID:   make([]Material, len(cat.Palette)),
		byName: make(map[string]Material, len(cat.Palette)),
		opts:   opts,
	}
	repeaters := map[string]*repeater{}
	lamps := map[string]*lamp{}
	for i, name := range cat.Palette {
		def := cat.Defs[name]
		b := base{id: uint16(i), def: def}
		var m Material
		switch def.Kind {
		case catalogs.KindRepeater:
			rp := &repeater{base: b, on: def.Powered}
			repeaters[name] = rp
			m = rp
		case catalogs.KindLamp:
			l := &lamp{base: b, on: def.Powered, offDelay: opts.LampOffDelay}
			lamps[name] = l
			m = l
		case catalogs.KindLever:
			m = &lever{base: b}
		case catalogs.KindPowerBlock:
			m = &powerBlock{base: b}
		default:
			m = &plain{base: b}
		}
		r.byID[i] = m
		r.byName[name] = m
	}
	for name, rp := range repeaters {
		pair, ok := repeaters[cat.Defs[name].Pair]
		if !ok {
			return nil, fmt.Errorf("repeater %s has no on/off pair", name)
		}
		rp.pair = pair
	}
	for name, l := range lamps {
		pair, ok := lamps[cat.Defs[name].Pair]
		if !ok {
			return nil, fmt.Errorf("lamp %s has no on/off pair", name)
		}
		l.pair = pair
	}
	return r, nil
}

// Get returns the material for id. Unknown ids resolve to air.
func (r *Registry) Get(id uint16) Material {
	if int(id) >= len(r.byID) {
		return r.byID[0]
	}
	return r.byID[id]
}

func (r *Registry) ByName(name string) (Material, bool) {
	m, ok := r.byName[name]
	return m, ok
}

func (r *Registry) Len() int { return len(r.byID) }

// LampOffDelay is the delay lamps were built with, after defaulting.
func (r *Registry) LampOffDelay() int64 { return r.opts.LampOffDelay }
