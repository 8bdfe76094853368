package world

import (
	"encoding/json"
	"fmt"

	"voxelsignal.ai/internal/protocol"
	"voxelsignal.ai/internal/sim/world/kernel/model"
	"voxelsignal.ai/internal/sim/world/material"
	"voxelsignal.ai/internal/sim/world/terrain/store"
)

type ackOut struct {
	clientID string
	actID    string
	err      *actionError
}

func (w *World) handleJoin(req JoinRequest) {
	name := req.Name
	if name == "" {
		name = "client"
	}
	id := fmt.Sprintf("C%06d", w.nextClientNum.Add(1))
	if req.Out != nil {
		w.clients[id] = &clientState{Name: name, Out: req.Out}
	}
	if req.Resp != nil {
		req.Resp <- JoinResponse{Welcome: w.welcome(id)}
	}
}

func (w *World) handleLeave(clientID string) {
	delete(w.clients, clientID)
}

func (w *World) welcome(clientID string) protocol.WelcomeMsg {
	blocks := &w.catalogs.Blocks
	palette := make([]string, len(blocks.Palette))
	copy(palette, blocks.Palette)
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		ClientID:        clientID,
		WorldID:         w.cfg.ID,
		Tick:            w.tick.Load(),
		Age:             w.age,
		WorldParams: protocol.WorldParams{
			TickRateHz:  w.cfg.TickRateHz,
			TimePerTick: w.cfg.TimePerTick,
			ChunkSize:   [3]int{store.ChunkSize, store.ChunkSize, w.cfg.Height},
			Height:      w.cfg.Height,
		},
		Catalogs: protocol.CatalogDigests{
			BlockPalette: protocol.DigestRef{Digest: blocks.PaletteDigest, Count: len(blocks.Palette)},
		},
		BlockPalette: palette,
	}
}

func (w *World) sendAcks(tick uint64, acks []ackOut) {
	for _, a := range acks {
		cl := w.clients[a.clientID]
		if cl == nil {
			continue
		}
		msg := protocol.AckMsg{
			Type:            protocol.TypeAck,
			ProtocolVersion: protocol.Version,
			AckFor:          a.actID,
			Accepted:        a.err == nil,
			ServerTick:      tick,
			WorldID:         w.cfg.ID,
		}
		if a.err != nil {
			msg.Code = a.err.code
			msg.Message = a.err.msg
		}
		b, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		select {
		case cl.Out <- b:
		default:
		}
	}
}

func (w *World) broadcastTick(tick uint64, digest string, dispatched int, changes []model.CellChange) {
	if len(w.clients) == 0 {
		return
	}
	msg := protocol.TickMsg{
		Type:            protocol.TypeTick,
		ProtocolVersion: protocol.Version,
		WorldID:         w.cfg.ID,
		Tick:            tick,
		Age:             w.age,
		Digest:          digest,
		Dispatched:      dispatched,
		Pending:         w.sched.Pending(),
	}
	for _, c := range changes {
		to := w.reg.Get(c.ToID)
		msg.Changes = append(msg.Changes, protocol.CellChangeMsg{
			Pos:    c.Pos.ToArray(),
			From:   w.reg.Get(c.FromID).Name(),
			To:     to.Name(),
			Data:   c.ToData,
			Light:  material.LightLevelOf(to),
			Reason: c.Reason,
		})
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for _, cl := range w.clients {
		sendLatest(cl.Out, b)
	}
}
