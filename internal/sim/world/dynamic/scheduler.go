// Package dynamic holds the future-time ordered queue of dynamic updates.
//
// Events are dispatched in fire-time order with ties broken by insertion
// order. A call to AdvanceTo only dispatches events that were already queued
// when it started; anything scheduled by a handler waits for the next call.
package dynamic

import (
	"errors"
	"fmt"
	"sort"

	"voxelsignal.ai/internal/observability"
	"voxelsignal.ai/internal/sim/world/kernel/model"
)

// ErrStale is returned by a handler when the target cell no longer belongs to
// an element that wants the update. The event counts as dropped, not failed.
var ErrStale = errors.New("stale dynamic update")

type Event struct {
	Pos      model.Vec3i
	FireTime int64
	Payload  int
	Seq      uint64
}

// Regions tells the scheduler whether a cell is currently addressable.
type Regions interface {
	RegionLoaded(pos model.Vec3i) bool
}

type Handler func(ev Event) error

// Result summarizes one AdvanceTo call.
type Result struct {
	Dispatched int
	// Dropped lists due events that were discarded without reaching a handler
	// or whose handler reported ErrStale.
	Dropped []Event
	Err     error
}

type Scheduler struct {
	regions Regions
	metrics *observability.SchedulerCollector

	events  []Event
	nextSeq uint64
}

func New(regions Regions) *Scheduler {
	return &Scheduler{regions: regions}
}

func (s *Scheduler) SetMetrics(m *observability.SchedulerCollector) {
	s.metrics = m
	s.metrics.SetPending(len(s.events))
}

// Schedule queues an update for pos at fireTime. It reports false, and queues
// nothing, when pos is not in a loaded region. Duplicate entries are allowed.
func (s *Scheduler) Schedule(pos model.Vec3i, fireTime int64, payload int) bool {
	if s.regions != nil && !s.regions.RegionLoaded(pos) {
		return false
	}
	ev := Event{Pos: pos, FireTime: fireTime, Payload: payload, Seq: s.nextSeq}
	s.nextSeq++
	s.insert(ev)
	s.metrics.IncScheduled()
	s.metrics.SetPending(len(s.events))
	return true
}

func (s *Scheduler) insert(ev Event) {
	idx := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].FireTime > ev.FireTime
	})
	s.events = append(s.events, Event{})
	copy(s.events[idx+1:], s.events[idx:])
	s.events[idx] = ev
}

// AdvanceTo dispatches every event with FireTime <= now exactly once.
// Handler errors are joined into Result.Err; they never stop the batch.
func (s *Scheduler) AdvanceTo(now int64, fn Handler) Result {
	n := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].FireTime > now
	})
	if n == 0 {
		return Result{}
	}
	due := make([]Event, n)
	copy(due, s.events[:n])
	rest := make([]Event, len(s.events)-n, cap(s.events))
	copy(rest, s.events[n:])
	s.events = rest

	var (
		res  Result
		errs []error
	)
	for _, ev := range due {
		if s.regions != nil && !s.regions.RegionLoaded(ev.Pos) {
			res.Dropped = append(res.Dropped, ev)
			s.metrics.AddDropped(observability.DropUnloaded, 1)
			continue
		}
		err := fn(ev)
		switch {
		case err == nil:
			res.Dispatched++
			s.metrics.IncDispatched()
		case errors.Is(err, ErrStale):
			res.Dropped = append(res.Dropped, ev)
			s.metrics.AddDropped(observability.DropStale, 1)
		default:
			res.Dispatched++
			s.metrics.IncDispatched()
			s.metrics.IncFailed()
			errs = append(errs, fmt.Errorf("dynamic update at %v (fire %d): %w", ev.Pos, ev.FireTime, err))
		}
	}
	res.Err = errors.Join(errs...)
	s.metrics.SetPending(len(s.events))
	return res
}

// DropWhere removes every pending event matching pred and returns them in
// dispatch order.
func (s *Scheduler) DropWhere(pred func(Event) bool) []Event {
	var dropped []Event
	kept := s.events[:0]
	for _, ev := range s.events {
		if pred(ev) {
			dropped = append(dropped, ev)
			continue
		}
		kept = append(kept, ev)
	}
	for i := len(kept); i < len(s.events); i++ {
		s.events[i] = Event{}
	}
	s.events = kept
	s.metrics.AddDropped(observability.DropUnloaded, len(dropped))
	s.metrics.SetPending(len(s.events))
	return dropped
}

func (s *Scheduler) Pending() int { return len(s.events) }

// PendingAt returns the queued events targeting pos in dispatch order.
func (s *Scheduler) PendingAt(pos model.Vec3i) []Event {
	var out []Event
	for _, ev := range s.events {
		if ev.Pos == pos {
			out = append(out, ev)
		}
	}
	return out
}

// Events returns a copy of the queue in dispatch order.
func (s *Scheduler) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Scheduler) NextSeq() uint64 { return s.nextSeq }

// Restore replaces the queue with events (any order) and resumes sequence
// numbering at nextSeq.
func (s *Scheduler) Restore(events []Event, nextSeq uint64) error {
	cp := make([]Event, len(events))
	copy(cp, events)
	seen := make(map[uint64]struct{}, len(cp))
	for _, ev := range cp {
		if ev.Seq >= nextSeq {
			return fmt.Errorf("event seq %d not below next seq %d", ev.Seq, nextSeq)
		}
		if _, dup := seen[ev.Seq]; dup {
			return fmt.Errorf("duplicate event seq %d", ev.Seq)
		}
		seen[ev.Seq] = struct{}{}
	}
	sort.Slice(cp, func(i, j int) bool {
		if cp[i].FireTime != cp[j].FireTime {
			return cp[i].FireTime < cp[j].FireTime
		}
		return cp[i].Seq < cp[j].Seq
	})
	s.events = cp
	s.nextSeq = nextSeq
	s.metrics.SetPending(len(s.events))
	return nil
}
