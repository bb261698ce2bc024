package schedule

import "time"

// Pool tracks the slots still offerable while a booking batch executes.
// Removal is keyed by start instant, so committing one request hides that
// hour from every later request in the same message.
type Pool struct {
	order []Slot
	live  map[int64]struct{}
}

// NewPool builds a pool over the given slots, preserving their order.
func NewPool(slots []Slot) *Pool {
	p := &Pool{order: slots, live: make(map[int64]struct{}, len(slots))}
	for _, s := range slots {
		p.live[s.Start.Unix()] = struct{}{}
	}
	return p
}

// Slots returns the remaining slots in their original order.
func (p *Pool) Slots() []Slot {
	out := make([]Slot, 0, len(p.live))
	for _, s := range p.order {
		if _, ok := p.live[s.Start.Unix()]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Match resolves a request against the remaining slots.
func (p *Pool) Match(day, timeStr string) (Slot, bool) {
	return Match(p.Slots(), day, timeStr)
}

// Remove takes the slot starting at start out of the pool.
func (p *Pool) Remove(start time.Time) {
	delete(p.live, start.Unix())
}

// Len reports how many slots remain.
func (p *Pool) Len() int {
	return len(p.live)
}
