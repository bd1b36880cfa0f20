package system

import "sort"

// Runner executes systems in phase order each tick. Systems sharing a phase run
// in registration order.
type Runner[C any] struct {
	systems []System[C]
	sorted  bool
}

func NewRunner[C any]() *Runner[C] {
	return &Runner[C]{
		systems: make([]System[C], 0, 16),
	}
}

func (r *Runner[C]) Register(s System[C]) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Len returns the number of registered systems.
func (r *Runner[C]) Len() int { return len(r.systems) }

func (r *Runner[C]) Tick(ctx C, dt float64) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(ctx, dt)
	}
}

// TickPhase runs only the systems registered for phase.
func (r *Runner[C]) TickPhase(ctx C, phase Phase, dt float64) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(ctx, dt)
		}
	}
}

// Phases returns the registered phases in execution order.
func (r *Runner[C]) Phases() []Phase {
	r.ensureSorted()
	out := make([]Phase, len(r.systems))
	for i, s := range r.systems {
		out[i] = s.Phase()
	}
	return out
}

func (r *Runner[C]) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
