package search

import "github.com/dersplan/timetable-api/internal/store"

// progressSnapshot remembers the deepest point the backtracking search
// reached, in terms of per-course placed hours, so a final Infeasible result
// can report meaningful diagnostics even though full backtracking rolls the
// store back to its pre-search baseline by the time the top-level call
// returns.
type progressSnapshot struct {
	needed   map[string]int
	baseline map[string]int
	order    []string
	best     map[string]int
	depth    int
}

func newProgressSnapshot(st *store.Store, courses []CourseInput) *progressSnapshot {
	needed := make(map[string]int, len(courses))
	baseline := make(map[string]int, len(courses))
	best := make(map[string]int, len(courses))
	order := make([]string, 0, len(courses))
	for _, c := range courses {
		needed[c.Course.ID] = c.RemainingHours
		baseline[c.Course.ID] = st.PlacedHours(c.Course.ID)
		best[c.Course.ID] = 0
		order = append(order, c.Course.ID)
	}
	return &progressSnapshot{needed: needed, baseline: baseline, order: order, best: best}
}

// record captures the placed-hours count (relative to the pre-search
// baseline, so fixed-pin pre-placements never count toward search progress)
// for every tracked course if depth is a new deepest point reached.
func (p *progressSnapshot) record(st *store.Store, depth int) {
	if depth <= p.depth {
		return
	}
	p.depth = depth
	for _, id := range p.order {
		p.best[id] = st.PlacedHours(id) - p.baseline[id]
	}
}

func (p *progressSnapshot) diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, id := range p.order {
		needed := p.needed[id]
		placed := p.best[id]
		if placed < needed {
			out = append(out, Diagnostic{CourseID: id, Needed: needed, Placed: placed})
		}
	}
	return out
}
