package recruitment

import (
	"sort"

	"github.com/avelardi/polisbot/internal/domain/shared"
)

// Building is one barracks or shipyard, identified by (city id, position).
// It carries the unit cost table scraped from the building view, the busy
// state, and the mutable assignment counters the planner and execution
// engine work on. Buildings live for a single run and are never persisted.
type Building struct {
	CityID   int
	CityName string
	Position int
	Kind     BuildingKind
	Level    int

	IsBusy         bool
	QueueRemaining int // seconds left on the current queue, when busy

	// Units maps game unit id to the cost record this building advertises.
	Units map[int]UnitType

	// ActionToken authorizes one order submission. Short-lived; TokenFresh
	// is cleared after use so the next submission refetches.
	ActionToken string
	TokenFresh  bool

	// Assignments is the planned quantity per unit id; Remaining is what is
	// still unsubmitted during resumable execution.
	Assignments map[int]int
	Remaining   map[int]int
}

// UnitFor looks the unit id up in the building's capability map.
func (b *Building) UnitFor(unitID int) (UnitType, bool) {
	u, ok := b.Units[unitID]
	return u, ok
}

// CanBuild reports whether the building's cost table includes the unit.
func (b *Building) CanBuild(unitID int) bool {
	_, ok := b.Units[unitID]
	return ok
}

// TotalAssigned is the sum of planned quantities across unit types.
func (b *Building) TotalAssigned() int {
	total := 0
	for _, qty := range b.Assignments {
		total += qty
	}
	return total
}

// TotalRemaining is the sum of not-yet-submitted quantities.
func (b *Building) TotalRemaining() int {
	total := 0
	for _, qty := range b.Remaining {
		total += qty
	}
	return total
}

// AssignedUnitIDs returns the assigned unit ids in ascending order so every
// walk over the assignment map is deterministic.
func (b *Building) AssignedUnitIDs() []int {
	ids := make([]int, 0, len(b.Assignments))
	for id := range b.Assignments {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// RemainingUnitIDs returns the unit ids with outstanding work, ascending.
func (b *Building) RemainingUnitIDs() []int {
	ids := make([]int, 0, len(b.Remaining))
	for id := range b.Remaining {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// EstimatedTime is the completion estimate for the building's current
// assignments: build time per unit times quantity, plus orderOverheadSecs
// for each distinct unit type ordered, plus whatever is left of an existing
// queue when the building is busy.
func (b *Building) EstimatedTime(orderOverheadSecs int) int {
	total := 0
	for unitID, qty := range b.Assignments {
		if u, ok := b.Units[unitID]; ok {
			total += u.BuildSecs * qty
		}
	}
	if b.IsBusy {
		total += b.QueueRemaining
	}
	if len(b.Assignments) > 0 {
		total += orderOverheadSecs * len(b.Assignments)
	}
	return total
}

// RequiredResources aggregates cost times quantity over the given
// assignment map.
func (b *Building) RequiredResources(assignments map[int]int) shared.ResourceSet {
	var need shared.ResourceSet
	for unitID, qty := range assignments {
		if u, ok := b.Units[unitID]; ok {
			need = need.Add(u.Cost.Scale(qty))
		}
	}
	return need
}

// InitRemaining copies the planned assignments into the remaining counters
// before resumable execution starts.
func (b *Building) InitRemaining() {
	b.Remaining = make(map[int]int, len(b.Assignments))
	for unitID, qty := range b.Assignments {
		b.Remaining[unitID] = qty
	}
}

// DeductRemaining subtracts submitted quantities from the remaining
// counters, dropping unit types that reach zero.
func (b *Building) DeductRemaining(submitted map[int]int) {
	for unitID, qty := range submitted {
		b.Remaining[unitID] -= qty
		if b.Remaining[unitID] <= 0 {
			delete(b.Remaining, unitID)
		}
	}
}

// CityIDs returns the distinct city ids across buildings, ascending.
func CityIDs(buildings []*Building) []int {
	seen := map[int]bool{}
	var ids []int
	for _, b := range buildings {
		if !seen[b.CityID] {
			seen[b.CityID] = true
			ids = append(ids, b.CityID)
		}
	}
	sort.Ints(ids)
	return ids
}
