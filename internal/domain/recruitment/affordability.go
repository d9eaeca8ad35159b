package recruitment

import "github.com/avelardi/polisbot/internal/domain/shared"

// CommitThresholdDefault is the minimum fraction of a building's remaining
// order that must be affordable before a partial order is worth submitting.
// Below it the building waits a cycle instead of flooding the queue with
// trivial orders.
const CommitThresholdDefault = 0.20

// AffordablePlan computes, against the given city resource pool, the most
// units of each remaining type the building could recruit right now. Unit
// types are consumed greedily in the building's remaining-assignment
// iteration order, with a working copy of the pool decremented after each
// type so later types see the reduced room. The pool argument itself is not
// modified.
//
// Returns the per-unit quantities, their sum, and the pool that would be
// left after paying for them.
func AffordablePlan(b *Building, pool shared.ResourceSet) (map[int]int, int, shared.ResourceSet) {
	plan := make(map[int]int)
	total := 0
	working := pool

	for _, unitID := range b.RemainingUnitIDs() {
		unit, ok := b.Units[unitID]
		if !ok {
			continue
		}
		qty := b.Remaining[unitID]
		if limit := working.MaxUnits(unit.Cost); limit >= 0 && limit < qty {
			qty = limit
		}
		if qty <= 0 {
			continue
		}
		plan[unitID] = qty
		total += qty
		working = working.Sub(unit.Cost.Scale(qty))
	}
	return plan, total, working
}

// CommitThreshold is the minimum affordable quantity a building must reach
// this cycle before a partial order is submitted: the configured fraction
// of its remaining units, floored, never less than one.
func CommitThreshold(remainingUnits int, fraction float64) int {
	threshold := int(float64(remainingUnits) * fraction)
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}
