package recruitment

import "github.com/avelardi/polisbot/internal/domain/shared"

// PlannerConfig carries the tunable policy constants of the distribution
// planner. The defaults reproduce long-standing heuristic choices; they are
// asserted policy, not derived optima, so they stay overridable.
type PlannerConfig struct {
	// SkewToleranceSecs is the acceptable spread between the fastest and the
	// slowest building's completion estimate after balancing.
	SkewToleranceSecs int

	// OrderOverheadSecs is added per distinct unit type ordered at a
	// building (the game applies a minimum handling time per order line).
	OrderOverheadSecs int

	// MoveChunk is the most units a single balancing step shifts between
	// buildings.
	MoveChunk int

	// MaxBalanceIterations bounds the balancing local search.
	MaxBalanceIterations int
}

// DefaultPlannerConfig returns the stock planner policy: 30 minute skew
// tolerance, 10 second order overhead, 10 unit move chunk, 100 iterations.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		SkewToleranceSecs:    1800,
		OrderOverheadSecs:    10,
		MoveChunk:            10,
		MaxBalanceIterations: 100,
	}
}

// Distribution is the planner's output: the same building records, now
// carrying assignments, plus the unit ids that had no capable building.
// Unplaced units contribute nothing to any assignment and must be surfaced
// to the operator, never counted as fulfilled.
type Distribution struct {
	Buildings []*Building
	Unplaced  []int
}

// TotalAssigned sums planned quantities across all buildings.
func (d *Distribution) TotalAssigned() int {
	total := 0
	for _, b := range d.Buildings {
		total += b.TotalAssigned()
	}
	return total
}

// InvolvedCityIDs returns the distinct city ids that received assignments.
func (d *Distribution) InvolvedCityIDs() []int {
	var involved []*Building
	for _, b := range d.Buildings {
		if len(b.Assignments) > 0 {
			involved = append(involved, b)
		}
	}
	return CityIDs(involved)
}

// Plan splits the requested quantities across the capable buildings
// proportionally to their build speed, then rebalances so completion times
// stay within the configured tolerance.
//
// Per unit type, independently: buildings whose cost table lacks the unit
// are excluded; each capable building gets floor(total*speed/sumSpeed)
// with the last capable building absorbing the rounding remainder, so the
// rounding error lands on one deterministic building instead of being
// spread. A unit with no capable building at all lands in Unplaced.
//
// Returns an error only when not a single requested unit type has a
// capable building; the caller must treat that as a hard stop.
func Plan(buildings []*Building, order Order, cfg PlannerConfig) (*Distribution, error) {
	if len(buildings) == 0 || len(order) == 0 {
		return nil, shared.NewDomainError("nothing to plan: no buildings or empty order")
	}

	for _, b := range buildings {
		b.Assignments = make(map[int]int)
	}

	dist := &Distribution{Buildings: buildings}
	placedAny := false

	for _, unitID := range order.UnitIDs() {
		totalQty := order[unitID].Quantity
		if totalQty <= 0 {
			continue
		}

		var capable []*Building
		for _, b := range buildings {
			if b.CanBuild(unitID) {
				capable = append(capable, b)
			}
		}
		if len(capable) == 0 {
			dist.Unplaced = append(dist.Unplaced, unitID)
			continue
		}
		placedAny = true

		speeds := make([]float64, len(capable))
		totalSpeed := 0.0
		for i, b := range capable {
			secs := b.Units[unitID].BuildSecs
			speed := 1.0
			if secs > 0 {
				speed = 1.0 / float64(secs)
			}
			speeds[i] = speed
			totalSpeed += speed
		}

		if totalSpeed == 0 {
			// Degenerate fallback: even split, remainder to the first
			// buildings in order.
			per := totalQty / len(capable)
			rem := totalQty % len(capable)
			for i, b := range capable {
				qty := per
				if i < rem {
					qty++
				}
				if qty > 0 {
					b.Assignments[unitID] = qty
				}
			}
			continue
		}

		remaining := totalQty
		for i, b := range capable {
			var qty int
			if i == len(capable)-1 {
				qty = remaining
			} else {
				qty = int(float64(totalQty) * (speeds[i] / totalSpeed))
				remaining -= qty
			}
			if qty > 0 {
				b.Assignments[unitID] = qty
			}
		}
	}

	if !placedAny {
		return nil, shared.NewDomainError("no capable building for any requested unit type")
	}

	balance(buildings, cfg)
	return dist, nil
}

// balance is a greedy local search, not a global optimum: while the spread
// between the slowest and fastest building exceeds the tolerance, it moves
// a chunk of an overlapping unit type from the slowest building to the
// fastest one that can build it. Ties are broken by the first matching
// index in building list order. Stops at the iteration cap or as soon as no
// movable overlap exists.
func balance(buildings []*Building, cfg PlannerConfig) {
	for iter := 0; iter < cfg.MaxBalanceIterations; iter++ {
		times := make([]int, len(buildings))
		for i, b := range buildings {
			times[i] = b.EstimatedTime(cfg.OrderOverheadSecs)
		}
		if len(times) == 0 {
			return
		}

		fastest, slowest := 0, 0
		for i, t := range times {
			if t < times[fastest] {
				fastest = i
			}
			if t > times[slowest] {
				slowest = i
			}
		}
		if times[slowest]-times[fastest] <= cfg.SkewToleranceSecs {
			return
		}

		slow := buildings[slowest]
		fast := buildings[fastest]

		moved := false
		for _, unitID := range slow.AssignedUnitIDs() {
			if !fast.CanBuild(unitID) {
				continue
			}
			qty := slow.Assignments[unitID]
			if qty <= cfg.MoveChunk {
				continue
			}
			moveQty := cfg.MoveChunk
			if qty-1 < moveQty {
				moveQty = qty - 1
			}
			slow.Assignments[unitID] -= moveQty
			if slow.Assignments[unitID] <= 0 {
				delete(slow.Assignments, unitID)
			}
			fast.Assignments[unitID] += moveQty
			moved = true
			break
		}
		if !moved {
			return
		}
	}
}
