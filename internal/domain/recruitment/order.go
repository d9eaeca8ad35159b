package recruitment

import "sort"

// OrderLine is the requested quantity of one unit type.
type OrderLine struct {
	Name     string
	Quantity int
}

// Order is the operator's recruitment request: unit id to quantity plus
// display names. Entered once, immutable for the run.
type Order map[int]OrderLine

// UnitIDs returns the ordered unit ids so iteration is deterministic.
func (o Order) UnitIDs() []int {
	ids := make([]int, 0, len(o))
	for id := range o {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// TotalUnits is the sum of requested quantities.
func (o Order) TotalUnits() int {
	total := 0
	for _, line := range o {
		total += line.Quantity
	}
	return total
}

// NameFor returns the display name for a unit id, falling back to the
// building's cost table name via the provided buildings when the order does
// not know it.
func (o Order) NameFor(unitID int, buildings []*Building) string {
	if line, ok := o[unitID]; ok && line.Name != "" {
		return line.Name
	}
	for _, b := range buildings {
		if u, ok := b.Units[unitID]; ok && u.Name != "" {
			return u.Name
		}
	}
	return ""
}
