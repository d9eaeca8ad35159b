package shared

// ResourceSet is a quantity of each city resource, including citizens.
// The zero value means "nothing". Components may go negative in
// intermediate arithmetic; use Shortage for a clamped view.
type ResourceSet struct {
	Citizens int
	Wood     int
	Wine     int
	Marble   int
	Crystal  int
	Sulfur   int
}

func (r ResourceSet) Add(o ResourceSet) ResourceSet {
	return ResourceSet{
		Citizens: r.Citizens + o.Citizens,
		Wood:     r.Wood + o.Wood,
		Wine:     r.Wine + o.Wine,
		Marble:   r.Marble + o.Marble,
		Crystal:  r.Crystal + o.Crystal,
		Sulfur:   r.Sulfur + o.Sulfur,
	}
}

func (r ResourceSet) Sub(o ResourceSet) ResourceSet {
	return ResourceSet{
		Citizens: r.Citizens - o.Citizens,
		Wood:     r.Wood - o.Wood,
		Wine:     r.Wine - o.Wine,
		Marble:   r.Marble - o.Marble,
		Crystal:  r.Crystal - o.Crystal,
		Sulfur:   r.Sulfur - o.Sulfur,
	}
}

func (r ResourceSet) Scale(n int) ResourceSet {
	return ResourceSet{
		Citizens: r.Citizens * n,
		Wood:     r.Wood * n,
		Wine:     r.Wine * n,
		Marble:   r.Marble * n,
		Crystal:  r.Crystal * n,
		Sulfur:   r.Sulfur * n,
	}
}

// Covers reports whether r has at least as much of every component as need.
func (r ResourceSet) Covers(need ResourceSet) bool {
	return r.Citizens >= need.Citizens &&
		r.Wood >= need.Wood &&
		r.Wine >= need.Wine &&
		r.Marble >= need.Marble &&
		r.Crystal >= need.Crystal &&
		r.Sulfur >= need.Sulfur
}

// Shortage returns how much of each component r is missing to cover need.
// Components that are covered come back as zero, never negative.
func (r ResourceSet) Shortage(need ResourceSet) ResourceSet {
	return ResourceSet{
		Citizens: clampPositive(need.Citizens - r.Citizens),
		Wood:     clampPositive(need.Wood - r.Wood),
		Wine:     clampPositive(need.Wine - r.Wine),
		Marble:   clampPositive(need.Marble - r.Marble),
		Crystal:  clampPositive(need.Crystal - r.Crystal),
		Sulfur:   clampPositive(need.Sulfur - r.Sulfur),
	}
}

func (r ResourceSet) IsZero() bool {
	return r == ResourceSet{}
}

// MaxUnits returns how many units of the given per-unit cost the set can
// pay for, taking the tightest component as the limit. A zero cost means
// the unit is free and -1 signals "no resource limit".
func (r ResourceSet) MaxUnits(cost ResourceSet) int {
	limit := -1
	for _, dim := range [...][2]int{
		{r.Citizens, cost.Citizens},
		{r.Wood, cost.Wood},
		{r.Wine, cost.Wine},
		{r.Marble, cost.Marble},
		{r.Crystal, cost.Crystal},
		{r.Sulfur, cost.Sulfur},
	} {
		have, perUnit := dim[0], dim[1]
		if perUnit <= 0 {
			continue
		}
		n := have / perUnit
		if n < 0 {
			n = 0
		}
		if limit < 0 || n < limit {
			limit = n
		}
	}
	return limit
}

func clampPositive(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
