package recruitment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
)

func TestCommitThreshold(t *testing.T) {
	// 20% of the remaining units, floored, never below one.
	assert.Equal(t, 20, recruitment.CommitThreshold(100, 0.20))
	assert.Equal(t, 1, recruitment.CommitThreshold(7, 0.20)) // floor(1.4)
	assert.Equal(t, 1, recruitment.CommitThreshold(1, 0.20))
	assert.Equal(t, 1, recruitment.CommitThreshold(0, 0.20))
}

func TestAffordablePlan_LaterUnitTypesSeeReducedPool(t *testing.T) {
	// Arrange: two unit types competing for the same sulfur. Iteration is
	// by ascending unit id, so 301 drains the pool before 305 is costed.
	b := &recruitment.Building{
		CityID: 1, Position: 4,
		Units: map[int]recruitment.UnitType{
			301: {GameID: 301, Cost: shared.ResourceSet{Citizens: 1, Sulfur: 10}, BuildSecs: 10},
			305: {GameID: 305, Cost: shared.ResourceSet{Citizens: 5, Sulfur: 50}, BuildSecs: 60},
		},
		Assignments: map[int]int{301: 10, 305: 10},
	}
	b.InitRemaining()
	pool := shared.ResourceSet{Citizens: 100, Sulfur: 150}

	// Act
	plan, total, left := recruitment.AffordablePlan(b, pool)

	// Assert: 10 slingers cost 100 sulfur, leaving 50 for a single mortar.
	assert.Equal(t, map[int]int{301: 10, 305: 1}, plan)
	assert.Equal(t, 11, total)
	assert.Equal(t, shared.ResourceSet{Citizens: 85, Sulfur: 0}, left)
}

func TestAffordablePlan_CappedByRemainingNotPool(t *testing.T) {
	// Arrange: plenty of resources, only 3 units still owed.
	b := &recruitment.Building{
		CityID: 1, Position: 4,
		Units: map[int]recruitment.UnitType{
			301: {GameID: 301, Cost: shared.ResourceSet{Citizens: 1, Wood: 5}, BuildSecs: 10},
		},
		Assignments: map[int]int{301: 3},
	}
	b.InitRemaining()

	// Act
	plan, total, _ := recruitment.AffordablePlan(b, shared.ResourceSet{Citizens: 1000, Wood: 1000})

	// Assert
	assert.Equal(t, map[int]int{301: 3}, plan)
	assert.Equal(t, 3, total)
}

func TestAffordablePlan_NothingAffordable(t *testing.T) {
	// Arrange
	b := &recruitment.Building{
		CityID: 1, Position: 4,
		Units: map[int]recruitment.UnitType{
			301: {GameID: 301, Cost: shared.ResourceSet{Wood: 50}, BuildSecs: 10},
		},
		Assignments: map[int]int{301: 10},
	}
	b.InitRemaining()

	// Act
	plan, total, left := recruitment.AffordablePlan(b, shared.ResourceSet{Wood: 49})

	// Assert
	assert.Empty(t, plan)
	assert.Zero(t, total)
	assert.Equal(t, shared.ResourceSet{Wood: 49}, left)
}

func TestBuilding_DeductRemaining(t *testing.T) {
	// Arrange
	b := &recruitment.Building{
		Assignments: map[int]int{301: 10, 305: 4},
	}
	b.InitRemaining()

	// Act
	b.DeductRemaining(map[int]int{301: 6, 305: 4})

	// Assert: exhausted unit types disappear from the remaining map.
	assert.Equal(t, map[int]int{301: 4}, b.Remaining)
	assert.Equal(t, 4, b.TotalRemaining())
	// Planned assignments are untouched.
	assert.Equal(t, map[int]int{301: 10, 305: 4}, b.Assignments)
}
