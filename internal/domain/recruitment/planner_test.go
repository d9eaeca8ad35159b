package recruitment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
)

const hoplite = 303

func testBuilding(cityID, position, buildSecs int) *recruitment.Building {
	return &recruitment.Building{
		CityID:   cityID,
		CityName: "Polis",
		Position: position,
		Kind:     recruitment.KindBarracks,
		Level:    10,
		Units: map[int]recruitment.UnitType{
			hoplite: {
				GameID:    hoplite,
				Name:      "Hoplite",
				Cost:      shared.ResourceSet{Citizens: 1, Wood: 27, Sulfur: 30},
				BuildSecs: buildSecs,
			},
		},
	}
}

func TestPlan_SpeedProportionalSplit(t *testing.T) {
	// Arrange: 10s and 20s build times give speeds 0.1 and 0.05.
	fast := testBuilding(1, 4, 10)
	slow := testBuilding(1, 7, 20)
	order := recruitment.Order{hoplite: {Name: "Hoplite", Quantity: 100}}

	// Act
	dist, err := recruitment.Plan([]*recruitment.Building{fast, slow}, order, recruitment.DefaultPlannerConfig())

	// Assert: floor split on all but the last, which absorbs the rounding.
	require.NoError(t, err)
	assert.Equal(t, 66, fast.Assignments[hoplite])
	assert.Equal(t, 34, slow.Assignments[hoplite])
	assert.Empty(t, dist.Unplaced)
}

func TestPlan_AssignmentsSumToRequested(t *testing.T) {
	// Arrange
	buildings := []*recruitment.Building{
		testBuilding(1, 4, 37),
		testBuilding(2, 6, 41),
		testBuilding(3, 9, 53),
	}
	order := recruitment.Order{hoplite: {Name: "Hoplite", Quantity: 997}}

	// Act
	_, err := recruitment.Plan(buildings, order, recruitment.DefaultPlannerConfig())

	// Assert
	require.NoError(t, err)
	total := 0
	for _, b := range buildings {
		total += b.Assignments[hoplite]
	}
	assert.Equal(t, 997, total)
}

func TestPlan_NeverAssignsIncapableBuilding(t *testing.T) {
	// Arrange: second building sells only swordsmen.
	capable := testBuilding(1, 4, 10)
	incapable := testBuilding(2, 4, 10)
	incapable.Units = map[int]recruitment.UnitType{
		302: {GameID: 302, Name: "Swordsman", BuildSecs: 8},
	}
	order := recruitment.Order{hoplite: {Name: "Hoplite", Quantity: 50}}

	// Act
	_, err := recruitment.Plan([]*recruitment.Building{capable, incapable}, order, recruitment.DefaultPlannerConfig())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 50, capable.Assignments[hoplite])
	assert.NotContains(t, incapable.Assignments, hoplite)
}

func TestPlan_UnplacedUnitIsReportedNotMasked(t *testing.T) {
	// Arrange: nobody can build catapults, hoplites still go through.
	b := testBuilding(1, 4, 10)
	order := recruitment.Order{
		hoplite: {Name: "Hoplite", Quantity: 10},
		306:     {Name: "Catapult", Quantity: 5},
	}

	// Act
	dist, err := recruitment.Plan([]*recruitment.Building{b}, order, recruitment.DefaultPlannerConfig())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int{306}, dist.Unplaced)
	assert.Equal(t, 10, dist.TotalAssigned())
}

func TestPlan_NoCapableBuildingAtAllIsHardStop(t *testing.T) {
	// Arrange
	b := testBuilding(1, 4, 10)
	order := recruitment.Order{306: {Name: "Catapult", Quantity: 5}}

	// Act
	dist, err := recruitment.Plan([]*recruitment.Building{b}, order, recruitment.DefaultPlannerConfig())

	// Assert
	assert.Error(t, err)
	assert.Nil(t, dist)
}

func TestPlan_Deterministic(t *testing.T) {
	// Arrange
	mk := func() []*recruitment.Building {
		return []*recruitment.Building{
			testBuilding(1, 4, 12),
			testBuilding(2, 5, 19),
			testBuilding(3, 6, 31),
		}
	}
	order := recruitment.Order{hoplite: {Name: "Hoplite", Quantity: 500}}

	// Act
	first := mk()
	second := mk()
	_, err1 := recruitment.Plan(first, order, recruitment.DefaultPlannerConfig())
	_, err2 := recruitment.Plan(second, order, recruitment.DefaultPlannerConfig())

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	for i := range first {
		assert.Equal(t, first[i].Assignments, second[i].Assignments)
	}
}

func TestBalance_ShiftsWorkAwayFromBusyBuilding(t *testing.T) {
	// Arrange: equal speeds, but one building still has an hour of queue.
	busy := testBuilding(1, 4, 60)
	busy.IsBusy = true
	busy.QueueRemaining = 3600
	idle := testBuilding(2, 4, 60)
	order := recruitment.Order{hoplite: {Name: "Hoplite", Quantity: 100}}
	cfg := recruitment.DefaultPlannerConfig()

	// Act
	_, err := recruitment.Plan([]*recruitment.Building{busy, idle}, order, cfg)

	// Assert: the idle building ends up with more work and the spread is
	// inside tolerance.
	require.NoError(t, err)
	assert.Greater(t, idle.Assignments[hoplite], busy.Assignments[hoplite])
	assert.Equal(t, 100, busy.Assignments[hoplite]+idle.Assignments[hoplite])

	skew := busy.EstimatedTime(cfg.OrderOverheadSecs) - idle.EstimatedTime(cfg.OrderOverheadSecs)
	if skew < 0 {
		skew = -skew
	}
	assert.LessOrEqual(t, skew, cfg.SkewToleranceSecs)
}

func TestBalance_StopsAtFixedPointWithoutOverlap(t *testing.T) {
	// Arrange: wildly skewed times but no shared unit type to move.
	slow := testBuilding(1, 4, 1000)
	fast := testBuilding(2, 4, 10)
	fast.Units = map[int]recruitment.UnitType{
		302: {GameID: 302, Name: "Swordsman", BuildSecs: 10},
	}
	order := recruitment.Order{
		hoplite: {Name: "Hoplite", Quantity: 100},
		302:     {Name: "Swordsman", Quantity: 5},
	}

	// Act
	_, err := recruitment.Plan([]*recruitment.Building{slow, fast}, order, recruitment.DefaultPlannerConfig())

	// Assert: nothing to move, the split stays as allocated.
	require.NoError(t, err)
	assert.Equal(t, 100, slow.Assignments[hoplite])
	assert.Equal(t, 5, fast.Assignments[302])
}

func TestBalance_LeavesSmallAssignmentsAlone(t *testing.T) {
	// Arrange: the slow building holds no more than the move chunk, so the
	// balancer cannot take from it.
	slow := testBuilding(1, 4, 10000)
	fast := testBuilding(2, 4, 10)
	order := recruitment.Order{hoplite: {Name: "Hoplite", Quantity: 10}}
	cfg := recruitment.DefaultPlannerConfig()

	// Act
	_, err := recruitment.Plan([]*recruitment.Building{slow, fast}, order, cfg)

	// Assert: whatever landed on the slow building (at most the chunk size)
	// stays there.
	require.NoError(t, err)
	assert.Equal(t, 10, slow.Assignments[hoplite]+fast.Assignments[hoplite])
	assert.LessOrEqual(t, slow.Assignments[hoplite], cfg.MoveChunk)
}

func TestPlan_ZeroBuildTimeFallsBackToUnitSpeed(t *testing.T) {
	// Arrange: a degenerate cost table with no build time must not divide
	// by zero; it is treated as speed 1.0.
	weird := testBuilding(1, 4, 0)
	normal := testBuilding(2, 4, 1)
	order := recruitment.Order{hoplite: {Name: "Hoplite", Quantity: 10}}

	// Act
	_, err := recruitment.Plan([]*recruitment.Building{weird, normal}, order, recruitment.DefaultPlannerConfig())

	// Assert: equal speeds, even split.
	require.NoError(t, err)
	assert.Equal(t, 5, weird.Assignments[hoplite])
	assert.Equal(t, 5, normal.Assignments[hoplite])
}
