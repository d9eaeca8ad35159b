package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelardi/polisbot/internal/application/recruitment/queries"
	"github.com/avelardi/polisbot/internal/application/recruitment/types"
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
)

func estimateFor(t *testing.T, dist *recruitment.Distribution, available map[int]shared.ResourceSet, rates map[int]float64) *types.TimeEstimate {
	t.Helper()
	handler := queries.NewEstimateTimeHandler(0.8, 10)
	resp, err := handler.Handle(context.Background(), &types.EstimateTimeQuery{
		Distribution: dist,
		Available:    available,
		GrowthRates:  rates,
	})
	require.NoError(t, err)
	return resp.(*types.TimeEstimate)
}

func TestEstimate_CitizenWaitFromGrowthRate(t *testing.T) {
	// Arrange: 80 citizens needed, 50 available, 10/hr growth. The deficit
	// of 30 regrows in 3 hours.
	b := plannedBuilding(1, 4, map[int]int{hoplite: 80})
	b.Units[hoplite] = recruitment.UnitType{GameID: hoplite, Cost: shared.ResourceSet{Citizens: 1}, BuildSecs: 60}
	dist := &recruitment.Distribution{Buildings: []*recruitment.Building{b}}

	// Act
	est := estimateFor(t, dist,
		map[int]shared.ResourceSet{1: {Citizens: 50}},
		map[int]float64{1: 10})

	// Assert
	city := est.ByCity[1]
	require.NotNil(t, city)
	assert.Equal(t, 80, city.CitizensNeeded)
	assert.Equal(t, 50, city.CitizensAvailable)
	assert.InDelta(t, 10800, city.CitizenWaitSecs, 0.001)

	// build: 80 units * 60s + one order line * 10s
	assert.InDelta(t, 4810, city.BuildTimeSecs, 0.001)
	// total: 0.8 * wait + build
	assert.InDelta(t, 0.8*10800+4810, city.TotalSecs, 0.001)
	assert.False(t, est.Unknown)
	assert.Equal(t, 1, est.BottleneckCityID)
}

func TestEstimate_NoDeficitNoWait(t *testing.T) {
	// Arrange
	b := plannedBuilding(1, 4, map[int]int{hoplite: 10})
	dist := &recruitment.Distribution{Buildings: []*recruitment.Building{b}}

	// Act
	est := estimateFor(t, dist,
		map[int]shared.ResourceSet{1: {Citizens: 500}},
		map[int]float64{1: 10})

	// Assert
	assert.Zero(t, est.ByCity[1].CitizenWaitSecs)
	assert.InDelta(t, est.ByCity[1].BuildTimeSecs, est.ByCity[1].TotalSecs, 0.001)
}

func TestEstimate_ZeroGrowthWithDeficitIsUnknown(t *testing.T) {
	// Arrange: deficit with no growth data must surface as unknown, never
	// as a zero wait.
	b := plannedBuilding(1, 4, map[int]int{hoplite: 80})
	dist := &recruitment.Distribution{Buildings: []*recruitment.Building{b}}

	// Act
	est := estimateFor(t, dist,
		map[int]shared.ResourceSet{1: {Citizens: 10}},
		map[int]float64{1: 0})

	// Assert
	assert.True(t, est.ByCity[1].Unknown)
	assert.True(t, est.Unknown)
	assert.Equal(t, 1, est.BottleneckCityID)
	assert.Zero(t, est.TotalSecs)
}

func TestEstimate_BottleneckIsSlowestCity(t *testing.T) {
	// Arrange: city 2 has a much slower building.
	fast := plannedBuilding(1, 4, map[int]int{hoplite: 10})
	slow := plannedBuilding(2, 4, map[int]int{mortar: 10})
	dist := &recruitment.Distribution{Buildings: []*recruitment.Building{fast, slow}}

	// Act
	est := estimateFor(t, dist,
		map[int]shared.ResourceSet{1: {Citizens: 1000}, 2: {Citizens: 1000}},
		map[int]float64{1: 10, 2: 10})

	// Assert
	assert.Equal(t, 2, est.BottleneckCityID)
	assert.InDelta(t, est.ByCity[2].TotalSecs, est.TotalSecs, 0.001)
}
