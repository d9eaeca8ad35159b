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
	"github.com/avelardi/polisbot/test/helpers"
)

const (
	hoplite = 303
	mortar  = 305
)

func plannedBuilding(cityID, position int, assignments map[int]int) *recruitment.Building {
	return &recruitment.Building{
		CityID:   cityID,
		CityName: "Polis",
		Position: position,
		Kind:     recruitment.KindBarracks,
		Units: map[int]recruitment.UnitType{
			hoplite: {GameID: hoplite, Cost: shared.ResourceSet{Citizens: 1, Wood: 27, Sulfur: 30}, BuildSecs: 70},
			mortar:  {GameID: mortar, Cost: shared.ResourceSet{Citizens: 5, Wood: 1250, Sulfur: 750}, BuildSecs: 7200},
		},
		Assignments: assignments,
	}
}

func TestAudit_AggregatesPerCityAndFetchesOnce(t *testing.T) {
	// Arrange: two buildings in city 1, one in city 2.
	game := helpers.NewMockGameClient()
	game.Snapshots[1] = []shared.ResourceSet{{Citizens: 1000, Wood: 10000, Sulfur: 10000}}
	game.Snapshots[2] = []shared.ResourceSet{{Citizens: 1000, Wood: 10000, Sulfur: 10000}}

	dist := &recruitment.Distribution{Buildings: []*recruitment.Building{
		plannedBuilding(1, 4, map[int]int{hoplite: 10}),
		plannedBuilding(1, 7, map[int]int{hoplite: 20}),
		plannedBuilding(2, 4, map[int]int{mortar: 2}),
	}}
	handler := queries.NewAuditResourcesHandler(game)

	// Act
	resp, err := handler.Handle(context.Background(), &types.AuditResourcesQuery{Distribution: dist})

	// Assert
	require.NoError(t, err)
	result := resp.(*types.AuditResult)
	assert.True(t, result.CanFulfill)
	assert.False(t, result.HasShortage())

	// One network read per distinct city, even with two buildings in city 1.
	assert.Equal(t, 1, game.FetchCount["snapshot:1"])
	assert.Equal(t, 1, game.FetchCount["snapshot:2"])
	assert.Len(t, result.Available, 2)
}

func TestAudit_ReportsOnlyPositiveShortages(t *testing.T) {
	// Arrange: city 1 is short 30 citizens and 350 sulfur for 30 hoplites,
	// wood is plentiful.
	game := helpers.NewMockGameClient()
	game.Snapshots[1] = []shared.ResourceSet{{Citizens: 0, Wood: 10000, Sulfur: 550}}

	dist := &recruitment.Distribution{Buildings: []*recruitment.Building{
		plannedBuilding(1, 4, map[int]int{hoplite: 30}),
	}}
	handler := queries.NewAuditResourcesHandler(game)

	// Act
	resp, err := handler.Handle(context.Background(), &types.AuditResourcesQuery{Distribution: dist})

	// Assert
	require.NoError(t, err)
	result := resp.(*types.AuditResult)
	assert.False(t, result.CanFulfill)
	assert.Equal(t, 30, result.MissingCitizens[1])
	assert.Equal(t, shared.ResourceSet{Sulfur: 350}, result.MissingResources[1])
}

func TestAudit_IgnoresBuildingsWithoutAssignments(t *testing.T) {
	// Arrange
	game := helpers.NewMockGameClient()
	game.Snapshots[1] = []shared.ResourceSet{{Citizens: 100, Wood: 1000, Sulfur: 1000}}

	dist := &recruitment.Distribution{Buildings: []*recruitment.Building{
		plannedBuilding(1, 4, map[int]int{hoplite: 5}),
		plannedBuilding(3, 4, nil), // planned empty, city 3 must not be fetched
	}}
	handler := queries.NewAuditResourcesHandler(game)

	// Act
	_, err := handler.Handle(context.Background(), &types.AuditResourcesQuery{Distribution: dist})

	// Assert
	require.NoError(t, err)
	assert.Zero(t, game.FetchCount["snapshot:3"])
}
