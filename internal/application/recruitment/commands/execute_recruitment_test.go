package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelardi/polisbot/internal/application/recruitment/commands"
	"github.com/avelardi/polisbot/internal/application/recruitment/types"
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
	"github.com/avelardi/polisbot/test/helpers"
)

const spearman = 301

func newBuilding(cityID, position int, assignments map[int]int) *recruitment.Building {
	return &recruitment.Building{
		CityID:   cityID,
		CityName: "Polis",
		Position: position,
		Kind:     recruitment.KindBarracks,
		Level:    12,
		Units: map[int]recruitment.UnitType{
			spearman: {GameID: spearman, Name: "Spearman", Cost: shared.ResourceSet{Citizens: 1, Wood: 10}, BuildSecs: 60},
		},
		Assignments: assignments,
	}
}

func TestExecute_SubmitsEveryBuildingIndependently(t *testing.T) {
	// Arrange: the middle building rejects its order.
	game := helpers.NewMockGameClient()
	b1 := newBuilding(1, 4, map[int]int{spearman: 10})
	b2 := newBuilding(1, 7, map[int]int{spearman: 20})
	b3 := newBuilding(2, 4, map[int]int{spearman: 5})
	for _, b := range []*recruitment.Building{b1, b2, b3} {
		game.SetDetail(b)
	}
	game.SubmitErrs["1:7"] = errors.New("order rejected")

	orderLog := &helpers.MemoryOrderLog{}
	handler := commands.NewExecuteRecruitmentHandler(game, orderLog, shared.NewMockClock(time.Time{}))

	// Act
	resp, err := handler.Handle(context.Background(), &types.ExecuteRecruitmentCommand{
		Distribution: &recruitment.Distribution{Buildings: []*recruitment.Building{b1, b2, b3}},
		RunID:        "run-1",
	})

	// Assert: the failure neither aborts the run nor taints the others.
	require.NoError(t, err)
	response := resp.(*types.ExecuteRecruitmentResponse)
	assert.False(t, response.AllSucceeded)
	require.Len(t, response.Results, 3)
	assert.True(t, response.Results[0].Succeeded)
	assert.False(t, response.Results[1].Succeeded)
	assert.Contains(t, response.Results[1].Error, "order rejected")
	assert.True(t, response.Results[2].Succeeded)

	assert.Equal(t, 15, game.TotalSubmitted())
	assert.Equal(t, 15, orderLog.TotalLogged())
}

func TestExecute_RefreshesStaleToken(t *testing.T) {
	// Arrange: the cached token was already spent.
	game := helpers.NewMockGameClient()
	b := newBuilding(1, 4, map[int]int{spearman: 10})
	b.ActionToken = "spent"
	b.TokenFresh = false
	game.SetDetail(b)

	handler := commands.NewExecuteRecruitmentHandler(game, nil, nil)

	// Act
	_, err := handler.Handle(context.Background(), &types.ExecuteRecruitmentCommand{
		Distribution: &recruitment.Distribution{Buildings: []*recruitment.Building{b}},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, game.FetchCount["detail:1:4"])
	require.Len(t, game.Submissions, 1)
	assert.Equal(t, "token-1", game.Submissions[0].Token)
	assert.False(t, b.TokenFresh, "a submitted token is spent")
}

func TestExecute_ReusesFreshTokenWithoutRefetch(t *testing.T) {
	// Arrange
	game := helpers.NewMockGameClient()
	b := newBuilding(1, 4, map[int]int{spearman: 10})
	b.ActionToken = "cached"
	b.TokenFresh = true

	handler := commands.NewExecuteRecruitmentHandler(game, nil, nil)

	// Act
	_, err := handler.Handle(context.Background(), &types.ExecuteRecruitmentCommand{
		Distribution: &recruitment.Distribution{Buildings: []*recruitment.Building{b}},
	})

	// Assert
	require.NoError(t, err)
	assert.Zero(t, game.FetchCount["detail:1:4"])
	require.Len(t, game.Submissions, 1)
	assert.Equal(t, "cached", game.Submissions[0].Token)
}

func TestExecute_SkipsBuildingsWithoutAssignments(t *testing.T) {
	// Arrange
	game := helpers.NewMockGameClient()
	b := newBuilding(1, 4, nil)

	handler := commands.NewExecuteRecruitmentHandler(game, nil, nil)

	// Act
	resp, err := handler.Handle(context.Background(), &types.ExecuteRecruitmentCommand{
		Distribution: &recruitment.Distribution{Buildings: []*recruitment.Building{b}},
	})

	// Assert
	require.NoError(t, err)
	response := resp.(*types.ExecuteRecruitmentResponse)
	assert.True(t, response.AllSucceeded)
	assert.Empty(t, response.Results)
	assert.Empty(t, game.Submissions)
}
