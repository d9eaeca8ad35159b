package commands

import (
	"context"
	"fmt"

	"github.com/avelardi/polisbot/internal/application/common"
	"github.com/avelardi/polisbot/internal/application/recruitment/types"
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
)

// ExecuteRecruitmentHandler is immediate mode: every building with a
// non-empty assignment gets one full order, submitted independently, so a
// single failure never blocks the rest.
type ExecuteRecruitmentHandler struct {
	game     common.GameClient
	orderLog common.OrderLog
	clock    shared.Clock
}

func NewExecuteRecruitmentHandler(game common.GameClient, orderLog common.OrderLog, clock shared.Clock) *ExecuteRecruitmentHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ExecuteRecruitmentHandler{game: game, orderLog: orderLog, clock: clock}
}

// Handle executes the immediate recruitment command
func (h *ExecuteRecruitmentHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*types.ExecuteRecruitmentCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	logger := common.LoggerFromContext(ctx)
	response := &types.ExecuteRecruitmentResponse{AllSucceeded: true}

	for _, b := range cmd.Distribution.Buildings {
		if len(b.Assignments) == 0 {
			continue
		}

		result := types.BuildingResult{
			CityID:   b.CityID,
			CityName: b.CityName,
			Position: b.Position,
			Units:    b.TotalAssigned(),
		}

		err := submitOrder(ctx, h.game, b, b.Assignments)
		if err != nil {
			result.Error = err.Error()
			response.AllSucceeded = false
			logger.Log("ERROR", "Recruitment order failed", map[string]interface{}{
				"city":     b.CityName,
				"position": b.Position,
				"error":    err.Error(),
			})
		} else {
			result.Succeeded = true
			logger.Log("INFO", "Recruitment order placed", map[string]interface{}{
				"city":  b.CityName,
				"units": result.Units,
			})
			recordOrders(ctx, h.orderLog, h.clock, cmd.RunID, b, b.Assignments)
		}
		response.Results = append(response.Results, result)
	}

	return response, nil
}

// ensureToken returns a usable action token for the building, refetching
// the building detail when the cached one was already spent or never set.
func ensureToken(ctx context.Context, game common.GameClient, b *recruitment.Building) (string, error) {
	if b.ActionToken != "" && b.TokenFresh {
		return b.ActionToken, nil
	}

	fresh, err := game.GetBuildingDetail(ctx, common.BuildingRef{
		CityID:   b.CityID,
		CityName: b.CityName,
		Position: b.Position,
		Kind:     b.Kind,
		Level:    b.Level,
	})
	if err != nil {
		return "", shared.NewTransportError("refreshing action token", err)
	}
	b.ActionToken = fresh.ActionToken
	b.TokenFresh = fresh.ActionToken != ""
	b.IsBusy = fresh.IsBusy
	b.QueueRemaining = fresh.QueueRemaining

	if b.ActionToken == "" {
		return "", shared.NewTokenError(b.CityID, b.Position)
	}
	return b.ActionToken, nil
}

// submitOrder places one order at the building, spending its token.
func submitOrder(ctx context.Context, game common.GameClient, b *recruitment.Building, units map[int]int) error {
	token, err := ensureToken(ctx, game, b)
	if err != nil {
		return err
	}
	if err := game.SubmitOrder(ctx, b.CityID, b.Position, token, units); err != nil {
		return shared.NewTransportError("submitting order", err)
	}
	b.TokenFresh = false
	return nil
}

// recordOrders appends the submitted quantities to the audit log. Logging
// failures are reported but never fail the submission that already
// happened.
func recordOrders(
	ctx context.Context,
	orderLog common.OrderLog,
	clock shared.Clock,
	runID string,
	b *recruitment.Building,
	units map[int]int,
) {
	if orderLog == nil {
		return
	}
	now := clock.Now()
	entries := make([]common.SubmittedOrder, 0, len(units))
	for unitID, qty := range units {
		entries = append(entries, common.SubmittedOrder{
			RunID:       runID,
			CityID:      b.CityID,
			CityName:    b.CityName,
			Position:    b.Position,
			UnitID:      unitID,
			Quantity:    qty,
			SubmittedAt: now,
		})
	}
	if err := orderLog.Record(ctx, entries); err != nil {
		common.LoggerFromContext(ctx).Log("WARNING", "Order log write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
