package queries

import (
	"context"
	"fmt"

	"github.com/avelardi/polisbot/internal/application/common"
	"github.com/avelardi/polisbot/internal/application/recruitment/types"
	"github.com/avelardi/polisbot/internal/domain/shared"
)

// AuditResourcesHandler aggregates a distribution's per-city requirements
// and compares them against one fresh snapshot per city.
type AuditResourcesHandler struct {
	game common.GameClient
}

func NewAuditResourcesHandler(game common.GameClient) *AuditResourcesHandler {
	return &AuditResourcesHandler{game: game}
}

// Handle executes the audit query
func (h *AuditResourcesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*types.AuditResourcesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	result := &types.AuditResult{
		Available:        make(map[int]shared.ResourceSet),
		MissingResources: make(map[int]shared.ResourceSet),
		MissingCitizens:  make(map[int]int),
		CanFulfill:       true,
	}

	// Sum requirements city by city before touching the network.
	required := make(map[int]shared.ResourceSet)
	for _, b := range query.Distribution.Buildings {
		if len(b.Assignments) == 0 {
			continue
		}
		required[b.CityID] = required[b.CityID].Add(b.RequiredResources(b.Assignments))
	}

	logger := common.LoggerFromContext(ctx)

	for _, cityID := range query.Distribution.InvolvedCityIDs() {
		need, ok := required[cityID]
		if !ok {
			continue
		}

		snapshot, err := h.game.GetCitySnapshot(ctx, cityID)
		if err != nil {
			return nil, shared.NewTransportError(
				fmt.Sprintf("fetching snapshot for city %d", cityID), err)
		}
		result.Available[cityID] = snapshot

		missing := snapshot.Shortage(need)
		if missing.Citizens > 0 {
			result.MissingCitizens[cityID] = missing.Citizens
			result.CanFulfill = false
		}
		missing.Citizens = 0
		if !missing.IsZero() {
			result.MissingResources[cityID] = missing
			result.CanFulfill = false
		}
	}

	if !result.CanFulfill {
		logger.Log("INFO", "Resource audit found shortages", map[string]interface{}{
			"cities_short_on_resources": len(result.MissingResources),
			"cities_short_on_citizens":  len(result.MissingCitizens),
		})
	}

	return result, nil
}
