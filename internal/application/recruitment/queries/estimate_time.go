package queries

import (
	"context"
	"fmt"

	"github.com/avelardi/polisbot/internal/application/common"
	"github.com/avelardi/polisbot/internal/application/recruitment/types"
)

// CitizenWaitFactorDefault discounts the citizen wait in the total
// estimate: with the partial-commit threshold, recruitment starts once
// roughly 20% of the deficit remains, so only ~80% of the regrowth time
// actually gates completion. Heuristic policy, kept overridable.
const CitizenWaitFactorDefault = 0.8

// EstimateTimeHandler projects per-city and overall completion times from
// a distribution, audited availability and growth rates. Pure computation;
// no network.
type EstimateTimeHandler struct {
	citizenWaitFactor float64
	orderOverheadSecs int
}

func NewEstimateTimeHandler(citizenWaitFactor float64, orderOverheadSecs int) *EstimateTimeHandler {
	if citizenWaitFactor <= 0 {
		citizenWaitFactor = CitizenWaitFactorDefault
	}
	return &EstimateTimeHandler{
		citizenWaitFactor: citizenWaitFactor,
		orderOverheadSecs: orderOverheadSecs,
	}
}

// Handle executes the estimate query
func (h *EstimateTimeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*types.EstimateTimeQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	estimate := &types.TimeEstimate{
		ByCity: make(map[int]*types.CityEstimate),
	}

	for _, b := range query.Distribution.Buildings {
		if len(b.Assignments) == 0 {
			continue
		}

		city, ok := estimate.ByCity[b.CityID]
		if !ok {
			city = &types.CityEstimate{
				CityName:          b.CityName,
				CitizensAvailable: query.Available[b.CityID].Citizens,
				GrowthRate:        query.GrowthRates[b.CityID],
			}
			estimate.ByCity[b.CityID] = city
		}

		for unitID, qty := range b.Assignments {
			if u, ok := b.Units[unitID]; ok {
				city.CitizensNeeded += u.Cost.Citizens * qty
				city.BuildTimeSecs += float64(u.BuildSecs * qty)
			}
		}
		city.BuildTimeSecs += float64(h.orderOverheadSecs * len(b.Assignments))
	}

	for cityID, city := range estimate.ByCity {
		deficit := city.CitizensNeeded - city.CitizensAvailable
		switch {
		case deficit <= 0:
			city.CitizenWaitSecs = 0
		case city.GrowthRate > 0:
			city.CitizenWaitSecs = float64(deficit) / city.GrowthRate * 3600
		default:
			// Deficit with no growth data: the wait is unknowable and must
			// not be reported as zero.
			city.Unknown = true
		}

		if city.Unknown {
			// A single unknowable city wait makes the overall figure
			// unknown, and that city gates completion.
			estimate.Unknown = true
			estimate.BottleneckCityID = cityID
			continue
		}

		city.TotalSecs = h.citizenWaitFactor*city.CitizenWaitSecs + city.BuildTimeSecs
		if !estimate.Unknown && city.TotalSecs > estimate.TotalSecs {
			estimate.TotalSecs = city.TotalSecs
			estimate.BottleneckCityID = cityID
		}
	}

	if estimate.Unknown {
		estimate.TotalSecs = 0
	}

	return estimate, nil
}
