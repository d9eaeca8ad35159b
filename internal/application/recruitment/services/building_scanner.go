package services

import (
	"context"
	"fmt"

	"github.com/avelardi/polisbot/internal/application/common"
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
)

// ScanResult splits the discovered buildings into ready-to-use and busy
// sets so the caller can offer the wait-or-ignore choice.
type ScanResult struct {
	Idle []*recruitment.Building
	Busy []*recruitment.Building
	// Failed counts buildings whose detail fetch failed; they are logged
	// and excluded, never fatal.
	Failed int
}

// BuildingScanner discovers every barracks or shipyard across the player's
// cities and enriches each with its cost table, busy state and a fresh
// action token.
type BuildingScanner struct {
	game common.GameClient
}

func NewBuildingScanner(game common.GameClient) *BuildingScanner {
	return &BuildingScanner{game: game}
}

// ListCityRefs returns the player's cities once so callers can build the
// exclusion prompt without a second round trip.
func (s *BuildingScanner) ListCityRefs(ctx context.Context) ([]common.CityRef, error) {
	cities, err := s.game.ListCities(ctx)
	if err != nil {
		return nil, shared.NewTransportError("listing cities", err)
	}
	return cities, nil
}

// Scan walks the given cities, collects buildings of the requested kind and
// fetches each one's detail. Cities listed in excluded are skipped.
func (s *BuildingScanner) Scan(
	ctx context.Context,
	cities []common.CityRef,
	kind recruitment.BuildingKind,
	excluded map[int]bool,
) (*ScanResult, error) {
	logger := common.LoggerFromContext(ctx)
	result := &ScanResult{}
	found := 0

	for _, city := range cities {
		if excluded[city.ID] {
			continue
		}

		refs, err := s.game.ListBuildings(ctx, city.ID)
		if err != nil {
			logger.Log("WARNING", "Skipping city after building list failure", map[string]interface{}{
				"city_id": city.ID,
				"city":    city.Name,
				"error":   err.Error(),
			})
			continue
		}

		for _, ref := range refs {
			if ref.Kind != kind {
				continue
			}
			found++

			building, err := s.game.GetBuildingDetail(ctx, ref)
			if err != nil {
				result.Failed++
				logger.Log("WARNING", "Skipping building after detail failure", map[string]interface{}{
					"city":     ref.CityName,
					"position": ref.Position,
					"error":    err.Error(),
				})
				continue
			}
			if len(building.Units) == 0 {
				result.Failed++
				logger.Log("WARNING", "Building response had no cost table", map[string]interface{}{
					"city":     ref.CityName,
					"position": ref.Position,
				})
				continue
			}

			if building.IsBusy {
				result.Busy = append(result.Busy, building)
			} else {
				result.Idle = append(result.Idle, building)
			}
		}
	}

	if found == 0 {
		return nil, shared.NewDataError(fmt.Sprintf("no %s found in any city", kind))
	}
	return result, nil
}

// FetchGrowthRates reads each city's citizen growth once per run. Rates
// vary slowly, so one fetch serves all estimates within the run. A failed
// or unparseable read yields rate 0, which downstream treats as unknown.
func (s *BuildingScanner) FetchGrowthRates(ctx context.Context, cityIDs []int) map[int]float64 {
	logger := common.LoggerFromContext(ctx)
	rates := make(map[int]float64, len(cityIDs))
	for _, cityID := range cityIDs {
		rate, err := s.game.GetGrowthRate(ctx, cityID)
		if err != nil {
			logger.Log("WARNING", "Growth rate unavailable", map[string]interface{}{
				"city_id": cityID,
				"error":   err.Error(),
			})
			rate = 0
		}
		rates[cityID] = rate
	}
	return rates
}
