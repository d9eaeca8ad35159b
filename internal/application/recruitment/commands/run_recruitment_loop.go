package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/avelardi/polisbot/internal/application/common"
	"github.com/avelardi/polisbot/internal/application/recruitment/types"
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
	"github.com/avelardi/polisbot/pkg/utils"
)

// LoopConfig is the resumable loop's policy: the partial-commit threshold
// and the two poll intervals.
type LoopConfig struct {
	// CommitThreshold is the fraction of a building's remaining order that
	// must be affordable before a partial submission happens.
	CommitThreshold float64

	// ShortPoll is the pause after a cycle that placed at least one order.
	ShortPoll time.Duration

	// LongPoll is the backoff when no building met its threshold.
	LongPoll time.Duration
}

// DefaultLoopConfig returns the stock policy: 20% threshold, 1 minute
// short poll, 5 minute backoff.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		CommitThreshold: recruitment.CommitThresholdDefault,
		ShortPoll:       time.Minute,
		LongPoll:        5 * time.Minute,
	}
}

// RunRecruitmentLoopHandler drives resumable execution:
//
//  1. When nothing remains, notify completion and stop.
//  2. Fetch one snapshot per distinct involved city.
//  3. Busy buildings are re-polled; still busy means skipped this cycle.
//  4. Per non-busy building, greedily cost the remaining unit types against
//     a working copy of the city pool.
//  5. At or above the commit threshold: decrement the shared city pool
//     (buildings earlier in iteration order are served first), submit the
//     partial order, deduct remaining, mark the building busy.
//  6. Below it: skip the building, no trivial orders.
//  7. Nothing committed: sleep the long interval; otherwise the short one.
//
// The loop has no overall timeout. It runs until everything is placed or
// the context is cancelled, which is checked before every fetch batch and
// every sleep.
type RunRecruitmentLoopHandler struct {
	game     common.GameClient
	notifier common.Notifier
	orderLog common.OrderLog
	clock    shared.Clock
	cfg      LoopConfig
}

func NewRunRecruitmentLoopHandler(
	game common.GameClient,
	notifier common.Notifier,
	orderLog common.OrderLog,
	clock shared.Clock,
	cfg LoopConfig,
) *RunRecruitmentLoopHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if cfg.CommitThreshold <= 0 {
		cfg = DefaultLoopConfig()
	}
	return &RunRecruitmentLoopHandler{
		game:     game,
		notifier: notifier,
		orderLog: orderLog,
		clock:    clock,
		cfg:      cfg,
	}
}

// Handle executes the resumable loop command
func (h *RunRecruitmentLoopHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*types.RunRecruitmentLoopCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	logger := common.LoggerFromContext(ctx)
	response := &types.RunRecruitmentLoopResponse{}

	for _, b := range cmd.Distribution.Buildings {
		b.InitRemaining()
	}

	// Growth rates change slowly; one fetch at loop start serves every
	// status estimate for the whole run.
	cityIDs := cmd.Distribution.InvolvedCityIDs()
	growthRates := make(map[int]float64, len(cityIDs))
	for _, cityID := range cityIDs {
		rate, err := h.game.GetGrowthRate(ctx, cityID)
		if err != nil {
			rate = 0
		}
		growthRates[cityID] = rate
	}

	for {
		if ctx.Err() != nil {
			return response, ctx.Err()
		}
		response.Cycles++

		totalRemaining, citizensNeeded := remainingTotals(cmd.Distribution)
		if totalRemaining <= 0 {
			response.Completed = true
			h.notify(ctx, "Auto recruitment completed successfully")
			logger.Log("INFO", "Recruitment complete", map[string]interface{}{
				"cycles": response.Cycles,
			})
			return response, nil
		}

		pools, citizensAvailable, err := h.fetchCityPools(ctx, cmd.Distribution)
		if err != nil {
			// Snapshot batch failed (likely a dropped session). Back off
			// and retry rather than abandoning the run.
			logger.Log("WARNING", "Snapshot fetch failed, backing off", map[string]interface{}{
				"error": err.Error(),
			})
			h.clock.Sleep(ctx, h.cfg.LongPoll)
			continue
		}

		waitHint := citizenWaitHint(citizensNeeded, citizensAvailable, growthRates)

		committed := 0
		for _, b := range cmd.Distribution.Buildings {
			if b.TotalRemaining() == 0 {
				continue
			}

			if b.IsBusy && !h.refreshBusyState(ctx, b) {
				continue
			}

			pool := pools[b.CityID]
			threshold := recruitment.CommitThreshold(b.TotalRemaining(), h.cfg.CommitThreshold)
			plan, affordable, _ := recruitment.AffordablePlan(b, pool)
			if affordable < threshold {
				continue
			}

			if err := submitOrder(ctx, h.game, b, plan); err != nil {
				logger.Log("WARNING", "Partial order failed, building skipped this cycle", map[string]interface{}{
					"city":     b.CityName,
					"position": b.Position,
					"error":    err.Error(),
				})
				continue
			}

			// The shared pool shrinks only once the order went through, so
			// later buildings in the same city this cycle see what is
			// actually left. Iteration order is the contention tiebreak.
			pools[b.CityID] = pool.Sub(b.RequiredResources(plan))
			b.DeductRemaining(plan)
			b.IsBusy = true
			committed += affordable
			response.UnitsSubmitted += affordable

			logger.Log("INFO", "Partial order placed", map[string]interface{}{
				"city":      b.CityName,
				"level":     b.Level,
				"units":     affordable,
				"threshold": threshold,
			})
			recordOrders(ctx, h.orderLog, h.clock, cmd.RunID, b, plan)
		}

		if ctx.Err() != nil {
			return response, ctx.Err()
		}

		if committed == 0 {
			logger.Log("INFO", h.stalledStatus(cmd.Distribution, totalRemaining, waitHint), nil)
			h.clock.Sleep(ctx, h.cfg.LongPoll)
		} else {
			status := fmt.Sprintf("Recruiting %d/%d units", committed, totalRemaining)
			if waitHint != "" && totalRemaining > committed {
				status += fmt.Sprintf(" (~%s for citizens)", waitHint)
			}
			logger.Log("INFO", status, nil)
			h.clock.Sleep(ctx, h.cfg.ShortPoll)
		}
	}
}

// fetchCityPools reads one fresh snapshot per distinct city with
// outstanding work.
func (h *RunRecruitmentLoopHandler) fetchCityPools(
	ctx context.Context,
	dist *recruitment.Distribution,
) (map[int]shared.ResourceSet, int, error) {
	pools := make(map[int]shared.ResourceSet)
	citizens := 0
	for _, b := range dist.Buildings {
		if b.TotalRemaining() == 0 {
			continue
		}
		if _, done := pools[b.CityID]; done {
			continue
		}
		snapshot, err := h.game.GetCitySnapshot(ctx, b.CityID)
		if err != nil {
			return nil, 0, err
		}
		pools[b.CityID] = snapshot
		citizens += snapshot.Citizens
	}
	return pools, citizens, nil
}

// refreshBusyState re-polls a busy building's queue. Returns true when the
// building is free to take orders this cycle. A failed poll leaves the
// building marked busy and skipped.
func (h *RunRecruitmentLoopHandler) refreshBusyState(ctx context.Context, b *recruitment.Building) bool {
	fresh, err := h.game.GetBuildingDetail(ctx, common.BuildingRef{
		CityID:   b.CityID,
		CityName: b.CityName,
		Position: b.Position,
		Kind:     b.Kind,
		Level:    b.Level,
	})
	if err != nil {
		return false
	}
	b.IsBusy = fresh.IsBusy
	b.QueueRemaining = fresh.QueueRemaining
	if fresh.ActionToken != "" {
		b.ActionToken = fresh.ActionToken
		b.TokenFresh = true
	}
	return !b.IsBusy
}

func (h *RunRecruitmentLoopHandler) stalledStatus(dist *recruitment.Distribution, remaining int, waitHint string) string {
	anyBusy := false
	for _, b := range dist.Buildings {
		if b.TotalRemaining() > 0 && b.IsBusy {
			anyBusy = true
			break
		}
	}
	status := fmt.Sprintf("Waiting for recruitment threshold... %d units remaining", remaining)
	if anyBusy {
		status = fmt.Sprintf("Waiting for queues... %d units remaining", remaining)
	}
	if waitHint != "" {
		status += fmt.Sprintf(" (~%s for citizens)", waitHint)
	}
	return status
}

func (h *RunRecruitmentLoopHandler) notify(ctx context.Context, message string) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.Notify(ctx, message); err != nil {
		common.LoggerFromContext(ctx).Log("WARNING", "Notification failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// remainingTotals sums outstanding units and the citizens they still cost.
func remainingTotals(dist *recruitment.Distribution) (units, citizens int) {
	for _, b := range dist.Buildings {
		for unitID, qty := range b.Remaining {
			units += qty
			if u, ok := b.Units[unitID]; ok {
				citizens += u.Cost.Citizens * qty
			}
		}
	}
	return units, citizens
}

// citizenWaitHint estimates how long the outstanding citizen deficit takes
// to regrow across all involved cities, formatted for status lines. Empty
// when there is no deficit or no growth data.
func citizenWaitHint(needed, available int, growthRates map[int]float64) string {
	deficit := needed - available
	if deficit <= 0 {
		return ""
	}
	totalRate := 0.0
	for _, rate := range growthRates {
		totalRate += rate
	}
	if totalRate <= 0 {
		return ""
	}
	return utils.FormatDuration(int(float64(deficit) / totalRate * 3600))
}
