package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/avelardi/polisbot/internal/adapters/api"
	"github.com/avelardi/polisbot/internal/adapters/notify"
	"github.com/avelardi/polisbot/internal/adapters/persistence"
	"github.com/avelardi/polisbot/internal/application/common"
	"github.com/avelardi/polisbot/internal/application/recruitment/commands"
	"github.com/avelardi/polisbot/internal/application/recruitment/queries"
	"github.com/avelardi/polisbot/internal/application/recruitment/services"
	"github.com/avelardi/polisbot/internal/application/recruitment/types"
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
	"github.com/avelardi/polisbot/internal/infrastructure/config"
	"github.com/avelardi/polisbot/internal/infrastructure/database"
	"github.com/avelardi/polisbot/internal/infrastructure/pidfile"
	"github.com/avelardi/polisbot/pkg/utils"
)

// NewRecruitCommand creates the recruit command
func NewRecruitCommand() *cobra.Command {
	var (
		ships      bool
		background bool
		exclude    []int
		busyMode   string
	)

	cmd := &cobra.Command{
		Use:   "recruit",
		Short: "Plan and execute a recruitment run",
		Long: `Plan and execute a recruitment run across all of your cities.

The command walks you through an interactive session: pick land units or
ships, skip cities, enter quantities (blank for none, ' to abort), review
the planned split with shortages and time estimates, then confirm.

When every involved city can pay and no building is busy, all orders go
out at once. Otherwise the run keeps polling resources and feeds each
building partial batches once at least 20% of its remaining order is
affordable.

Examples:
  polisbot recruit
  polisbot recruit --ships --exclude 117344
  polisbot recruit --background --busy wait`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}
			if busyMode != "" && busyMode != busyWait && busyMode != busyIgnore {
				return fmt.Errorf("--busy must be %q or %q", busyWait, busyIgnore)
			}

			session := &recruitSession{
				cfg:        cfg,
				prompt:     newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
				out:        cmd.OutOrStdout(),
				ships:      ships,
				shipsSet:   cmd.Flags().Changed("ships"),
				background: background,
				excluded:   exclude,
				busyMode:   busyMode,
			}
			return session.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&ships, "ships", false, "Recruit ships at shipyards instead of land units")
	cmd.Flags().BoolVar(&background, "background", false, "Hold a PID lock and report completion via Telegram")
	cmd.Flags().IntSliceVar(&exclude, "exclude", nil, "City ids to skip (skips the interactive exclusion prompt)")
	cmd.Flags().StringVar(&busyMode, "busy", "", "How to treat busy buildings: wait or ignore (default: ask)")

	return cmd
}

const (
	busyWait   = "wait"
	busyIgnore = "ignore"
)

type recruitSession struct {
	cfg        *config.Config
	prompt     *prompter
	out        io.Writer
	ships      bool
	shipsSet   bool
	background bool
	excluded   []int
	busyMode   string
}

func (s *recruitSession) run(ctx context.Context) error {
	logger := NewStdoutLogger(s.out, s.cfg.Logging.Level)
	ctx = common.WithLogger(ctx, logger)

	game := api.NewPolisClient(&s.cfg.Game)
	defer func() {
		if err := game.Logout(context.Background()); err != nil {
			logger.Log("WARNING", "Logout failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	err := s.interact(ctx, game)
	if errors.Is(err, errAborted) {
		fmt.Fprintln(s.out, "Aborted, nothing was ordered.")
		return nil
	}
	return err
}

func (s *recruitSession) interact(ctx context.Context, game common.GameClient) error {
	kind, err := s.resolveKind()
	if err != nil {
		return err
	}

	scanner := services.NewBuildingScanner(game)
	cities, err := scanner.ListCityRefs(ctx)
	if err != nil {
		return err
	}
	if len(cities) == 0 {
		return fmt.Errorf("no cities found for this account")
	}

	excluded, err := s.resolveExclusions(cities)
	if err != nil {
		return err
	}

	scan, err := scanner.Scan(ctx, cities, kind, excluded)
	if err != nil {
		return err
	}

	buildings, mustLoop, err := s.resolveBusy(scan)
	if err != nil {
		return err
	}

	order, err := s.promptOrder(kind, buildings)
	if err != nil {
		return err
	}
	if order.TotalUnits() == 0 {
		fmt.Fprintln(s.out, "Nothing to recruit.")
		return nil
	}

	plannerCfg := recruitment.DefaultPlannerConfig()
	plannerCfg.SkewToleranceSecs = s.cfg.Recruitment.SkewToleranceSecs
	plannerCfg.OrderOverheadSecs = s.cfg.Recruitment.OrderOverheadSecs
	plannerCfg.MoveChunk = s.cfg.Recruitment.BalanceMoveChunk

	dist, err := recruitment.Plan(buildings, order, plannerCfg)
	if err != nil {
		return err
	}
	printDistribution(s.out, dist, order)

	db, err := database.NewConnection(&s.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open order log database: %w", err)
	}
	defer database.Close(db)

	notifier := notify.NewTelegramNotifier(&s.cfg.Telegram)
	mediator, err := s.buildMediator(game, notifier, persistence.NewGormOrderLog(db))
	if err != nil {
		return err
	}

	resp, err := mediator.Send(ctx, &types.AuditResourcesQuery{Distribution: dist})
	if err != nil {
		return err
	}
	audit := resp.(*types.AuditResult)
	printAudit(s.out, audit, dist)

	rates := scanner.FetchGrowthRates(ctx, dist.InvolvedCityIDs())
	resp, err = mediator.Send(ctx, &types.EstimateTimeQuery{
		Distribution: dist,
		Available:    audit.Available,
		GrowthRates:  rates,
	})
	if err != nil {
		return err
	}
	printEstimate(s.out, resp.(*types.TimeEstimate))

	ok, err := s.prompt.confirm("\nProceed with recruitment?", true)
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}

	runID := uuid.New().String()
	if audit.CanFulfill && !mustLoop {
		return s.executeImmediate(ctx, mediator, dist, runID)
	}
	return s.runLoop(ctx, mediator, notifier, dist, runID)
}

// resolveKind honors an explicit --ships flag and otherwise asks.
func (s *recruitSession) resolveKind() (recruitment.BuildingKind, error) {
	if s.shipsSet {
		if s.ships {
			return recruitment.KindShipyard, nil
		}
		return recruitment.KindBarracks, nil
	}

	choice, err := s.prompt.choose("What to recruit?", []string{
		"Land units (barracks)",
		"Ships (shipyards)",
	})
	if err != nil {
		return "", err
	}
	if choice == 1 {
		return recruitment.KindShipyard, nil
	}
	return recruitment.KindBarracks, nil
}

// resolveExclusions uses the --exclude flag when given, otherwise prompts.
func (s *recruitSession) resolveExclusions(cities []common.CityRef) (map[int]bool, error) {
	if len(s.excluded) > 0 {
		excluded := make(map[int]bool, len(s.excluded))
		for _, cityID := range s.excluded {
			excluded[cityID] = true
		}
		return excluded, nil
	}
	return s.prompt.excludeCities(cities)
}

// resolveBusy decides what happens to buildings with a running queue:
// include them (the loop re-polls until each frees up) or drop them. The
// second return value forces loop mode when busy buildings are kept.
func (s *recruitSession) resolveBusy(scan *services.ScanResult) ([]*recruitment.Building, bool, error) {
	if len(scan.Busy) == 0 {
		return scan.Idle, false, nil
	}

	mode := s.busyMode
	if mode == "" {
		fmt.Fprintf(s.out, "\n%d building(s) are currently recruiting:\n", len(scan.Busy))
		for _, b := range scan.Busy {
			fmt.Fprintf(s.out, "  %s (position %d), queue finishes in %s\n",
				b.CityName, b.Position, utils.FormatDuration(b.QueueRemaining))
		}
		choice, err := s.prompt.choose("Include them?", []string{
			"Wait for their queues (orders resume as each frees up)",
			"Ignore them for this run",
		})
		if err != nil {
			return nil, false, err
		}
		if choice == 0 {
			mode = busyWait
		} else {
			mode = busyIgnore
		}
	}

	if mode == busyIgnore {
		if len(scan.Idle) == 0 {
			return nil, false, fmt.Errorf("every capable building is busy")
		}
		return scan.Idle, false, nil
	}
	return append(scan.Idle, scan.Busy...), true, nil
}

// promptOrder asks a quantity for every unit type at least one selected
// building can produce, in catalog display order.
func (s *recruitSession) promptOrder(kind recruitment.BuildingKind, buildings []*recruitment.Building) (recruitment.Order, error) {
	what := "units"
	if kind == recruitment.KindShipyard {
		what = "ships"
	}
	fmt.Fprintf(s.out, "\nHow many %s to recruit? (blank for none, ' to abort)\n", what)

	order := recruitment.Order{}
	for _, entry := range recruitment.Catalog(kind) {
		buildable := false
		for _, b := range buildings {
			if b.CanBuild(entry.GameID) {
				buildable = true
				break
			}
		}
		if !buildable {
			continue
		}

		qty, err := s.prompt.quantity(entry.Name)
		if err != nil {
			return nil, err
		}
		if qty > 0 {
			order[entry.GameID] = recruitment.OrderLine{Name: entry.Name, Quantity: qty}
		}
	}
	return order, nil
}

func (s *recruitSession) buildMediator(game common.GameClient, notifier common.Notifier, orderLog common.OrderLog) (common.Mediator, error) {
	m := common.NewMediator()
	clock := shared.NewRealClock()

	loopCfg := commands.LoopConfig{
		CommitThreshold: s.cfg.Recruitment.CommitThreshold,
		ShortPoll:       time.Duration(s.cfg.Recruitment.ShortPollSecs) * time.Second,
		LongPoll:        time.Duration(s.cfg.Recruitment.LongPollSecs) * time.Second,
	}

	registrations := []error{
		common.RegisterHandler[*types.AuditResourcesQuery](m, queries.NewAuditResourcesHandler(game)),
		common.RegisterHandler[*types.EstimateTimeQuery](m, queries.NewEstimateTimeHandler(
			s.cfg.Recruitment.CitizenWaitFactor, s.cfg.Recruitment.OrderOverheadSecs)),
		common.RegisterHandler[*types.ExecuteRecruitmentCommand](m, commands.NewExecuteRecruitmentHandler(game, orderLog, clock)),
		common.RegisterHandler[*types.RunRecruitmentLoopCommand](m, commands.NewRunRecruitmentLoopHandler(game, notifier, orderLog, clock, loopCfg)),
	}
	for _, err := range registrations {
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *recruitSession) executeImmediate(ctx context.Context, mediator common.Mediator, dist *recruitment.Distribution, runID string) error {
	fmt.Fprintln(s.out, "\nSubmitting all orders...")
	resp, err := mediator.Send(ctx, &types.ExecuteRecruitmentCommand{Distribution: dist, RunID: runID})
	if err != nil {
		return err
	}
	response := resp.(*types.ExecuteRecruitmentResponse)
	printResults(s.out, response)
	if !response.AllSucceeded {
		return fmt.Errorf("some orders failed")
	}
	return nil
}

// runLoop drives resumable execution. Background mode holds the PID lock
// and turns any panic into a notification so an unattended run never dies
// silently.
func (s *recruitSession) runLoop(ctx context.Context, mediator common.Mediator, notifier common.Notifier, dist *recruitment.Distribution, runID string) (err error) {
	if s.background {
		pf := pidfile.New(s.cfg.PIDFile)
		if acquireErr := pf.Acquire(); acquireErr != nil {
			return acquireErr
		}
		defer func() {
			if releaseErr := pf.Release(); releaseErr != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", releaseErr)
			}
		}()

		defer func() {
			if r := recover(); r != nil {
				message := fmt.Sprintf("Auto recruitment crashed: %v", r)
				_ = notifier.Notify(context.Background(), message)
				fmt.Fprintf(os.Stderr, "%s\n%s", message, debug.Stack())
				err = fmt.Errorf("recruitment loop panicked: %v", r)
			}
		}()
	}

	fmt.Fprintln(s.out, "\nRecruitment loop started. Press Ctrl-C to stop; orders already submitted keep running in the game.")
	resp, err := mediator.Send(ctx, &types.RunRecruitmentLoopCommand{Distribution: dist, RunID: runID})
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(s.out, "Interrupted. Submitted orders keep running in the game; the rest was not placed.")
		return nil
	}
	if err != nil {
		return err
	}

	response := resp.(*types.RunRecruitmentLoopResponse)
	fmt.Fprintf(s.out, "Done: %d units submitted over %d cycles.\n", response.UnitsSubmitted, response.Cycles)
	return nil
}
