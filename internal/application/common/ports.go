package common

import (
	"context"
	"time"

	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
)

// CityRef identifies one of the player's cities.
type CityRef struct {
	ID   int
	Name string
}

// BuildingRef is a building as it appears in the city overview, before the
// detail view has been fetched.
type BuildingRef struct {
	CityID   int
	CityName string
	Position int
	Kind     recruitment.BuildingKind
	Level    int
	IsBusy   bool
}

// GameClient is the core's contract with the game transport. Implementations
// own the session, the wire encoding and the scraping; the core only ever
// sees structured records.
type GameClient interface {
	// ListCities returns the player's cities.
	ListCities(ctx context.Context) ([]CityRef, error)

	// ListBuildings returns the production buildings visible in one city.
	ListBuildings(ctx context.Context, cityID int) ([]BuildingRef, error)

	// GetBuildingDetail fetches the cost table, busy state, queue remainder
	// and a fresh action token for one building. Returns a DataError when
	// the response carries no usable cost table.
	GetBuildingDetail(ctx context.Context, ref BuildingRef) (*recruitment.Building, error)

	// GetCitySnapshot returns the city's current resources and citizens.
	GetCitySnapshot(ctx context.Context, cityID int) (shared.ResourceSet, error)

	// GetGrowthRate returns the city's citizen growth per hour, or 0 when
	// it cannot be determined.
	GetGrowthRate(ctx context.Context, cityID int) (float64, error)

	// SubmitOrder places a recruitment order at a building. Success is the
	// absence of a transport error; the game sends no structured
	// confirmation.
	SubmitOrder(ctx context.Context, cityID, position int, token string, units map[int]int) error

	// Logout releases the game session.
	Logout(ctx context.Context) error
}

// Notifier delivers fire-and-forget text notifications to an external
// channel. Failures are logged by callers and never abort a run.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// SubmittedOrder is one successfully placed order, recorded for audit.
type SubmittedOrder struct {
	RunID       string
	CityID      int
	CityName    string
	Position    int
	UnitID      int
	Quantity    int
	SubmittedAt time.Time
}

// OrderLog records submitted orders. It is an audit trail only, never a
// checkpoint: a killed run replans from scratch.
type OrderLog interface {
	Record(ctx context.Context, orders []SubmittedOrder) error
}
