package recruitment

import "github.com/avelardi/polisbot/internal/domain/shared"

// BuildingKind selects which production building a run targets.
type BuildingKind string

const (
	KindBarracks BuildingKind = "barracks"
	KindShipyard BuildingKind = "shipyard"
)

// UnitType describes one recruitable unit as advertised by a specific
// building: its per-unit cost vector and per-unit build time. Costs can
// differ slightly by building level and server, but are treated as constant
// for the session once fetched.
type UnitType struct {
	GameID    int
	Name      string
	Cost      shared.ResourceSet
	BuildSecs int
	Upkeep    int
	MaxBatch  int
}

// CatalogEntry pairs a display name with the game's numeric unit id, in the
// order units are presented to the operator.
type CatalogEntry struct {
	Name   string
	GameID int
}

// BarracksUnits is the user-facing ordering for land units (game ids
// 301-315).
var BarracksUnits = []CatalogEntry{
	{"Hoplite", 303},
	{"Swordsman", 302},
	{"Steam Giant", 308},
	{"Sulphur Carabineer", 304},
	{"Mortar", 305},
	{"Gyrocopter", 312},
	{"Balloon-Bombardier", 309},
	{"Doctor", 311},
	{"Cook", 310},
	{"Battering Ram", 307},
	{"Spearman", 315},
	{"Slinger", 301},
	{"Archer", 313},
	{"Catapult", 306},
}

// ShipyardUnits is the user-facing ordering for ships (game ids 201-220).
var ShipyardUnits = []CatalogEntry{
	{"Ram Ship", 210},
	{"Steam Ram", 216},
	{"Rocket Ship", 217},
	{"Diving Boat", 212},
	{"Paddle Speedboat", 218},
	{"Balloon Carrier", 219},
	{"Tender", 220},
	{"Fire Ship", 211},
	{"Ballista Ship", 213},
	{"Catapult Ship", 214},
	{"Mortar Ship", 215},
}

// Catalog returns the display ordering for the given building kind.
func Catalog(kind BuildingKind) []CatalogEntry {
	if kind == KindShipyard {
		return ShipyardUnits
	}
	return BarracksUnits
}
