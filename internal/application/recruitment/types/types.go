package types

import (
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
)

// AuditResourcesQuery asks whether the cities involved in a distribution
// can pay for it right now. One live snapshot is fetched per distinct city.
type AuditResourcesQuery struct {
	Distribution *recruitment.Distribution
}

// AuditResult reports per-city availability and shortages. Scarcity is a
// planning state here, not an error.
type AuditResult struct {
	// Available holds the snapshot each involved city was audited against.
	Available map[int]shared.ResourceSet

	// MissingResources holds, per city, the positive resource deficits
	// (citizens excluded, reported separately).
	MissingResources map[int]shared.ResourceSet

	// MissingCitizens holds the positive citizen deficits per city.
	MissingCitizens map[int]int

	CanFulfill bool
}

// HasShortage reports whether any city came up short on anything.
func (r *AuditResult) HasShortage() bool {
	return len(r.MissingResources) > 0 || len(r.MissingCitizens) > 0
}

// EstimateTimeQuery projects how long a distribution will take given the
// audited availability and citizen growth rates.
type EstimateTimeQuery struct {
	Distribution *recruitment.Distribution
	Available    map[int]shared.ResourceSet
	GrowthRates  map[int]float64
}

// CityEstimate is the completion projection for one city.
type CityEstimate struct {
	CityName          string
	CitizensNeeded    int
	CitizensAvailable int
	GrowthRate        float64
	// CitizenWaitSecs is how long the citizen deficit takes to regrow.
	// Meaningless when Unknown is set.
	CitizenWaitSecs float64
	BuildTimeSecs   float64
	TotalSecs       float64
	// Unknown marks a citizen deficit with no growth data: the wait cannot
	// be estimated and must never be treated as zero.
	Unknown bool
}

// TimeEstimate is the overall projection: the slowest city gates
// completion.
type TimeEstimate struct {
	ByCity           map[int]*CityEstimate
	TotalSecs        float64
	Unknown          bool
	BottleneckCityID int
}

// ExecuteRecruitmentCommand submits every planned assignment in one shot.
// Used when the audit found no shortage and no involved building was busy.
type ExecuteRecruitmentCommand struct {
	Distribution *recruitment.Distribution
	RunID        string
}

// BuildingResult is the per-building outcome of an immediate submission.
type BuildingResult struct {
	CityID    int
	CityName  string
	Position  int
	Units     int
	Succeeded bool
	Error     string
}

// ExecuteRecruitmentResponse reports per-building outcomes; one building
// failing does not block the others.
type ExecuteRecruitmentResponse struct {
	Results      []BuildingResult
	AllSucceeded bool
}

// RunRecruitmentLoopCommand starts resumable execution: poll resources,
// submit affordable partials above the commit threshold, back off, repeat
// until everything is placed or the context is cancelled.
type RunRecruitmentLoopCommand struct {
	Distribution *recruitment.Distribution
	RunID        string
}

// RunRecruitmentLoopResponse summarizes a finished loop.
type RunRecruitmentLoopResponse struct {
	Cycles         int
	UnitsSubmitted int
	Completed      bool
}
