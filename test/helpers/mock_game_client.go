package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/avelardi/polisbot/internal/application/common"
	"github.com/avelardi/polisbot/internal/domain/recruitment"
	"github.com/avelardi/polisbot/internal/domain/shared"
)

// Submission records one SubmitOrder call.
type Submission struct {
	CityID   int
	Position int
	Token    string
	Units    map[int]int
}

// MockGameClient is a scriptable test double for common.GameClient.
//
// Snapshots per city are a sequence: each GetCitySnapshot call consumes the
// next entry, the last one repeats. That lets loop tests script scarcity
// easing over cycles.
type MockGameClient struct {
	mu sync.Mutex

	Cities    []common.CityRef
	Buildings map[int][]common.BuildingRef

	// Details keys are "cityID:position". Each fetch returns a copy with a
	// freshly minted token.
	Details    map[string]*recruitment.Building
	DetailErrs map[string]error

	Snapshots    map[int][]shared.ResourceSet
	SnapshotErrs map[int]error

	GrowthRates map[int]float64
	GrowthErrs  map[int]error

	SubmitErrs  map[string]error
	Submissions []Submission

	LoggedOut  bool
	tokenSeq   int
	FetchCount map[string]int
}

func NewMockGameClient() *MockGameClient {
	return &MockGameClient{
		Buildings:    map[int][]common.BuildingRef{},
		Details:      map[string]*recruitment.Building{},
		DetailErrs:   map[string]error{},
		Snapshots:    map[int][]shared.ResourceSet{},
		SnapshotErrs: map[int]error{},
		GrowthRates:  map[int]float64{},
		GrowthErrs:   map[int]error{},
		SubmitErrs:   map[string]error{},
		FetchCount:   map[string]int{},
	}
}

func detailKey(cityID, position int) string {
	return fmt.Sprintf("%d:%d", cityID, position)
}

// SetDetail registers the building returned for (cityID, position).
func (m *MockGameClient) SetDetail(b *recruitment.Building) {
	m.Details[detailKey(b.CityID, b.Position)] = b
}

func (m *MockGameClient) ListCities(ctx context.Context) ([]common.CityRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCount["cities"]++
	return m.Cities, nil
}

func (m *MockGameClient) ListBuildings(ctx context.Context, cityID int) ([]common.BuildingRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCount[fmt.Sprintf("buildings:%d", cityID)]++
	return m.Buildings[cityID], nil
}

func (m *MockGameClient) GetBuildingDetail(ctx context.Context, ref common.BuildingRef) (*recruitment.Building, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := detailKey(ref.CityID, ref.Position)
	m.FetchCount["detail:"+key]++

	if err := m.DetailErrs[key]; err != nil {
		return nil, err
	}
	tmpl, ok := m.Details[key]
	if !ok {
		return nil, shared.NewDataError("no detail scripted for " + key)
	}

	m.tokenSeq++
	clone := *tmpl
	clone.Units = tmpl.Units
	clone.ActionToken = fmt.Sprintf("token-%d", m.tokenSeq)
	clone.TokenFresh = true
	return &clone, nil
}

func (m *MockGameClient) GetCitySnapshot(ctx context.Context, cityID int) (shared.ResourceSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCount[fmt.Sprintf("snapshot:%d", cityID)]++
	if err := m.SnapshotErrs[cityID]; err != nil {
		return shared.ResourceSet{}, err
	}

	seq := m.Snapshots[cityID]
	if len(seq) == 0 {
		return shared.ResourceSet{}, shared.NewDataError("no snapshot scripted")
	}
	snapshot := seq[0]
	if len(seq) > 1 {
		m.Snapshots[cityID] = seq[1:]
	}
	return snapshot, nil
}

func (m *MockGameClient) GetGrowthRate(ctx context.Context, cityID int) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.GrowthErrs[cityID]; err != nil {
		return 0, err
	}
	return m.GrowthRates[cityID], nil
}

func (m *MockGameClient) SubmitOrder(ctx context.Context, cityID, position int, token string, units map[int]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := detailKey(cityID, position)
	if err := m.SubmitErrs[key]; err != nil {
		return err
	}

	copied := make(map[int]int, len(units))
	for id, qty := range units {
		copied[id] = qty
	}
	m.Submissions = append(m.Submissions, Submission{
		CityID:   cityID,
		Position: position,
		Token:    token,
		Units:    copied,
	})
	return nil
}

func (m *MockGameClient) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoggedOut = true
	return nil
}

// TotalSubmitted sums every unit quantity across recorded submissions.
func (m *MockGameClient) TotalSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, s := range m.Submissions {
		for _, qty := range s.Units {
			total += qty
		}
	}
	return total
}
