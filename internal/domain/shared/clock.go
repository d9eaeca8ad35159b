package shared

import (
	"context"
	"time"
)

// Clock abstracts time so the recruitment loop can be driven instantly in
// tests instead of sleeping for real.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration)
}

// RealClock implements Clock with the system time.
type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Sleep blocks for d or until ctx is cancelled, whichever happens first.
func (r *RealClock) Sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// MockClock implements Clock with a controllable time for testing.
type MockClock struct {
	CurrentTime time.Time
	Slept       []time.Duration
}

// NewMockClock creates a MockClock starting at startTime, or at the current
// time if the zero value is given.
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return &MockClock{CurrentTime: startTime}
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Sleep advances the mock clock without blocking and records the duration.
func (m *MockClock) Sleep(_ context.Context, d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
	m.Slept = append(m.Slept, d)
}

// Advance moves the mock clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}
