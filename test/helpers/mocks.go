package helpers

import (
	"context"
	"sync"

	"github.com/avelardi/polisbot/internal/application/common"
)

// MockNotifier records notification messages for assertion.
type MockNotifier struct {
	mu       sync.Mutex
	Err      error
	Messages []string
}

func (n *MockNotifier) Notify(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Messages = append(n.Messages, message)
	return nil
}

// MemoryOrderLog is an in-memory common.OrderLog.
type MemoryOrderLog struct {
	mu      sync.Mutex
	Err     error
	Entries []common.SubmittedOrder
}

func (l *MemoryOrderLog) Record(ctx context.Context, orders []common.SubmittedOrder) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return l.Err
	}
	l.Entries = append(l.Entries, orders...)
	return nil
}

// TotalLogged sums recorded quantities.
func (l *MemoryOrderLog) TotalLogged() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, e := range l.Entries {
		total += e.Quantity
	}
	return total
}
