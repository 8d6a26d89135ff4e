package calendar

import (
	"sync"
	"time"

	"blackbox/pkg/errors"
)

// RefreshState is the lifecycle state of the refresh slot
type RefreshState string

const (
	RefreshIdle      RefreshState = "idle"
	RefreshRunning   RefreshState = "running"
	RefreshCompleted RefreshState = "completed"
	RefreshError     RefreshState = "error"
)

// RefreshStatus is a snapshot of the single refresh slot. Only one refresh
// runs at a time; a finished run stays visible until the next one starts.
type RefreshStatus struct {
	State        RefreshState `json:"state"`
	Year         int          `json:"year,omitempty"`
	Month        time.Month   `json:"month,omitempty"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
	EventsStored int64        `json:"events_stored"`
	Error        string       `json:"error,omitempty"`
}

type statusTracker struct {
	mu  sync.Mutex
	cur RefreshStatus
}

func newStatusTracker() *statusTracker {
	return &statusTracker{cur: RefreshStatus{State: RefreshIdle}}
}

// begin claims the refresh slot or reports a refresh already in flight
func (t *statusTracker) begin(year int, month time.Month) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cur.State == RefreshRunning {
		return errors.ErrRefreshInProgress
	}

	now := time.Now().UTC()
	t.cur = RefreshStatus{
		State:     RefreshRunning,
		Year:      year,
		Month:     month,
		StartedAt: &now,
	}
	return nil
}

func (t *statusTracker) complete(stored int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().UTC()
	t.cur.State = RefreshCompleted
	t.cur.FinishedAt = &now
	t.cur.EventsStored = stored
}

func (t *statusTracker) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().UTC()
	t.cur.State = RefreshError
	t.cur.FinishedAt = &now
	t.cur.Error = err.Error()
}

// Snapshot returns a copy of the current status
func (t *statusTracker) Snapshot() RefreshStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur
}
