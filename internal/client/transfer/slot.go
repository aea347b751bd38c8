package transfer

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/securedrop/internal/client/models"
	"github.com/dmitrijs2005/securedrop/internal/common"
)

// Slot serializes transfer attempts of one kind. A client holds one upload
// slot and one download slot; a new attempt is rejected without touching
// the network while another is active or while an unacknowledged result is
// displayed.
type Slot struct {
	kind Kind

	mu  sync.Mutex
	cur *Task
}

func NewSlot(kind Kind) *Slot {
	return &Slot{kind: kind}
}

// Select admits a new task in the given mode. Allowed only from Idle: an
// Active task must finish and a terminal one must be Reset first.
func (s *Slot) Select(mode models.StorageMode) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != nil {
		return Task{}, fmt.Errorf("%w: %s slot is %s", common.ErrTransferBusy, s.kind, s.cur.State)
	}

	s.cur = &Task{
		ID:    uuid.New(),
		Kind:  s.kind,
		Mode:  mode,
		State: StateSelecting,
	}
	return *s.cur, nil
}

// Start moves the selected task to Active. The returned id keys all
// subsequent progress and result reports.
func (s *Slot) Start() (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil || s.cur.State != StateSelecting {
		return uuid.Nil, fmt.Errorf("%w: nothing selected on %s slot", common.ErrTransferBusy, s.kind)
	}
	s.cur.State = StateActive
	return s.cur.ID, nil
}

// ReportProgress records a progress percentage for the identified task.
// Reports for a stale task, out-of-range values and regressions are
// silently dropped, so the observable sequence is non-decreasing.
func (s *Slot) ReportProgress(id uuid.UUID, percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil || s.cur.ID != id || s.cur.State != StateActive {
		return
	}
	if percent < 0 || percent > 100 || percent < s.cur.Progress {
		return
	}
	s.cur.Progress = percent
}

// Complete delivers the successful outcome for the identified task. It
// reports false when the result was stale (the task was reset or already
// settled) and must be discarded.
func (s *Slot) Complete(id uuid.UUID, rec *models.FileRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil || s.cur.ID != id || s.cur.State != StateActive {
		return false
	}
	s.cur.State = StateSucceeded
	s.cur.Record = rec
	return true
}

// Fail delivers the failed outcome for the identified task. Same staleness
// rules as Complete.
func (s *Slot) Fail(id uuid.UUID, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil || s.cur.ID != id || s.cur.State != StateActive {
		return false
	}
	s.cur.State = StateFailed
	s.cur.Err = err
	return true
}

// Reset discards the current task and returns the slot to Idle. A result
// resolving later for the discarded task will not resurrect it.
func (s *Slot) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = nil
}

// State returns the slot's current lifecycle state.
func (s *Slot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return StateIdle
	}
	return s.cur.State
}

// Snapshot returns a copy of the current task. ok is false when Idle.
func (s *Slot) Snapshot() (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return Task{}, false
	}
	return *s.cur, true
}
