package dialogue

import (
	"sync"
	"time"

	"github.com/omriShneor/schedule_bot/internal/database"
)

// State is the dialogue mode of one user.
type State int

const (
	Idle State = iota
	CollectingEvent
	CollectingPeriod
	CollectingDeleteTarget
	ConfirmingDelete
	CollectingEditTarget
	ConfirmingEdit
	StepTitle
	StepDescription
	StepStart
	StepEnd
	StepPlace
	StepWeekly
)

var stateNames = map[State]string{
	Idle:                   "idle",
	CollectingEvent:        "collecting_event",
	CollectingPeriod:       "collecting_period",
	CollectingDeleteTarget: "collecting_delete_target",
	ConfirmingDelete:       "confirming_delete",
	CollectingEditTarget:   "collecting_edit_target",
	ConfirmingEdit:         "confirming_edit",
	StepTitle:              "step_title",
	StepDescription:        "step_description",
	StepStart:              "step_start",
	StepEnd:                "step_end",
	StepPlace:              "step_place",
	StepWeekly:             "step_weekly",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsStep reports whether s belongs to the step-by-step entry dialogue.
func (s State) IsStep() bool {
	return s >= StepTitle && s <= StepWeekly
}

// PartialEvent is an event still being collected. Any field may be nil.
type PartialEvent struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Place       *string
	IsWeekly    bool
}

// IsEmpty reports whether nothing has been collected yet.
func (p PartialEvent) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Start == nil && p.End == nil && p.Place == nil
}

// PendingMutation waits for a yes/no answer. Edits carry EventID and
// Payload; deletes carry EventIDs.
type PendingMutation struct {
	EventID  int64
	Payload  database.EventUpdate
	EventIDs []int64
}

// Session is the volatile per-user dialogue state.
type Session struct {
	State   State
	Partial PartialEvent
	Pending *PendingMutation
}

// Store keeps sessions keyed by chat user id.
type Store interface {
	Get(userID int64) Session
	Put(userID int64, s Session)
	Delete(userID int64)
}

// MemoryStore is a mutex-guarded in-process Store. Nothing survives a
// restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

// Get returns the user's session, or an Idle one if none exists.
func (m *MemoryStore) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

func (m *MemoryStore) Put(userID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.State == Idle && s.Pending == nil && s.Partial.IsEmpty() {
		delete(m.sessions, userID)
		return
	}
	m.sessions[userID] = s
}

func (m *MemoryStore) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Len returns the number of non-idle sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
