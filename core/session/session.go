// Package session holds per-conversation state: the rolling turn history
// each agent keeps, and the cross-turn state the router owns (the single
// pending candidate and the last-discussed location).
package session

import (
	"sync"
	"time"

	"github.com/adalundhe/trailhead/core/schema"
	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// RoleError records generation and validation failures in history as an
	// audit trail; error turns are never replayed as model context.
	RoleError Role = "error"
)

// Turn is one append-only history entry.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultHistoryWindow is how many recent turns are offered as model context.
const DefaultHistoryWindow = 20

// History is an append-only, ordered turn log. Safe for concurrent use,
// though a session processes one utterance at a time.
type History struct {
	mu     sync.RWMutex
	turns  []Turn
	window int
}

func NewHistory(window int) *History {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &History{window: window}
}

// Append records a turn and returns it.
func (h *History) Append(role Role, content string) Turn {
	turn := Turn{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}

	h.mu.Lock()
	h.turns = append(h.turns, turn)
	h.mu.Unlock()
	return turn
}

// All returns every turn in order of occurrence.
func (h *History) All() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Recent returns the most recent window of turns, error turns excluded.
func (h *History) Recent() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []Turn
	for i := len(h.turns) - 1; i >= 0 && len(out) < h.window; i-- {
		if h.turns[i].Role == RoleError {
			continue
		}
		out = append(out, h.turns[i])
	}
	// Reverse back into chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Len returns the total number of turns, error turns included.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// State is the router-owned cross-turn state for one conversation. One
// instance per conversation, passed into Route by the caller; never a
// process-wide singleton.
type State struct {
	ID string

	pending      *schema.Candidate
	lastLocation string
}

func NewState() *State {
	return &State{ID: uuid.New().String()}
}

// SetPending stores a candidate awaiting confirmation. A new candidate
// overwrites any unconfirmed one: at most one pending at a time,
// last-write-wins.
func (s *State) SetPending(c *schema.Candidate) {
	s.pending = c
}

// Pending returns the outstanding candidate without consuming it.
func (s *State) Pending() *schema.Candidate {
	return s.pending
}

// TakePending returns and clears the outstanding candidate. The candidate is
// consumed exactly once regardless of what the caller does with it.
func (s *State) TakePending() *schema.Candidate {
	c := s.pending
	s.pending = nil
	return c
}

// SetLastLocation records the most recently discussed location name.
func (s *State) SetLastLocation(name string) {
	s.lastLocation = schema.NormalizeName(name)
}

// LastLocation returns the most recently discussed location name, or "".
func (s *State) LastLocation() string {
	return s.lastLocation
}
