package session

import (
	"fmt"
	"testing"

	"github.com/adalundhe/trailhead/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAppendOrdered(t *testing.T) {
	h := NewHistory(10)

	h.Append(RoleUser, "research Moab, Utah")
	h.Append(RoleAssistant, "here is what I found")
	h.Append(RoleError, "invalid JSON response")

	turns := h.All()
	require.Len(t, turns, 3)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, RoleAssistant, turns[1].Role)
	assert.Equal(t, RoleError, turns[2].Role)
	assert.NotEmpty(t, turns[0].ID)
	assert.False(t, turns[0].Timestamp.After(turns[2].Timestamp))
}

func TestHistoryRecentWindowSkipsErrors(t *testing.T) {
	h := NewHistory(3)

	for i := 0; i < 5; i++ {
		h.Append(RoleUser, fmt.Sprintf("question %d", i))
	}
	h.Append(RoleError, "boom")

	recent := h.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "question 2", recent[0].Content)
	assert.Equal(t, "question 4", recent[2].Content)
	for _, turn := range recent {
		assert.NotEqual(t, RoleError, turn.Role)
	}

	// Error turns remain in the full audit trail
	assert.Equal(t, 6, h.Len())
}

func TestStatePendingLastWriteWins(t *testing.T) {
	s := NewState()
	require.Nil(t, s.Pending())

	first := &schema.Candidate{Name: "Moab, Utah"}
	second := &schema.Candidate{Name: "Bend, Oregon"}

	s.SetPending(first)
	s.SetPending(second)
	assert.Equal(t, "Bend, Oregon", s.Pending().Name)
}

func TestStateTakePendingConsumesOnce(t *testing.T) {
	s := NewState()
	s.SetPending(&schema.Candidate{Name: "Moab, Utah"})

	c := s.TakePending()
	require.NotNil(t, c)
	assert.Equal(t, "Moab, Utah", c.Name)

	assert.Nil(t, s.TakePending())
	assert.Nil(t, s.Pending())
}

func TestStateLastLocationNormalized(t *testing.T) {
	s := NewState()
	s.SetLastLocation("  Moab, Utah  ")
	assert.Equal(t, "Moab, Utah", s.LastLocation())
}
