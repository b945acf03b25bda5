package schema

import (
	"testing"

	trailerrors "github.com/adalundhe/trailhead/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCandidate() *Candidate {
	return &Candidate{
		Name:        "Moab, Utah",
		Latitude:    38.57332605,
		Longitude:   -109.54983718,
		Description: "World-class desert climbing and mountain biking.",
		Activities: map[string]float64{
			"hiking":   90,
			"climbing": 95,
			"biking":   98,
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	record, err := Validate(validCandidate())
	require.NoError(t, err)

	assert.Equal(t, "Moab, Utah", record.Name)
	assert.Equal(t, 95, record.Activities["climbing"])
	assert.Len(t, record.Activities, 3)
}

func TestValidateTrimsName(t *testing.T) {
	c := validCandidate()
	c.Name = "  Moab, Utah  "

	record, err := Validate(c)
	require.NoError(t, err)
	assert.Equal(t, "Moab, Utah", record.Name)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Candidate)
		want   string
	}{
		{
			name:   "missing name",
			mutate: func(c *Candidate) { c.Name = "   " },
			want:   "name",
		},
		{
			name:   "nil activities",
			mutate: func(c *Candidate) { c.Activities = nil },
			want:   "activities",
		},
		{
			name:   "unknown activity",
			mutate: func(c *Candidate) { c.Activities["surfing"] = 80 },
			want:   "surfing",
		},
		{
			name:   "fractional score",
			mutate: func(c *Candidate) { c.Activities["hiking"] = 85.5 },
			want:   "integer",
		},
		{
			name:   "score above range",
			mutate: func(c *Candidate) { c.Activities["hiking"] = 101 },
			want:   "0-100",
		},
		{
			name:   "score below range",
			mutate: func(c *Candidate) { c.Activities["hiking"] = -1 },
			want:   "0-100",
		},
		{
			name:   "latitude too large",
			mutate: func(c *Candidate) { c.Latitude = 90.5 },
			want:   "latitude",
		},
		{
			name:   "latitude too small",
			mutate: func(c *Candidate) { c.Latitude = -91 },
			want:   "latitude",
		},
		{
			name:   "longitude too large",
			mutate: func(c *Candidate) { c.Longitude = 180.1 },
			want:   "longitude",
		},
		{
			name:   "longitude too small",
			mutate: func(c *Candidate) { c.Longitude = -181 },
			want:   "longitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(c)

			_, err := Validate(c)
			require.Error(t, err)
			assert.True(t, trailerrors.IsValidation(err), "expected validation kind, got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateBoundaryScores(t *testing.T) {
	c := validCandidate()
	c.Activities = map[string]float64{"hiking": 0, "camping": 100}

	record, err := Validate(c)
	require.NoError(t, err)
	assert.Equal(t, 0, record.Activities["hiking"])
	assert.Equal(t, 100, record.Activities["camping"])
}

func TestParseCandidate(t *testing.T) {
	raw := `Here is the record you asked for:
{
  "name": "Moab, Utah",
  "latitude": 38.57332605,
  "longitude": -109.54983718,
  "description": "Desert recreation hub.",
  "activities": {"hiking": 90, "biking": 98}
}
Let me know if you want changes.`

	c, err := ParseCandidate(raw)
	require.NoError(t, err)
	assert.Equal(t, "Moab, Utah", c.Name)
	assert.InDelta(t, 38.57332605, c.Latitude, 1e-9)
	assert.Equal(t, float64(98), c.Activities["biking"])
}

func TestParseCandidateMissingField(t *testing.T) {
	raw := `{"name": "Moab, Utah", "latitude": 38.5, "longitude": -109.5, "description": "x"}`

	_, err := ParseCandidate(raw)
	require.Error(t, err)
	assert.True(t, trailerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "activities")
}

func TestParseCandidateNoJSON(t *testing.T) {
	_, err := ParseCandidate("I could not find that town.")
	require.Error(t, err)
	assert.True(t, trailerrors.Is(err, trailerrors.KindGeneration))
}

func TestParseCandidateMalformedJSON(t *testing.T) {
	_, err := ParseCandidate(`{"name": "Moab, Utah",}`)
	require.Error(t, err)
	assert.True(t, trailerrors.Is(err, trailerrors.KindGeneration))
}

func TestTemplateCoversVocabulary(t *testing.T) {
	tpl := Template()
	require.Len(t, tpl.Activities, len(ValidActivities))
	for _, tag := range ValidActivities {
		assert.Contains(t, tpl.Activities, tag)
	}
}

func TestEqualNames(t *testing.T) {
	assert.True(t, EqualNames("Moab, Utah", "  moab, utah "))
	assert.True(t, EqualNames("BEND, OREGON", "Bend, Oregon"))
	assert.False(t, EqualNames("Moab, Utah", "Bend, Oregon"))
}

func TestIsValidActivity(t *testing.T) {
	for _, tag := range ValidActivities {
		assert.True(t, IsValidActivity(tag))
	}
	assert.False(t, IsValidActivity("surfing"))
	assert.False(t, IsValidActivity("Hiking"))
}
