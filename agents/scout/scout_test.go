package scout

import (
	"context"
	"strings"
	"testing"

	trailerrors "github.com/adalundhe/trailhead/core/errors"
	"github.com/adalundhe/trailhead/core/providers"
	"github.com/adalundhe/trailhead/core/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticNames struct {
	names []string
}

func (s *staticNames) ListNames(_ context.Context) ([]string, error) {
	return s.names, nil
}

const moabJSON = `{
  "name": "Moab, Utah",
  "latitude": 38.57331655,
  "longitude": -109.54984394,
  "description": "Desert town surrounded by slickrock, famous for mountain biking and climbing.",
  "activities": {
    "hiking": 95,
    "climbing": 90,
    "biking": 100,
    "skiing": 10,
    "kayaking": 55,
    "camping": 92
  }
}`

func TestResearchProducesCandidate(t *testing.T) {
	provider := providers.NewMockProvider()
	provider.Enqueue("Here is the record you asked for:\n" + moabJSON)
	agent := New(Config{
		Provider: provider,
		Names:    &staticNames{},
		History:  session.NewHistory(20),
	})

	reply, candidate, err := agent.Research(context.Background(), "Moab, Utah")
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, "Moab, Utah", candidate.Name)
	assert.Contains(t, reply, "Moab, Utah")
	assert.Contains(t, reply, "yes/no")
}

func TestResearchRejectsKnownTown(t *testing.T) {
	provider := providers.NewMockProvider()
	agent := New(Config{
		Provider: provider,
		Names:    &staticNames{names: []string{"Moab, Utah"}},
	})

	reply, candidate, err := agent.Research(context.Background(), "moab, utah")
	require.NoError(t, err)
	assert.Nil(t, candidate)
	assert.Contains(t, reply, "already in the catalog")
	assert.Equal(t, 0, provider.CallCount())
}

func TestResearchRecordsValidationFailure(t *testing.T) {
	provider := providers.NewMockProvider()
	provider.Enqueue(`{"name": "Moab, Utah", "latitude": 38.5, "longitude": -109.5, "description": "d", "activities": {"hiking": 150, "climbing": 1, "biking": 1, "skiing": 1, "kayaking": 1, "camping": 1}}`)
	history := session.NewHistory(20)
	agent := New(Config{
		Provider: provider,
		Names:    &staticNames{},
		History:  history,
	})

	_, candidate, err := agent.Research(context.Background(), "Moab, Utah")
	require.Error(t, err)
	assert.Nil(t, candidate)
	assert.True(t, trailerrors.Is(err, trailerrors.KindValidation))
	require.Equal(t, 1, history.Len())
	assert.Equal(t, session.RoleError, history.All()[0].Role)
}

func TestSuggestExcludesKnownNames(t *testing.T) {
	provider := providers.NewMockProvider()
	provider.Enqueue("Bend, Oregon")
	agent := New(Config{
		Provider: provider,
		Names:    &staticNames{names: []string{"Moab, Utah", "Boulder, Colorado"}},
	})

	reply, err := agent.Suggest(context.Background())
	require.NoError(t, err)
	assert.Contains(t, reply, "Bend, Oregon")
	assert.Contains(t, reply, "2 locations")

	require.Equal(t, 1, provider.CallCount())
	prompt := provider.LastCall().Messages[0].Content
	assert.Contains(t, prompt, "Moab, Utah")
	assert.Contains(t, prompt, "Boulder, Colorado")
}

func TestProcessHelp(t *testing.T) {
	agent := New(Config{Provider: providers.NewMockProvider()})
	reply, err := agent.Process(context.Background(), "help")
	require.NoError(t, err)
	assert.Contains(t, reply, "Available commands")
}

func TestProcessDescribe(t *testing.T) {
	provider := providers.NewMockProvider("A desert town ringed by sandstone.")
	agent := New(Config{Provider: provider})

	reply, err := agent.Process(context.Background(), "describe Moab, Utah")
	require.NoError(t, err)
	assert.Equal(t, "A desert town ringed by sandstone.", reply)
}

func TestProcessDescribeCapitalizedCommand(t *testing.T) {
	provider := providers.NewMockProvider("A desert town ringed by sandstone.")
	agent := New(Config{Provider: provider})

	_, err := agent.Process(context.Background(), "Describe Moab, Utah")
	require.NoError(t, err)
	prompt := provider.LastCall().Messages[0].Content
	assert.Contains(t, prompt, "Moab, Utah")
	assert.NotContains(t, prompt, "Describe Moab")
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
	}{
		{"research Bend, Oregon", "Bend, Oregon"},
		{"please research the town of Moab, Utah", "Moab, Utah"},
		{"research Leavenworth, Washington!", "Leavenworth, Washington"},
		{"Describe the town of Moab, Utah", "Moab, Utah"},
		{"research", ""},
	}
	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractName(tt.utterance))
		})
	}
}

func TestResearchPromptCoversSchema(t *testing.T) {
	prompt := researchPrompt("Moab, Utah")
	for _, field := range []string{"name", "latitude", "longitude", "description", "activities"} {
		assert.True(t, strings.Contains(prompt, field), "prompt missing %q", field)
	}
}
