package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGoogleContentsRoles(t *testing.T) {
	contents := googleContents([]Message{
		{Role: RoleUser, Content: "research Moab, Utah"},
		{Role: RoleAssistant, Content: "Here's what I found"},
		{Role: RoleUser, Content: "yes"},
	})
	require.Len(t, contents, 3)

	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)
	assert.Equal(t, string(genai.RoleUser), contents[2].Role)

	require.Len(t, contents[0].Parts, 1)
	assert.Equal(t, "research Moab, Utah", contents[0].Parts[0].Text)
}

func TestGoogleContentsEmpty(t *testing.T) {
	assert.Empty(t, googleContents(nil))
}
