package scout

import (
	"fmt"
	"strings"

	"github.com/adalundhe/trailhead/core/schema"
)

// Capabilities describes this agent for capability-driven routing.
const Capabilities = `- Research new outdoor-recreation towns
- Prepare location records for the catalog
- Validate researched location data
- Suggest new towns to add`

// AvailableCommands is the help text served for help-style utterances.
const AvailableCommands = `Available commands:
1. research [town, region]
   Example: research Bend, Oregon

2. suggest a location
   Example: what town should I add next?

3. show locations
   Example: what cities are in the database?

4. delete [town, region]
   Example: delete Bend, Oregon

5. find [free text]
   Example: find towns with desert climbing

6. help
   Show this command list`

func researchPrompt(name string) string {
	return fmt.Sprintf(`You are a data preparation expert. Research %s and return ONLY a JSON object.

The data MUST match this database schema:
%s

Use this template format:
%s

CRITICAL REQUIREMENTS:
1. Return ONLY the JSON object
2. All fields must match the database schema exactly
3. Use real coordinates for the town center with 8 decimal places
4. Score activities from 0 to 100 based on quality and availability
5. Description should focus on outdoor recreation opportunities
6. Only include activities from this list: %s`,
		name,
		schema.SchemaText,
		schema.TemplateJSON(),
		strings.Join(schema.ValidActivities, ", "),
	)
}

func suggestPrompt(exclude []string) string {
	exclusion := "(none yet)"
	if len(exclude) > 0 {
		exclusion = strings.Join(exclude, ", ")
	}
	return fmt.Sprintf(`You are a location recommendation expert. Suggest ONE outdoor recreation town that is NOT in this list:
%s

Consider:
1. Diverse geographic distribution
2. Strong outdoor recreation opportunities
3. Different types of activities
4. Year-round accessibility

Return ONLY the name in "Town, Region" format.`, exclusion)
}

func describePrompt(name string) string {
	return fmt.Sprintf(`Write a short description of %s focused on its outdoor recreation opportunities: the surrounding terrain, the standout activities, and the seasons they are best in. Return ONLY the description text.`, name)
}
