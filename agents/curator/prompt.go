package curator

import (
	"fmt"

	"github.com/adalundhe/trailhead/core/schema"
)

// Capabilities describes this agent for capability-driven routing.
const Capabilities = `- List the towns in the catalog
- Show details and activity scores for a town
- Add validated location records
- Delete towns from the catalog
- Run guarded read-only SQL queries`

func safetyPrompt(query string) string {
	return fmt.Sprintf(`You are a database security reviewer. Classify the following SQLite query.

The database contains only these tables:
%s

Query:
%s

A query is SAFE only if it reads or writes the tables above and does nothing else. Any query that drops or alters tables, touches sqlite_master, attaches databases, or runs multiple statements is UNSAFE.

Reply with SAFE, or with UNSAFE followed by a brief reason.`, schema.SchemaText, query)
}
