package curator

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/adalundhe/trailhead/core/database"
	trailerrors "github.com/adalundhe/trailhead/core/errors"
	"github.com/adalundhe/trailhead/core/providers"
)

// ExecuteQuery runs an operator-supplied SQL statement after the model
// classifies it as safe. Reads return formatted rows; writes run inside
// a transaction and roll back on any fault.
func (a *Agent) ExecuteQuery(ctx context.Context, pool *database.Pool, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", trailerrors.New(trailerrors.KindValidation, "execute_query", "empty query")
	}

	verdict, reason, err := a.classifyQuery(ctx, query)
	if err != nil {
		return "", err
	}
	if verdict != "SAFE" {
		if reason != "" {
			return fmt.Sprintf("That query was not run: %s", reason), nil
		}
		return "That query was classified as unsafe and was not run.", nil
	}

	if strings.HasPrefix(strings.ToUpper(query), "SELECT") {
		return a.runRead(ctx, pool, query)
	}
	return a.runWrite(ctx, pool, query)
}

// classifyQuery returns the verdict word and, for UNSAFE, the
// classifier's stated reason.
func (a *Agent) classifyQuery(ctx context.Context, query string) (string, string, error) {
	resp, err := a.provider.Complete(ctx, &providers.Request{
		Messages: providers.UserMessage(safetyPrompt(query)),
	})
	if err != nil {
		return "", "", trailerrors.Wrap(trailerrors.KindGeneration, "execute_query", err)
	}

	content := strings.TrimSpace(resp.Content)
	word, reason, _ := strings.Cut(content, " ")
	verdict := strings.ToUpper(strings.Trim(word, ":.,!?"))
	if verdict != "SAFE" && verdict != "UNSAFE" {
		return "", "", trailerrors.Newf(trailerrors.KindGeneration, "execute_query",
			"unrecognized safety verdict %q", content)
	}
	return verdict, strings.TrimSpace(reason), nil
}

func (a *Agent) runRead(ctx context.Context, pool *database.Pool, query string) (string, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return "", trailerrors.Wrap(trailerrors.KindStore, "execute_query", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", trailerrors.Wrap(trailerrors.KindStore, "execute_query", err)
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(columns, " | "))
	sb.WriteString("\n")

	count := 0
	values := make([]any, len(columns))
	holders := make([]sql.NullString, len(columns))
	for i := range holders {
		values[i] = &holders[i]
	}
	for rows.Next() {
		if err := rows.Scan(values...); err != nil {
			return "", trailerrors.Wrap(trailerrors.KindStore, "execute_query", err)
		}
		cells := make([]string, len(holders))
		for i, holder := range holders {
			if holder.Valid {
				cells[i] = holder.String
			} else {
				cells[i] = "NULL"
			}
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
		count++
	}
	if err := rows.Err(); err != nil {
		return "", trailerrors.Wrap(trailerrors.KindStore, "execute_query", err)
	}
	if count == 0 {
		return "Query returned no rows.", nil
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (a *Agent) runWrite(ctx context.Context, pool *database.Pool, query string) (string, error) {
	var affected int64
	err := pool.Transaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return "", trailerrors.Wrap(trailerrors.KindStore, "execute_query", err)
	}
	return fmt.Sprintf("Query executed, %d row(s) affected.", affected), nil
}
