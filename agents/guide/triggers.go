package guide

import (
	"fmt"
	"strings"
)

// Trigger vocabulary. The cascade in dispatch checks these in a fixed
// order, so a phrase matching an earlier set wins even when a later set
// would also match.
var (
	listingPhrases = []string{
		"what cities",
		"list all",
		"show all",
		"locations",
		"cities included",
		"in the database",
	}
	replaceWords      = []string{"replace", "update", "redo", "refresh"}
	confirmTokens     = []string{"yes", "add", "confirm"}
	deleteTokens      = []string{"delete", "remove"}
	suggestionPhrases = []string{
		"what city should",
		"what town should",
		"suggest",
		"recommend",
	}
)

var replaceStopWords = []string{
	"replace", "update", "redo", "refresh",
	"entry", "with", "new", "research", "the", "for", "please",
}

func containsAny(lowered string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// hasToken matches whole words only, so "add" does not fire inside
// "address".
func hasToken(lowered string, tokens []string) bool {
	for _, field := range strings.Fields(lowered) {
		word := strings.Trim(field, ",.!?")
		for _, token := range tokens {
			if word == token {
				return true
			}
		}
	}
	return false
}

// extractReplaceName strips command filler and returns what is left,
// which is empty when the utterance named no town.
func extractReplaceName(utterance string) string {
	fields := strings.Fields(utterance)
	kept := make([]string, 0, len(fields))
	for _, field := range fields {
		lowered := strings.ToLower(strings.Trim(field, ",.!?"))
		stopped := false
		for _, stop := range replaceStopWords {
			if lowered == stop {
				stopped = true
				break
			}
		}
		if !stopped {
			kept = append(kept, field)
		}
	}
	return strings.TrimSpace(strings.Trim(strings.Join(kept, " "), ".!?"))
}

func classifyPrompt(utterance, curatorCapabilities, scoutCapabilities string) string {
	return fmt.Sprintf(`Given this user request, which agent should handle it?

Request: %s

database agent capabilities:
%s

research agent capabilities:
%s

Reply with exactly one word: database or research.`,
		utterance,
		curatorCapabilities,
		scoutCapabilities,
	)
}
