package scout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	trailerrors "github.com/adalundhe/trailhead/core/errors"
	"github.com/adalundhe/trailhead/core/providers"
	"github.com/adalundhe/trailhead/core/schema"
	"github.com/adalundhe/trailhead/core/session"
)

// NameLister reports the town names currently in the catalog. It is
// re-queried before every research or suggestion call so that prompts
// never work from a stale snapshot.
type NameLister interface {
	ListNames(ctx context.Context) ([]string, error)
}

// Config carries the collaborators the research agent needs.
type Config struct {
	Provider providers.Provider
	Names    NameLister
	History  *session.History
	Logger   *slog.Logger
}

// Agent researches outdoor-recreation towns, validates the records it
// prepares, and proposes new towns to add to the catalog.
type Agent struct {
	provider providers.Provider
	names    NameLister
	history  *session.History
	logger   *slog.Logger
}

func New(cfg Config) *Agent {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		provider: cfg.Provider,
		names:    cfg.Names,
		history:  cfg.History,
		logger:   logger,
	}
}

func (a *Agent) ID() string { return "scout" }

func (a *Agent) Capabilities() string { return Capabilities }

// Process handles utterances delegated to the research agent directly.
// Research results that produce a candidate are surfaced through
// Research instead, which the router calls so it can track the pending
// record itself.
func (a *Agent) Process(ctx context.Context, utterance string) (string, error) {
	lowered := strings.ToLower(utterance)
	switch {
	case strings.Contains(lowered, "help"):
		return AvailableCommands, nil
	case strings.Contains(lowered, "research"):
		name := ExtractName(utterance)
		if name == "" {
			return "Which town should I research? Try: research Bend, Oregon", nil
		}
		reply, _, err := a.Research(ctx, name)
		return reply, err
	case strings.Contains(lowered, "suggest") || strings.Contains(lowered, "recommend"):
		return a.Suggest(ctx)
	case strings.Contains(lowered, "describe"):
		name := ExtractName(utterance)
		if name == "" {
			return "Which town should I describe?", nil
		}
		return a.Describe(ctx, name)
	default:
		return AvailableCommands, nil
	}
}

// Research prepares a catalog record for the named town. On success it
// returns both the user-facing reply and the validated candidate; the
// caller decides whether to hold the candidate for confirmation. When
// the town is already cataloged the candidate is nil and the reply says
// so.
func (a *Agent) Research(ctx context.Context, name string) (string, *schema.Candidate, error) {
	known := a.knownNames(ctx)
	for _, existing := range known {
		if schema.EqualNames(existing, name) {
			return fmt.Sprintf(
				"%s is already in the catalog. Would you like me to suggest a different location?",
				existing,
			), nil, nil
		}
	}

	candidate, err := a.PrepareCandidate(ctx, name)
	if err != nil {
		a.recordError(err)
		return "", nil, err
	}

	pretty, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return "", nil, trailerrors.Wrap(trailerrors.KindGeneration, "research", err)
	}
	reply := fmt.Sprintf(
		"Here's what I found for %s:\n\n%s\n\nWould you like me to add this to the catalog? (yes/no)",
		candidate.Name,
		pretty,
	)
	return reply, candidate, nil
}

// PrepareCandidate asks the model for a schema-shaped record and
// validates it. Malformed or out-of-range output is rejected, never
// coerced.
func (a *Agent) PrepareCandidate(ctx context.Context, name string) (*schema.Candidate, error) {
	resp, err := a.provider.Complete(ctx, &providers.Request{
		Messages: providers.UserMessage(researchPrompt(name)),
	})
	if err != nil {
		return nil, trailerrors.Wrap(trailerrors.KindGeneration, "research", err)
	}

	candidate, err := schema.ParseCandidate(resp.Content)
	if err != nil {
		return nil, err
	}
	if _, err := schema.Validate(candidate); err != nil {
		return nil, err
	}
	a.logger.Debug("prepared candidate", slog.String("name", candidate.Name))
	return candidate, nil
}

// SuggestName returns a single "Town, Region" name outside the
// exclusion set.
func (a *Agent) SuggestName(ctx context.Context, exclude []string) (string, error) {
	resp, err := a.provider.Complete(ctx, &providers.Request{
		Messages: a.contextMessages(suggestPrompt(exclude)),
	})
	if err != nil {
		return "", trailerrors.Wrap(trailerrors.KindGeneration, "suggest", err)
	}
	name := strings.TrimSpace(strings.Trim(strings.TrimSpace(resp.Content), `"`))
	if name == "" {
		return "", trailerrors.New(trailerrors.KindGeneration, "suggest", "model returned an empty suggestion")
	}
	return name, nil
}

// Suggest wraps SuggestName in a user-facing reply that reports the
// current catalog size. The exclusion set is re-fetched from the store
// so a suggestion never races a just-confirmed record.
func (a *Agent) Suggest(ctx context.Context) (string, error) {
	known := a.knownNames(ctx)
	name, err := a.SuggestName(ctx, known)
	if err != nil {
		a.recordError(err)
		return "", err
	}
	return fmt.Sprintf(
		"Based on the current catalog of %d locations, I suggest researching %s. Would you like me to research this location?",
		len(known),
		name,
	), nil
}

// Describe returns a short free-text description of the named town.
func (a *Agent) Describe(ctx context.Context, name string) (string, error) {
	resp, err := a.provider.Complete(ctx, &providers.Request{
		Messages: a.contextMessages(describePrompt(name)),
	})
	if err != nil {
		return "", trailerrors.Wrap(trailerrors.KindGeneration, "describe", err)
	}
	return strings.TrimSpace(resp.Content), nil
}

// contextMessages prepends the recent conversation window so free-text
// generations see what was already discussed. Error turns are excluded
// by the history window itself.
func (a *Agent) contextMessages(prompt string) []providers.Message {
	var messages []providers.Message
	if a.history != nil {
		for _, turn := range a.history.Recent() {
			messages = append(messages, providers.Message{
				Role:    providers.Role(turn.Role),
				Content: turn.Content,
			})
		}
	}
	return append(messages, providers.Message{Role: providers.RoleUser, Content: prompt})
}

func (a *Agent) knownNames(ctx context.Context) []string {
	if a.names == nil {
		return nil
	}
	names, err := a.names.ListNames(ctx)
	if err != nil {
		a.logger.Warn("listing catalog names failed", slog.String("error", err.Error()))
		return nil
	}
	return names
}

func (a *Agent) recordError(err error) {
	if a.history == nil {
		return
	}
	a.history.Append(session.RoleError, err.Error())
}

// ExtractName pulls the town name out of a research-style utterance by
// dropping the leading command words.
func ExtractName(utterance string) string {
	fields := strings.Fields(utterance)
	kept := make([]string, 0, len(fields))
	skipping := true
	for _, field := range fields {
		lowered := strings.ToLower(strings.Trim(field, ",.!?"))
		if skipping {
			switch lowered {
			case "research", "describe", "please", "can", "you", "could", "the", "town", "city", "of":
				continue
			}
			skipping = false
		}
		kept = append(kept, field)
	}
	return strings.TrimSpace(strings.Trim(strings.Join(kept, " "), ".!?"))
}
