package curator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/adalundhe/trailhead/core/catalog"
	trailerrors "github.com/adalundhe/trailhead/core/errors"
	"github.com/adalundhe/trailhead/core/providers"
	"github.com/adalundhe/trailhead/core/schema"
	"github.com/adalundhe/trailhead/core/search"
)

// Config carries the collaborators the database agent needs. Search is
// optional; when nil the find path reports that search is unavailable.
type Config struct {
	Store    *catalog.Store
	Provider providers.Provider
	Search   *search.Index
	Logger   *slog.Logger
}

// Agent answers catalog questions directly from the store. LLM calls are
// made only on the guarded raw-SQL path; every other operation is
// deterministic.
type Agent struct {
	store    *catalog.Store
	provider providers.Provider
	search   *search.Index
	logger   *slog.Logger
}

func New(cfg Config) *Agent {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		store:    cfg.Store,
		provider: cfg.Provider,
		search:   cfg.Search,
		logger:   logger,
	}
}

func (a *Agent) ID() string { return "curator" }

func (a *Agent) Capabilities() string { return Capabilities }

// Process handles utterances delegated to the database agent.
func (a *Agent) Process(ctx context.Context, utterance string) (string, error) {
	lowered := strings.ToLower(utterance)
	switch {
	case isListing(lowered):
		return a.ListNamesResponse(ctx)
	case strings.Contains(lowered, "tell me about"),
		strings.Contains(lowered, "details for"),
		strings.Contains(lowered, "what is"):
		return a.Details(ctx, extractName(utterance, detailStopWords))
	case strings.Contains(lowered, "delete"), strings.Contains(lowered, "remove"):
		return a.DeleteByName(ctx, extractName(utterance, deleteStopWords))
	case strings.HasPrefix(lowered, "find"), strings.HasPrefix(lowered, "search"):
		return a.Find(ctx, extractName(utterance, findStopWords))
	default:
		return "I can list locations, show details for a town, add records, or delete them. Try: what cities are in the database?", nil
	}
}

var listingPhrases = []string{
	"what cities",
	"list all",
	"show all",
	"locations",
	"cities included",
	"in the database",
}

func isListing(lowered string) bool {
	for _, phrase := range listingPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// ListNamesResponse formats the catalog's town names in ascending order.
func (a *Agent) ListNamesResponse(ctx context.Context) (string, error) {
	names, err := a.store.ListNames(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "The catalog is empty. Try: research Bend, Oregon", nil
	}
	var sb strings.Builder
	sb.WriteString("Current locations in the catalog:\n")
	for _, name := range names {
		sb.WriteString("• ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// Details looks up a single town and formats its record.
func (a *Agent) Details(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "Which town would you like details for?", nil
	}
	record, err := a.store.GetByName(ctx, name)
	if err != nil {
		if trailerrors.IsNotFound(err) {
			return fmt.Sprintf("%s is not in the catalog.", name), nil
		}
		return "", err
	}
	return FormatDetails(record), nil
}

// FormatDetails renders a location record for display.
func FormatDetails(record *schema.LocationRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Location: %s\n", record.Name)
	fmt.Fprintf(&sb, "Coordinates: %.8f, %.8f\n", record.Latitude, record.Longitude)
	fmt.Fprintf(&sb, "Description: %s\n", record.Description)
	sb.WriteString("Activities:\n")

	tags := make([]string, 0, len(record.Activities))
	for tag := range record.Activities {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Fprintf(&sb, "  • %s: %d/100\n", tag, record.Activities[tag])
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Commit validates a confirmed candidate and inserts it, keeping the
// search index in step.
func (a *Agent) Commit(ctx context.Context, candidate *schema.Candidate) (string, error) {
	record, err := schema.Validate(candidate)
	if err != nil {
		return "", err
	}
	id, err := a.store.Insert(ctx, record)
	if err != nil {
		return "", err
	}
	record.ID = id
	if a.search != nil {
		if err := a.search.Add(record); err != nil {
			a.logger.Warn("search index update failed",
				slog.String("name", record.Name),
				slog.String("error", err.Error()),
			)
		}
	}
	a.logger.Info("location added", slog.String("name", record.Name), slog.Int64("id", id))
	return fmt.Sprintf("Successfully added %s to the catalog.", record.Name), nil
}

// DeleteByName removes a town and its activity scores.
func (a *Agent) DeleteByName(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "Which town would you like to delete?", nil
	}
	if err := a.store.Delete(ctx, name); err != nil {
		return "", err
	}
	if a.search != nil {
		if err := a.search.Remove(name); err != nil {
			a.logger.Warn("search index removal failed",
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
		}
	}
	a.logger.Info("location deleted", slog.String("name", name))
	return fmt.Sprintf("Deleted %s from the catalog.", name), nil
}

// Find runs a full-text search over names, descriptions, and activity
// tags.
func (a *Agent) Find(ctx context.Context, text string) (string, error) {
	if a.search == nil {
		return "Search is not enabled. Run the indexer first: trailhead search --rebuild", nil
	}
	if text == "" {
		return "What should I search for? Try: find towns with desert climbing", nil
	}
	hits, err := a.search.Search(ctx, text, 10)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No cataloged towns match %q.", text), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Towns matching %q:\n", text)
	for _, hit := range hits {
		fmt.Fprintf(&sb, "• %s\n", hit.Name)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

var (
	deleteStopWords = []string{"delete", "remove", "the", "entry", "for", "from", "database", "catalog", "please"}
	detailStopWords = []string{"tell", "me", "about", "what", "is", "details", "for", "show"}
	findStopWords   = []string{"find", "search", "for", "towns", "with"}
)

func extractName(utterance string, stopWords []string) string {
	fields := strings.Fields(utterance)
	kept := make([]string, 0, len(fields))
	for _, field := range fields {
		lowered := strings.ToLower(strings.Trim(field, ",.!?"))
		stopped := false
		for _, stop := range stopWords {
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
