// Package schema defines the canonical location record shape, the closed
// activity vocabulary, and the validation gate every candidate must pass
// before it reaches the store.
package schema

import (
	"encoding/json"
	"strings"
)

// ValidActivities is the closed set of recognized outdoor-activity tags.
// Any tag outside this set is a validation failure, not an extension point.
var ValidActivities = []string{
	"hiking",
	"climbing",
	"biking",
	"skiing",
	"kayaking",
	"camping",
}

// ScoreMin and ScoreMax bound activity scores.
const (
	ScoreMin = 0
	ScoreMax = 100
)

var activitySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ValidActivities))
	for _, a := range ValidActivities {
		set[a] = struct{}{}
	}
	return set
}()

// IsValidActivity reports whether tag is a member of the activity vocabulary.
func IsValidActivity(tag string) bool {
	_, ok := activitySet[tag]
	return ok
}

// LocationRecord is a validated, persistable entry. Identity is assigned by
// the store on insert.
type LocationRecord struct {
	ID          int64          `json:"id,omitempty"`
	Name        string         `json:"name"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Description string         `json:"description"`
	Activities  map[string]int `json:"activities"`
}

// Candidate is an unvalidated, model-generated location proposal. Scores are
// kept as float64 so malformed model output parses and fails validation with
// a specific reason instead of failing opaquely at decode time.
type Candidate struct {
	Name        string             `json:"name"`
	Latitude    float64            `json:"latitude"`
	Longitude   float64            `json:"longitude"`
	Description string             `json:"description"`
	Activities  map[string]float64 `json:"activities"`
}

// TemplateFields lists the fields a generated record must carry.
var TemplateFields = []string{"name", "latitude", "longitude", "description", "activities"}

// Template returns the canonical generation shape with zeroed scores for
// every vocabulary member. Coordinates use 8 fractional digits by generation
// instruction; that precision is not a stored invariant.
func Template() *Candidate {
	activities := make(map[string]float64, len(ValidActivities))
	for _, a := range ValidActivities {
		activities[a] = 0
	}
	return &Candidate{
		Name:        "Town, Region",
		Description: "Description focusing on outdoor recreation",
		Activities:  activities,
	}
}

// TemplateJSON renders the template for inclusion in a generation prompt.
func TemplateJSON() string {
	data, _ := json.MarshalIndent(Template(), "", "  ")
	return string(data)
}

// SchemaText describes the storage layout for prompts that need it, the way
// the raw-SQL safety classifier and the research prompt do.
const SchemaText = `Locations Table:
CREATE TABLE locations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    description TEXT,
    activities TEXT DEFAULT '{}'
);

Activity Scores Table:
CREATE TABLE activity_scores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    location_id INTEGER REFERENCES locations(id) ON DELETE CASCADE,
    activity_type TEXT NOT NULL,
    score INTEGER CHECK (score >= 0 AND score <= 100),
    UNIQUE(location_id, activity_type)
);`

// NormalizeName trims surrounding whitespace from a location name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// EqualNames compares two location names case-insensitively after trimming.
// This is the uniform comparison used for duplicate detection and deletes.
func EqualNames(a, b string) bool {
	return strings.EqualFold(NormalizeName(a), NormalizeName(b))
}
