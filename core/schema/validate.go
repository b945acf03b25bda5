package schema

import (
	"encoding/json"
	"math"

	"github.com/adalundhe/trailhead/core/errors"
)

// ParseCandidate decodes model output into a Candidate, requiring every
// template field to be present. The JSON object may be surrounded by prose;
// only the outermost braces are considered.
func ParseCandidate(raw string) (*Candidate, error) {
	start := -1
	depth := 0
	end := -1
	for i, r := range raw {
		switch r {
		case '{':
			if depth == 0 && start == -1 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start != -1 {
				end = i + 1
			}
		}
	}
	if start == -1 || end == -1 {
		return nil, errors.New(errors.KindGeneration, "parse", "no JSON object in model output")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw[start:end]), &fields); err != nil {
		return nil, errors.Wrap(errors.KindGeneration, "parse", err)
	}
	for _, field := range TemplateFields {
		if _, ok := fields[field]; !ok {
			return nil, errors.Newf(errors.KindValidation, "parse", "missing required field %q", field)
		}
	}

	var candidate Candidate
	if err := json.Unmarshal([]byte(raw[start:end]), &candidate); err != nil {
		return nil, errors.Wrap(errors.KindGeneration, "parse", err)
	}
	return &candidate, nil
}

// Validate checks a candidate against the schema contract and promotes it to
// a LocationRecord. Checks run in order and the first failure is reported:
// field completeness, activity-tag membership, score bounds, latitude bounds,
// longitude bounds. No partial acceptance.
func Validate(c *Candidate) (*LocationRecord, error) {
	if c == nil {
		return nil, errors.New(errors.KindValidation, "validate", "nil candidate")
	}
	if NormalizeName(c.Name) == "" {
		return nil, errors.New(errors.KindValidation, "validate", "missing required field \"name\"")
	}
	if c.Activities == nil {
		return nil, errors.New(errors.KindValidation, "validate", "missing required field \"activities\"")
	}

	scores := make(map[string]int, len(c.Activities))
	for tag, score := range c.Activities {
		if !IsValidActivity(tag) {
			return nil, errors.Newf(errors.KindValidation, "validate", "invalid activity %q", tag)
		}
		if score != math.Trunc(score) {
			return nil, errors.Newf(errors.KindValidation, "validate", "activity score for %q must be an integer", tag)
		}
		if score < ScoreMin || score > ScoreMax {
			return nil, errors.Newf(errors.KindValidation, "validate", "activity score for %q must be %d-%d", tag, ScoreMin, ScoreMax)
		}
		scores[tag] = int(score)
	}

	if c.Latitude < -90 || c.Latitude > 90 {
		return nil, errors.Newf(errors.KindValidation, "validate", "latitude %v out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return nil, errors.Newf(errors.KindValidation, "validate", "longitude %v out of range [-180, 180]", c.Longitude)
	}

	return &LocationRecord{
		Name:        NormalizeName(c.Name),
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		Description: c.Description,
		Activities:  scores,
	}, nil
}
