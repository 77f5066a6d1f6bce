package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Assessment represents the parsed safety assessment from the vision model
type Assessment struct {
	Description            string
	Score                  *int
	MagnitudeSurvivability *string
	// Degraded marks a reply that carried no labeled fields but was a single
	// unlabeled line, accepted wholesale as the description.
	Degraded bool
}

// ParseError reports a model reply that could not be understood. Raw carries
// the original text for diagnostics; it is never persisted.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %s", e.Reason)
}

func failure(raw, format string, args ...interface{}) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...), Raw: raw}
}

// normalizeLine strips markdown emphasis markers and leading bullet
// characters from a line. One normalization pass, applied uniformly before
// any label matching.
func normalizeLine(line string) string {
	s := strings.ReplaceAll(line, "*", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-•# \t")
	return strings.TrimSpace(s)
}

// splitLabel splits a normalized line into a lowercased label and its value.
// Lines without a colon have no label.
func splitLabel(line string) (label, value string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", ""
	}
	return strings.ToLower(strings.TrimSpace(line[:idx])), strings.TrimSpace(line[idx+1:])
}

// ParseAssessment parses the free-text vision model reply into a structured
// assessment. Fields may appear in any line order and are collected in a
// single pass. A missing or non-numeric score is a hard *ParseError; a
// missing or non-numeric magnitude survivability is tolerated and left nil.
// The function is pure: identical input always yields identical output.
func ParseAssessment(raw string) (*Assessment, error) {
	var (
		description, scoreVal, survivVal string
		haveDesc, haveScore, haveSurviv  bool
		nonEmpty                         []string
	)

	for _, line := range strings.Split(raw, "\n") {
		norm := normalizeLine(line)
		if norm == "" {
			continue
		}
		nonEmpty = append(nonEmpty, norm)

		label, value := splitLabel(norm)
		switch label {
		case "description":
			if !haveDesc {
				description, haveDesc = value, true
			}
		case "score", "safety score":
			if !haveScore {
				scoreVal, haveScore = value, true
			}
		case "magnitude survivability", "estimated magnitude survivability":
			if !haveSurviv {
				survivVal, haveSurviv = value, true
			}
		}
	}

	if len(nonEmpty) == 0 {
		return nil, failure(raw, "empty response")
	}

	if !haveScore {
		// A single unlabeled line is accepted wholesale as the description.
		if !haveDesc && !haveSurviv && len(nonEmpty) == 1 {
			return &Assessment{Description: nonEmpty[0], Degraded: true}, nil
		}
		return nil, failure(raw, "no line matches the Score label")
	}

	score, err := parseScore(scoreVal)
	if err != nil {
		return nil, failure(raw, "invalid score %q: %v", scoreVal, err)
	}

	result := &Assessment{Score: &score}

	if haveSurviv {
		if surviv, ok := parseSurvivability(survivVal); ok {
			result.MagnitudeSurvivability = &surviv
		}
	}

	if haveDesc {
		result.Description = description
	} else {
		result.Description = extractSections(raw)
	}

	return result, nil
}

// parseScore parses the text after the Score label. "N/100" keeps the
// numerator; a range "A-B" keeps the upper bound. The result must be an
// integer in [0, 100].
func parseScore(value string) (int, error) {
	if idx := strings.Index(value, "/"); idx >= 0 {
		value = value[:idx]
	}
	if idx := strings.LastIndex(value, "-"); idx >= 0 {
		value = value[idx+1:]
	}
	score, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if score < 0 || score > 100 {
		return 0, fmt.Errorf("score %d out of range [0, 100]", score)
	}
	return score, nil
}

// parseSurvivability parses the text after the Magnitude Survivability
// label. A range "A-B" keeps the upper bound. The value must be a decimal
// number; anything else is reported as absent, not as a failure.
func parseSurvivability(value string) (string, bool) {
	if idx := strings.LastIndex(value, "-"); idx >= 0 {
		value = value[idx+1:]
	}
	value = strings.TrimSpace(value)
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return "", false
	}
	return value, true
}

// extractSections builds a description from "Safety Features" and
// "Potential Concerns" sections when no labeled Description line is present.
func extractSections(raw string) string {
	lower := strings.ToLower(raw)
	featStart := strings.Index(lower, "safety features")
	concStart := strings.Index(lower, "potential concerns")
	if featStart < 0 || concStart < featStart {
		return ""
	}
	features := strings.TrimSpace(raw[featStart:concStart])
	concerns := strings.TrimSpace(raw[concStart:])
	return features + "\n\n" + concerns
}
