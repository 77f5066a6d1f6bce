package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAssessment(t *testing.T) {
	testCases := []struct {
		name string
		raw  string

		wantScore    *int
		wantSurviv   *string
		wantDesc     string
		wantDegraded bool
		wantErr      bool
	}{
		{
			name:       "well-formed template",
			raw:        "Description: clear exits\nScore: 82/100\nMagnitude Survivability: 7.0-7.5",
			wantScore:  intPtr(82),
			wantSurviv: strPtr("7.5"),
			wantDesc:   "clear exits",
		},
		{
			name:       "score range takes upper bound",
			raw:        "Description: reinforced frame\nScore: 70-80\nMagnitude Survivability: 6.5",
			wantScore:  intPtr(80),
			wantSurviv: strPtr("6.5"),
			wantDesc:   "reinforced frame",
		},
		{
			name:       "fields in any order",
			raw:        "Magnitude Survivability: 7.5\nScore: 55\nDescription: cluttered hallway",
			wantScore:  intPtr(55),
			wantSurviv: strPtr("7.5"),
			wantDesc:   "cluttered hallway",
		},
		{
			name:       "markdown emphasis and bullets stripped",
			raw:        "- **Description:** unsecured shelving\n* **Score:** 40/100\n- **Magnitude Survivability:** 5.0-5.5",
			wantScore:  intPtr(40),
			wantSurviv: strPtr("5.5"),
			wantDesc:   "unsecured shelving",
		},
		{
			name:       "case-insensitive labels",
			raw:        "description: stable masonry\nSCORE: 90\nmagnitude survivability: 8.0",
			wantScore:  intPtr(90),
			wantSurviv: strPtr("8.0"),
			wantDesc:   "stable masonry",
		},
		{
			name:       "safety score label variant",
			raw:        "Safety Score: 61/100\nEstimated Magnitude Survivability: 6.8\nDescription: some cracking",
			wantScore:  intPtr(61),
			wantSurviv: strPtr("6.8"),
			wantDesc:   "some cracking",
		},
		{
			name:      "missing survivability is tolerated",
			raw:       "Description: open courtyard\nScore: 75/100",
			wantScore: intPtr(75),
			wantDesc:  "open courtyard",
		},
		{
			name:      "unparseable survivability left absent",
			raw:       "Description: old beams\nScore: 30\nMagnitude Survivability: unknown",
			wantScore: intPtr(30),
			wantDesc:  "old beams",
		},
		{
			name:    "missing score is a hard failure",
			raw:     "Description: blocked stairwell\nMagnitude Survivability: 6.0",
			wantErr: true,
		},
		{
			name:    "non-numeric score is a hard failure",
			raw:     "Description: blocked stairwell\nScore: unknown",
			wantErr: true,
		},
		{
			name:    "out-of-range score is a hard failure",
			raw:     "Description: ok\nScore: 140/100",
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "whitespace-only input",
			raw:     "  \n\t\n",
			wantErr: true,
		},
		{
			name:         "single unlabeled line is a degraded record",
			raw:          "The structure looks generally sound.",
			wantDesc:     "The structure looks generally sound.",
			wantDegraded: true,
		},
		{
			name:    "multiple unlabeled lines without score fail",
			raw:     "The structure looks sound.\nNo visible hazards.",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAssessment(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseAssessment(%q) = %+v, want error", tc.raw, got)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("ParseAssessment(%q) error = %T, want *ParseError", tc.raw, err)
				}
				if parseErr.Raw != tc.raw {
					t.Errorf("ParseError.Raw = %q, want %q", parseErr.Raw, tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAssessment(%q) error: %v", tc.raw, err)
			}
			if !intPtrEq(got.Score, tc.wantScore) {
				t.Errorf("Score = %v, want %v", fmtIntPtr(got.Score), fmtIntPtr(tc.wantScore))
			}
			if !strPtrEq(got.MagnitudeSurvivability, tc.wantSurviv) {
				t.Errorf("MagnitudeSurvivability = %v, want %v",
					fmtStrPtr(got.MagnitudeSurvivability), fmtStrPtr(tc.wantSurviv))
			}
			if got.Description != tc.wantDesc {
				t.Errorf("Description = %q, want %q", got.Description, tc.wantDesc)
			}
			if got.Degraded != tc.wantDegraded {
				t.Errorf("Degraded = %v, want %v", got.Degraded, tc.wantDegraded)
			}
		})
	}
}

func TestParseAssessmentSectionedDescription(t *testing.T) {
	raw := "Score: 68/100\nMagnitude Survivability: 6.5-7.0\n\n" +
		"### Safety Features\n- Reinforced doorframes\n\n" +
		"### Potential Concerns\n- Heavy mirror above the bed"

	got, err := ParseAssessment(raw)
	if err != nil {
		t.Fatalf("ParseAssessment error: %v", err)
	}
	if got.Score == nil || *got.Score != 68 {
		t.Errorf("Score = %v, want 68", fmtIntPtr(got.Score))
	}
	if got.MagnitudeSurvivability == nil || *got.MagnitudeSurvivability != "7.0" {
		t.Errorf("MagnitudeSurvivability = %v, want 7.0", fmtStrPtr(got.MagnitudeSurvivability))
	}
	if got.Description == "" {
		t.Fatal("Description is empty, want section text")
	}
	for _, want := range []string{"Safety Features", "Potential Concerns", "Reinforced doorframes"} {
		if !strings.Contains(got.Description, want) {
			t.Errorf("Description %q does not contain %q", got.Description, want)
		}
	}
}

func TestParseAssessmentDeterministic(t *testing.T) {
	raw := "Description: clear exits\nScore: 82/100\nMagnitude Survivability: 7.0-7.5"

	first, err := ParseAssessment(raw)
	if err != nil {
		t.Fatalf("first ParseAssessment error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ParseAssessment(raw)
		if err != nil {
			t.Fatalf("repeat ParseAssessment error: %v", err)
		}
		if *again.Score != *first.Score ||
			*again.MagnitudeSurvivability != *first.MagnitudeSurvivability ||
			again.Description != first.Description ||
			again.Degraded != first.Degraded {
			t.Fatalf("iteration %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestSplitChatReply(t *testing.T) {
	testCases := []struct {
		name string
		raw  string

		wantAnswer string
		wantTiming string
		wantErr    bool
	}{
		{
			name:       "answer with blank separator line",
			raw:        "Drop and cover.\n\nTiming: during",
			wantAnswer: "Drop and cover.",
			wantTiming: "during",
		},
		{
			name:       "no blank line before tag",
			raw:        "Stock water and food supplies.\nTiming: before",
			wantAnswer: "Stock water and food supplies.",
			wantTiming: "before",
		},
		{
			name:       "tag with markdown emphasis",
			raw:        "Check for gas leaks.\n\n**Timing: after**",
			wantAnswer: "Check for gas leaks.",
			wantTiming: "after",
		},
		{
			name:       "trailing whitespace after tag",
			raw:        "Hold on to something sturdy.\n\nTiming: during\n\n",
			wantAnswer: "Hold on to something sturdy.",
			wantTiming: "during",
		},
		{
			name:    "missing timing line",
			raw:     "Drop and cover.",
			wantErr: true,
		},
		{
			name:    "unknown timing token",
			raw:     "Drop and cover.\n\nTiming: whenever",
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			answer, timing, err := SplitChatReply(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("SplitChatReply(%q) = (%q, %q), want error", tc.raw, answer, timing)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("SplitChatReply(%q) error = %T, want *ParseError", tc.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitChatReply(%q) error: %v", tc.raw, err)
			}
			if answer != tc.wantAnswer {
				t.Errorf("answer = %q, want %q", answer, tc.wantAnswer)
			}
			if timing != tc.wantTiming {
				t.Errorf("timing = %q, want %q", timing, tc.wantTiming)
			}
		})
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtIntPtr(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func fmtStrPtr(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
