// Package validation scores and validates free-text advisor responses.
// Everything here is a pure function of the input text so scores are
// reproducible at any later point.
package validation

import (
	"strings"
	"unicode"
)

const (
	// A response passes the length gate with either enough characters or
	// enough words; terse multi-word answers are acceptable, one-liners are not.
	minResponseChars = 40
	minResponseWords = 8

	// Length credit saturates here; longer text stops adding score.
	qualitySaturationChars = 300
	qualitySaturationSentences = 4
)

// exampleMarkers are phrasings that signal a concrete example is being given.
var exampleMarkers = []string{
	"for example",
	"for instance",
	"e.g.",
	"such as",
	"specifically",
	"one time",
	"an example",
	"last year",
	"last quarter",
	"in one project",
}

// TextValidation is the outcome of ValidateResponseText.
type TextValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateResponseText rejects empty and too-short responses. The result is
// deterministic for a given input.
func ValidateResponseText(text string) TextValidation {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return TextValidation{Errors: []string{"response text is required"}}
	}

	if len(trimmed) < minResponseChars && wordCount(trimmed) < minResponseWords {
		return TextValidation{Errors: []string{"response is too short; add more detail or a concrete example"}}
	}

	return TextValidation{IsValid: true, Errors: []string{}}
}

// CalculateResponseQuality estimates the richness of a response on [0,1].
// The score grows with length (diminishing past the saturation point),
// multi-sentence structure, example phrasing and quantified results. It is a
// pure function of the text and is computed exactly once, at submission.
func CalculateResponseQuality(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	score := 0.35 * capRatio(float64(len(trimmed)), qualitySaturationChars)
	score += 0.25 * capRatio(float64(sentenceCount(trimmed)), qualitySaturationSentences)

	lower := strings.ToLower(trimmed)
	if hasExampleMarker(lower) {
		score += 0.2
	}
	if hasDigit(trimmed) {
		score += 0.2
	}

	if score > 1 {
		return 1
	}
	return score
}

func capRatio(v, saturation float64) float64 {
	r := v / saturation
	if r > 1 {
		return 1
	}
	return r
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// sentenceCount counts terminated segments carrying at least a few words, so
// "ok" or "Good worker." do not earn multi-sentence credit.
func sentenceCount(s string) int {
	segments := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	count := 0
	for _, seg := range segments {
		if len(strings.Fields(seg)) >= 4 {
			count++
		}
	}
	return count
}

func hasExampleMarker(lower string) bool {
	for _, marker := range exampleMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
