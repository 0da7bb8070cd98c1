package models

import (
	"fmt"
	"strings"
)

// Confidence is an ordered confidence level
type Confidence string

const (
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVeryHigh Confidence = "very_high"
)

var confidenceLevels = []Confidence{
	ConfidenceLow,
	ConfidenceMedium,
	ConfidenceHigh,
	ConfidenceVeryHigh,
}

var confidenceIcons = map[Confidence]string{
	ConfidenceLow:      "🔴",
	ConfidenceMedium:   "🟡",
	ConfidenceHigh:     "🟢",
	ConfidenceVeryHigh: "🟢🟢",
}

// ParseConfidence accepts "Low", "medium", "Very High", "VeryHigh", "very_high", ...
func ParseConfidence(s string) (Confidence, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(normalized)

	switch normalized {
	case "low":
		return ConfidenceLow, nil
	case "medium", "moderate":
		return ConfidenceMedium, nil
	case "high":
		return ConfidenceHigh, nil
	case "veryhigh":
		return ConfidenceVeryHigh, nil
	}
	return "", fmt.Errorf("unknown confidence level: %q", s)
}

// Valid reports whether c is a known level
func (c Confidence) Valid() bool {
	return c.level() >= 0
}

func (c Confidence) level() int {
	for i, l := range confidenceLevels {
		if l == c {
			return i
		}
	}
	return -1
}

// Promote moves one level up, capped at VeryHigh
func (c Confidence) Promote() Confidence {
	i := c.level()
	if i < 0 {
		return ConfidenceMedium
	}
	if i+1 >= len(confidenceLevels) {
		return ConfidenceVeryHigh
	}
	return confidenceLevels[i+1]
}

// Demote moves one level down, floored at Low
func (c Confidence) Demote() Confidence {
	i := c.level()
	if i <= 0 {
		return ConfidenceLow
	}
	return confidenceLevels[i-1]
}

// Lower returns the lower of two levels
func (c Confidence) Lower(other Confidence) Confidence {
	if other.level() < c.level() {
		return other
	}
	return c
}

// Icon is the presentation glyph for the level
func (c Confidence) Icon() string {
	if icon, ok := confidenceIcons[c]; ok {
		return icon
	}
	return confidenceIcons[ConfidenceMedium]
}
