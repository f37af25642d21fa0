package models

import (
	"fmt"
	"math"
	"strings"
)

// Label is one of the six canonical emotion tags.
type Label string

const (
	LabelHappy   Label = "Happy"
	LabelSad     Label = "Sad"
	LabelAngry   Label = "Angry"
	LabelWorried Label = "Worried"
	LabelExcited Label = "Excited"
	LabelCalm    Label = "Calm"
)

// Labels lists every canonical label in stats order.
var Labels = []Label{LabelHappy, LabelSad, LabelAngry, LabelWorried, LabelExcited, LabelCalm}

// ParseLabel normalizes case ("happy" -> Happy) and rejects anything outside
// the canonical set.
func ParseLabel(s string) (Label, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", fmt.Errorf("label is empty")
	}
	title := strings.ToUpper(t[:1]) + strings.ToLower(t[1:])
	for _, l := range Labels {
		if Label(title) == l {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown label %q", s)
}

// ClampConfidence clamps a confidence score to [0, 1].
// Non-finite values become 0.
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
