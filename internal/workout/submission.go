package workout

import (
	"math"
	"strconv"
	"strings"
)

// Submission holds raw form values as typed by the user.
type Submission struct {
	Kind      string
	Distance  string
	Duration  string
	Secondary string
}

// ParseSubmission converts raw form values into an Input at coords. Numbers
// that fail to parse become NaN so that validation reports them together with
// every other bad field; an unknown kind is left empty for the same reason.
func ParseSubmission(sub Submission, coords Coordinates) Input {
	kind, err := ParseKind(sub.Kind)
	if err != nil {
		kind = ""
	}
	return Input{
		Kind:      kind,
		Coords:    coords,
		Distance:  parseNumber(sub.Distance),
		Duration:  parseNumber(sub.Duration),
		Secondary: parseNumber(sub.Secondary),
	}
}

func parseNumber(raw string) float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
