package degree

import (
	"fmt"
	"strings"
)

// Completion is the progress state of one degree course record.
type Completion string

const (
	Complete             Completion = "Complete"
	InProgress           Completion = "In Progress"
	ReadyToTake          Completion = "Incomplete (Ready to take)"
	MissingPrerequisites Completion = "Incomplete (missing prerequisites)"
)

// cycle is the order the manual toggle walks through.
var cycle = []Completion{Complete, MissingPrerequisites, ReadyToTake, InProgress}

// Valid reports whether c is one of the four known states.
func (c Completion) Valid() bool {
	for _, s := range cycle {
		if s == c {
			return true
		}
	}
	return false
}

// Next returns the state after c in the manual cycle. Unknown states restart
// the cycle at Complete.
func (c Completion) Next() Completion {
	for i, s := range cycle {
		if s == c {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// Counts reports whether the course counts as taken for prerequisite checks.
func (c Completion) Counts() bool {
	return c == Complete || c == InProgress
}

// Style holds the colours and glyph a renderer uses for a state.
type Style struct {
	Bright string
	Dark   string
	Glyph  string
}

func (c Completion) Style() Style {
	switch c {
	case Complete:
		return Style{Bright: "#88FF88", Dark: "#88CC88", Glyph: "✓"}
	case InProgress:
		return Style{Bright: "#FFFF88", Dark: "#CCCC88", Glyph: "≈"}
	case MissingPrerequisites:
		return Style{Bright: "#FF8888", Dark: "#CC8888", Glyph: "✕"}
	default:
		return Style{Bright: "#888899", Dark: "#8888CC", Glyph: "–"}
	}
}

// ParseCompletion accepts either the full state name or a short alias:
// complete, in-progress, ready, missing.
func ParseCompletion(s string) (Completion, error) {
	if c := Completion(s); c.Valid() {
		return c, nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "complete", "done":
		return Complete, nil
	case "in-progress", "inprogress", "progress":
		return InProgress, nil
	case "ready", "ready-to-take":
		return ReadyToTake, nil
	case "missing", "missing-prerequisites", "blocked":
		return MissingPrerequisites, nil
	}
	return "", fmt.Errorf("unknown completion state %q", s)
}
