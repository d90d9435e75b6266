package main

import (
	"strings"
)

// submissionOutcome is the server's verdict on a submitted answer.
type submissionOutcome int

const (
	outcomeCorrect submissionOutcome = iota + 1
	outcomeIncorrect
	outcomeRateLimited
	outcomeWrongPart
)

func (o submissionOutcome) String() string {
	switch o {
	case outcomeCorrect:
		return "correct"
	case outcomeIncorrect:
		return "incorrect"
	case outcomeRateLimited:
		return "rate limited"
	case outcomeWrongPart:
		return "wrong part"
	default:
		return "unknown"
	}
}

// Response markers, exactly as the server phrases them.
var outcomeMarkers = []struct {
	marker  string
	outcome submissionOutcome
}{
	{"That's the right answer", outcomeCorrect},
	{"That's not the right answer", outcomeIncorrect},
	{"You gave an answer too recently", outcomeRateLimited},
	{"You don't seem to be solving the right level", outcomeWrongPart},
}

// classifyOutcome maps a submission response fragment to its verdict.
func classifyOutcome(fragment string) (submissionOutcome, error) {
	for _, m := range outcomeMarkers {
		if strings.Contains(fragment, m.marker) {
			return m.outcome, nil
		}
	}
	return 0, errUnparseableResponse
}

// puzzlePart selects which half of a puzzle an answer is for.
type puzzlePart int

const (
	partOne puzzlePart = 1
	partTwo puzzlePart = 2
)

func parsePuzzlePart(s string) (puzzlePart, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return partOne, nil
	case "2":
		return partTwo, nil
	default:
		return 0, markf(errInvalidPuzzlePart, "invalid puzzle part %q: must be 1 or 2", s)
	}
}
