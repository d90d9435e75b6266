package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Error kinds. Concrete errors are marked with one of these so callers can
// match them with errors.Is while the message keeps the specifics.
var (
	errInvalidEventYear       = errors.New("invalid event year")
	errInvalidPuzzleDay       = errors.New("invalid puzzle day")
	errLockedPuzzle           = errors.New("puzzle is still locked")
	errDayNotInferable        = errors.New("day could not be inferred")
	errNoUnlockedDay          = errors.New("no unlocked day")
	errSessionFileNotFound    = errors.New("session cookie file not found in home or config directory")
	errSessionFileRead        = errors.New("failed to read session cookie file")
	errInvalidSessionCookie   = errors.New("invalid session cookie")
	errContentNotFound        = errors.New("main content not found in response")
	errUnparseableResponse    = errors.New("failed to parse Advent of Code response")
	errLeaderboardUnavailable = errors.New("the private leaderboard does not exist or you are not a member")
	errInvalidOutputWidth     = errors.New("output width must be greater than zero")
	errInvalidPuzzlePart      = errors.New("invalid puzzle part number")
	errFileWrite              = errors.New("failed to write file")
)

// staleCookieHint is attached to HTTP failures that carry no domain meaning.
const staleCookieHint = "your session cookie may be invalid or expired; log in again and refresh it"

// apiError represents an unexpected HTTP status from the server.
type apiError struct {
	StatusCode int
	URL        string
	Body       []byte
}

func (e *apiError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.URL)
}

// excerpt returns the start of the response body on a single line.
func (e *apiError) excerpt() string {
	const limit = 200
	body := strings.Join(strings.Fields(string(e.Body)), " ")
	if len(body) > limit {
		body = body[:limit] + "..."
	}
	return body
}

// markf builds a formatted error tagged with the given kind.
func markf(kind error, format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), kind)
}
