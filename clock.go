package main

import (
	"fmt"
	"time"
)

// Event calendar constants.
const (
	firstEventYear = 2015
	eventMonth     = time.December
	firstPuzzleDay = 1
	lastPuzzleDay  = 25
)

// releaseZone is the fixed offset in which puzzles unlock at midnight.
var releaseZone = time.FixedZone("UTC-5", -5*60*60)

// puzzleDate identifies one puzzle of one event.
type puzzleDate struct {
	year int
	day  int
}

// newPuzzleDate validates the year and day of a puzzle.
func newPuzzleDate(year, day int) (puzzleDate, error) {
	if year < firstEventYear {
		return puzzleDate{}, markf(errInvalidEventYear, "%d is not a valid Advent of Code year", year)
	}
	if day < firstPuzzleDay || day > lastPuzzleDay {
		return puzzleDate{}, markf(errInvalidPuzzleDay, "%d is not a valid Advent of Code day", day)
	}
	return puzzleDate{year: year, day: day}, nil
}

func (d puzzleDate) String() string {
	return fmt.Sprintf("day %d of %d", d.day, d.year)
}

// unlockTime returns the instant the puzzle becomes available.
func (d puzzleDate) unlockTime() time.Time {
	return time.Date(d.year, eventMonth, d.day, 0, 0, 0, 0, releaseZone)
}

// isUnlocked reports whether the puzzle is available at now.
func isUnlocked(d puzzleDate, now time.Time) bool {
	return !now.Truncate(time.Millisecond).Before(d.unlockTime())
}

// latestEventYear returns the year of the current or most recent event.
func latestEventYear(now time.Time) int {
	local := now.In(releaseZone)
	if local.Month() < eventMonth {
		return local.Year() - 1
	}
	return local.Year()
}

// currentEventDay returns today's puzzle day when the event of year is
// running, capped at the last puzzle day.
func currentEventDay(now time.Time, year int) (int, bool) {
	local := now.In(releaseZone)
	if local.Year() != year || local.Month() != eventMonth {
		return 0, false
	}
	return min(max(local.Day(), firstPuzzleDay), lastPuzzleDay), true
}

// lastUnlockedDay returns the most recent puzzle day available for year.
func lastUnlockedDay(year int, now time.Time) (int, error) {
	if day, ok := currentEventDay(now, year); ok {
		return day, nil
	}
	if year >= firstEventYear && year < now.In(releaseZone).Year() {
		return lastPuzzleDay, nil
	}
	return 0, markf(errNoUnlockedDay, "no puzzle of %d has been unlocked yet", year)
}

// resolveEventYear defaults a zero year to the latest event.
func resolveEventYear(year int, now time.Time) (int, error) {
	if year == 0 {
		year = latestEventYear(now)
	}
	if year < firstEventYear {
		return 0, markf(errInvalidEventYear, "%d is not a valid Advent of Code year", year)
	}
	return year, nil
}

// resolvePuzzleDate fills in a missing year or day from now and ensures the
// resulting puzzle is unlocked. A zero year or day means "not given".
func resolvePuzzleDate(year, day int, now time.Time) (puzzleDate, error) {
	year, err := resolveEventYear(year, now)
	if err != nil {
		return puzzleDate{}, err
	}
	if day == 0 {
		inferred, ok := currentEventDay(now, year)
		if !ok {
			return puzzleDate{}, markf(errDayNotInferable, "day could not be inferred for %d; pass --day", year)
		}
		day = inferred
	}

	d, err := newPuzzleDate(year, day)
	if err != nil {
		return puzzleDate{}, err
	}
	if !isUnlocked(d, now) {
		return puzzleDate{}, markf(errLockedPuzzle, "puzzle %d of %d is still locked", day, year)
	}
	return d, nil
}
