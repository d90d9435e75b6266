package main

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// privateLeaderboard is the JSON snapshot of a private leaderboard.
type privateLeaderboard struct {
	OwnerID uint64            `json:"owner_id"`
	Members map[string]member `json:"members"`
}

// member is one participant of a private leaderboard. Completion is keyed by
// day and then by star index ("1", "2").
type member struct {
	ID                 uint64                         `json:"id"`
	Name               *string                        `json:"name"`
	LocalScore         uint64                         `json:"local_score"`
	CompletionDayLevel map[string]map[string]struct{} `json:"completion_day_level"`
}

// displayName returns the member's name or an anonymous placeholder.
func (m member) displayName() string {
	if m.Name != nil && *m.Name != "" {
		return *m.Name
	}
	return fmt.Sprintf("(anonymous user #%d)", m.ID)
}

// countStars returns how many stars the member collected on day.
func (m member) countStars(day int) int {
	return len(m.CompletionDayLevel[strconv.Itoa(day)])
}

// ownerName resolves the display name of the leaderboard owner.
func (lb privateLeaderboard) ownerName() (string, error) {
	if m, ok := lb.Members[strconv.FormatUint(lb.OwnerID, 10)]; ok {
		return m.displayName(), nil
	}
	for _, m := range lb.Members {
		if m.ID == lb.OwnerID {
			return m.displayName(), nil
		}
	}
	return "", markf(errUnparseableResponse, "leaderboard owner %d is not among its members", lb.OwnerID)
}

// compareMembers orders members by score, then id, both descending.
func compareMembers(a, b member) int {
	if c := cmp.Compare(b.LocalScore, a.LocalScore); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// rankedMembers returns the members in standing order; rank is index + 1.
func (lb privateLeaderboard) rankedMembers() []member {
	members := make([]member, 0, len(lb.Members))
	for _, m := range lb.Members {
		members = append(members, m)
	}
	slices.SortFunc(members, compareMembers)
	return members
}

// Day-of-month header rows: tens digits, then units digits.
var leaderboardHeader = [2]string{
	"         1111111111222222",
	"1234567890123456789012345",
}

// formatLeaderboard renders the standings of lb for year with days after
// lastDay shown as not yet unlocked.
func formatLeaderboard(lb privateLeaderboard, year, lastDay int, p palette) (string, error) {
	owner, err := lb.ownerName()
	if err != nil {
		return "", err
	}
	lastDay = min(max(lastDay, 0), lastPuzzleDay)
	members := lb.rankedMembers()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Private leaderboard of %s for Advent of Code %s.\n\n", p.bold(owner), p.bold(strconv.Itoa(year)))
	fmt.Fprintf(&sb, "%s indicates the user got both stars for that day,\n", p.gold("Gold *"))
	fmt.Fprintf(&sb, "%s means just the first star, and a %s means none.\n\n", p.silver("silver *"), p.darkGray("gray dot (.)"))

	scoreWidth, rankWidth := 1, len(strconv.Itoa(len(members)))
	for _, m := range members {
		scoreWidth = max(scoreWidth, len(strconv.FormatUint(m.LocalScore, 10)))
	}

	pad := strings.Repeat(" ", rankWidth+scoreWidth)
	for _, header := range leaderboardHeader {
		on, off := header[:lastDay], header[lastDay:]
		sb.WriteString(pad + "   " + on)
		if off != "" {
			sb.WriteString(p.darkGray(off))
		}
		sb.WriteString("\n")
	}

	for i, m := range members {
		fmt.Fprintf(&sb, "%*d) %*d %s  %s\n", rankWidth, i+1, scoreWidth, m.LocalScore, starStrip(m, lastDay, p), m.displayName())
	}
	return sb.String(), nil
}

// starStrip renders one cell per puzzle day.
func starStrip(m member, lastDay int, p palette) string {
	var sb strings.Builder
	for day := firstPuzzleDay; day <= lastPuzzleDay; day++ {
		if day > lastDay {
			sb.WriteString(" ")
			continue
		}
		switch m.countStars(day) {
		case 2:
			sb.WriteString(p.gold("*"))
		case 1:
			sb.WriteString(p.silver("*"))
		default:
			sb.WriteString(p.darkGray("."))
		}
	}
	return sb.String()
}
