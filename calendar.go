package main

import (
	"regexp"
	"strings"
)

// noiseRule removes one yearly calendar decoration that only renders in a
// browser.
type noiseRule struct {
	name    string
	pattern *regexp.Regexp
}

func (r noiseRule) apply(html string) string {
	return r.pattern.ReplaceAllString(html, "")
}

// calendarNoise is applied in order. New yearly gimmicks go at the end.
var calendarNoise = []noiseRule{
	{
		name:    "2015 background",
		pattern: regexp.MustCompile(`<div class="calendar-bkg">[[:space:]]*(?:<div>[^<]*</div>[[:space:]]*)*</div>`),
	},
	{
		name:    "2017 naughty/nice printer",
		pattern: regexp.MustCompile(`<div class="calendar-printer">(?s:.)*\|O\|</span></div>[[:space:]]*`),
	},
	{
		name:    "2018 space mug",
		pattern: regexp.MustCompile(`<pre id="spacemug"[^>]*>[^<]*</pre>`),
	},
	{
		name:    "2019 shadows",
		pattern: regexp.MustCompile(`<span style="color[^>]*position:absolute[^>]*>\.</span>`),
	},
	{
		name:    "2019 sunbeam",
		pattern: regexp.MustCompile(`<span class="sunbeam"[^>]*><span style="animation-delay[^>]*>\*</span></span>`),
	},
}

func stripCalendarNoise(html string) string {
	for _, rule := range calendarNoise {
		html = rule.apply(html)
	}
	return html
}

// starLevel is how much of a day has been completed.
type starLevel int

const (
	starsNone starLevel = iota
	starsOne
	starsTwo
)

var (
	reAnchorClass = regexp.MustCompile(`<a [^>]*class="([^"]*)"`)
	reStarMarker  = regexp.MustCompile(`<span class="calendar-mark-complete">\*</span><span class="calendar-mark-verycomplete">\*</span>`)
)

// perfectCalendarClass marks a calendar where every star was collected.
const perfectCalendarClass = "calendar calendar-perfect"

// calendarLine is one line of calendar markup and its completion.
type calendarLine struct {
	markup     string
	completion starLevel
}

func newCalendarLine(markup string, perfect bool) calendarLine {
	class := ""
	if m := reAnchorClass.FindStringSubmatch(markup); m != nil {
		class = m[1]
	}

	level := starsNone
	switch {
	case perfect || strings.Contains(class, "calendar-verycomplete"):
		level = starsTwo
	case strings.Contains(class, "calendar-complete"):
		level = starsOne
	}
	return calendarLine{markup: markup, completion: level}
}

// render replaces the first star marker with the collected stars.
func (l calendarLine) render(p palette) string {
	loc := reStarMarker.FindStringIndex(l.markup)
	if loc == nil {
		return l.markup
	}

	stars := ""
	switch l.completion {
	case starsTwo:
		stars = p.gold("**")
	case starsOne:
		stars = p.gold("*")
	}
	return l.markup[:loc[0]] + stars + l.markup[loc[1]:]
}

// cleanCalendar strips decorations from the main fragment of a calendar page
// and keeps only the stars that were actually collected.
func cleanCalendar(fragment string, p palette) string {
	perfect := strings.Contains(fragment, perfectCalendarClass)
	lines := strings.Split(stripCalendarNoise(fragment), "\n")
	for i, line := range lines {
		lines[i] = newCalendarLine(line, perfect).render(p)
	}
	return strings.Join(lines, "\n")
}

var reColorRule = regexp.MustCompile(`\.calendar \.(calendar-color-[^ ]+) \{ color:#([0-9a-f]{6})`)

// recolorCalendar applies the page's per-class color rules to the text of
// every span carrying that class.
func recolorCalendar(html string, p palette) string {
	if !p.enabled {
		return html
	}

	seen := make(map[string]bool)
	for _, m := range reColorRule.FindAllStringSubmatch(html, -1) {
		class, hex := m[1], m[2]
		if seen[class] {
			continue
		}
		seen[class] = true

		re, err := regexp.Compile(`(<span class="` + regexp.QuoteMeta(class) + `">)([^<]*)(</span>)`)
		if err != nil {
			continue
		}
		html = re.ReplaceAllStringFunc(html, func(span string) string {
			sm := re.FindStringSubmatch(span)
			return sm[1] + p.rgb(hex, sm[2]) + sm[3]
		})
	}
	return html
}

var reLoginLink = regexp.MustCompile(`href="/[0-9]{4}/auth/login"`)

// looksLoggedOut reports whether a page offers a login link.
func looksLoggedOut(page string) bool {
	return reLoginLink.MatchString(page)
}

// renderCalendar turns a full calendar page into terminal text.
func renderCalendar(page string, p palette, width int) (string, error) {
	fragment, err := extractMain(page)
	if err != nil {
		return "", err
	}
	html := recolorCalendar(cleanCalendar(fragment, p), p)
	return renderColorful(html, width), nil
}
