package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color modes accepted by --color and the config file.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// Star colors.
var (
	colorGold     = lipgloss.Color("3")
	colorSilver   = lipgloss.Color("#a0a0a0")
	colorDarkGray = lipgloss.Color("#606060")
)

// palette renders terminal colors, or plain text when colors are off.
type palette struct {
	enabled bool
	profile termenv.Profile
	r       *lipgloss.Renderer
}

func newPalette(enabled bool) palette {
	profile := termenv.Ascii
	if enabled {
		profile = termenv.TrueColor
	}
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	return palette{enabled: enabled, profile: profile, r: r}
}

// colorEnabled resolves a color mode against the output stream.
func colorEnabled(mode string, out *os.File) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return out != nil && term.IsTerminal(int(out.Fd()))
}

func (p palette) fg(c lipgloss.Color, s string) string {
	return p.r.NewStyle().Foreground(c).Render(s)
}

func (p palette) gold(s string) string     { return p.fg(colorGold, s) }
func (p palette) silver(s string) string   { return p.fg(colorSilver, s) }
func (p palette) darkGray(s string) string { return p.fg(colorDarkGray, s) }

func (p palette) bold(s string) string {
	return p.r.NewStyle().Bold(true).Render(s)
}

// rgb wraps s verbatim in a 24-bit foreground sequence. Unlike lipgloss
// styles it never pads or rewraps multi-line text.
func (p palette) rgb(hex, s string) string {
	if !p.enabled {
		return s
	}
	return p.profile.String(s).Foreground(p.profile.Color("#" + hex)).String()
}
