package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSite serves the handful of pages the commands need for 2020.
func fakeSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/2020", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html><body><main>\n"+
			`<pre class="calendar">`+
			`<a href="/2020/day/1" class="calendar-day1 calendar-verycomplete">Art1 <span class="calendar-day"> 1</span> `+starMarker+"</a>\n"+
			"</pre>\n</main></body></html>")
	})
	mux.HandleFunc("/2020/day/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><main><article class="day-desc"><h2>--- Day 1: Report Repair ---</h2><p>Find the two entries.</p></article></main></body></html>`)
	})
	mux.HandleFunc("/2020/day/1/input", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "1721\n979\n")
	})
	mux.HandleFunc("/2020/day/1/answer", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("answer") == "514579" {
			_, _ = io.WriteString(w, "<main><article><p>That's the right answer!</p></article></main>")
			return
		}
		_, _ = io.WriteString(w, "<main><article><p>That's not the right answer.</p></article></main>")
	})
	mux.HandleFunc("/2020/leaderboard/private/view/123.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"owner_id": 1, "members": {"1": {"id": 1, "name": "Alice", "local_score": 3, "completion_day_level": {"1": {"1": {}, "2": {}}}}}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type runEnv struct {
	dir     string
	config  string
	session string
}

func newRunEnv(t *testing.T, baseURL string) runEnv {
	t.Helper()
	dir := t.TempDir()
	env := runEnv{
		dir:     dir,
		config:  filepath.Join(dir, configFileName),
		session: filepath.Join(dir, sessionFileName),
	}
	require.NoError(t, os.WriteFile(env.config, []byte(`{"base_url": "`+baseURL+`", "color": "never"}`), 0o600))
	require.NoError(t, os.WriteFile(env.session, []byte("abc123\n"), 0o600))
	return env
}

func (e runEnv) run(t *testing.T, now time.Time, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	args = append([]string{"--config=" + e.config, "--session-file=" + e.session, "--width=80"}, args...)
	err := run(context.Background(), newLoggerTo(io.Discard, true), args, now, &out)
	return out.String(), err
}

var october2026 = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

func TestRun_Calendar(t *testing.T) {
	env := newRunEnv(t, fakeSite(t).URL)

	out, err := env.run(t, october2026, "calendar", "--year", "2020")
	require.NoError(t, err)
	assert.Contains(t, out, "Art1  1 **")
	assert.NotContains(t, out, "\x1b[")
}

func TestRun_Read(t *testing.T) {
	env := newRunEnv(t, fakeSite(t).URL)

	out, err := env.run(t, october2026, "--year", "2020", "--day", "1")
	require.NoError(t, err)
	assert.Equal(t, "\n--- Day 1: Report Repair ---\n\nFind the two entries.\n", out)

	out, err = env.run(t, october2026, "read", "-y", "2020", "-d", "1", "--show-html-markup")
	require.NoError(t, err)
	assert.Contains(t, out, "Report Repair")
}

func TestRun_Download(t *testing.T) {
	env := newRunEnv(t, fakeSite(t).URL)
	input := filepath.Join(env.dir, "input.txt")
	puzzle := filepath.Join(env.dir, "puzzle.md")

	_, err := env.run(t, october2026, "download", "-y", "2020", "-d", "1", "-i", input, "-p", puzzle)
	require.NoError(t, err)

	b, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, "1721\n979\n", string(b))
	b, err = os.ReadFile(puzzle)
	require.NoError(t, err)
	assert.Equal(t, "## --- Day 1: Report Repair ---\n\nFind the two entries.\n", string(b))

	_, err = env.run(t, october2026, "download", "-y", "2020", "-d", "1", "-i", input, "-p", puzzle)
	assert.True(t, errors.Is(err, errFileWrite))

	_, err = env.run(t, october2026, "download", "-y", "2020", "-d", "1", "-i", input, "-p", puzzle, "--overwrite", "--input-only")
	assert.NoError(t, err)
}

func TestRun_Submit(t *testing.T) {
	env := newRunEnv(t, fakeSite(t).URL)

	out, err := env.run(t, october2026, "submit", "1", "514579", "-y", "2020", "-d", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "That's the right answer!")

	out, err = env.run(t, october2026, "s", "1", "42", "-y", "2020", "-d", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "That's not the right answer.")

	_, err = env.run(t, october2026, "submit", "3", "42", "-y", "2020", "-d", "1")
	assert.True(t, errors.Is(err, errInvalidPuzzlePart))
}

func TestRun_PrivateLeaderboard(t *testing.T) {
	env := newRunEnv(t, fakeSite(t).URL)

	out, err := env.run(t, october2026, "private-leaderboard", "123", "--year", "2020")
	require.NoError(t, err)
	assert.Contains(t, out, "Private leaderboard of Alice for Advent of Code 2020.")
	assert.Contains(t, out, "1) 3 *"+strings.Repeat(".", 24)+"  Alice\n")

	_, err = env.run(t, october2026, "private-leaderboard", "abc", "--year", "2020")
	assert.Error(t, err)

	_, err = env.run(t, october2026, "private-leaderboard", "123", "--year", "2026")
	assert.True(t, errors.Is(err, errInvalidEventYear))
}

func TestRun_Errors(t *testing.T) {
	env := newRunEnv(t, fakeSite(t).URL)

	_, err := env.run(t, october2026, "read", "--year", "2020")
	assert.True(t, errors.Is(err, errDayNotInferable))

	_, err = env.run(t, october2026, "read", "--year", "2020", "--day", "1", "--width", "0")
	assert.True(t, errors.Is(err, errInvalidOutputWidth))

	_, err = env.run(t, time.Date(2025, time.December, 5, 12, 0, 0, 0, time.UTC), "read", "--day", "6")
	assert.True(t, errors.Is(err, errLockedPuzzle))

	_, err = env.run(t, october2026, "read", "--quiet", "--debug")
	assert.Error(t, err)

	_, err = env.run(t, october2026, "download", "--input-only", "--puzzle-only")
	assert.Error(t, err)

	_, err = env.run(t, october2026, "read", "--color", "rainbow", "--year", "2020", "--day", "1")
	assert.Error(t, err)
}
