package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// Content types sent with each kind of request.
const (
	contentHTML = "text/html"
	contentText = "text/plain"
	contentForm = "application/x-www-form-urlencoded"
	contentJSON = "application/json"
)

// apiClient handles HTTP communication with the event website.
type apiClient struct {
	baseURL   string
	session   string
	userAgent string
	http      *http.Client
	log       *logger
}

// newAPIClient creates a client that never follows redirects: a redirect is
// how the server says a resource is not accessible.
func newAPIClient(cfg appConfig, session string, log *logger) (*apiClient, error) {
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.Wrap(err, "invalid base_url")
	}
	c := &apiClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		session:   strings.TrimSpace(session),
		userAgent: cfg.UserAgent,
		log:       log,
		http: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	if c.userAgent == "" {
		c.userAgent = defaultUA
	}
	return c, nil
}

// do performs a request and returns the status code and body. It does not
// judge the status; callers decide which codes carry meaning.
func (c *apiClient) do(ctx context.Context, method, path, contentType string, body io.Reader) (int, []byte, error) {
	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Cookie", "session="+c.session)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	c.log.debugf("%s %s", method, reqURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, errors.WithHint(errors.Wrapf(err, "%s %s", method, reqURL), staleCookieHint)
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "read response")
	}
	c.log.debugf("%s %s -> %d (%d bytes)", method, reqURL, resp.StatusCode, len(b))
	return resp.StatusCode, b, nil
}

// fetch performs a request and treats anything but 2xx as a failure.
func (c *apiClient) fetch(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	status, b, err := c.do(ctx, method, path, contentType, body)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(status, path, b); err != nil {
		return nil, err
	}
	return b, nil
}

// checkStatus turns a non-2xx status into a hinted *apiError.
func (c *apiClient) checkStatus(status int, path string, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	ae := &apiError{StatusCode: status, URL: c.baseURL + path, Body: body}
	c.log.debugf("unexpected response from %s: %s", ae.URL, ae.excerpt())
	return errors.WithHint(ae, staleCookieHint)
}

// puzzleHTML fetches the main fragment of a puzzle page.
func (c *apiClient) puzzleHTML(ctx context.Context, d puzzleDate) (string, error) {
	c.log.debugf("fetching puzzle for %s", d)
	b, err := c.fetch(ctx, http.MethodGet, fmt.Sprintf("/%d/day/%d", d.year, d.day), contentHTML, nil)
	if err != nil {
		return "", err
	}
	return extractMain(string(b))
}

// input fetches the puzzle input.
func (c *apiClient) input(ctx context.Context, d puzzleDate) (string, error) {
	c.log.debugf("fetching input for %s", d)
	b, err := c.fetch(ctx, http.MethodGet, fmt.Sprintf("/%d/day/%d/input", d.year, d.day), contentText, nil)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// submitAnswer posts an answer and returns the main fragment of the reply.
func (c *apiClient) submitAnswer(ctx context.Context, d puzzleDate, part puzzlePart, answer string) (string, error) {
	c.log.debugf("submitting answer for part %d, %s", part, d)
	form := url.Values{}
	form.Set("level", fmt.Sprint(int(part)))
	form.Set("answer", answer)
	b, err := c.fetch(ctx, http.MethodPost, fmt.Sprintf("/%d/day/%d/answer", d.year, d.day), contentForm, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	return extractMain(string(b))
}

// calendarPage fetches the full calendar page of year. A 404 means the
// event does not exist (yet).
func (c *apiClient) calendarPage(ctx context.Context, year int) (string, error) {
	c.log.debugf("fetching %d calendar", year)
	path := fmt.Sprintf("/%d", year)
	status, b, err := c.do(ctx, http.MethodGet, path, contentHTML, nil)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", markf(errInvalidEventYear, "%d is not a valid Advent of Code year", year)
	}
	if err := c.checkStatus(status, path, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// privateLeaderboard fetches and decodes a private leaderboard. The server
// redirects (302) when it does not exist or the user is not a member.
func (c *apiClient) privateLeaderboard(ctx context.Context, year int, id uint64) (privateLeaderboard, error) {
	c.log.debugf("fetching private leaderboard %d", id)
	path := fmt.Sprintf("/%d/leaderboard/private/view/%d.json", year, id)
	status, b, err := c.do(ctx, http.MethodGet, path, contentJSON, nil)
	if err != nil {
		return privateLeaderboard{}, err
	}
	if status == http.StatusFound {
		return privateLeaderboard{}, errLeaderboardUnavailable
	}
	if err := c.checkStatus(status, path, b); err != nil {
		return privateLeaderboard{}, err
	}

	var lb privateLeaderboard
	if err := sonic.Unmarshal(b, &lb); err != nil {
		return privateLeaderboard{}, errors.Mark(errors.Wrap(err, "decode private leaderboard"), errUnparseableResponse)
	}
	return lb, nil
}
