package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Session cookie locations.
const (
	sessionEnvVar         = "ADVENT_OF_CODE_SESSION"
	sessionFileName       = "adventofcode.session"
	hiddenSessionFileName = ".adventofcode.session"
)

// validateSession trims a raw session token and checks it is hexadecimal.
func validateSession(raw string) (string, error) {
	cookie := strings.TrimSpace(raw)
	if cookie == "" {
		return "", errInvalidSessionCookie
	}
	for _, c := range cookie {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return "", errInvalidSessionCookie
		}
	}
	return cookie, nil
}

// loadSessionFile reads and validates the session cookie stored in path.
func loadSessionFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "failed to read session cookie from '%s'", path), errSessionFileRead)
	}
	cookie, err := validateSession(string(b))
	if err != nil {
		return "", errors.Wrapf(err, "session cookie in '%s'", path)
	}
	return cookie, nil
}

// sessionLocator finds the session cookie. The fields default to the
// process environment and the user's home and config directories.
type sessionLocator struct {
	lookupEnv func(string) (string, bool)
	homeDir   func() (string, error)
	configDir func() (string, error)
}

func defaultSessionLocator() sessionLocator {
	return sessionLocator{
		lookupEnv: os.LookupEnv,
		homeDir:   os.UserHomeDir,
		configDir: os.UserConfigDir,
	}
}

// find resolves the cookie from an explicit file, then the environment,
// then the well-known files in the home and config directories.
func (s sessionLocator) find(explicitFile string, log *logger) (string, error) {
	if explicitFile != "" {
		log.debugf("loading session cookie from '%s'", explicitFile)
		return loadSessionFile(explicitFile)
	}

	if raw, ok := s.env(); ok {
		if strings.TrimSpace(raw) != "" {
			log.debugf("loading session cookie from '%s' environment variable", sessionEnvVar)
			return validateSession(raw)
		}
		log.warnf("environment variable '%s' is set but it is empty, ignoring", sessionEnvVar)
	}

	for _, candidate := range s.candidates() {
		if _, err := os.Stat(candidate); err == nil {
			log.debugf("loading session cookie from '%s'", candidate)
			return loadSessionFile(candidate)
		}
	}
	return "", errSessionFileNotFound
}

func (s sessionLocator) env() (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	return s.lookupEnv(sessionEnvVar)
}

func (s sessionLocator) candidates() []string {
	var out []string
	if s.homeDir != nil {
		if dir, err := s.homeDir(); err == nil {
			out = append(out, filepath.Join(dir, hiddenSessionFileName))
		}
	}
	if s.configDir != nil {
		if dir, err := s.configDir(); err == nil {
			out = append(out, filepath.Join(dir, sessionFileName))
		}
	}
	return out
}
