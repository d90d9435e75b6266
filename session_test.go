package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSession(t *testing.T) {
	got, err := validateSession("  c0ffeeBEEF01\n")
	require.NoError(t, err)
	assert.Equal(t, "c0ffeeBEEF01", got)

	for _, raw := range []string{"", "   \n", "not-hex", "abc 123"} {
		_, err := validateSession(raw)
		assert.True(t, errors.Is(err, errInvalidSessionCookie), "%q", raw)
	}
}

func TestLoadSessionFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "good")
	require.NoError(t, os.WriteFile(path, []byte("abcdef0123\n"), 0o600))
	got, err := loadSessionFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abcdef0123", got)

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte("session=abc"), 0o600))
	_, err = loadSessionFile(bad)
	assert.True(t, errors.Is(err, errInvalidSessionCookie))

	_, err = loadSessionFile(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, errSessionFileRead))
	assert.Contains(t, err.Error(), "missing")
}

func TestSessionLocator(t *testing.T) {
	log := newLoggerTo(io.Discard, true)
	noEnv := func(string) (string, bool) { return "", false }
	dirFn := func(dir string) func() (string, error) {
		return func() (string, error) { return dir, nil }
	}

	t.Run("explicit file wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookie")
		require.NoError(t, os.WriteFile(path, []byte("aaaa"), 0o600))
		s := sessionLocator{lookupEnv: func(string) (string, bool) { return "bbbb", true }}

		got, err := s.find(path, log)
		require.NoError(t, err)
		assert.Equal(t, "aaaa", got)
	})

	t.Run("environment", func(t *testing.T) {
		s := sessionLocator{lookupEnv: func(key string) (string, bool) {
			assert.Equal(t, sessionEnvVar, key)
			return "  c0ffee  ", true
		}}
		got, err := s.find("", log)
		require.NoError(t, err)
		assert.Equal(t, "c0ffee", got)
	})

	t.Run("empty environment falls through with a warning", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(home, hiddenSessionFileName), []byte("beef\n"), 0o600))

		var buf bytes.Buffer
		s := sessionLocator{
			lookupEnv: func(string) (string, bool) { return "", true },
			homeDir:   dirFn(home),
		}
		got, err := s.find("", newLoggerTo(&buf, true))
		require.NoError(t, err)
		assert.Equal(t, "beef", got)
		assert.Contains(t, buf.String(), "is set but it is empty")
	})

	t.Run("config directory", func(t *testing.T) {
		cfgDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(cfgDir, sessionFileName), []byte("1234"), 0o600))
		s := sessionLocator{lookupEnv: noEnv, homeDir: dirFn(t.TempDir()), configDir: dirFn(cfgDir)}

		got, err := s.find("", log)
		require.NoError(t, err)
		assert.Equal(t, "1234", got)
	})

	t.Run("home before config directory", func(t *testing.T) {
		home, cfgDir := t.TempDir(), t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(home, hiddenSessionFileName), []byte("1111"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(cfgDir, sessionFileName), []byte("2222"), 0o600))
		s := sessionLocator{lookupEnv: noEnv, homeDir: dirFn(home), configDir: dirFn(cfgDir)}

		got, err := s.find("", log)
		require.NoError(t, err)
		assert.Equal(t, "1111", got)
	})

	t.Run("not found", func(t *testing.T) {
		s := sessionLocator{
			lookupEnv: noEnv,
			homeDir:   dirFn(t.TempDir()),
			configDir: func() (string, error) { return "", errors.New("no config dir") },
		}
		_, err := s.find("", log)
		assert.True(t, errors.Is(err, errSessionFileNotFound))
	})
}
