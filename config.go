package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	defaultBaseURL    = "https://adventofcode.com"
	defaultUA         = "aoc-cli " + version
	defaultInputFile  = "input"
	defaultPuzzleFile = "puzzle.md"
	configDirName     = "aoc-cli"
	configFileName    = "config.json"
)

// version is reported in the user agent and by --version.
const version = "0.1.0"

// appConfig holds the application configuration.
type appConfig struct {
	BaseURL     string `json:"base_url" validate:"required,url"`
	UserAgent   string `json:"user_agent" validate:"required"`
	SessionFile string `json:"session_file,omitempty"`
	Width       int    `json:"width,omitempty" validate:"gte=0"`
	Color       string `json:"color,omitempty" validate:"oneof=auto always never"`
	Overwrite   bool   `json:"overwrite,omitempty"`
	InputFile   string `json:"input_file" validate:"required"`
	PuzzleFile  string `json:"puzzle_file" validate:"required"`
}

func defaultConfig() appConfig {
	return appConfig{
		BaseURL:    defaultBaseURL,
		UserAgent:  defaultUA,
		Color:      colorAuto,
		InputFile:  defaultInputFile,
		PuzzleFile: defaultPuzzleFile,
	}
}

// defaultConfigPath returns the per-user config location.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}

// loadConfig loads configuration from path. A missing file yields defaults.
func loadConfig(path string) (appConfig, error) {
	cfg := defaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return appConfig{}, errors.Wrap(err, "stat config")
			}
		} else {
			k := koanf.New(".")
			if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
				return appConfig{}, errors.Wrapf(err, "load config %s", path)
			}
			if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
				return appConfig{}, errors.Wrapf(err, "unmarshal config %s", path)
			}
		}
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.SessionFile = strings.TrimSpace(cfg.SessionFile)
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUA
	}
	if cfg.Color == "" {
		cfg.Color = colorAuto
	}
	if cfg.InputFile == "" {
		cfg.InputFile = defaultInputFile
	}
	if cfg.PuzzleFile == "" {
		cfg.PuzzleFile = defaultPuzzleFile
	}

	if err := validateConfig(cfg); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}

var configValidator = validator.New()

func validateConfig(cfg appConfig) error {
	if err := configValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.StructField() == "Width" {
				return markf(errInvalidOutputWidth, "config: width must not be negative, got %v", fe.Value())
			}
			return errors.Newf("config: invalid %s (%s)", fe.StructField(), fe.Tag())
		}
		return errors.Wrap(err, "validate config")
	}
	return nil
}
