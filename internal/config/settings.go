package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/akyairhashvil/taskwatch/internal/util"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	Server         string        `yaml:"server"`
	APIPrefix      string        `yaml:"api_prefix"`
	Token          string        `yaml:"token"`
	Types          []string      `yaml:"types"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RetryAttempts  int           `yaml:"retry_attempts"`
	HistoryPath    string        `yaml:"history_path"`
	ReportDir      string        `yaml:"report_dir"`
	Theme          string        `yaml:"theme"`
}

// Defaults returns settings with every optional field filled in.
func Defaults() Settings {
	return Settings{
		APIPrefix:      APIPrefix,
		Types:          append([]string(nil), DefaultTaskTypes...),
		PollInterval:   PollInterval,
		RequestTimeout: RequestTimeout,
		RetryAttempts:  RetryAttempts,
		HistoryPath:    filepath.Join(util.DataDir(AppName), HistoryFileName),
		ReportDir:      util.ReportsDir(AppName),
		Theme:          "default",
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	return filepath.Join(util.ConfigDir(AppName), ConfigFileName)
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. A missing file at the default location is not an error.
func Load(path string) (Settings, error) {
	s := Defaults()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Settings{}, fmt.Errorf("read %s: %w", path, err)
	}
	s.applyEnv()
	s.fillDefaults()
	return s, nil
}

func (s *Settings) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvServer)); v != "" {
		s.Server = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		s.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTypes)); v != "" {
		s.Types = SplitTypes(v)
	}
}

// fillDefaults restores zero values a partial file may have cleared.
func (s *Settings) fillDefaults() {
	d := Defaults()
	if s.APIPrefix == "" {
		s.APIPrefix = d.APIPrefix
	}
	if len(s.Types) == 0 {
		s.Types = d.Types
	}
	if s.PollInterval == 0 {
		s.PollInterval = d.PollInterval
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = d.RequestTimeout
	}
	if s.RetryAttempts == 0 {
		s.RetryAttempts = d.RetryAttempts
	}
	if s.HistoryPath == "" {
		s.HistoryPath = d.HistoryPath
	}
	if s.ReportDir == "" {
		s.ReportDir = d.ReportDir
	}
	if s.Theme == "" {
		s.Theme = d.Theme
	}
}

// Validate reports the first unusable setting.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Server) == "" {
		return fmt.Errorf("server is not set (use --server, %s or %s)", EnvServer, DefaultPath())
	}
	if !strings.HasPrefix(s.Server, "http://") && !strings.HasPrefix(s.Server, "https://") {
		return fmt.Errorf("server must be an http(s) URL: %s", s.Server)
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", s.PollInterval)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", s.RequestTimeout)
	}
	if s.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1, got %d", s.RetryAttempts)
	}
	if len(s.Types) == 0 {
		return errors.New("no task types configured")
	}
	for _, t := range s.Types {
		if strings.TrimSpace(t) == "" || strings.Contains(t, "/") {
			return fmt.Errorf("invalid task type %q", t)
		}
	}
	return nil
}

// SplitTypes parses a comma separated type list, dropping blanks.
func SplitTypes(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
