package util

import (
	"os"
	"path/filepath"
	"strings"
)

// DataDir holds the history database and log file.
func DataDir(app string) string {
	return xdgDir("XDG_DATA_HOME", app, ".local", "share")
}

// ConfigDir holds config.yaml.
func ConfigDir(app string) string {
	return xdgDir("XDG_CONFIG_HOME", app, ".config")
}

// ReportsDir is the default destination for exported PDF reports.
func ReportsDir(app string) string {
	return filepath.Join(DocumentsDir(), strings.ToUpper(app))
}

func xdgDir(env, app string, fallback ...string) string {
	if base := strings.TrimSpace(os.Getenv(env)); base != "" {
		return filepath.Join(base, app)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", app)
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, app)...)
}

func DocumentsDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DOCUMENTS_DIR")); base != "" {
		return expandHome(base)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	if data, err := os.ReadFile(filepath.Join(home, ".config", "user-dirs.dirs")); err == nil {
		if dir := parseUserDir(string(data), "XDG_DOCUMENTS_DIR"); dir != "" {
			return expandHome(dir)
		}
	}
	return filepath.Join(home, "Documents")
}

// parseUserDir reads KEY="value" lines from user-dirs.dirs.
func parseUserDir(data, key string) string {
	prefix := key + "="
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, prefix); ok {
			return strings.Trim(value, "\"")
		}
	}
	return ""
}

func expandHome(path string) string {
	if !strings.Contains(path, "$HOME") {
		return path
	}
	home, _ := os.UserHomeDir()
	return strings.ReplaceAll(path, "$HOME", home)
}
