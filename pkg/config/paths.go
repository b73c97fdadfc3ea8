package config

import (
	"os"
	"path/filepath"
	"strings"
)

// UserConfigPath returns the per-user config file, or "" when no home
// directory can be found.
func UserConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "textpane", "config.yaml")
	}
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".config", "textpane", "config.yaml")
	}
	return ""
}

// StateDir is where the viewer keeps its log file. XDG_STATE_HOME wins when
// set.
func StateDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); dir != "" {
		return filepath.Join(dir, "textpane")
	}
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".local", "state", "textpane")
	}
	return filepath.Join(os.TempDir(), "textpane")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return strings.TrimSpace(home)
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" {
		if home := homeDir(); home != "" {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home := homeDir(); home != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
