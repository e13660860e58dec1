// Package paths resolves the stackmap configuration and data directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform base directories.
const AppName = "stackmap"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".stackmap-db"

// Environment variable overrides.
const (
	EnvConfigDir = "STACKMAP_CONFIG_DIR"
	EnvDataDir   = "STACKMAP_DATA_DIR"
)

// Platform lookups, replaced in tests.
var (
	goos          = runtime.GOOS
	userHomeDir   = os.UserHomeDir
	userConfigDir = os.UserConfigDir
	getwd         = os.Getwd
)

// DefaultConfigDir returns the platform configuration directory:
// $XDG_CONFIG_HOME/stackmap or ~/.config/stackmap on Linux, the
// os.UserConfigDir location elsewhere.
func DefaultConfigDir() (string, error) {
	if goos != "linux" {
		// os.UserConfigDir covers ~/Library/Application Support and %AppData%.
		dir, err := userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ResolveConfigDir picks the configuration directory: flag, then
// STACKMAP_CONFIG_DIR, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if dir := firstSet(flag, os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: flag, then the config file value,
// then STACKMAP_DATA_DIR, then $(CWD)/.stackmap-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir := firstSet(flag, configValue, os.Getenv(EnvDataDir)); dir != "" {
		return filepath.Abs(dir)
	}
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
