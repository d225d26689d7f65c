// Package paths resolves where folio keeps its configuration and its local
// bucket.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "folio"

// ConfigFileName is the name of the configuration file inside the config
// directory.
const ConfigFileName = "config.yaml"

// DefaultDataDirName is the CWD-relative local bucket directory used when
// nothing else is configured.
const DefaultDataDirName = ".folio-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "FOLIO_CONFIG_DIR"
	EnvDataDir   = "FOLIO_DATA_DIR"
)

// platformDir holds platform lookups that tests replace.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// userDir returns $xdgVar/folio on Linux, falling back to ~/<fallback>/folio,
// and os.UserConfigDir()/folio elsewhere.
func userDir(xdgVar string, fallback ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/folio (fallback ~/.config/folio)
// macOS:   ~/Library/Application Support/folio
// Windows: %APPDATA%/folio
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory. It is not used by
// ResolveDataDir, which defaults to the CWD, but `folio init --global`
// places the local bucket there.
//
// Linux:   $XDG_DATA_HOME/folio (fallback ~/.local/share/folio)
// macOS:   ~/Library/Application Support/folio
// Windows: %APPDATA%/folio
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir applies flag > FOLIO_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config data_dir > FOLIO_DATA_DIR >
// $(CWD)/.folio-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the config file path inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}
