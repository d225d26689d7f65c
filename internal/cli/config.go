package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/folio/internal/paths"
	"github.com/mesh-intelligence/folio/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyRequestTimeout = "request_timeout"
	cfgKeyBucketSlug     = "cosmic.bucket_slug"
	cfgKeyAPIURL         = "cosmic.api_url"
)

// defaultConfigYAML is written to config.yaml on first run. Keys are read
// from the COSMIC_READ_KEY and COSMIC_WRITE_KEY environment variables and
// never from this file.
const defaultConfigYAML = `# folio configuration

# Object store: sqlite (local bucket) or cosmic (remote bucket)
backend: sqlite

# Local bucket directory (overridable by --data-dir)
# data_dir:

# Bound on every store request
request_timeout: 10s

cosmic:
  # bucket_slug:
  # api_url: https://api.cosmicjs.com/v3
`

// readConfigFile reads config.yaml from configDir, creating the directory
// and a default file on first run.
func readConfigFile(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyRequestTimeout, types.DefaultRequestTimeout)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes defaultConfigYAML unless config.yaml
// already exists.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// loadConfig builds the effective configuration: config.yaml, then the
// environment, then command-line flags.
func (a *app) loadConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := readConfigFile(configDir)
	if err != nil {
		return types.Config{}, err
	}

	cfg := types.Config{
		Backend:        v.GetString(cfgKeyBackend),
		RequestTimeout: v.GetDuration(cfgKeyRequestTimeout),
		Cosmic: types.CosmicConfig{
			BucketSlug: v.GetString(cfgKeyBucketSlug),
			APIURL:     v.GetString(cfgKeyAPIURL),
		},
	}
	if err := cfg.ApplyEnv(); err != nil {
		return types.Config{}, err
	}
	if a.flags.backend != "" {
		cfg.Backend = a.flags.backend
	}
	cfg.DataDir, err = paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return cfg.WithDefaults(), nil
}
