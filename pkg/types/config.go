package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendCosmic = "cosmic"
)

// Defaults applied by Config.WithDefaults.
const (
	DefaultCosmicAPIURL   = "https://api.cosmicjs.com/v3"
	DefaultRequestTimeout = 10 * time.Second
)

// CosmicConfig holds the credentials of the remote bucket.
type CosmicConfig struct {
	APIURL     string `json:"api_url" yaml:"api_url" env:"COSMIC_API_URL"`
	BucketSlug string `json:"bucket_slug" yaml:"bucket_slug" env:"COSMIC_BUCKET_SLUG"`
	ReadKey    string `json:"-" yaml:"-" env:"COSMIC_READ_KEY"`
	WriteKey   string `json:"-" yaml:"-" env:"COSMIC_WRITE_KEY"`
}

// Config selects the object store backend and its parameters.
type Config struct {
	Backend        string        `json:"backend" yaml:"backend" env:"FOLIO_BACKEND"`
	DataDir        string        `json:"data_dir" yaml:"data_dir"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" env:"FOLIO_REQUEST_TIMEOUT"`
	Cosmic         CosmicConfig  `json:"cosmic" yaml:"cosmic"`
}

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrBucketSlugEmpty = errors.New("cosmic bucket slug must not be empty")
	ErrReadKeyEmpty    = errors.New("cosmic read key must not be empty")
	ErrTimeoutInvalid  = errors.New("request timeout must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendCosmic: true,
}

// ApplyEnv overlays environment variables onto c. Variables that are unset
// leave the corresponding field untouched.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// WithDefaults returns c with zero-valued optional fields filled in.
func (c Config) WithDefaults() Config {
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Cosmic.APIURL == "" {
		c.Cosmic.APIURL = DefaultCosmicAPIURL
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure. A zero RequestTimeout is valid and
// means DefaultRequestTimeout.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.RequestTimeout < 0 {
		return ErrTimeoutInvalid
	}
	if c.Backend == BackendCosmic {
		if c.Cosmic.BucketSlug == "" {
			return ErrBucketSlugEmpty
		}
		if c.Cosmic.ReadKey == "" {
			return ErrReadKeyEmpty
		}
	}
	return nil
}
