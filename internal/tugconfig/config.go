// Package tugconfig loads tug's process-level configuration: which daemon
// to reconcile against, which group of resources belongs to this
// deployment, and the executor's concurrency override.
package tugconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	tugerrors "github.com/squili/tug/pkg/errors"
)

// TLS configures client-certificate auth against the daemon.
type TLS struct {
	CAFile   string `yaml:"ca_file" validate:"required,filepath"`
	CertFile string `yaml:"cert_file" validate:"required,filepath"`
	KeyFile  string `yaml:"key_file" validate:"required,filepath"`
}

// Config is tug's process-level configuration, loaded from a YAML file and
// then overridden by TUG_-prefixed environment variables.
type Config struct {
	// Host is the container runtime's endpoint, e.g.
	// unix:///var/run/docker.sock or tcp://host:2376.
	Host string `yaml:"host" validate:"required"`
	// APIVersion pins the negotiated daemon API version. Empty negotiates
	// automatically.
	APIVersion string `yaml:"api_version,omitempty"`
	TLS        *TLS   `yaml:"tls,omitempty" validate:"omitempty"`
	// Group scopes every label this tool writes and every list filter it
	// issues, so multiple deployments can share one daemon.
	Group string `yaml:"group,omitempty" validate:"omitempty,min=1"`
	// ConcurrencyLimit overrides the executor's default admission window
	// when set; zero keeps the default, and any other value below 2 fails
	// validation.
	ConcurrencyLimit int `yaml:"concurrency_limit,omitempty" validate:"omitempty,min=2"`
}

const defaultGroup = "default"

// envPrefix mirrors the original Figment-based loader's TUG_ prefix.
const envPrefix = "TUG_"

// DefaultPath returns the configuration file location: the path named by
// TUG_CONFIG if set, otherwise tug.yaml under the OS user config
// directory.
func DefaultPath() (string, error) {
	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		return path, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving default config directory: %w", err)
	}
	return filepath.Join(dir, "tug.yaml"), nil
}

// Load reads path, applies environment overrides, fills in defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, tugerrors.NewParseError(path, 0, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, tugerrors.NewParseError(path, 0, err)
	}

	applyEnvOverrides(cfg)

	if cfg.Group == "" {
		cfg.Group = defaultGroup
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, tugerrors.NewValidationError("config", err.Error(), err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv(envPrefix + "HOST"); ok {
		cfg.Host = v
	}
	if v, ok := os.LookupEnv(envPrefix + "API_VERSION"); ok {
		cfg.APIVersion = v
	}
	if v, ok := os.LookupEnv(envPrefix + "GROUP"); ok {
		cfg.Group = v
	}
	if v, ok := os.LookupEnv(envPrefix + "CONCURRENCY_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ConcurrencyLimit = n
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "TLS_CA_FILE"); ok {
		cfg.tls().CAFile = v
	}
	if v, ok := os.LookupEnv(envPrefix + "TLS_CERT_FILE"); ok {
		cfg.tls().CertFile = v
	}
	if v, ok := os.LookupEnv(envPrefix + "TLS_KEY_FILE"); ok {
		cfg.tls().KeyFile = v
	}
}

// tls lazily allocates TLS so a single env var can populate it even when
// the file omitted the section entirely.
func (c *Config) tls() *TLS {
	if c.TLS == nil {
		c.TLS = &TLS{}
	}
	return c.TLS
}
