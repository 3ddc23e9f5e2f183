package postbox

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrNoRelay is returned when the configuration has no relay URL.
var ErrNoRelay = errors.New("no relay url configured")

// Config containing all the configuration values for a service.
type Config struct {
	// Port the web server listens on.
	Port uint16 `yaml:"port" env:"PORT"`
	// RelayURL is the form relay endpoint submissions are posted to.
	RelayURL string `yaml:"relay_url" env:"RELAY_URL"`
	// RelayTimeout bounds each relay request at the transport level.  Zero
	// means no timeout.
	RelayTimeout time.Duration `yaml:"relay_timeout" env:"RELAY_TIMEOUT"`
	// DBPath of the sqlite attempt log.  Empty disables the log.
	DBPath string `yaml:"db_path" env:"DB_PATH"`
	// QueueLength of the attempt recorder.
	QueueLength int `yaml:"queue_length" env:"QUEUE_LENGTH"`
	// ViewTTL is how long an idle view is kept before it is discarded.
	ViewTTL time.Duration `yaml:"view_ttl" env:"VIEW_TTL"`
	// MaxViews bounds the number of mounted views kept in memory.
	MaxViews int `yaml:"max_views" env:"MAX_VIEWS"`
	// AssetsDir is served under /assets/ when set.
	AssetsDir string `yaml:"assets_dir" env:"ASSETS_DIR"`
	// SilentFailures shows transport errors as submitted, like the original
	// page did.
	SilentFailures bool `yaml:"silent_failures" env:"SILENT_FAILURES"`
	// AllowReentrant lets a view start a submission while one is in flight.
	AllowReentrant bool `yaml:"allow_reentrant" env:"ALLOW_REENTRANT"`
}

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "POSTBOX_"

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Port:        3000,
		QueueLength: 100,
		ViewTTL:     time.Hour,
		MaxViews:    10000,
	}
}

// LoadConfig returns the default configuration overridden by the YAML file at
// path (if path is not empty) and then by environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can run a service.
func (cfg Config) Validate() error {
	if cfg.RelayURL == "" {
		return ErrNoRelay
	}
	if cfg.RelayTimeout < 0 {
		return fmt.Errorf("negative relay timeout %s", cfg.RelayTimeout)
	}
	if cfg.ViewTTL <= 0 {
		return fmt.Errorf("view ttl must be positive, got %s", cfg.ViewTTL)
	}
	if cfg.MaxViews <= 0 {
		return fmt.Errorf("max views must be positive, got %d", cfg.MaxViews)
	}
	return nil
}
