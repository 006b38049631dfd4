package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Viewer  ViewerConfig  `yaml:"viewer" mapstructure:"viewer"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// APIConfig configures the scoring API collaborator.
type APIConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// SessionConfig configures durable session storage.
type SessionConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CacheConfig configures the local snapshot store.
type CacheConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ViewerConfig configures the local viewer server.
type ViewerConfig struct {
	Port            int  `yaml:"port" mapstructure:"port"`
	OverlayCacheMax int  `yaml:"overlay_cache_max" mapstructure:"overlay_cache_max"`
	OverlayTTLSecs  int  `yaml:"overlay_ttl_secs" mapstructure:"overlay_ttl_secs"`
	Warm            bool `yaml:"warm" mapstructure:"warm"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".settlemap"))
	}

	// Environment
	v.SetEnvPrefix("SETTLEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("api.base_url", "http://localhost:8000/api/")
	v.SetDefault("api.timeout_secs", 30)
	v.SetDefault("api.rate_per_sec", 10.0)
	v.SetDefault("session.path", defaultStatePath("session.json"))
	v.SetDefault("cache.path", defaultStatePath("snapshots.db"))
	v.SetDefault("viewer.port", 8080)
	v.SetDefault("viewer.overlay_cache_max", 64)
	v.SetDefault("viewer.overlay_ttl_secs", 300)
	v.SetDefault("viewer.warm", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// defaultStatePath places client state under ~/.settlemap, falling back
// to the working directory when the home dir is unknown.
func defaultStatePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".settlemap", name)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
