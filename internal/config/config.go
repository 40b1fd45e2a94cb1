package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	TUI    TUIConfig    `yaml:"tui" mapstructure:"tui"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the three dashboard data files. When BaseURL is set
// the files are fetched over HTTP from {BaseURL}/{file}; otherwise they are
// read from Dir.
type DataConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	Dir          string `yaml:"dir" mapstructure:"dir"`
	SummaryFile  string `yaml:"summary_file" mapstructure:"summary_file"`
	RegionalFile string `yaml:"regional_file" mapstructure:"regional_file"`
	TimelineFile string `yaml:"timeline_file" mapstructure:"timeline_file"`
}

// FetchConfig configures the HTTP fetcher.
type FetchConfig struct {
	TimeoutSecs         int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts         int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RatePerSec          float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	UserAgent           string  `yaml:"user_agent" mapstructure:"user_agent"`
	BreakerThreshold    int     `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldownSecs int     `yaml:"breaker_cooldown_secs" mapstructure:"breaker_cooldown_secs"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// TUIConfig configures the terminal dashboard.
type TUIConfig struct {
	ViewportHeight int `yaml:"viewport_height" mapstructure:"viewport_height"`
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

	// Environment
	v.SetEnvPrefix("ATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.base_url", "")
	v.SetDefault("data.dir", "./public/data")
	v.SetDefault("data.summary_file", "summary_data.json")
	v.SetDefault("data.regional_file", "regional_detailed.json")
	v.SetDefault("data.timeline_file", "animated_timeline.json")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_attempts", 1)
	v.SetDefault("fetch.rate_per_sec", 20)
	v.SetDefault("fetch.user_agent", "cobenefits-atlas/1.0")
	v.SetDefault("fetch.breaker_threshold", 5)
	v.SetDefault("fetch.breaker_cooldown_secs", 30)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("tui.viewport_height", 40)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the settings a command needs. Mode is the command name:
// "serve", "tui", or "load" for commands that only read the data.
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Data.BaseURL == "" && c.Data.Dir == "" {
		errs = append(errs, "data.dir or data.base_url is required")
	}
	if c.Data.SummaryFile == "" || c.Data.RegionalFile == "" || c.Data.TimelineFile == "" {
		errs = append(errs, "data file names must not be empty")
	}
	if c.Fetch.MaxAttempts < 1 {
		errs = append(errs, "fetch.max_attempts must be >= 1")
	}
	if c.Fetch.TimeoutSecs < 0 {
		errs = append(errs, "fetch.timeout_secs must be >= 0")
	}
	if c.Fetch.BreakerThreshold < 0 {
		errs = append(errs, "fetch.breaker_threshold must be >= 0")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "tui":
		if c.TUI.ViewportHeight <= 0 {
			errs = append(errs, "tui.viewport_height must be > 0")
		}
	case "load":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
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
