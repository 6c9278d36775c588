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
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Finance FinanceConfig `yaml:"finance" mapstructure:"finance"`
	ABTest  ABTestConfig  `yaml:"abtest" mapstructure:"abtest"`
	Market  MarketConfig  `yaml:"market" mapstructure:"market"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FinanceConfig configures the ROI engine.
type FinanceConfig struct {
	IRRTolerance     float64 `yaml:"irr_tolerance" mapstructure:"irr_tolerance"`
	IRRMaxIterations int     `yaml:"irr_max_iterations" mapstructure:"irr_max_iterations"`
	DiscountRate     float64 `yaml:"discount_rate" mapstructure:"discount_rate"`
}

// ABTestConfig holds default statistical parameters for test planning.
type ABTestConfig struct {
	Confidence float64 `yaml:"confidence" mapstructure:"confidence"`
	Power      float64 `yaml:"power" mapstructure:"power"`
}

// MarketConfig configures market sizing defaults.
type MarketConfig struct {
	Currency string `yaml:"currency" mapstructure:"currency"`
}

// ExportConfig configures export output.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int     `yaml:"port" mapstructure:"port"`
	RatePerSecond  float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst      int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins string  `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("PMKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "pmkit.db")
	v.SetDefault("finance.irr_tolerance", 1e-6)
	v.SetDefault("finance.irr_max_iterations", 100)
	v.SetDefault("finance.discount_rate", 10.0)
	v.SetDefault("abtest.confidence", 95.0)
	v.SetDefault("abtest.power", 80.0)
	v.SetDefault("market.currency", "USD")
	v.SetDefault("export.dir", ".")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.allowed_origins", "*")
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

// Validate checks the fields required for the given mode ("cli" or
// "serve"). Problems are aggregated into a single error so the user
// sees everything wrong at once.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}

	if c.Finance.IRRTolerance <= 0 {
		problems = append(problems, "finance.irr_tolerance must be > 0")
	}
	if c.Finance.IRRMaxIterations < 1 {
		problems = append(problems, "finance.irr_max_iterations must be >= 1")
	}
	if c.ABTest.Confidence <= 0 || c.ABTest.Confidence >= 100 {
		problems = append(problems, "abtest.confidence must be between 0 and 100 exclusive")
	}
	if c.ABTest.Power <= 0 || c.ABTest.Power >= 100 {
		problems = append(problems, "abtest.power must be between 0 and 100 exclusive")
	}

	switch mode {
	case "cli":
		// Nothing beyond the shared checks.
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.RatePerSecond <= 0 {
			problems = append(problems, "server.rate_per_second must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
