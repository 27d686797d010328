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
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
	Resolve   ResolveConfig   `yaml:"resolve" mapstructure:"resolve"`
	Portfolio PortfolioConfig `yaml:"portfolio" mapstructure:"portfolio"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SourcesConfig configures the open-data adapter.
type SourcesConfig struct {
	BaseURL     string         `yaml:"base_url" mapstructure:"base_url"`
	AppToken    string         `yaml:"app_token" mapstructure:"app_token"`
	RateLimit   float64        `yaml:"rate_limit" mapstructure:"rate_limit"`
	RecordLimit int            `yaml:"record_limit" mapstructure:"record_limit"`
	TimeoutSecs int            `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Datasets    DatasetsConfig `yaml:"datasets" mapstructure:"datasets"`
}

// DatasetsConfig holds the open-data dataset identifiers.
type DatasetsConfig struct {
	FilingLegals  string `yaml:"filing_legals" mapstructure:"filing_legals"`
	FilingMaster  string `yaml:"filing_master" mapstructure:"filing_master"`
	FilingParties string `yaml:"filing_parties" mapstructure:"filing_parties"`
	Contacts      string `yaml:"contacts" mapstructure:"contacts"`
	Registrations string `yaml:"registrations" mapstructure:"registrations"`
	TaxRoll       string `yaml:"tax_roll" mapstructure:"tax_roll"`
	Corporations  string `yaml:"corporations" mapstructure:"corporations"`
}

// ResolveConfig bounds the enrichment orchestrator.
type ResolveConfig struct {
	DocIDLimit           int `yaml:"doc_id_limit" mapstructure:"doc_id_limit"`
	CorporateLookupLimit int `yaml:"corporate_lookup_limit" mapstructure:"corporate_lookup_limit"`
}

// PortfolioConfig bounds portfolio discovery.
type PortfolioConfig struct {
	SearchNameLimit int `yaml:"search_name_limit" mapstructure:"search_name_limit"`
	AddressLimit    int `yaml:"address_limit" mapstructure:"address_limit"`
	DocIDLimit      int `yaml:"doc_id_limit" mapstructure:"doc_id_limit"`
	MaxConcurrent   int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// MatchConfig points at the optional matching-vocabulary file.
type MatchConfig struct {
	VocabularyPath string `yaml:"vocabulary_path" mapstructure:"vocabulary_path"`
}

// ServerConfig configures the JSON API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("OWNERSHIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("sources.base_url", "https://data.cityofnewyork.us")
	v.SetDefault("sources.app_token", "")
	v.SetDefault("sources.rate_limit", 8)
	v.SetDefault("sources.record_limit", 500)
	v.SetDefault("sources.timeout_secs", 10)
	v.SetDefault("sources.datasets.filing_legals", "8h5j-fqxa")
	v.SetDefault("sources.datasets.filing_master", "bnx9-e6tj")
	v.SetDefault("sources.datasets.filing_parties", "636b-3b5g")
	v.SetDefault("sources.datasets.contacts", "feu5-w2e2")
	v.SetDefault("sources.datasets.registrations", "tesw-yqqr")
	v.SetDefault("sources.datasets.tax_roll", "64uk-42ks")
	v.SetDefault("sources.datasets.corporations", "n9v6-gdp6")
	v.SetDefault("resolve.doc_id_limit", 40)
	v.SetDefault("resolve.corporate_lookup_limit", 3)
	v.SetDefault("portfolio.search_name_limit", 5)
	v.SetDefault("portfolio.address_limit", 5)
	v.SetDefault("portfolio.doc_id_limit", 30)
	v.SetDefault("portfolio.max_concurrent", 6)
	v.SetDefault("match.vocabulary_path", "")

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
