// Package config loads application configuration via viper and
// initializes the global zap logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clash-creation/qualify-cli/internal/scoring"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Wizard     WizardConfig     `yaml:"wizard" mapstructure:"wizard"`
	Scoring    scoring.Config   `yaml:"scoring" mapstructure:"scoring"`
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
	Calendly   CalendlyConfig   `yaml:"calendly" mapstructure:"calendly"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Webhook    WebhookConfig    `yaml:"webhook" mapstructure:"webhook"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the session API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// WizardConfig holds the timing knobs of the qualification flow.
type WizardConfig struct {
	LoadingDelaySecs  int `yaml:"loading_delay_secs" mapstructure:"loading_delay_secs"`
	DiscardAfterMins  int `yaml:"discard_after_mins" mapstructure:"discard_after_mins"`
	ResumeWindowHours int `yaml:"resume_window_hours" mapstructure:"resume_window_hours"`
}

// LoadingDelay is how long the analysis stage holds before revealing
// the recommendation.
func (w WizardConfig) LoadingDelay() time.Duration {
	return time.Duration(w.LoadingDelaySecs) * time.Second
}

// DiscardAfter is how long a closed session's state is retained.
func (w WizardConfig) DiscardAfter() time.Duration {
	return time.Duration(w.DiscardAfterMins) * time.Minute
}

// ResumeWindow is how long an abandoned session remains restorable.
func (w WizardConfig) ResumeWindow() time.Duration {
	return time.Duration(w.ResumeWindowHours) * time.Hour
}

// CatalogConfig points at an optional tier catalog override file.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CalendlyConfig configures booking URL derivation.
type CalendlyConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	PrimaryColor string `yaml:"primary_color" mapstructure:"primary_color"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// NotionConfig holds Notion API credentials and the lead database ID.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// WebhookConfig holds the outbound lead webhook settings.
type WebhookConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
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
	v.SetEnvPrefix("QUALIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "qualify.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("wizard.loading_delay_secs", 6)
	v.SetDefault("wizard.discard_after_mins", 30)
	v.SetDefault("wizard.resume_window_hours", 24)
	v.SetDefault("scoring.bonus_min_seconds", 90)
	v.SetDefault("scoring.bonus_min_interactions", 8)
	v.SetDefault("calendly.base_url", "https://calendly.com/jodenclashnewman/vertical-shortcut-discovery-call")
	v.SetDefault("calendly.primary_color", "FEA35D")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("webhook.timeout_secs", 10)
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

// Validate checks that the configuration is usable for the given mode.
// Modes: "serve" (session API), "score" (one-shot scoring), "sinks"
// (outbound lead delivery enabled).
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Wizard.LoadingDelaySecs < 0 {
		problems = append(problems, "wizard.loading_delay_secs must be >= 0")
	}
	if c.Wizard.DiscardAfterMins <= 0 {
		problems = append(problems, "wizard.discard_after_mins must be > 0")
	}
	if c.Wizard.ResumeWindowHours <= 0 {
		problems = append(problems, "wizard.resume_window_hours must be > 0")
	}
	if c.Scoring.BonusMinSeconds < 0 || c.Scoring.BonusMinInteractions < 0 {
		problems = append(problems, "scoring bonus thresholds must be >= 0")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	case "score":
		// Scoring needs no external services.
	case "sinks":
		if c.Salesforce.ClientID != "" && (c.Salesforce.Username == "" || c.Salesforce.KeyPath == "") {
			problems = append(problems, "salesforce.username and salesforce.key_path are required when client_id is set")
		}
		if c.Notion.Token != "" && c.Notion.LeadDB == "" {
			problems = append(problems, "notion.lead_db is required when notion.token is set")
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
