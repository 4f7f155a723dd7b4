package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every setting of the service. Values are loaded from the
// YAML file, then sensitive fields are overridden from the environment.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Dealer struct {
		Key string `yaml:"key"`
	} `yaml:"dealer"`

	Ledger struct {
		Path string `yaml:"path"`
	} `yaml:"ledger"`

	Journal struct {
		Path string `yaml:"path"`
	} `yaml:"journal"`

	Mirror struct {
		Remote string `yaml:"remote"`
		Ref    string `yaml:"ref"`
		Token  string `yaml:"token"`
	} `yaml:"mirror"`

	Report struct {
		WebhookURL string `yaml:"webhook_url"`
		Mention    string `yaml:"mention"`
	} `yaml:"report"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the config file. A missing file is not an
// error: the service runs on defaults plus environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "stock_go"
	cfg.App.Version = "dev"
	cfg.Server.Port = 10000
	cfg.Ledger.Path = "data/stocks.json"
	cfg.Journal.Path = "data/trades.db"
	cfg.Mirror.Ref = "ledger-data"
	cfg.Report.Mention = "@here"
	cfg.Logging.Level = "info"
	return cfg
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Ledger.Path == "" {
		return fmt.Errorf("ledger path is required")
	}
	if c.Mirror.Ref == "" {
		return fmt.Errorf("mirror ref is required")
	}
	return nil
}

// MirrorEnabled reports whether both mirror settings are present.
func (c *Config) MirrorEnabled() bool {
	return c.Mirror.Remote != "" && c.Mirror.Token != ""
}

// overrideWithEnv overrides secrets and endpoints from the environment.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("STOCK_DEALER_KEY"); key != "" {
		cfg.Dealer.Key = key
	}
	if token := os.Getenv("STOCK_GIT_TOKEN"); token != "" {
		cfg.Mirror.Token = token
	}
	if remote := os.Getenv("STOCK_GIT_REMOTE"); remote != "" {
		cfg.Mirror.Remote = remote
	}
	if url := os.Getenv("STOCK_WEBHOOK_URL"); url != "" {
		cfg.Report.WebhookURL = url
	}
}
