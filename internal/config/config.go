package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"dashboard/internal/scanner_client"
)

// DefaultPath is used when DASHBOARD_CONFIG is unset.
const DefaultPath = "configs/config.yml"

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Scanner struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int64  `yaml:"timeout_seconds"`
		UserID         int64  `yaml:"user_id"`
	} `yaml:"scanner"`
	Session struct {
		TTLMinutes int64 `yaml:"ttl_minutes"`
	} `yaml:"session"`
	Profile struct {
		AdminName string `yaml:"admin_name"`
		UserName  string `yaml:"user_name"`
	} `yaml:"profile"`
	Logging struct {
		Development bool `yaml:"development"`
	} `yaml:"logging"`
	Alerts struct {
		Enabled             bool   `yaml:"enabled"`
		TelegramBotToken    string `yaml:"telegram_bot_token"`
		ChatID              int64  `yaml:"chat_id"`
		PollIntervalSeconds int64  `yaml:"poll_interval_seconds"`
	} `yaml:"alerts"`
}

// Path returns the config file location.
func Path() string {
	if p := os.Getenv("DASHBOARD_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.Scanner.BaseURL = os.ExpandEnv(config.Scanner.BaseURL)
	config.Alerts.TelegramBotToken = os.ExpandEnv(config.Alerts.TelegramBotToken)
	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Scanner.BaseURL == "" {
		c.Scanner.BaseURL = scanner_client.DefaultBaseURL
	}
	if c.Scanner.UserID == 0 {
		c.Scanner.UserID = 2
	}
	if c.Session.TTLMinutes <= 0 {
		c.Session.TTLMinutes = 60
	}
	if c.Profile.AdminName == "" {
		c.Profile.AdminName = "Josh Armstrong"
	}
	if c.Profile.UserName == "" {
		c.Profile.UserName = "Test User"
	}
	if c.Alerts.PollIntervalSeconds <= 0 {
		c.Alerts.PollIntervalSeconds = 30
	}
}

func (c *Config) validate() error {
	if c.Scanner.TimeoutSeconds < 0 {
		return fmt.Errorf("scanner.timeout_seconds must not be negative")
	}
	if c.Alerts.Enabled {
		if c.Alerts.TelegramBotToken == "" {
			return fmt.Errorf("alerts.telegram_bot_token is required when alerts are enabled")
		}
		if c.Alerts.ChatID == 0 {
			return fmt.Errorf("alerts.chat_id is required when alerts are enabled")
		}
	}
	return nil
}

// ScannerTimeout is the per-request timeout; zero means none.
func (c *Config) ScannerTimeout() time.Duration {
	return time.Duration(c.Scanner.TimeoutSeconds) * time.Second
}

// SessionTTL is the idle lifetime of a dashboard session.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// PollInterval is the alert relay polling period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Alerts.PollIntervalSeconds) * time.Second
}
