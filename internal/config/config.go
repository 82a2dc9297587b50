package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	RuleSet  string `yaml:"ruleset"`
	LogLevel string `yaml:"log_level"`
	Market   struct {
		IndexSymbol   string        `yaml:"index_symbol"`
		FallbackClose float64       `yaml:"fallback_close"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
	} `yaml:"market"`
	Quote struct {
		URL       string        `yaml:"url"`
		Label     string        `yaml:"label"`
		Floor     float64       `yaml:"floor"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
		Referer   string        `yaml:"referer"`
	} `yaml:"quote"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		PreOpenCron string `yaml:"preopen_cron"`
		Timezone    string `yaml:"timezone"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// envOverrides lists the variables that win over the YAML file when set.
type envOverrides struct {
	RuleSet     string `envconfig:"SENTINEL_RULESET"`
	LogLevel    string `envconfig:"SENTINEL_LOG_LEVEL"`
	BotToken    string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID      string `envconfig:"TELEGRAM_CHAT_ID"`
	Proxy       string `envconfig:"HTTPS_PROXY"`
	SQLitePath  string `envconfig:"SQLITE_PATH"`
	PreOpenCron string `envconfig:"CRON_PREOPEN"`
	Timezone    string `envconfig:"SENTINEL_TZ"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`
	QuoteURL    string `envconfig:"QUOTE_URL"`
}

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Path resolves the config file location from a flag value and CONFIG_PATH.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies .env and environment overrides.
// A missing file is not an error; defaults cover everything except Telegram.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load()

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(env)
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv(env envOverrides) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.RuleSet, env.RuleSet)
	set(&c.LogLevel, env.LogLevel)
	set(&c.Telegram.BotToken, env.BotToken)
	set(&c.Telegram.ChatID, env.ChatID)
	set(&c.Proxy, env.Proxy)
	set(&c.Database.SQLitePath, env.SQLitePath)
	set(&c.Schedule.PreOpenCron, env.PreOpenCron)
	set(&c.Schedule.Timezone, env.Timezone)
	set(&c.Metrics.ListenAddr, env.MetricsAddr)
	set(&c.Quote.URL, env.QuoteURL)
}

func (c *Config) applyDefaults() {
	if c.RuleSet == "" {
		c.RuleSet = "v4"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Market.IndexSymbol == "" {
		c.Market.IndexSymbol = "^NSEI"
	}
	if c.Market.FallbackClose == 0 {
		c.Market.FallbackClose = 24000
	}
	if c.Market.CacheTTL == 0 {
		c.Market.CacheTTL = 5 * time.Minute
	}
	if c.Schedule.PreOpenCron == "" {
		c.Schedule.PreOpenCron = "0 45 8 * * 1-5"
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Asia/Kolkata"
	}
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9108"
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Market.FallbackClose <= 0 {
		return errors.New("market.fallback_close must be positive")
	}
	if c.Market.CacheTTL < 0 {
		return errors.New("market.cache_ttl must not be negative")
	}
	if c.Quote.Floor < 0 {
		return errors.New("quote.floor must not be negative")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Schedule.PreOpenCron); err != nil {
		return fmt.Errorf("schedule.preopen_cron: %w", err)
	}
	return nil
}

// ValidateTelegram checks the settings the watch mode additionally needs.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return errors.New("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required")
	}
	return nil
}
