package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names accepted by providers.default and watchlist.source.
const (
	ProviderYahoo        = "yahoo"
	ProviderAlphaVantage = "alphavantage"
	ProviderMock         = "mock"
)

const defaultMaxRetries = 3

// Config holds all application configuration.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`
	Telegram  struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Providers struct {
		Default              string        `yaml:"default"`
		AlphaVantageAPIKey   string        `yaml:"alpha_vantage_api_key"`
		RequestTimeout       time.Duration `yaml:"request_timeout"`
		AlphaVantageInterval time.Duration `yaml:"alpha_vantage_interval"`
		MaxRetries           uint64        `yaml:"max_retries"`
	} `yaml:"providers"`
	Watchlist struct {
		Symbols []string `yaml:"symbols"`
		Source  string   `yaml:"source"`
		Cron    string   `yaml:"cron"`
	} `yaml:"watchlist"`
	Scoring struct {
		Parallel bool `yaml:"parallel"`
	} `yaml:"scoring"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env (if present), then the YAML file, then applies environment
// variable overrides and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	// Set before parsing so an explicit max_retries: 0 disables retries.
	cfg.Providers.MaxRetries = defaultMaxRetries

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogPretty = b
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.Providers.Default = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.Providers.AlphaVantageAPIKey = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist.Symbols = splitList(v)
	}
	if v := os.Getenv("CRON_WATCHLIST"); v != "" {
		cfg.Watchlist.Cron = v
	}
	if v := os.Getenv("SCORING_PARALLEL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scoring.Parallel = b
		}
	}
	if v := os.Getenv("MAX_RETRIES"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Providers.MaxRetries = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Providers.Default == "" {
		cfg.Providers.Default = ProviderYahoo
	}
	if cfg.Providers.RequestTimeout == 0 {
		cfg.Providers.RequestTimeout = 30 * time.Second
	}
	if cfg.Providers.AlphaVantageInterval == 0 {
		cfg.Providers.AlphaVantageInterval = time.Second
	}
	if cfg.Watchlist.Source == "" {
		cfg.Watchlist.Source = cfg.Providers.Default
	}
	if cfg.Watchlist.Cron == "" {
		cfg.Watchlist.Cron = "0 0 8 * * 1"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/distress_sentinel.db"
	}

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}

// TelegramEnabled reports whether a bot token and chat are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	for _, p := range []struct{ key, val string }{
		{"providers.default", c.Providers.Default},
		{"watchlist.source", c.Watchlist.Source},
	} {
		switch p.val {
		case ProviderYahoo, ProviderAlphaVantage, ProviderMock:
		default:
			return fmt.Errorf("%s: unknown provider %q", p.key, p.val)
		}
	}
	usesAV := c.Providers.Default == ProviderAlphaVantage || c.Watchlist.Source == ProviderAlphaVantage
	if usesAV && c.Providers.AlphaVantageAPIKey == "" {
		return fmt.Errorf("providers.alpha_vantage_api_key is required when alphavantage is selected")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if !c.TelegramEnabled() && c.Server.ListenAddr == "" {
		return fmt.Errorf("nothing to run: configure telegram or server.listen_addr")
	}
	if c.Providers.AlphaVantageInterval < time.Second {
		return fmt.Errorf("providers.alpha_vantage_interval must be at least 1s")
	}
	return nil
}
