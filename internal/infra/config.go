package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"coinboard/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is a browser-like user agent string; the public API throttles bare clients harder
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	DefaultBaseURL = "https://api.coingecko.com/api/v3"
)

// Config는 애플리케이션의 모든 설정을 담습니다.
// LoadConfig로 로드된 후에 환경 변수를 통해 민감 내용을 덮어씁니다.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		BaseURL    string `yaml:"base_url"`
		TimeoutSec int    `yaml:"timeout_sec"` // 0 = no client timeout
		APIKey     string `yaml:"api_key"`
	} `yaml:"api"`

	Cache struct {
		MarketsTTLSec  int `yaml:"markets_ttl_sec"`
		CoinListTTLSec int `yaml:"coin_list_ttl_sec"`
	} `yaml:"cache"`

	Storage struct {
		Path      string `yaml:"path"`      // empty = per-user data dir
		Ephemeral bool   `yaml:"ephemeral"` // keep everything in memory
	} `yaml:"storage"`

	Feed struct {
		Addr            string `yaml:"addr"`
		PollIntervalSec int    `yaml:"poll_interval_sec"`
	} `yaml:"feed"`

	Icons struct {
		Dir         string `yaml:"dir"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"icons"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	var cfg Config
	cfg.App.Name = "coinboard"
	cfg.App.Version = "dev"
	cfg.API.BaseURL = DefaultBaseURL
	cfg.API.TimeoutSec = 10
	cfg.Cache.MarketsTTLSec = 5 * 60
	cfg.Cache.CoinListTTLSec = 24 * 60 * 60
	cfg.Feed.Addr = "localhost:8787"
	cfg.Feed.PollIntervalSec = 60
	cfg.Icons.Concurrency = 5
	cfg.Logging.Level = "info"
	cfg.Logging.Dir = "logs"
	return &cfg
}

// LoadConfig는 설정 파일을 읽고 파싱합니다. 파일이 없으면 기본값을 사용합니다.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return &domain.ConfigError{Field: "api.base_url", Err: fmt.Errorf("not an http(s) URL: %q", c.API.BaseURL)}
	}
	if c.API.TimeoutSec < 0 {
		return &domain.ConfigError{Field: "api.timeout_sec", Err: errors.New("must not be negative")}
	}
	if c.Cache.MarketsTTLSec <= 0 {
		return &domain.ConfigError{Field: "cache.markets_ttl_sec", Err: errors.New("must be positive")}
	}
	if c.Cache.CoinListTTLSec <= 0 {
		return &domain.ConfigError{Field: "cache.coin_list_ttl_sec", Err: errors.New("must be positive")}
	}
	if c.Feed.PollIntervalSec <= 0 {
		return &domain.ConfigError{Field: "feed.poll_interval_sec", Err: errors.New("must be positive")}
	}
	if c.Icons.Concurrency <= 0 {
		return &domain.ConfigError{Field: "icons.concurrency", Err: errors.New("must be positive")}
	}
	return nil
}

// MarketsTTL is the freshness window of the market snapshot
func (c *Config) MarketsTTL() time.Duration {
	return time.Duration(c.Cache.MarketsTTLSec) * time.Second
}

// CoinListTTL is the freshness window of the coin identifier list
func (c *Config) CoinListTTL() time.Duration {
	return time.Duration(c.Cache.CoinListTTLSec) * time.Second
}

// HTTPTimeout is the per-request client timeout, zero when disabled
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// PollInterval is the live feed refresh interval
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Feed.PollIntervalSec) * time.Second
}

// overrideWithEnv는 환경 변수가 존재할 경우 설정 값을 덮어씁니다.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("COINBOARD_API_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if key := os.Getenv("COINBOARD_API_KEY"); key != "" {
		cfg.API.APIKey = key
	}
	if path := os.Getenv("COINBOARD_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if level := os.Getenv("COINBOARD_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
