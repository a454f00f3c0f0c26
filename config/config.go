package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`
	WCL    WCLConfig    `yaml:"wcl"`

	RecaptchaSecret string `yaml:"-"`
	SentryDSN       string `yaml:"-"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	PublicDir string `yaml:"public_dir"`

	// jobs waiting in the analysis queue before new ones are refused
	MaxQueue int `yaml:"max_queue"`
	// uploaded logs replayed at the same time
	MaxUploads int `yaml:"max_uploads"`
}

type CacheConfig struct {
	Dir       string        `yaml:"dir"`
	ResultTTL time.Duration `yaml:"result_ttl"`
	EventTTL  time.Duration `yaml:"event_ttl"`
	Cleanup   string        `yaml:"cleanup"`
	RedisAddr string        `yaml:"redis_addr"`
}

type WCLConfig struct {
	TokenURL  string  `yaml:"token_url"`
	APIURL    string  `yaml:"api_url"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second
	Burst     int     `yaml:"burst"`
	Proxy     string  `yaml:"proxy"`

	ClientID     string `yaml:"-"`
	ClientSecret string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       "127.0.0.1:5555",
			PublicDir:  "./frontend/public/",
			MaxQueue:   64,
			MaxUploads: 2,
		},
		Cache: CacheConfig{
			Dir:       "./_cachedata",
			ResultTTL: time.Hour,
			EventTTL:  7 * 24 * time.Hour,
			Cleanup:   "@every 30m",
		},
		WCL: WCLConfig{
			TokenURL:  "https://www.warcraftlogs.com/oauth/token",
			APIURL:    "https://www.warcraftlogs.com/api/v2/client",
			RateLimit: 2,
			Burst:     4,
		},
	}
}

// Load reads secrets from .env and the environment, then overlays path on the
// defaults. A missing file at path keeps the defaults.
func Load(path string) (*Config, error) {
	godotenv.Load(".env")

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			err = yaml.Unmarshal(data, cfg)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", path)
			}
		case os.IsNotExist(err):
		default:
			return nil, errors.WithStack(err)
		}
	}

	cfg.WCL.ClientID = os.Getenv("WCL_CLIENT_ID")
	cfg.WCL.ClientSecret = os.Getenv("WCL_CLIENT_SECRET")
	cfg.RecaptchaSecret = os.Getenv("GOOGLE_RECAPTCHA_V3_SECRET")
	cfg.SentryDSN = os.Getenv("SENTRY_DSN")
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Cache.RedisAddr = addr
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("server.addr is required")
	case c.Server.MaxUploads < 1:
		return errors.New("server.max_uploads must be at least 1")
	case c.Cache.Dir == "":
		return errors.New("cache.dir is required")
	case c.Cache.ResultTTL < 0 || c.Cache.EventTTL < 0:
		return errors.New("cache ttl must not be negative")
	case c.WCL.RateLimit < 0:
		return errors.New("wcl.rate_limit must not be negative")
	}

	if c.Cache.Cleanup != "" {
		_, err := cron.ParseStandard(c.Cache.Cleanup)
		if err != nil {
			return errors.Wrap(err, "cache.cleanup")
		}
	}

	return nil
}
