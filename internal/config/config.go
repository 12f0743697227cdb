package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: server.port is read from
// TICKERWATCH_SERVER_PORT.
const EnvPrefix = "TICKERWATCH"

type Server struct {
	Port              string `mapstructure:"port"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Upstream struct {
	TimeoutSec int    `mapstructure:"timeout_sec"`
	UserAgent  string `mapstructure:"user_agent"`
}

type Equities struct {
	// Backend is "yahoo" or "financego".
	Backend  string `mapstructure:"backend"`
	QuoteURL string `mapstructure:"quote_url"`
	ChartURL string `mapstructure:"chart_url"`
	Range    string `mapstructure:"range"`
	Interval string `mapstructure:"interval"`
}

type CoinGecko struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

type Storage struct {
	// Driver is "memory" or "postgres".
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	InitSchema         bool   `mapstructure:"init_schema"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSec int    `mapstructure:"conn_max_lifetime_sec"`
}

type Session struct {
	// Mode is "header" (trusted proxy header) or "redis" (session cookie).
	Mode          string `mapstructure:"mode"`
	Header        string `mapstructure:"header"`
	Cookie        string `mapstructure:"cookie"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	NoticeTTLSec  int    `mapstructure:"notice_ttl_sec"`
}

type Config struct {
	Server    Server    `mapstructure:"server"`
	Log       Log       `mapstructure:"log"`
	Upstream  Upstream  `mapstructure:"upstream"`
	Equities  Equities  `mapstructure:"equities"`
	CoinGecko CoinGecko `mapstructure:"coingecko"`
	Storage   Storage   `mapstructure:"storage"`
	Session   Session   `mapstructure:"session"`
}

func Default() Config {
	return Config{
		Server:   Server{Port: "8080", RequestTimeoutSec: 30},
		Log:      Log{Level: "info", Format: "text"},
		Upstream: Upstream{TimeoutSec: 10, UserAgent: "tickerwatch/1.0"},
		Equities: Equities{
			Backend:  "yahoo",
			QuoteURL: "https://query1.finance.yahoo.com/v7/finance/quote",
			ChartURL: "https://query1.finance.yahoo.com/v8/finance/chart",
			Range:    "1mo",
			Interval: "1d",
		},
		CoinGecko: CoinGecko{URL: "https://api.coingecko.com/api/v3"},
		Storage: Storage{
			Driver:             "memory",
			InitSchema:         true,
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
		},
		Session: Session{
			Mode:         "header",
			Header:       "X-User-ID",
			Cookie:       "sessionid",
			RedisAddr:    "localhost:6379",
			NoticeTTLSec: 3600,
		},
	}
}

// Load layers defaults, an optional JSON/YAML/TOML file and environment
// overrides. An empty path falls back to $CONFIG_FILE and then to
// ./config.json if present. A named file that does not exist is ignored.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what most platforms inject.
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects unknown backends and incomplete storage or session
// settings.
func (c Config) Validate() error {
	switch c.Equities.Backend {
	case "yahoo", "financego":
	default:
		return fmt.Errorf("config: unknown equities backend %q", c.Equities.Backend)
	}
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			return errors.New("config: storage.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Session.Mode {
	case "header":
	case "redis":
		if c.Session.RedisAddr == "" {
			return errors.New("config: session.redis_addr is required for redis sessions")
		}
	default:
		return fmt.Errorf("config: unknown session mode %q", c.Session.Mode)
	}
	if c.Server.Port == "" {
		return errors.New("config: server.port is empty")
	}
	return nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.request_timeout_sec", d.Server.RequestTimeoutSec)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("upstream.timeout_sec", d.Upstream.TimeoutSec)
	v.SetDefault("upstream.user_agent", d.Upstream.UserAgent)

	v.SetDefault("equities.backend", d.Equities.Backend)
	v.SetDefault("equities.quote_url", d.Equities.QuoteURL)
	v.SetDefault("equities.chart_url", d.Equities.ChartURL)
	v.SetDefault("equities.range", d.Equities.Range)
	v.SetDefault("equities.interval", d.Equities.Interval)

	v.SetDefault("coingecko.url", d.CoinGecko.URL)
	v.SetDefault("coingecko.api_key", d.CoinGecko.APIKey)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.dsn", d.Storage.DSN)
	v.SetDefault("storage.init_schema", d.Storage.InitSchema)
	v.SetDefault("storage.max_open_conns", d.Storage.MaxOpenConns)
	v.SetDefault("storage.max_idle_conns", d.Storage.MaxIdleConns)
	v.SetDefault("storage.conn_max_lifetime_sec", d.Storage.ConnMaxLifetimeSec)

	v.SetDefault("session.mode", d.Session.Mode)
	v.SetDefault("session.header", d.Session.Header)
	v.SetDefault("session.cookie", d.Session.Cookie)
	v.SetDefault("session.redis_addr", d.Session.RedisAddr)
	v.SetDefault("session.redis_password", d.Session.RedisPassword)
	v.SetDefault("session.redis_db", d.Session.RedisDB)
	v.SetDefault("session.notice_ttl_sec", d.Session.NoticeTTLSec)
}
