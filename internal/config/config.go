package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Cron       CronConfig       `mapstructure:"cron"`
	OddsAPI    OddsAPIConfig    `mapstructure:"odds_api"`
	Gamma      GammaConfig      `mapstructure:"gamma"`
	ClobREST   ClobRESTConfig   `mapstructure:"clob_rest"`
	ClobStream ClobStreamConfig `mapstructure:"clob_stream"`
	Consensus  ConsensusConfig  `mapstructure:"consensus"`
	Scan       ScanConfig       `mapstructure:"scan"`
	Compare    CompareConfig    `mapstructure:"compare"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Scan    string `mapstructure:"scan"`
}

type OddsAPIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Regions    string        `mapstructure:"regions"`
	Markets    string        `mapstructure:"markets"`
	OddsFormat string        `mapstructure:"odds_format"`
}

type GammaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ClobRESTConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ClobStreamConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	URL             string        `mapstructure:"url"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	MaxAssets       int           `mapstructure:"max_assets"`
}

// ConsensusConfig carries the source weight table. Weights are validated
// by consensus.NewWeightTable during startup, before anything runs.
type ConsensusConfig struct {
	Weights map[string]float64 `mapstructure:"weights"`
}

// ScanConfig drives the periodic discovery pass. Timezone is the location
// game dates are bucketed in; US sports schedules read naturally in eastern
// time.
type ScanConfig struct {
	Sports    []string `mapstructure:"sports"`
	TagID     int      `mapstructure:"tag_id"`
	PageLimit int      `mapstructure:"page_limit"`
	MaxPages  int      `mapstructure:"max_pages"`
	Timezone  string   `mapstructure:"timezone"`
}

// Location resolves the scan timezone, falling back to UTC when the name
// does not load.
func (c ScanConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || loc == nil {
		return time.UTC
	}
	return loc
}

type CompareConfig struct {
	MinEdge float64 `mapstructure:"min_edge"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ML")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.scan", "@every 15m")
	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com")
	v.SetDefault("odds_api.api_key", "")
	v.SetDefault("odds_api.timeout", "15s")
	v.SetDefault("odds_api.regions", "us,eu")
	v.SetDefault("odds_api.markets", "h2h")
	v.SetDefault("odds_api.odds_format", "decimal")
	v.SetDefault("gamma.base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("gamma.timeout", "15s")
	v.SetDefault("clob_rest.base_url", "https://clob.polymarket.com")
	v.SetDefault("clob_rest.timeout", "15s")
	v.SetDefault("clob_stream.enabled", true)
	v.SetDefault("clob_stream.url", "")
	v.SetDefault("clob_stream.refresh_interval", "30s")
	v.SetDefault("clob_stream.max_assets", 200)
	v.SetDefault("consensus.weights", map[string]float64{
		"pinnacle":   0.5,
		"draftkings": 0.25,
		"fanduel":    0.25,
	})
	v.SetDefault("scan.sports", []string{
		"americanfootball_nfl",
		"americanfootball_ncaaf",
		"basketball_nba",
		"basketball_ncaab",
		"icehockey_nhl",
	})
	v.SetDefault("scan.tag_id", 100639)
	v.SetDefault("scan.page_limit", 200)
	v.SetDefault("scan.max_pages", 5)
	v.SetDefault("scan.timezone", "America/New_York")
	v.SetDefault("compare.min_edge", 0.02)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
