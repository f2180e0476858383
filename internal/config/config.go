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
	Redis      RedisConfig      `mapstructure:"redis"`
	OddsAPI    OddsAPIConfig    `mapstructure:"odds_api"`
	StatsAPI   StatsAPIConfig   `mapstructure:"stats_api"`
	Weather    WeatherConfig    `mapstructure:"weather"`
	Betting    BettingConfig    `mapstructure:"betting"`
	OddsSync   OddsSyncConfig   `mapstructure:"odds_sync"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Notify     NotifyConfig     `mapstructure:"notify"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr  string `mapstructure:"http_addr"`
	AuthToken string `mapstructure:"auth_token"`
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
	Enabled     bool   `mapstructure:"enabled"`
	OddsSync    string `mapstructure:"odds_sync"`
	ScoreSync   string `mapstructure:"score_sync"`
	WeatherPoll string `mapstructure:"weather_poll"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	StatsTTL time.Duration `mapstructure:"stats_ttl"`
	LiveTTL  time.Duration `mapstructure:"live_ttl"`
}

type OddsAPIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Regions string        `mapstructure:"regions"`
}

type StatsAPIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Season  string        `mapstructure:"season"`
}

type WeatherConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Cities  []string      `mapstructure:"cities"`
}

// BettingConfig carries the correlation and parlay policy knobs consumed by
// internal/betting.
type BettingConfig struct {
	SameGameDefaultCorrelation float64 `mapstructure:"same_game_default_correlation"`
	SameSportCorrelation       float64 `mapstructure:"same_sport_correlation"`
	DampingFactor              float64 `mapstructure:"damping_factor"`
	SGPWarningThreshold        float64 `mapstructure:"sgp_warning_threshold"`
}

type OddsSyncConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Sports     []string `mapstructure:"sports"`
	Markets    []string `mapstructure:"markets"`
	Bookmakers []string `mapstructure:"bookmakers"`
	DaysFrom   int      `mapstructure:"days_from"`
}

type SettlementConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	BatchSize int  `mapstructure:"batch_size"`
}

type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.auth_token", "")
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
	v.SetDefault("cron.odds_sync", "@every 5m")
	v.SetDefault("cron.score_sync", "@every 2m")
	v.SetDefault("cron.weather_poll", "@every 30m")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stats_ttl", "10m")
	v.SetDefault("redis.live_ttl", "30s")
	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com")
	v.SetDefault("odds_api.timeout", "15s")
	v.SetDefault("odds_api.regions", "us")
	v.SetDefault("stats_api.base_url", "https://stats.nba.com/stats")
	v.SetDefault("stats_api.timeout", "15s")
	v.SetDefault("stats_api.season", "2025-26")
	v.SetDefault("weather.enabled", false)
	v.SetDefault("weather.base_url", "https://api.weatherapi.com/v1")
	v.SetDefault("weather.timeout", "10s")
	v.SetDefault("betting.same_game_default_correlation", 0.5)
	v.SetDefault("betting.same_sport_correlation", 0.1)
	v.SetDefault("betting.damping_factor", 0.3)
	v.SetDefault("betting.sgp_warning_threshold", 0.05)
	v.SetDefault("odds_sync.enabled", true)
	v.SetDefault("odds_sync.sports", []string{"basketball_nba", "americanfootball_nfl"})
	v.SetDefault("odds_sync.markets", []string{"h2h", "spreads", "totals"})
	v.SetDefault("odds_sync.days_from", 3)
	v.SetDefault("settlement.enabled", true)
	v.SetDefault("settlement.batch_size", 200)
	v.SetDefault("notify.enabled", true)

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
