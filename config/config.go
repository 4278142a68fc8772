package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration, loaded once at startup
// and passed explicitly to every component that needs it.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Retention RetentionConfig `mapstructure:"retention"`
	Posts     PostsConfig     `mapstructure:"posts"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Bots      BotsConfig      `mapstructure:"bots"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, postgres
	DSN    string `mapstructure:"dsn"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type RetentionConfig struct {
	Window        time.Duration `mapstructure:"window"`
	BotWindow     time.Duration `mapstructure:"bot_window"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type PostsConfig struct {
	ContentMax int     `mapstructure:"content_max"`
	RatePerMin float64 `mapstructure:"rate_per_min"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	FeedTTL  time.Duration `mapstructure:"feed_ttl"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

type TracingConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type BotSource struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Category string `mapstructure:"category"` // general, financial, political
}

type BotsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	MaxLive  int           `mapstructure:"max_live"`
	Sources  []BotSource   `mapstructure:"sources"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads config.yaml (optional) and the environment. Env vars override
// file values; the legacy names DATABASE_URL, SECRET_KEY and
// RETENTION_WINDOW are honored too.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "vanish.db")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("retention.window", 3*time.Hour)
	v.SetDefault("retention.bot_window", 15*time.Minute)
	v.SetDefault("retention.sweep_interval", time.Minute)
	v.SetDefault("posts.content_max", 500)
	v.SetDefault("posts.rate_per_min", 30)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.feed_ttl", 5*time.Second)
	v.SetDefault("bots.enabled", false)
	v.SetDefault("bots.interval", 30*time.Second)
	v.SetDefault("bots.max_live", 5)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("VANISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Flat names kept for compatibility with existing deployments.
	_ = v.BindEnv("database.dsn", "VANISH_DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("auth.secret", "VANISH_AUTH_SECRET", "SECRET_KEY")
	_ = v.BindEnv("retention.window", "VANISH_RETENTION_WINDOW", "RETENTION_WINDOW")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
