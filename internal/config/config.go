package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultCacheTTLSeconds is applied when no TTL is configured.
const DefaultCacheTTLSeconds = 300

type Config struct {
	Server struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Cache struct {
		TTLSeconds int `mapstructure:"ttl"` // entry time-to-live in seconds
		Size       int `mapstructure:"size"`
	} `mapstructure:"cache"`
	LogLevel  string `mapstructure:"log_level"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// RedisAddr returns the host:port of the configured cache endpoint, or an
// empty string when no cache is configured. An empty address means the
// service starts in degraded mode and serves purely from the store.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// CacheTTL returns the configured entry time-to-live as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	globalConfig = config
}

// LoadConfig reads configuration from an optional config.yaml plus the
// environment. Deployment environments configure the service purely via
// environment variables (PORT, REDIS_HOST, REDIS_PORT, REDIS_PASSWORD,
// CACHE_TTL, LOG_LEVEL); a missing config file is not an error, and a
// missing Redis endpoint never prevents startup.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Deployment environments use unprefixed variable names.
	_ = viper.BindEnv("server.port", "PORT")
	_ = viper.BindEnv("redis.host", "REDIS_HOST")
	_ = viper.BindEnv("redis.port", "REDIS_PORT")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("cache.ttl", "CACHE_TTL")
	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("sentry_dsn", "SENTRY_DSN")

	// Set defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.address", "")
	viper.SetDefault("redis.host", "")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("cache.ttl", DefaultCacheTTLSeconds)
	viper.SetDefault("cache.size", 1024)
	viper.SetDefault("log_level", "info")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Cache.TTLSeconds <= 0 {
		config.Cache.TTLSeconds = DefaultCacheTTLSeconds
	}

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetLogger() zerolog.Logger {
	return logger
}
