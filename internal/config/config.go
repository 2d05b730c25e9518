package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag, environment or config file.
	DefaultDatabaseURL = ""

	// DefaultRedisURL is empty, which disables the version list cache and change notifications.
	DefaultRedisURL = ""

	// EnvPrefix prefixes environment overrides of config file keys, e.g. AGENTDESK_SERVER_PORT.
	EnvPrefix = "AGENTDESK"
)

// Config is the root configuration of the service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Versions VersionsConfig `mapstructure:"versions"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig describes the HTTP server.
type ServerConfig struct {
	Port              string        `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig describes the PostgreSQL connection pool.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// RedisConfig describes the optional Redis connection.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// VersionsConfig tunes the versioning read path.
type VersionsConfig struct {
	ListCacheTTL      time.Duration `mapstructure:"list_cache_ttl"`
	ReadRetryAttempts uint          `mapstructure:"read_retry_attempts"`
	ReadRetryDelay    time.Duration `mapstructure:"read_retry_delay"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the optional YAML config file at path and applies AGENTDESK_* environment overrides.
// An empty path yields defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.url", DefaultDatabaseURL)
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("redis.url", DefaultRedisURL)
	v.SetDefault("versions.list_cache_ttl", 5*time.Second)
	v.SetDefault("versions.read_retry_attempts", 3)
	v.SetDefault("versions.read_retry_delay", 50*time.Millisecond)
	v.SetDefault("log.level", "info")
}
