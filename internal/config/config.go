package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host               string   `mapstructure:"host"`
	Port               string   `mapstructure:"port"`
	ReadTimeout        int      `mapstructure:"read_timeout"`
	WriteTimeout       int      `mapstructure:"write_timeout"`
	MaxHeaderBytes     int      `mapstructure:"max_header_bytes"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"ssl_mode"`
	MaxRetries int    `mapstructure:"max_retries"`
	RetryDelay int    `mapstructure:"retry_delay"` // seconds
	LogLevel   string `mapstructure:"log_level"`
}

// SecurityConfig holds password hashing configuration
type SecurityConfig struct {
	PasswordAlgorithm string `mapstructure:"password_algorithm"`
	Argon2MemoryCost  uint32 `mapstructure:"argon2_memory_cost"` // KiB
	Argon2TimeCost    uint32 `mapstructure:"argon2_time_cost"`
	Argon2Parallelism uint8  `mapstructure:"argon2_parallelism"`
	BcryptRounds      int    `mapstructure:"bcrypt_rounds"`
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Type     string `mapstructure:"type"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

var config *Config

// Init initializes the configuration from the global viper instance
func Init() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
	config = cfg
}

// Get returns the global configuration
func Get() *Config {
	if config == nil {
		Init()
	}
	return config
}

// Load applies defaults and environment overrides to v and decodes it.
// Environment variables use the key path with dots replaced by underscores,
// e.g. DATABASE_DRIVER or SECURITY_PASSWORD_ALGORITHM.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Database.Driver == "postgresql" {
		cfg.Database.Driver = "postgres"
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "user-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.max_header_bytes", 1048576)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "api_db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_retries", 10)
	v.SetDefault("database.retry_delay", 3)
	v.SetDefault("database.log_level", "warn")

	// Security defaults
	v.SetDefault("security.password_algorithm", "argon2")
	v.SetDefault("security.argon2_memory_cost", 65536)
	v.SetDefault("security.argon2_time_cost", 3)
	v.SetDefault("security.argon2_parallelism", 1)
	v.SetDefault("security.bcrypt_rounds", 12)

	// Cache defaults
	v.SetDefault("cache.type", "none")
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 300)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/user-service.log")
}
