package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const EnvDevelopment = "development"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Market   MarketConfig   `yaml:"market"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Environment    string   `yaml:"environment"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig leaves the quote cache disabled when Addr is empty.
type RedisConfig struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	QuoteTTLSeconds int    `yaml:"quote_ttl_seconds"`
}

type MarketConfig struct {
	BaseURL                string  `yaml:"base_url"`
	APIKey                 string  `yaml:"api_key"`
	TimeoutSeconds         int     `yaml:"timeout_seconds"`
	RequestsPerSecond      float64 `yaml:"requests_per_second"`
	Burst                  int     `yaml:"burst"`
	MaxRetries             uint64  `yaml:"max_retries"`
	MaxConcurrency         int     `yaml:"max_concurrency"`
	RefreshIntervalSeconds int     `yaml:"refresh_interval_seconds"`
}

type LogConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

var (
	App *Config
)

// IsDevelopment reports whether detailed error messages may be sent to clients.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Server.Environment), EnvDevelopment)
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Environment: "production",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "",
			Database: "stockdash",
		},
		Redis: RedisConfig{
			QuoteTTLSeconds: 30,
		},
		Market: MarketConfig{
			BaseURL:                "http://localhost:9090",
			TimeoutSeconds:         10,
			RequestsPerSecond:      5,
			Burst:                  5,
			MaxRetries:             3,
			MaxConcurrency:         4,
			RefreshIntervalSeconds: 300,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

func Load() error {
	return LoadFrom("application.yaml")
}

func LoadFrom(configPath string) error {
	App = Default()

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromYAML(configPath); err != nil {
			return fmt.Errorf("failed to load config from YAML: %w", err)
		}
		log.Printf("Loaded configuration from %s", configPath)
	} else {
		log.Printf("Config file %s not found, using defaults and environment variables", configPath)
	}

	loadFromEnv()

	return Validate(App)
}

func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	if strings.TrimSpace(cfg.Market.BaseURL) == "" {
		return errors.New("market base_url is required")
	}
	if cfg.Market.MaxConcurrency <= 0 {
		return fmt.Errorf("invalid market max_concurrency %d", cfg.Market.MaxConcurrency)
	}
	return nil
}

func loadFromYAML(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, App); err != nil {
		return err
	}

	return nil
}

func loadFromEnv() {
	if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			App.Server.Port = port
		}
	}

	// APP_ENV wins over NODE_ENV; NODE_ENV is still honoured for existing deployments.
	if env := os.Getenv("NODE_ENV"); env != "" {
		App.Server.Environment = env
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		App.Server.Environment = env
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		App.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		App.Database.Host = host
	}
	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			App.Database.Port = port
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		App.Database.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		App.Database.Password = password
	}
	if database := os.Getenv("DB_NAME"); database != "" {
		App.Database.Database = database
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		App.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		App.Redis.Password = password
	}

	if baseURL := os.Getenv("MARKET_BASE_URL"); baseURL != "" {
		App.Market.BaseURL = baseURL
	}
	if apiKey := os.Getenv("MARKET_API_KEY"); apiKey != "" {
		App.Market.APIKey = apiKey
	}
	if intervalStr := os.Getenv("MARKET_REFRESH_INTERVAL_SECONDS"); intervalStr != "" {
		if interval, err := strconv.Atoi(intervalStr); err == nil {
			App.Market.RefreshIntervalSeconds = interval
		}
	}

	if format := os.Getenv("LOG_FORMAT"); format != "" {
		App.Log.Format = format
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		App.Log.Level = level
	}
}
