package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const ConfigPathEnv = "PANTEREX_CONFIG_PATH"

type PanterexConfig struct {
	Env          string `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	Storage      `yaml:"storage"`
	LogConfig    `yaml:"log_config"`
	Auth         `yaml:"auth"`
	Rates        `yaml:"rates"`
	Commissions  `yaml:"commissions"`
	Cache        `yaml:"cache"`
	KafkaService `yaml:"kafka-service"`
	Metrics      `yaml:"metrics"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env-default:"*"`
}

type Storage struct {
	// postgres | memory
	Driver         string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	Dsn            string        `yaml:"dsn" env:"DATABASE_DSN"`
	MigrationsPath string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
	MaxOpenConns   int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns   int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLife    time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	Issuer    string `yaml:"issuer" env:"JWT_ISSUER" env-default:"panterex-auth"`
	Audience  string `yaml:"audience" env:"JWT_AUDIENCE" env-default:"panterex-admin"`
	AdminRole string `yaml:"admin_role" env-default:"admin"`
}

type Rates struct {
	CacheTTL        time.Duration `yaml:"cache_ttl" env:"RATES_CACHE_TTL" env-default:"300s"`
	StaleTolerance  time.Duration `yaml:"stale_tolerance" env-default:"0s"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" env-default:"10s"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env-default:"5m"`
	// live upstream requests per second per source
	FetchRPS   float64     `yaml:"fetch_rps" env-default:"1"`
	FetchBurst int         `yaml:"fetch_burst" env-default:"2"`
	Bitkub     BitkubAPI   `yaml:"bitkub"`
	Bybit      BybitP2PAPI `yaml:"bybit"`
}

type BitkubAPI struct {
	BaseURL string `yaml:"base_url" env-default:"https://api.bitkub.com"`
	Symbol  string `yaml:"symbol" env-default:"THB_USDT"`
}

type BybitP2PAPI struct {
	BaseURL    string `yaml:"base_url" env-default:"https://api2.bybit.com"`
	TokenID    string `yaml:"token_id" env-default:"USDT"`
	CurrencyID string `yaml:"currency_id" env-default:"RUB"`
	// "1" - объявления на продажу USDT
	Side       string `yaml:"side" env-default:"1"`
	PageSize   int    `yaml:"page_size" env-default:"10"`
	// позиции стакана, по которым считается средняя цена
	PositionStart int `yaml:"position_start" env-default:"0"`
	PositionEnd   int `yaml:"position_end" env-default:"4"`
}

type Commissions struct {
	DefaultPercent float64 `yaml:"default_percent" env:"DEFAULT_COMMISSION" env-default:"1.0"`
}

type Cache struct {
	// memory | redis
	Backend string `yaml:"backend" env:"CACHE_BACKEND" env-default:"memory"`
	Redis   Redis  `yaml:"redis"`
}

type Redis struct {
	Addr      string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password  string `yaml:"password" env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" env-default:"0"`
	Namespace string `yaml:"namespace" env-default:"panterex:rates"`
}

type KafkaService struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env-default:"rate-events"`
}

type Metrics struct {
	Path string `yaml:"path" env-default:"/metrics"`
}

func (s HTTPServer) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

func MustLoad() *PanterexConfig {

	// Processing env config variable and file
	configPath := os.Getenv(ConfigPathEnv)

	if configPath == "" {
		log.Fatalf("%s was not found\n", ConfigPathEnv)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return cfg
}

func Load(configPath string) (*PanterexConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	// YAML to struct object
	var cfg PanterexConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *PanterexConfig) validate() error {
	switch c.Storage.Driver {
	case "postgres":
		if c.Storage.Dsn == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Rates.CacheTTL <= 0 {
		return fmt.Errorf("rates.cache_ttl must be positive")
	}
	if c.Commissions.DefaultPercent < 0 {
		return fmt.Errorf("commissions.default_percent must not be negative")
	}
	return nil
}
