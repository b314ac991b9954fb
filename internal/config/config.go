package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App      App      `yaml:"app"`
	HTTP     HTTP     `yaml:"http"`
	Log      Log      `yaml:"log"`
	Amadeus  Amadeus  `yaml:"amadeus"`
	Cache    Cache    `yaml:"cache"`
	Calendar Calendar `yaml:"calendar"`
	Compose  Compose  `yaml:"compose"`
	Redis    Redis    `yaml:"redis"`
	Postgres Postgres `yaml:"postgres"`
	Kafka    Kafka    `yaml:"kafka"`
}

type App struct {
	Name    string `yaml:"name" env:"APP_NAME" env-default:"rihla-api"`
	Version string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
}

type HTTP struct {
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Amadeus struct {
	BaseURL         string        `yaml:"base_url" env:"AMADEUS_BASE_URL" env-default:"https://test.api.amadeus.com"`
	ClientID        string        `yaml:"client_id" env:"AMADEUS_CLIENT_ID"`
	ClientSecret    string        `yaml:"client_secret" env:"AMADEUS_CLIENT_SECRET"`
	RequestCurrency string        `yaml:"request_currency" env:"AMADEUS_REQUEST_CURRENCY" env-default:"EUR"`
	DisplayCurrency string        `yaml:"display_currency" env:"AMADEUS_DISPLAY_CURRENCY" env-default:"MRU"`
	ConversionRate  float64       `yaml:"conversion_rate" env:"AMADEUS_CONVERSION_RATE" env-default:"450"`
	MaxResults      int           `yaml:"max_results" env:"AMADEUS_MAX_RESULTS" env-default:"20"`
	TokenSafetyGap  time.Duration `yaml:"token_safety_gap" env:"AMADEUS_TOKEN_SAFETY_GAP" env-default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"AMADEUS_REQUEST_TIMEOUT" env-default:"15s"`
}

type Cache struct {
	Backend string        `yaml:"backend" env:"CACHE_BACKEND" env-default:"memory"`
	TTL     time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"5m"`
}

type Calendar struct {
	MinInterval    time.Duration `yaml:"min_interval" env:"CALENDAR_MIN_INTERVAL" env-default:"2s"`
	BackoffPenalty time.Duration `yaml:"backoff_penalty" env:"CALENDAR_BACKOFF_PENALTY" env-default:"5s"`
}

type Compose struct {
	MaxOffersPerLeg int `yaml:"max_offers_per_leg" env:"COMPOSE_MAX_OFFERS_PER_LEG" env-default:"20"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"rihla"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"rihla"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB" env-default:"rihla_db"`
}

type Kafka struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"booking-events"`
}

func New() (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// fallback to env vars if file not found
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else {
		// Allow env vars to override config file
		cleanenv.ReadEnv(cfg)
	}

	return cfg, nil
}
