package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type CountryConfig struct {
	Env        string `yaml:"env" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	CountryDB  `yaml:"country_db"`
	LogConfig  `yaml:"log_config"`
	Upstream   `yaml:"upstream"`
	Summary    `yaml:"summary"`
	Kafka      `yaml:"kafka"`
	Migrations `yaml:"migrations"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type CountryDB struct {
	Dsn string `yaml:"dsn" env:"COUNTRY_DB_DSN"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"text"`
}

type Upstream struct {
	CountriesURL string        `yaml:"countries_url" env-default:"https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies"`
	RatesURL     string        `yaml:"rates_url" env-default:"https://open.er-api.com/v6/latest/USD"`
	Timeout      time.Duration `yaml:"timeout" env-default:"6s"`
}

type Summary struct {
	ImagePath string `yaml:"image_path" env-default:"cache/summary.png"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic" env-default:"country-refresh-events"`
}

type Migrations struct {
	Path string `yaml:"path" env-default:"migrations"`
}

func MustLoad() *CountryConfig {

	// Processing env config variable and file
	configPath := os.Getenv("COUNTRY_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("COUNTRY_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg CountryConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
