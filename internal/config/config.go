package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env:"RSVP_BIND_IP" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env:"RSVP_PORT" env-default:"3001"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver" env:"RSVP_DB_DRIVER" env-default:"sqlite"`
	HostName string `yaml:"host_name" env:"RSVP_DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"RSVP_DB_PORT" env-default:"3306"`
	UserName string `yaml:"user_name" env:"RSVP_DB_USER" env-default:""`
	Password string `yaml:"password" env:"RSVP_DB_PASSWORD" env-default:""`
	Database string `yaml:"database" env:"RSVP_DB_NAME" env-default:"rsvp"`
	Path     string `yaml:"path" env:"RSVP_DB_PATH" env-default:"rsvp.db"`
}

type SessionConfig struct {
	Lifetime   time.Duration `yaml:"lifetime" env-default:"168h"`
	CookieName string        `yaml:"cookie_name" env-default:"session"`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env-default:"27017"`
	User     string `yaml:"user" env-default:""`
	Password string `yaml:"password" env-default:""`
	Database string `yaml:"database" env-default:"rsvp"`
}

type TelegramConfig struct {
	Enabled  bool    `yaml:"enabled" env-default:"false"`
	ApiKey   string  `yaml:"api_key" env:"RSVP_TELEGRAM_KEY" env-default:""`
	ChatIds  []int64 `yaml:"chat_ids"`
	LogLevel string  `yaml:"log_level" env-default:"error"`
	// DigestInterval batches failed sign-in notices; zero sends them at once.
	DigestInterval time.Duration `yaml:"digest_interval" env-default:"1h"`
}

type CorsConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Config struct {
	Env      string         `yaml:"env" env:"RSVP_ENV" env-default:"local"`
	Listen   Listen         `yaml:"listen"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Telegram TelegramConfig `yaml:"telegram"`
	Cors     CorsConfig     `yaml:"cors"`
}

// SecureCookies is off only for local development over plain http.
func (c *Config) SecureCookies() bool {
	return c.Env != EnvLocal
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("invalid env %q", c.Env)
	}
	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("session lifetime must be positive")
	}
	if c.Telegram.Enabled && c.Telegram.ApiKey == "" {
		return fmt.Errorf("telegram enabled without api_key")
	}
	return nil
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance, err = Load(path)
		if err != nil {
			log.Fatal(err)
		}
	})
	return instance
}

func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("config: %s; %s", err, desc)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return conf, nil
}
