package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var expireFormat = regexp.MustCompile(`^\d+[smhd]$`)

// Config is shared by the auth service and the gateway. Every required
// variable must be present for either process to start.
type Config struct {
	Port     string `env:"PORT,required,notEmpty"`
	AuthPort string `env:"AUTHPORT,required,notEmpty"`
	StoreDSN string `env:"MONGODB,required,notEmpty"`

	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`
	AccessTokenExpire  string `env:"ACCESS_TOKEN_EXPIRE,required,notEmpty"`
	RefreshTokenExpire string `env:"REFRESH_TOKEN_EXPIRE,required,notEmpty"`

	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"user_events"`

	UpstreamURL string `env:"UPSTREAM_URL"`
}

func (c *Config) Production() bool { return c.AppEnv == "production" }

// AuthAddr and GatewayAddr turn the configured ports into listen addresses.
// A value that already has a host part is used as is.
func (c *Config) AuthAddr() string    { return listenAddr(c.AuthPort) }
func (c *Config) GatewayAddr() string { return listenAddr(c.Port) }

func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func (c *Config) AccessSecret() []byte  { return []byte(c.AccessTokenSecret) }
func (c *Config) RefreshSecret() []byte { return []byte(c.RefreshTokenSecret) }

// Load reads the optional env file named by ENV_FILE (default .env) and then
// the process environment. Variables already set in the environment win.
func Load() (*Config, error) {
	return LoadFrom(EnvDefault("ENV_FILE", ".env"))
}

func LoadFrom(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("notice: could not read %s (%v), using process environment", envFile, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if !expireFormat.MatchString(c.AccessTokenExpire) {
		errs = append(errs, fmt.Errorf("ACCESS_TOKEN_EXPIRE must be in valid JWT time format (e.g., 30s, 10m, 24h, 7d), got %q", c.AccessTokenExpire))
	}
	if !expireFormat.MatchString(c.RefreshTokenExpire) {
		errs = append(errs, fmt.Errorf("REFRESH_TOKEN_EXPIRE must be in valid JWT time format (e.g., 30s, 10m, 24h, 7d), got %q", c.RefreshTokenExpire))
	}
	if c.AccessTokenSecret != "" && c.AccessTokenSecret == c.RefreshTokenSecret {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}
	return errors.Join(errs...)
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
