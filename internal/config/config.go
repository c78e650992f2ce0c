package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artcove/artcove/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	PayPal     PayPalConfig     `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PayPalConfig carries the provider credentials and endpoints. ClientID and
// ClientSecret are deliberately not required at load time: a missing pair
// only fails the first token exchange, so read-only deployments still boot.
type PayPalConfig struct {
	ClientID       string
	ClientSecret   string
	BaseURL        string
	Mode           string `validate:"omitempty,oneof=sandbox live"`
	RequestTimeout time.Duration
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/artcove")

	v.SetEnvPrefix("ARTCOVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("paypal.baseurl", "https://api-m.sandbox.paypal.com")
	v.SetDefault("paypal.mode", "sandbox")
	v.SetDefault("paypal.requesttimeout", 10*time.Second)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// DSN returns the Postgres connection string
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// IsSandbox reports whether the provider credentials target the sandbox
// environment. Kept on the config so recorded payments can carry the
// environment they were verified against.
func (c PayPalConfig) IsSandbox() bool {
	return c.Mode != "live"
}
