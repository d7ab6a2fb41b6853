package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	logger "github.com/sirupsen/logrus"

	"rollbarreporter/src/level"
)

// DefaultEndpoint is the items ingestion endpoint.
// https://docs.rollbar.com/reference/create-item
const DefaultEndpoint = "https://api.rollbar.com/api/1/item/"

type Config struct {
	AccessToken string        `envconfig:"ROLLBAR_ACCESS_TOKEN"`
	Environment string        `envconfig:"ROLLBAR_ENVIRONMENT" default:"development"`
	Endpoint    string        `envconfig:"ROLLBAR_ENDPOINT" default:"https://api.rollbar.com/api/1/item/"`
	Timeout     time.Duration `envconfig:"ROLLBAR_TIMEOUT" default:"0s"` // 0 keeps the transport default
	RetryCount  int           `envconfig:"ROLLBAR_RETRY_COUNT" default:"0"`
	PanicLevel  level.Level   `envconfig:"ROLLBAR_PANIC_LEVEL" default:"error"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"debug"` // Expected to hold values like "debug", "info", "warn", "error"
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"` // Expected to hold values like "json" or "text"

	OutboxDriver string `envconfig:"OUTBOX_DRIVER" default:"sqlite"` // "sqlite" or "postgres"
	OutboxDSN    string `envconfig:"OUTBOX_DSN"`                     // empty disables the outbox
	GormLogLevel int    `envconfig:"GORM_LOG_LEVEL" default:"2"`

	Port string `envconfig:"PORT" default:"9898"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return Config{}, fmt.Errorf("error processing env config: %w", err)
	}
	return config, nil
}

func GetConfig() Config {
	config, err := Load()
	if err != nil {
		panic(err)
	}
	return config
}

// OutboxEnabled reports whether undelivered reports should be persisted.
func (c Config) OutboxEnabled() bool {
	return strings.TrimSpace(c.OutboxDSN) != ""
}

// SetupLogger applies the configured level and formatter to the standard
// logrus logger.
func SetupLogger(config Config) {
	level, err := logger.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		level = logger.DebugLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(config.LogFormat, "json") {
		logger.SetFormatter(&logger.JSONFormatter{})
		return
	}
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}
