package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rollbarreporter/src/config"
	"rollbarreporter/src/model"
)

// OutboxDB holds undelivered reports. It stays nil while the outbox is
// disabled.
var OutboxDB *gorm.DB

// Open connects to the outbox database named by the configuration and
// migrates its schema.
func Open(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.OutboxDriver) {
	case "postgres":
		dialector = postgres.Open(cfg.OutboxDSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.OutboxDSN)
	default:
		return nil, fmt.Errorf("unsupported outbox driver %q", cfg.OutboxDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.LogLevel(cfg.GormLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to outbox database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from outbox database: %w", err)
	}
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the outbox tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.UndeliveredReport{}); err != nil {
		return fmt.Errorf("failed to run migrations on outbox database: %w", err)
	}
	return nil
}

// InitOutboxDB opens the outbox database when one is configured and keeps
// it in OutboxDB. It reports whether the outbox is enabled.
func InitOutboxDB(cfg config.Config) (bool, error) {
	if !cfg.OutboxEnabled() {
		logrus.Info("[database] outbox disabled, no OUTBOX_DSN set")
		return false, nil
	}

	db, err := Open(cfg)
	if err != nil {
		return false, err
	}
	OutboxDB = db

	logrus.WithField("driver", cfg.OutboxDriver).Info("[database] OutboxDB connection established")
	return true, nil
}
