package database

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"notes-backend/internal/config"
)

// Open открывает соединение с БД по настройкам и при необходимости применяет миграции
func Open(ctx context.Context, cfg *config.ConfigDatabase, logger *log.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(logger, cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	maxOpen, maxIdle := cfg.MaxOpenConns, cfg.MaxIdleConns
	if cfg.Driver == "sqlite" {
		// SQLite сериализует запись, а :memory: база живет в одном соединении
		maxOpen, maxIdle = 1, 1
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if cfg.ConnMaxLifetime > 0 && cfg.Driver != "sqlite" {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(&noteEntity{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("database: migrate: %w", err)
		}
	}

	return db, nil
}

// Close закрывает пул соединений
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newGormLogger направляет логи GORM в logrus
func newGormLogger(logger *log.Logger, cfg *config.ConfigDatabase) gormlogger.Interface {
	level := gormlogger.Warn
	if logger.IsLevelEnabled(log.DebugLevel) {
		level = gormlogger.Info
	}

	slow := time.Duration(cfg.SlowQueryMs) * time.Millisecond
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}

	return gormlogger.New(
		logger.WithField("component", "gorm"),
		gormlogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
