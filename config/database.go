package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the configured database and sizes its connection pool
func ConnectDatabase(cfg *Config) error {
	dialector, err := Dialector(cfg.DBDriver, cfg.GetDatabaseURL())
	if err != nil {
		return err
	}

	gormConfig := &gorm.Config{
		Logger:         NewGormLogger(log.Logger, logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	log.Info().Str("driver", cfg.DBDriver).Msg("Database connection established successfully")
	return nil
}

// Dialector returns the GORM dialector for a driver name
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
