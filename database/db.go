package database

import (
	"fmt"
	stdlog "log"

	"gst-billing-backend/config"
	"gst-billing-backend/logger"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the Postgres pool. The caller owns the handle and must Close it at shutdown.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	log := logger.WithComponent("database")

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormlogger.New(
			stdlog.New(log, "", 0),
			gormlogger.Config{
				LogLevel:                  gormlogger.Warn,
				SlowThreshold:             cfg.DBSlowThreshold,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLife)
	}

	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		log.Warn().Err(err).Msg("failed to install otelgorm plugin")
	}

	log.Info().Msg("connected to database")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
