package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"noise-sentinel/internal/config"
)

const slowQueryThreshold = 500 * time.Millisecond

// New opens the database and brings the schema up to date.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	database, err := Open(cfg.DB, cfg.Environment, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, database); err != nil {
		_ = Close(database)
		return nil, err
	}
	log.Info().Int("migrations", len(migrationStatements)).Msg("database schema up to date")
	return database, nil
}

// Open connects to postgres and applies the pool limits. gorm logs through zerolog.
func Open(cfg config.DBConfig, environment string, log zerolog.Logger) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: newGormLogger(log, environment),
		// autoCreateTime columns are written in UTC.
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	applyPool(sqlDB, cfg)
	return database, nil
}

func applyPool(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck pings the pool and checks that the numbering table is reachable.
func HealthCheck(ctx context.Context, database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err := database.WithContext(ctx).Exec("SELECT 1 FROM document_sequences LIMIT 1").Error; err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

func newGormLogger(log zerolog.Logger, environment string) gormlogger.Interface {
	level := gormlogger.Warn
	if environment == "development" {
		level = gormlogger.Info
	}
	return gormlogger.New(
		zerologWriter{logger: log.With().Str("component", "gorm").Logger()},
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  level,
		},
	)
}

type zerologWriter struct {
	logger zerolog.Logger
}

func (w zerologWriter) Printf(msg string, args ...interface{}) {
	w.logger.Debug().Msgf(msg, args...)
}
