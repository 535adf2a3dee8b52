package database

import (
	"fmt"
	"time"

	"filmsocial/backend/internal/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options configures the database connection.
type Options struct {
	Driver string
	DSN    string
	Debug  bool
}

// Connect opens the database connection and runs migrations.
func Connect(opts Options, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(opts.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}

	// Configure GORM logger
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm").WithOptions(zap.IncreaseLevel(zapcore.InfoLevel))),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if opts.Driver == DriverSQLite {
		// A single connection serializes writers and keeps :memory: databases shared.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("database connection established", zap.String("driver", dialector.Name()))

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("database migrated")

	if err := Seed(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
