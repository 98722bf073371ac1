package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/database/migrations"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var ErrUnsupportedURL = errors.New("unsupported database URL")

// ParseURL picks the backend from the URL scheme and returns the driver DSN.
//
//	postgres://... | postgresql://...  -> Postgres, URL passed through
//	sqlite:///./moderation.db          -> SQLite file ./moderation.db
//	sqlite:///:memory:                 -> SQLite in-memory database
func ParseURL(raw string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DialectPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(strings.TrimPrefix(raw, "sqlite://"), "/")
		if path == "" {
			return "", "", fmt.Errorf("%w: missing sqlite path in %q", ErrUnsupportedURL, raw)
		}
		return DialectSQLite, sqliteDSN(path), nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}
}

func sqliteDSN(path string) string {
	params := "_busy_timeout=5000&_foreign_keys=on"
	if path != ":memory:" {
		params += "&_journal_mode=WAL"
	}
	return path + "?" + params
}

// Open connects to the backend named by cfg.DatabaseURL and sizes its pool.
func Open(cfg *config.Config) (*gorm.DB, Dialect, error) {
	dialect, dsn, err := ParseURL(cfg.DatabaseURL)
	if err != nil {
		return nil, "", err
	}

	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.Open(dsn)
	case DialectSQLite:
		dialector = sqlite.Open(dsn)
	}

	db, err := OpenDialector(dialector)
	if err != nil {
		return nil, "", err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if dialect == DialectSQLite {
		// One connection: SQLite has a single writer, and an in-memory
		// database lives only as long as its connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(min(cfg.DBMaxIdleConns, cfg.DBMaxOpenConns))
		sqlDB.SetConnMaxLifetime(cfg.DBConnLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.DBConnIdleTime)
	}

	slog.Info("database connected", "dialect", string(dialect))
	return db, dialect, nil
}

// OpenDialector opens GORM with the settings shared by every backend.
func OpenDialector(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded migrations for dialect.
func Migrate(ctx context.Context, db *gorm.DB, dialect Dialect) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	var gooseDialect goose.Dialect
	switch dialect {
	case DialectPostgres:
		gooseDialect = goose.DialectPostgres
	case DialectSQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("%w: no migrations for dialect %q", ErrUnsupportedURL, dialect)
	}

	fsys, err := fs.Sub(migrations.FS, string(dialect))
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", dialect, err)
	}

	provider, err := goose.NewProvider(gooseDialect, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "duration", r.Duration.String())
	}
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
