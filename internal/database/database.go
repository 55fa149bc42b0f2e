package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Config describes how to reach the federation database
type Config struct {
	// URL is either a postgres:// URL or a sqlite file path (optionally
	// prefixed with sqlite://). An empty path opens an in-memory database.
	URL            string
	MaxConnections int
	Tracing        bool
	Logger         *slog.Logger
}

// Open connects to the configured database. Postgres connections go through
// lib/pq so driver errors keep their SQLSTATE codes.
func Open(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)
	if isPostgres(cfg.URL) {
		db, err = openPostgres(cfg.URL, gormCfg)
	} else {
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.URL)), gormCfg)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	switch {
	case isMemory(cfg.URL):
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	case cfg.MaxConnections > 0:
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	}

	if cfg.Tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, fmt.Errorf("failed to enable tracing: %w", err)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("database opened", "dialect", db.Dialector.Name())
	}
	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openPostgres(url string, gormCfg *gorm.Config) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func isPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

func isMemory(url string) bool {
	path := strings.TrimPrefix(url, "sqlite://")
	return path == "" || path == ":memory:"
}

func sqliteDSN(url string) string {
	path := strings.TrimPrefix(url, "sqlite://")
	if isMemory(url) {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	if strings.Contains(path, "?") {
		return path
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
}

// IsUniqueViolation reports whether err comes from a unique index rejecting a row
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ViolatesConstraint reports whether err is a unique violation mentioning the
// given column or constraint name
func ViolatesConstraint(err error, name string) bool {
	if !IsUniqueViolation(err) {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return strings.Contains(pqErr.Constraint, name)
	}
	return strings.Contains(err.Error(), name)
}
