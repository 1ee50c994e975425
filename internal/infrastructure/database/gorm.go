package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"user-service/pkg/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogLevel string
}

// Dialector picks the GORM dialector for the configured driver.
// A zero port falls back to the driver's default.
func Dialector(config Config) (gorm.Dialector, error) {
	switch config.Driver {
	case DriverSQLite:
		return sqlite.Open(SQLitePath(config.DBName)), nil
	case DriverMySQL:
		port := config.Port
		if port == 0 {
			port = 3306
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			config.User, config.Password, config.Host, port, config.DBName)
		return mysql.Open(dsn), nil
	case DriverPostgres:
		port := config.Port
		if port == 0 {
			port = 5432
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s connect_timeout=10",
			config.Host, config.User, config.Password, config.DBName, port, config.SSLMode)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Driver)
	}
}

// SQLitePath maps a database name onto its file. Names that already look
// like a path or DSN are used unchanged.
func SQLitePath(name string) string {
	if strings.HasSuffix(name, ".db") || strings.HasPrefix(name, "file:") || name == ":memory:" {
		return name
	}
	return name + ".db"
}

func NewConnection(config Config) (*gorm.DB, error) {
	dialector, err := Dialector(config)
	if err != nil {
		return nil, err
	}

	if config.Driver == DriverSQLite {
		path := SQLitePath(config.DBName)
		if !strings.HasPrefix(path, "file:") && path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(config.LogLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if config.Driver == DriverSQLite {
		// one writer at a time for sqlite
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// ConnectWithRetry opens the database and pings it, making up to maxRetries
// attempts with delay between them. Configuration errors are not retried.
func ConnectWithRetry(config Config, maxRetries int, delay time.Duration) (*gorm.DB, error) {
	if _, err := Dialector(config); err != nil {
		return nil, err
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err := NewConnection(config)
		if err == nil {
			if err = HealthCheck(db); err == nil {
				logger.WithField("driver", config.Driver).Info("Database connection established")
				return db, nil
			}
			Close(db)
		}
		lastErr = err

		logger.WithField("driver", config.Driver).
			WithField("attempt", attempt).
			WithField("max_retries", maxRetries).
			Warnf("Database connection failed: %v", err)

		if attempt < maxRetries {
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetries, lastErr)
}

func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close database: %v", err)
	}
}

// newGormLogger routes GORM's SQL log through the application logger.
func newGormLogger(level string) gormlogger.Interface {
	var lvl gormlogger.LogLevel
	switch strings.ToLower(level) {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	default:
		lvl = gormlogger.Warn
	}

	return gormlogger.New(logger.GetLogger(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
