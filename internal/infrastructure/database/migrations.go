package database

import (
	"fmt"

	"user-service/internal/domain/user"
	"user-service/pkg/logger"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type TableStatus struct {
	Table    string
	Exists   bool
	RowCount int64
}

type MigrationRunner struct {
	db     *gorm.DB
	driver string
	models []interface{}
}

func NewMigrationRunner(db *gorm.DB, driver string) *MigrationRunner {
	return &MigrationRunner{
		db:     db,
		driver: driver,
		models: []interface{}{&user.User{}},
	}
}

// RunMigrations creates or upgrades the tables for every model.
func (mr *MigrationRunner) RunMigrations() error {
	for _, model := range mr.models {
		if err := mr.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return nil
}

// GetMigrationStatus reports, per model table, whether it exists and how many
// rows it holds.
func (mr *MigrationRunner) GetMigrationStatus() ([]TableStatus, error) {
	sqlDB, err := mr.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// sqlx only borrows the pool; closing it here would close gorm's too.
	xdb := sqlx.NewDb(sqlDB, sqlxDriverName(mr.driver))

	var statuses []TableStatus
	for _, model := range mr.models {
		stmt := &gorm.Statement{DB: mr.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse %T: %w", model, err)
		}
		table := stmt.Schema.Table

		status := TableStatus{Table: table, Exists: mr.db.Migrator().HasTable(model)}
		if status.Exists {
			if err := xdb.Get(&status.RowCount, "SELECT COUNT(*) FROM "+table); err != nil {
				return nil, fmt.Errorf("failed to count rows in %s: %w", table, err)
			}
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func RunMigrations(db *gorm.DB, driver string) error {
	logger.Info("Running database migrations...")

	if err := NewMigrationRunner(db, driver).RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

func sqlxDriverName(driver string) string {
	switch driver {
	case DriverPostgres:
		return "pgx"
	case DriverMySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}
