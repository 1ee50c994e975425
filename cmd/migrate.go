package cmd

import (
	"fmt"
	"os"

	"user-service/internal/config"
	"user-service/internal/infrastructure/database"
	"user-service/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration management",
	Long:  "Manage the database schema for the user service",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or upgrade the schema",
	Long:  "Create missing tables, columns and indexes for every model",
	Run:   runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long:  "Display whether each table exists and how many rows it holds",
	Run:   runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) {
	cfg := config.Get()

	db, err := connectDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.Database.Driver); err != nil {
		logger.Error("Migration failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("Migrations completed successfully!")
}

func runMigrateStatus(cmd *cobra.Command, args []string) {
	cfg := config.Get()

	db, err := connectDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer database.Close(db)

	statuses, err := database.NewMigrationRunner(db, cfg.Database.Driver).GetMigrationStatus()
	if err != nil {
		logger.Error("Failed to get migration status: %v", err)
		os.Exit(1)
	}

	fmt.Println("Migration Status:")
	fmt.Println("================")
	for _, status := range statuses {
		state := "Pending"
		if status.Exists {
			state = fmt.Sprintf("Applied, %d rows", status.RowCount)
		}
		fmt.Printf("%s [%s]\n", status.Table, state)
	}
}
