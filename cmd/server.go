package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-service/internal/api/router"
	"user-service/internal/config"
	"user-service/internal/infrastructure/cache"
	"user-service/internal/infrastructure/database"
	"user-service/internal/infrastructure/repository"
	"user-service/internal/infrastructure/security"
	"user-service/internal/service"
	"user-service/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	port string
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server with the user API.
The database is connected with bounded retries and the schema is
migrated before the server starts accepting requests.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Flags for server command
	serverCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port for the server to listen on")
}

func databaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.Username,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	}
}

// connectDatabase is shared by every command that needs storage.
func connectDatabase(cfg *config.Config) (*gorm.DB, error) {
	return database.ConnectWithRetry(
		databaseConfig(cfg),
		cfg.Database.MaxRetries,
		time.Duration(cfg.Database.RetryDelay)*time.Second,
	)
}

func startServer() {
	cfg := config.Get()

	// Override port if flag is provided
	if port != "8080" {
		cfg.Server.Port = port
	}

	db, err := connectDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.Database.Driver); err != nil {
		logger.Fatal("Failed to migrate database: %v", err)
	}

	hasher, err := security.NewPasswordHasher(security.Config{
		Algorithm:         cfg.Security.PasswordAlgorithm,
		Argon2MemoryCost:  cfg.Security.Argon2MemoryCost,
		Argon2TimeCost:    cfg.Security.Argon2TimeCost,
		Argon2Parallelism: cfg.Security.Argon2Parallelism,
		BcryptRounds:      cfg.Security.BcryptRounds,
	})
	if err != nil {
		logger.Fatal("Invalid security configuration: %v", err)
	}

	userCache, err := cache.New(
		cfg.Cache.Type,
		fmt.Sprintf("%s:%d", cfg.Cache.Host, cfg.Cache.Port),
		cfg.Cache.Password,
		cfg.Cache.DB,
		time.Duration(cfg.Cache.TTL)*time.Second,
	)
	if err != nil {
		logger.Fatal("Invalid cache configuration: %v", err)
	}

	userService := service.NewUserService(repository.NewUserRepository(), hasher)

	// Create router
	r := router.NewRouter(router.Dependencies{
		DB:          db,
		UserService: userService,
		Cache:       userCache,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        r,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Give server 5 seconds to finish current requests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	if closer, ok := userCache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close cache: %v", err)
		}
	}

	logger.Info("Server exited")
}
