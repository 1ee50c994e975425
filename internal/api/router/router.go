package router

import (
	"user-service/internal/api/handlers"
	"user-service/internal/api/middleware"
	"user-service/internal/domain/user"
	interfaces "user-service/internal/interfaces/infrastructure"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the collaborators built once at startup.
type Dependencies struct {
	DB          *gorm.DB
	UserService user.UserService
	Cache       interfaces.UserCache
	Version     string
	CORSOrigins []string
}

func NewRouter(deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(deps.CORSOrigins))
	r.Use(gin.Recovery())

	userHandler := handlers.NewUserHandler(deps.UserService, deps.Cache)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache, deps.Version)

	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/ready", healthHandler.ReadinessCheck)
	r.GET("/live", healthHandler.LivenessCheck)

	session := middleware.Session(deps.DB)

	// /users is the public path; /api/v1/users serves the same handlers.
	registerUserRoutes(r.Group("/users", session), userHandler)
	registerUserRoutes(r.Group("/api/v1/users", session), userHandler)

	return r
}

func registerUserRoutes(users *gin.RouterGroup, userHandler *handlers.UserHandler) {
	for _, root := range []string{"", "/"} {
		users.GET(root, userHandler.ListUsers)
		users.POST(root, userHandler.CreateUser)
	}
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)
}
