package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"user-service/internal/api/middleware"
	"user-service/internal/domain/user"
	interfaces "user-service/internal/interfaces/infrastructure"
	"user-service/pkg/logger"
	"user-service/pkg/validator"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService user.UserService
	cache       interfaces.UserCache
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService user.UserService, cache interfaces.UserCache) *UserHandler {
	return &UserHandler{
		userService: userService,
		cache:       cache,
	}
}

// APIResponse is the body of every error response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// ListUsers handles GET /users/
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(middleware.GetSession(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponses(users))
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if cached, err := h.cache.GetUser(ctx, id); err != nil {
		logger.Warn("User cache lookup failed: %v", err)
	} else if cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	u, err := h.userService.GetUserByID(middleware.GetSession(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, APIResponse{Message: "User not found"})
		return
	}

	view := u.ToResponse()
	if err := h.cache.SetUser(ctx, view); err != nil {
		logger.Warn("User cache store failed: %v", err)
	}

	c.JSON(http.StatusOK, view)
}

// CreateUser handles POST /users/
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req user.UserCreate

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	u, err := h.userService.CreateUser(middleware.GetSession(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, u.ToResponse())
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req user.UserUpdate

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	// Evict around the write so a concurrent read that loaded the old row
	// cannot keep it cached past the commit.
	h.evict(c, id)
	u, err := h.userService.UpdateUser(middleware.GetSession(c), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, APIResponse{Message: "User not found"})
		return
	}

	h.evict(c, id)
	c.JSON(http.StatusOK, u.ToResponse())
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	h.evict(c, id)
	deleted, err := h.userService.DeleteUser(middleware.GetSession(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, APIResponse{Message: "User not found"})
		return
	}

	h.evict(c, id)
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) evict(c *gin.Context, id uint) {
	if err := h.cache.DeleteUser(c.Request.Context(), id); err != nil {
		logger.Warn("User cache eviction failed for %d: %v", id, err)
	}
}

// writeError maps domain errors onto client errors; anything else is a 500.
func (h *UserHandler) writeError(c *gin.Context, err error) {
	switch {
	case validator.IsValidationError(err):
		c.JSON(http.StatusBadRequest, APIResponse{
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
	case errors.Is(err, user.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, APIResponse{
			Message: "Validation failed",
			Errors: []validator.ValidationError{{
				Field:   "password_confirm",
				Tag:     "password_match",
				Message: user.ErrPasswordMismatch.Error(),
			}},
		})
	case errors.Is(err, user.ErrUserConflict):
		c.JSON(http.StatusBadRequest, APIResponse{
			Message: user.ErrUserConflict.Error(),
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, APIResponse{
			Message: "Internal server error",
		})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, APIResponse{
			Message: "Invalid user ID format",
		})
		return 0, false
	}
	return uint(id), true
}
