package service

import (
	"errors"
	"fmt"

	"user-service/internal/domain/user"
	"user-service/pkg/logger"

	"gorm.io/gorm"
)

// userService implements the UserService interface
type userService struct {
	userRepo user.UserRepository
	hasher   user.PasswordHasher
}

// NewUserService creates a new user service
func NewUserService(userRepo user.UserRepository, hasher user.PasswordHasher) user.UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// GetAllUsers retrieves every user
func (s *userService) GetAllUsers(session *gorm.DB) ([]*user.User, error) {
	return s.userRepo.GetAll(session)
}

// GetUserByID retrieves a user by ID; a missing user is nil, not an error
func (s *userService) GetUserByID(session *gorm.DB, id uint) (*user.User, error) {
	return s.userRepo.GetByID(session, id)
}

// CreateUser validates the input, hashes the password and stores the user.
func (s *userService) CreateUser(session *gorm.DB, req *user.UserCreate) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Creating user with username: %s", req.Username)

	u := user.NewUser(req)
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = hash

	created, err := s.userRepo.Create(session, u)
	if err != nil {
		if errors.Is(err, user.ErrUserConflict) {
			logger.Warn("User %s conflicts with an existing account", req.Username)
			return nil, err
		}
		logger.Error("Failed to create user: %v", err)
		return nil, err
	}

	logger.Info("User created successfully with ID: %d", created.ID)
	return created, nil
}

// UpdateUser merges the fields present in req onto an existing user.
// It returns nil without error when the user does not exist.
func (s *userService) UpdateUser(session *gorm.DB, id uint, req *user.UserUpdate) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Updating user with ID: %d", id)

	existing, err := s.userRepo.GetByID(session, id)
	if err != nil {
		logger.Error("Failed to get user for update: %v", err)
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	changes := *req
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		changes.Password = &hash
	}
	existing.ApplyUpdate(&changes)

	updated, err := s.userRepo.Update(session, existing)
	if err != nil {
		if !errors.Is(err, user.ErrUserConflict) {
			logger.Error("Failed to update user: %v", err)
		}
		return nil, err
	}

	logger.Info("User updated successfully with ID: %d", updated.ID)
	return updated, nil
}

// DeleteUser removes a user and reports whether it existed
func (s *userService) DeleteUser(session *gorm.DB, id uint) (bool, error) {
	logger.Info("Deleting user with ID: %d", id)

	deleted, err := s.userRepo.DeleteByID(session, id)
	if err != nil {
		logger.Error("Failed to delete user: %v", err)
		return false, err
	}
	if deleted {
		logger.Info("User deleted successfully with ID: %d", id)
	}
	return deleted, nil
}
