package repository

import (
	"errors"
	"fmt"

	"user-service/internal/domain/user"

	"gorm.io/gorm"
)

// UserRepository persists users with GORM. It holds no connection of its own;
// every call runs in one transaction on the session it is given.
type UserRepository struct{}

func NewUserRepository() user.UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(session *gorm.DB, u *user.User) (*user.User, error) {
	err := session.Transaction(func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", user.ErrUserConflict, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetAll(session *gorm.DB) ([]*user.User, error) {
	users := []*user.User{}
	err := session.Transaction(func(tx *gorm.DB) error {
		return tx.Order("id").Find(&users).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) GetByID(session *gorm.DB, id uint) (*user.User, error) {
	var u user.User
	err := session.Transaction(func(tx *gorm.DB) error {
		return tx.First(&u, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// Update saves a loaded and mutated user and returns it as stored.
func (r *UserRepository) Update(session *gorm.DB, u *user.User) (*user.User, error) {
	err := session.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(u).Error; err != nil {
			return err
		}
		return tx.First(u, u.ID).Error
	})
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", user.ErrUserConflict, err)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// DeleteByID reports whether a row was removed. A missing id is not an error.
func (r *UserRepository) DeleteByID(session *gorm.DB, id uint) (bool, error) {
	var deleted bool
	err := session.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&user.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return deleted, nil
}
