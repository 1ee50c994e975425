package user

import "gorm.io/gorm"

// UserRepository defines the interface for user data access. Every method
// runs against the caller's storage session in a single transaction.
type UserRepository interface {
	Create(session *gorm.DB, user *User) (*User, error)
	GetAll(session *gorm.DB) ([]*User, error)
	GetByID(session *gorm.DB, id uint) (*User, error)
	Update(session *gorm.DB, user *User) (*User, error)
	DeleteByID(session *gorm.DB, id uint) (bool, error)
}

// UserService defines the interface for user business logic.
// Absent users are reported as a nil user or false, never as an error.
type UserService interface {
	GetAllUsers(session *gorm.DB) ([]*User, error)
	GetUserByID(session *gorm.DB, id uint) (*User, error)
	CreateUser(session *gorm.DB, req *UserCreate) (*User, error)
	UpdateUser(session *gorm.DB, id uint, req *UserUpdate) (*User, error)
	DeleteUser(session *gorm.DB, id uint) (bool, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}
