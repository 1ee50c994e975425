package user

import (
	"errors"

	"user-service/pkg/validator"
)

var (
	// ErrPasswordMismatch is returned when password_confirm does not equal password.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrUserConflict is returned when the username or email is already taken.
	ErrUserConflict = errors.New("username or email already exists")
)

// User represents a persisted user account. Password only ever holds a hash.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
}

// TableName pins the table name regardless of naming strategy.
func (User) TableName() string { return "users" }

// UserCreate represents the request to create a user
type UserCreate struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// UserUpdate represents a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Username        *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password        *string `json:"password,omitempty" validate:"omitempty,min=8"`
	PasswordConfirm *string `json:"password_confirm,omitempty"`
}

// UserResponse is the outbound view of a user.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Validate checks field rules and that the confirmation matches the password.
func (c *UserCreate) Validate() error {
	if err := validator.ValidateStruct(c); err != nil {
		return err
	}
	if c.PasswordConfirm != c.Password {
		return ErrPasswordMismatch
	}
	return nil
}

// Validate checks the rules of every present field. A confirmation without a
// password never matches.
func (u *UserUpdate) Validate() error {
	if err := validator.ValidateStruct(u); err != nil {
		return err
	}
	if u.PasswordConfirm != nil && (u.Password == nil || *u.PasswordConfirm != *u.Password) {
		return ErrPasswordMismatch
	}
	return nil
}

// NewUser builds an unsaved user from create input. The password is copied
// as-is and must be replaced with its hash before persisting.
func NewUser(c *UserCreate) *User {
	return &User{
		Username: c.Username,
		Email:    c.Email,
		Password: c.Password,
	}
}

// ApplyUpdate copies the fields present in u onto the user.
// PasswordConfirm is input-only and never merged.
func (usr *User) ApplyUpdate(u *UserUpdate) {
	if u.Username != nil {
		usr.Username = *u.Username
	}
	if u.Email != nil {
		usr.Email = *u.Email
	}
	if u.Password != nil {
		usr.Password = *u.Password
	}
}

// ToResponse projects the user onto its public view.
func (usr *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       usr.ID,
		Username: usr.Username,
		Email:    usr.Email,
	}
}

// ToResponses projects a list of users.
func ToResponses(users []*User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, usr := range users {
		out = append(out, usr.ToResponse())
	}
	return out
}
