package interfaces

import (
	"context"

	"user-service/internal/domain/user"
)

// UserCache stores public user views by id. A miss is (nil, nil).
type UserCache interface {
	GetUser(ctx context.Context, id uint) (*user.UserResponse, error)
	SetUser(ctx context.Context, view user.UserResponse) error
	DeleteUser(ctx context.Context, id uint) error
	Ping(ctx context.Context) error
}
