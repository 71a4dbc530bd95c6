package ports

import (
	"context"
	"time"

	"adbroker/contexts/identity-access/user-directory/domain/entities"
)

type Repository interface {
	CreateUser(ctx context.Context, user entities.User) error
	GetUser(ctx context.Context, userID string) (entities.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (entities.User, error)
	UpdateUser(ctx context.Context, user entities.User) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
