package queries

import (
	"context"
	"log/slog"
	"strings"

	"adbroker/contexts/identity-access/user-directory/domain/entities"
	"adbroker/contexts/identity-access/user-directory/ports"
)

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetUser(ctx context.Context, userID string) (entities.User, error) {
	return uc.Repository.GetUser(ctx, strings.TrimSpace(userID))
}
