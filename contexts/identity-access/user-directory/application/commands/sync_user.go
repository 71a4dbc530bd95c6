package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "adbroker/contexts/identity-access/user-directory/application"
	"adbroker/contexts/identity-access/user-directory/domain/entities"
	domainerrors "adbroker/contexts/identity-access/user-directory/domain/errors"
	"adbroker/contexts/identity-access/user-directory/ports"
)

type SyncUserCommand struct {
	TelegramID int64
	Username   string
	FirstName  string
}

// SyncUserUseCase resolves the internal user for an authenticated telegram
// id, creating the record on first contact and refreshing the profile fields
// on subsequent ones.
type SyncUserUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc SyncUserUseCase) Execute(ctx context.Context, cmd SyncUserCommand) (entities.User, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.TelegramID <= 0 {
		return entities.User{}, domainerrors.ErrValidation
	}

	existing, err := uc.Repository.GetUserByTelegramID(ctx, cmd.TelegramID)
	if err == nil {
		changed := false
		if username := strings.TrimSpace(cmd.Username); username != "" && username != existing.Username {
			existing.Username = username
			changed = true
		}
		if firstName := strings.TrimSpace(cmd.FirstName); firstName != "" && firstName != existing.FirstName {
			existing.FirstName = firstName
			changed = true
		}
		if changed {
			existing.UpdatedAt = uc.Clock.Now().UTC()
			if err := uc.Repository.UpdateUser(ctx, existing); err != nil {
				return entities.User{}, err
			}
		}
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		return entities.User{}, err
	}

	userID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.User{}, err
	}
	now := uc.Clock.Now().UTC()

	user := entities.User{
		UserID:     userID,
		TelegramID: cmd.TelegramID,
		Username:   strings.TrimSpace(cmd.Username),
		FirstName:  strings.TrimSpace(cmd.FirstName),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.Repository.CreateUser(ctx, user); err != nil {
		return entities.User{}, err
	}

	logger.Info("user provisioned",
		"event", "user_provisioned",
		"module", "identity-access/user-directory",
		"layer", "application",
		"user_id", user.UserID,
		"telegram_id", user.TelegramID,
	)
	return user, nil
}
