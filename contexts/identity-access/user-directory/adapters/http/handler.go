package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"adbroker/contexts/identity-access/user-directory/application/commands"
	"adbroker/contexts/identity-access/user-directory/application/queries"
	"adbroker/contexts/identity-access/user-directory/domain/entities"
	httptransport "adbroker/contexts/identity-access/user-directory/transport/http"
)

type Handler struct {
	SyncUser commands.SyncUserUseCase
	Queries  queries.QueryUseCase
	Logger   *slog.Logger
}

// GetMeHandler provisions on first contact: an authenticated telegram id
// always resolves to a user record.
func (h Handler) GetMeHandler(ctx context.Context, telegramID int64, username string) (httptransport.GetMeResponse, error) {
	item, err := h.SyncUser.Execute(ctx, commands.SyncUserCommand{
		TelegramID: telegramID,
		Username:   username,
	})
	if err != nil {
		return httptransport.GetMeResponse{}, err
	}
	return httptransport.GetMeResponse{
		User: mapUser(item),
	}, nil
}

func mapUser(item entities.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		UserID:         item.UserID,
		TelegramID:     item.TelegramID,
		Username:       item.Username,
		FirstName:      item.FirstName,
		IsAdvertiser:   item.IsAdvertiser,
		IsChannelOwner: item.IsChannelOwner,
		BalanceTON:     item.BalanceTON.String(),
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
	}
}
