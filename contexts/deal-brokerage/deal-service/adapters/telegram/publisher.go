// Package telegramadapter posts approved creatives through the Telegram Bot
// API and checks published posts for liveness.
package telegramadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
)

type Publisher struct {
	botToken   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewPublisher(botToken string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		botToken: strings.TrimSpace(botToken),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Publish sends the creative to the channel and returns the public t.me link
// of the resulting post. The channel must carry a public username for the
// link to resolve.
func (p *Publisher) Publish(ctx context.Context, channel ports.ChannelRef, content string) (string, error) {
	body, err := json.Marshal(sendMessageRequest{
		ChatID: channel.TelegramChannelID,
		Text:   content,
	})
	if err != nil {
		return "", fmt.Errorf("encode send message request: %w", err)
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", p.botToken)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build send message request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := p.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("%w: telegram send message: %v", domainerrors.ErrExternalService, err)
	}
	defer response.Body.Close()

	var payload sendMessageResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode send message response: %v", domainerrors.ErrExternalService, err)
	}
	if !payload.OK {
		return "", fmt.Errorf("%w: telegram send message: %s", domainerrors.ErrExternalService, payload.Description)
	}

	link := fmt.Sprintf("https://t.me/%s/%d", strings.TrimPrefix(channel.Username, "@"), payload.Result.MessageID)
	p.logger.InfoContext(ctx, "post published",
		"event", "telegram_post_published",
		"channel_id", channel.ChannelID,
		"post_link", link,
	)
	return link, nil
}
