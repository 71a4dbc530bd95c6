package telegramadapter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
)

type PostVerifier struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewPostVerifier(logger *slog.Logger) *PostVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostVerifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// VerifyPost fetches the embeddable view of the post link. Telegram serves
// the embed page for live posts and an error widget for deleted ones, so the
// check is a marker scan over the returned HTML.
func (v *PostVerifier) VerifyPost(ctx context.Context, channel ports.ChannelRef, postLink string) (bool, error) {
	link := strings.TrimSpace(postLink)
	if link == "" {
		return false, nil
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, link+"?embed=1", nil)
	if err != nil {
		return false, fmt.Errorf("build post check request: %w", err)
	}

	response, err := v.httpClient.Do(request)
	if err != nil {
		return false, fmt.Errorf("%w: telegram post check: %v", domainerrors.ErrExternalService, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		v.logger.WarnContext(ctx, "post check returned non-200",
			"event", "telegram_post_check_failed",
			"channel_id", channel.ChannelID,
			"post_link", link,
			"status", response.StatusCode,
		)
		return false, nil
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("%w: read post check response: %v", domainerrors.ErrExternalService, err)
	}

	page := string(body)
	if strings.Contains(page, "tgme_widget_message_error") {
		return false, nil
	}
	return strings.Contains(page, "tgme_widget_message"), nil
}
