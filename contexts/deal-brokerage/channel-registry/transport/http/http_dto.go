package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ChannelDTO struct {
	ChannelID         string `json:"channel_id"`
	OwnerID           string `json:"owner_id"`
	TelegramChannelID int64  `json:"telegram_channel_id"`
	Title             string `json:"title"`
	Username          string `json:"username"`
	Description       string `json:"description,omitempty"`
	SubscriberCount   int64  `json:"subscriber_count"`
	AvgPostReach      int64  `json:"avg_post_reach"`
	Status            string `json:"status"`
}

type AdFormatDTO struct {
	AdFormatID  string `json:"ad_format_id"`
	ChannelID   string `json:"channel_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceTON    string `json:"price_ton"`
}

type GetChannelResponse struct {
	Channel ChannelDTO `json:"channel"`
}

type ListChannelsResponse struct {
	Items []ChannelDTO `json:"items"`
}

type ListAdFormatsResponse struct {
	Items []AdFormatDTO `json:"items"`
}
