package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type UserDTO struct {
	UserID         string `json:"user_id"`
	TelegramID     int64  `json:"telegram_id"`
	Username       string `json:"username,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	IsAdvertiser   bool   `json:"is_advertiser"`
	IsChannelOwner bool   `json:"is_channel_owner"`
	BalanceTON     string `json:"balance_ton"`
	CreatedAt      string `json:"created_at"`
}

type GetMeResponse struct {
	User UserDTO `json:"user"`
}
