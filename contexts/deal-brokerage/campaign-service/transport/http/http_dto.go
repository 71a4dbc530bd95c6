package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TargetingDTO struct {
	MinSubscribers int64    `json:"min_subscribers,omitempty"`
	Topics         []string `json:"topics,omitempty"`
}

type CreateCampaignRequest struct {
	Title           string       `json:"title"`
	Brief           string       `json:"brief"`
	BudgetTON       string       `json:"budget_ton"`
	PricePerPostTON string       `json:"price_per_post_ton"`
	Targeting       TargetingDTO `json:"targeting"`
}

type ApplyToCampaignRequest struct {
	ChannelID        string `json:"channel_id"`
	ProposedPriceTON string `json:"proposed_price_ton,omitempty"`
	Message          string `json:"message,omitempty"`
}

type CampaignDTO struct {
	CampaignID      string       `json:"campaign_id"`
	AdvertiserID    string       `json:"advertiser_id"`
	Title           string       `json:"title"`
	Brief           string       `json:"brief,omitempty"`
	BudgetTON       string       `json:"budget_ton"`
	PricePerPostTON string       `json:"price_per_post_ton"`
	Targeting       TargetingDTO `json:"targeting"`
	Status          string       `json:"status"`
	CreatedAt       string       `json:"created_at"`
	UpdatedAt       string       `json:"updated_at"`
}

type ApplicationDTO struct {
	ApplicationID    string `json:"application_id"`
	CampaignID       string `json:"campaign_id"`
	ChannelID        string `json:"channel_id"`
	ChannelOwnerID   string `json:"channel_owner_id"`
	ProposedPriceTON string `json:"proposed_price_ton"`
	Message          string `json:"message,omitempty"`
	Status           string `json:"status"`
	DealID           string `json:"deal_id,omitempty"`
	CreatedAt        string `json:"created_at"`
	DecidedAt        string `json:"decided_at,omitempty"`
}

type CreateCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type GetCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type ListCampaignsResponse struct {
	Items []CampaignDTO `json:"items"`
}

type ApplyToCampaignResponse struct {
	Application ApplicationDTO `json:"application"`
}

type DecideApplicationResponse struct {
	Application ApplicationDTO `json:"application"`
}

type ListApplicationsResponse struct {
	Items []ApplicationDTO `json:"items"`
}
