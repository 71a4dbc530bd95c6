package http

type ErrorResponse struct {
	Code           string   `json:"code"`
	Message        string   `json:"message"`
	AllowedActions []string `json:"allowed_actions,omitempty"`
}

type CreateDealRequest struct {
	ChannelID        string `json:"channel_id"`
	AdFormatID       string `json:"ad_format_id"`
	ProposedPriceTON string `json:"proposed_price_ton,omitempty"`
}

type RejectDealRequest struct {
	Reason string `json:"reason"`
}

type SubmitDraftRequest struct {
	Content           string `json:"content"`
	ScheduledPostTime string `json:"scheduled_post_time"`
}

type ReviewDraftRequest struct {
	Approved   bool   `json:"approved"`
	EditReason string `json:"edit_reason,omitempty"`
}

type DealDTO struct {
	DealID        string `json:"deal_id"`
	OwnerID       string `json:"owner_id"`
	ApplicantID   string `json:"applicant_id"`
	ChannelID     string `json:"channel_id"`
	AdFormatID    string `json:"ad_format_id,omitempty"`
	CampaignID    string `json:"campaign_id,omitempty"`
	ApplicationID string `json:"application_id,omitempty"`
	DealType      string `json:"deal_type"`
	PriceTON      string `json:"price_ton"`
	State         string `json:"state"`

	PostContent       string `json:"post_content,omitempty"`
	ScheduledPostTime string `json:"scheduled_post_time,omitempty"`
	ActualPostTime    string `json:"actual_post_time,omitempty"`
	PostLink          string `json:"post_link,omitempty"`

	CreativeStatus    string `json:"creative_status"`
	EditRequestReason string `json:"edit_request_reason,omitempty"`
	RejectionReason   string `json:"rejection_reason,omitempty"`

	EscrowAddress string `json:"escrow_address,omitempty"`
	PaymentStatus string `json:"payment_status"`

	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	PostVerifiedAt  string   `json:"post_verified_at,omitempty"`
	FundsReleasedAt string   `json:"funds_released_at,omitempty"`
	AllowedActions  []string `json:"allowed_actions,omitempty"`
}

type CreativeRevisionDTO struct {
	RevisionID  string `json:"revision_id"`
	DealID      string `json:"deal_id"`
	Version     int    `json:"version"`
	Content     string `json:"content"`
	Status      string `json:"status"`
	Feedback    string `json:"feedback,omitempty"`
	SubmittedBy string `json:"submitted_by"`
	CreatedAt   string `json:"created_at"`
}

type CreateDealResponse struct {
	Deal DealDTO `json:"deal"`
}

type GetDealResponse struct {
	Deal DealDTO `json:"deal"`
}

type ListDealsResponse struct {
	Items []DealDTO `json:"items"`
}

type ListCreativeRevisionsResponse struct {
	Items []CreativeRevisionDTO `json:"items"`
}
