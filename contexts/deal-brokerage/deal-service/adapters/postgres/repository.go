package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"adbroker/contexts/deal-brokerage/deal-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/deal-service/domain/errors"
	"adbroker/contexts/deal-brokerage/deal-service/ports"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateDeal(ctx context.Context, deal entities.Deal) error {
	row := dealModelFromEntity(deal)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateDeal
		}
		return err
	}
	return nil
}

func (r *Repository) GetDeal(ctx context.Context, dealID string) (entities.Deal, error) {
	var row dealModel
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", strings.TrimSpace(dealID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Deal{}, domainerrors.ErrDealNotFound
		}
		return entities.Deal{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListDeals(ctx context.Context, filter ports.DealFilter) ([]entities.Deal, error) {
	tx := r.db.WithContext(ctx).Model(&dealModel{})
	if partyID := strings.TrimSpace(filter.PartyID); partyID != "" {
		tx = tx.Where("owner_id = ? OR applicant_id = ?", partyID, partyID)
	}
	if strings.TrimSpace(filter.ChannelID) != "" {
		tx = tx.Where("channel_id = ?", strings.TrimSpace(filter.ChannelID))
	}
	if filter.State != "" {
		tx = tx.Where("state = ?", string(filter.State))
	}

	var rows []dealModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Deal, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// UpdateDeal is the compare-and-swap commit: the row only changes while its
// state column still matches expectedState, which serializes writers per deal
// without holding locks across external calls.
func (r *Repository) UpdateDeal(ctx context.Context, deal entities.Deal, expectedState entities.DealState) error {
	result := r.db.WithContext(ctx).
		Model(&dealModel{}).
		Where("deal_id = ?", strings.TrimSpace(deal.DealID)).
		Where("state = ?", string(expectedState)).
		Updates(dealUpdatesFromEntity(deal))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&dealModel{}).
			Where("deal_id = ?", strings.TrimSpace(deal.DealID)).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrDealNotFound
		}
		return domainerrors.ErrStaleState
	}
	return nil
}

func (r *Repository) HasActiveDirectDeal(ctx context.Context, channelID, adFormatID, applicantID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dealModel{}).
		Where("deal_type = ?", string(entities.DealTypeChannelDirect)).
		Where("channel_id = ?", strings.TrimSpace(channelID)).
		Where("ad_format_id = ?", strings.TrimSpace(adFormatID)).
		Where("applicant_id = ?", strings.TrimSpace(applicantID)).
		Where("state NOT IN ?", []string{
			string(entities.DealStateRejected),
			string(entities.DealStateCompleted),
		}).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) HasDealForApplication(ctx context.Context, applicationID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dealModel{}).
		Where("application_id = ?", strings.TrimSpace(applicationID)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) AddCreativeRevision(ctx context.Context, revision entities.CreativeRevision) error {
	row := creativeRevisionModel{
		RevisionID:  strings.TrimSpace(revision.RevisionID),
		DealID:      strings.TrimSpace(revision.DealID),
		Version:     revision.Version,
		Content:     revision.Content,
		Status:      string(revision.Status),
		Feedback:    strings.TrimSpace(revision.Feedback),
		SubmittedBy: strings.TrimSpace(revision.SubmittedBy),
		CreatedAt:   revision.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListCreativeRevisions(ctx context.Context, dealID string) ([]entities.CreativeRevision, error) {
	var rows []creativeRevisionModel
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", strings.TrimSpace(dealID)).
		Order("version ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.CreativeRevision, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateCreativeRevision(ctx context.Context, revision entities.CreativeRevision) error {
	result := r.db.WithContext(ctx).
		Model(&creativeRevisionModel{}).
		Where("revision_id = ?", strings.TrimSpace(revision.RevisionID)).
		Updates(map[string]any{
			"status":   string(revision.Status),
			"feedback": strings.TrimSpace(revision.Feedback),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDealNotFound
	}
	return nil
}

func (r *Repository) LatestCreativeRevision(ctx context.Context, dealID string) (entities.CreativeRevision, bool, error) {
	var row creativeRevisionModel
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", strings.TrimSpace(dealID)).
		Order("version DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CreativeRevision{}, false, nil
		}
		return entities.CreativeRevision{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListDuePublish(ctx context.Context, threshold time.Time, limit int) ([]entities.Deal, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []dealModel
	err := r.db.WithContext(ctx).
		Where("state = ?", string(entities.DealStateScheduled)).
		Where("scheduled_post_time IS NOT NULL").
		Where("scheduled_post_time <= ?", threshold.UTC()).
		Order("scheduled_post_time ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return dealModelsToEntities(rows), nil
}

func (r *Repository) ListDueCompletion(ctx context.Context, threshold time.Time, limit int) ([]entities.Deal, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []dealModel
	err := r.db.WithContext(ctx).
		Where("state = ?", string(entities.DealStatePublished)).
		Where("actual_post_time IS NOT NULL").
		Where("actual_post_time <= ?", threshold.UTC()).
		Order("actual_post_time ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return dealModelsToEntities(rows), nil
}

func (r *Repository) ListStale(ctx context.Context, threshold time.Time, limit int) ([]entities.Deal, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []dealModel
	err := r.db.WithContext(ctx).
		Where("state IN ?", []string{
			string(entities.DealStatePending),
			string(entities.DealStateAwaitingPayment),
		}).
		Where("timeout_at IS NOT NULL").
		Where("timeout_at <= ?", threshold.UTC()).
		Order("timeout_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return dealModelsToEntities(rows), nil
}

// GetChannel reads the channels table as a projection. The deal core never
// writes channel rows.
func (r *Repository) GetChannel(ctx context.Context, channelID string) (ports.ChannelRef, error) {
	var row channelProjectionModel
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", strings.TrimSpace(channelID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ChannelRef{}, domainerrors.ErrChannelNotFound
		}
		return ports.ChannelRef{}, err
	}
	return ports.ChannelRef{
		ChannelID:         row.ChannelID,
		OwnerID:           row.OwnerID,
		TelegramChannelID: row.TelegramChannelID,
		Title:             row.Title,
		Username:          row.Username,
		Status:            row.Status,
	}, nil
}

func (r *Repository) GetAdFormat(ctx context.Context, adFormatID string) (ports.AdFormatRef, error) {
	var row adFormatProjectionModel
	err := r.db.WithContext(ctx).
		Where("ad_format_id = ?", strings.TrimSpace(adFormatID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AdFormatRef{}, domainerrors.ErrAdFormatNotFound
		}
		return ports.AdFormatRef{}, err
	}
	return ports.AdFormatRef{
		AdFormatID: row.AdFormatID,
		ChannelID:  row.ChannelID,
		Name:       row.Name,
		PriceTON:   row.PriceTON,
	}, nil
}

type dealModel struct {
	DealID        string          `gorm:"column:deal_id;primaryKey"`
	OwnerID       string          `gorm:"column:owner_id"`
	ApplicantID   string          `gorm:"column:applicant_id"`
	ChannelID     string          `gorm:"column:channel_id"`
	AdFormatID    string          `gorm:"column:ad_format_id"`
	CampaignID    string          `gorm:"column:campaign_id"`
	ApplicationID string          `gorm:"column:application_id"`
	DealType      string          `gorm:"column:deal_type"`
	PriceTON      decimal.Decimal `gorm:"column:price_ton;type:numeric(20,9)"`
	State         string          `gorm:"column:state"`

	PostContent       string     `gorm:"column:post_content"`
	ScheduledPostTime *time.Time `gorm:"column:scheduled_post_time"`
	ActualPostTime    *time.Time `gorm:"column:actual_post_time"`
	PostLink          string     `gorm:"column:post_link"`

	CreativeStatus    string `gorm:"column:creative_status"`
	EditRequestReason string `gorm:"column:edit_request_reason"`
	RejectionReason   string `gorm:"column:rejection_reason"`

	EscrowAddress string `gorm:"column:escrow_address"`
	PaymentStatus string `gorm:"column:payment_status"`

	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
	CreativeSubmittedAt *time.Time `gorm:"column:creative_submitted_at"`
	CreativeApprovedAt  *time.Time `gorm:"column:creative_approved_at"`
	PostVerifiedAt      *time.Time `gorm:"column:post_verified_at"`
	FundsReleasedAt     *time.Time `gorm:"column:funds_released_at"`
	TimeoutAt           *time.Time `gorm:"column:timeout_at"`
}

func (dealModel) TableName() string {
	return "deals"
}

func dealModelFromEntity(item entities.Deal) dealModel {
	return dealModel{
		DealID:        strings.TrimSpace(item.DealID),
		OwnerID:       strings.TrimSpace(item.OwnerID),
		ApplicantID:   strings.TrimSpace(item.ApplicantID),
		ChannelID:     strings.TrimSpace(item.ChannelID),
		AdFormatID:    strings.TrimSpace(item.AdFormatID),
		CampaignID:    strings.TrimSpace(item.CampaignID),
		ApplicationID: strings.TrimSpace(item.ApplicationID),
		DealType:      string(item.DealType),
		PriceTON:      item.PriceTON,
		State:         string(item.State),

		PostContent:       item.PostContent,
		ScheduledPostTime: normalizeOptionalTime(item.ScheduledPostTime),
		ActualPostTime:    normalizeOptionalTime(item.ActualPostTime),
		PostLink:          strings.TrimSpace(item.PostLink),

		CreativeStatus:    string(item.CreativeStatus),
		EditRequestReason: strings.TrimSpace(item.EditRequestReason),
		RejectionReason:   strings.TrimSpace(item.RejectionReason),

		EscrowAddress: strings.TrimSpace(item.EscrowAddress),
		PaymentStatus: string(item.PaymentStatus),

		CreatedAt:           item.CreatedAt.UTC(),
		UpdatedAt:           item.UpdatedAt.UTC(),
		CreativeSubmittedAt: normalizeOptionalTime(item.CreativeSubmittedAt),
		CreativeApprovedAt:  normalizeOptionalTime(item.CreativeApprovedAt),
		PostVerifiedAt:      normalizeOptionalTime(item.PostVerifiedAt),
		FundsReleasedAt:     normalizeOptionalTime(item.FundsReleasedAt),
		TimeoutAt:           normalizeOptionalTime(item.TimeoutAt),
	}
}

func dealUpdatesFromEntity(item entities.Deal) map[string]any {
	row := dealModelFromEntity(item)
	return map[string]any{
		"state":                 row.State,
		"post_content":          row.PostContent,
		"scheduled_post_time":   row.ScheduledPostTime,
		"actual_post_time":      row.ActualPostTime,
		"post_link":             row.PostLink,
		"creative_status":       row.CreativeStatus,
		"edit_request_reason":   row.EditRequestReason,
		"rejection_reason":      row.RejectionReason,
		"escrow_address":        row.EscrowAddress,
		"payment_status":        row.PaymentStatus,
		"updated_at":            row.UpdatedAt,
		"creative_submitted_at": row.CreativeSubmittedAt,
		"creative_approved_at":  row.CreativeApprovedAt,
		"post_verified_at":      row.PostVerifiedAt,
		"funds_released_at":     row.FundsReleasedAt,
	}
}

func (m dealModel) toEntity() entities.Deal {
	return entities.Deal{
		DealID:        m.DealID,
		OwnerID:       m.OwnerID,
		ApplicantID:   m.ApplicantID,
		ChannelID:     m.ChannelID,
		AdFormatID:    m.AdFormatID,
		CampaignID:    m.CampaignID,
		ApplicationID: m.ApplicationID,
		DealType:      entities.DealType(m.DealType),
		PriceTON:      m.PriceTON,
		State:         entities.DealState(m.State),

		PostContent:       m.PostContent,
		ScheduledPostTime: normalizeOptionalTime(m.ScheduledPostTime),
		ActualPostTime:    normalizeOptionalTime(m.ActualPostTime),
		PostLink:          m.PostLink,

		CreativeStatus:    entities.CreativeStatus(m.CreativeStatus),
		EditRequestReason: m.EditRequestReason,
		RejectionReason:   m.RejectionReason,

		EscrowAddress: m.EscrowAddress,
		PaymentStatus: entities.PaymentStatus(m.PaymentStatus),

		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
		CreativeSubmittedAt: normalizeOptionalTime(m.CreativeSubmittedAt),
		CreativeApprovedAt:  normalizeOptionalTime(m.CreativeApprovedAt),
		PostVerifiedAt:      normalizeOptionalTime(m.PostVerifiedAt),
		FundsReleasedAt:     normalizeOptionalTime(m.FundsReleasedAt),
		TimeoutAt:           normalizeOptionalTime(m.TimeoutAt),
	}
}

func dealModelsToEntities(rows []dealModel) []entities.Deal {
	items := make([]entities.Deal, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type creativeRevisionModel struct {
	RevisionID  string    `gorm:"column:revision_id;primaryKey"`
	DealID      string    `gorm:"column:deal_id"`
	Version     int       `gorm:"column:version"`
	Content     string    `gorm:"column:content"`
	Status      string    `gorm:"column:status"`
	Feedback    string    `gorm:"column:feedback"`
	SubmittedBy string    `gorm:"column:submitted_by"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (creativeRevisionModel) TableName() string {
	return "deal_creatives"
}

func (m creativeRevisionModel) toEntity() entities.CreativeRevision {
	return entities.CreativeRevision{
		RevisionID:  m.RevisionID,
		DealID:      m.DealID,
		Version:     m.Version,
		Content:     m.Content,
		Status:      entities.CreativeStatus(m.Status),
		Feedback:    m.Feedback,
		SubmittedBy: m.SubmittedBy,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type channelProjectionModel struct {
	ChannelID         string `gorm:"column:channel_id;primaryKey"`
	OwnerID           string `gorm:"column:owner_id"`
	TelegramChannelID int64  `gorm:"column:telegram_channel_id"`
	Title             string `gorm:"column:title"`
	Username          string `gorm:"column:username"`
	Status            string `gorm:"column:status"`
}

func (channelProjectionModel) TableName() string {
	return "channels"
}

type adFormatProjectionModel struct {
	AdFormatID string          `gorm:"column:ad_format_id;primaryKey"`
	ChannelID  string          `gorm:"column:channel_id"`
	Name       string          `gorm:"column:name"`
	PriceTON   decimal.Decimal `gorm:"column:price_ton;type:numeric(20,9)"`
}

func (adFormatProjectionModel) TableName() string {
	return "ad_formats"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
