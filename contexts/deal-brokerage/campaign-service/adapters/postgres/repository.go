package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"adbroker/contexts/deal-brokerage/campaign-service/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/campaign-service/domain/errors"
	"adbroker/contexts/deal-brokerage/campaign-service/ports"
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

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row, err := campaignModelFromEntity(campaign)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if strings.TrimSpace(filter.AdvertiserID) != "" {
		tx = tx.Where("advertiser_id = ?", strings.TrimSpace(filter.AdvertiserID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) CreateApplication(ctx context.Context, item entities.CampaignApplication) error {
	row := applicationModelFromEntity(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *Repository) GetApplication(ctx context.Context, applicationID string) (entities.CampaignApplication, error) {
	var row applicationModel
	err := r.db.WithContext(ctx).
		Where("application_id = ?", strings.TrimSpace(applicationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CampaignApplication{}, domainerrors.ErrApplicationNotFound
		}
		return entities.CampaignApplication{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListApplications(ctx context.Context, campaignID string) ([]entities.CampaignApplication, error) {
	return r.listApplications(ctx, "campaign_id = ?", strings.TrimSpace(campaignID))
}

func (r *Repository) ListApplicationsByOwner(ctx context.Context, ownerID string) ([]entities.CampaignApplication, error) {
	return r.listApplications(ctx, "channel_owner_id = ?", strings.TrimSpace(ownerID))
}

func (r *Repository) listApplications(ctx context.Context, condition string, value string) ([]entities.CampaignApplication, error) {
	var rows []applicationModel
	err := r.db.WithContext(ctx).
		Where(condition, value).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.CampaignApplication, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// UpdateApplication only commits while the stored status still matches
// expectedStatus, which makes accept/reject races lose cleanly instead of
// double-deciding.
func (r *Repository) UpdateApplication(ctx context.Context, item entities.CampaignApplication, expectedStatus entities.ApplicationStatus) error {
	row := applicationModelFromEntity(item)
	result := r.db.WithContext(ctx).
		Model(&applicationModel{}).
		Where("application_id = ?", row.ApplicationID).
		Where("status = ?", string(expectedStatus)).
		Updates(map[string]any{
			"status":     row.Status,
			"deal_id":    row.DealID,
			"updated_at": row.UpdatedAt,
			"decided_at": row.DecidedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&applicationModel{}).
			Where("application_id = ?", row.ApplicationID).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrApplicationNotFound
		}
		return domainerrors.ErrApplicationDecided
	}
	return nil
}

func (r *Repository) HasPendingApplication(ctx context.Context, campaignID, channelID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&applicationModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Where("channel_id = ?", strings.TrimSpace(channelID)).
		Where("status = ?", string(entities.ApplicationStatusPending)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type campaignModel struct {
	CampaignID      string          `gorm:"column:campaign_id;primaryKey"`
	AdvertiserID    string          `gorm:"column:advertiser_id"`
	Title           string          `gorm:"column:title"`
	Brief           string          `gorm:"column:brief"`
	BudgetTON       decimal.Decimal `gorm:"column:budget_ton;type:numeric(20,9)"`
	PricePerPostTON decimal.Decimal `gorm:"column:price_per_post_ton;type:numeric(20,9)"`
	Targeting       []byte          `gorm:"column:targeting;type:jsonb"`
	Status          string          `gorm:"column:status"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func campaignModelFromEntity(item entities.Campaign) (campaignModel, error) {
	targeting, err := json.Marshal(item.Targeting)
	if err != nil {
		return campaignModel{}, err
	}
	return campaignModel{
		CampaignID:      strings.TrimSpace(item.CampaignID),
		AdvertiserID:    strings.TrimSpace(item.AdvertiserID),
		Title:           item.Title,
		Brief:           item.Brief,
		BudgetTON:       item.BudgetTON,
		PricePerPostTON: item.PricePerPostTON,
		Targeting:       targeting,
		Status:          string(item.Status),
		CreatedAt:       item.CreatedAt.UTC(),
		UpdatedAt:       item.UpdatedAt.UTC(),
	}, nil
}

func (m campaignModel) toEntity() (entities.Campaign, error) {
	var targeting entities.Targeting
	if len(m.Targeting) > 0 {
		if err := json.Unmarshal(m.Targeting, &targeting); err != nil {
			return entities.Campaign{}, err
		}
	}
	return entities.Campaign{
		CampaignID:      m.CampaignID,
		AdvertiserID:    m.AdvertiserID,
		Title:           m.Title,
		Brief:           m.Brief,
		BudgetTON:       m.BudgetTON,
		PricePerPostTON: m.PricePerPostTON,
		Targeting:       targeting,
		Status:          entities.CampaignStatus(m.Status),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}, nil
}

type applicationModel struct {
	ApplicationID    string          `gorm:"column:application_id;primaryKey"`
	CampaignID       string          `gorm:"column:campaign_id"`
	ChannelID        string          `gorm:"column:channel_id"`
	ChannelOwnerID   string          `gorm:"column:channel_owner_id"`
	ProposedPriceTON decimal.Decimal `gorm:"column:proposed_price_ton;type:numeric(20,9)"`
	Message          string          `gorm:"column:message"`
	Status           string          `gorm:"column:status"`
	DealID           string          `gorm:"column:deal_id"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
	DecidedAt        *time.Time      `gorm:"column:decided_at"`
}

func (applicationModel) TableName() string {
	return "campaign_applications"
}

func applicationModelFromEntity(item entities.CampaignApplication) applicationModel {
	return applicationModel{
		ApplicationID:    strings.TrimSpace(item.ApplicationID),
		CampaignID:       strings.TrimSpace(item.CampaignID),
		ChannelID:        strings.TrimSpace(item.ChannelID),
		ChannelOwnerID:   strings.TrimSpace(item.ChannelOwnerID),
		ProposedPriceTON: item.ProposedPriceTON,
		Message:          item.Message,
		Status:           string(item.Status),
		DealID:           strings.TrimSpace(item.DealID),
		CreatedAt:        item.CreatedAt.UTC(),
		UpdatedAt:        item.UpdatedAt.UTC(),
		DecidedAt:        normalizeOptionalTime(item.DecidedAt),
	}
}

func (m applicationModel) toEntity() entities.CampaignApplication {
	return entities.CampaignApplication{
		ApplicationID:    m.ApplicationID,
		CampaignID:       m.CampaignID,
		ChannelID:        m.ChannelID,
		ChannelOwnerID:   m.ChannelOwnerID,
		ProposedPriceTON: m.ProposedPriceTON,
		Message:          m.Message,
		Status:           entities.ApplicationStatus(m.Status),
		DealID:           m.DealID,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
		DecidedAt:        normalizeOptionalTime(m.DecidedAt),
	}
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
