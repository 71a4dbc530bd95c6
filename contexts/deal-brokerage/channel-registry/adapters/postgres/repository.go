package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"adbroker/contexts/deal-brokerage/channel-registry/domain/entities"
	domainerrors "adbroker/contexts/deal-brokerage/channel-registry/domain/errors"
	"adbroker/contexts/deal-brokerage/channel-registry/ports"
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

func (r *Repository) GetChannel(ctx context.Context, channelID string) (entities.Channel, error) {
	var row channelModel
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", strings.TrimSpace(channelID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Channel{}, domainerrors.ErrChannelNotFound
		}
		return entities.Channel{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListChannels(ctx context.Context, filter ports.ChannelFilter) ([]entities.Channel, error) {
	tx := r.db.WithContext(ctx).Model(&channelModel{})
	if strings.TrimSpace(filter.OwnerID) != "" {
		tx = tx.Where("owner_id = ?", strings.TrimSpace(filter.OwnerID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []channelModel
	if err := tx.Order("subscriber_count DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Channel, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetAdFormat(ctx context.Context, adFormatID string) (entities.AdFormat, error) {
	var row adFormatModel
	err := r.db.WithContext(ctx).
		Where("ad_format_id = ?", strings.TrimSpace(adFormatID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AdFormat{}, domainerrors.ErrAdFormatNotFound
		}
		return entities.AdFormat{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListAdFormats(ctx context.Context, channelID string) ([]entities.AdFormat, error) {
	var rows []adFormatModel
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", strings.TrimSpace(channelID)).
		Order("price_ton ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]entities.AdFormat, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type channelModel struct {
	ChannelID         string    `gorm:"column:channel_id;primaryKey"`
	OwnerID           string    `gorm:"column:owner_id"`
	TelegramChannelID int64     `gorm:"column:telegram_channel_id"`
	Title             string    `gorm:"column:title"`
	Username          string    `gorm:"column:username"`
	Description       string    `gorm:"column:description"`
	SubscriberCount   int64     `gorm:"column:subscriber_count"`
	AvgPostReach      int64     `gorm:"column:avg_post_reach"`
	Status            string    `gorm:"column:status"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (channelModel) TableName() string {
	return "channels"
}

func (m channelModel) toEntity() entities.Channel {
	return entities.Channel{
		ChannelID:         m.ChannelID,
		OwnerID:           m.OwnerID,
		TelegramChannelID: m.TelegramChannelID,
		Title:             m.Title,
		Username:          m.Username,
		Description:       m.Description,
		SubscriberCount:   m.SubscriberCount,
		AvgPostReach:      m.AvgPostReach,
		Status:            entities.ChannelStatus(m.Status),
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

type adFormatModel struct {
	AdFormatID  string          `gorm:"column:ad_format_id;primaryKey"`
	ChannelID   string          `gorm:"column:channel_id"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	PriceTON    decimal.Decimal `gorm:"column:price_ton;type:numeric(20,9)"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
}

func (adFormatModel) TableName() string {
	return "ad_formats"
}

func (m adFormatModel) toEntity() entities.AdFormat {
	return entities.AdFormat{
		AdFormatID:  m.AdFormatID,
		ChannelID:   m.ChannelID,
		Name:        m.Name,
		Description: m.Description,
		PriceTON:    m.PriceTON,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}
