package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"adbroker/contexts/identity-access/user-directory/domain/entities"
	domainerrors "adbroker/contexts/identity-access/user-directory/domain/errors"
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

func (r *Repository) CreateUser(ctx context.Context, user entities.User) error {
	row := userModelFromEntity(user)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID int64) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateUser(ctx context.Context, user entities.User) error {
	row := userModelFromEntity(user)
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", row.UserID).
		Updates(map[string]any{
			"username":         row.Username,
			"first_name":       row.FirstName,
			"is_advertiser":    row.IsAdvertiser,
			"is_channel_owner": row.IsChannelOwner,
			"balance_ton":      row.BalanceTON,
			"updated_at":       row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

type userModel struct {
	UserID         string          `gorm:"column:user_id;primaryKey"`
	TelegramID     int64           `gorm:"column:telegram_id;uniqueIndex"`
	Username       string          `gorm:"column:username"`
	FirstName      string          `gorm:"column:first_name"`
	IsAdvertiser   bool            `gorm:"column:is_advertiser"`
	IsChannelOwner bool            `gorm:"column:is_channel_owner"`
	BalanceTON     decimal.Decimal `gorm:"column:balance_ton;type:numeric(20,9)"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (userModel) TableName() string {
	return "users"
}

func userModelFromEntity(item entities.User) userModel {
	return userModel{
		UserID:         strings.TrimSpace(item.UserID),
		TelegramID:     item.TelegramID,
		Username:       strings.TrimSpace(item.Username),
		FirstName:      strings.TrimSpace(item.FirstName),
		IsAdvertiser:   item.IsAdvertiser,
		IsChannelOwner: item.IsChannelOwner,
		BalanceTON:     item.BalanceTON,
		CreatedAt:      item.CreatedAt.UTC(),
		UpdatedAt:      item.UpdatedAt.UTC(),
	}
}

func (m userModel) toEntity() entities.User {
	return entities.User{
		UserID:         m.UserID,
		TelegramID:     m.TelegramID,
		Username:       m.Username,
		FirstName:      m.FirstName,
		IsAdvertiser:   m.IsAdvertiser,
		IsChannelOwner: m.IsChannelOwner,
		BalanceTON:     m.BalanceTON,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}
