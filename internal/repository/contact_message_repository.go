package repository

import (
	"context"

	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/utils"
	"gorm.io/gorm"
)

// GormContactMessageRepository is a GORM implementation of ContactMessageRepository
type GormContactMessageRepository struct {
	db *gorm.DB
}

// NewContactMessageRepository creates a new ContactMessageRepository
func NewContactMessageRepository(db *gorm.DB) ContactMessageRepository {
	return &GormContactMessageRepository{db: db}
}

func (r *GormContactMessageRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	return database.Conn(ctx, r.db).Create(message).Error
}

func (r *GormContactMessageRepository) ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := database.Conn(ctx, r.db).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *GormContactMessageRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.ContactMessage, int64, error) {
	var total int64
	if err := database.Conn(ctx, r.db).Model(&models.ContactMessage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	messages := []models.ContactMessage{}
	err := database.Conn(ctx, r.db).
		Order("created_at DESC").
		Order("id DESC").
		Scopes(database.Paginate(params)).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkRead flags the message as read; gorm.ErrRecordNotFound when absent
func (r *GormContactMessageRepository) MarkRead(ctx context.Context, id uint64) error {
	conn := database.Conn(ctx, r.db)

	var message models.ContactMessage
	if err := conn.First(&message, id).Error; err != nil {
		return err
	}
	if message.IsRead {
		return nil
	}
	return conn.Model(&message).Update("is_read", true).Error
}

func (r *GormContactMessageRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&models.ContactMessage{}).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}
