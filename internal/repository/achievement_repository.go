package repository

import (
	"context"

	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"gorm.io/gorm"
)

// GormAchievementRepository is a GORM implementation of AchievementRepository
type GormAchievementRepository struct {
	db *gorm.DB
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &GormAchievementRepository{db: db}
}

func (r *GormAchievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	return database.Conn(ctx, r.db).Create(achievement).Error
}

func (r *GormAchievementRepository) Update(ctx context.Context, achievement *models.Achievement) error {
	return database.Conn(ctx, r.db).Save(achievement).Error
}

func (r *GormAchievementRepository) Delete(ctx context.Context, id uint64) error {
	result := database.Conn(ctx, r.db).Delete(&models.Achievement{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormAchievementRepository) FindByID(ctx context.Context, id uint64) (*models.Achievement, error) {
	var achievement models.Achievement
	if err := database.Conn(ctx, r.db).First(&achievement, id).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

// List lists every achievement, newest first
func (r *GormAchievementRepository) List(ctx context.Context) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := database.Conn(ctx, r.db).
		Order("created_at DESC").
		Order("id DESC").
		Find(&achievements).Error
	return achievements, err
}

// ListRecentPublished lists published achievements, newest first
func (r *GormAchievementRepository) ListRecentPublished(ctx context.Context, limit int) ([]models.Achievement, error) {
	var achievements []models.Achievement
	query := database.Conn(ctx, r.db).
		Scopes(database.Published("achievements")).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&achievements).Error
	return achievements, err
}

func (r *GormAchievementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&models.Achievement{}).Count(&count).Error
	return count, err
}

func (r *GormAchievementRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&models.Achievement{}).
		Scopes(database.Published("achievements")).
		Count(&count).Error
	return count, err
}
