package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLikeRepository is a GORM implementation of LikeRepository
type GormLikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &GormLikeRepository{db: db}
}

// Exists reports whether the user likes the project
func (r *GormLikeRepository) Exists(ctx context.Context, userID, projectID uint64) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&models.Like{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	return count > 0, err
}

// Create inserts the like. When another request inserted the same pair first
// the unique index wins and inserted is false.
func (r *GormLikeRepository) Create(ctx context.Context, userID, projectID uint64) (bool, error) {
	like := models.Like{UserID: userID, ProjectID: projectID}
	result := database.Conn(ctx, r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the like; deleted is false when there was none
func (r *GormLikeRepository) Delete(ctx context.Context, userID, projectID uint64) (bool, error) {
	result := database.Conn(ctx, r.db).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormLikeRepository) CountByProject(ctx context.Context, projectID uint64) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&models.Like{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

func (r *GormLikeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&models.Like{}).Count(&count).Error
	return count, err
}
