package repository

import (
	"context"

	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(category).Error
}

func (r *GormCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Save(category).Error
}

// Delete removes the category and clears the reference on its projects
func (r *GormCategoryRepository) Delete(ctx context.Context, id uint64) error {
	return database.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Project{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}

		result := tx.Delete(&models.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uint64) (*models.Category, error) {
	var category models.Category
	if err := database.Conn(ctx, r.db).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := database.Conn(ctx, r.db).Order("name ASC").Find(&categories).Error
	return categories, err
}
