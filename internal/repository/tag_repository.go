package repository

import (
	"context"

	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// ResolveNames returns one tag per name in the order given, creating the
// missing ones. A concurrent insert of the same name is absorbed by the
// unique index and the existing row is reused.
func (r *GormTagRepository) ResolveNames(ctx context.Context, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	conn := database.Conn(ctx, r.db)

	candidates := make([]models.Tag, len(names))
	for i, name := range names {
		candidates[i] = models.Tag{Name: name}
	}
	err := conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidates).Error
	if err != nil {
		return nil, err
	}

	var stored []models.Tag
	if err := conn.Where("name IN ?", names).Find(&stored).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]models.Tag, len(stored))
	for _, tag := range stored {
		byName[tag.Name] = tag
	}

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if tag, ok := byName[name]; ok {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// List lists all tags by name
func (r *GormTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := database.Conn(ctx, r.db).Order("name ASC").Find(&tags).Error
	return tags, err
}
