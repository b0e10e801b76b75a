package repository

import (
	"context"
	"strings"

	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// projectColumns adds the derived like and comment counts to every project row.
const projectColumns = "projects.*, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.project_id = projects.id) AS likes_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.project_id = projects.id) AS comments_count"

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) withCounts(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db).
		Model(&models.Project{}).
		Select(projectColumns).
		Preload("Category").
		Preload("Tags")
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(project).Error
}

// Update saves every column of the project and refreshes updated_at
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Save(project).Error
}

// Delete removes a project together with its comments, likes and tag links
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return database.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// FindByID finds a project with its category, tags and counts
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.withCounts(ctx).Where("projects.id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects newest first with filtering and pagination.
// A page past the end yields an empty slice.
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	filtered := func(query *gorm.DB) *gorm.DB {
		if filter.PublishedOnly {
			query = query.Scopes(database.Published("projects"))
		}
		if filter.CategoryID != nil {
			query = query.Where("projects.category_id = ?", *filter.CategoryID)
		}
		if filter.Tag != "" {
			tagSubQuery := database.Conn(ctx, r.db).
				Table("project_tags").
				Select("1").
				Joins("JOIN tags ON tags.id = project_tags.tag_id").
				Where("project_tags.project_id = projects.id").
				Where("tags.name = ?", filter.Tag)
			query = query.Where("EXISTS (?)", tagSubQuery)
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where("(LOWER(projects.title) LIKE ? OR LOWER(projects.description) LIKE ?)", like, like)
		}
		return query
	}

	var total int64
	if err := filtered(database.Conn(ctx, r.db).Model(&models.Project{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	projects := []models.Project{}
	if total == 0 {
		return projects, 0, nil
	}

	err := filtered(r.withCounts(ctx)).
		Order("projects.created_at DESC").
		Order("projects.id DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ListFeatured lists published featured projects, newest first
func (r *GormProjectRepository) ListFeatured(ctx context.Context, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.withCounts(ctx).
		Scopes(database.Published("projects")).
		Where("projects.is_featured = ?", true).
		Order("projects.created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// ListRecentPublished lists published projects, newest first
func (r *GormProjectRepository) ListRecentPublished(ctx context.Context, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.withCounts(ctx).
		Scopes(database.Published("projects")).
		Order("projects.created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// ListRecent lists projects regardless of publication, newest first
func (r *GormProjectRepository) ListRecent(ctx context.Context, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.withCounts(ctx).
		Order("projects.created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// Related lists other published projects in the same category. Projects
// without a category have no related projects.
func (r *GormProjectRepository) Related(ctx context.Context, project *models.Project, limit int) ([]models.Project, error) {
	projects := []models.Project{}
	if project.CategoryID == nil {
		return projects, nil
	}

	err := r.withCounts(ctx).
		Scopes(database.Published("projects")).
		Where("projects.category_id = ? AND projects.id <> ?", *project.CategoryID, project.ID).
		Order("projects.created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// MostLiked lists liked projects ordered by like count descending
func (r *GormProjectRepository) MostLiked(ctx context.Context, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.withCounts(ctx).
		Where("EXISTS (SELECT 1 FROM likes WHERE likes.project_id = projects.id)").
		Order("likes_count DESC").
		Order("projects.id ASC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// ReplaceTags makes tagIDs the complete tag set of the project
func (r *GormProjectRepository) ReplaceTags(ctx context.Context, projectID uint64, tagIDs []uint64) error {
	return database.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}

		seen := make(map[uint64]struct{}, len(tagIDs))
		links := make([]models.ProjectTag, 0, len(tagIDs))
		for _, id := range tagIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			links = append(links, models.ProjectTag{ProjectID: projectID, TagID: id})
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
}

// Count counts all projects
func (r *GormProjectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&models.Project{}).Count(&count).Error
	return count, err
}

// CountPublished counts published projects
func (r *GormProjectRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&models.Project{}).
		Scopes(database.Published("projects")).
		Count(&count).Error
	return count, err
}
