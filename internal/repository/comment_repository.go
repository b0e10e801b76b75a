package repository

import (
	"context"

	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a comment and loads its author
func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	conn := database.Conn(ctx, r.db)
	if err := conn.Omit(clause.Associations).Create(comment).Error; err != nil {
		return err
	}
	return conn.First(&comment.User, comment.UserID).Error
}

// ListByProject lists comments of a project newest first, with authors
func (r *GormCommentRepository) ListByProject(ctx context.Context, projectID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	err := database.Conn(ctx, r.db).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	return comments, err
}

// ListRecent lists the latest comments with authors and projects
func (r *GormCommentRepository) ListRecent(ctx context.Context, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := database.Conn(ctx, r.db).
		Preload("User").
		Preload("Project").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *GormCommentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&models.Comment{}).Count(&count).Error
	return count, err
}
