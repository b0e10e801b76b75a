package repository

import (
	"context"

	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Update saves every column of the user
	Update(ctx context.Context, user *models.User) error

	// Count counts registered users
	Count(ctx context.Context) (int64, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	PublishedOnly bool
	CategoryID    *uint64
	Tag           string
	Search        string
	Pagination    utils.PaginationParams
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// Update saves every column of the project
	Update(ctx context.Context, project *models.Project) error

	// Delete removes a project together with its comments, likes and tag links
	Delete(ctx context.Context, id uint64) error

	// FindByID finds a project with its category, tags and counts
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// List retrieves projects newest first with filtering and pagination
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// ListFeatured lists published featured projects, newest first
	ListFeatured(ctx context.Context, limit int) ([]models.Project, error)

	// ListRecentPublished lists published projects, newest first
	ListRecentPublished(ctx context.Context, limit int) ([]models.Project, error)

	// ListRecent lists projects regardless of publication, newest first
	ListRecent(ctx context.Context, limit int) ([]models.Project, error)

	// Related lists other published projects in the same category
	Related(ctx context.Context, project *models.Project, limit int) ([]models.Project, error)

	// MostLiked lists projects ordered by like count descending
	MostLiked(ctx context.Context, limit int) ([]models.Project, error)

	// ReplaceTags makes tagIDs the complete tag set of the project
	ReplaceTags(ctx context.Context, projectID uint64, tagIDs []uint64) error

	// Count counts all projects
	Count(ctx context.Context) (int64, error)

	// CountPublished counts published projects
	CountPublished(ctx context.Context) (int64, error)
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// ResolveNames returns one tag per name, creating the missing ones
	ResolveNames(ctx context.Context, names []string) ([]models.Tag, error)

	// List lists all tags by name
	List(ctx context.Context) ([]models.Tag, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error

	// Delete removes the category and clears the reference on its projects
	Delete(ctx context.Context, id uint64) error

	FindByID(ctx context.Context, id uint64) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// AchievementRepository defines the interface for achievement data access
type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	Update(ctx context.Context, achievement *models.Achievement) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*models.Achievement, error)

	// List lists every achievement, newest first
	List(ctx context.Context) ([]models.Achievement, error)

	// ListRecentPublished lists published achievements, newest first
	ListRecentPublished(ctx context.Context, limit int) ([]models.Achievement, error)

	Count(ctx context.Context) (int64, error)
	CountPublished(ctx context.Context) (int64, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a comment and loads its author
	Create(ctx context.Context, comment *models.Comment) error

	// ListByProject lists comments of a project newest first, with authors
	ListByProject(ctx context.Context, projectID uint64) ([]models.Comment, error)

	// ListRecent lists the latest comments with authors and projects
	ListRecent(ctx context.Context, limit int) ([]models.Comment, error)

	Count(ctx context.Context) (int64, error)
}

// LikeRepository defines the interface for like data access
type LikeRepository interface {
	// Exists reports whether the user likes the project
	Exists(ctx context.Context, userID, projectID uint64) (bool, error)

	// Create inserts the like; inserted is false when the pair already existed
	Create(ctx context.Context, userID, projectID uint64) (inserted bool, err error)

	// Delete removes the like; deleted is false when there was none
	Delete(ctx context.Context, userID, projectID uint64) (deleted bool, err error)

	CountByProject(ctx context.Context, projectID uint64) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// ContactMessageRepository defines the interface for contact message data access
type ContactMessageRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error)
	List(ctx context.Context, params utils.PaginationParams) ([]models.ContactMessage, int64, error)

	// MarkRead flags the message as read; gorm.ErrRecordNotFound when absent
	MarkRead(ctx context.Context, id uint64) error

	CountUnread(ctx context.Context) (int64, error)
}
