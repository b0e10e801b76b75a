package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/repository"
	"github.com/yukikurage/portfolio-cms/internal/storage"
	"github.com/yukikurage/portfolio-cms/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// ProjectService handles project business logic
type ProjectService struct {
	tx           database.Transactor
	projectRepo  repository.ProjectRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository
	files        FileStore
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	tx database.Transactor,
	projectRepo repository.ProjectRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	files FileStore,
) *ProjectService {
	return &ProjectService{
		tx:           tx,
		projectRepo:  projectRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		files:        files,
	}
}

// ListProjectsInput represents filters for the public project listing
type ListProjectsInput struct {
	CategoryID *uint64
	Tag        string
	Search     string
	Page       int
}

// ProjectPage is one page of projects with its pager.
type ProjectPage struct {
	Projects   []models.Project
	Pagination utils.Pagination
}

// ListPublished lists published projects matching the filters, newest first.
func (s *ProjectService) ListPublished(ctx context.Context, input ListProjectsInput) (*ProjectPage, error) {
	params := utils.NewPaginationParams(input.Page, constants.ProjectsPerPage)
	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		PublishedOnly: true,
		CategoryID:    input.CategoryID,
		Tag:           input.Tag,
		Search:        input.Search,
		Pagination:    params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return &ProjectPage{Projects: projects, Pagination: utils.NewPagination(params, total)}, nil
}

// ListAll lists every project for the admin area, newest first.
func (s *ProjectService) ListAll(ctx context.Context, page int) (*ProjectPage, error) {
	params := utils.NewPaginationParams(page, constants.AdminProjectsPerPage)
	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{Pagination: params})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return &ProjectPage{Projects: projects, Pagination: utils.NewPagination(params, total)}, nil
}

// ListTags lists every tag for the listing filters.
func (s *ProjectService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}

// canView reports whether viewer may see project. Unpublished projects are
// only visible to administrators.
func canView(project *models.Project, viewer *models.User) bool {
	return project.IsPublished || (viewer != nil && viewer.IsAdmin)
}

// findVisible loads a project the viewer may see, ErrProjectNotFound otherwise.
func findVisible(ctx context.Context, repo repository.ProjectRepository, id uint64, viewer *models.User) (*models.Project, error) {
	project, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if !canView(project, viewer) {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// ProjectDetail is everything the project page shows.
type ProjectDetail struct {
	Project   *models.Project
	Comments  []models.Comment
	UserLiked bool
	Related   []models.Project
}

// Detail loads a project page for viewer, who may be nil.
func (s *ProjectService) Detail(ctx context.Context, id uint64, viewer *models.User) (*ProjectDetail, error) {
	project, err := findVisible(ctx, s.projectRepo, id, viewer)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	liked := false
	if viewer != nil {
		if liked, err = s.likeRepo.Exists(ctx, viewer.ID, id); err != nil {
			return nil, fmt.Errorf("failed to check like: %w", err)
		}
	}

	related, err := s.projectRepo.Related(ctx, project, constants.RelatedProjectsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list related projects: %w", err)
	}

	return &ProjectDetail{
		Project:   project,
		Comments:  comments,
		UserLiked: liked,
		Related:   related,
	}, nil
}

// Get loads a project regardless of publication.
func (s *ProjectService) Get(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ProjectInput holds the editable fields of a project
type ProjectInput struct {
	Title       string
	Description string
	Content     string
	CategoryID  *uint64
	ProjectURL  string
	GithubURL   string
	Tags        []string
	IsPublished bool
	IsFeatured  bool
	Image       *Upload
	Video       *Upload
}

// SaveResult reports the saved project and uploads that had to be skipped.
type SaveResult struct {
	Project      *models.Project
	ImageSkipped bool
	VideoSkipped bool
}

// Create creates a project with its tags. Uploads are stored before the
// transaction opens and removed again if it fails.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*SaveResult, error) {
	result := &SaveResult{}
	image := storeUpload(s.files, input.Image, storage.DefaultBounds, &result.ImageSkipped)
	video := storeUpload(s.files, input.Video, storage.DefaultBounds, &result.VideoSkipped)

	project := &models.Project{ImageURL: image, VideoURL: video}
	input.apply(project)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkCategory(ctx, input.CategoryID); err != nil {
			return err
		}
		if err := s.projectRepo.Create(ctx, project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		return s.replaceTags(ctx, project.ID, input.Tags)
	})
	if err != nil {
		removeFiles(s.files, image, video)
		return nil, err
	}

	logger.Log.Infow("project created", "project_id", project.ID)
	result.Project = project
	return result, nil
}

// Update saves a project and replaces its tag set. Replaced files are
// deleted after the change is committed.
func (s *ProjectService) Update(ctx context.Context, id uint64, input ProjectInput) (*SaveResult, error) {
	result := &SaveResult{}
	image := storeUpload(s.files, input.Image, storage.DefaultBounds, &result.ImageSkipped)
	video := storeUpload(s.files, input.Video, storage.DefaultBounds, &result.VideoSkipped)

	var replaced []string
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		project, err := s.projectRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return fmt.Errorf("failed to find project: %w", err)
		}
		if err := s.checkCategory(ctx, input.CategoryID); err != nil {
			return err
		}

		input.apply(project)
		if image != "" {
			replaced = append(replaced, project.ImageURL)
			project.ImageURL = image
		}
		if video != "" {
			replaced = append(replaced, project.VideoURL)
			project.VideoURL = video
		}

		if err := s.projectRepo.Update(ctx, project); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
		if err := s.replaceTags(ctx, project.ID, input.Tags); err != nil {
			return err
		}
		result.Project = project
		return nil
	})
	if err != nil {
		removeFiles(s.files, image, video)
		return nil, err
	}

	removeFiles(s.files, replaced...)
	logger.Log.Infow("project updated", "project_id", id)
	return result, nil
}

// Delete removes a project with its comments, likes and tag links, then
// deletes its stored files.
func (s *ProjectService) Delete(ctx context.Context, id uint64) error {
	var files []string
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		project, err := s.projectRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return fmt.Errorf("failed to find project: %w", err)
		}
		files = []string{project.ImageURL, project.VideoURL}

		if err := s.projectRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	removeFiles(s.files, files...)
	logger.Log.Infow("project deleted", "project_id", id)
	return nil
}

func (s *ProjectService) checkCategory(ctx context.Context, id *uint64) error {
	if id == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to find category: %w", err)
	}
	return nil
}

func (s *ProjectService) replaceTags(ctx context.Context, projectID uint64, names []string) error {
	tags, err := s.tagRepo.ResolveNames(ctx, names)
	if err != nil {
		return fmt.Errorf("failed to resolve tags: %w", err)
	}

	ids := make([]uint64, len(tags))
	for i, tag := range tags {
		ids[i] = tag.ID
	}
	if err := s.projectRepo.ReplaceTags(ctx, projectID, ids); err != nil {
		return fmt.Errorf("failed to replace tags: %w", err)
	}
	return nil
}

func (in ProjectInput) apply(p *models.Project) {
	p.Title = in.Title
	p.Description = in.Description
	p.Content = in.Content
	p.CategoryID = in.CategoryID
	p.ProjectURL = in.ProjectURL
	p.GithubURL = in.GithubURL
	p.IsPublished = in.IsPublished
	p.IsFeatured = in.IsFeatured
}
