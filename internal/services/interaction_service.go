package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/repository"
)

// InteractionService handles likes and comments left by signed-in users
type InteractionService struct {
	tx          database.Transactor
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(
	tx database.Transactor,
	projectRepo repository.ProjectRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
) *InteractionService {
	return &InteractionService{
		tx:          tx,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
	}
}

// LikeState is the outcome of a like toggle.
type LikeState struct {
	Liked      bool
	LikesCount int64
}

// ToggleLike removes the viewer's like when present and adds it otherwise.
// An insert that loses a race against the same user is reported as liked.
func (s *InteractionService) ToggleLike(ctx context.Context, viewer *models.User, projectID uint64) (*LikeState, error) {
	state := &LikeState{}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := findVisible(ctx, s.projectRepo, projectID, viewer); err != nil {
			return err
		}

		exists, err := s.likeRepo.Exists(ctx, viewer.ID, projectID)
		if err != nil {
			return fmt.Errorf("failed to check like: %w", err)
		}

		if exists {
			if _, err := s.likeRepo.Delete(ctx, viewer.ID, projectID); err != nil {
				return fmt.Errorf("failed to remove like: %w", err)
			}
			state.Liked = false
		} else {
			if _, err := s.likeRepo.Create(ctx, viewer.ID, projectID); err != nil {
				return fmt.Errorf("failed to add like: %w", err)
			}
			state.Liked = true
		}

		state.LikesCount, err = s.likeRepo.CountByProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to count likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// AddComment stores a comment by viewer and returns it with its author loaded.
func (s *InteractionService) AddComment(ctx context.Context, viewer *models.User, projectID uint64, content string) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   content,
		UserID:    viewer.ID,
		ProjectID: projectID,
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := findVisible(ctx, s.projectRepo, projectID, viewer); err != nil {
			return err
		}
		if err := s.commentRepo.Create(ctx, comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}
