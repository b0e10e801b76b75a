package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/repository"
	"github.com/yukikurage/portfolio-cms/internal/storage"
	"gorm.io/gorm"
)

var ErrAchievementNotFound = errors.New("achievement not found")

// AchievementService handles achievement business logic
type AchievementService struct {
	tx              database.Transactor
	achievementRepo repository.AchievementRepository
	files           FileStore
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(tx database.Transactor, achievementRepo repository.AchievementRepository, files FileStore) *AchievementService {
	return &AchievementService{tx: tx, achievementRepo: achievementRepo, files: files}
}

// AchievementInput holds the editable fields of an achievement
type AchievementInput struct {
	Title          string
	Description    string
	Issuer         string
	DateAchieved   *time.Time
	CertificateURL string
	IsPublished    bool
	Image          *Upload
}

func (in AchievementInput) apply(a *models.Achievement) {
	a.Title = in.Title
	a.Description = in.Description
	a.Issuer = in.Issuer
	a.DateAchieved = in.DateAchieved
	a.CertificateURL = in.CertificateURL
	a.IsPublished = in.IsPublished
}

// ListPublished lists published achievements, newest first.
func (s *AchievementService) ListPublished(ctx context.Context) ([]models.Achievement, error) {
	achievements, err := s.achievementRepo.ListRecentPublished(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}

// List lists every achievement, newest first.
func (s *AchievementService) List(ctx context.Context) ([]models.Achievement, error) {
	achievements, err := s.achievementRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}

// Get loads an achievement.
func (s *AchievementService) Get(ctx context.Context, id uint64) (*models.Achievement, error) {
	achievement, err := s.achievementRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, fmt.Errorf("failed to find achievement: %w", err)
	}
	return achievement, nil
}

// Create creates an achievement. imageSkipped reports an image that could
// not be processed.
func (s *AchievementService) Create(ctx context.Context, input AchievementInput) (achievement *models.Achievement, imageSkipped bool, err error) {
	image := storeUpload(s.files, input.Image, storage.DefaultBounds, &imageSkipped)

	achievement = &models.Achievement{ImageURL: image}
	input.apply(achievement)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.achievementRepo.Create(ctx, achievement)
	})
	if err != nil {
		removeFiles(s.files, image)
		return nil, imageSkipped, fmt.Errorf("failed to create achievement: %w", err)
	}
	return achievement, imageSkipped, nil
}

// Update saves an achievement; a replaced image is deleted after commit.
func (s *AchievementService) Update(ctx context.Context, id uint64, input AchievementInput) (achievement *models.Achievement, imageSkipped bool, err error) {
	image := storeUpload(s.files, input.Image, storage.DefaultBounds, &imageSkipped)

	var replaced string
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		found, err := s.achievementRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		input.apply(found)
		if image != "" {
			replaced = found.ImageURL
			found.ImageURL = image
		}
		if err := s.achievementRepo.Update(ctx, found); err != nil {
			return err
		}
		achievement = found
		return nil
	})
	if err != nil {
		removeFiles(s.files, image)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, imageSkipped, ErrAchievementNotFound
		}
		return nil, imageSkipped, fmt.Errorf("failed to update achievement: %w", err)
	}

	removeFiles(s.files, replaced)
	return achievement, imageSkipped, nil
}

// Delete removes an achievement and its stored image.
func (s *AchievementService) Delete(ctx context.Context, id uint64) error {
	var image string
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		found, err := s.achievementRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		image = found.ImageURL
		return s.achievementRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAchievementNotFound
		}
		return fmt.Errorf("failed to delete achievement: %w", err)
	}

	removeFiles(s.files, image)
	return nil
}
