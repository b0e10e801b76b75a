package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/repository"
	"gorm.io/gorm"
)

var ErrCategoryExists = errors.New("category already exists")

// CategoryService handles category business logic
type CategoryService struct {
	tx           database.Transactor
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(tx database.Transactor, categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{tx: tx, categoryRepo: categoryRepo}
}

// CategoryInput holds the editable fields of a category
type CategoryInput struct {
	Name        string
	Description string
	Color       string
}

func (in CategoryInput) apply(c *models.Category) {
	c.Name = in.Name
	c.Description = in.Description
	c.Color = in.Color
	if c.Color == "" {
		c.Color = constants.DefaultCategoryColor
	}
}

// List lists every category by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Get loads a category.
func (s *CategoryService) Get(ctx context.Context, id uint64) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

// Create creates a category; names are unique.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	category := &models.Category{}
	input.apply(category)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.categoryRepo.Create(ctx, category)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// Update saves a category.
func (s *CategoryService) Update(ctx context.Context, id uint64, input CategoryInput) (*models.Category, error) {
	var category *models.Category
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		found, err := s.categoryRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		input.apply(found)
		if err := s.categoryRepo.Update(ctx, found); err != nil {
			return err
		}
		category = found
		return nil
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrCategoryNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, ErrCategoryExists
	case err != nil:
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete removes a category. Its projects are kept without a category.
func (s *CategoryService) Delete(ctx context.Context, id uint64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.categoryRepo.Delete(ctx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
