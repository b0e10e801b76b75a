package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/repository"
	"github.com/yukikurage/portfolio-cms/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrPasswordTooLong      = errors.New("password too long")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	tx       database.Transactor
	userRepo repository.UserRepository
	files    FileStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(tx database.Transactor, userRepo repository.UserRepository, files FileStore) *AuthService {
	return &AuthService{
		tx:       tx,
		userRepo: userRepo,
		files:    files,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Bio      string
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(input.Password) > constants.MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hashedPassword),
		Bio:          input.Bio,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.FindByEmail(ctx, user.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Infow("user registered", "user_id", user.ID)
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Unknown
// emails and wrong passwords yield the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	Name  string
	Bio   string
	Image *Upload
}

// UpdateProfile saves the profile of the user. A new picture replaces the old
// one, which is deleted once the change is committed. imageSkipped reports a
// picture that could not be processed; the rest of the profile is still saved.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, input ProfileInput) (user *models.User, imageSkipped bool, err error) {
	newImage := storeUpload(s.files, input.Image, storage.ProfileBounds, &imageSkipped)

	var oldImage string
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		found, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}

		found.Name = strings.TrimSpace(input.Name)
		found.Bio = input.Bio
		if newImage != "" {
			oldImage = found.ProfileImage
			found.ProfileImage = newImage
		}

		if err := s.userRepo.Update(ctx, found); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		user = found
		return nil
	})
	if err != nil {
		removeFiles(s.files, newImage)
		return nil, imageSkipped, err
	}

	removeFiles(s.files, oldImage)
	return user, imageSkipped, nil
}

// EnsureAdmin makes sure an administrator account exists for email. It does
// nothing when email or password is empty. An existing account is promoted;
// its password is left alone.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.FindByEmail(ctx, email)
		if err == nil {
			if user.IsAdmin {
				return nil
			}
			user.IsAdmin = true
			if err := s.userRepo.Update(ctx, user); err != nil {
				return fmt.Errorf("failed to promote admin: %w", err)
			}
			logger.Log.Infow("promoted existing user to admin", "email", email)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find admin: %w", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return ErrFailedToHashPassword
		}

		admin := &models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hashedPassword),
			IsAdmin:      true,
		}
		if err := s.userRepo.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		logger.Log.Infow("admin user created", "email", email)
		return nil
	})
}
