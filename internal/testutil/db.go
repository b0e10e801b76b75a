// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every statement on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user whose password is "password".
func CreateUser(t *testing.T, db *gorm.DB, email string, isAdmin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         "User " + email,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project. createdAt orders listings deterministically.
func CreateProject(t *testing.T, db *gorm.DB, title string, published bool, createdAt time.Time) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:       title,
		Description: "Description of " + title,
		IsPublished: published,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Omit("Category", "Tags", "Comments", "Likes").Create(project).Error)
	return project
}

// CreateCategory inserts a category.
func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Color: "#1e40af"}
	require.NoError(t, db.Create(category).Error)
	return category
}
