package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/testutil"
	"github.com/yukikurage/portfolio-cms/internal/utils"
	"gorm.io/gorm"
)

func TestUserRepository_FindByEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := testutil.CreateUser(t, db, "ada@example.com", true)

	found, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, found.IsAdmin)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	duplicate := &models.User{Name: "Dup", Email: "ada@example.com", PasswordHash: "x"}
	assert.ErrorIs(t, repo.Create(ctx, duplicate), gorm.ErrDuplicatedKey)
}

func TestTagRepository_ResolveNamesReusesExisting(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	first, err := repo.ResolveNames(ctx, []string{"go", "web"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := repo.ResolveNames(ctx, []string{"web", "sql"})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "web", second[0].Name)
	assert.Equal(t, first[1].ID, second[0].ID)
	assert.Equal(t, "sql", second[1].Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCategoryRepository_DeleteDetachesProjects(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	projects := NewProjectRepository(db)
	ctx := context.Background()

	category := testutil.CreateCategory(t, db, "Web")
	project := testutil.CreateProject(t, db, "site", true, time.Now())
	project.CategoryID = &category.ID
	require.NoError(t, projects.Update(ctx, project))

	require.NoError(t, repo.Delete(ctx, category.ID))

	found, err := projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, found.CategoryID)
	assert.Nil(t, found.Category)

	assert.ErrorIs(t, repo.Delete(ctx, category.ID), gorm.ErrRecordNotFound)
}

func TestLikeRepository_CreateIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "a@example.com", false)
	project := testutil.CreateProject(t, db, "p", true, time.Now())

	inserted, err := repo.Create(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Create(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := repo.CountByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := repo.Delete(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	exists, err := repo.Exists(ctx, user.ID, project.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCommentRepository_CreateLoadsAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "a@example.com", false)
	project := testutil.CreateProject(t, db, "p", true, time.Now())

	comment := &models.Comment{UserID: user.ID, ProjectID: project.ID, Content: "first"}
	require.NoError(t, repo.Create(ctx, comment))
	assert.Equal(t, user.Name, comment.User.Name)

	second := &models.Comment{UserID: user.ID, ProjectID: project.ID, Content: "second"}
	require.NoError(t, repo.Create(ctx, second))

	comments, err := repo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, user.Email, comments[0].User.Email)
}

func TestAchievementRepository_ListRecentPublished(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAchievementRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Achievement{Title: "hidden", Description: "d"}))
	require.NoError(t, repo.Create(ctx, &models.Achievement{Title: "shown", Description: "d", IsPublished: true}))

	achievements, err := repo.ListRecentPublished(ctx, 3)
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.Equal(t, "shown", achievements[0].Title)

	published, err := repo.CountPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), published)
}

func TestContactMessageRepository_MarkRead(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewContactMessageRepository(db)
	ctx := context.Background()

	message := &models.ContactMessage{Name: "N", Email: "n@example.com", Subject: "Hi", Message: "Hello"}
	require.NoError(t, repo.Create(ctx, message))

	unread, err := repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, repo.MarkRead(ctx, message.ID))
	require.NoError(t, repo.MarkRead(ctx, message.ID))

	unread, err = repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)

	assert.ErrorIs(t, repo.MarkRead(ctx, 999), gorm.ErrRecordNotFound)

	messages, total, err := repo.List(ctx, utils.NewPaginationParams(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.True(t, messages[0].IsRead)
}
