package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/testutil"
	"github.com/yukikurage/portfolio-cms/internal/utils"
	"gorm.io/gorm"
)

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestProjectRepository_ListPublishedNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	testutil.CreateProject(t, db, "old", true, baseTime)
	testutil.CreateProject(t, db, "draft", false, baseTime.Add(time.Hour))
	testutil.CreateProject(t, db, "new", true, baseTime.Add(2*time.Hour))

	projects, total, err := repo.List(ctx, ProjectFilter{
		PublishedOnly: true,
		Pagination:    utils.NewPaginationParams(1, 9),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, projects, 2)
	assert.Equal(t, "new", projects[0].Title)
	assert.Equal(t, "old", projects[1].Title)
}

func TestProjectRepository_ListBeyondLastPageIsEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)

	for i := 0; i < 3; i++ {
		testutil.CreateProject(t, db, "p", true, baseTime.Add(time.Duration(i)*time.Minute))
	}

	projects, total, err := repo.List(context.Background(), ProjectFilter{
		PublishedOnly: true,
		Pagination:    utils.NewPaginationParams(5, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, projects)
}

func TestProjectRepository_ListHugePageIsEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	testutil.CreateProject(t, db, "Only", true, baseTime)

	projects, total, err := repo.List(context.Background(), ProjectFilter{
		PublishedOnly: true,
		Pagination:    utils.NewPaginationParams(math.MaxInt, 9),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Empty(t, projects)
}

func TestProjectRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	tags := NewTagRepository(db)
	ctx := context.Background()

	web := testutil.CreateCategory(t, db, "Web")
	alpha := testutil.CreateProject(t, db, "Alpha Shop", true, baseTime)
	beta := testutil.CreateProject(t, db, "Beta Blog", true, baseTime.Add(time.Hour))
	testutil.CreateProject(t, db, "Gamma Game", true, baseTime.Add(2*time.Hour))

	alpha.CategoryID = &web.ID
	require.NoError(t, repo.Update(ctx, alpha))

	resolved, err := tags.ResolveNames(ctx, []string{"go"})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceTags(ctx, beta.ID, []uint64{resolved[0].ID}))

	t.Run("category", func(t *testing.T) {
		projects, total, err := repo.List(ctx, ProjectFilter{CategoryID: &web.ID, Pagination: utils.NewPaginationParams(1, 9)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, alpha.ID, projects[0].ID)
		require.NotNil(t, projects[0].Category)
		assert.Equal(t, "Web", projects[0].Category.Name)
	})

	t.Run("tag", func(t *testing.T) {
		projects, total, err := repo.List(ctx, ProjectFilter{Tag: "go", Pagination: utils.NewPaginationParams(1, 9)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, beta.ID, projects[0].ID)
		assert.Equal(t, []string{"go"}, projects[0].TagNames())
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		projects, total, err := repo.List(ctx, ProjectFilter{Search: "GAME", Pagination: utils.NewPaginationParams(1, 9)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Gamma Game", projects[0].Title)
	})

	t.Run("unknown tag", func(t *testing.T) {
		projects, total, err := repo.List(ctx, ProjectFilter{Tag: "rust", Pagination: utils.NewPaginationParams(1, 9)})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, projects)
	})
}

func TestProjectRepository_Counts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "a@example.com", false)
	other := testutil.CreateUser(t, db, "b@example.com", false)
	liked := testutil.CreateProject(t, db, "liked", true, baseTime)
	quiet := testutil.CreateProject(t, db, "quiet", true, baseTime.Add(time.Hour))

	require.NoError(t, db.Create(&models.Like{UserID: user.ID, ProjectID: liked.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: other.ID, ProjectID: liked.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{UserID: user.ID, ProjectID: liked.ID, Content: "nice"}).Error)

	found, err := repo.FindByID(ctx, liked.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.LikesCount)
	assert.Equal(t, int64(1), found.CommentsCount)

	popular, err := repo.MostLiked(ctx, 5)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, liked.ID, popular[0].ID)
	assert.NotEqual(t, quiet.ID, popular[0].ID)
}

func TestProjectRepository_Related(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	web := testutil.CreateCategory(t, db, "Web")
	origin := testutil.CreateProject(t, db, "origin", true, baseTime)
	sibling := testutil.CreateProject(t, db, "sibling", true, baseTime.Add(time.Hour))
	hidden := testutil.CreateProject(t, db, "hidden", false, baseTime.Add(2*time.Hour))
	for _, p := range []*models.Project{origin, sibling, hidden} {
		p.CategoryID = &web.ID
		require.NoError(t, repo.Update(ctx, p))
	}

	related, err := repo.Related(ctx, origin, 3)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, sibling.ID, related[0].ID)

	orphan := testutil.CreateProject(t, db, "orphan", true, baseTime)
	related, err = repo.Related(ctx, orphan, 3)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestProjectRepository_DeleteRemovesDependents(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "a@example.com", false)
	project := testutil.CreateProject(t, db, "doomed", true, baseTime)
	tags, err := NewTagRepository(db).ResolveNames(ctx, []string{"go"})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceTags(ctx, project.ID, []uint64{tags[0].ID}))
	require.NoError(t, db.Create(&models.Like{UserID: user.ID, ProjectID: project.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{UserID: user.ID, ProjectID: project.ID, Content: "bye"}).Error)

	require.NoError(t, repo.Delete(ctx, project.ID))

	var remaining int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, db.Model(&models.Like{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, db.Model(&models.ProjectTag{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, db.Model(&models.Tag{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	assert.ErrorIs(t, repo.Delete(ctx, project.ID), gorm.ErrRecordNotFound)
}

func TestProjectRepository_ReplaceTags(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	project := testutil.CreateProject(t, db, "tagged", true, baseTime)
	tags, err := NewTagRepository(db).ResolveNames(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceTags(ctx, project.ID, []uint64{tags[0].ID, tags[1].ID, tags[1].ID}))
	require.NoError(t, repo.ReplaceTags(ctx, project.ID, []uint64{tags[2].ID}))

	found, err := repo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, found.TagNames())

	require.NoError(t, repo.ReplaceTags(ctx, project.ID, nil))
	found, err = repo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Tags)
}
