package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/portfolio-cms/internal/database"
	"github.com/yukikurage/portfolio-cms/internal/forms"
	"github.com/yukikurage/portfolio-cms/internal/mailer"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/repository"
	"github.com/yukikurage/portfolio-cms/internal/storage"
	"github.com/yukikurage/portfolio-cms/internal/testutil"
	"gorm.io/gorm"
)

// ServiceTestSuite wires every service onto an in-memory database
type ServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	db    *gorm.DB
	files *storage.FileStore
	ctrl  *gomock.Controller

	notifier     *mailer.MockNotifier
	auth         *AuthService
	projects     *ProjectService
	interactions *InteractionService
	contact      *ContactService
	categories   *CategoryService
	achievements *AchievementService
	site         *SiteService
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T())

	var err error
	s.files, err = storage.NewFileStore(s.T().TempDir())
	s.Require().NoError(err)

	s.ctrl = gomock.NewController(s.T())
	s.notifier = mailer.NewMockNotifier(s.ctrl)

	tx := database.NewTransactor(s.db)
	users := repository.NewUserRepository(s.db)
	projects := repository.NewProjectRepository(s.db)
	tags := repository.NewTagRepository(s.db)
	categories := repository.NewCategoryRepository(s.db)
	achievements := repository.NewAchievementRepository(s.db)
	comments := repository.NewCommentRepository(s.db)
	likes := repository.NewLikeRepository(s.db)
	messages := repository.NewContactMessageRepository(s.db)

	s.auth = NewAuthService(tx, users, s.files)
	s.projects = NewProjectService(tx, projects, tags, categories, comments, likes, s.files)
	s.interactions = NewInteractionService(tx, projects, comments, likes)
	s.contact = NewContactService(tx, messages, s.notifier)
	s.categories = NewCategoryService(tx, categories)
	s.achievements = NewAchievementService(tx, achievements, s.files)
	s.site = NewSiteService(users, projects, achievements, comments, likes, messages)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func pngUpload(t *testing.T, name string, w, h int) *Upload {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	return &Upload{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func (s *ServiceTestSuite) fileExists(name string) bool {
	_, err := os.Stat(filepath.Join(s.files.Dir(), name))
	return err == nil
}

func (s *ServiceTestSuite) createProject(title string, published bool) *models.Project {
	result, err := s.projects.Create(s.ctx, ProjectInput{
		Title:       title,
		Description: "About " + title,
		IsPublished: published,
	})
	s.Require().NoError(err)
	return result.Project
}

func (s *ServiceTestSuite) TestRegister_LogsInImmediately() {
	user, err := s.auth.Register(s.ctx, RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret1",
	})
	s.Require().NoError(err)
	s.NotZero(user.ID)
	s.False(user.IsAdmin)

	logged, err := s.auth.Login(s.ctx, LoginInput{Email: "ada@example.com", Password: "secret1"})
	s.Require().NoError(err)
	s.Equal(user.ID, logged.ID)
}

func (s *ServiceTestSuite) TestRegister_DuplicateEmail() {
	_, err := s.auth.Register(s.ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	s.Require().NoError(err)

	_, err = s.auth.Register(s.ctx, RegisterInput{Name: "Other", Email: "ada@example.com", Password: "secret2"})
	s.ErrorIs(err, ErrEmailTaken)

	_, err = s.auth.Register(s.ctx, RegisterInput{Name: "Short", Email: "short@example.com", Password: "abc"})
	s.ErrorIs(err, ErrPasswordTooShort)

	// Multi-byte characters count by byte for bcrypt.
	_, err = s.auth.Register(s.ctx, RegisterInput{Name: "Long", Email: "long@example.com", Password: strings.Repeat("é", 40)})
	s.ErrorIs(err, ErrPasswordTooLong)
}

func (s *ServiceTestSuite) TestLogin_GenericFailure() {
	_, err := s.auth.Register(s.ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	s.Require().NoError(err)

	_, err = s.auth.Login(s.ctx, LoginInput{Email: "ada@example.com", Password: "wrong"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.auth.Login(s.ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestEnsureAdmin() {
	s.Require().NoError(s.auth.EnsureAdmin(s.ctx, "", "", "Nobody"))

	s.Require().NoError(s.auth.EnsureAdmin(s.ctx, "admin@example.com", "adminpass", "Admin"))
	admin, err := s.auth.Login(s.ctx, LoginInput{Email: "admin@example.com", Password: "adminpass"})
	s.Require().NoError(err)
	s.True(admin.IsAdmin)

	s.Require().NoError(s.auth.EnsureAdmin(s.ctx, "admin@example.com", "adminpass", "Admin"))
	var count int64
	s.Require().NoError(s.db.Model(&models.User{}).Count(&count).Error)
	s.Equal(int64(1), count)

	user, err := s.auth.Register(s.ctx, RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "secret1"})
	s.Require().NoError(err)
	s.Require().NoError(s.auth.EnsureAdmin(s.ctx, "bo@example.com", "ignored", "Bo"))
	promoted, err := s.auth.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.True(promoted.IsAdmin)
}

func (s *ServiceTestSuite) TestUpdateProfile_ReplacesImage() {
	user := testutil.CreateUser(s.T(), s.db, "ada@example.com", false)

	updated, skipped, err := s.auth.UpdateProfile(s.ctx, user.ID, ProfileInput{
		Name:  "Ada L.",
		Image: pngUpload(s.T(), "me.png", 600, 600),
	})
	s.Require().NoError(err)
	s.False(skipped)
	first := updated.ProfileImage
	s.True(s.fileExists(first))

	updated, _, err = s.auth.UpdateProfile(s.ctx, user.ID, ProfileInput{
		Name:  "Ada L.",
		Image: pngUpload(s.T(), "me2.png", 50, 50),
	})
	s.Require().NoError(err)
	s.NotEqual(first, updated.ProfileImage)
	s.False(s.fileExists(first))
	s.True(s.fileExists(updated.ProfileImage))
	s.Equal("Ada L.", updated.Name)
}

func (s *ServiceTestSuite) TestCreateProject_DeduplicatesTags() {
	result, err := s.projects.Create(s.ctx, ProjectInput{
		Title:       "Shop",
		Description: "An online shop",
		Tags:        forms.ParseTags("React, Go, React"),
		IsPublished: true,
	})
	s.Require().NoError(err)

	project, err := s.projects.Get(s.ctx, result.Project.ID)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"React", "Go"}, project.TagNames())

	var tagCount int64
	s.Require().NoError(s.db.Model(&models.Tag{}).Count(&tagCount).Error)
	s.Equal(int64(2), tagCount)

	_, err = s.projects.Update(s.ctx, project.ID, ProjectInput{
		Title:       "Shop",
		Description: "An online shop",
		Tags:        []string{"Go", "SQL"},
	})
	s.Require().NoError(err)

	project, err = s.projects.Get(s.ctx, project.ID)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"Go", "SQL"}, project.TagNames())
	s.False(project.IsPublished)
	s.False(project.UpdatedAt.Before(project.CreatedAt))
}

func (s *ServiceTestSuite) TestCreateProject_UnknownCategory() {
	missing := uint64(999)
	image := pngUpload(s.T(), "cover.png", 10, 10)

	_, err := s.projects.Create(s.ctx, ProjectInput{
		Title: "x", Description: "y", CategoryID: &missing, Image: image,
	})
	s.ErrorIs(err, ErrCategoryNotFound)

	entries, err := os.ReadDir(s.files.Dir())
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *ServiceTestSuite) TestCreateProject_CorruptImageIsSkipped() {
	result, err := s.projects.Create(s.ctx, ProjectInput{
		Title: "x", Description: "y",
		Image: &Upload{Filename: "bad.png", Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("nope"))), nil
		}},
	})
	s.Require().NoError(err)
	s.True(result.ImageSkipped)
	s.Empty(result.Project.ImageURL)
}

func (s *ServiceTestSuite) TestDetail_UnpublishedVisibleToAdminOnly() {
	project := s.createProject("secret", false)
	admin := testutil.CreateUser(s.T(), s.db, "admin@example.com", true)
	visitor := testutil.CreateUser(s.T(), s.db, "visitor@example.com", false)

	_, err := s.projects.Detail(s.ctx, project.ID, nil)
	s.ErrorIs(err, ErrProjectNotFound)

	_, err = s.projects.Detail(s.ctx, project.ID, visitor)
	s.ErrorIs(err, ErrProjectNotFound)

	detail, err := s.projects.Detail(s.ctx, project.ID, admin)
	s.Require().NoError(err)
	s.Equal("secret", detail.Project.Title)

	_, err = s.projects.Detail(s.ctx, 12345, admin)
	s.ErrorIs(err, ErrProjectNotFound)
}

func (s *ServiceTestSuite) TestToggleLike_TwiceRestoresState() {
	project := s.createProject("liked", true)
	user := testutil.CreateUser(s.T(), s.db, "a@example.com", false)
	other := testutil.CreateUser(s.T(), s.db, "b@example.com", false)

	_, err := s.interactions.ToggleLike(s.ctx, other, project.ID)
	s.Require().NoError(err)

	before, err := s.projects.Detail(s.ctx, project.ID, user)
	s.Require().NoError(err)

	first, err := s.interactions.ToggleLike(s.ctx, user, project.ID)
	s.Require().NoError(err)
	s.True(first.Liked)
	s.Equal(before.Project.LikesCount+1, first.LikesCount)

	second, err := s.interactions.ToggleLike(s.ctx, user, project.ID)
	s.Require().NoError(err)
	s.False(second.Liked)
	s.Equal(before.Project.LikesCount, second.LikesCount)

	after, err := s.projects.Detail(s.ctx, project.ID, user)
	s.Require().NoError(err)
	s.Equal(before.UserLiked, after.UserLiked)
	s.Equal(before.Project.LikesCount, after.Project.LikesCount)

	_, err = s.interactions.ToggleLike(s.ctx, user, 9999)
	s.ErrorIs(err, ErrProjectNotFound)
}

func (s *ServiceTestSuite) TestAddComment() {
	project := s.createProject("discussed", true)
	user := testutil.CreateUser(s.T(), s.db, "a@example.com", false)

	comment, err := s.interactions.AddComment(s.ctx, user, project.ID, "Great work")
	s.Require().NoError(err)
	s.Equal(user.Name, comment.User.Name)

	hidden := s.createProject("hidden", false)
	_, err = s.interactions.AddComment(s.ctx, user, hidden.ID, "Sneaky")
	s.ErrorIs(err, ErrProjectNotFound)
}

func (s *ServiceTestSuite) TestDeleteProject_RemovesEverything() {
	user := testutil.CreateUser(s.T(), s.db, "a@example.com", false)
	result, err := s.projects.Create(s.ctx, ProjectInput{
		Title: "doomed", Description: "d", IsPublished: true,
		Image: pngUpload(s.T(), "cover.png", 20, 20),
		Video: &Upload{Filename: "demo.mp4", Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("video"))), nil
		}},
	})
	s.Require().NoError(err)
	project := result.Project
	s.True(s.fileExists(project.ImageURL))
	s.True(s.fileExists(project.VideoURL))

	_, err = s.interactions.ToggleLike(s.ctx, user, project.ID)
	s.Require().NoError(err)
	_, err = s.interactions.AddComment(s.ctx, user, project.ID, "bye")
	s.Require().NoError(err)

	s.Require().NoError(s.projects.Delete(s.ctx, project.ID))

	s.False(s.fileExists(project.ImageURL))
	s.False(s.fileExists(project.VideoURL))
	_, err = s.projects.Get(s.ctx, project.ID)
	s.ErrorIs(err, ErrProjectNotFound)

	var count int64
	s.Require().NoError(s.db.Model(&models.Comment{}).Count(&count).Error)
	s.Zero(count)
	s.Require().NoError(s.db.Model(&models.Like{}).Count(&count).Error)
	s.Zero(count)

	s.ErrorIs(s.projects.Delete(s.ctx, project.ID), ErrProjectNotFound)
}

func (s *ServiceTestSuite) TestContactSubmit_SavedWhetherOrNotMailSucceeds() {
	input := ContactInput{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello there!"}

	s.notifier.EXPECT().
		SendContactNotification(gomock.Any(), mailer.ContactNotification{
			Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello there!",
		}).
		Return(nil)
	notified, err := s.contact.Submit(s.ctx, input)
	s.Require().NoError(err)
	s.True(notified)

	s.notifier.EXPECT().
		SendContactNotification(gomock.Any(), gomock.Any()).
		Return(errors.New("connection refused"))
	notified, err = s.contact.Submit(s.ctx, input)
	s.Require().NoError(err)
	s.False(notified)

	s.notifier.EXPECT().
		SendContactNotification(gomock.Any(), gomock.Any()).
		Return(mailer.ErrNotConfigured)
	notified, err = s.contact.Submit(s.ctx, input)
	s.Require().NoError(err)
	s.False(notified)

	page, err := s.contact.List(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(page.Messages, 3)
	s.Equal(int64(3), page.Pagination.Total)

	s.Require().NoError(s.contact.MarkRead(s.ctx, page.Messages[0].ID))
	s.ErrorIs(s.contact.MarkRead(s.ctx, 999), ErrMessageNotFound)
}

func (s *ServiceTestSuite) TestCategories() {
	category, err := s.categories.Create(s.ctx, CategoryInput{Name: "Web"})
	s.Require().NoError(err)
	s.Equal("#1e40af", category.Color)

	_, err = s.categories.Create(s.ctx, CategoryInput{Name: "Web"})
	s.ErrorIs(err, ErrCategoryExists)

	result, err := s.projects.Create(s.ctx, ProjectInput{
		Title: "site", Description: "d", CategoryID: &category.ID, IsPublished: true,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.categories.Delete(s.ctx, category.ID))
	project, err := s.projects.Get(s.ctx, result.Project.ID)
	s.Require().NoError(err)
	s.Nil(project.CategoryID)

	s.ErrorIs(s.categories.Delete(s.ctx, category.ID), ErrCategoryNotFound)
	_, err = s.categories.Update(s.ctx, category.ID, CategoryInput{Name: "Gone"})
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *ServiceTestSuite) TestAchievements() {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	created, skipped, err := s.achievements.Create(s.ctx, AchievementInput{
		Title: "Award", Description: "Won", DateAchieved: &date, IsPublished: true,
		Image: pngUpload(s.T(), "award.png", 30, 30),
	})
	s.Require().NoError(err)
	s.False(skipped)
	s.True(s.fileExists(created.ImageURL))

	published, err := s.achievements.ListPublished(s.ctx)
	s.Require().NoError(err)
	s.Len(published, 1)

	s.Require().NoError(s.achievements.Delete(s.ctx, created.ID))
	s.False(s.fileExists(created.ImageURL))
	s.ErrorIs(s.achievements.Delete(s.ctx, created.ID), ErrAchievementNotFound)
}

func (s *ServiceTestSuite) TestHome_FallsBackToRecentProjects() {
	s.createProject("one", true)
	s.createProject("draft", false)

	home, err := s.site.Home(s.ctx)
	s.Require().NoError(err)
	s.Len(home.Projects, 1)
	s.Equal(int64(1), home.Stats.Projects)

	_, err = s.projects.Create(s.ctx, ProjectInput{Title: "star", Description: "d", IsPublished: true, IsFeatured: true})
	s.Require().NoError(err)

	home, err = s.site.Home(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(home.Projects, 1)
	s.Equal("star", home.Projects[0].Title)
}

func (s *ServiceTestSuite) TestDashboard() {
	project := s.createProject("popular", true)
	s.createProject("draft", false)
	user := testutil.CreateUser(s.T(), s.db, "a@example.com", false)
	_, err := s.interactions.ToggleLike(s.ctx, user, project.ID)
	s.Require().NoError(err)

	dashboard, err := s.site.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), dashboard.Stats.TotalProjects)
	s.Equal(int64(1), dashboard.Stats.PublishedProjects)
	s.Equal(int64(1), dashboard.Stats.TotalLikes)
	s.Equal(int64(1), dashboard.Stats.TotalUsers)
	s.Len(dashboard.RecentProjects, 2)
	s.Require().Len(dashboard.PopularProjects, 1)
	s.Equal(project.ID, dashboard.PopularProjects[0].ID)
}
