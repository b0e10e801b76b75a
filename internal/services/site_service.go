package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/repository"
)

// SiteService assembles the home page and the admin dashboard
type SiteService struct {
	userRepo        repository.UserRepository
	projectRepo     repository.ProjectRepository
	achievementRepo repository.AchievementRepository
	commentRepo     repository.CommentRepository
	likeRepo        repository.LikeRepository
	messageRepo     repository.ContactMessageRepository
}

// NewSiteService creates a new SiteService
func NewSiteService(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	achievementRepo repository.AchievementRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	messageRepo repository.ContactMessageRepository,
) *SiteService {
	return &SiteService{
		userRepo:        userRepo,
		projectRepo:     projectRepo,
		achievementRepo: achievementRepo,
		commentRepo:     commentRepo,
		likeRepo:        likeRepo,
		messageRepo:     messageRepo,
	}
}

// HomeStats are the public counters on the home page.
type HomeStats struct {
	Projects     int64
	Achievements int64
	Likes        int64
}

// Home is the content of the home page.
type Home struct {
	Projects     []models.Project
	Achievements []models.Achievement
	Stats        HomeStats
}

// Home loads featured projects, falling back to the most recent published
// ones when nothing is featured, plus the latest achievements.
func (s *SiteService) Home(ctx context.Context) (*Home, error) {
	projects, err := s.projectRepo.ListFeatured(ctx, constants.HomeProjectsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured projects: %w", err)
	}
	if len(projects) == 0 {
		if projects, err = s.projectRepo.ListRecentPublished(ctx, constants.HomeProjectsLimit); err != nil {
			return nil, fmt.Errorf("failed to list recent projects: %w", err)
		}
	}

	achievements, err := s.achievementRepo.ListRecentPublished(ctx, constants.HomeAchievementsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	home := &Home{Projects: projects, Achievements: achievements}
	if home.Stats.Projects, err = s.projectRepo.CountPublished(ctx); err != nil {
		return nil, err
	}
	if home.Stats.Achievements, err = s.achievementRepo.CountPublished(ctx); err != nil {
		return nil, err
	}
	if home.Stats.Likes, err = s.likeRepo.Count(ctx); err != nil {
		return nil, err
	}
	return home, nil
}

// DashboardStats are the admin counters.
type DashboardStats struct {
	TotalProjects     int64
	PublishedProjects int64
	TotalAchievements int64
	TotalUsers        int64
	TotalComments     int64
	TotalLikes        int64
	UnreadMessages    int64
}

// Dashboard is the content of the admin dashboard.
type Dashboard struct {
	Stats           DashboardStats
	RecentProjects  []models.Project
	RecentComments  []models.Comment
	RecentMessages  []models.ContactMessage
	PopularProjects []models.Project
}

// Dashboard loads the admin counters and recent activity.
func (s *SiteService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	var err error

	counters := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&d.Stats.TotalProjects, s.projectRepo.Count},
		{&d.Stats.PublishedProjects, s.projectRepo.CountPublished},
		{&d.Stats.TotalAchievements, s.achievementRepo.Count},
		{&d.Stats.TotalUsers, s.userRepo.Count},
		{&d.Stats.TotalComments, s.commentRepo.Count},
		{&d.Stats.TotalLikes, s.likeRepo.Count},
		{&d.Stats.UnreadMessages, s.messageRepo.CountUnread},
	}
	for _, c := range counters {
		if *c.dst, err = c.count(ctx); err != nil {
			return nil, fmt.Errorf("failed to load dashboard counters: %w", err)
		}
	}

	if d.RecentProjects, err = s.projectRepo.ListRecent(ctx, constants.DashboardRecentLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent projects: %w", err)
	}
	if d.RecentComments, err = s.commentRepo.ListRecent(ctx, constants.DashboardRecentLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent comments: %w", err)
	}
	if d.RecentMessages, err = s.messageRepo.ListRecent(ctx, constants.DashboardRecentLimit); err != nil {
		return nil, fmt.Errorf("failed to list recent messages: %w", err)
	}
	if d.PopularProjects, err = s.projectRepo.MostLiked(ctx, constants.DashboardPopularLimit); err != nil {
		return nil, fmt.Errorf("failed to list popular projects: %w", err)
	}
	return d, nil
}
