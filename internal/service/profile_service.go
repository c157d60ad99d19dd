package service

import (
	"context"
	"time"

	"gridcode/internal/models"
	"gridcode/internal/observability"
	"gridcode/internal/repository"
)

const defaultAnalyticsDays = 7

type ProfileService struct {
	profileViewRepo repository.ProfileViewRepository
	userRepo        repository.UserRepository
	// now is swappable for tests.
	now func() time.Time
}

// ProfileViewer is one entry of the owner-facing viewer list.
type ProfileViewer struct {
	Viewer   models.UserSummary `json:"viewer"`
	ViewedAt time.Time          `json:"viewedAt"`
}

func NewProfileService(profileViewRepo repository.ProfileViewRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{
		profileViewRepo: profileViewRepo,
		userRepo:        userRepo,
		now:             time.Now,
	}
}

// RecordView stores a profile view unless it is a self-view or a repeat
// within the rolling de-duplication window. Both drop reasons are metered
// but silent for the caller.
func (s *ProfileService) RecordView(ctx context.Context, viewerID, profileUserID uint) error {
	if viewerID == 0 || viewerID == profileUserID {
		return nil
	}

	cutoff := s.now().Add(-models.ProfileViewWindow)
	recent, err := s.profileViewRepo.HasRecent(ctx, viewerID, profileUserID, cutoff)
	if err != nil {
		return err
	}
	if recent {
		observability.ProfileViewsDeduplicated.Inc()
		return nil
	}

	view := &models.ProfileView{
		ViewerID:      viewerID,
		ProfileUserID: profileUserID,
		ViewedAt:      s.now().UTC(),
	}
	if err := s.profileViewRepo.Create(ctx, view); err != nil {
		return err
	}
	observability.ProfileViewsRecorded.Inc()
	return nil
}

// ViewCount returns the all-time stored view count for a profile.
func (s *ProfileService) ViewCount(ctx context.Context, profileUserID uint) (int64, error) {
	return s.profileViewRepo.CountByProfile(ctx, profileUserID)
}

// Viewers returns the most recent viewers of a profile, newest first.
func (s *ProfileService) Viewers(ctx context.Context, profileUserID uint, limit int) ([]ProfileViewer, error) {
	views, err := s.profileViewRepo.ListViewers(ctx, profileUserID, limit)
	if err != nil {
		return nil, err
	}

	viewers := make([]ProfileViewer, 0, len(views))
	for _, v := range views {
		entry := ProfileViewer{ViewedAt: v.ViewedAt}
		if v.Viewer != nil {
			entry.Viewer = v.Viewer.Summary()
		} else {
			entry.Viewer = models.UserSummary{ID: v.ViewerID}
		}
		viewers = append(viewers, entry)
	}
	return viewers, nil
}

// Analytics buckets a profile's recent views per UTC calendar date, oldest
// first. Days without views are omitted rather than zero-filled.
func (s *ProfileService) Analytics(ctx context.Context, profileUserID uint, days int) ([]models.DayCount, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	views, err := s.profileViewRepo.RecentViews(ctx, profileUserID, since)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	order := make([]string, 0)
	for _, v := range views {
		date := v.ViewedAt.UTC().Format("2006-01-02")
		if _, seen := totals[date]; !seen {
			order = append(order, date)
		}
		totals[date]++
	}

	buckets := make([]models.DayCount, 0, len(order))
	for _, date := range order {
		buckets = append(buckets, models.DayCount{Date: date, Count: totals[date]})
	}
	return buckets, nil
}
