package server

import (
	"log/slog"

	"gridcode/internal/middleware"
	"gridcode/internal/models"

	"github.com/gofiber/fiber/v2"
)

const topReputationHashtags = 5

// GetUserProfile returns a user's public profile and records the visit as a
// profile view. View recording is best effort; an analytics failure never
// breaks the profile read.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	profileUserID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), profileUserID)
	if err != nil {
		return respondAppError(c, err)
	}

	viewerID := currentUserID(c)
	if err := s.profileService.RecordView(c.Context(), viewerID, profileUserID); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to record profile view",
			slog.Uint64("profileUserID", uint64(profileUserID)),
			slog.String("error", err.Error()),
		)
	}

	viewCount, err := s.profileService.ViewCount(c.Context(), profileUserID)
	if err != nil {
		return respondAppError(c, err)
	}

	reputation, err := s.engagementService.HashtagReputation(c.Context(), profileUserID)
	if err != nil {
		return respondAppError(c, err)
	}
	if len(reputation) > topReputationHashtags {
		reputation = reputation[:topReputationHashtags]
	}

	return c.JSON(fiber.Map{
		"user":             user.Summary(),
		"profileViewCount": viewCount,
		"topHashtags":      reputation,
	})
}

// GetProfileViewers lists who viewed the caller's profile. Owner only.
func (s *Server) GetProfileViewers(c *fiber.Ctx) error {
	profileUserID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if profileUserID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only see your own profile viewers"))
	}

	pagination := parsePagination(c, 20)
	viewers, err := s.profileService.Viewers(c.Context(), profileUserID, pagination.Limit)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(viewers)
}

// GetProfileAnalytics returns the caller's per-day view counts. Owner only.
func (s *Server) GetProfileAnalytics(c *fiber.Ctx) error {
	profileUserID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if profileUserID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only see your own profile analytics"))
	}

	days := c.QueryInt("days", 7)
	buckets, err := s.profileService.Analytics(c.Context(), profileUserID, days)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(buckets)
}
