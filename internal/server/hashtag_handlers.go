package server

import (
	"gridcode/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCommonHashtags returns the curated hashtag picker list.
func (s *Server) GetCommonHashtags(c *fiber.Ctx) error {
	return c.JSON(s.hashtagService.Common())
}

// GetTrendingHashtags ranks hashtags by post count.
func (s *Server) GetTrendingHashtags(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 5)
	trending, err := s.hashtagService.Trending(c.Context(), limit)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(trending)
}

// GetHashtagAnalytics returns both trending signals. Gated behind the
// hashtag_analytics feature flag.
func (s *Server) GetHashtagAnalytics(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)
	if !s.featureFlags.Enabled("hashtag_analytics", userID) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Resource", "hashtag analytics"))
	}

	limit := c.QueryInt("limit", 5)
	analytics, err := s.hashtagService.Analytics(c.Context(), limit)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(analytics)
}
