package server

import (
	"gridcode/internal/models"
	"gridcode/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createReactionRequest struct {
	PostID   uint   `json:"postId"`
	Reaction string `json:"reaction"`
}

type createEndorsementRequest struct {
	PostID uint   `json:"postId"`
	Type   string `json:"type"`
}

// CreateReaction sets the caller's reaction on a post. Reacting again with a
// different kind replaces the previous one.
func (s *Server) CreateReaction(c *fiber.Ctx) error {
	var req createReactionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("postId is required"))
	}

	reaction, err := s.engagementService.React(c.Context(), service.ReactInput{
		UserID: currentUserID(c),
		PostID: req.PostID,
		Kind:   req.Reaction,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reaction)
}

// CreateEndorsement records a legacy endorsement on a post.
func (s *Server) CreateEndorsement(c *fiber.Ctx) error {
	var req createEndorsementRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("postId is required"))
	}

	endorsement, err := s.engagementService.Endorse(c.Context(), service.EndorseInput{
		UserID: currentUserID(c),
		PostID: req.PostID,
		Type:   req.Type,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(endorsement)
}
