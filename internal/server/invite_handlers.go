package server

import (
	"gridcode/internal/models"

	"github.com/gofiber/fiber/v2"
)

type inviteCodeRequest struct {
	Code string `json:"code"`
}

type generateInvitesRequest struct {
	Count int `json:"count"`
}

// ValidateInvite checks an invite code without consuming it. Public, since
// it runs before an account exists.
func (s *Server) ValidateInvite(c *fiber.Ctx) error {
	var req inviteCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	invite, err := s.inviteService.Validate(c.Context(), req.Code)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"valid":           true,
		"invitedByUserId": invite.InvitedByUserID,
	})
}

// MarkInviteUsed consumes an invite code on behalf of the caller. Kept for
// clients that drive the invite lifecycle explicitly; registration consumes
// its code inline.
func (s *Server) MarkInviteUsed(c *fiber.Ctx) error {
	var req inviteCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.inviteService.Consume(c.Context(), req.Code, currentUserID(c)); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invite code marked as used"})
}

// GenerateInvites mints fresh invite codes owned by the caller.
func (s *Server) GenerateInvites(c *fiber.Ctx) error {
	var req generateInvitesRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	invites, err := s.inviteService.Generate(c.Context(), currentUserID(c), req.Count)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invites)
}
