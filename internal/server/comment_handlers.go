package server

import (
	"gridcode/internal/models"
	"gridcode/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment appends a comment to a post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments lists a post's comments oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.Context(), postID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(comments)
}
