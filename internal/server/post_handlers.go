package server

import (
	"encoding/json"

	"gridcode/internal/models"
	"gridcode/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Content        string          `json:"content"`
	Hashtag        string          `json:"hashtag"`
	IsAnonymous    bool            `json:"isAnonymous"`
	Type           string          `json:"type"`
	StructuredData json.RawMessage `json:"structuredData"`
}

type updatePostRequest struct {
	Content string `json:"content"`
}

// CreatePost creates a post owned by the authenticated user.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:         currentUserID(c),
		Content:        req.Content,
		Hashtag:        req.Hashtag,
		IsAnonymous:    req.IsAnonymous,
		Type:           req.Type,
		StructuredData: req.StructuredData,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts lists posts, optionally filtered by hashtag and type.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	pagination := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Hashtag:       c.Query("hashtag"),
		Type:          c.Query("type"),
		Limit:         pagination.Limit,
		Offset:        pagination.Offset,
		CurrentUserID: userID,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPost returns one post with its computed engagement fields.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts lists a user's posts, newest first.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pagination := parsePagination(c, 20)

	posts, err := s.postService.ListPostsByUser(c.Context(), id, pagination.Limit, pagination.Offset, currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost edits the content of the caller's own post.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  id,
		Content: req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes the caller's own post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), id, currentUserID(c)); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
