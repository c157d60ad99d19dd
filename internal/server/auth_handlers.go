package server

import (
	"log/slog"
	"strings"
	"time"

	"gridcode/internal/middleware"
	"gridcode/internal/models"
	"gridcode/internal/observability"
	"gridcode/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"fullName"`
	InviteCode string `json:"inviteCode"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account behind the invite gate. The invite is
// validated up front and consumed after the account exists; a consume
// failure is logged and metered but does not roll back the registration.
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	}
	if req.FullName == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Full name is required"))
	}

	invite, err := s.inviteService.Validate(c.Context(), req.InviteCode)
	if err != nil {
		return respondAppError(c, err)
	}

	if existing, err := s.userRepo.GetByUsername(c.Context(), req.Username); err != nil {
		return respondAppError(c, err)
	} else if existing != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewConflictError("Username is already taken"))
	}
	if existing, err := s.userRepo.GetByEmail(c.Context(), req.Email); err != nil {
		return respondAppError(c, err)
	} else if existing != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewConflictError("Email is already registered"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	invitedBy := invite.InvitedByUserID
	user := &models.User{
		Username:        req.Username,
		Email:           req.Email,
		Password:        string(hashed),
		FullName:        req.FullName,
		InvitedByUserID: &invitedBy,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return respondAppError(c, err)
	}

	if err := s.inviteService.Consume(c.Context(), req.InviteCode, user.ID); err != nil {
		// The account exists; failing the request now would strand the user.
		observability.InviteConsumeFailures.Inc()
		middleware.Logger.ErrorContext(c.UserContext(), "failed to mark invite used",
			slog.String("code", req.InviteCode),
			slog.Uint64("userID", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
	}

	if err := s.issueSession(c, user.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login authenticates by username or email plus password.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Password == "" || (req.Username == "" && req.Email == "") {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username or email and password are required"))
	}

	var user *models.User
	var err error
	if req.Username != "" {
		user, err = s.userRepo.GetByUsername(c.Context(), strings.TrimSpace(req.Username))
	} else {
		user, err = s.userRepo.GetByEmail(c.Context(), strings.TrimSpace(req.Email))
	}
	if err != nil {
		return respondAppError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if err := s.issueSession(c, user.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	return c.JSON(user)
}

// Logout destroys the current session, if any.
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(SessionCookieName); token != "" {
		if err := s.sessions.Destroy(c.Context(), token); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// CurrentUser returns the authenticated user, or 401 for guests.
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	userID, ok := s.optionalUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Not authenticated"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}

func (s *Server) issueSession(c *fiber.Ctx, userID uint) error {
	token, err := s.sessions.Issue(c.Context(), userID)
	if err != nil {
		return err
	}

	isProduction := s.config.Env == "production" || s.config.Env == "prod"
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		MaxAge:   s.config.SessionTTLHours * 3600,
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return nil
}
