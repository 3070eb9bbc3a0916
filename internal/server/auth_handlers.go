package server

import (
	"strconv"
	"time"

	"userbase/internal/models"
	"userbase/internal/observability"
	"userbase/internal/service"
	"userbase/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest is the payload for POST /api/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		observability.RegistrationsTotal.WithLabelValues("bad_request").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if verrs := validation.ValidateUser(req.Name, req.Username, req.Email, req.Password, true); verrs != nil {
		observability.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(verrs)
	}

	user, err := s.userSvc.Register(c.Context(), service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		observability.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return mapServiceError(c, err)
	}

	observability.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := s.userSvc.FindByUsername(c.Context(), req.Username)
	if err != nil {
		return mapServiceError(c, err)
	}
	if user == nil || !s.hasher.Verify(req.Password, user.Password) {
		observability.LoginsTotal.WithLabelValues("failure").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		s.log.Error("token generation failed", "error", err, "user_id", user.ID)
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	observability.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (s *Server) generateToken(userID uint, username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "userbase",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
