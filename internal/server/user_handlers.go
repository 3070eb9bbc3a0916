package server

import (
	"userbase/internal/observability"
	"userbase/internal/service"
	"userbase/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	user, err := s.userSvc.FindByID(c.Context(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	users, err := s.userSvc.FindAllUsers(c.Context())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(users)
}

// UpdateUser handles PUT /api/users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	// Password is optional on update; blank means keep the current one.
	if verrs := validation.ValidateUser(req.Name, req.Username, req.Email, req.Password, false); verrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(verrs)
	}

	user, err := s.userSvc.Update(c.Context(), id, service.UpdateInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id and marks the account deleted
// without removing the row.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := s.userSvc.SoftDelete(c.Context(), id); err != nil {
		return mapServiceError(c, err)
	}

	observability.DeletionsTotal.WithLabelValues("soft").Inc()
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// DeleteUserPermanently handles DELETE /api/users/:id/permanent
func (s *Server) DeleteUserPermanently(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := s.userSvc.DeletePermanently(c.Context(), id); err != nil {
		return mapServiceError(c, err)
	}

	observability.DeletionsTotal.WithLabelValues("permanent").Inc()
	return c.JSON(fiber.Map{"message": "User permanently deleted"})
}
