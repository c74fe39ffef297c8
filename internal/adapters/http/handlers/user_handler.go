package handlers

import (
	"unicampus/internal/adapters/http/middleware"
	"unicampus/internal/core/domain"
	"unicampus/internal/core/services"
	"unicampus/internal/pkg/pagination"
	"unicampus/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves principal profiles. Route middleware has already
// authenticated the caller and checked the permission.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the caller's profile
// @Summary Get current profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	profile, err := h.userService.GetProfile(c.UserContext(), identity.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile retrieved successfully", profile)
}

// UpdateMe updates the caller's profile
// @Summary Update current profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.userService.UpdateProfile(c.UserContext(), identity.UserID, &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile updated successfully", profile)
}

// ListStudents lists students (admin or professor)
// @Summary List students
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /students [get]
func (h *UserHandler) ListStudents(c *fiber.Ctx) error {
	return h.listByRole(c, domain.RoleStudent, "Students retrieved successfully")
}

// ListAdmins lists admins (admin only)
// @Summary List admins
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admins [get]
func (h *UserHandler) ListAdmins(c *fiber.Ctx) error {
	return h.listByRole(c, domain.RoleAdmin, "Admins retrieved successfully")
}

// GetStudent returns a student by student id (admin or professor)
// @Summary Get student
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /students/{studentId} [get]
func (h *UserHandler) GetStudent(c *fiber.Ctx) error {
	return h.getByRoleID(c, domain.RoleStudent, c.Params("studentId"))
}

// GetProfessor returns a professor by professor id (any authenticated role)
// @Summary Get professor
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param professorId path string true "Professor ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /professors/{professorId} [get]
func (h *UserHandler) GetProfessor(c *fiber.Ctx) error {
	return h.getByRoleID(c, domain.RoleProfessor, c.Params("professorId"))
}

func (h *UserHandler) listByRole(c *fiber.Ctx, role domain.Role, message string) error {
	params := pagination.GetParams(c)

	profiles, total, err := h.userService.ListByRole(c.UserContext(), role, params.Offset, params.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, message, pagination.NewResponse(profiles, params, total))
}

func (h *UserHandler) getByRoleID(c *fiber.Ctx, role domain.Role, roleID string) error {
	if roleID == "" {
		return response.BadRequest(c, "ID is required")
	}

	profile, err := h.userService.GetByRoleID(c.UserContext(), role, roleID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile retrieved successfully", profile)
}
