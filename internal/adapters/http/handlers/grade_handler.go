package handlers

import (
	"unicampus/internal/core/services"
	"unicampus/internal/pkg/pagination"
	"unicampus/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// GradeHandler handles grade endpoints
type GradeHandler struct {
	gradeService *services.GradeService
}

// NewGradeHandler creates a new grade handler
func NewGradeHandler(gradeService *services.GradeService) *GradeHandler {
	return &GradeHandler{gradeService: gradeService}
}

type gradeLister func(token string, offset, limit int) ([]*services.GradeResponse, int64, error)

func (h *GradeHandler) page(c *fiber.Ctx, list gradeLister) error {
	params := pagination.GetParams(c)
	grades, total, err := list(callerToken(c), params.Offset, params.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Grades retrieved successfully", pagination.NewResponse(grades, params, total))
}

// List lists all grades (admin or student)
// @Summary List grades
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /grades [get]
func (h *GradeHandler) List(c *fiber.Ctx) error {
	return h.page(c, func(token string, offset, limit int) ([]*services.GradeResponse, int64, error) {
		return h.gradeService.ListGrades(c.UserContext(), token, offset, limit)
	})
}

// Get returns a grade by id (admin or student)
// @Summary Get grade
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /grades/{id} [get]
func (h *GradeHandler) Get(c *fiber.Ctx) error {
	grade, err := h.gradeService.GetGrade(c.UserContext(), callerToken(c), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Grade retrieved successfully", grade)
}

// ListByStudent lists a student's grades (admin or student)
// @Summary List grades of a student
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student user ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /grades/student/{studentId} [get]
func (h *GradeHandler) ListByStudent(c *fiber.Ctx) error {
	studentID := c.Params("studentId")
	return h.page(c, func(token string, offset, limit int) ([]*services.GradeResponse, int64, error) {
		return h.gradeService.ListStudentGrades(c.UserContext(), token, studentID, offset, limit)
	})
}

// ListByCourse lists a course's grades (admin or student)
// @Summary List grades of a course
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /grades/course/{courseId} [get]
func (h *GradeHandler) ListByCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	return h.page(c, func(token string, offset, limit int) ([]*services.GradeResponse, int64, error) {
		return h.gradeService.ListCourseGrades(c.UserContext(), token, courseID, offset, limit)
	})
}

// ListMine lists the calling student's grades (student only)
// @Summary List my grades
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /grades/my-grades [get]
func (h *GradeHandler) ListMine(c *fiber.Ctx) error {
	return h.page(c, func(token string, offset, limit int) ([]*services.GradeResponse, int64, error) {
		return h.gradeService.ListMyGrades(c.UserContext(), token, offset, limit)
	})
}

// ListAwarded lists the grades the calling professor awarded (professor only)
// @Summary List grades I awarded
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /grades/professor/my-grades [get]
func (h *GradeHandler) ListAwarded(c *fiber.Ctx) error {
	return h.page(c, func(token string, offset, limit int) ([]*services.GradeResponse, int64, error) {
		return h.gradeService.ListAwardedGrades(c.UserContext(), token, offset, limit)
	})
}

// Create records a grade (professor only)
// @Summary Create grade
// @Tags Grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.GradeInput true "Grade"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /grades [post]
func (h *GradeHandler) Create(c *fiber.Ctx) error {
	var req services.GradeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	grade, err := h.gradeService.CreateGrade(c.UserContext(), callerToken(c), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Grade created successfully", grade)
}

// Update changes a grade (professor only)
// @Summary Update grade
// @Tags Grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade ID"
// @Param body body services.GradeUpdate true "Changes"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /grades/{id} [put]
func (h *GradeHandler) Update(c *fiber.Ctx) error {
	var req services.GradeUpdate
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	grade, err := h.gradeService.UpdateGrade(c.UserContext(), callerToken(c), c.Params("id"), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Grade updated successfully", grade)
}

// Delete removes a grade (professor only)
// @Summary Delete grade
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade ID"
// @Success 204
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *fiber.Ctx) error {
	if err := h.gradeService.DeleteGrade(c.UserContext(), callerToken(c), c.Params("id")); err != nil {
		return response.FromError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
