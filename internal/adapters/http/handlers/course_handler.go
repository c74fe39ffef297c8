package handlers

import (
	"unicampus/internal/adapters/http/middleware"
	"unicampus/internal/core/services"
	"unicampus/internal/pkg/pagination"
	"unicampus/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CourseHandler handles course endpoints. The raw caller token is handed to
// the course service, which resolves and authorizes it itself.
type CourseHandler struct {
	courseService *services.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// callerToken reads the access token from the Authorization header or cookie
func callerToken(c *fiber.Ctx) string {
	if token := middleware.BearerToken(c); token != "" {
		return token
	}
	return c.Cookies(middleware.AccessTokenCookie)
}

// List lists all courses
// @Summary List courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /courses [get]
func (h *CourseHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	courses, total, err := h.courseService.ListCourses(c.UserContext(), callerToken(c), params.Offset, params.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Courses retrieved successfully", pagination.NewResponse(courses, params, total))
}

// ListActive lists active courses
// @Summary List active courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /courses/active [get]
func (h *CourseHandler) ListActive(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	courses, total, err := h.courseService.ListActiveCourses(c.UserContext(), callerToken(c), params.Offset, params.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Courses retrieved successfully", pagination.NewResponse(courses, params, total))
}

// Get returns a course by id
// @Summary Get course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course record ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	course, err := h.courseService.GetCourse(c.UserContext(), callerToken(c), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Course retrieved successfully", course)
}

// GetByCourseID returns a course by its catalogue id
// @Summary Get course by course ID
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /courses/code/{courseId} [get]
func (h *CourseHandler) GetByCourseID(c *fiber.Ctx) error {
	course, err := h.courseService.GetCourseByCourseID(c.UserContext(), callerToken(c), c.Params("courseId"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Course retrieved successfully", course)
}

// Create adds a course (admin only)
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CourseInput true "Course"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /courses [post]
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var req services.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.courseService.CreateCourse(c.UserContext(), callerToken(c), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Course created successfully", course)
}

// Update replaces a course (admin only)
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course record ID"
// @Param body body services.CourseInput true "Course"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	var req services.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.courseService.UpdateCourse(c.UserContext(), callerToken(c), c.Params("id"), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Course updated successfully", course)
}

// Delete removes a course (admin only)
// @Summary Delete course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course record ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	if err := h.courseService.DeleteCourse(c.UserContext(), callerToken(c), c.Params("id")); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Course deleted successfully", nil)
}

// Deactivate marks a course inactive (admin only)
// @Summary Deactivate course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course record ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /courses/{id}/deactivate [patch]
func (h *CourseHandler) Deactivate(c *fiber.Ctx) error {
	course, err := h.courseService.DeactivateCourse(c.UserContext(), callerToken(c), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Course deactivated successfully", course)
}
