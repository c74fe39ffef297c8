package response

import (
	"errors"
	"fmt"
	"testing"

	"unicampus/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: no token", domain.ErrUnauthenticated), fiber.StatusUnauthorized},
		{fmt.Errorf("%w: role STUDENT", domain.ErrForbidden), fiber.StatusForbidden},
		{domain.ErrCourseNotFound, fiber.StatusNotFound},
		{domain.ErrPrincipalNotFound, fiber.StatusNotFound},
		{fmt.Errorf("lookup: %w", domain.ErrGradeNotFound), fiber.StatusNotFound},
		{domain.ErrDuplicateCourse, fiber.StatusConflict},
		{domain.ErrInvalidRole, fiber.StatusBadRequest},
		{fmt.Errorf("%w: bad", domain.ErrInvalidInput), fiber.StatusBadRequest},
		{errors.New("connection refused"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.err), tc.err.Error())
	}
}
