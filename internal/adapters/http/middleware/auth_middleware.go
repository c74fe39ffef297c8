package middleware

import (
	"strings"

	"unicampus/internal/core/authz"
	"unicampus/internal/core/domain"
	"unicampus/internal/core/services"
	"unicampus/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by Authenticate
const (
	LocalIdentity = "identity"
	LocalToken    = "token"
	LocalUserID   = "userID"
	LocalRole     = "role"
)

// Cookie names shared with the auth handler
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// BearerToken returns the token from "Authorization: Bearer ..." or ""
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// Authenticate resolves the caller's access token with v and stores the
// identity in Locals. Any failure is a 401.
func Authenticate(v services.TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Authorization header, then cookie
		accessToken := BearerToken(c)
		if accessToken == "" {
			accessToken = c.Cookies(AccessTokenCookie)
		}

		// 2. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 3. Resolve
		identity, err := v.Resolve(c.UserContext(), accessToken)
		if err != nil {
			return response.Unauthorized(c, "Invalid access token")
		}

		// 4. Set identity in context
		c.Locals(LocalIdentity, identity)
		c.Locals(LocalToken, accessToken)
		c.Locals(LocalUserID, identity.UserID)
		c.Locals(LocalRole, identity.Role)

		return c.Next()
	}
}

// Require lets the request through only when the authenticated role holds perm.
// It must run after Authenticate.
func Require(gate *authz.Gate, perm authz.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFrom(c)
		if identity == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		if err := gate.Authorize(identity.Role, perm); err != nil {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// AdminOnly allows only ADMIN
func AdminOnly(gate *authz.Gate) fiber.Handler {
	return Require(gate, authz.AdminOnly)
}

// AdminOrProfessor allows ADMIN or PROFESSOR
func AdminOrProfessor(gate *authz.Gate) fiber.Handler {
	return Require(gate, authz.AdminOrProfessor)
}

// IdentityFrom returns the identity stored by Authenticate, or nil
func IdentityFrom(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(LocalIdentity).(*domain.Identity)
	return identity
}

// TokenFrom returns the raw access token stored by Authenticate
func TokenFrom(c *fiber.Ctx) string {
	token, _ := c.Locals(LocalToken).(string)
	return token
}
