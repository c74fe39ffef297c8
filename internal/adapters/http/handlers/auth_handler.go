package handlers

import (
	"strings"
	"time"

	"unicampus/internal/adapters/http/middleware"
	"unicampus/internal/config"
	"unicampus/internal/core/services"
	"unicampus/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints. Successful calls answer with
// the bare AuthResult body, which is what delegated validators decode.
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// RefreshRequest represents refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register handles principal registration
// @Summary Register new principal
// @Description Register a student, professor or admin and issue a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} services.AuthResult
// @Failure 400 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return authFailure(c, err)
	}

	h.setAuthCookies(c, result)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Login handles login
// @Summary Login
// @Description Authenticate with email and password and return a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} services.AuthResult
// @Failure 400 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	result, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return authFailure(c, err)
	}

	h.setAuthCookies(c, result)
	return c.JSON(result)
}

// Refresh exchanges a refresh token for a new pair
// @Summary Refresh tokens
// @Description Exchange a refresh token (bearer header, body or cookie) for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest false "Refresh token"
// @Success 200 {object} services.AuthResult
// @Failure 400 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := middleware.BearerToken(c)
	if refreshToken == "" && len(c.Body()) > 0 {
		var req RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			refreshToken = strings.TrimSpace(req.RefreshToken)
		}
	}
	if refreshToken == "" {
		refreshToken = c.Cookies(middleware.RefreshTokenCookie)
	}
	if refreshToken == "" {
		return response.BadRequest(c, "Refresh token required")
	}

	result, err := h.authService.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		h.clearAuthCookies(c)
		return authFailure(c, err)
	}

	h.setAuthCookies(c, result)
	return c.JSON(result)
}

// Validate checks an access token
// @Summary Validate access token
// @Description Resolve an access token to the identity it was issued for. No new tokens are issued.
// @Tags Auth
// @Produce json
// @Param token query string true "Access token"
// @Success 200 {object} services.AuthResult
// @Failure 400 {object} response.Response
// @Router /auth/validate [get]
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		token = middleware.BearerToken(c)
	}
	if token == "" {
		return response.BadRequest(c, "Token required")
	}

	result, err := h.authService.Validate(c.UserContext(), token)
	if err != nil {
		return authFailure(c, err)
	}
	return c.JSON(result)
}

// Logout clears the auth cookies. Issued tokens stay valid until they expire.
// @Summary Logout
// @Description Clear auth cookies
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearAuthCookies(c)
	return response.Success(c, "Logged out successfully", nil)
}

// authFailure answers 400 for every failure the caller caused and 500 otherwise
func authFailure(c *fiber.Ctx, err error) error {
	if response.StatusOf(err) == fiber.StatusInternalServerError {
		return response.InternalServerError(c, "Internal server error")
	}
	return response.BadRequest(c, err.Error())
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, result *services.AuthResult) {
	h.setCookie(c, middleware.AccessTokenCookie, result.Token, h.cfg.JWT.AccessTTL)
	h.setCookie(c, middleware.RefreshTokenCookie, result.RefreshToken, h.cfg.JWT.RefreshTTL)
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	h.setCookie(c, middleware.AccessTokenCookie, "", -time.Hour)
	h.setCookie(c, middleware.RefreshTokenCookie, "", -time.Hour)
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	cookie := &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Now().Add(ttl)
	}
	c.Cookie(cookie)
}
