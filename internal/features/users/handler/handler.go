package handler

import (
	"errors"
	"net/http"

	"apotek-store/internal/features/users/domain"
	"apotek-store/internal/features/users/service"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	service *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(s *service.UserService) *AuthHandler {
	return &AuthHandler{service: s}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	Message string `json:"message"`
	RayID   string `json:"ray_id,omitempty"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PIN      string `json:"pin"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the user.
type LoginResponse struct {
	Token string          `json:"token"`
	User  domain.Response `json:"user"`
}

// Register godoc
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration"
// @Success 201 {object} domain.Response
// @Failure 400 {object} ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.PIN == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "name, email, password and pin are required", RayID: rayID(c)})
	}

	user, err := h.service.Register(c.Context(), req.Name, req.Email, req.Password, req.PIN)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return c.Status(http.StatusConflict).JSON(ErrorResponse{Message: "email already registered", RayID: rayID(c)})
		}
		if errors.Is(err, domain.ErrPINFormat) {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	}

	return c.Status(http.StatusCreated).JSON(user.ToResponse())
}

// Login godoc
// @Summary Log in and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}

	token, user, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{Message: "invalid credentials", RayID: rayID(c)})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	}

	return c.JSON(LoginResponse{Token: token, User: user.ToResponse()})
}
