package handler

import (
	"errors"
	"net/http"

	"apotek-store/internal/core/auth"
	cartdomain "apotek-store/internal/features/carts/domain"
	"apotek-store/internal/features/carts/service"
	catalogdomain "apotek-store/internal/features/catalog/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CartHandler handles HTTP requests for cart operations.
type CartHandler struct {
	service *service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(s *service.CartService) *CartHandler {
	return &CartHandler{service: s}
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

// LineRequest is the add/update payload.
type LineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CartResponse is the cart listing payload.
type CartResponse struct {
	Items []service.CartItem `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

// SetLine godoc
// @Summary Add or update a cart line
// @Tags cart
// @Accept json
// @Param request body LineRequest true "Line"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /api/cart [post]
func (h *CartHandler) SetLine(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	var req LineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}

	if err := h.service.SetLine(c.Context(), id.UserID, req.ProductID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, cartdomain.ErrInvalidQuantity):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
		case errors.Is(err, catalogdomain.ErrProductNotFound):
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{Message: "product not found", RayID: rayID(c)})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
		}
	}
	return c.SendStatus(http.StatusNoContent)
}

// RemoveLine godoc
// @Summary Remove a product from the cart
// @Tags cart
// @Param productId path string true "Product ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/cart/{productId} [delete]
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	if err := h.service.RemoveLine(c.Context(), id.UserID, c.Params("productId")); err != nil {
		if errors.Is(err, cartdomain.ErrLineNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{Message: "product not in cart", RayID: rayID(c)})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	}
	return c.SendStatus(http.StatusNoContent)
}

// List godoc
// @Summary List cart contents
// @Tags cart
// @Produce json
// @Success 200 {object} CartResponse
// @Router /api/cart [get]
func (h *CartHandler) List(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	items, total, err := h.service.List(c.Context(), id.UserID)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	}
	return c.JSON(CartResponse{Items: items, Total: total})
}

// Clear godoc
// @Summary Empty the cart
// @Tags cart
// @Success 204
// @Router /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	if err := h.service.Clear(c.Context(), id.UserID); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	}
	return c.SendStatus(http.StatusNoContent)
}
