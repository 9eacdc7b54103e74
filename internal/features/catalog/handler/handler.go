package handler

import (
	"errors"
	"net/http"

	"apotek-store/internal/core/logger"
	"apotek-store/internal/features/catalog/domain"
	"apotek-store/internal/features/catalog/service"
	invdomain "apotek-store/internal/features/inventory/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for catalog operations.
type ProductHandler struct {
	service *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(s *service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// ProductRequest is the create/update payload.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Stock       int64           `json:"stock"`
}

// ProductResponse is a product with its live stock level.
type ProductResponse struct {
	domain.Product
	Stock int64 `json:"stock"`
}

// Create godoc
// @Summary Create a product (admin)
// @Tags products
// @Accept json
// @Produce json
// @Param request body ProductRequest true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} ErrorResponse
// @Router /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}

	if req.Name == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "product name is required", RayID: rayID(c)})
	}
	if req.Stock < 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "stock must be zero or greater", RayID: rayID(c)})
	}

	product, err := h.service.Create(c.Context(), req.Name, req.Description, req.Price, req.ImageURL, req.Stock)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPrice) {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
		}
		logger.Get().Error("Failed to create product", zap.String("ray_id", rayID(c)), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: "Internal Server Error", RayID: rayID(c)})
	}

	return c.Status(http.StatusCreated).JSON(product)
}

// Get godoc
// @Summary Get a product with current stock
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, stock, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, invdomain.ErrProductNotStocked) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{Message: "product not found", RayID: rayID(c)})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	}

	return c.JSON(ProductResponse{Product: *product, Stock: stock})
}

// List godoc
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} domain.Product
// @Router /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	}
	return c.JSON(products)
}

// Update godoc
// @Summary Update a product (admin)
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body ProductRequest true "Product"
// @Success 200 {object} domain.Product
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}

	product, err := h.service.Update(c.Context(), c.Params("id"), req.Name, req.Description, req.Price, req.ImageURL)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{Message: "product not found", RayID: rayID(c)})
		}
		if errors.Is(err, domain.ErrInvalidPrice) {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	}

	return c.JSON(product)
}

// Delete godoc
// @Summary Delete a product (admin)
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{Message: "product not found", RayID: rayID(c)})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	}
	return c.SendStatus(http.StatusNoContent)
}
