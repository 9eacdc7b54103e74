package handler

import (
	"errors"
	"net/http"

	"apotek-store/internal/core/auth"
	"apotek-store/internal/features/addresses/domain"
	"apotek-store/internal/features/addresses/service"

	"github.com/gofiber/fiber/v2"
)

// AddressHandler handles HTTP requests for the address book.
type AddressHandler struct {
	service *service.AddressService
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(s *service.AddressService) *AddressHandler {
	return &AddressHandler{service: s}
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

func (h *AddressHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrAddressNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{Message: "address not found", RayID: rayID(c)})
	case errors.Is(err, domain.ErrNotOwner):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{Message: "address does not belong to you", RayID: rayID(c)})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	}
}

// Create godoc
// @Summary Add an address
// @Tags addresses
// @Accept json
// @Produce json
// @Param request body domain.Address true "Address"
// @Success 201 {object} domain.Address
// @Router /api/addresses [post]
func (h *AddressHandler) Create(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	var req domain.Address
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}

	address, err := h.service.Create(c.Context(), id.UserID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(address)
}

// Update godoc
// @Summary Update an address
// @Tags addresses
// @Accept json
// @Produce json
// @Param id path string true "Address ID"
// @Param request body domain.Address true "Address"
// @Success 200 {object} domain.Address
// @Router /api/addresses/{id} [put]
func (h *AddressHandler) Update(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	var req domain.Address
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}

	address, err := h.service.Update(c.Context(), id.UserID, c.Params("id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(address)
}

// List godoc
// @Summary List my addresses
// @Tags addresses
// @Produce json
// @Success 200 {array} domain.Address
// @Router /api/addresses [get]
func (h *AddressHandler) List(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	addresses, err := h.service.List(c.Context(), id.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(addresses)
}

// Delete godoc
// @Summary Delete an address
// @Tags addresses
// @Param id path string true "Address ID"
// @Success 204
// @Router /api/addresses/{id} [delete]
func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	if err := h.service.Delete(c.Context(), id.UserID, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
