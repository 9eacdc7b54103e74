package handler

import (
	"errors"
	"net/http"

	"apotek-store/internal/core/auth"
	"apotek-store/internal/core/store"
	invdomain "apotek-store/internal/features/inventory/domain"
	orderdomain "apotek-store/internal/features/orders/domain"
	"apotek-store/internal/features/shipping/domain"
	"apotek-store/internal/features/shipping/service"

	"github.com/gofiber/fiber/v2"
)

// ShippingHandler handles HTTP requests for courier tracking.
type ShippingHandler struct {
	service *service.ShippingService
}

// NewShippingHandler creates a new ShippingHandler.
func NewShippingHandler(s *service.ShippingService) *ShippingHandler {
	return &ShippingHandler{service: s}
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

func (h *ShippingHandler) fail(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrShippingNotFound), errors.Is(err, orderdomain.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, orderdomain.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrUnknownStatus):
		status = http.StatusBadRequest
	case errors.Is(err, invdomain.ErrInsufficientStock), errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	}
	return c.Status(status).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
}

// TrackingRequest is the payload for registering a tracking number.
type TrackingRequest struct {
	TrackingNumber string `json:"tracking_number"`
	CourierName    string `json:"courier_name"`
}

// StatusRequest is the payload for a courier status update.
type StatusRequest struct {
	Status string `json:"status"`
}

// Track godoc
// @Summary Track my order's shipment
// @Tags shipping
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} service.TrackingView
// @Failure 404 {object} ErrorResponse
// @Router /api/shipping/track/{orderId} [get]
func (h *ShippingHandler) Track(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	view, err := h.service.GetTracking(c.Context(), id.UserID, c.Params("orderId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// AdminAddTracking godoc
// @Summary Register a tracking number for an order
// @Tags admin-shipping
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param request body TrackingRequest true "Tracking"
// @Success 201 {object} domain.Shipping
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/shipping/{orderId}/tracking [post]
func (h *ShippingHandler) AdminAddTracking(c *fiber.Ctx) error {
	var req TrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}
	if req.TrackingNumber == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "tracking_number is required", RayID: rayID(c)})
	}

	shipping, err := h.service.AddTracking(c.Context(), c.Params("orderId"), req.TrackingNumber, req.CourierName)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(shipping)
}

// AdminUpdateStatus godoc
// @Summary Update a shipment's courier status
// @Tags admin-shipping
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} domain.Shipping
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/shipping/{orderId}/status [put]
func (h *ShippingHandler) AdminUpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}

	shipping, err := h.service.UpdateStatus(c.Context(), c.Params("orderId"), req.Status)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(shipping)
}

// AdminList godoc
// @Summary List all shipments
// @Tags admin-shipping
// @Produce json
// @Success 200 {array} service.AdminView
// @Router /api/admin/shipping [get]
func (h *ShippingHandler) AdminList(c *fiber.Ctx) error {
	views, err := h.service.ListAll(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(views)
}

// AdminByOrder godoc
// @Summary Get an order's shipment
// @Tags admin-shipping
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} service.AdminView
// @Failure 404 {object} ErrorResponse
// @Router /api/admin/shipping/order/{orderId} [get]
func (h *ShippingHandler) AdminByOrder(c *fiber.Ctx) error {
	view, err := h.service.GetByOrder(c.Context(), c.Params("orderId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// AdminByTracking godoc
// @Summary Find a shipment by tracking number
// @Tags admin-shipping
// @Produce json
// @Param trackingNumber path string true "Tracking number"
// @Success 200 {object} service.AdminView
// @Failure 404 {object} ErrorResponse
// @Router /api/admin/shipping/tracking/{trackingNumber} [get]
func (h *ShippingHandler) AdminByTracking(c *fiber.Ctx) error {
	view, err := h.service.GetByTracking(c.Context(), c.Params("trackingNumber"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}
