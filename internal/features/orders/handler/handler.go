package handler

import (
	"errors"
	"net/http"

	"apotek-store/internal/core/auth"
	"apotek-store/internal/core/store"
	invdomain "apotek-store/internal/features/inventory/domain"

	addrdomain "apotek-store/internal/features/addresses/domain"
	cartdomain "apotek-store/internal/features/carts/domain"
	catalogdomain "apotek-store/internal/features/catalog/domain"
	"apotek-store/internal/features/orders/domain"
	"apotek-store/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for the order lifecycle.
type OrderHandler struct {
	service *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
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

func (h *OrderHandler) fail(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, addrdomain.ErrAddressNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, addrdomain.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, cartdomain.ErrEmptyCart),
		errors.Is(err, domain.ErrUnknownStatus),
		errors.Is(err, domain.ErrNotShipping),
		errors.Is(err, domain.ErrNotDelivered),
		errors.Is(err, domain.ErrNotPendingPayment),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrCompleted):
		status = http.StatusBadRequest
	case errors.Is(err, invdomain.ErrInsufficientStock), errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	}
	return c.Status(status).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
}

// CheckoutRequest is the payload for creating an order from the cart.
// PaymentMethod is optional; blank selects the platform default.
type CheckoutRequest struct {
	AddressID     string `json:"address_id"`
	CourierName   string `json:"courier_name"`
	PaymentMethod string `json:"payment_method"`
}

// StatusRequest is the payload for an admin status edit.
type StatusRequest struct {
	Status string `json:"status"`
}

// Checkout godoc
// @Summary Checkout the cart into an order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CheckoutRequest true "Checkout"
// @Success 201 {object} service.CheckoutResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/orders/checkout [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}
	if req.AddressID == "" || req.CourierName == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "address_id and courier_name are required", RayID: rayID(c)})
	}

	result, err := h.service.Checkout(c.Context(), id.UserID, req.AddressID, req.CourierName, req.PaymentMethod)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(result)
}

// MyOrders godoc
// @Summary List my orders
// @Tags orders
// @Produce json
// @Success 200 {array} domain.Order
// @Router /api/orders/my [get]
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	orders, err := h.service.GetMyOrders(c.Context(), id.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(orders)
}

// MyOrderDetail godoc
// @Summary Get one of my orders
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} ErrorResponse
// @Router /api/orders/my/{id} [get]
func (h *OrderHandler) MyOrderDetail(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	order, err := h.service.GetMyOrderDetail(c.Context(), id.UserID, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(order)
}

// Cancel godoc
// @Summary Cancel my order while it awaits payment
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	order, err := h.service.CancelByUser(c.Context(), id.UserID, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(order)
}

// ConfirmCompleted godoc
// @Summary Confirm a delivered order as completed
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /api/orders/{id}/completed [post]
func (h *OrderHandler) ConfirmCompleted(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	order, err := h.service.ConfirmCompleted(c.Context(), id.UserID, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(order)
}

// AdminList godoc
// @Summary List all orders
// @Tags admin-orders
// @Produce json
// @Success 200 {array} domain.Order
// @Router /api/admin/orders [get]
func (h *OrderHandler) AdminList(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(orders)
}

// AdminDetail godoc
// @Summary Get any order
// @Tags admin-orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} ErrorResponse
// @Router /api/admin/orders/{id} [get]
func (h *OrderHandler) AdminDetail(c *fiber.Ctx) error {
	order, err := h.service.GetDetail(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(order)
}

// AdminSetStatus godoc
// @Summary Edit an order status directly
// @Tags admin-orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/admin/orders/{id}/status [put]
func (h *OrderHandler) AdminSetStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}

	order, err := h.service.SetStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(order)
}

// AdminCancel godoc
// @Summary Cancel any order
// @Tags admin-orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/orders/{id}/cancel [post]
func (h *OrderHandler) AdminCancel(c *fiber.Ctx) error {
	order, err := h.service.CancelByAdmin(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(order)
}
