package handler

import (
	"errors"
	"net/http"

	"apotek-store/internal/core/auth"
	"apotek-store/internal/core/store"
	orderdomain "apotek-store/internal/features/orders/domain"
	"apotek-store/internal/features/payments/domain"
	"apotek-store/internal/features/payments/service"
	userdomain "apotek-store/internal/features/users/domain"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(s *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
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

func (h *PaymentHandler) fail(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, orderdomain.ErrOrderNotFound), errors.Is(err, domain.ErrPaymentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, orderdomain.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, userdomain.ErrInvalidPIN):
		status = http.StatusUnauthorized
	case errors.Is(err, orderdomain.ErrNotPendingPayment):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	}
	return c.Status(status).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
}

// PayRequest is the payload for authorizing a payment.
type PayRequest struct {
	PIN string `json:"pin"`
}

// Pay godoc
// @Summary Pay for a pending order
// @Tags payments
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param request body PayRequest true "Payment PIN"
// @Success 200 {object} domain.Payment
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/payments/pay/{orderId} [post]
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromCtx(c)

	var req PayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body", RayID: rayID(c)})
	}
	if req.PIN == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Message: "pin is required", RayID: rayID(c)})
	}

	payment, err := h.service.Pay(c.Context(), id.UserID, req.PIN, c.Params("orderId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(payment)
}
