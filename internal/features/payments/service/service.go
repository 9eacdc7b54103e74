package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"apotek-store/internal/core/logger"
	orderdomain "apotek-store/internal/features/orders/domain"
	orderports "apotek-store/internal/features/orders/ports"
	"apotek-store/internal/features/payments/domain"
	"apotek-store/internal/features/payments/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService authorizes payments against pending orders.
type PaymentService struct {
	repo   ports.PaymentRepository
	orders ports.OrderMutator
	pins   ports.PINVerifier
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(repo ports.PaymentRepository, orders ports.OrderMutator, pins ports.PINVerifier) *PaymentService {
	return &PaymentService{repo: repo, orders: orders, pins: pins}
}

// Pay authorizes the order after verifying the caller's PIN. The receipt
// commits in the same transaction that moves the order to PAID, so a
// concurrent expiry or cancellation can never leave a paid cancelled order
// or a duplicate receipt. Preconditions are reported in a fixed order:
// missing order, then ownership, then order state, then the PIN.
func (s *PaymentService) Pay(ctx context.Context, userID, pin, orderID string) (*domain.Payment, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, orderdomain.ErrNotOwner
	}
	if order.Status != orderdomain.StatusPendingPayment {
		return nil, orderdomain.ErrNotPendingPayment
	}

	if err := s.pins.VerifyPIN(ctx, userID, pin); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Status:    domain.StatusPaid,
		Reference: "PAY-" + uuid.NewString(),
		PaidAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(payment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment: %w", err)
	}

	_, err = s.orders.Mutate(ctx, orderID, func(o *orderdomain.Order) (*orderports.Effect, error) {
		if o.UserID != userID {
			return nil, orderdomain.ErrNotOwner
		}
		if err := o.MarkPaid(); err != nil {
			return nil, err
		}
		return &orderports.Effect{
			SetKeys: map[string][]byte{s.repo.Key(orderID): data},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("payment authorized",
		zap.String("order_id", orderID),
		zap.String("reference", payment.Reference),
	)
	return payment, nil
}

// Get returns the receipt for one of the caller's paid orders.
func (s *PaymentService) Get(ctx context.Context, orderID string) (*domain.Payment, error) {
	return s.repo.Get(ctx, orderID)
}
