package service

import (
	"context"
	"fmt"
	"time"

	"apotek-store/internal/core/config"
	"apotek-store/internal/core/logger"
	addrdomain "apotek-store/internal/features/addresses/domain"
	cartdomain "apotek-store/internal/features/carts/domain"
	invdomain "apotek-store/internal/features/inventory/domain"
	"apotek-store/internal/features/orders/domain"
	"apotek-store/internal/features/orders/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FlatRateCalculator prices every shipment at a single configured rate,
// regardless of courier or destination.
type FlatRateCalculator struct {
	cost decimal.Decimal
}

// NewFlatRateCalculator creates a calculator charging the given flat cost.
func NewFlatRateCalculator(cost int64) FlatRateCalculator {
	return FlatRateCalculator{cost: decimal.NewFromInt(cost)}
}

// Cost implements ports.ShippingCalculator.
func (c FlatRateCalculator) Cost(courier string, address *addrdomain.Address, lines []cartdomain.Line) decimal.Decimal {
	return c.cost
}

// CheckoutResult is what a successful checkout hands back to the user.
type CheckoutResult struct {
	Order   *domain.Order `json:"order"`
	Message string        `json:"message"`
}

// OrderService orchestrates the order lifecycle.
type OrderService struct {
	repo      ports.OrderRepository
	carts     ports.CartReader
	addresses ports.AddressReader
	products  ports.ProductReader
	shipping  ports.ShippingCalculator
	delivery  ports.DeliveryChecker
	cfg       config.OrdersConfig
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	repo ports.OrderRepository,
	carts ports.CartReader,
	addresses ports.AddressReader,
	products ports.ProductReader,
	shipping ports.ShippingCalculator,
	delivery ports.DeliveryChecker,
	cfg config.OrdersConfig,
) *OrderService {
	return &OrderService{
		repo:      repo,
		carts:     carts,
		addresses: addresses,
		products:  products,
		shipping:  shipping,
		delivery:  delivery,
		cfg:       cfg,
	}
}

// Checkout turns the user's cart into a PENDING_PAYMENT order. Prices are
// snapshotted from the catalog at this moment, stock is reserved and the
// cart cleared in the same transaction that persists the order. A blank
// paymentMethod falls back to the platform default.
func (s *OrderService) Checkout(ctx context.Context, userID, addressID, courierName, paymentMethod string) (*CheckoutResult, error) {
	lines, err := s.carts.ReadLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, cartdomain.ErrEmptyCart
	}

	address, err := s.addresses.GetOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(lines))
	itemsTotal := decimal.Zero
	for _, line := range lines {
		product, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
		})
		itemsTotal = itemsTotal.Add(product.Price.Mul(decimal.NewFromInt(line.Quantity)))
	}

	shippingCost := s.shipping.Cost(courierName, address, lines)
	now := time.Now().UTC()
	window := time.Duration(s.cfg.PaymentWindowMinutes) * time.Minute

	if paymentMethod == "" {
		paymentMethod = s.cfg.DefaultPaymentMethod
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		Code:          "ORD-" + uuid.NewString(),
		UserID:        userID,
		Status:        domain.StatusPendingPayment,
		PaymentMethod: paymentMethod,
		Address:       address.Snapshot(),
		CourierName:   courierName,
		ItemsTotal:    itemsTotal,
		ShippingCost:  shippingCost,
		TotalAmount:   itemsTotal.Add(shippingCost),
		CreatedAt:     now,
		ExpiresAt:     now.Add(window),
		Items:         items,
	}

	if err := s.repo.CreateWithReservation(ctx, order); err != nil {
		return nil, err
	}

	logger.Get().Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("total", order.TotalAmount.String()),
	)

	message := fmt.Sprintf(
		"Order %s created. Pay within %d minutes or it will be cancelled automatically. %s will deliver after payment.",
		order.Code, s.cfg.PaymentWindowMinutes, courierName,
	)
	return &CheckoutResult{Order: order, Message: message}, nil
}

// CancelByUser lets the owner cancel while the payment window is open.
func (s *OrderService) CancelByUser(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	return s.repo.Mutate(ctx, orderID, func(o *domain.Order) (*ports.Effect, error) {
		if o.UserID != userID {
			return nil, domain.ErrNotOwner
		}
		if err := o.CancelByUser(); err != nil {
			return nil, err
		}
		return &ports.Effect{Movements: invdomain.Release(o.Lines())}, nil
	})
}

// ConfirmCompleted lets the owner close a SHIPPING order once the courier
// has reported delivery.
func (s *OrderService) ConfirmCompleted(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	if order.Status != domain.StatusShipping {
		return nil, domain.ErrNotShipping
	}

	delivered, err := s.delivery.Delivered(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !delivered {
		return nil, domain.ErrNotDelivered
	}

	return s.repo.Mutate(ctx, orderID, func(o *domain.Order) (*ports.Effect, error) {
		if o.UserID != userID {
			return nil, domain.ErrNotOwner
		}
		if err := o.ConfirmCompleted(); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// GetMyOrders lists the caller's orders, newest first.
func (s *OrderService) GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetMyOrderDetail returns one of the caller's orders.
func (s *OrderService) GetMyOrderDetail(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	return order, nil
}

// ListAll lists every order for the back office.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// GetDetail returns any order for the back office.
func (s *OrderService) GetDetail(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.Get(ctx, orderID)
}

// SetStatus applies an admin direct status edit. Stock moves only when the
// edit crosses into or out of the cancelled family; re-activating a
// cancelled order re-reserves and fails if the shelf has since emptied.
func (s *OrderService) SetStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.Mutate(ctx, orderID, func(o *domain.Order) (*ports.Effect, error) {
		direction := o.SetStatus(to)
		return &ports.Effect{Movements: movementsFor(direction, o)}, nil
	})
}

// CancelByAdmin cancels an order from the back office.
func (s *OrderService) CancelByAdmin(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.Mutate(ctx, orderID, func(o *domain.Order) (*ports.Effect, error) {
		direction, err := o.CancelByAdmin()
		if err != nil {
			return nil, err
		}
		return &ports.Effect{Movements: movementsFor(direction, o)}, nil
	})
}

// ForceShipping moves an order to SHIPPING when a tracking number is
// registered, whatever its current state. Forcing out of a cancelled state
// re-reserves stock first.
func (s *OrderService) ForceShipping(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.Mutate(ctx, orderID, func(o *domain.Order) (*ports.Effect, error) {
		direction := o.SetStatus(domain.StatusShipping)
		return &ports.Effect{Movements: movementsFor(direction, o)}, nil
	})
}

// ExpireDue cancels every pending order whose deadline is at or before now
// and returns the stock of each. Orders are processed independently; one
// lost race or failure never blocks the rest.
func (s *OrderService) ExpireDue(ctx context.Context, now time.Time) int {
	ids, err := s.repo.ExpiredPending(ctx, now.Unix())
	if err != nil {
		logger.Get().Error("failed to query expired orders", zap.Error(err))
		return 0
	}

	expired := 0
	for _, id := range ids {
		_, err := s.repo.Mutate(ctx, id, func(o *domain.Order) (*ports.Effect, error) {
			if err := o.ExpireAuto(now); err != nil {
				return nil, err
			}
			return &ports.Effect{Movements: invdomain.Release(o.Lines())}, nil
		})
		if err != nil {
			// Racing payments and cancellations win; the index entry is
			// already gone by the time the loser reads the order.
			logger.Get().Debug("skipping pending order",
				zap.String("order_id", id),
				zap.Error(err),
			)
			continue
		}
		expired++
		logger.Get().Info("order expired", zap.String("order_id", id))
	}
	return expired
}

func movementsFor(direction domain.StockDirection, o *domain.Order) []invdomain.Movement {
	switch direction {
	case domain.StockRelease:
		return invdomain.Release(o.Lines())
	case domain.StockReserve:
		return invdomain.Reserve(o.Lines())
	default:
		return nil
	}
}
