package service

import (
	"context"
	"time"

	"apotek-store/internal/core/logger"
	orderdomain "apotek-store/internal/features/orders/domain"
	"apotek-store/internal/features/shipping/domain"
	"apotek-store/internal/features/shipping/ports"

	"go.uber.org/zap"
)

// TrackingView is the limited shipment view exposed to order owners.
type TrackingView struct {
	TrackingNumber string             `json:"tracking_number"`
	CourierName    string             `json:"courier_name"`
	Status         domain.Status      `json:"status"`
	ShippedDate    time.Time          `json:"shipped_date"`
	DeliveredDate  *time.Time         `json:"delivered_date,omitempty"`
	OrderStatus    orderdomain.Status `json:"order_status"`
}

// AdminView is the full shipment view for the back office.
type AdminView struct {
	domain.Shipping
	OrderCode    string `json:"order_code"`
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
}

// ShippingService manages courier tracking for orders.
type ShippingService struct {
	repo      ports.ShippingRepository
	orders    ports.OrderStatusSetter
	orderRead ports.OrderReader
	customers ports.CustomerReader
}

// NewShippingService creates a new ShippingService.
func NewShippingService(
	repo ports.ShippingRepository,
	orders ports.OrderStatusSetter,
	orderRead ports.OrderReader,
	customers ports.CustomerReader,
) *ShippingService {
	return &ShippingService{repo: repo, orders: orders, orderRead: orderRead, customers: customers}
}

// AddTracking registers a tracking number for an order and forces the order
// to SHIPPING. Re-registering replaces the number but keeps the original
// ship date; the shipment restarts at ON_DELIVERY either way.
func (s *ShippingService) AddTracking(ctx context.Context, orderID, trackingNumber, courierName string) (*domain.Shipping, error) {
	order, err := s.orders.ForceShipping(ctx, orderID)
	if err != nil {
		return nil, err
	}

	shipping := &domain.Shipping{
		OrderID:        orderID,
		TrackingNumber: trackingNumber,
		CourierName:    courierName,
		Status:         domain.StatusOnDelivery,
		ShippedDate:    time.Now().UTC(),
	}
	if previous, err := s.repo.GetByOrder(ctx, orderID); err == nil {
		shipping.ShippedDate = previous.ShippedDate
	} else if err != domain.ErrShippingNotFound {
		return nil, err
	}
	if shipping.CourierName == "" {
		shipping.CourierName = order.CourierName
	}

	if err := s.repo.Save(ctx, shipping); err != nil {
		return nil, err
	}

	logger.Get().Info("tracking registered",
		zap.String("order_id", orderID),
		zap.String("tracking_number", trackingNumber),
	)
	return shipping, nil
}

// UpdateStatus records the courier's progress. It never touches the order;
// only the customer's confirmation completes an order.
func (s *ShippingService) UpdateStatus(ctx context.Context, orderID, status string) (*domain.Shipping, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	shipping, err := s.repo.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	shipping.Status = parsed
	if parsed == domain.StatusDelivered && shipping.DeliveredDate == nil {
		now := time.Now().UTC()
		shipping.DeliveredDate = &now
	}

	if err := s.repo.Save(ctx, shipping); err != nil {
		return nil, err
	}
	return shipping, nil
}

// GetTracking returns the owner's view of a shipment.
func (s *ShippingService) GetTracking(ctx context.Context, userID, orderID string) (*TrackingView, error) {
	order, err := s.orderRead.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, orderdomain.ErrNotOwner
	}

	shipping, err := s.repo.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &TrackingView{
		TrackingNumber: shipping.TrackingNumber,
		CourierName:    shipping.CourierName,
		Status:         shipping.Status,
		ShippedDate:    shipping.ShippedDate,
		DeliveredDate:  shipping.DeliveredDate,
		OrderStatus:    order.Status,
	}, nil
}

// GetByOrder returns the admin view of an order's shipment.
func (s *ShippingService) GetByOrder(ctx context.Context, orderID string) (*AdminView, error) {
	shipping, err := s.repo.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.adminView(ctx, shipping)
}

// GetByTracking returns the admin view behind a tracking number.
func (s *ShippingService) GetByTracking(ctx context.Context, trackingNumber string) (*AdminView, error) {
	shipping, err := s.repo.GetByTracking(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	return s.adminView(ctx, shipping)
}

// ListAll returns every shipment for the back office.
func (s *ShippingService) ListAll(ctx context.Context) ([]AdminView, error) {
	shipments, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]AdminView, 0, len(shipments))
	for i := range shipments {
		view, err := s.adminView(ctx, &shipments[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *ShippingService) adminView(ctx context.Context, shipping *domain.Shipping) (*AdminView, error) {
	view := &AdminView{Shipping: *shipping}

	order, err := s.orderRead.Get(ctx, shipping.OrderID)
	if err != nil {
		return nil, err
	}
	view.OrderCode = order.Code
	view.Address = order.Address

	if customer, err := s.customers.Get(ctx, order.UserID); err == nil {
		view.CustomerName = customer.Name
	}
	return view, nil
}
