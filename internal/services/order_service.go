package services

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"backoffice/internal/collection"
	"backoffice/internal/models"
	"backoffice/internal/repository"
)

// OrderDraft carries the editable fields of an order.
type OrderDraft struct {
	Product         string `json:"product"`
	ShippingAddress string `json:"shippingAddress"`
	SenderName      string `json:"senderName"`
	Phone           string `json:"phone"`
	Quantity        int    `json:"quantity"`
	Price           string `json:"price"`
	ImageURL        string `json:"imageUrl"`
}

type OrderService interface {
	ListOrders(ctx context.Context, query collection.Query) (collection.Page[models.Order], error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	CreateOrder(ctx context.Context, draft OrderDraft) (*models.Order, error)
	UpdateOrder(ctx context.Context, id int64, draft OrderDraft) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string, shipment *models.Shipment) (*models.Order, error)
	CancelOrder(ctx context.Context, id int64) (*models.Order, error)
	RecreateOrder(ctx context.Context, id int64) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	notifier  Notifier
	pageSize  int

	now func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository, notifier Notifier, pageSize int) OrderService {
	return &orderService{orderRepo: orderRepo, notifier: notifier, pageSize: pageSize, now: time.Now}
}

func (s *orderService) ListOrders(ctx context.Context, query collection.Query) (collection.Page[models.Order], error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return collection.Page[models.Order]{}, err
	}
	query.Filters = maps.Clone(query.Filters)
	if status, ok := models.ParseOrderStatus(query.Filters[FilterStatus]); ok {
		query.Filters[FilterStatus] = string(status)
	}
	return collection.Paginate(OrderSchema.Apply(orders, query), s.pageSize, query.Page), nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) CreateOrder(ctx context.Context, draft OrderDraft) (*models.Order, error) {
	var created models.Order
	err := s.orderRepo.Mutate(ctx, func(orders []models.Order) ([]models.Order, error) {
		if err := validateOrder(draft); err != nil {
			return nil, err
		}
		now := s.now()
		created = models.Order{
			ID:        nextID(now, orderIDTaken(orders)),
			Status:    models.OrderPending,
			CreatedAt: now.UTC(),
		}
		applyOrderDraft(&created, draft)
		return append(orders, created), nil
	})
	if err := report(s.notifier, "Create order", "Order created successfully", err); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOrder edits an open order. Delivering orders are locked and
// delivered or cancelled ones are final.
func (s *orderService) UpdateOrder(ctx context.Context, id int64, draft OrderDraft) (*models.Order, error) {
	var updated models.Order
	err := s.mutateOrder(ctx, id, func(o *models.Order) error {
		if o.Locked() {
			return ErrOrderLocked
		}
		if o.Terminal() {
			return fmt.Errorf("%w: order is %s", ErrInvalidTransition, o.Status)
		}
		if err := validateOrder(draft); err != nil {
			return err
		}
		applyOrderDraft(o, draft)
		updated = *o
		return nil
	})
	if err := report(s.notifier, "Update order", "Order updated successfully", err); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateOrderStatus advances the order along pending -> paid -> delivering
// -> delivered, or diverts it to cancelled before delivery starts. Moving
// to delivering needs complete shipment details.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id int64, status string, shipment *models.Shipment) (*models.Order, error) {
	var updated models.Order
	target, ok := models.ParseOrderStatus(status)
	err := s.mutateOrder(ctx, id, func(o *models.Order) error {
		if !ok {
			return invalid("status", fmt.Sprintf("unknown status %q", status))
		}
		if target == models.OrderCancelled && o.Locked() {
			return ErrOrderLocked
		}
		if !models.CanTransition(o.Status, target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
		}
		if target == models.OrderDelivering {
			if shipment == nil {
				shipment = o.Shipment
			}
			if !shipment.Complete() {
				return invalid("shipment", "order type, payment type, service type and required note are required")
			}
			ship := *shipment
			o.Shipment = &ship
		}
		o.Status = target
		o.IsCancelled = target == models.OrderCancelled
		updated = *o
		return nil
	})
	if err := report(s.notifier, "Update order status", fmt.Sprintf("Order moved to %s", target), err); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *orderService) CancelOrder(ctx context.Context, id int64) (*models.Order, error) {
	var cancelled models.Order
	err := s.mutateOrder(ctx, id, func(o *models.Order) error {
		if o.Locked() {
			return ErrOrderLocked
		}
		if !models.CanTransition(o.Status, models.OrderCancelled) {
			return fmt.Errorf("%w: order is %s", ErrInvalidTransition, o.Status)
		}
		o.Status = models.OrderCancelled
		o.IsCancelled = true
		cancelled = *o
		return nil
	})
	if err := report(s.notifier, "Cancel order", "Order cancelled", err); err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// RecreateOrder places a cancelled order again as a new pending order. The
// cancelled original is kept.
func (s *orderService) RecreateOrder(ctx context.Context, id int64) (*models.Order, error) {
	var recreated models.Order
	err := s.orderRepo.Mutate(ctx, func(orders []models.Order) ([]models.Order, error) {
		for _, o := range orders {
			if o.ID != id {
				continue
			}
			if o.Locked() {
				return nil, ErrOrderLocked
			}
			if o.Status != models.OrderCancelled {
				return nil, fmt.Errorf("%w: only cancelled orders can be recreated, order is %s", ErrInvalidTransition, o.Status)
			}
			now := s.now()
			recreated = o
			recreated.ID = nextID(now, orderIDTaken(orders))
			recreated.Status = models.OrderPending
			recreated.IsCancelled = false
			recreated.Shipment = nil
			recreated.CreatedAt = now.UTC()
			return append(orders, recreated), nil
		}
		return nil, repository.ErrNotFound
	})
	if err := report(s.notifier, "Recreate order", "Order recreated", err); err != nil {
		return nil, err
	}
	return &recreated, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id int64) error {
	err := s.orderRepo.Mutate(ctx, func(orders []models.Order) ([]models.Order, error) {
		for i, o := range orders {
			if o.ID != id {
				continue
			}
			if o.Locked() {
				return nil, ErrOrderLocked
			}
			return append(orders[:i], orders[i+1:]...), nil
		}
		return nil, repository.ErrNotFound
	})
	return report(s.notifier, "Delete order", "Order deleted", err)
}

func (s *orderService) mutateOrder(ctx context.Context, id int64, fn func(o *models.Order) error) error {
	return s.orderRepo.Mutate(ctx, func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				if err := fn(&orders[i]); err != nil {
					return nil, err
				}
				return orders, nil
			}
		}
		return nil, repository.ErrNotFound
	})
}

func orderIDTaken(orders []models.Order) func(int64) bool {
	return func(id int64) bool {
		for _, o := range orders {
			if o.ID == id {
				return true
			}
		}
		return false
	}
}

func applyOrderDraft(o *models.Order, draft OrderDraft) {
	o.Product = strings.TrimSpace(draft.Product)
	o.ShippingAddress = strings.TrimSpace(draft.ShippingAddress)
	o.SenderName = strings.TrimSpace(draft.SenderName)
	o.Phone = strings.TrimSpace(draft.Phone)
	o.Quantity = draft.Quantity
	o.Price = strings.TrimSpace(draft.Price)
	o.ImageURL = draft.ImageURL
}

func validateOrder(d OrderDraft) error {
	if strings.TrimSpace(d.Product) == "" {
		return invalid("product", "product is required")
	}
	if strings.TrimSpace(d.SenderName) == "" {
		return invalid("senderName", "sender name is required")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return invalid("phone", "phone is required")
	}
	if strings.TrimSpace(d.ShippingAddress) == "" {
		return invalid("shippingAddress", "shipping address is required")
	}
	if d.Quantity <= 0 {
		return invalid("quantity", "quantity must be at least 1")
	}
	price, ok := collection.ParsePrice(d.Price)
	if !ok || price.IsNegative() {
		return invalid("price", "price must be a non-negative number")
	}
	return nil
}
