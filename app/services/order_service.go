package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/app/repositories"
	"github.com/shashiranjanraj/ecomstore/config"
)

var (
	// ErrOrderNotFound is returned when an order id does not resolve.
	ErrOrderNotFound = errors.New("order not found")
	// ErrBadStatus is returned for a status outside the enum.
	ErrBadStatus = errors.New("invalid order status")
	// ErrBadTransition is returned in strict mode for a backward move.
	ErrBadTransition = errors.New("invalid status transition")
)

// OrderStore is the slice of the order repository the query service
// needs.
type OrderStore interface {
	ListForBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
}

// OrderService answers order queries and drives status changes.
type OrderService struct {
	orders OrderStore
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// ListForBuyer returns the buyer's own orders, newest first.
func (s *OrderService) ListForBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(buyerID)
	if err != nil {
		return nil, fmt.Errorf("orders: bad buyer id: %w", err)
	}
	return s.orders.ListForBuyer(ctx, oid)
}

// ListAll returns every order. The route gates this behind the admin
// check; the service does not re-check roles.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListAll(ctx)
}

// forward is the strict-mode transition table. A status may only move
// to one of the listed successors.
var forward = map[string][]string{
	models.StatusNotProcessed: {models.StatusProcessing, models.StatusCancelled},
	models.StatusProcessing:   {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:      {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered:    {},
	models.StatusCancelled:    {},
}

func transitionAllowed(from, to string) bool {
	if from == to {
		return true
	}
	for _, s := range forward[from] {
		if s == to {
			return true
		}
	}
	return false
}

// UpdateStatus sets a new status on one order. The status must be one
// of the enum values; with ORDER_STATUS_STRICT=true the move must also
// follow the forward-only transition table.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, ErrBadStatus
	}
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if config.OrderStatusStrict() {
		current, err := s.orders.FindByID(ctx, oid)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		if err != nil {
			return nil, err
		}
		if !transitionAllowed(current.Status, status) {
			return nil, ErrBadTransition
		}
	}

	o, err := s.orders.UpdateStatus(ctx, oid, status)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return o, err
}
