package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/pkg/gateway"
	"github.com/shashiranjanraj/ecomstore/pkg/logger"
	"github.com/shashiranjanraj/ecomstore/pkg/metrics"
)

var (
	// ErrEmptyCart rejects a checkout with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNegativePrice rejects a cart carrying a negative line price.
	ErrNegativePrice = errors.New("cart contains a negative price")
	// ErrTotalOverflow rejects a cart whose total does not fit in int64.
	ErrTotalOverflow = errors.New("cart total overflows")
)

// OrderRecorder persists settled orders.
type OrderRecorder interface {
	Record(ctx context.Context, o *models.Order) error
}

// OutboxStore parks settlements whose order write failed.
type OutboxStore interface {
	Save(ctx context.Context, e *models.OutboxEntry) error
}

// Dispatcher pushes a background job. Matches queue.Dispatch.
type Dispatcher func(txID string) error

// CheckoutService charges a cart through the payment gateway and
// records the resulting order.
type CheckoutService struct {
	gw       gateway.Gateway
	orders   OrderRecorder
	outbox   OutboxStore
	users    UserStore
	dispatch Dispatcher
}

func NewCheckoutService(gw gateway.Gateway, orders OrderRecorder, outbox OutboxStore, users UserStore, dispatch Dispatcher) *CheckoutService {
	if dispatch == nil {
		dispatch = func(string) error { return nil }
	}
	return &CheckoutService{gw: gw, orders: orders, outbox: outbox, users: users, dispatch: dispatch}
}

// ClientToken requests a client-side token from the gateway.
func (s *CheckoutService) ClientToken(ctx context.Context) (string, error) {
	return s.gw.ClientToken(ctx)
}

// ComputeTotal sums the line prices exactly, in minor units. Negative
// prices and overflowing totals are errors, not silent wraparound.
func ComputeTotal(items []models.LineItem) (int64, error) {
	var total int64
	for _, it := range items {
		if it.Price < 0 {
			return 0, ErrNegativePrice
		}
		if total > math.MaxInt64-it.Price {
			return 0, ErrTotalOverflow
		}
		total += it.Price
	}
	return total, nil
}

// Checkout runs the full payment flow for one buyer: total the cart,
// submit the sale for settlement, then record the order. The order is
// written only after the gateway reports success; if that write fails
// the settlement is parked in the outbox and replayed asynchronously,
// and the checkout still succeeds because the money was captured.
func (s *CheckoutService) Checkout(ctx context.Context, buyerID string, cart []models.LineItem, nonce string) (*models.Order, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	total, err := ComputeTotal(cart)
	if err != nil {
		return nil, err
	}

	buyer, err := s.users.FindByID(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("checkout: resolve buyer: %w", err)
	}

	res, err := s.gw.Sale(ctx, total, nonce)
	if err != nil {
		metrics.PaymentTransactions.WithLabelValues("failed").Inc()
		return nil, err
	}
	metrics.PaymentTransactions.WithLabelValues("settled").Inc()

	order := &models.Order{
		Products: cart,
		Payment: models.PaymentResult{
			TransactionID: res.TransactionID,
			Status:        res.Status,
			Amount:        res.Amount,
			Gateway:       res.Gateway,
		},
		Buyer:     buyer.ID,
		BuyerName: buyer.Name,
		Status:    models.StatusNotProcessed,
	}

	if err := s.orders.Record(ctx, order); err != nil {
		s.park(ctx, buyer, cart, order.Payment, err)
	}
	return order, nil
}

// park stores a settled transaction whose order write failed so the
// replay job and the reconcile sweep can finish the write later.
func (s *CheckoutService) park(ctx context.Context, buyer *models.User, cart []models.LineItem, payment models.PaymentResult, cause error) {
	logger.WithCtx(ctx).Error("checkout: order write failed after settlement",
		"transaction_id", payment.TransactionID, "error", cause)

	entry := &models.OutboxEntry{
		TransactionID: payment.TransactionID,
		Buyer:         buyer.ID,
		BuyerName:     buyer.Name,
		Products:      cart,
		Payment:       payment,
	}
	if err := s.outbox.Save(ctx, entry); err != nil {
		// Both stores down. The settlement id is in the log line above
		// for manual reconciliation.
		logger.WithCtx(ctx).Error("checkout: outbox write failed",
			"transaction_id", payment.TransactionID, "error", err)
		return
	}
	if err := s.dispatch(payment.TransactionID); err != nil {
		logger.WithCtx(ctx).Warn("checkout: replay dispatch failed, sweep will pick it up",
			"transaction_id", payment.TransactionID, "error", err)
	}
}
