package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/pkg/gateway"
)

type fakeUserStore struct {
	user *models.User
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error { return nil }
func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.user, nil
}
func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return f.user, nil
}
func (f *fakeUserStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	return f.user, nil
}
func (f *fakeUserStore) SetPassword(ctx context.Context, email, hash string) error {
	return nil
}

type fakeOrderRecorder struct {
	recorded []*models.Order
	err      error
}

func (f *fakeOrderRecorder) Record(ctx context.Context, o *models.Order) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, o)
	return nil
}

type fakeOutbox struct {
	saved []*models.OutboxEntry
	err   error
}

func (f *fakeOutbox) Save(ctx context.Context, e *models.OutboxEntry) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, e)
	return nil
}

type fakeGateway struct {
	result  *gateway.Result
	saleErr error
	calls   int
}

func (f *fakeGateway) ClientToken(ctx context.Context) (string, error) { return "tok", nil }
func (f *fakeGateway) Sale(ctx context.Context, amount int64, nonce string) (*gateway.Result, error) {
	f.calls++
	if f.saleErr != nil {
		return nil, f.saleErr
	}
	res := *f.result
	res.Amount = amount
	return &res, nil
}

func cartOf(prices ...int64) []models.LineItem {
	items := make([]models.LineItem, len(prices))
	for i, p := range prices {
		items[i] = models.LineItem{ProductID: primitive.NewObjectID(), Name: "item", Price: p}
	}
	return items
}

func TestComputeTotalIsExactSum(t *testing.T) {
	cases := [][]int64{
		{},
		{0},
		{199},
		{100, 250, 399},
		{1, 1, 1, 1, 1, 1, 1},
		{999999999, 1},
	}
	for _, prices := range cases {
		var want int64
		for _, p := range prices {
			want += p
		}
		got, err := ComputeTotal(cartOf(prices...))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestComputeTotalRejectsNegativePrice(t *testing.T) {
	_, err := ComputeTotal(cartOf(100, -1, 50))
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestComputeTotalRejectsOverflow(t *testing.T) {
	_, err := ComputeTotal(cartOf(math.MaxInt64, 1))
	assert.ErrorIs(t, err, ErrTotalOverflow)
}

func newCheckoutFixture(gw gateway.Gateway, orders *fakeOrderRecorder, outbox *fakeOutbox, dispatch Dispatcher) (*CheckoutService, *models.User) {
	buyer := &models.User{ID: primitive.NewObjectID(), Name: "Asha", Email: "asha@example.com"}
	svc := NewCheckoutService(gw, orders, outbox, &fakeUserStore{user: buyer}, dispatch)
	return svc, buyer
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	gw := &fakeGateway{result: &gateway.Result{TransactionID: "tx1", Status: "settled"}}
	orders := &fakeOrderRecorder{}
	svc, buyer := newCheckoutFixture(gw, orders, &fakeOutbox{}, nil)

	_, err := svc.Checkout(context.Background(), buyer.ID.Hex(), nil, "nonce")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, gw.calls, "gateway must not be called for an empty cart")
	assert.Empty(t, orders.recorded)
}

func TestCheckoutDeclinedPaymentRecordsNoOrder(t *testing.T) {
	gw := &fakeGateway{saleErr: &gateway.PaymentError{Status: "processor_declined", Message: "declined"}}
	orders := &fakeOrderRecorder{}
	outbox := &fakeOutbox{}
	svc, buyer := newCheckoutFixture(gw, orders, outbox, nil)

	_, err := svc.Checkout(context.Background(), buyer.ID.Hex(), cartOf(100, 200), "nonce")

	var payErr *gateway.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, 1, gw.calls, "a consumed nonce must never be retried")
	assert.Empty(t, orders.recorded, "no order may exist for a failed settlement")
	assert.Empty(t, outbox.saved)
}

func TestCheckoutSuccessRecordsOneOrderForBuyer(t *testing.T) {
	gw := &fakeGateway{result: &gateway.Result{TransactionID: "tx42", Status: "submitted_for_settlement", Gateway: "braintree"}}
	orders := &fakeOrderRecorder{}
	svc, buyer := newCheckoutFixture(gw, orders, &fakeOutbox{}, nil)

	cart := cartOf(150, 850)
	order, err := svc.Checkout(context.Background(), buyer.ID.Hex(), cart, "nonce")
	require.NoError(t, err)

	require.Len(t, orders.recorded, 1)
	got := orders.recorded[0]
	assert.Equal(t, buyer.ID, got.Buyer)
	assert.Equal(t, buyer.Name, got.BuyerName)
	assert.Equal(t, "tx42", got.Payment.TransactionID)
	assert.Equal(t, int64(1000), got.Payment.Amount, "charged amount equals the cart total")
	assert.Equal(t, cart, got.Products, "order snapshots the cart lines")
	assert.Equal(t, models.StatusNotProcessed, got.Status)
	assert.Equal(t, order, got)
}

func TestCheckoutParksSettlementWhenOrderWriteFails(t *testing.T) {
	gw := &fakeGateway{result: &gateway.Result{TransactionID: "tx7", Status: "settling", Gateway: "braintree"}}
	orders := &fakeOrderRecorder{err: errors.New("mongo down")}
	outbox := &fakeOutbox{}

	var dispatched []string
	dispatch := func(txID string) error {
		dispatched = append(dispatched, txID)
		return nil
	}
	svc, buyer := newCheckoutFixture(gw, orders, outbox, dispatch)

	order, err := svc.Checkout(context.Background(), buyer.ID.Hex(), cartOf(500), "nonce")
	require.NoError(t, err, "money was captured, the checkout must still succeed")
	assert.Equal(t, "tx7", order.Payment.TransactionID)

	require.Len(t, outbox.saved, 1)
	assert.Equal(t, "tx7", outbox.saved[0].TransactionID)
	assert.Equal(t, buyer.ID, outbox.saved[0].Buyer)
	assert.Equal(t, buyer.Name, outbox.saved[0].BuyerName, "parked entry keeps the buyer name for the replayed order")
	assert.Equal(t, []string{"tx7"}, dispatched)
}

func TestCheckoutSurvivesOutboxFailure(t *testing.T) {
	gw := &fakeGateway{result: &gateway.Result{TransactionID: "tx9", Status: "settled"}}
	orders := &fakeOrderRecorder{err: errors.New("mongo down")}
	outbox := &fakeOutbox{err: errors.New("mongo still down")}
	svc, buyer := newCheckoutFixture(gw, orders, outbox, nil)

	order, err := svc.Checkout(context.Background(), buyer.ID.Hex(), cartOf(500), "nonce")
	require.NoError(t, err)
	assert.Equal(t, "tx9", order.Payment.TransactionID)
}
