package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/app/repositories"
)

type fakeOrderStore struct {
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	f := &fakeOrderStore{orders: map[primitive.ObjectID]*models.Order{}}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrderStore) ListForBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.Buyer == buyer {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func orderFor(buyer primitive.ObjectID, status string) *models.Order {
	return &models.Order{ID: primitive.NewObjectID(), Buyer: buyer, Status: status}
}

func TestListForBuyerReturnsOnlyOwnOrders(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	store := newFakeOrderStore(
		orderFor(alice, models.StatusNotProcessed),
		orderFor(alice, models.StatusShipped),
		orderFor(bob, models.StatusNotProcessed),
	)
	svc := NewOrderService(store)

	out, err := svc.ListForBuyer(context.Background(), alice.Hex())
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, o := range out {
		assert.Equal(t, alice, o.Buyer)
	}
}

func TestListForBuyerRejectsBadID(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore())
	_, err := svc.ListForBuyer(context.Background(), "not-an-object-id")
	assert.Error(t, err)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore())
	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), "Teleported")
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore())
	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), models.StatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatusPermissiveByDefault(t *testing.T) {
	o := orderFor(primitive.NewObjectID(), models.StatusDelivered)
	svc := NewOrderService(newFakeOrderStore(o))

	// Permissive mode allows a backward move.
	got, err := svc.UpdateStatus(context.Background(), o.ID.Hex(), models.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
}

func TestUpdateStatusStrictBlocksBackwardMoves(t *testing.T) {
	t.Setenv("ORDER_STATUS_STRICT", "true")

	o := orderFor(primitive.NewObjectID(), models.StatusDelivered)
	store := newFakeOrderStore(o)
	svc := NewOrderService(store)

	_, err := svc.UpdateStatus(context.Background(), o.ID.Hex(), models.StatusProcessing)
	assert.ErrorIs(t, err, ErrBadTransition)
	assert.Equal(t, models.StatusDelivered, store.orders[o.ID].Status, "status must be unchanged after a denial")
}

func TestUpdateStatusStrictAllowsForwardMoves(t *testing.T) {
	t.Setenv("ORDER_STATUS_STRICT", "true")

	o := orderFor(primitive.NewObjectID(), models.StatusNotProcessed)
	svc := NewOrderService(newFakeOrderStore(o))

	got, err := svc.UpdateStatus(context.Background(), o.ID.Hex(), models.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)

	got, err = svc.UpdateStatus(context.Background(), o.ID.Hex(), models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, got.Status)
}
