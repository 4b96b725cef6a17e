package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/app/services"
	"github.com/shashiranjanraj/ecomstore/pkg/gateway"
	"github.com/shashiranjanraj/ecomstore/pkg/middleware"
)

type stubUsers struct{ user *models.User }

func (s *stubUsers) Create(ctx context.Context, u *models.User) error { return nil }
func (s *stubUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.user, nil
}
func (s *stubUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.user, nil
}
func (s *stubUsers) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	return s.user, nil
}
func (s *stubUsers) SetPassword(ctx context.Context, email, hash string) error {
	return nil
}

type stubOrders struct{ recorded []*models.Order }

func (s *stubOrders) Record(ctx context.Context, o *models.Order) error {
	s.recorded = append(s.recorded, o)
	return nil
}

type stubOutbox struct{}

func (stubOutbox) Save(ctx context.Context, e *models.OutboxEntry) error { return nil }

type stubGateway struct {
	saleErr error
}

func (stubGateway) ClientToken(ctx context.Context) (string, error) { return "client-token", nil }
func (g stubGateway) Sale(ctx context.Context, amount int64, nonce string) (*gateway.Result, error) {
	if g.saleErr != nil {
		return nil, g.saleErr
	}
	return &gateway.Result{
		TransactionID: "tx-http",
		Status:        "submitted_for_settlement",
		Amount:        amount,
		Gateway:       "braintree",
	}, nil
}

func paymentFixture(gw gateway.Gateway) (*PaymentController, *stubOrders, *models.User) {
	buyer := &models.User{ID: primitive.NewObjectID(), Name: "Asha"}
	orders := &stubOrders{}
	svc := services.NewCheckoutService(gw, orders, stubOutbox{}, &stubUsers{user: buyer}, nil)
	return NewPaymentController(svc), orders, buyer
}

func signedInReq(t *testing.T, userID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/product/braintree/payment", strings.NewReader(body))
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPaymentTokenEndpoint(t *testing.T) {
	ctrl, _, _ := paymentFixture(stubGateway{})

	rec := httptest.NewRecorder()
	ctrl.Token(rec, httptest.NewRequest(http.MethodGet, "/api/v1/product/braintree/get-token", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "client-token", got["clientToken"])
}

func TestPaymentEndpointSettlesAndRecords(t *testing.T) {
	ctrl, orders, buyer := paymentFixture(stubGateway{})

	pid := primitive.NewObjectID().Hex()
	body := `{"cart":[{"_id":"` + pid + `","name":"Laptop","price":259900}],"nonce":"fake-valid-nonce"}`

	rec := httptest.NewRecorder()
	ctrl.Payment(rec, signedInReq(t, buyer.ID.Hex(), body))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "Payment Completed Successfully", got["message"])

	require.Len(t, orders.recorded, 1)
	assert.Equal(t, buyer.ID, orders.recorded[0].Buyer)
	assert.Equal(t, int64(259900), orders.recorded[0].Payment.Amount)
}

func TestPaymentEndpointDeclined(t *testing.T) {
	ctrl, orders, buyer := paymentFixture(stubGateway{
		saleErr: &gateway.PaymentError{Status: "processor_declined", Message: "declined"},
	})

	pid := primitive.NewObjectID().Hex()
	body := `{"cart":[{"_id":"` + pid + `","name":"Laptop","price":259900}],"nonce":"fake-valid-nonce"}`

	rec := httptest.NewRecorder()
	ctrl.Payment(rec, signedInReq(t, buyer.ID.Hex(), body))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
	assert.Empty(t, orders.recorded, "a declined settlement never records an order")
}

func TestPaymentEndpointEmptyCart(t *testing.T) {
	ctrl, orders, buyer := paymentFixture(stubGateway{})

	rec := httptest.NewRecorder()
	ctrl.Payment(rec, signedInReq(t, buyer.ID.Hex(), `{"cart":[],"nonce":"fake-valid-nonce"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, orders.recorded)
}

func TestPaymentEndpointMissingNonce(t *testing.T) {
	ctrl, _, buyer := paymentFixture(stubGateway{})

	pid := primitive.NewObjectID().Hex()
	rec := httptest.NewRecorder()
	ctrl.Payment(rec, signedInReq(t, buyer.ID.Hex(), `{"cart":[{"_id":"`+pid+`","price":100}]}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPaymentEndpointBadProductID(t *testing.T) {
	ctrl, _, buyer := paymentFixture(stubGateway{})

	rec := httptest.NewRecorder()
	ctrl.Payment(rec, signedInReq(t, buyer.ID.Hex(), `{"cart":[{"_id":"nope","price":100}],"nonce":"n"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
