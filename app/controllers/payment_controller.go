package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/app/services"
	"github.com/shashiranjanraj/ecomstore/pkg/bind"
	"github.com/shashiranjanraj/ecomstore/pkg/gateway"
	"github.com/shashiranjanraj/ecomstore/pkg/logger"
	"github.com/shashiranjanraj/ecomstore/pkg/middleware"
	"github.com/shashiranjanraj/ecomstore/pkg/response"
)

// PaymentController serves the gateway token and checkout endpoints.
type PaymentController struct {
	checkout *services.CheckoutService
}

func NewPaymentController(checkout *services.CheckoutService) *PaymentController {
	return &PaymentController{checkout: checkout}
}

// Token handles GET /product/braintree/get-token. Public: the
// storefront needs the client token before the buyer signs in.
func (c *PaymentController) Token(w http.ResponseWriter, r *http.Request) {
	token, err := c.checkout.ClientToken(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("client token failed", "error", err)
		response.ServerError(w, "Could not reach payment gateway")
		return
	}
	response.OK(w, "", response.M{"clientToken": token})
}

type cartItem struct {
	ID    string `json:"_id"   validate:"required"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type paymentInput struct {
	Cart  []cartItem `json:"cart"`
	Nonce string     `json:"nonce" validate:"required"`
}

// Payment handles POST /product/braintree/payment: totals the cart,
// settles through the gateway, records the order.
func (c *PaymentController) Payment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r.Context())

	var in paymentInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	cart := make([]models.LineItem, 0, len(in.Cart))
	for _, it := range in.Cart {
		pid, err := primitive.ObjectIDFromHex(it.ID)
		if err != nil {
			response.Fail(w, http.StatusBadRequest, "Invalid product id in cart")
			return
		}
		cart = append(cart, models.LineItem{ProductID: pid, Name: it.Name, Price: it.Price})
	}

	order, err := c.checkout.Checkout(r.Context(), userID, cart, in.Nonce)
	var payErr *gateway.PaymentError
	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrNegativePrice),
		errors.Is(err, services.ErrTotalOverflow):
		response.Fail(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &payErr):
		logger.WithCtx(r.Context()).Warn("payment declined",
			"user_id", userID, "status", payErr.Status)
		response.Fail(w, http.StatusPaymentRequired,
			"Payment failed, try again. If the amount was deducted from your account let us know.")
	case err != nil:
		logger.WithCtx(r.Context()).Error("checkout failed", "user_id", userID, "error", err)
		response.ServerError(w, "Payment could not be processed")
	default:
		response.OK(w, "Payment Completed Successfully", response.M{
			"ok":      true,
			"payment": order.Payment,
		})
	}
}
