// Package controllers holds the HTTP handlers. Controllers decode and
// validate input, call a service, and shape the response envelope; no
// business rules live here.
package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/ecomstore/app/services"
	"github.com/shashiranjanraj/ecomstore/pkg/bind"
	"github.com/shashiranjanraj/ecomstore/pkg/logger"
	"github.com/shashiranjanraj/ecomstore/pkg/middleware"
	"github.com/shashiranjanraj/ecomstore/pkg/response"
)

// AuthController serves registration, login, password reset, profile
// updates and the order views of the signed-in account.
type AuthController struct {
	auth   *services.AuthService
	orders *services.OrderService
}

func NewAuthController(auth *services.AuthService, orders *services.OrderService) *AuthController {
	return &AuthController{auth: auth, orders: orders}
}

// Register handles POST /auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	u, err := c.auth.Register(r.Context(), in)
	if errors.Is(err, services.ErrEmailTaken) {
		// The storefront treats this as a soft redirect to login.
		response.Fail(w, http.StatusOK, "Already Register please login")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("register failed", "error", err)
		response.ServerError(w, "Error in Registration")
		return
	}
	response.Created(w, "User Register Successfully", response.M{"user": u.Public()})
}

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login. Unknown email and wrong password get
// the same answer so the endpoint does not confirm which emails exist.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	u, token, err := c.auth.Login(r.Context(), in.Email, in.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		response.Unauthorized(w, "Invalid email or password")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.ServerError(w, "Error in login")
		return
	}
	response.OK(w, "login successfully", response.M{"user": u.Public(), "token": token})
}

type forgotInput struct {
	Email       string `json:"email"       validate:"required,email"`
	Answer      string `json:"answer"      validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ForgotPassword handles POST /auth/forgot-password.
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in forgotInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	err = c.auth.ForgotPassword(r.Context(), in.Email, in.Answer, in.NewPassword)
	if errors.Is(err, services.ErrWrongAnswer) {
		response.NotFound(w, "Wrong Email Or Answer")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("password reset failed", "error", err)
		response.ServerError(w, "Something went wrong")
		return
	}
	response.OK(w, "Password Reset Successfully", nil)
}

// UpdateProfile handles PUT /auth/profile.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r.Context())

	var in services.ProfileInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	u, err := c.auth.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		logger.WithCtx(r.Context()).Error("profile update failed", "user_id", userID, "error", err)
		response.Fail(w, http.StatusBadRequest, "Error While Update profile")
		return
	}
	response.OK(w, "Profile Updated Successfully", response.M{"updatedUser": u.Public()})
}

// Check handles the auth check endpoints. Reaching the handler means
// the middleware chain already admitted the caller.
func (c *AuthController) Check(w http.ResponseWriter, r *http.Request) {
	response.OK(w, "", response.M{"ok": true})
}

// Orders handles GET /auth/orders: the signed-in buyer's own orders.
func (c *AuthController) Orders(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r.Context())

	out, err := c.orders.ListForBuyer(r.Context(), userID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("list orders failed", "user_id", userID, "error", err)
		response.ServerError(w, "Error While Geting Orders")
		return
	}
	response.OK(w, "", response.M{"orders": out})
}

// AllOrders handles GET /auth/all-orders. Admin only.
func (c *AuthController) AllOrders(w http.ResponseWriter, r *http.Request) {
	out, err := c.orders.ListAll(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list all orders failed", "error", err)
		response.ServerError(w, "Error While Geting Orders")
		return
	}
	response.OK(w, "", response.M{"orders": out})
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

// OrderStatus handles PUT /auth/order-status/{orderId}. Admin only.
func (c *AuthController) OrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var in statusInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	o, err := c.orders.UpdateStatus(r.Context(), orderID, in.Status)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		response.NotFound(w, "Order not found")
	case errors.Is(err, services.ErrBadStatus), errors.Is(err, services.ErrBadTransition):
		response.Fail(w, http.StatusBadRequest, err.Error())
	case err != nil:
		logger.WithCtx(r.Context()).Error("order status update failed", "order_id", orderID, "error", err)
		response.ServerError(w, "Error While Updateing Order")
	default:
		response.OK(w, "", response.M{"order": o})
	}
}
