// Package routes wires controllers, middleware and the route table.
package routes

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/ecomstore/app/controllers"
	"github.com/shashiranjanraj/ecomstore/pkg/metrics"
	"github.com/shashiranjanraj/ecomstore/pkg/middleware"
	"github.com/shashiranjanraj/ecomstore/pkg/reqid"
	"github.com/shashiranjanraj/ecomstore/pkg/response"
	"github.com/shashiranjanraj/ecomstore/pkg/router"
)

// Controllers bundles everything Register mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Payment  *controllers.PaymentController
	Product  *controllers.ProductController
	Category *controllers.CategoryController

	// FindRole backs the admin gate; it loads role tiers from the user
	// store.
	FindRole middleware.RoleFinder
}

// Register builds the full route table on r.
func Register(r *router.Router, c Controllers) {
	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions()),
		metrics.Middleware(),
	)

	r.HandleFunc("/metrics", metrics.Handler().ServeHTTP)
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, "ok", nil)
	})

	signedIn := router.Middleware(middleware.RequireSignIn)
	admin := router.Middleware(middleware.IsAdmin(c.FindRole))

	api := r.Group("/api/v1")

	// Credential endpoints get a per-IP rate limit on top of the global
	// chain.
	throttle := middleware.RateLimit(20, time.Minute)

	authGrp := api.Group("/auth")
	authGrp.Post("/register", "auth.register", c.Auth.Register, throttle)
	authGrp.Post("/login", "auth.login", c.Auth.Login, throttle)
	authGrp.Post("/forgot-password", "auth.forgot", c.Auth.ForgotPassword, throttle)
	authGrp.Get("/test", "auth.test", c.Auth.Check, signedIn, admin)
	authGrp.Get("/user-auth", "auth.user-auth", c.Auth.Check, signedIn)
	authGrp.Get("/admin-auth", "auth.admin-auth", c.Auth.Check, signedIn, admin)
	authGrp.Put("/profile", "auth.profile", c.Auth.UpdateProfile, signedIn)
	authGrp.Get("/orders", "auth.orders", c.Auth.Orders, signedIn)
	authGrp.Get("/all-orders", "auth.all-orders", c.Auth.AllOrders, signedIn, admin)
	authGrp.Put("/order-status/{orderId}", "auth.order-status", c.Auth.OrderStatus, signedIn, admin)

	product := api.Group("/product")
	product.Post("/create-product", "product.create", c.Product.Create, signedIn, admin)
	product.Put("/update-product/{pid}", "product.update", c.Product.Update, signedIn, admin)
	product.Delete("/delete-product/{pid}", "product.delete", c.Product.Delete, signedIn, admin)
	product.Get("/get-product", "product.list", c.Product.List)
	product.Get("/get-product/{slug}", "product.get", c.Product.Get)
	product.Get("/product-photo/{pid}", "product.photo", c.Product.Photo)
	product.Post("/product-filters", "product.filters", c.Product.Filters)
	product.Get("/product-count", "product.count", c.Product.Count)
	product.Get("/product-list/{page}", "product.page", c.Product.Page)
	product.Get("/search/{keyword}", "product.search", c.Product.Search)
	product.Get("/related-product/{pid}/{cid}", "product.related", c.Product.Related)
	product.Get("/product-category/{slug}", "product.by-category", c.Product.ByCategory)
	product.Get("/braintree/get-token", "payment.token", c.Payment.Token)
	product.Post("/braintree/payment", "payment.checkout", c.Payment.Payment, signedIn)

	category := api.Group("/category")
	category.Post("/create-category", "category.create", c.Category.Create, signedIn, admin)
	category.Put("/update-category/{id}", "category.update", c.Category.Update, signedIn, admin)
	category.Delete("/delete-category/{id}", "category.delete", c.Category.Delete, signedIn, admin)
	category.Get("/get-category", "category.list", c.Category.List)
	category.Get("/single-category/{slug}", "category.get", c.Category.Get)
}
