// Package server boots the application: configuration, stores, payment
// gateway, background workers and the HTTP listener.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/ecomstore/app/controllers"
	"github.com/shashiranjanraj/ecomstore/app/jobs"
	"github.com/shashiranjanraj/ecomstore/app/repositories"
	"github.com/shashiranjanraj/ecomstore/app/routes"
	"github.com/shashiranjanraj/ecomstore/app/services"
	"github.com/shashiranjanraj/ecomstore/config"
	"github.com/shashiranjanraj/ecomstore/pkg/cache"
	"github.com/shashiranjanraj/ecomstore/pkg/database"
	"github.com/shashiranjanraj/ecomstore/pkg/gateway"
	"github.com/shashiranjanraj/ecomstore/pkg/logger"
	"github.com/shashiranjanraj/ecomstore/pkg/queue"
	"github.com/shashiranjanraj/ecomstore/pkg/router"
	"github.com/shashiranjanraj/ecomstore/pkg/schedule"
	"github.com/shashiranjanraj/ecomstore/pkg/storage"
)

// Server owns the wired application.
type Server struct {
	router *router.Router
	http   *http.Server

	logClose func()
}

// New connects every backing service and builds the route table.
func New() (*Server, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}

	if err := database.Connect(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, cache disabled", "error", err)
	}
	storage.Connect()

	s := &Server{logClose: func() {}}

	// Production log lines also land in the logs collection, batched.
	if config.AppEnv() == "production" || config.AppEnv() == "prod" {
		mh := logger.NewMongoHandler(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
			database.DB().Collection("logs"),
		)
		logger.SetHandler(mh)
		s.logClose = mh.Close
	}

	db := database.DB()
	users := repositories.NewUserRepository(db)
	products := repositories.NewProductRepository(db)
	categories := repositories.NewCategoryRepository(db)
	orders := repositories.NewOrderRepository(db)
	outbox := repositories.NewOutboxRepository(db)

	gw, err := gateway.NewBraintree()
	if err != nil {
		return nil, err
	}

	jobs.Init(orders, outbox)
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	dispatch := func(txID string) error {
		return queue.Dispatch(&jobs.RecordOrderJob{TransactionID: txID})
	}

	authSvc := services.NewAuthService(users)
	orderSvc := services.NewOrderService(orders)
	checkoutSvc := services.NewCheckoutService(gw, orders, outbox, users, dispatch)
	catalogSvc := services.NewCatalogService(products, categories)

	s.router = router.New()
	routes.Register(s.router, routes.Controllers{
		Auth:     controllers.NewAuthController(authSvc, orderSvc),
		Payment:  controllers.NewPaymentController(checkoutSvc),
		Product:  controllers.NewProductController(catalogSvc),
		Category: controllers.NewCategoryController(catalogSvc),
		FindRole: users.Role,
	})

	s.http = &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Routes exposes the named route table for the route:list command.
func (s *Server) Routes() []router.RouteInfo { return s.router.Routes() }

// Run starts the workers, the outbox sweep and the HTTP listener, then
// blocks until SIGINT/SIGTERM and drains gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, 4)

	schedule.Every(5 * time.Minute).Name("outbox.sweep").Run(func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if n, err := jobs.SweepOutbox(sweepCtx, 100); err != nil {
			logger.Error("outbox sweep failed", "error", err)
		} else if n > 0 {
			logger.Info("outbox sweep replayed settlements", "count", n)
		}
	})
	schedule.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", s.http.Addr, "env", config.AppEnv())
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := s.http.Shutdown(shutdownCtx)
	s.logClose()
	if derr := database.Disconnect(shutdownCtx); derr != nil && err == nil {
		err = derr
	}
	return err
}
