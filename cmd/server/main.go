// Command server runs the ecomstore API and its maintenance tasks.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/ecomstore/app/jobs"
	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/app/repositories"
	"github.com/shashiranjanraj/ecomstore/app/services"
	"github.com/shashiranjanraj/ecomstore/config"
	"github.com/shashiranjanraj/ecomstore/internal/server"
	"github.com/shashiranjanraj/ecomstore/pkg/auth"
	"github.com/shashiranjanraj/ecomstore/pkg/database"
	"github.com/shashiranjanraj/ecomstore/pkg/logger"
)

func main() {
	root := &cobra.Command{
		Use:   "ecomstore",
		Short: "ecomstore API server",
	}
	root.AddCommand(serveCmd(), seedCmd(), reconcileCmd(), routeListCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := server.New()
			if err != nil {
				return err
			}
			return s.Run()
		},
	}
}

// connectStores is the shared boot for the offline commands.
func connectStores() error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return database.EnsureIndexes(ctx)
}

func seedCmd() *cobra.Command {
	var adminEmail, adminPassword string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and a starter catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connectStores(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			db := database.DB()
			users := repositories.NewUserRepository(db)
			categories := repositories.NewCategoryRepository(db)

			hash, err := auth.HashPassword(adminPassword)
			if err != nil {
				return err
			}
			answerHash, err := auth.HashPassword("seed")
			if err != nil {
				return err
			}
			admin := &models.User{
				Name:     "Admin",
				Email:    adminEmail,
				Password: hash,
				Phone:    "0000000000",
				Answer:   answerHash,
				Role:     models.RoleAdmin,
			}
			switch err := users.Create(ctx, admin); err {
			case nil:
				logger.Info("seed: admin created", "email", adminEmail)
			case repositories.ErrDuplicate:
				logger.Info("seed: admin already exists", "email", adminEmail)
			default:
				return err
			}

			for _, name := range []string{"Electronics", "Books", "Clothing"} {
				c := &models.Category{Name: name, Slug: services.Slugify(name)}
				if err := categories.Create(ctx, c); err != nil && err != repositories.ErrDuplicate {
					return err
				}
			}
			logger.Info("seed: done")
			return database.Disconnect(ctx)
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@ecomstore.local", "admin account email")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "changeme123", "admin account password")
	return cmd
}

func reconcileCmd() *cobra.Command {
	var workers int
	var limit int64

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Replay parked settlements from the payment outbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connectStores(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			db := database.DB()
			jobs.Init(repositories.NewOrderRepository(db), repositories.NewOutboxRepository(db))

			n, err := jobs.SweepOutboxConcurrent(ctx, limit, workers)
			if err != nil {
				return err
			}
			fmt.Printf("reconcile: %d settlement(s) replayed\n", n)
			return database.Disconnect(ctx)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent replay workers")
	cmd.Flags().Int64Var(&limit, "limit", 500, "maximum entries to replay")
	return cmd
}

func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "Print the registered route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := server.New()
			if err != nil {
				return err
			}
			for _, rt := range s.Routes() {
				fmt.Printf("%-7s %-55s %s\n", rt.Method, rt.Path, rt.Name)
			}
			return nil
		},
	}
}
