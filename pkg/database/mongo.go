// Package database owns the MongoDB connection shared by the whole process.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/ecomstore/config"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// Connect opens the Mongo client and verifies the connection with a ping.
// Returns an error instead of calling log.Fatal so the caller can shut
// down gracefully.
func Connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	var err error
	client, err = mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	db = client.Database(config.MongoDatabase())
	return nil
}

// DB returns the application database handle. Connect must have been called.
func DB() *mongo.Database { return db }

// Disconnect closes the client.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the data model relies on. Idempotent;
// run once at boot.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{"users", mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		{"categories", mongo.IndexModel{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		{"products", mongo.IndexModel{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		{"products", mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}}}},
		{"orders", mongo.IndexModel{Keys: bson.D{{Key: "payment.transactionId", Value: 1}}, Options: unique}},
		{"orders", mongo.IndexModel{Keys: bson.D{{Key: "buyer", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{"payment_outbox", mongo.IndexModel{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: unique}},
		{"payment_outbox", mongo.IndexModel{Keys: bson.D{{Key: "recorded", Value: 1}}}},
	}

	for _, s := range specs {
		if _, err := db.Collection(s.collection).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("database: index on %s: %w", s.collection, err)
		}
	}
	return nil
}
