package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/ecomstore/app/models"
)

// OrderRepository persists the orders collection.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection("orders")}
}

// Record upserts an order keyed on the gateway transaction id, so a
// replayed settlement never creates a second order. $setOnInsert keeps
// the first write authoritative.
func (r *OrderRepository) Record(ctx context.Context, o *models.Order) error {
	if o.Status == "" {
		o.Status = models.StatusNotProcessed
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"payment.transactionId": o.Payment.TransactionID},
		bson.M{"$setOnInsert": bson.M{
			"products":  o.Products,
			"payment":   o.Payment,
			"buyer":     o.Buyer,
			"buyerName": o.BuyerName,
			"status":    o.Status,
			"createdAt": o.CreatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// ListForBuyer returns one buyer's orders, newest first.
func (r *OrderRepository) ListForBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.Order, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"buyer": buyer},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var out []models.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every order, newest first. Admin only.
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var out []models.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID returns one order.
func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ExistsByTransaction reports whether an order for the transaction id
// is already recorded.
func (r *OrderRepository) ExistsByTransaction(ctx context.Context, txID string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"payment.transactionId": txID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateStatus sets the status of one order and returns the updated
// document. Returns ErrNotFound when the order does not exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	var o models.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
