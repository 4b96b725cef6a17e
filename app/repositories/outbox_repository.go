package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/ecomstore/app/models"
)

// OutboxRepository persists the payment_outbox collection. Entries are
// settled transactions whose order write failed and must be replayed.
type OutboxRepository struct {
	col *mongo.Collection
}

func NewOutboxRepository(db *mongo.Database) *OutboxRepository {
	return &OutboxRepository{col: db.Collection("payment_outbox")}
}

// Save upserts an entry keyed on transaction id. Safe to call more
// than once for the same settlement.
func (r *OutboxRepository) Save(ctx context.Context, e *models.OutboxEntry) error {
	now := time.Now().UTC()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"transactionId": e.TransactionID},
		bson.M{
			"$setOnInsert": bson.M{
				"buyer":     e.Buyer,
				"buyerName": e.BuyerName,
				"products":  e.Products,
				"payment":   e.Payment,
				"recorded":  false,
				"createdAt": now,
			},
			"$set": bson.M{"updatedAt": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Pending returns up to limit unrecorded entries, oldest first.
func (r *OutboxRepository) Pending(ctx context.Context, limit int64) ([]models.OutboxEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	cur, err := r.col.Find(ctx,
		bson.M{"recorded": false},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	var out []models.OutboxEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingCount counts unrecorded entries, for the outbox gauge.
func (r *OutboxRepository) PendingCount(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"recorded": false})
}

// MarkRecorded flags one entry as replayed.
func (r *OutboxRepository) MarkRecorded(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"recorded": true, "updatedAt": time.Now().UTC()}},
	)
	return err
}

// FindByTransaction returns the entry for one transaction id, or nil.
func (r *OutboxRepository) FindByTransaction(ctx context.Context, txID string) (*models.OutboxEntry, error) {
	var e models.OutboxEntry
	err := r.col.FindOne(ctx, bson.M{"transactionId": txID}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
