package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. The zero value of a freshly created order is
// StatusNotProcessed.
const (
	StatusNotProcessed = "Not Processed"
	StatusProcessing   = "Processing"
	StatusShipped      = "Shipped"
	StatusDelivered    = "Delivered"
	StatusCancelled    = "Cancelled"
)

// OrderStatuses lists every valid status value.
var OrderStatuses = []string{
	StatusNotProcessed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// LineItem is one cart entry frozen at checkout time. Price is the minor-unit
// price the buyer was charged, independent of later catalogue changes.
type LineItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"_id"`
	Name      string             `bson:"name"      json:"name"`
	Price     int64              `bson:"price"     json:"price"`
}

// PaymentResult is the settled (or failed) transaction as reported by the
// payment processor. TransactionID is unique across orders.
type PaymentResult struct {
	TransactionID string `bson:"transactionId" json:"transaction_id"`
	Status        string `bson:"status"        json:"status"`
	Amount        int64  `bson:"amount"        json:"amount"`
	Gateway       string `bson:"gateway"       json:"gateway"`
}

// Order links a buyer to a cart snapshot and its payment result.
// An order only ever exists for a settled transaction.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Products  []LineItem         `bson:"products"      json:"products"`
	Payment   PaymentResult      `bson:"payment"       json:"payment"`
	Buyer     primitive.ObjectID `bson:"buyer"         json:"buyer"`
	BuyerName string             `bson:"buyerName"     json:"buyer_name,omitempty"`
	Status    string             `bson:"status"        json:"status"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
}

// OutboxEntry records a settled transaction whose order write failed.
// It is replayed by the queue worker and the reconcile sweep until an
// order with the same transaction id exists.
type OutboxEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TransactionID string             `bson:"transactionId" json:"transaction_id"`
	Buyer         primitive.ObjectID `bson:"buyer"         json:"buyer"`
	BuyerName     string             `bson:"buyerName"     json:"buyer_name,omitempty"`
	Products      []LineItem         `bson:"products"      json:"products"`
	Payment       PaymentResult      `bson:"payment"       json:"payment"`
	Recorded      bool               `bson:"recorded"      json:"recorded"`
	CreatedAt     time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"     json:"updatedAt"`
}
