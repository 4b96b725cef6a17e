package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo points at a product image on a storage disk. The bytes themselves
// live on the disk, not in the document.
type Photo struct {
	Disk        string `bson:"disk"         json:"-"`
	Path        string `bson:"path"         json:"-"`
	ContentType string `bson:"contentType"  json:"contentType,omitempty"`
}

// Product is a catalogue entry. Price is in minor currency units (paise).
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"      json:"_id"`
	Name        string             `bson:"name"               json:"name"`
	Slug        string             `bson:"slug"               json:"slug"`
	Description string             `bson:"description"        json:"description"`
	Price       int64              `bson:"price"              json:"price"`
	Category    primitive.ObjectID `bson:"category,omitempty" json:"category"`
	Quantity    int                `bson:"quantity"           json:"quantity"`
	Shipping    bool               `bson:"shipping"           json:"shipping"`
	Photo       *Photo             `bson:"photo,omitempty"    json:"photo,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"          json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"          json:"updatedAt"`
}

// Category groups products. Slug is unique.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name"          json:"name"`
	Slug      string             `bson:"slug"          json:"slug"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}
