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

// ProductFilter narrows List queries. Zero values mean "no filter".
type ProductFilter struct {
	Categories []primitive.ObjectID
	PriceMin   int64
	PriceMax   int64 // 0 means unbounded
	Keyword    string
	Page       int
	PerPage    int
	Sort       string // "createdAt", "-createdAt", "price", "-price", "name"
}

// ProductRepository persists the catalog in the products collection.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection("products")}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	set["updatedAt"] = time.Now().UTC()
	var p models.Product
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDs returns the products matching any of the given ids, in no
// particular order. Missing ids are simply absent from the result.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var out []models.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns a filtered, sorted, paginated product page plus the
// total count matching the filter.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	query := bson.M{}
	if len(f.Categories) > 0 {
		query["category"] = bson.M{"$in": f.Categories}
	}
	if f.PriceMin > 0 || f.PriceMax > 0 {
		price := bson.M{}
		if f.PriceMin > 0 {
			price["$gte"] = f.PriceMin
		}
		if f.PriceMax > 0 {
			price["$lte"] = f.PriceMax
		}
		query["price"] = price
	}
	if f.Keyword != "" {
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": f.Keyword, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": f.Keyword, "$options": "i"}},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 12
	}

	opts := options.Find().
		SetSort(sortSpec(f.Sort)).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	var out []models.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Related returns up to limit products sharing a category, excluding
// the product itself.
func (r *ProductRepository) Related(ctx context.Context, productID, categoryID primitive.ObjectID, limit int64) ([]models.Product, error) {
	if limit <= 0 {
		limit = 3
	}
	cur, err := r.col.Find(ctx,
		bson.M{"category": categoryID, "_id": bson.M{"$ne": productID}},
		options.Find().SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var out []models.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByCategory returns all products in one category, newest first.
func (r *ProductRepository) ByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"category": categoryID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var out []models.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func sortSpec(s string) bson.D {
	switch s {
	case "price":
		return bson.D{{Key: "price", Value: 1}}
	case "-price":
		return bson.D{{Key: "price", Value: -1}}
	case "name":
		return bson.D{{Key: "name", Value: 1}}
	case "createdAt":
		return bson.D{{Key: "createdAt", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
