package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/app/repositories"
	"github.com/shashiranjanraj/ecomstore/pkg/cache"
)

// ErrSlugTaken is returned when a product or category name collides
// with an existing slug.
var ErrSlugTaken = errors.New("name already in use")

const (
	productsCacheKey   = "catalog:products"
	categoriesCacheKey = "catalog:categories"
	catalogCacheTTL    = 2 * time.Minute
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses everything outside [a-z0-9]
// to single dashes.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// CatalogService drives product and category CRUD. List reads go
// through the Redis cache; every write invalidates it.
type CatalogService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
}

func NewCatalogService(products *repositories.ProductRepository, categories *repositories.CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

// ProductInput carries the fields a product create or update accepts.
type ProductInput struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Price       int64  `validate:"gte=0"`
	Category    string `validate:"required"`
	Quantity    int    `validate:"gte=0"`
	Shipping    bool
	Photo       *models.Photo
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	catID, err := primitive.ObjectIDFromHex(in.Category)
	if err != nil {
		return nil, fmt.Errorf("catalog: bad category id: %w", err)
	}
	p := &models.Product{
		Name:        in.Name,
		Slug:        Slugify(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    catID,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
		Photo:       in.Photo,
	}
	err = s.products.Create(ctx, p)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, err
	}
	cache.Del(productsCacheKey)
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	catID, err := primitive.ObjectIDFromHex(in.Category)
	if err != nil {
		return nil, fmt.Errorf("catalog: bad category id: %w", err)
	}
	set := bson.M{
		"name":        in.Name,
		"slug":        Slugify(in.Name),
		"description": in.Description,
		"price":       in.Price,
		"category":    catID,
		"quantity":    in.Quantity,
		"shipping":    in.Shipping,
	}
	if in.Photo != nil {
		set["photo"] = in.Photo
	}
	p, err := s.products.Update(ctx, oid, set)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, err
	}
	cache.Del(productsCacheKey)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	if err := s.products.Delete(ctx, oid); err != nil {
		return err
	}
	cache.Del(productsCacheKey)
	return nil
}

// ListProducts returns the storefront list: newest first, capped at 12,
// served from cache when warm.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if cache.Get(productsCacheKey, &cached) {
		return cached, nil
	}
	out, _, err := s.products.List(ctx, repositories.ProductFilter{PerPage: 12})
	if err != nil {
		return nil, err
	}
	cache.Set(productsCacheKey, out, catalogCacheTTL)
	return out, nil
}

func (s *CatalogService) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

func (s *CatalogService) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	return s.products.FindByID(ctx, oid)
}

// FilterProducts applies category and price-range filters.
func (s *CatalogService) FilterProducts(ctx context.Context, categoryIDs []string, priceMin, priceMax int64) ([]models.Product, error) {
	var cats []primitive.ObjectID
	for _, id := range categoryIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		cats = append(cats, oid)
	}
	out, _, err := s.products.List(ctx, repositories.ProductFilter{
		Categories: cats,
		PriceMin:   priceMin,
		PriceMax:   priceMax,
		PerPage:    100,
	})
	return out, err
}

// CountProducts returns the catalogue size.
func (s *CatalogService) CountProducts(ctx context.Context) (int64, error) {
	_, total, err := s.products.List(ctx, repositories.ProductFilter{PerPage: 1})
	return total, err
}

// ProductPage returns one page of products, 6 per page, newest first.
func (s *CatalogService) ProductPage(ctx context.Context, page int) ([]models.Product, error) {
	out, _, err := s.products.List(ctx, repositories.ProductFilter{Page: page, PerPage: 6})
	return out, err
}

// SearchProducts matches keyword against name and description.
func (s *CatalogService) SearchProducts(ctx context.Context, keyword string) ([]models.Product, error) {
	out, _, err := s.products.List(ctx, repositories.ProductFilter{Keyword: keyword, PerPage: 100})
	return out, err
}

// RelatedProducts returns up to three products in the same category.
func (s *CatalogService) RelatedProducts(ctx context.Context, productID, categoryID string) ([]models.Product, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	cid, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	return s.products.Related(ctx, pid, cid, 3)
}

// ProductsByCategorySlug resolves a category by slug and returns it
// with its products.
func (s *CatalogService) ProductsByCategorySlug(ctx context.Context, slug string) (*models.Category, []models.Product, error) {
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.products.ByCategory(ctx, c.ID)
	if err != nil {
		return nil, nil, err
	}
	return c, products, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	c := &models.Category{Name: name, Slug: Slugify(name)}
	err := s.categories.Create(ctx, c)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, err
	}
	cache.Del(categoriesCacheKey)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	c, err := s.categories.Update(ctx, oid, name, Slugify(name))
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, err
	}
	cache.Del(categoriesCacheKey)
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	if err := s.categories.Delete(ctx, oid); err != nil {
		return err
	}
	cache.Del(categoriesCacheKey)
	return nil
}

// Categories returns all categories, cached.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	var cached []models.Category
	if cache.Get(categoriesCacheKey, &cached) {
		return cached, nil
	}
	out, err := s.categories.All(ctx)
	if err != nil {
		return nil, err
	}
	cache.Set(categoriesCacheKey, out, catalogCacheTTL)
	return out, nil
}

func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categories.FindBySlug(ctx, slug)
}
