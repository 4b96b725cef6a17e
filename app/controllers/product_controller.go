package controllers

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/app/repositories"
	"github.com/shashiranjanraj/ecomstore/app/services"
	"github.com/shashiranjanraj/ecomstore/pkg/bind"
	"github.com/shashiranjanraj/ecomstore/pkg/logger"
	"github.com/shashiranjanraj/ecomstore/pkg/response"
	"github.com/shashiranjanraj/ecomstore/pkg/storage"
	"github.com/shashiranjanraj/ecomstore/pkg/validate"
)

// maxPhotoBytes caps an uploaded product photo at 1 MB.
const maxPhotoBytes = 1 << 20

// ProductController serves the product CRUD and browse endpoints.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// parseProductForm reads the multipart create/update payload. The photo
// part is optional; when present it is stored on the default disk and
// referenced from the returned input.
func parseProductForm(r *http.Request) (services.ProductInput, map[string]string, error) {
	var in services.ProductInput

	if err := r.ParseMultipartForm(4 << 20); err != nil {
		return in, nil, err
	}

	in.Name = r.FormValue("name")
	in.Description = r.FormValue("description")
	in.Category = r.FormValue("category")
	in.Price, _ = strconv.ParseInt(r.FormValue("price"), 10, 64)
	in.Quantity, _ = strconv.Atoi(r.FormValue("quantity"))
	in.Shipping = r.FormValue("shipping") == "1" || r.FormValue("shipping") == "true"

	if errs := validate.Struct(&in); len(errs) > 0 {
		return in, errs, nil
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, err
	}
	defer file.Close()

	if header.Size > maxPhotoBytes {
		return in, map[string]string{"photo": "photo should be less then 1mb"}, nil
	}
	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		return in, nil, err
	}

	disk := storage.Default()
	photoPath := "products/" + primitive.NewObjectID().Hex() + path.Ext(header.Filename)
	if err := storage.Use(disk).Put(photoPath, data); err != nil {
		return in, nil, err
	}
	in.Photo = &models.Photo{
		Disk:        disk,
		Path:        photoPath,
		ContentType: header.Header.Get("Content-Type"),
	}
	return in, nil, nil
}

// Create handles POST /product/create-product. Admin only.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	in, errs, err := parseProductForm(r)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product form parse failed", "error", err)
		response.Fail(w, http.StatusBadRequest, "Could not read product form")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.catalog.CreateProduct(r.Context(), in)
	if errors.Is(err, services.ErrSlugTaken) {
		response.Fail(w, http.StatusConflict, "A product with this name already exists")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("product create failed", "error", err)
		response.ServerError(w, "Error in crearing product")
		return
	}
	response.Created(w, "Product Created Successfully", response.M{"products": p})
}

// Update handles PUT /product/update-product/{pid}. Admin only.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")

	in, errs, err := parseProductForm(r)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product form parse failed", "error", err)
		response.Fail(w, http.StatusBadRequest, "Could not read product form")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.catalog.UpdateProduct(r.Context(), pid, in)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w, "Product not found")
	case errors.Is(err, services.ErrSlugTaken):
		response.Fail(w, http.StatusConflict, "A product with this name already exists")
	case err != nil:
		logger.WithCtx(r.Context()).Error("product update failed", "pid", pid, "error", err)
		response.ServerError(w, "Error in Updte product")
	default:
		response.OK(w, "Product Updated Successfully", response.M{"products": p})
	}
}

// Delete handles DELETE /product/delete-product/{pid}. Admin only.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")

	err := c.catalog.DeleteProduct(r.Context(), pid)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Product not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("product delete failed", "pid", pid, "error", err)
		response.ServerError(w, "Error while deleting product")
		return
	}
	response.OK(w, "Product Deleted successfully", nil)
}

// List handles GET /product/get-product.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.ListProducts(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("product list failed", "error", err)
		response.ServerError(w, "Error in getting products")
		return
	}
	response.OK(w, "ALlProducts", response.M{
		"counTotal": len(products),
		"products":  products,
	})
}

// Get handles GET /product/get-product/{slug}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := c.catalog.ProductBySlug(r.Context(), slug)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Product not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("product get failed", "slug", slug, "error", err)
		response.ServerError(w, "Eror while getitng single product")
		return
	}
	response.OK(w, "Single Product Fetched", response.M{"product": p})
}

// Photo handles GET /product/product-photo/{pid}: streams the image
// bytes from the storage disk with the stored content type.
func (c *ProductController) Photo(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")

	p, err := c.catalog.ProductByID(r.Context(), pid)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && p.Photo == nil) {
		response.NotFound(w, "Photo not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("product photo lookup failed", "pid", pid, "error", err)
		response.ServerError(w, "Erorr while getting photo")
		return
	}

	rc, err := storage.Use(p.Photo.Disk).GetStream(p.Photo.Path)
	if err != nil {
		logger.WithCtx(r.Context()).Error("photo read failed", "pid", pid, "error", err)
		response.NotFound(w, "Photo not found")
		return
	}
	defer rc.Close()

	if p.Photo.ContentType != "" {
		w.Header().Set("Content-Type", p.Photo.ContentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	io.Copy(w, rc) //nolint:errcheck
}

type filterInput struct {
	Checked []string `json:"checked"`
	Radio   []int64  `json:"radio"`
}

// Filters handles POST /product/product-filters: category checkboxes
// plus a [min,max] price radio range.
func (c *ProductController) Filters(w http.ResponseWriter, r *http.Request) {
	var in filterInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	var priceMin, priceMax int64
	if len(in.Radio) == 2 {
		priceMin, priceMax = in.Radio[0], in.Radio[1]
	}

	products, err := c.catalog.FilterProducts(r.Context(), in.Checked, priceMin, priceMax)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product filter failed", "error", err)
		response.Fail(w, http.StatusBadRequest, "Error WHile Filtering Products")
		return
	}
	response.OK(w, "", response.M{"products": products})
}

// Count handles GET /product/product-count.
func (c *ProductController) Count(w http.ResponseWriter, r *http.Request) {
	total, err := c.catalog.CountProducts(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("product count failed", "error", err)
		response.Fail(w, http.StatusBadRequest, "Error in product count")
		return
	}
	response.OK(w, "", response.M{"total": total})
}

// Page handles GET /product/product-list/{page}.
func (c *ProductController) Page(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		page = 1
	}

	products, err := c.catalog.ProductPage(r.Context(), page)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product page failed", "page", page, "error", err)
		response.Fail(w, http.StatusBadRequest, "error in per page ctrl")
		return
	}
	response.OK(w, "", response.M{"products": products})
}

// Search handles GET /product/search/{keyword}.
func (c *ProductController) Search(w http.ResponseWriter, r *http.Request) {
	keyword := chi.URLParam(r, "keyword")

	products, err := c.catalog.SearchProducts(r.Context(), keyword)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product search failed", "keyword", keyword, "error", err)
		response.Fail(w, http.StatusBadRequest, "Error In Search Product API")
		return
	}
	response.OK(w, "", response.M{"results": products})
}

// Related handles GET /product/related-product/{pid}/{cid}.
func (c *ProductController) Related(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")
	cid := chi.URLParam(r, "cid")

	products, err := c.catalog.RelatedProducts(r.Context(), pid, cid)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Product not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("related products failed", "pid", pid, "cid", cid, "error", err)
		response.Fail(w, http.StatusBadRequest, "error while geting related product")
		return
	}
	response.OK(w, "", response.M{"products": products})
}

// ByCategory handles GET /product/product-category/{slug}.
func (c *ProductController) ByCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, products, err := c.catalog.ProductsByCategorySlug(r.Context(), slug)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Category not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("products by category failed", "slug", slug, "error", err)
		response.Fail(w, http.StatusBadRequest, "Error While Getting products")
		return
	}
	response.OK(w, "", response.M{"category": category, "products": products})
}
