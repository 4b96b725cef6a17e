package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/ecomstore/app/repositories"
	"github.com/shashiranjanraj/ecomstore/app/services"
	"github.com/shashiranjanraj/ecomstore/pkg/bind"
	"github.com/shashiranjanraj/ecomstore/pkg/logger"
	"github.com/shashiranjanraj/ecomstore/pkg/response"
)

// CategoryController serves the category CRUD endpoints.
type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

type categoryInput struct {
	Name string `json:"name" validate:"required"`
}

// Create handles POST /category/create-category. Admin only.
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	cat, err := c.catalog.CreateCategory(r.Context(), in.Name)
	if errors.Is(err, services.ErrSlugTaken) {
		response.Fail(w, http.StatusOK, "Category Already Exisits")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("category create failed", "error", err)
		response.ServerError(w, "Errro in Category")
		return
	}
	response.Created(w, "new category created", response.M{"category": cat})
}

// Update handles PUT /category/update-category/{id}. Admin only.
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in categoryInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	cat, err := c.catalog.UpdateCategory(r.Context(), id, in.Name)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w, "Category not found")
	case errors.Is(err, services.ErrSlugTaken):
		response.Fail(w, http.StatusConflict, "Category Already Exisits")
	case err != nil:
		logger.WithCtx(r.Context()).Error("category update failed", "id", id, "error", err)
		response.ServerError(w, "Error while updating category")
	default:
		response.OK(w, "Category Updated Successfully", response.M{"category": cat})
	}
}

// Delete handles DELETE /category/delete-category/{id}. Admin only.
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := c.catalog.DeleteCategory(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Category not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("category delete failed", "id", id, "error", err)
		response.ServerError(w, "error while deleting category")
		return
	}
	response.OK(w, "Categry Deleted Successfully", nil)
}

// List handles GET /category/get-category.
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	cats, err := c.catalog.Categories(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("category list failed", "error", err)
		response.ServerError(w, "Error while getting all categories")
		return
	}
	response.OK(w, "All Categories List", response.M{"category": cats})
}

// Get handles GET /category/single-category/{slug}.
func (c *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	cat, err := c.catalog.CategoryBySlug(r.Context(), slug)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "Category not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("category get failed", "slug", slug, "error", err)
		response.ServerError(w, "Error While getting Single Category")
		return
	}
	response.OK(w, "Get SIngle Category SUccessfully", response.M{"category": cat})
}
