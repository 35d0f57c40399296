package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/grocery/admin/internal/application/catalog"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// List returns the filtered category table. The category selector is ignored.
// GET /categories?search=&status=&refresh=
func (h *CategoryHandler) List(c *gin.Context) {
	var q ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	page, err := h.categoryService.List(c.Request.Context(), q.Criteria(), q.Refresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, page, page.Total, page.Count, page.Summary)
}

// Get returns one category with its resolved icon.
// GET /categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := h.ObjectID(c)
	if !ok {
		return
	}

	cat, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cat)
}

// Create adds a category.
// POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat, err := h.categoryService.Create(c.Request.Context(), req.Draft())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cat)
}

// Update replaces a category's editable fields.
// PUT /categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.ObjectID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat, err := h.categoryService.Update(c.Request.Context(), id, req.Draft())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cat)
}

// SetStatus sets or toggles the active flag.
// PATCH /categories/:id/status
func (h *CategoryHandler) SetStatus(c *gin.Context) {
	id, ok := h.ObjectID(c)
	if !ok {
		return
	}
	var req ActiveRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	var (
		row *catalogapp.CategoryRow
		err error
	)
	if req.IsActive == nil {
		row, err = h.categoryService.ToggleActive(c.Request.Context(), id)
	} else {
		row, err = h.categoryService.SetActive(c.Request.Context(), id, *req.IsActive)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// Delete removes a category. It is refused unless confirm=true.
// DELETE /categories/:id?confirm=true
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.ObjectID(c)
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id, confirmed(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

