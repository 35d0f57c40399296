package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/grocery/admin/internal/application/catalog"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List returns the filtered product table.
// GET /products?search=&category=&status=&refresh=
func (h *ProductHandler) List(c *gin.Context) {
	var q ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	page, err := h.productService.List(c.Request.Context(), q.Criteria(), q.Refresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, page, page.Total, page.Count, page.Summary)
}

// Get returns one product with its edit form values.
// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ObjectID(c)
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create adds a product.
// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req.Draft())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update replaces a product's editable fields.
// PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ObjectID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req.Draft())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetStatus sets or toggles the active flag.
// PATCH /products/:id/status
func (h *ProductHandler) SetStatus(c *gin.Context) {
	id, ok := h.ObjectID(c)
	if !ok {
		return
	}
	var req ActiveRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	var (
		row *catalogapp.ProductRow
		err error
	)
	if req.IsActive == nil {
		row, err = h.productService.ToggleActive(c.Request.Context(), id)
	} else {
		row, err = h.productService.SetActive(c.Request.Context(), id, *req.IsActive)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// Delete removes a product. It is refused unless confirm=true.
// DELETE /products/:id?confirm=true
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ObjectID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id, confirmed(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// confirmed reads the confirm query flag; anything unparsable is false
func confirmed(c *gin.Context) bool {
	ok, err := strconv.ParseBool(c.Query("confirm"))
	return err == nil && ok
}
