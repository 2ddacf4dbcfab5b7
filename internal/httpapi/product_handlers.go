package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
)

// GET /api/products
func (h *handler) listProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter := domain.NewProductFilter(page, limit, c.Query("category"), c.Query("sort"), c.Query("order"))

	result, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Envelope[any]{
		Success: true,
		Data:    api.FromProducts(result.Products),
		Pagination: &api.Pagination{
			CurrentPage:  result.Page,
			TotalPages:   result.TotalPages(),
			TotalItems:   result.TotalItems,
			ItemsPerPage: result.Limit,
		},
	})
}

// GET /api/products/:id
func (h *handler) getProduct(c *gin.Context) {
	id, err := domain.ParseProductID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Envelope[any]{Success: true, Data: api.FromProduct(p)})
}

// POST /api/products
func (h *handler) createProduct(c *gin.Context) {
	var req api.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindingError("name, description, price, category, imageUrl and stock are required"))
		return
	}

	p, err := req.ToDomain(h.currency)
	if err != nil {
		writeError(c, err)
		return
	}

	created, err := h.products.Create(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.Envelope[any]{
		Success: true,
		Message: api.MsgProductCreated,
		Data:    api.FromProduct(created),
	})
}

// PUT /api/products/:id
func (h *handler) updateProduct(c *gin.Context) {
	id, err := domain.ParseProductID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	var req api.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindingError(err.Error()))
		return
	}

	patch, err := req.ToPatch(h.currency)
	if err != nil {
		writeError(c, err)
		return
	}

	updated, err := h.products.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Envelope[any]{
		Success: true,
		Message: api.MsgProductUpdated,
		Data:    api.FromProduct(updated),
	})
}

// DELETE /api/products/:id
func (h *handler) deleteProduct(c *gin.Context) {
	id, err := domain.ParseProductID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Envelope[any]{Success: true, Message: api.MsgProductDeleted})
}
