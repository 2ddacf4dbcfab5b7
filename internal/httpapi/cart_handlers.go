package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
)

// GET /api/cart
func (h *handler) getCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), cartIDFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Envelope[any]{Success: true, Data: api.FromCart(cart, h.currency)})
}

// POST /api/cart
func (h *handler) addToCart(c *gin.Context) {
	var req api.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, quantityBindingError(err, "productId and quantity are required"))
		return
	}

	productID, err := domain.ParseProductID(req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}

	cart, err := h.carts.Add(c.Request.Context(), cartIDFrom(c), productID, int(req.Quantity))
	if err != nil {
		writeError(c, err)
		return
	}

	h.writeCart(c, api.MsgCartUpdated, cart)
}

// PUT /api/cart/:productId
func (h *handler) updateCartItem(c *gin.Context) {
	productID, err := domain.ParseProductID(c.Param("productId"))
	if err != nil {
		writeError(c, err)
		return
	}

	var req api.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, quantityBindingError(err, "quantity must be a positive integer"))
		return
	}

	cart, err := h.carts.UpdateQuantity(c.Request.Context(), cartIDFrom(c), productID, int(req.Quantity))
	if err != nil {
		writeError(c, err)
		return
	}

	h.writeCart(c, api.MsgCartUpdated, cart)
}

// DELETE /api/cart/:productId
func (h *handler) removeFromCart(c *gin.Context) {
	productID, err := domain.ParseProductID(c.Param("productId"))
	if err != nil {
		writeError(c, err)
		return
	}

	cart, err := h.carts.Remove(c.Request.Context(), cartIDFrom(c), productID)
	if err != nil {
		writeError(c, err)
		return
	}

	h.writeCart(c, api.MsgItemRemoved, cart)
}

// DELETE /api/cart
func (h *handler) clearCart(c *gin.Context) {
	cart, err := h.carts.Clear(c.Request.Context(), cartIDFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	h.writeCart(c, api.MsgCartCleared, cart)
}

func (h *handler) writeCart(c *gin.Context, message string, cart domain.Cart) {
	c.JSON(http.StatusOK, api.Envelope[any]{
		Success: true,
		Message: message,
		Data:    api.FromCart(cart, h.currency),
	})
}

// quantityBindingError keeps the detail of a quantity that failed to decode.
func quantityBindingError(err error, detail string) error {
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	return bindingError(detail)
}
