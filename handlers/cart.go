package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"carvewood-storefront/cart"
	"carvewood-storefront/cms"
	"carvewood-storefront/utils"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	Carts *cart.Manager
	CMS   *cms.Client
}

// store resolves the visitor's cart store from the session id set by the
// session middleware.
func (h *CartHandler) store(c *gin.Context) (*cart.Store, bool) {
	id := c.GetString("session_id")
	if id == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No session"})
		return nil, false
	}
	return h.Carts.Store(id), true
}

func cartState(s *cart.Store) gin.H {
	return gin.H{
		"items": s.Items(),
		"count": s.Count(),
		"total": s.Total(),
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	s, ok := h.store(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cartState(s))
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	s, ok := h.store(c)
	if !ok {
		return
	}

	var req struct {
		ProductID int `json:"product_id" binding:"required"`
		Quantity  int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	// The line item is built from the catalog record, not the request
	// body, so price and name can't be spoofed by the client.
	product, err := h.CMS.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog unavailable"})
		return
	}

	image := cms.PlaceholderImage
	if len(product.Images) > 0 {
		image = product.Images[0].URL
	}

	s.AddItem(cart.LineItem{
		ID:    strconv.Itoa(product.ID),
		Name:  product.Name,
		Price: product.Price,
		Image: image,
	}, req.Quantity)

	c.JSON(http.StatusOK, cartState(s))
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	s, ok := h.store(c)
	if !ok {
		return
	}

	var req struct {
		// Pointer so that 0 (remove) binds as present.
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	s.UpdateQuantity(c.Param("id"), *req.Quantity)
	c.JSON(http.StatusOK, cartState(s))
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	s, ok := h.store(c)
	if !ok {
		return
	}

	s.RemoveItem(c.Param("id"))
	c.JSON(http.StatusOK, cartState(s))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	s, ok := h.store(c)
	if !ok {
		return
	}

	s.Clear()
	c.JSON(http.StatusOK, cartState(s))
}
