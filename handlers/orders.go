package handlers

import (
	"net/http"

	"carvewood-storefront/cms"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	CMS *cms.Client
}

// GetOrders lists the logged-in user's orders, fetched from the CMS with
// the session's bearer token.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.CMS.ListOrders(c.Request.Context(), c.GetString("cms_token"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}
