package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"carvewood-storefront/cms"
	"carvewood-storefront/models"
	"carvewood-storefront/utils"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	CMS *cms.Client
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.CMS.ListProducts(c.Request.Context())
	if err != nil {
		// The storefront renders an empty grid rather than an error page.
		log.Printf("products: list failed: %v", err)
		c.JSON(http.StatusOK, []models.Product{})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.CMS.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, product)
}

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Description string  `json:"description"`
}

// richText wraps plain text in the CMS's block-based rich text shape, a
// single paragraph.
func richText(text string) json.RawMessage {
	blocks := []map[string]interface{}{
		{
			"type": "paragraph",
			"children": []map[string]interface{}{
				{"type": "text", "text": text},
			},
		},
	}
	raw, _ := json.Marshal(blocks)
	return raw
}

func (r productRequest) input() cms.ProductInput {
	in := cms.ProductInput{Name: r.Name, Price: r.Price}
	if r.Description != "" {
		in.Description = richText(r.Description)
	}
	return in
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	product, err := h.CMS.CreateProduct(c.Request.Context(), c.GetString("cms_token"), req.input())
	if err != nil {
		if errors.Is(err, cms.ErrUnauthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "CMS rejected your credentials, please log in again"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	product, err := h.CMS.UpdateProduct(c.Request.Context(), c.GetString("cms_token"), id, req.input())
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if errors.Is(err, cms.ErrUnauthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "CMS rejected your credentials, please log in again"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if err := h.CMS.DeleteProduct(c.Request.Context(), c.GetString("cms_token"), id); err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if errors.Is(err, cms.ErrUnauthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "CMS rejected your credentials, please log in again"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
