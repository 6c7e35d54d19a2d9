package models

import (
	"encoding/json"
	"time"
)

// Product is the strict shape of a catalog record once it has crossed the
// CMS boundary. Image URLs are already resolved to absolute form, and the
// rich-text description is carried opaquely for the storefront to render.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       float64         `json:"price"`
	Images      []Image         `json:"images"`
	Description json.RawMessage `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
}

type Image struct {
	URL string `json:"url"`
}
