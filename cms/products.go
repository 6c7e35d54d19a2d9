package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"carvewood-storefront/models"
)

// productRecord is the CMS's loosely-typed shape for one catalog entry.
type productRecord struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       float64         `json:"price"`
	Description json.RawMessage `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// ProductInput is the payload forwarded to the CMS for catalog writes.
type ProductInput struct {
	Name        string          `json:"name"`
	Price       float64         `json:"price"`
	Description json.RawMessage `json:"description,omitempty"`
}

// ListProducts fetches the full catalog. Records that fail boundary
// validation are skipped, not fatal.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var env struct {
		Data []productRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products?populate=*", "", nil, &env); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(env.Data))
	for _, rec := range env.Data {
		p, ok := c.coerceProduct(rec)
		if !ok {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// GetProduct fetches a single catalog entry. A missing or invalid record
// is ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int) (models.Product, error) {
	var env struct {
		Data *productRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d?populate=*", id), "", nil, &env); err != nil {
		return models.Product{}, err
	}
	if env.Data == nil {
		return models.Product{}, ErrNotFound
	}
	p, ok := c.coerceProduct(*env.Data)
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

// CreateProduct adds a catalog entry on behalf of an admin session.
func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (models.Product, error) {
	return c.writeProduct(ctx, http.MethodPost, "/api/products", token, in)
}

// UpdateProduct replaces the mutable fields of a catalog entry.
func (c *Client) UpdateProduct(ctx context.Context, token string, id int, in ProductInput) (models.Product, error) {
	return c.writeProduct(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", id), token, in)
}

// DeleteProduct removes a catalog entry.
func (c *Client) DeleteProduct(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), token, nil, nil)
}

func (c *Client) writeProduct(ctx context.Context, method, path, token string, in ProductInput) (models.Product, error) {
	body := map[string]ProductInput{"data": in}
	var env struct {
		Data *productRecord `json:"data"`
	}
	if err := c.do(ctx, method, path, token, body, &env); err != nil {
		return models.Product{}, err
	}
	if env.Data == nil {
		return models.Product{}, fmt.Errorf("cms: %s %s returned no record", method, path)
	}
	p, _ := c.coerceProduct(*env.Data)
	return p, nil
}

// coerceProduct validates a raw CMS record and converts it into the
// strict internal shape. Records without an id or name, or with a
// negative price, are rejected here so nothing downstream has to
// re-check them.
func (c *Client) coerceProduct(rec productRecord) (models.Product, bool) {
	if rec.ID == 0 || rec.Name == "" {
		return models.Product{}, false
	}
	if rec.Price < 0 {
		log.Printf("cms: skipping product %d with negative price %v", rec.ID, rec.Price)
		return models.Product{}, false
	}

	images := make([]models.Image, 0, len(rec.Images))
	for _, img := range rec.Images {
		if img.URL == "" {
			continue
		}
		images = append(images, models.Image{URL: ResolveMediaURL(c.baseURL, img.URL)})
	}

	return models.Product{
		ID:          rec.ID,
		Name:        rec.Name,
		Price:       rec.Price,
		Images:      images,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
	}, true
}
