package cms

import (
	"context"
	"net/http"

	"carvewood-storefront/models"
)

type orderRecord struct {
	ID          int             `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	OrderDate   string          `json:"orderDate"`
	TotalAmount float64         `json:"totalAmount"`
	Products    []productRecord `json:"products"`
}

// ListOrders fetches the orders belonging to the holder of the given
// bearer token.
func (c *Client) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	var env struct {
		Data []orderRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders?populate=*", token, nil, &env); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(env.Data))
	for _, rec := range env.Data {
		order := models.Order{
			ID:          rec.ID,
			OrderNumber: rec.OrderNumber,
			OrderDate:   rec.OrderDate,
			TotalAmount: rec.TotalAmount,
			Products:    make([]models.Product, 0, len(rec.Products)),
		}
		for _, pr := range rec.Products {
			if p, ok := c.coerceProduct(pr); ok {
				order.Products = append(order.Products, p)
			}
		}
		orders = append(orders, order)
	}
	return orders, nil
}
