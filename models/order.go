package models

type Order struct {
	ID          int       `json:"id"`
	OrderNumber string    `json:"order_number"`
	OrderDate   string    `json:"order_date"`
	TotalAmount float64   `json:"total_amount"`
	Products    []Product `json:"products"`
}
