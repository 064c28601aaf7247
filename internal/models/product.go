package models

import "time"

// SaleStatus tracks a product through its lifecycle: listed as available,
// optionally promoted to advertised, and finally paid once a sale settles.
type SaleStatus string

const (
	SaleAvailable  SaleStatus = "available"
	SaleAdvertised SaleStatus = "advertised"
	SalePaid       SaleStatus = "paid"
)

type Product struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	SellerEmail  string     `json:"seller_email"`
	Category     string     `json:"category"`
	Price        float64    `json:"price"`
	SaleStatus   SaleStatus `json:"sale_status"`
	IsAdvertised bool       `json:"is_advertised"`
	IsReported   bool       `json:"is_reported"`
	Image        string     `json:"image,omitempty"`
	Location     string     `json:"location,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
