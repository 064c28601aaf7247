package models

import "time"

type Booking struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	ProductName   string    `json:"product_name"`
	Price         float64   `json:"price"`
	Paid          bool      `json:"paid"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Payment is append-only: a row is written once when a booking is paid
// and never updated afterwards. Amount is in minor currency units.
type Payment struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}
