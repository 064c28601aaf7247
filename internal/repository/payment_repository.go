package repository

import (
	"context"

	"github.com/swapdeal/swapdeal-api/internal/models"
)

type PaymentRepository interface {
	// Record inserts the payment and marks the referenced booking paid in a
	// single transaction: both writes land or neither does. Returns
	// ErrBookingNotFound when the booking does not exist.
	Record(ctx context.Context, payment *models.Payment) (string, error)
}
