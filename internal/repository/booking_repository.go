package repository

import (
	"context"

	"github.com/swapdeal/swapdeal-api/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]models.Booking, error)
	// ExistsOpen reports whether an unpaid booking already exists for the
	// given buyer and product.
	ExistsOpen(ctx context.Context, email, productName string) (bool, error)
}
