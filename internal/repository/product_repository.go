package repository

import (
	"context"

	"github.com/swapdeal/swapdeal-api/internal/models"
)

// ProductRepository updates never upsert: an update that matches nothing
// returns ErrProductNotFound instead of creating a document.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (string, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListByCategory(ctx context.Context, category string, excludeSold bool) ([]models.Product, error)
	ListBySeller(ctx context.Context, email string) ([]models.Product, error)
	ListAdvertised(ctx context.Context) ([]models.Product, error)
	ListReported(ctx context.Context) ([]models.Product, error)
	SetAdvertised(ctx context.Context, id string) error
	SetReported(ctx context.Context, id string) error
	MarkSoldByName(ctx context.Context, name string) (int64, error)
	Delete(ctx context.Context, id string) error
}
