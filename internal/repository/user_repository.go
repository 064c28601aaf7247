package repository

import (
	"context"

	"github.com/swapdeal/swapdeal-api/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	SetVerified(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.User, error)
}
