package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

func (s *marketService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// CategoryProducts resolves the category first; an unknown id is an explicit
// not-found, then returns the unsold products carrying the category name.
func (s *marketService) CategoryProducts(ctx context.Context, categoryID string) ([]models.Product, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.ListByCategory(ctx, category.Name, true)
}

func (s *marketService) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "CreateProduct")
	defer span.End()

	if product.Name == "" || product.Category == "" || product.Price <= 0 {
		span.SetStatus(codes.Error, "invalid product")
		return "", pkgerrors.ErrInvalidInput
	}

	if _, err := s.categoryRepo.GetByName(ctx, product.Category); err != nil {
		span.SetStatus(codes.Error, "unknown category")
		slog.Warn("create product with unknown category",
			"category", product.Category,
			"seller", product.SellerEmail)
		return "", err
	}

	product.SaleStatus = models.SaleAvailable
	product.IsAdvertised = false
	product.IsReported = false
	product.CreatedAt = time.Now().UTC()

	id, err := s.productRepo.Create(ctx, product)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "product creation failed")
		slog.Error("failed to create product", "name", product.Name, "error", err)
		return "", fmt.Errorf("%w: failed to create product", pkgerrors.ErrInternal)
	}

	slog.Info("product created", "id", id, "name", product.Name, "seller", product.SellerEmail)
	return id, nil
}

func (s *marketService) SellerProducts(ctx context.Context, email string) ([]models.Product, error) {
	return s.productRepo.ListBySeller(ctx, email)
}

// AdvertiseProduct is idempotent: repeating it leaves the product in the
// same end state.
func (s *marketService) AdvertiseProduct(ctx context.Context, id string) error {
	if err := s.productRepo.SetAdvertised(ctx, id); err != nil {
		slog.Error("failed to advertise product", "id", id, "error", err)
		return err
	}
	slog.Info("product advertised", "id", id)
	return nil
}

func (s *marketService) AdvertisedProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.ListAdvertised(ctx)
}

func (s *marketService) ReportProduct(ctx context.Context, id string) error {
	if err := s.productRepo.SetReported(ctx, id); err != nil {
		slog.Error("failed to report product", "id", id, "error", err)
		return err
	}
	slog.Info("product reported", "id", id)
	return nil
}

func (s *marketService) ReportedProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.ListReported(ctx)
}

func (s *marketService) MarkSold(ctx context.Context, productName string) (int64, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "MarkSold")
	defer span.End()

	matched, err := s.productRepo.MarkSoldByName(ctx, productName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mark sold failed")
		slog.Error("failed to mark products sold", "name", productName, "error", err)
		return 0, err
	}

	slog.Info("products marked sold", "name", productName, "matched", matched)
	return matched, nil
}

// DeleteProduct is allowed for the owning seller and for admins.
func (s *marketService) DeleteProduct(ctx context.Context, id, actorEmail string) error {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "DeleteProduct")
	defer span.End()

	actor, err := s.ResolveRole(ctx, actorEmail)
	if err != nil {
		span.SetStatus(codes.Error, "actor not found")
		return pkgerrors.ErrForbidden
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() && !(actor.IsSeller() && product.SellerEmail == actorEmail) {
		span.SetStatus(codes.Error, "forbidden")
		slog.Warn("product delete forbidden", "id", id, "actor", actorEmail)
		return pkgerrors.ErrForbidden
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		slog.Error("failed to delete product", "id", id, "error", err)
		return err
	}

	slog.Info("product deleted", "id", id, "actor", actorEmail)
	return nil
}
