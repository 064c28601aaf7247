package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

func (s *marketService) CreateBooking(ctx context.Context, booking *models.Booking) (string, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "CreateBooking")
	defer span.End()

	if booking.Email == "" || booking.ProductName == "" {
		span.SetStatus(codes.Error, "invalid booking")
		return "", pkgerrors.ErrInvalidInput
	}

	exists, err := s.bookingRepo.ExistsOpen(ctx, booking.Email, booking.ProductName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "duplicate check failed")
		slog.Error("failed to check existing booking",
			"email", booking.Email,
			"product", booking.ProductName,
			"error", err)
		return "", fmt.Errorf("%w: failed to check existing booking", pkgerrors.ErrInternal)
	}
	if exists {
		span.SetStatus(codes.Error, "already booked")
		slog.Warn("duplicate booking rejected",
			"email", booking.Email,
			"product", booking.ProductName)
		return "", pkgerrors.ErrBookingExists
	}

	id, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "booking creation failed")
		slog.Error("failed to create booking", "email", booking.Email, "error", err)
		return "", fmt.Errorf("%w: failed to create booking", pkgerrors.ErrInternal)
	}

	s.publish(ctx, "booking_created", id, map[string]interface{}{
		"booking_id": id,
		"email":      booking.Email,
		"product":    booking.ProductName,
		"price":      booking.Price,
	})

	slog.Info("booking created", "id", id, "email", booking.Email, "product", booking.ProductName)
	return id, nil
}

func (s *marketService) BookingsByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return s.bookingRepo.ListByEmail(ctx, email)
}

func (s *marketService) Booking(ctx context.Context, id string) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// CreatePaymentIntent converts the price to minor currency units and returns
// only the processor's client-side confirmation secret.
func (s *marketService) CreatePaymentIntent(ctx context.Context, price float64) (string, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "CreatePaymentIntent")
	defer span.End()

	if price <= 0 {
		span.SetStatus(codes.Error, "invalid price")
		return "", pkgerrors.ErrInvalidInput
	}

	amount := int64(math.Round(price * 100))
	secret, err := s.intents.CreateIntent(ctx, amount, "usd")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "intent creation failed")
		return "", fmt.Errorf("%w: failed to create payment intent", pkgerrors.ErrInternal)
	}

	slog.Info("payment intent created", "amount", amount)
	return secret, nil
}

func (s *marketService) RecordPayment(ctx context.Context, payment *models.Payment) (string, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "RecordPayment")
	defer span.End()

	if payment.BookingID == "" || payment.TransactionID == "" {
		span.SetStatus(codes.Error, "invalid payment")
		return "", pkgerrors.ErrInvalidInput
	}

	id, err := s.paymentRepo.Record(ctx, payment)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment recording failed")
		slog.Error("failed to record payment",
			"booking_id", payment.BookingID,
			"transaction_id", payment.TransactionID,
			"error", err)
		return "", err
	}

	s.publish(ctx, "payment_recorded", id, map[string]interface{}{
		"payment_id":     id,
		"booking_id":     payment.BookingID,
		"transaction_id": payment.TransactionID,
		"amount":         payment.Amount,
	})

	slog.Info("payment recorded", "id", id, "booking_id", payment.BookingID)
	return id, nil
}
