package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/swapdeal/swapdeal-api/internal/infrastructure/kafka"
	"github.com/swapdeal/swapdeal-api/internal/infrastructure/payments"
	"github.com/swapdeal/swapdeal-api/internal/infrastructure/redis"
	"github.com/swapdeal/swapdeal-api/internal/models"
	"github.com/swapdeal/swapdeal-api/internal/repository"
)

const tracerName = "swapdeal-api"

// TokenIssuer mints a signed credential for an already-known email.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

type MarketService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	CategoryProducts(ctx context.Context, categoryID string) ([]models.Product, error)

	CreateProduct(ctx context.Context, product *models.Product) (string, error)
	SellerProducts(ctx context.Context, email string) ([]models.Product, error)
	AdvertiseProduct(ctx context.Context, id string) error
	AdvertisedProducts(ctx context.Context) ([]models.Product, error)
	ReportProduct(ctx context.Context, id string) error
	ReportedProducts(ctx context.Context) ([]models.Product, error)
	MarkSold(ctx context.Context, productName string) (int64, error)
	DeleteProduct(ctx context.Context, id, actorEmail string) error

	RegisterUser(ctx context.Context, user *models.User) (string, error)
	Profile(ctx context.Context, email string) (*models.User, error)
	UsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	VerifySeller(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
	ResolveRole(ctx context.Context, email string) (*models.User, error)
	Token(ctx context.Context, email string) (string, error)

	CreateBooking(ctx context.Context, booking *models.Booking) (string, error)
	BookingsByEmail(ctx context.Context, email string) ([]models.Booking, error)
	Booking(ctx context.Context, id string) (*models.Booking, error)

	CreatePaymentIntent(ctx context.Context, price float64) (string, error)
	RecordPayment(ctx context.Context, payment *models.Payment) (string, error)
}

type marketService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	bookingRepo  repository.BookingRepository
	paymentRepo  repository.PaymentRepository
	redisClient  redis.RedisClient
	producer     kafka.EventProducer
	intents      payments.IntentClient
	tokens       TokenIssuer
}

func NewMarketService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	redisClient redis.RedisClient,
	producer kafka.EventProducer,
	intents payments.IntentClient,
	tokens TokenIssuer,
) *marketService {
	return &marketService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		redisClient:  redisClient,
		producer:     producer,
		intents:      intents,
		tokens:       tokens,
	}
}

// publish sends a marketplace event. Failures are logged and never surface
// to the caller: the write has already committed by the time we get here.
func (s *marketService) publish(ctx context.Context, eventType, key string, fields map[string]interface{}) {
	event := map[string]interface{}{
		"event_type": eventType,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		event[k] = v
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal event", "event_type", eventType, "error", err)
		return
	}
	if err := s.producer.Send(ctx, key, eventBytes); err != nil {
		slog.Error("failed to send event", "event_type", eventType, "key", key, "error", err)
	}
}
