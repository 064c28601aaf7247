package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swapdeal/swapdeal-api/internal/api"
	"github.com/swapdeal/swapdeal-api/internal/config"
	"github.com/swapdeal/swapdeal-api/internal/infrastructure/auth"
	"github.com/swapdeal/swapdeal-api/internal/infrastructure/kafka"
	"github.com/swapdeal/swapdeal-api/internal/infrastructure/payments"
	"github.com/swapdeal/swapdeal-api/internal/infrastructure/redis"
	"github.com/swapdeal/swapdeal-api/internal/observability"
	"github.com/swapdeal/swapdeal-api/internal/repository/mongodb"
	service "github.com/swapdeal/swapdeal-api/internal/services"
)

func main() {
	shutdown := observability.Setup("swapdeal-api")
	defer shutdown(context.Background())

	cfg := config.Load()

	client, err := mongodb.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)

	categoryRepo := mongodb.NewCategoryRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(client, db)

	if err := userRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	if err := bookingRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	redisClient, err := redis.NewClient(cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	producer := kafka.NewProducer(cfg.KafkaBrokers, "marketplace-events")
	defer producer.Close()

	intents := payments.NewStripeClient(cfg.StripeSecretKey)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)

	svc := service.NewMarketService(
		categoryRepo, productRepo, userRepo, bookingRepo, paymentRepo,
		redisClient, producer, intents, jwtManager,
	)

	router := api.SetupRouter(svc, jwtManager)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	go func() {
		log.Printf("Starting server on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
