package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bookingCollectionName = "bookings"

type BookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{collection: db.Collection(bookingCollectionName)}
}

type bookingDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	ProductName   string             `bson:"product_name"`
	Price         float64            `bson:"price"`
	Paid          bool               `bson:"paid"`
	TransactionID string             `bson:"transaction_id,omitempty"`
	CreatedAt     primitive.DateTime `bson:"created_at"`
}

func toBooking(doc *bookingDocument) models.Booking {
	return models.Booking{
		ID:            doc.ID.Hex(),
		Email:         doc.Email,
		ProductName:   doc.ProductName,
		Price:         doc.Price,
		Paid:          doc.Paid,
		TransactionID: doc.TransactionID,
		CreatedAt:     doc.CreatedAt.Time(),
	}
}

// EnsureIndexes creates a partial unique index on (email, product_name) over
// open bookings. The service checks for duplicates before inserting; the
// index is the backstop under concurrency. Paid bookings don't count, so a
// product can be booked again after a sale falls through.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "product_name", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"paid": false}),
	})
	if err != nil {
		return fmt.Errorf("failed to create open booking index: %w", err)
	}
	return nil
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) (string, error) {
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	doc := &bookingDocument{
		Email:       booking.Email,
		ProductName: booking.ProductName,
		Price:       booking.Price,
		Paid:        false,
		CreatedAt:   primitive.NewDateTimeFromTime(booking.CreatedAt),
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", pkgerrors.ErrBookingExists
		}
		return "", fmt.Errorf("failed to create booking: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, pkgerrors.ErrBookingNotFound
	}

	var doc bookingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by id %s: %w", id, err)
	}
	booking := toBooking(&doc)
	return &booking, nil
}

func (r *BookingRepository) ListByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for %s: %w", email, err)
	}

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]models.Booking, 0, len(docs))
	for i := range docs {
		bookings = append(bookings, toBooking(&docs[i]))
	}
	return bookings, nil
}

func (r *BookingRepository) ExistsOpen(ctx context.Context, email, productName string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"email":        email,
		"product_name": productName,
		"paid":         false,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check open booking: %w", err)
	}
	return count > 0, nil
}
