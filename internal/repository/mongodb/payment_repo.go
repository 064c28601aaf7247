package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const paymentCollectionName = "payments"

type PaymentRepository struct {
	client   *mongo.Client
	payments *mongo.Collection
	bookings *mongo.Collection
}

func NewPaymentRepository(client *mongo.Client, db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{
		client:   client,
		payments: db.Collection(paymentCollectionName),
		bookings: db.Collection(bookingCollectionName),
	}
}

type paymentDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	BookingID     primitive.ObjectID `bson:"booking_id"`
	TransactionID string             `bson:"transaction_id"`
	Amount        int64              `bson:"amount"`
	CreatedAt     primitive.DateTime `bson:"created_at"`
}

// Record runs the payment insert and the booking update inside one session
// transaction, so a crash between the two writes cannot leave a payment
// without the matching booking state. Requires a replica-set deployment.
func (r *PaymentRepository) Record(ctx context.Context, payment *models.Payment) (string, error) {
	bookingObjID, err := primitive.ObjectIDFromHex(payment.BookingID)
	if err != nil {
		return "", pkgerrors.ErrBookingNotFound
	}

	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	doc := &paymentDocument{
		BookingID:     bookingObjID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		CreatedAt:     primitive.NewDateTimeFromTime(payment.CreatedAt),
	}

	session, err := r.client.StartSession()
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	insertedID, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.payments.InsertOne(sc, doc)
		if err != nil {
			return nil, fmt.Errorf("failed to insert payment: %w", err)
		}

		update, err := r.bookings.UpdateOne(sc,
			bson.M{"_id": bookingObjID},
			bson.M{"$set": bson.M{"paid": true, "transaction_id": payment.TransactionID}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to mark booking paid: %w", err)
		}
		if update.MatchedCount == 0 {
			return nil, pkgerrors.ErrBookingNotFound
		}
		return res.InsertedID, nil
	})
	if err != nil {
		return "", err
	}

	objectID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}
