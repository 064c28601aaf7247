package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestBookingRepositoryCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts open booking", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Create(context.Background(), &models.Booking{
			Email:       "b@x.com",
			ProductName: "Pixel 4",
			Price:       120,
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	mt.Run("concurrent duplicate hits the index", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: swapdealDB.bookings index: email_1_product_name_1",
		}))

		_, err := repo.Create(context.Background(), &models.Booking{
			Email:       "b@x.com",
			ProductName: "Pixel 4",
			Price:       120,
		})
		assert.ErrorIs(t, err, pkgerrors.ErrBookingExists)
	})
}

func TestBookingRepositoryExistsOpen(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("open booking found", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "swapdealDB.bookings", mtest.FirstBatch, bson.D{
			{Key: "n", Value: 1},
		}))

		exists, err := repo.ExistsOpen(context.Background(), "b@x.com", "Pixel 4")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	mt.Run("no open booking", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "swapdealDB.bookings", mtest.FirstBatch))

		exists, err := repo.ExistsOpen(context.Background(), "b@x.com", "Pixel 4")
		assert.NoError(t, err)
		assert.False(t, exists)
	})
}
