package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestProductRepositorySetAdvertised(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("promotes flag and sale status together", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.SetAdvertised(context.Background(), id.Hex())
		assert.NoError(t, err)

		evt := mt.GetStartedEvent()
		assert.Equal(t, "update", evt.CommandName)
		values, err := evt.Command.Lookup("updates").Array().Values()
		assert.NoError(t, err)
		set := values[0].Document().Lookup("u").Document().Lookup("$set").Document()
		assert.True(t, set.Lookup("is_advertised").Boolean())
		assert.Equal(t, string(models.SaleAdvertised), set.Lookup("sale_status").StringValue())
	})

	mt.Run("missing product", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.SetAdvertised(context.Background(), id.Hex())
		assert.ErrorIs(t, err, pkgerrors.ErrProductNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)

		err := repo.SetAdvertised(context.Background(), "garbage")
		assert.ErrorIs(t, err, pkgerrors.ErrProductNotFound)
	})
}

func TestProductRepositoryMarkSoldByName(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("marks every product with the name", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 2},
		))

		matched, err := repo.MarkSoldByName(context.Background(), "Pixel 4")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), matched)
	})

	mt.Run("unknown name", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		_, err := repo.MarkSoldByName(context.Background(), "Unknown")
		assert.ErrorIs(t, err, pkgerrors.ErrProductNotFound)
	})
}

func TestProductRepositoryListByCategory(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes documents", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "swapdealDB.products", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: first},
				{Key: "name", Value: "Pixel 4"},
				{Key: "seller_email", Value: "s@x.com"},
				{Key: "category", Value: "phones"},
				{Key: "price", Value: 120.0},
				{Key: "sale_status", Value: "available"},
			}),
			mtest.CreateCursorResponse(1, "swapdealDB.products", mtest.NextBatch, bson.D{
				{Key: "_id", Value: second},
				{Key: "name", Value: "iPhone 8"},
				{Key: "seller_email", Value: "s@x.com"},
				{Key: "category", Value: "phones"},
				{Key: "price", Value: 150.0},
				{Key: "sale_status", Value: "available"},
			}),
			mtest.CreateCursorResponse(0, "swapdealDB.products", mtest.NextBatch),
		)

		products, err := repo.ListByCategory(context.Background(), "phones", true)
		assert.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Equal(t, "Pixel 4", products[0].Name)
		assert.Equal(t, "iPhone 8", products[1].Name)
	})

	mt.Run("empty category", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "swapdealDB.products", mtest.FirstBatch))

		products, err := repo.ListByCategory(context.Background(), "empty", false)
		assert.NoError(t, err)
		assert.Empty(t, products)
	})
}
